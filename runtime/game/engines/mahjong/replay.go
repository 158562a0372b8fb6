package mahjong

import (
	"fmt"
)

// Script is a recorded match: a wall source plus the inputs of every hand.
// Input tokens in a script are ignored; replay stamps the live token.
type Script struct {
	Users [4]string `json:"users"`
	Seed  int64     `json:"seed"`
	Hands [][]Input `json:"hands"`
}

// ReplayResult holds what a replay produced. Hand is the last hand dealt,
// which is still live when the script stops mid-hand.
type ReplayResult struct {
	Settlements []*Settlement
	Match       *Match
	Hand        *Hand
}

// Replay drives a fresh match through hands. The same rules, walls and
// inputs always produce the same settlements.
func Replay(rules Rules, eval Evaluator, walls WallSource, users [4]string, hands [][]Input) (*ReplayResult, error) {
	rules.StepDelay = 0
	m := NewMatch(rules, users, eval)
	res := &ReplayResult{Match: m}
	for n, inputs := range hands {
		if m.Over {
			return res, fmt.Errorf("script has %d hands, match ended after %d", len(hands), n)
		}
		h, err := m.NextHand(walls.Wall(n), nil)
		if err != nil {
			return res, fmt.Errorf("deal hand %d: %w", n, err)
		}
		res.Hand = h
		for i, in := range inputs {
			in.Token = h.Token
			if err := h.Apply(in); err != nil {
				return res, fmt.Errorf("hand %d input %d: %w", n, i, err)
			}
		}
		if !h.Ended() {
			return res, nil
		}
		if h.Phase == PhaseHalted {
			return res, h.Err
		}
		res.Settlements = append(res.Settlements, h.Settlement)
		if err := m.Finish(h.Settlement); err != nil {
			return res, err
		}
	}
	return res, nil
}

// ReplayScript replays s with seeded walls.
func ReplayScript(rules Rules, eval Evaluator, s Script) (*ReplayResult, error) {
	return Replay(rules, eval, ShuffledWalls{Seed: s.Seed}, s.Users, s.Hands)
}
