package mahjong

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

const (
	DefaultInitialPoints = 25000
	HandsEastOnly        = 4
	HandsHanchan         = 8
)

type Rules struct {
	InitialPoints int
	Hands         int // dealer rotations before the game ends
	AutoDraw      bool
	StepDelay     time.Duration
}

func DefaultRules() Rules {
	return Rules{InitialPoints: DefaultInitialPoints, Hands: HandsHanchan, AutoDraw: true}
}

// Match carries what survives between hands.
type Match struct {
	Rules   Rules
	Users   [4]string
	Round   Wind
	Dealer  int
	Honba   int
	Kyotaku int
	Points  [4]int
	Played  int // hands played, repeats included
	Over    bool

	rotations int
	eval      Evaluator
}

func NewMatch(rules Rules, users [4]string, eval Evaluator) *Match {
	if rules.InitialPoints <= 0 {
		rules.InitialPoints = DefaultInitialPoints
	}
	if rules.Hands <= 0 {
		rules.Hands = HandsHanchan
	}
	m := &Match{Rules: rules, Users: users, eval: eval}
	for i := range m.Points {
		m.Points[i] = rules.InitialPoints
	}
	return m
}

// NextHand deals the next hand from tiles.
func (m *Match) NextHand(tiles []Tile, publish Publisher) (*Hand, error) {
	if m.Over {
		return nil, errors.New("match is over")
	}
	return Start(HandConfig{
		Number:    m.Played,
		Round:     m.Round,
		Dealer:    m.Dealer,
		Honba:     m.Honba,
		Kyotaku:   m.Kyotaku,
		Points:    m.Points,
		Users:     m.Users,
		AutoDraw:  m.Rules.AutoDraw,
		StepDelay: m.Rules.StepDelay,
		Evaluator: m.eval,
		Publisher: publish,
	}, tiles)
}

// Finish folds a settlement in and moves the dealer when it does not repeat.
func (m *Match) Finish(s *Settlement) error {
	if s == nil {
		return fmt.Errorf("%w: finishing a hand without settlement", ErrInvariant)
	}
	m.Points = s.Points
	m.Honba = s.Honba
	m.Kyotaku = s.Kyotaku
	m.Played++
	if !s.DealerContinues {
		m.Dealer = (m.Dealer + 1) % 4
		m.rotations++
		m.Round = Wind(m.rotations / 4 % 4)
	}
	busted := false
	for _, p := range m.Points {
		if p < 0 {
			busted = true
		}
	}
	if busted || m.rotations >= m.Rules.Hands {
		m.Over = true
		// leftover deposits go to first place
		if m.Kyotaku > 0 {
			top := m.Standings()[0].Seat
			m.Points[top] += 1000 * m.Kyotaku
			m.Kyotaku = 0
		}
	}
	return nil
}

type Standing struct {
	Rank   int    `json:"rank" bson:"rank"`
	Seat   int    `json:"seat" bson:"seat"`
	UserID string `json:"userId" bson:"userId"`
	Points int    `json:"points" bson:"points"`
}

// Standings ranks by points; ties go to the seat closer to the first dealer.
func (m *Match) Standings() []Standing {
	out := make([]Standing, 4)
	for i := range out {
		out[i] = Standing{Seat: i, UserID: m.Users[i], Points: m.Points[i]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
