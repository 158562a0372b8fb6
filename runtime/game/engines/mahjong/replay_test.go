package mahjong

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordHand plays hand n of a match with timeout defaults and returns the inputs.
func recordHand(t *testing.T, m *Match, walls WallSource, n int) ([]Input, *Hand) {
	t.Helper()
	h, err := m.NextHand(walls.Wall(n), nil)
	require.NoError(t, err)
	var inputs []Input
	for !h.Ended() {
		in, ok := h.DefaultInput(h.Waiting()[0])
		require.True(t, ok)
		inputs = append(inputs, in)
		require.NoError(t, h.Apply(in))
	}
	return inputs, h
}

func TestReplay_ReproducesSettlements(t *testing.T) {
	walls := ShuffledWalls{Seed: 42}
	rules := DefaultRules()
	m := NewMatch(rules, users, NewEvaluator(nil))

	var script [][]Input
	var want []*Settlement
	for n := 0; n < 2; n++ {
		inputs, h := recordHand(t, m, walls, n)
		script = append(script, inputs)
		want = append(want, h.Settlement)
		require.NoError(t, m.Finish(h.Settlement))
	}

	res, err := Replay(rules, NewEvaluator(nil), walls, users, script)
	require.NoError(t, err)
	require.Equal(t, want, res.Settlements)
	require.Equal(t, m.Points, res.Match.Points)
	require.Equal(t, m.Dealer, res.Match.Dealer)
}

func TestReplayScript_JSON(t *testing.T) {
	m := NewMatch(DefaultRules(), users, NewEvaluator(nil))
	inputs, h := recordHand(t, m, ShuffledWalls{Seed: 9}, 0)

	b, err := json.Marshal(Script{Users: users, Seed: 9, Hands: [][]Input{inputs}})
	require.NoError(t, err)
	var s Script
	require.NoError(t, json.Unmarshal(b, &s))

	res, err := ReplayScript(DefaultRules(), NewEvaluator(nil), s)
	require.NoError(t, err)
	require.Equal(t, []*Settlement{h.Settlement}, res.Settlements)
}

func TestReplay_StopsMidHand(t *testing.T) {
	m := NewMatch(DefaultRules(), users, NewEvaluator(nil))
	inputs, _ := recordHand(t, m, ShuffledWalls{Seed: 9}, 0)

	res, err := Replay(DefaultRules(), NewEvaluator(nil), ShuffledWalls{Seed: 9}, users, [][]Input{inputs[:3]})
	require.NoError(t, err)
	require.Empty(t, res.Settlements)
	require.NotNil(t, res.Hand)
	require.False(t, res.Hand.Ended())
}

func TestReplay_RejectsBadInput(t *testing.T) {
	bad := [][]Input{{{Kind: InputDiscard, Seat: 3}}}
	_, err := Replay(DefaultRules(), NewEvaluator(nil), ShuffledWalls{Seed: 9}, users, bad)
	require.ErrorIs(t, err, ErrNotYourTurn)
	require.Contains(t, err.Error(), "hand 0 input 0")
}
