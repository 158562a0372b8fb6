package mahjong

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTurnClock_Timeout(t *testing.T) {
	type fired struct {
		seat  int
		token uint64
	}
	ch := make(chan fired, 4)
	c := NewTurnClock(20*time.Millisecond, 0, func(seat int, token uint64) {
		ch <- fired{seat, token}
	})
	c.Arm([]int{1}, 7)

	select {
	case f := <-ch:
		require.Equal(t, fired{1, 7}, f)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout callback never fired")
	}
	require.Equal(t, StateTimeout, c.Tickers[1].GetState())
	require.Zero(t, c.Tickers[1].Available)
	require.Equal(t, StateIdle, c.Tickers[0].GetState())
}

func TestTurnClock_RearmCancels(t *testing.T) {
	ch := make(chan int, 4)
	c := NewTurnClock(30*time.Millisecond, 0, func(seat int, token uint64) { ch <- seat })
	c.Arm([]int{0, 2}, 1)
	c.Arm([]int{3}, 2)

	select {
	case seat := <-ch:
		require.Equal(t, 3, seat)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout callback never fired")
	}
	select {
	case seat := <-ch:
		t.Fatalf("stale timer fired for seat %d", seat)
	case <-time.After(100 * time.Millisecond):
	}
	require.Equal(t, StateStopped, c.Tickers[0].GetState())
}

func TestTurnClock_StopChargesBank(t *testing.T) {
	c := NewTurnClock(time.Hour, time.Second, func(int, uint64) {})
	c.Arm([]int{2}, 1)
	time.Sleep(5 * time.Millisecond)
	c.StopAll()
	require.Equal(t, StateStopped, c.Tickers[2].GetState())
	require.Less(t, c.Tickers[2].Available, time.Hour)
}

func TestDefaultInput(t *testing.T) {
	h := startHand(t, ronTable)

	in, ok := h.DefaultInput(0)
	require.True(t, ok)
	require.Equal(t, InputDiscard, in.Kind)
	require.Equal(t, *h.Players[0].Drawn, in.Tile)
	require.Equal(t, h.Token, in.Token)

	_, ok = h.DefaultInput(1)
	require.False(t, ok)

	mustApply(t, h, Input{Kind: InputDiscard, Seat: 0, Tile: handTile(t, h, 0, "5p")})
	require.Equal(t, []int{1, 2}, h.Waiting())
	in, ok = h.DefaultInput(2)
	require.True(t, ok)
	require.Equal(t, InputSkip, in.Kind)
	_, ok = h.DefaultInput(3)
	require.False(t, ok)
}

func TestDefaultInput_AfterCallAvoidsSwap(t *testing.T) {
	h := startHand(t, ronTable)
	mustApply(t, h, Input{Kind: InputDiscard, Seat: 0, Tile: handTile(t, h, 0, "5p")})
	mustApply(t, h, Input{Kind: InputSkip, Seat: 2})
	mustApply(t, h, Input{Kind: InputCall, Seat: 1, Meld: h.Registry.find(1, ActionPon).Options[0]})

	in, ok := h.DefaultInput(1)
	require.True(t, ok)
	require.Equal(t, InputDiscard, in.Kind)
	require.NotEqual(t, Pin5, in.Tile.Type)
	mustApply(t, h, in)
}
