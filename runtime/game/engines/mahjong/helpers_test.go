package mahjong

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// tilePool hands out physical tiles so that no copy is used twice.
type tilePool struct {
	used [TileLimit]bool
}

func (p *tilePool) take(t *testing.T, s string) []Tile {
	t.Helper()
	var out []Tile
	for _, want := range MustParseTiles(s) {
		ids := []int{0, 1, 2, 3}
		switch {
		case want.IsRedFive():
			ids = []int{0}
		case want.Type.IsFive():
			ids = []int{1, 2, 3, 0}
		}
		picked := false
		for _, id := range ids {
			tile := Tile{Type: want.Type, ID: id}
			if !p.used[tile.Index()] {
				p.used[tile.Index()] = true
				out = append(out, tile)
				picked = true
				break
			}
		}
		require.True(t, picked, "no copy of %s left", want.Type)
	}
	return out
}

// rest returns the unused tiles in index order.
func (p *tilePool) rest() []Tile {
	var out []Tile
	for i := 0; i < TileLimit; i++ {
		if !p.used[i] {
			out = append(out, TileFromIndex(i))
		}
	}
	return out
}

// wallLayout lays out a wall for dealer 0: the four starting hands, the
// draws that follow in turn order, and the head of the dead wall.
type wallLayout struct {
	hands [4]string
	draws string
	dead  string
}

func (ws wallLayout) build(t *testing.T) []Tile {
	t.Helper()
	var pool tilePool
	seq := make([]Tile, TileLimit)
	set := make([]bool, TileLimit)
	place := func(pos int, tile Tile) {
		seq[pos] = tile
		set[pos] = true
	}
	for seat, s := range ws.hands {
		hand := pool.take(t, s)
		require.Len(t, hand, 13, "seat %d", seat)
		for r := 0; r < 3; r++ {
			for i := 0; i < 4; i++ {
				place(r*16+seat*4+i, hand[r*4+i])
			}
		}
		place(48+seat, hand[12])
	}
	for i, tile := range pool.take(t, ws.draws) {
		place(52+i, tile)
	}
	for i, tile := range pool.take(t, ws.dead) {
		place(liveWallSize+i, tile)
	}
	filler := pool.rest()
	for pos := range seq {
		if !set[pos] {
			seq[pos] = filler[0]
			filler = filler[1:]
		}
	}
	return seq
}

func testConfig(eval Evaluator) HandConfig {
	return HandConfig{
		Points:    [4]int{25000, 25000, 25000, 25000},
		Users:     [4]string{"u0", "u1", "u2", "u3"},
		AutoDraw:  true,
		Evaluator: eval,
	}
}

func startHand(t *testing.T, ws wallLayout) *Hand {
	t.Helper()
	eval := NewEvaluator(nil)
	eval.RedFives = false
	return startWith(t, ws, testConfig(eval))
}

func startWith(t *testing.T, ws wallLayout, cfg HandConfig) *Hand {
	t.Helper()
	h, err := Start(cfg, ws.build(t))
	require.NoError(t, err)
	return h
}

// flatValue scores every complete shape the same, yaku or not, so payment
// tests do not depend on hand value.
type flatValue struct {
	*RiichiEvaluator
	value WinValue
}

func newFlatValue(v WinValue) flatValue {
	return flatValue{RiichiEvaluator: NewEvaluator(nil), value: v}
}

func (f flatValue) Evaluate(w *WinContext) (WinValue, bool) {
	all := append(append([]Tile(nil), w.Concealed...), w.WinTile)
	if !f.searcher.IsAgariAll(Hand34FromTiles(all), len(w.Melds)) {
		return WinValue{}, false
	}
	v := f.value
	v.Yaku = append([]YakuHan(nil), f.value.Yaku...)
	return v, true
}

func mustApply(t *testing.T, h *Hand, in Input) {
	t.Helper()
	in.Token = h.Token
	require.NoError(t, h.Apply(in))
}

func tile(s string) Tile {
	return MustParseTiles(s)[0]
}

// handTile finds the copy of kind s that seat holds.
func handTile(t *testing.T, h *Hand, seat int, s string) Tile {
	t.Helper()
	kind := tile(s).Type
	for _, x := range h.Players[seat].HandTiles() {
		if x.Type == kind {
			return x
		}
	}
	t.Fatalf("seat %d holds no %s", seat, s)
	return Tile{}
}

// playOut drives a hand to its end with the timeout defaults.
func playOut(t *testing.T, h *Hand) {
	t.Helper()
	for i := 0; i < 2000 && !h.Ended(); i++ {
		waiting := h.Waiting()
		require.NotEmpty(t, waiting, "phase %s", h.Phase)
		in, ok := h.DefaultInput(waiting[0])
		require.True(t, ok)
		require.NoError(t, h.Apply(in))
	}
	require.True(t, h.Ended())
}
