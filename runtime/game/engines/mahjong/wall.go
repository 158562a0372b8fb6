package mahjong

import (
	"fmt"
	"math/rand"
)

const (
	DeadWallSize = 14
	RinshanSize  = 4
	MaxDora      = 5
	liveWallSize = TileLimit - DeadWallSize
)

// Wall is the live draw pile plus the dead wall. Given the 136-tile order
// s, the dead wall is d0..d13 = s[122..135]; rinshan tiles come out in the
// order d1, d0, d3, d2; dora indicators are d4, d6, d8, d10, d12 and the
// ura indicator under each is d5, d7, d9, d11, d13.
type Wall struct {
	live     []Tile
	next     int
	rinshan  []Tile
	dora     [MaxDora]Tile
	ura      [MaxDora]Tile
	revealed int
	kans     int
}

// NewWall validates seq as a permutation of the full tile set.
func NewWall(seq []Tile) (*Wall, error) {
	if len(seq) != TileLimit {
		return nil, fmt.Errorf("%w: %d tiles", ErrBadWall, len(seq))
	}
	var seen [TileLimit]bool
	for _, t := range seq {
		if t.Type < Man1 || t.Type > Red || t.ID < 0 || t.ID > 3 {
			return nil, fmt.Errorf("%w: bad tile %+v", ErrBadWall, t)
		}
		if seen[t.Index()] {
			return nil, fmt.Errorf("%w: duplicate tile %+v", ErrBadWall, t)
		}
		seen[t.Index()] = true
	}
	d := seq[liveWallSize:]
	w := &Wall{
		live:    append([]Tile(nil), seq[:liveWallSize]...),
		rinshan: []Tile{d[1], d[0], d[3], d[2]},
	}
	for i := 0; i < MaxDora; i++ {
		w.dora[i] = d[4+2*i]
		w.ura[i] = d[5+2*i]
	}
	return w, nil
}

// deal takes the next live tile ignoring the haitei boundary; only used
// while dealing starting hands.
func (w *Wall) deal() Tile {
	t := w.live[w.next]
	w.next++
	return t
}

// TurnRest is the number of live tiles still drawable. Every rinshan draw
// pulls the haitei boundary one tile closer.
func (w *Wall) TurnRest() int {
	return len(w.live) - w.next - w.kans
}

func (w *Wall) RinshanRest() int {
	return RinshanSize - w.kans
}

func (w *Wall) KanCount() int {
	return w.kans
}

func (w *Wall) Draw() (Tile, bool) {
	if w.TurnRest() <= 0 {
		return Tile{}, false
	}
	return w.deal(), true
}

func (w *Wall) DrawRinshan() (Tile, bool) {
	if w.RinshanRest() <= 0 || w.TurnRest() <= 0 {
		return Tile{}, false
	}
	t := w.rinshan[w.kans]
	w.kans++
	return t, true
}

// RevealDora flips the next indicator.
func (w *Wall) RevealDora() (Tile, bool) {
	if w.revealed >= MaxDora {
		return Tile{}, false
	}
	t := w.dora[w.revealed]
	w.revealed++
	return t, true
}

func (w *Wall) DoraIndicators() []Tile {
	return append([]Tile(nil), w.dora[:w.revealed]...)
}

// UraIndicators returns the tiles under the revealed indicators.
func (w *Wall) UraIndicators() []Tile {
	return append([]Tile(nil), w.ura[:w.revealed]...)
}

// WallSource yields the tile order for the n-th hand of a match.
type WallSource interface {
	Wall(hand int) []Tile
}

// ShuffledWalls is a seeded WallSource: the same seed replays the same walls.
type ShuffledWalls struct {
	Seed int64
}

func (s ShuffledWalls) Wall(hand int) []Tile {
	rng := rand.New(rand.NewSource(s.Seed + int64(hand)*7919))
	deck := NewTileDeck()
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// FixedWalls replays recorded tile orders in sequence.
type FixedWalls [][]Tile

func (f FixedWalls) Wall(hand int) []Tile {
	if len(f) == 0 {
		return nil
	}
	return f[hand%len(f)]
}
