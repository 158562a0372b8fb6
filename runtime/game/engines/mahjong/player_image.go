package mahjong

import (
	"fmt"
	"sort"
)

// Discard is one river entry. A discard claimed by another seat stays in
// the river flagged Called.
type Discard struct {
	Tile      Tile `json:"tile" bson:"tile"`
	Tsumogiri bool `json:"tsumogiri" bson:"tsumogiri"`
	Riichi    bool `json:"riichi" bson:"riichi"`
	Called    bool `json:"called" bson:"called"`
}

type PlayerImage struct {
	UserID         string
	Seat           int
	Concealed      []Tile
	Drawn          *Tile // latest draw, kept apart from Concealed until discard
	Melds          []Meld
	Discards       []Discard
	DiscardedTypes map[TileType]struct{} // every kind this seat ever discarded, for furiten
	Riichi         bool
	DoubleRiichi   bool
	Ippatsu        bool
	JustKanned     bool
	TempFuriten    bool
	RiichiFuriten  bool
	HasCalled      bool
	Points         int

	waits      []TileType // waits of the last 13-tile shape
	forbidden  []TileType // kinds barred by the swap-call rule until the next discard
	paoDragons int        // seat liable for daisangen, -1 none
	paoWinds   int        // seat liable for daisuushii, -1 none
}

func NewPlayerImage(userID string, seat int, points int) *PlayerImage {
	return &PlayerImage{
		UserID:         userID,
		Seat:           seat,
		Concealed:      make([]Tile, 0, 14),
		Melds:          make([]Meld, 0, 4),
		Discards:       make([]Discard, 0, 24),
		DiscardedTypes: make(map[TileType]struct{}),
		Points:         points,
		paoDragons:     -1,
		paoWinds:       -1,
	}
}

// TileCount counts hand tiles with every meld as three.
func (p *PlayerImage) TileCount() int {
	n := len(p.Concealed) + 3*len(p.Melds)
	if p.Drawn != nil {
		n++
	}
	return n
}

// checkCount verifies the 13/14 rule; owes is true when the seat must discard.
func (p *PlayerImage) checkCount(owes bool) error {
	want := 13
	if owes {
		want = 14
	}
	if got := p.TileCount(); got != want {
		return fmt.Errorf("%w: seat %d holds %d tiles, want %d", ErrInvariant, p.Seat, got, want)
	}
	return nil
}

// HandTiles is the concealed tiles plus the drawn tile.
func (p *PlayerImage) HandTiles() []Tile {
	out := append([]Tile(nil), p.Concealed...)
	if p.Drawn != nil {
		out = append(out, *p.Drawn)
	}
	return out
}

func (p *PlayerImage) HasTile(t Tile) bool {
	return (p.Drawn != nil && *p.Drawn == t) || indexOfTile(p.Concealed, t) >= 0
}

func (p *PlayerImage) HasDiscardedTile(kind TileType) bool {
	_, ok := p.DiscardedTypes[kind]
	return ok
}

// IsMenzen reports a closed hand; concealed quads keep it closed.
func (p *PlayerImage) IsMenzen() bool {
	for _, m := range p.Melds {
		if m.IsOpen() {
			return false
		}
	}
	return true
}

func (p *PlayerImage) draw(t Tile) {
	tile := t
	p.Drawn = &tile
}

// mergeDrawn moves the drawn tile into the concealed set.
func (p *PlayerImage) mergeDrawn() {
	if p.Drawn != nil {
		p.Concealed = append(p.Concealed, *p.Drawn)
		p.Drawn = nil
	}
	sortTiles(p.Concealed)
}

func (p *PlayerImage) discard(t Tile, riichi bool) Discard {
	d := Discard{Tile: t, Riichi: riichi}
	if p.Drawn != nil && *p.Drawn == t {
		d.Tsumogiri = true
		p.Drawn = nil
	} else {
		p.Concealed, _ = removeTile(p.Concealed, t)
		p.mergeDrawn()
	}
	p.Discards = append(p.Discards, d)
	p.DiscardedTypes[t.Type] = struct{}{}
	p.forbidden = nil
	p.JustKanned = false
	p.TempFuriten = false
	return d
}

// takeTiles removes tiles from the hand, drawn slot included.
func (p *PlayerImage) takeTiles(tiles []Tile) {
	p.mergeDrawn()
	for _, t := range tiles {
		p.Concealed, _ = removeTile(p.Concealed, t)
	}
}

// DiscardFuriten reports whether a current wait is in the seat's own river.
func (p *PlayerImage) DiscardFuriten() bool {
	for _, w := range p.waits {
		if p.HasDiscardedTile(w) {
			return true
		}
	}
	return false
}

func (p *PlayerImage) Furiten() bool {
	return p.TempFuriten || p.RiichiFuriten || p.DiscardFuriten()
}

func (p *PlayerImage) Waits() []TileType {
	return append([]TileType(nil), p.waits...)
}

// firstTurn is true until the seat's first discard.
func (p *PlayerImage) firstTurn() bool {
	return len(p.Discards) == 0
}

func (p *PlayerImage) clone() PlayerImage {
	c := *p
	c.Concealed = append([]Tile(nil), p.Concealed...)
	if p.Drawn != nil {
		d := *p.Drawn
		c.Drawn = &d
	}
	c.Melds = make([]Meld, len(p.Melds))
	for i, m := range p.Melds {
		c.Melds[i] = m.clone()
	}
	c.Discards = append([]Discard(nil), p.Discards...)
	c.DiscardedTypes = make(map[TileType]struct{}, len(p.DiscardedTypes))
	for k := range p.DiscardedTypes {
		c.DiscardedTypes[k] = struct{}{}
	}
	c.waits = append([]TileType(nil), p.waits...)
	c.forbidden = append([]TileType(nil), p.forbidden...)
	return c
}

func sortTiles(tiles []Tile) {
	sort.Slice(tiles, func(i, j int) bool {
		return tiles[i].Index() < tiles[j].Index()
	})
}
