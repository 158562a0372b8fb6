package mahjong

// MeldKind is closed: every switch over it lists all five kinds.
type MeldKind int

const (
	MeldSequence MeldKind = iota
	MeldTriplet
	MeldOpenQuad
	MeldConcealedQuad
	MeldAddedQuad
)

func (k MeldKind) String() string {
	switch k {
	case MeldSequence:
		return "chi"
	case MeldTriplet:
		return "pon"
	case MeldOpenQuad:
		return "minkan"
	case MeldConcealedQuad:
		return "ankan"
	case MeldAddedQuad:
		return "kakan"
	default:
		return "unknown"
	}
}

// Meld is a declared group. Own holds the caller's tiles; Called the claimed
// discard; Added the fourth tile of an added quad. From is the relative
// seat the tile came from: 1 next, 2 across, 3 previous, 0 none.
type Meld struct {
	Kind   MeldKind `json:"kind" bson:"kind"`
	Own    []Tile   `json:"own" bson:"own"`
	Called Tile     `json:"called" bson:"called"`
	Added  Tile     `json:"added" bson:"added"`
	From   int      `json:"from" bson:"from"`
}

// Tiles lists every tile of the meld.
func (m Meld) Tiles() []Tile {
	out := append([]Tile(nil), m.Own...)
	switch m.Kind {
	case MeldSequence, MeldTriplet, MeldOpenQuad:
		out = append(out, m.Called)
	case MeldConcealedQuad:
	case MeldAddedQuad:
		out = append(out, m.Called, m.Added)
	}
	return out
}

// Base is the lowest kind in the meld.
func (m Meld) Base() TileType {
	base := TileType(-1)
	for _, t := range m.Tiles() {
		if base < 0 || t.Type < base {
			base = t.Type
		}
	}
	return base
}

func (m Meld) IsQuad() bool {
	switch m.Kind {
	case MeldOpenQuad, MeldConcealedQuad, MeldAddedQuad:
		return true
	case MeldSequence, MeldTriplet:
		return false
	}
	return false
}

// IsOpen is false only for a concealed quad.
func (m Meld) IsOpen() bool {
	switch m.Kind {
	case MeldConcealedQuad:
		return false
	case MeldSequence, MeldTriplet, MeldOpenQuad, MeldAddedQuad:
		return true
	}
	return true
}

func (m Meld) clone() Meld {
	m.Own = append([]Tile(nil), m.Own...)
	return m
}

// sameMeld compares kind and the exact tiles taken from hand.
func sameMeld(a, b Meld) bool {
	if a.Kind != b.Kind || len(a.Own) != len(b.Own) {
		return false
	}
	for _, t := range a.Own {
		if indexOfTile(b.Own, t) < 0 {
			return false
		}
	}
	return a.Kind != MeldAddedQuad || a.Added == b.Added
}

// relativeSeat maps an absolute source seat onto the From encoding.
func relativeSeat(caller, source int) int {
	return (source - caller + 4) % 4
}
