package mahjong

import (
	"fmt"
	"strings"
)

type Wind int

const (
	WindEast Wind = iota
	WindSouth
	WindWest
	WindNorth
)

func (w Wind) String() string {
	switch w {
	case WindEast:
		return "East"
	case WindSouth:
		return "South"
	case WindWest:
		return "West"
	case WindNorth:
		return "North"
	default:
		return "Unknown"
	}
}

func (w Wind) Next() Wind {
	return (w + 1) % 4
}

// Tile kind of the wind.
func (w Wind) Tile() TileType {
	return East + TileType(w)
}

type TileType int

const (
	// characters (0-8)
	Man1 TileType = iota
	Man2
	Man3
	Man4
	Man5
	Man6
	Man7
	Man8
	Man9

	// circles (9-17)
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	Pin8
	Pin9

	// bamboo (18-26)
	So1
	So2
	So3
	So4
	So5
	So6
	So7
	So8
	So9

	// honors (27-33)
	East
	South
	West
	North
	White
	Green
	Red
)

const (
	TileKinds = 34
	TileLimit = 136
)

// Tile is one physical tile. ID separates the four copies of a kind; ID 0 of
// each five is the red bonus tile.
type Tile struct {
	Type TileType `json:"type" bson:"type"`
	ID   int      `json:"id" bson:"id"`
}

func (t TileType) IsNumbered() bool {
	return t >= Man1 && t <= So9
}

func (t TileType) IsHonor() bool {
	return t >= East && t <= Red
}

func (t TileType) IsWind() bool {
	return t >= East && t <= North
}

func (t TileType) IsDragon() bool {
	return t >= White && t <= Red
}

func (t TileType) IsFive() bool {
	return t == Man5 || t == Pin5 || t == So5
}

// Suit is 0, 1, 2 for numbered kinds and -1 for honors.
func (t TileType) Suit() int {
	if !t.IsNumbered() {
		return -1
	}
	return int(t) / 9
}

// Number is 1-9 for numbered kinds and 0 for honors.
func (t TileType) Number() int {
	if !t.IsNumbered() {
		return 0
	}
	return int(t)%9 + 1
}

func (t TileType) IsTerminal() bool {
	n := t.Number()
	return n == 1 || n == 9
}

// IsYaochu reports terminals and honors.
func (t TileType) IsYaochu() bool {
	return t.IsHonor() || t.IsTerminal()
}

// DoraFrom returns the bonus kind pointed at by an indicator of kind t.
func (t TileType) DoraFrom() TileType {
	switch {
	case t.IsNumbered():
		base := TileType(t.Suit() * 9)
		return base + TileType(t.Number()%9)
	case t.IsWind():
		return East + (t-East+1)%4
	default:
		return White + (t-White+1)%3
	}
}

var honorNames = [...]string{"E", "S", "W", "N", "P", "F", "C"}

func (t TileType) String() string {
	switch {
	case t.IsNumbered():
		return fmt.Sprintf("%d%c", t.Number(), "mps"[t.Suit()])
	case t.IsHonor():
		return honorNames[t-East]
	default:
		return "?"
	}
}

func (t Tile) IsRedFive() bool {
	return t.ID == 0 && t.Type.IsFive()
}

// Index is the position of the tile in a sorted full set (0-135).
func (t Tile) Index() int {
	return int(t.Type)*4 + t.ID
}

func (t Tile) String() string {
	if t.IsRedFive() {
		return "0" + t.Type.String()[1:]
	}
	return t.Type.String()
}

func TileFromIndex(i int) Tile {
	return Tile{Type: TileType(i / 4), ID: i % 4}
}

// NewTileDeck returns the full 136-tile set in index order.
func NewTileDeck() []Tile {
	tiles := make([]Tile, 0, TileLimit)
	for i := 0; i < TileLimit; i++ {
		tiles = append(tiles, TileFromIndex(i))
	}
	return tiles
}

// ParseTiles reads the compact notation "123m456p0s11z": digits followed
// by a suit letter, z for honors in E S W N P F C order, 0 for a red five.
// Copies are numbered in order of appearance; red fives take ID 0.
func ParseTiles(s string) ([]Tile, error) {
	var (
		tiles   []Tile
		pending []int
		used    [TileKinds]int
	)
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9':
			pending = append(pending, int(r-'0'))
		case strings.ContainsRune("mpsz", r):
			for _, n := range pending {
				t, err := parseOne(n, r, &used)
				if err != nil {
					return nil, err
				}
				tiles = append(tiles, t)
			}
			pending = pending[:0]
		case r == ' ':
		default:
			return nil, fmt.Errorf("parse tiles %q: unexpected %q", s, r)
		}
	}
	if len(pending) > 0 {
		return nil, fmt.Errorf("parse tiles %q: missing suit", s)
	}
	return tiles, nil
}

func parseOne(n int, suit rune, used *[TileKinds]int) (Tile, error) {
	var kind TileType
	red := false
	switch suit {
	case 'z':
		if n < 1 || n > 7 {
			return Tile{}, fmt.Errorf("honor %dz out of range", n)
		}
		kind = East + TileType(n-1)
	default:
		if n == 0 {
			n, red = 5, true
		}
		kind = TileType(strings.IndexRune("mps", suit)*9 + n - 1)
	}
	if red {
		return Tile{Type: kind, ID: 0}, nil
	}
	id := used[kind]
	if kind.IsFive() {
		id++ // red copy is reserved
	}
	if id > 3 {
		return Tile{}, fmt.Errorf("too many copies of %s", kind)
	}
	used[kind]++
	return Tile{Type: kind, ID: id}, nil
}

// MustParseTiles is ParseTiles for literals.
func MustParseTiles(s string) []Tile {
	tiles, err := ParseTiles(s)
	if err != nil {
		panic(err)
	}
	return tiles
}

func TypesOf(tiles []Tile) []TileType {
	out := make([]TileType, len(tiles))
	for i, t := range tiles {
		out[i] = t.Type
	}
	return out
}

func containsType(types []TileType, t TileType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

func indexOfTile(tiles []Tile, t Tile) int {
	for i, x := range tiles {
		if x == t {
			return i
		}
	}
	return -1
}

// removeTile deletes the first copy of t, preserving order.
func removeTile(tiles []Tile, t Tile) ([]Tile, bool) {
	i := indexOfTile(tiles, t)
	if i < 0 {
		return tiles, false
	}
	return append(tiles[:i], tiles[i+1:]...), true
}
