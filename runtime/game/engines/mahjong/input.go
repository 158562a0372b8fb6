package mahjong

import "fmt"

type InputKind int

const (
	InputDraw InputKind = iota
	InputDiscard
	InputCall
	InputRiichi // declare riichi together with the discard in Tile
	InputWin    // tsumo, ron or chankan, whichever the registry offers
	InputAbort  // kyuushu kyuuhai
	InputSkip
)

var inputKindNames = [...]string{"draw", "discard", "call", "riichi", "win", "abort", "skip"}

func (k InputKind) String() string {
	if k < 0 || int(k) >= len(inputKindNames) {
		return "unknown"
	}
	return inputKindNames[k]
}

func (k InputKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *InputKind) UnmarshalText(b []byte) error {
	for i, name := range inputKindNames {
		if name == string(b) {
			*k = InputKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown input kind %q", b)
}

// Input is one player action. Token is the state token the sender last
// saw; Tile is used by discard and riichi, Meld by call.
type Input struct {
	Token uint64    `json:"token"`
	Kind  InputKind `json:"kind"`
	Seat  int       `json:"seat"`
	Tile  Tile      `json:"tile"`
	Meld  Meld      `json:"meld"`
}
