package mahjong

import (
	"fmt"

	"github.com/k-jun/mahjong-tui-sub000/common/log"
)

type EndKind int

const (
	EndTsumo EndKind = iota
	EndRon
	EndExhaustive
	EndNagashi
	EndFourKan
	EndFourWind
	EndFourRiichi
	EndTripleRon
	EndNineTerminals
)

func (k EndKind) String() string {
	switch k {
	case EndTsumo:
		return "tsumo"
	case EndRon:
		return "ron"
	case EndExhaustive:
		return "exhaustive-draw"
	case EndNagashi:
		return "nagashi-mangan"
	case EndFourKan:
		return "four-kan"
	case EndFourWind:
		return "four-wind"
	case EndFourRiichi:
		return "four-riichi"
	case EndTripleRon:
		return "triple-ron"
	case EndNineTerminals:
		return "nine-terminals"
	default:
		return "unknown"
	}
}

// IsAbort reports the abortive draws.
func (k EndKind) IsAbort() bool {
	switch k {
	case EndFourKan, EndFourWind, EndFourRiichi, EndTripleRon, EndNineTerminals:
		return true
	}
	return false
}

// WinRecord is one paid win. From is -1 for tsumo; Pao is -1 without liability.
type WinRecord struct {
	Seat   int      `json:"seat" bson:"seat"`
	From   int      `json:"from" bson:"from"`
	Tile   Tile     `json:"tile" bson:"tile"`
	Value  WinValue `json:"value" bson:"value"`
	Points int      `json:"points" bson:"points"`
	Pao    int      `json:"pao" bson:"pao"`
}

// Settlement closes a hand. Honba and Kyotaku are carried into the next hand.
type Settlement struct {
	Kind            EndKind     `json:"kind" bson:"kind"`
	Wins            []WinRecord `json:"wins,omitempty" bson:"wins,omitempty"`
	Delta           [4]int      `json:"delta" bson:"delta"`
	Points          [4]int      `json:"points" bson:"points"`
	Tenpai          [4]bool     `json:"tenpai" bson:"tenpai"`
	Nagashi         []int       `json:"nagashi,omitempty" bson:"nagashi,omitempty"`
	UraIndicators   []Tile      `json:"uraIndicators,omitempty" bson:"uraIndicators,omitempty"`
	DealerContinues bool        `json:"dealerContinues" bson:"dealerContinues"`
	Honba           int         `json:"honba" bson:"honba"`
	Kyotaku         int         `json:"kyotaku" bson:"kyotaku"`
}

func (s *Settlement) clone() *Settlement {
	if s == nil {
		return nil
	}
	c := *s
	c.Wins = make([]WinRecord, len(s.Wins))
	for i, w := range s.Wins {
		w.Value.Yaku = append([]YakuHan(nil), w.Value.Yaku...)
		c.Wins[i] = w
	}
	c.Nagashi = append([]int(nil), s.Nagashi...)
	c.UraIndicators = append([]Tile(nil), s.UraIndicators...)
	return &c
}

// paoSeat returns the liable seat for this win, or -1.
func (h *Hand) paoSeat(seat int, v WinValue) int {
	p := h.Players[seat]
	switch {
	case v.Has(YakuDaisangen) && p.paoDragons >= 0:
		return p.paoDragons
	case v.Has(YakuDaisuushii) && p.paoWinds >= 0:
		return p.paoWinds
	}
	return -1
}

func (h *Hand) settleTsumo(seat int) error {
	p := h.Players[seat]
	if p.Drawn == nil {
		return fmt.Errorf("%w: tsumo without a drawn tile", ErrInvariant)
	}
	tile := *p.Drawn
	v, ok := h.evaluate(seat, tile, true, false)
	if !ok {
		return fmt.Errorf("%w: seat %d tsumo does not evaluate", ErrInvariant, seat)
	}
	dealer := seat == h.Dealer
	pao := h.paoSeat(seat, v)
	var delta [4]int
	for o := 0; o < 4; o++ {
		if o == seat {
			continue
		}
		pay := tsumoPoints(v.Base, dealer, o == h.Dealer) + 100*h.Honba
		payer := o
		if pao >= 0 {
			payer = pao
		}
		delta[payer] -= pay
		delta[seat] += pay
	}
	delta[seat] += 1000 * h.Kyotaku

	s := &Settlement{
		Kind:            EndTsumo,
		DealerContinues: dealer,
		Wins:            []WinRecord{{Seat: seat, From: -1, Tile: tile, Value: v, Points: delta[seat], Pao: pao}},
	}
	if p.Riichi {
		s.UraIndicators = h.Wall.UraIndicators()
	}
	h.finish(s, delta, 0)
	return nil
}

// settleRon pays every ron in seating order from the discarder; honba and
// kyotaku go to the first.
func (h *Hand) settleRon(rons []int) error {
	src, tile := h.Registry.Source, h.Registry.Tile
	chankan := h.Registry.Event == EventAddedQuad
	var (
		delta [4]int
		wins  []WinRecord
		ura   bool
	)
	for i, seat := range rons {
		v, ok := h.evaluate(seat, tile, false, chankan)
		if !ok {
			return fmt.Errorf("%w: seat %d ron does not evaluate", ErrInvariant, seat)
		}
		pts := ronPoints(v.Base, seat == h.Dealer)
		bonus := 0
		if i == 0 {
			bonus = 300 * h.Honba
		}
		pao := h.paoSeat(seat, v)
		if pao >= 0 && pao != src {
			half := pts / 2
			delta[pao] -= half
			delta[src] -= pts - half + bonus
		} else {
			delta[src] -= pts + bonus
		}
		gain := pts + bonus
		if i == 0 {
			gain += 1000 * h.Kyotaku
		}
		delta[seat] += gain
		wins = append(wins, WinRecord{Seat: seat, From: src, Tile: tile, Value: v, Points: gain, Pao: pao})
		ura = ura || h.Players[seat].Riichi
	}
	s := &Settlement{Kind: EndRon, Wins: wins}
	for _, seat := range rons {
		if seat == h.Dealer {
			s.DealerContinues = true
		}
	}
	if ura {
		s.UraIndicators = h.Wall.UraIndicators()
	}
	h.finish(s, delta, 0)
	return nil
}

// exhaustiveExchange splits 3000 points from noten to tenpai seats.
func exhaustiveExchange(tenpai [4]bool) [4]int {
	var delta [4]int
	n := 0
	for _, t := range tenpai {
		if t {
			n++
		}
	}
	if n == 0 || n == 4 {
		return delta
	}
	for i, t := range tenpai {
		if t {
			delta[i] = 3000 / n
		} else {
			delta[i] = -3000 / (4 - n)
		}
	}
	return delta
}

// nagashiPayments pays each qualifying seat a mangan tsumo.
func nagashiPayments(seats []int, dealer int) [4]int {
	var delta [4]int
	for _, seat := range seats {
		for o := 0; o < 4; o++ {
			if o == seat {
				continue
			}
			pay := tsumoPoints(2000, seat == dealer, o == dealer)
			delta[o] -= pay
			delta[seat] += pay
		}
	}
	return delta
}

func (p *PlayerImage) qualifiesNagashi() bool {
	if len(p.Discards) == 0 {
		return false
	}
	for _, d := range p.Discards {
		if d.Called || !d.Tile.Type.IsYaochu() {
			return false
		}
	}
	return true
}

func (h *Hand) settleExhaustive() {
	s := &Settlement{Kind: EndExhaustive}
	for seat, p := range h.Players {
		s.Tenpai[seat] = len(p.waits) > 0
		if p.qualifiesNagashi() {
			s.Nagashi = append(s.Nagashi, seat)
		}
	}
	var delta [4]int
	if len(s.Nagashi) > 0 {
		s.Kind = EndNagashi
		delta = nagashiPayments(s.Nagashi, h.Dealer)
	} else {
		delta = exhaustiveExchange(s.Tenpai)
	}
	s.DealerContinues = s.Tenpai[h.Dealer]
	h.finish(s, delta, h.Kyotaku)
}

func (h *Hand) settleAbort(kind EndKind) {
	s := &Settlement{Kind: kind, DealerContinues: true}
	h.finish(s, [4]int{}, h.Kyotaku)
}

// finish applies delta and ends the hand. Honba grows on every draw and on
// a dealer win, and resets after a non-dealer win.
func (h *Hand) finish(s *Settlement, delta [4]int, kyotaku int) {
	for i, p := range h.Players {
		p.Points += delta[i]
		s.Points[i] = p.Points
	}
	s.Delta = delta
	s.Kyotaku = kyotaku
	switch {
	case s.Kind == EndTsumo || s.Kind == EndRon:
		if s.DealerContinues {
			s.Honba = h.Honba + 1
		}
	default:
		s.Honba = h.Honba + 1
	}
	h.Settlement = s
	h.Phase = PhaseHandEnded
	h.Registry = Registry{Event: EventNone, Source: h.Turn}
	h.steps = nil
	log.Info("hand %d ended: %s, delta %v", h.Number, s.Kind, s.Delta)
}
