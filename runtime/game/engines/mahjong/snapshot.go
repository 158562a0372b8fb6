package mahjong

// PlayerView is the published state of one seat. Hidden counts concealed
// tiles removed by RedactFor.
type PlayerView struct {
	Seat         int       `json:"seat"`
	UserID       string    `json:"userId"`
	Concealed    []Tile    `json:"concealed,omitempty"`
	Drawn        *Tile     `json:"drawn,omitempty"`
	Hidden       int       `json:"hidden,omitempty"`
	Melds        []Meld    `json:"melds"`
	Discards     []Discard `json:"discards"`
	Riichi       bool      `json:"riichi"`
	DoubleRiichi bool      `json:"doubleRiichi"`
	Ippatsu      bool      `json:"ippatsu"`
	Furiten      bool      `json:"furiten"`
	Points       int       `json:"points"`
}

// Snapshot is a deep copy of the hand; nothing in it aliases engine state.
type Snapshot struct {
	Token          uint64        `json:"token"`
	Number         int           `json:"number"`
	Phase          Phase         `json:"phase"`
	Turn           int           `json:"turn"`
	Round          Wind          `json:"round"`
	Dealer         int           `json:"dealer"`
	Honba          int           `json:"honba"`
	Kyotaku        int           `json:"kyotaku"`
	WallRest       int           `json:"wallRest"`
	RinshanRest    int           `json:"rinshanRest"`
	DoraIndicators []Tile        `json:"doraIndicators"`
	Players        [4]PlayerView `json:"players"`
	Registry       Registry      `json:"registry"`
	Settlement     *Settlement   `json:"settlement,omitempty"`
	Halted         string        `json:"halted,omitempty"`
}

func (h *Hand) Snapshot() *Snapshot {
	s := &Snapshot{
		Token:          h.Token,
		Number:         h.Number,
		Phase:          h.Phase,
		Turn:           h.Turn,
		Round:          h.Round,
		Dealer:         h.Dealer,
		Honba:          h.Honba,
		Kyotaku:        h.Kyotaku,
		WallRest:       h.Wall.TurnRest(),
		RinshanRest:    h.Wall.RinshanRest(),
		DoraIndicators: h.Wall.DoraIndicators(),
		Registry:       h.Registry.clone(),
		Settlement:     h.Settlement.clone(),
	}
	if h.Err != nil {
		s.Halted = h.Err.Error()
	}
	for i, p := range h.Players {
		c := p.clone()
		s.Players[i] = PlayerView{
			Seat:         c.Seat,
			UserID:       c.UserID,
			Concealed:    c.Concealed,
			Drawn:        c.Drawn,
			Melds:        c.Melds,
			Discards:     c.Discards,
			Riichi:       c.Riichi,
			DoubleRiichi: c.DoubleRiichi,
			Ippatsu:      c.Ippatsu,
			Furiten:      p.Furiten(),
			Points:       c.Points,
		}
	}
	return s
}

// RedactFor returns a copy where only seat's concealed tiles and options
// are visible. Everything is revealed once the hand is over.
func (s *Snapshot) RedactFor(seat int) *Snapshot {
	c := *s
	if s.Phase == PhaseHandEnded || s.Phase == PhaseHalted {
		return &c
	}
	for i := range c.Players {
		if i == seat {
			continue
		}
		v := c.Players[i]
		v.Hidden = len(v.Concealed)
		if v.Drawn != nil {
			v.Hidden++
		}
		v.Concealed = nil
		v.Drawn = nil
		v.Furiten = false
		c.Players[i] = v
	}
	c.Registry.Entries = nil
	for _, e := range s.Registry.Entries {
		if e.Seat == seat {
			c.Registry.Entries = append(c.Registry.Entries, e)
		}
	}
	return &c
}
