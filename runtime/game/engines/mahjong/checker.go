package mahjong

// selfActions builds the registry offered to seat right after a draw.
func (h *Hand) selfActions(seat int) Registry {
	p := h.Players[seat]
	r := Registry{Event: EventDraw, Source: seat, Tile: *p.Drawn}
	if _, ok := h.evaluate(seat, *p.Drawn, true, false); ok {
		r.Entries = append(r.Entries, Entry{Seat: seat, Kind: ActionTsumo})
	}
	if opts := h.ankanOptions(seat); len(opts) > 0 {
		r.Entries = append(r.Entries, Entry{Seat: seat, Kind: ActionAnkan, Options: opts})
	}
	if opts := h.kakanOptions(seat); len(opts) > 0 {
		r.Entries = append(r.Entries, Entry{Seat: seat, Kind: ActionKakan, Options: opts})
	}
	if tiles := h.riichiTiles(seat); len(tiles) > 0 {
		r.Entries = append(r.Entries, Entry{Seat: seat, Kind: ActionRiichi, Tiles: tiles})
	}
	if h.canNineTerminals(seat) {
		r.Entries = append(r.Entries, Entry{Seat: seat, Kind: ActionNineTerminals})
	}
	return r
}

func (h *Hand) kanAllowed() bool {
	return h.Wall.RinshanRest() > 0 && h.Wall.TurnRest() > 0
}

func (h *Hand) ankanOptions(seat int) []Meld {
	p := h.Players[seat]
	if !h.kanAllowed() || p.Drawn == nil {
		return nil
	}
	tiles := p.HandTiles()
	counts := Hand34FromTiles(tiles)
	var out []Meld
	for kind := TileType(0); kind < TileKinds; kind++ {
		if counts[kind] != 4 {
			continue
		}
		var own []Tile
		for _, t := range tiles {
			if t.Type == kind {
				own = append(own, t)
			}
		}
		m := Meld{Kind: MeldConcealedQuad, Own: own}
		if p.Riichi && !h.ankanKeepsWaits(p, m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// ankanKeepsWaits: a riichi hand may only quad the drawn tile, and only
// when the waits stay the same.
func (h *Hand) ankanKeepsWaits(p *PlayerImage, m Meld) bool {
	if p.Drawn == nil || p.Drawn.Type != m.Own[0].Type {
		return false
	}
	rest := append([]Tile(nil), p.Concealed...)
	for _, t := range m.Own {
		rest, _ = removeTile(rest, t)
	}
	waits := h.eval.Waits(rest, append(append([]Meld(nil), p.Melds...), m))
	if len(waits) != len(p.waits) {
		return false
	}
	for _, w := range waits {
		if !containsType(p.waits, w) {
			return false
		}
	}
	return true
}

func (h *Hand) kakanOptions(seat int) []Meld {
	p := h.Players[seat]
	if !h.kanAllowed() || p.Drawn == nil || p.Riichi {
		return nil
	}
	var out []Meld
	for _, m := range p.Melds {
		if m.Kind != MeldTriplet {
			continue
		}
		for _, t := range p.HandTiles() {
			if t.Type == m.Called.Type {
				q := m.clone()
				q.Kind = MeldAddedQuad
				q.Added = t
				out = append(out, q)
			}
		}
	}
	return out
}

// riichiTiles lists the discards that leave a ready hand.
func (h *Hand) riichiTiles(seat int) []Tile {
	p := h.Players[seat]
	if p.Riichi || p.Drawn == nil || !p.IsMenzen() || p.Points < 1000 || h.Wall.TurnRest() < 4 {
		return nil
	}
	tiles := p.HandTiles()
	var out []Tile
	ready := map[TileType]bool{}
	for _, t := range tiles {
		ok, seen := ready[t.Type]
		if !seen {
			rest, _ := removeTile(append([]Tile(nil), tiles...), t)
			ok = len(h.eval.Waits(rest, p.Melds)) > 0
			ready[t.Type] = ok
		}
		if ok {
			out = append(out, t)
		}
	}
	return out
}

func (h *Hand) canNineTerminals(seat int) bool {
	p := h.Players[seat]
	if !p.firstTurn() || h.callsMade || p.Drawn == nil {
		return false
	}
	kinds := 0
	counts := Hand34FromTiles(p.HandTiles())
	for kind := TileType(0); kind < TileKinds; kind++ {
		if counts[kind] > 0 && kind.IsYaochu() {
			kinds++
		}
	}
	return kinds >= 9
}

// canRon: the tile completes the hand, the seat is not furiten and the
// hand has a yaku.
func (h *Hand) canRon(seat int, tile Tile, chankan bool) bool {
	p := h.Players[seat]
	if p.Furiten() || !containsType(p.waits, tile.Type) {
		return false
	}
	_, ok := h.evaluate(seat, tile, false, chankan)
	return ok
}

// reactions computes every other seat's options on a discard.
func (h *Hand) reactions(src int, tile Tile) Registry {
	r := Registry{Event: EventDiscard, Source: src, Tile: tile}
	last := h.Wall.TurnRest() == 0
	for d := 1; d < 4; d++ {
		seat := (src + d) % 4
		p := h.Players[seat]
		if h.canRon(seat, tile, false) {
			r.Entries = append(r.Entries, Entry{Seat: seat, Kind: ActionRon})
		}
		if p.Riichi || last {
			continue
		}
		if opts := h.minkanOptions(seat, src, tile); len(opts) > 0 {
			r.Entries = append(r.Entries, Entry{Seat: seat, Kind: ActionMinkan, Options: opts})
		}
		if opts := h.ponOptions(seat, src, tile); len(opts) > 0 {
			r.Entries = append(r.Entries, Entry{Seat: seat, Kind: ActionPon, Options: opts})
		}
		if d == 1 {
			if opts := h.chiOptions(seat, tile); len(opts) > 0 {
				r.Entries = append(r.Entries, Entry{Seat: seat, Kind: ActionChi, Options: opts})
			}
		}
	}
	return r
}

// chankanReactions: only ron may rob an added quad.
func (h *Hand) chankanReactions(src int, tile Tile) Registry {
	r := Registry{Event: EventAddedQuad, Source: src, Tile: tile}
	for d := 1; d < 4; d++ {
		seat := (src + d) % 4
		if h.canRon(seat, tile, true) {
			r.Entries = append(r.Entries, Entry{Seat: seat, Kind: ActionRon})
		}
	}
	return r
}

func matching(tiles []Tile, kind TileType) []Tile {
	var out []Tile
	for _, t := range tiles {
		if t.Type == kind {
			out = append(out, t)
		}
	}
	return out
}

func (h *Hand) minkanOptions(seat, src int, tile Tile) []Meld {
	if !h.kanAllowed() {
		return nil
	}
	own := matching(h.Players[seat].Concealed, tile.Type)
	if len(own) != 3 {
		return nil
	}
	return []Meld{{Kind: MeldOpenQuad, Own: own, Called: tile, From: relativeSeat(seat, src)}}
}

func (h *Hand) ponOptions(seat, src int, tile Tile) []Meld {
	p := h.Players[seat]
	own := matching(p.Concealed, tile.Type)
	var out []Meld
	seen := map[bool]bool{}
	for i := 0; i < len(own); i++ {
		for j := i + 1; j < len(own); j++ {
			red := own[i].IsRedFive() || own[j].IsRedFive()
			if seen[red] {
				continue
			}
			seen[red] = true
			m := Meld{Kind: MeldTriplet, Own: []Tile{own[i], own[j]}, Called: tile, From: relativeSeat(seat, src)}
			if hasLegalDiscard(p.Concealed, m) {
				out = append(out, m)
			}
		}
	}
	return out
}

func (h *Hand) chiOptions(seat int, tile Tile) []Meld {
	p := h.Players[seat]
	k := tile.Type
	if !k.IsNumbered() {
		return nil
	}
	n := k.Number()
	var pairs [][2]TileType
	if n >= 3 {
		pairs = append(pairs, [2]TileType{k - 2, k - 1})
	}
	if n >= 2 && n <= 8 {
		pairs = append(pairs, [2]TileType{k - 1, k + 1})
	}
	if n <= 7 {
		pairs = append(pairs, [2]TileType{k + 1, k + 2})
	}
	var out []Meld
	for _, pr := range pairs {
		a, b := matching(p.Concealed, pr[0]), matching(p.Concealed, pr[1])
		seen := map[[2]bool]bool{}
		for _, x := range a {
			for _, y := range b {
				key := [2]bool{x.IsRedFive(), y.IsRedFive()}
				if seen[key] {
					continue
				}
				seen[key] = true
				m := Meld{Kind: MeldSequence, Own: []Tile{x, y}, Called: tile, From: 3}
				if hasLegalDiscard(p.Concealed, m) {
					out = append(out, m)
				}
			}
		}
	}
	return out
}

// kuikaeKinds are the kinds the caller may not discard right after m.
func kuikaeKinds(m Meld) []TileType {
	called := m.Called.Type
	out := []TileType{called}
	if m.Kind != MeldSequence {
		return out
	}
	lo, hi := m.Own[0].Type, m.Own[1].Type
	if lo > hi {
		lo, hi = hi, lo
	}
	switch {
	case called < lo && called.Number() <= 6:
		out = append(out, called+3)
	case called > hi && called.Number() >= 4:
		out = append(out, called-3)
	}
	return out
}

// hasLegalDiscard checks the call leaves something discardable.
func hasLegalDiscard(concealed []Tile, m Meld) bool {
	rest := append([]Tile(nil), concealed...)
	for _, t := range m.Own {
		rest, _ = removeTile(rest, t)
	}
	forbidden := kuikaeKinds(m)
	for _, t := range rest {
		if !containsType(forbidden, t.Type) {
			return true
		}
	}
	return false
}
