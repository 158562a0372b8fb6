package mahjong

// Evaluator is everything the engine asks about hand shapes and value.
type Evaluator interface {
	// Waits lists the kinds completing a 13-tile hand.
	Waits(concealed []Tile, melds []Meld) []TileType
	Shanten(concealed []Tile, melds []Meld) int
	// Evaluate scores a complete hand; ok is false when the shape is not a
	// win or carries no yaku.
	Evaluate(w *WinContext) (WinValue, bool)
}

// WinContext describes a candidate win. Concealed excludes WinTile.
type WinContext struct {
	Concealed      []Tile
	Melds          []Meld
	WinTile        Tile
	Tsumo          bool
	SeatWind       Wind
	RoundWind      Wind
	DoraIndicators []Tile
	UraIndicators  []Tile // only passed for riichi winners

	Riichi       bool
	DoubleRiichi bool
	Ippatsu      bool
	Rinshan      bool
	Chankan      bool
	Haitei       bool
	Houtei       bool
	Tenhou       bool
	Chiihou      bool
}

type YakuHan struct {
	Yaku Yaku `json:"yaku" bson:"yaku"`
	Han  int  `json:"han" bson:"han"`
}

// WinValue is the evaluated hand. Base is the basic points the payments
// are derived from; Yakuman is the yakuman multiplier, 0 for normal hands.
type WinValue struct {
	Han     int       `json:"han" bson:"han"`
	Fu      int       `json:"fu" bson:"fu"`
	Yakuman int       `json:"yakuman" bson:"yakuman"`
	Yaku    []YakuHan `json:"yaku" bson:"yaku"`
	Base    int       `json:"base" bson:"base"`
}

func (v WinValue) Has(y Yaku) bool {
	for _, yh := range v.Yaku {
		if yh.Yaku == y {
			return true
		}
	}
	return false
}

// RiichiEvaluator is the stock Evaluator.
type RiichiEvaluator struct {
	searcher *Searcher
	RedFives bool
}

func NewEvaluator(memo Memo) *RiichiEvaluator {
	return &RiichiEvaluator{searcher: NewSearcher(memo), RedFives: true}
}

func (e *RiichiEvaluator) Waits(concealed []Tile, melds []Meld) []TileType {
	return e.searcher.Waits(Hand34FromTiles(concealed), len(melds))
}

func (e *RiichiEvaluator) Shanten(concealed []Tile, melds []Meld) int {
	return e.searcher.Shanten(Hand34FromTiles(concealed), len(melds))
}

func (e *RiichiEvaluator) Evaluate(w *WinContext) (WinValue, bool) {
	all := append(append([]Tile(nil), w.Concealed...), w.WinTile)
	h := Hand34FromTiles(all)
	if !e.searcher.IsAgariAll(h, len(w.Melds)) {
		return WinValue{}, false
	}

	var (
		best  WinValue
		found bool
	)
	dora := e.countDora(w)
	for _, s := range decompose(h, w.Melds) {
		for _, at := range winPositions(s, w.WinTile.Type) {
			yc := newYakuContext(w, s, at)
			v := yc.value()
			if v.Yakuman == 0 && v.Han == 0 {
				continue
			}
			if v.Yakuman == 0 {
				for _, d := range dora {
					v.Han += d.Han
					v.Yaku = append(v.Yaku, d)
				}
			}
			v.Base = basePoints(v.Han, v.Fu, v.Yakuman)
			if !found || v.Base > best.Base || (v.Base == best.Base && v.Han > best.Han) {
				best, found = v, true
			}
		}
	}
	return best, found
}

// countDora returns dora, red five and ura dora entries with non-zero han.
func (e *RiichiEvaluator) countDora(w *WinContext) []YakuHan {
	tiles := append(append([]Tile(nil), w.Concealed...), w.WinTile)
	for _, m := range w.Melds {
		tiles = append(tiles, m.Tiles()...)
	}
	count := func(indicators []Tile) int {
		n := 0
		for _, ind := range indicators {
			target := ind.Type.DoraFrom()
			for _, t := range tiles {
				if t.Type == target {
					n++
				}
			}
		}
		return n
	}
	var out []YakuHan
	if n := count(w.DoraIndicators); n > 0 {
		out = append(out, YakuHan{Yaku: YakuDora, Han: n})
	}
	if e.RedFives {
		n := 0
		for _, t := range tiles {
			if t.IsRedFive() {
				n++
			}
		}
		if n > 0 {
			out = append(out, YakuHan{Yaku: YakuAkaDora, Han: n})
		}
	}
	if w.Riichi {
		if n := count(w.UraIndicators); n > 0 {
			out = append(out, YakuHan{Yaku: YakuUraDora, Han: n})
		}
	}
	return out
}

type groupKind int

const (
	groupRun groupKind = iota
	groupSet
	groupPair
	groupSingle // kokushi leftovers
)

type group struct {
	kind groupKind
	tile TileType // lowest kind
	meld bool
	open bool
	quad bool
}

func (g group) has(t TileType) bool {
	if g.kind == groupRun {
		return t >= g.tile && t <= g.tile+2
	}
	return t == g.tile
}

func (g group) hasYaochu() bool {
	if g.kind == groupRun {
		return g.tile.IsTerminal() || (g.tile + 2).IsTerminal()
	}
	return g.tile.IsYaochu()
}

type shapeForm int

const (
	formNormal shapeForm = iota
	formChiitoi
	formKokushi
)

type shape struct {
	form   shapeForm
	groups []group
}

type waitKind int

const (
	waitRyanmen waitKind = iota
	waitKanchan
	waitPenchan
	waitShanpon
	waitTanki
)

type winAt struct {
	group int
	wait  waitKind
}

// decompose lists every reading of a complete hand: concealed counts h plus
// the declared melds.
func decompose(h Hand34, melds []Meld) []shape {
	var fixed []group
	for _, m := range melds {
		g := group{tile: m.Base(), meld: true, open: m.IsOpen(), quad: m.IsQuad()}
		switch m.Kind {
		case MeldSequence:
			g.kind = groupRun
		case MeldTriplet, MeldOpenQuad, MeldConcealedQuad, MeldAddedQuad:
			g.kind = groupSet
		}
		fixed = append(fixed, g)
	}

	var out []shape
	need := 4 - len(melds)
	for p := 0; p < TileKinds; p++ {
		if h[p] < 2 {
			continue
		}
		work := h
		work[p] -= 2
		var acc []group
		splitSets(&work, need, &acc, func(sets []group) {
			groups := append(append([]group(nil), fixed...), sets...)
			groups = append(groups, group{kind: groupPair, tile: TileType(p)})
			out = append(out, shape{form: formNormal, groups: groups})
		})
	}
	if len(melds) == 0 && IsAgariChiitoi(h) {
		var groups []group
		for i := 0; i < TileKinds; i++ {
			if h[i] == 2 {
				groups = append(groups, group{kind: groupPair, tile: TileType(i)})
			}
		}
		out = append(out, shape{form: formChiitoi, groups: groups})
	}
	if len(melds) == 0 && IsAgariKokushi(h) {
		var groups []group
		for _, i := range kokushiTiles {
			kind := groupSingle
			if h[i] == 2 {
				kind = groupPair
			}
			groups = append(groups, group{kind: kind, tile: TileType(i)})
		}
		out = append(out, shape{form: formKokushi, groups: groups})
	}
	return out
}

func splitSets(h *Hand34, need int, acc *[]group, emit func([]group)) {
	i := -1
	for k := 0; k < TileKinds; k++ {
		if (*h)[k] > 0 {
			i = k
			break
		}
	}
	if i == -1 {
		if need == 0 {
			emit(append([]group(nil), (*acc)...))
		}
		return
	}
	if need == 0 {
		return
	}
	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		*acc = append(*acc, group{kind: groupSet, tile: TileType(i)})
		splitSets(h, need-1, acc, emit)
		*acc = (*acc)[:len(*acc)-1]
		(*h)[i] += 3
	}
	if runStartsAt(i) && (*h)[i+1] > 0 && (*h)[i+2] > 0 {
		(*h)[i]--
		(*h)[i+1]--
		(*h)[i+2]--
		*acc = append(*acc, group{kind: groupRun, tile: TileType(i)})
		splitSets(h, need-1, acc, emit)
		*acc = (*acc)[:len(*acc)-1]
		(*h)[i]++
		(*h)[i+1]++
		(*h)[i+2]++
	}
}

// winPositions lists the concealed groups the winning tile can complete.
func winPositions(s shape, win TileType) []winAt {
	var out []winAt
	for i, g := range s.groups {
		if g.meld || !g.has(win) {
			continue
		}
		switch g.kind {
		case groupPair:
			out = append(out, winAt{group: i, wait: waitTanki})
		case groupSingle:
			out = append(out, winAt{group: i, wait: waitTanki})
		case groupSet:
			out = append(out, winAt{group: i, wait: waitShanpon})
		case groupRun:
			switch {
			case win == g.tile+1:
				out = append(out, winAt{group: i, wait: waitKanchan})
			case win == g.tile && g.tile.Number() == 7:
				out = append(out, winAt{group: i, wait: waitPenchan})
			case win == g.tile+2 && g.tile.Number() == 1:
				out = append(out, winAt{group: i, wait: waitPenchan})
			default:
				out = append(out, winAt{group: i, wait: waitRyanmen})
			}
		}
	}
	return out
}
