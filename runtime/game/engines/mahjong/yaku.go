package mahjong

// Yaku identifies one scoring pattern.
type Yaku int

const (
	YakuRiichi Yaku = iota
	YakuDoubleRiichi
	YakuIppatsu
	YakuMenzenTsumo
	YakuPinfu
	YakuTanyao
	YakuIipeikou
	YakuHaku
	YakuHatsu
	YakuChun
	YakuSeatWind
	YakuRoundWind
	YakuHaitei
	YakuHoutei
	YakuRinshan
	YakuChankan
	YakuChiitoitsu
	YakuToitoi
	YakuSanankou
	YakuSankantsu
	YakuSanshoku
	YakuIttsu
	YakuChanta
	YakuJunchan
	YakuHonroutou
	YakuShousangen
	YakuRyanpeikou
	YakuHonitsu
	YakuChinitsu

	// yakuman
	YakuKokushi
	YakuKokushi13
	YakuSuuankou
	YakuSuuankouTanki
	YakuDaisangen
	YakuShousuushii
	YakuDaisuushii
	YakuTsuuiisou
	YakuChinroutou
	YakuRyuuiisou
	YakuChuuren
	YakuJunseiChuuren
	YakuSuukantsu
	YakuTenhou
	YakuChiihou

	// bonus, never a yaku on its own
	YakuDora
	YakuAkaDora
	YakuUraDora
)

var yakuNames = map[Yaku]string{
	YakuRiichi: "riichi", YakuDoubleRiichi: "double riichi", YakuIppatsu: "ippatsu",
	YakuMenzenTsumo: "menzen tsumo", YakuPinfu: "pinfu", YakuTanyao: "tanyao",
	YakuIipeikou: "iipeikou", YakuHaku: "haku", YakuHatsu: "hatsu", YakuChun: "chun",
	YakuSeatWind: "seat wind", YakuRoundWind: "round wind", YakuHaitei: "haitei",
	YakuHoutei: "houtei", YakuRinshan: "rinshan kaihou", YakuChankan: "chankan",
	YakuChiitoitsu: "chiitoitsu", YakuToitoi: "toitoi", YakuSanankou: "sanankou",
	YakuSankantsu: "sankantsu", YakuSanshoku: "sanshoku doujun", YakuIttsu: "ittsu",
	YakuChanta: "chanta", YakuJunchan: "junchan", YakuHonroutou: "honroutou",
	YakuShousangen: "shousangen", YakuRyanpeikou: "ryanpeikou", YakuHonitsu: "honitsu",
	YakuChinitsu: "chinitsu", YakuKokushi: "kokushi musou", YakuKokushi13: "kokushi 13-sided",
	YakuSuuankou: "suuankou", YakuSuuankouTanki: "suuankou tanki", YakuDaisangen: "daisangen",
	YakuShousuushii: "shousuushii", YakuDaisuushii: "daisuushii", YakuTsuuiisou: "tsuuiisou",
	YakuChinroutou: "chinroutou", YakuRyuuiisou: "ryuuiisou", YakuChuuren: "chuuren poutou",
	YakuJunseiChuuren: "junsei chuuren", YakuSuukantsu: "suukantsu", YakuTenhou: "tenhou",
	YakuChiihou: "chiihou", YakuDora: "dora", YakuAkaDora: "aka dora", YakuUraDora: "ura dora",
}

func (y Yaku) String() string {
	if s, ok := yakuNames[y]; ok {
		return s
	}
	return "unknown"
}

// yakuContext is one reading of a winning hand.
type yakuContext struct {
	win     *WinContext
	shape   shape
	at      winAt
	menzen  bool
	tiles   []TileType // every tile, quads counted four times
	h13     Hand34     // concealed tiles before the win
	seat    TileType
	round   TileType
	concSet int // concealed triplets and quads
}

func newYakuContext(w *WinContext, s shape, at winAt) *yakuContext {
	c := &yakuContext{
		win:    w,
		shape:  s,
		at:     at,
		menzen: true,
		h13:    Hand34FromTiles(w.Concealed),
		seat:   w.SeatWind.Tile(),
		round:  w.RoundWind.Tile(),
	}
	for _, m := range w.Melds {
		if m.IsOpen() {
			c.menzen = false
		}
		c.tiles = append(c.tiles, TypesOf(m.Tiles())...)
	}
	c.tiles = append(c.tiles, TypesOf(w.Concealed)...)
	c.tiles = append(c.tiles, w.WinTile.Type)
	for i, g := range s.groups {
		if g.kind == groupSet && c.concealedSet(i) {
			c.concSet++
		}
	}
	return c
}

// concealedSet: a triplet completed by ron counts as open.
func (c *yakuContext) concealedSet(i int) bool {
	g := c.shape.groups[i]
	if g.meld {
		return !g.open
	}
	return c.win.Tsumo || i != c.at.group
}

func (c *yakuContext) sets() []group {
	var out []group
	for _, g := range c.shape.groups {
		if g.kind == groupRun || g.kind == groupSet {
			out = append(out, g)
		}
	}
	return out
}

func (c *yakuContext) pair() (group, bool) {
	for _, g := range c.shape.groups {
		if g.kind == groupPair {
			return g, true
		}
	}
	return group{}, false
}

func (c *yakuContext) countSets(pred func(group) bool) int {
	n := 0
	for _, g := range c.sets() {
		if pred(g) {
			n++
		}
	}
	return n
}

func (c *yakuContext) all(pred func(TileType) bool) bool {
	for _, t := range c.tiles {
		if !pred(t) {
			return false
		}
	}
	return true
}

func (c *yakuContext) hasSet(t TileType) bool {
	return c.countSets(func(g group) bool { return g.kind == groupSet && g.tile == t }) > 0
}

// openHan picks the closed or the reduced open value.
func (c *yakuContext) openHan(closed int) int {
	if c.menzen {
		return closed
	}
	return closed - 1
}

func (c *yakuContext) isPinfu() bool {
	if c.shape.form != formNormal || !c.menzen || len(c.win.Melds) > 0 || c.at.wait != waitRyanmen {
		return false
	}
	if c.countSets(func(g group) bool { return g.kind == groupRun }) != 4 {
		return false
	}
	p, _ := c.pair()
	return !p.tile.IsDragon() && p.tile != c.seat && p.tile != c.round
}

func (c *yakuContext) peikou() int {
	if !c.menzen || c.shape.form != formNormal {
		return 0
	}
	runs := map[TileType]int{}
	for _, g := range c.sets() {
		if g.kind == groupRun {
			runs[g.tile]++
		}
	}
	n := 0
	for _, k := range runs {
		n += k / 2
	}
	return n
}

func (c *yakuContext) singleSuit() (suit int, honors bool, ok bool) {
	suit = -1
	for _, t := range c.tiles {
		if t.IsHonor() {
			honors = true
			continue
		}
		if suit >= 0 && t.Suit() != suit {
			return -1, honors, false
		}
		suit = t.Suit()
	}
	return suit, honors, suit >= 0
}

type yakuChecker struct {
	id Yaku
	// check returns han, or the yakuman multiplier for yakuman entries.
	check func(c *yakuContext) int
}

var yakumanRegistry = []yakuChecker{
	{YakuKokushi13, func(c *yakuContext) int {
		if c.shape.form == formKokushi && ShantenKokushi(c.h13) == 0 && kokushiDistinct(c.h13) == 13 {
			return 2
		}
		return 0
	}},
	{YakuKokushi, func(c *yakuContext) int {
		if c.shape.form == formKokushi && kokushiDistinct(c.h13) != 13 {
			return 1
		}
		return 0
	}},
	{YakuSuuankouTanki, func(c *yakuContext) int {
		if c.concSet == 4 && c.at.wait == waitTanki {
			return 2
		}
		return 0
	}},
	{YakuSuuankou, func(c *yakuContext) int {
		if c.concSet == 4 && c.at.wait != waitTanki {
			return 1
		}
		return 0
	}},
	{YakuDaisangen, func(c *yakuContext) int {
		if c.hasSet(White) && c.hasSet(Green) && c.hasSet(Red) {
			return 1
		}
		return 0
	}},
	{YakuDaisuushii, func(c *yakuContext) int {
		if c.countSets(func(g group) bool { return g.kind == groupSet && g.tile.IsWind() }) == 4 {
			return 2
		}
		return 0
	}},
	{YakuShousuushii, func(c *yakuContext) int {
		p, ok := c.pair()
		if ok && c.shape.form == formNormal && p.tile.IsWind() &&
			c.countSets(func(g group) bool { return g.kind == groupSet && g.tile.IsWind() }) == 3 {
			return 1
		}
		return 0
	}},
	{YakuTsuuiisou, func(c *yakuContext) int {
		if c.all(TileType.IsHonor) {
			return 1
		}
		return 0
	}},
	{YakuChinroutou, func(c *yakuContext) int {
		if c.all(TileType.IsTerminal) {
			return 1
		}
		return 0
	}},
	{YakuRyuuiisou, func(c *yakuContext) int {
		if c.all(func(t TileType) bool {
			return t == So2 || t == So3 || t == So4 || t == So6 || t == So8 || t == Green
		}) {
			return 1
		}
		return 0
	}},
	{YakuJunseiChuuren, func(c *yakuContext) int {
		if suit, ok := c.chuuren(); ok && isNineGates(c.h13, suit, true) {
			return 2
		}
		return 0
	}},
	{YakuChuuren, func(c *yakuContext) int {
		if suit, ok := c.chuuren(); ok && !isNineGates(c.h13, suit, true) {
			return 1
		}
		return 0
	}},
	{YakuSuukantsu, func(c *yakuContext) int {
		if c.countSets(func(g group) bool { return g.quad }) == 4 {
			return 1
		}
		return 0
	}},
	{YakuTenhou, func(c *yakuContext) int {
		if c.win.Tenhou {
			return 1
		}
		return 0
	}},
	{YakuChiihou, func(c *yakuContext) int {
		if c.win.Chiihou {
			return 1
		}
		return 0
	}},
}

var yakuRegistry = []yakuChecker{
	{YakuRiichi, func(c *yakuContext) int {
		if c.win.Riichi && !c.win.DoubleRiichi {
			return 1
		}
		return 0
	}},
	{YakuDoubleRiichi, func(c *yakuContext) int {
		if c.win.DoubleRiichi {
			return 2
		}
		return 0
	}},
	{YakuIppatsu, func(c *yakuContext) int {
		if c.win.Riichi && c.win.Ippatsu {
			return 1
		}
		return 0
	}},
	{YakuMenzenTsumo, func(c *yakuContext) int {
		if c.menzen && c.win.Tsumo {
			return 1
		}
		return 0
	}},
	{YakuPinfu, func(c *yakuContext) int {
		if c.isPinfu() {
			return 1
		}
		return 0
	}},
	{YakuTanyao, func(c *yakuContext) int {
		if c.all(func(t TileType) bool { return !t.IsYaochu() }) {
			return 1
		}
		return 0
	}},
	{YakuIipeikou, func(c *yakuContext) int {
		if c.peikou() == 1 {
			return 1
		}
		return 0
	}},
	{YakuRyanpeikou, func(c *yakuContext) int {
		if c.peikou() == 2 {
			return 3
		}
		return 0
	}},
	{YakuHaku, func(c *yakuContext) int { return boolHan(c.hasSet(White), 1) }},
	{YakuHatsu, func(c *yakuContext) int { return boolHan(c.hasSet(Green), 1) }},
	{YakuChun, func(c *yakuContext) int { return boolHan(c.hasSet(Red), 1) }},
	{YakuSeatWind, func(c *yakuContext) int { return boolHan(c.hasSet(c.seat), 1) }},
	{YakuRoundWind, func(c *yakuContext) int { return boolHan(c.hasSet(c.round), 1) }},
	{YakuHaitei, func(c *yakuContext) int { return boolHan(c.win.Haitei && c.win.Tsumo, 1) }},
	{YakuHoutei, func(c *yakuContext) int { return boolHan(c.win.Houtei && !c.win.Tsumo, 1) }},
	{YakuRinshan, func(c *yakuContext) int { return boolHan(c.win.Rinshan && c.win.Tsumo, 1) }},
	{YakuChankan, func(c *yakuContext) int { return boolHan(c.win.Chankan, 1) }},
	{YakuChiitoitsu, func(c *yakuContext) int { return boolHan(c.shape.form == formChiitoi, 2) }},
	{YakuToitoi, func(c *yakuContext) int {
		return boolHan(c.shape.form == formNormal &&
			c.countSets(func(g group) bool { return g.kind == groupSet }) == 4, 2)
	}},
	{YakuSanankou, func(c *yakuContext) int { return boolHan(c.concSet == 3, 2) }},
	{YakuSankantsu, func(c *yakuContext) int {
		return boolHan(c.countSets(func(g group) bool { return g.quad }) == 3, 2)
	}},
	{YakuSanshoku, func(c *yakuContext) int {
		for n := 0; n < 7; n++ {
			if c.hasRun(TileType(n)) && c.hasRun(TileType(9+n)) && c.hasRun(TileType(18+n)) {
				return c.openHan(2)
			}
		}
		return 0
	}},
	{YakuIttsu, func(c *yakuContext) int {
		for s := 0; s < 3; s++ {
			base := TileType(9 * s)
			if c.hasRun(base) && c.hasRun(base+3) && c.hasRun(base+6) {
				return c.openHan(2)
			}
		}
		return 0
	}},
	{YakuChanta, func(c *yakuContext) int {
		if c.outsideHand() && c.hasAnyRun() && !c.all(func(t TileType) bool { return !t.IsHonor() }) {
			return c.openHan(2)
		}
		return 0
	}},
	{YakuJunchan, func(c *yakuContext) int {
		if c.outsideHand() && c.hasAnyRun() && c.all(func(t TileType) bool { return !t.IsHonor() }) {
			return c.openHan(3)
		}
		return 0
	}},
	{YakuHonroutou, func(c *yakuContext) int {
		return boolHan(c.all(TileType.IsYaochu) && !c.all(TileType.IsHonor) && !c.all(TileType.IsTerminal), 2)
	}},
	{YakuShousangen, func(c *yakuContext) int {
		p, ok := c.pair()
		dragons := c.countSets(func(g group) bool { return g.kind == groupSet && g.tile.IsDragon() })
		return boolHan(ok && c.shape.form == formNormal && p.tile.IsDragon() && dragons == 2, 2)
	}},
	{YakuHonitsu, func(c *yakuContext) int {
		if _, honors, ok := c.singleSuit(); ok && honors {
			return c.openHan(3)
		}
		return 0
	}},
	{YakuChinitsu, func(c *yakuContext) int {
		if _, honors, ok := c.singleSuit(); ok && !honors {
			return c.openHan(6)
		}
		return 0
	}},
}

func boolHan(ok bool, han int) int {
	if ok {
		return han
	}
	return 0
}

func (c *yakuContext) hasRun(start TileType) bool {
	return c.countSets(func(g group) bool { return g.kind == groupRun && g.tile == start }) > 0
}

func (c *yakuContext) hasAnyRun() bool {
	return c.countSets(func(g group) bool { return g.kind == groupRun }) > 0
}

// outsideHand: every group and the pair touch a terminal or honor.
func (c *yakuContext) outsideHand() bool {
	if c.shape.form != formNormal {
		return false
	}
	for _, g := range c.shape.groups {
		if !g.hasYaochu() {
			return false
		}
	}
	return true
}

func (c *yakuContext) chuuren() (int, bool) {
	if !c.menzen || len(c.win.Melds) > 0 || c.shape.form != formNormal {
		return -1, false
	}
	suit, honors, ok := c.singleSuit()
	if !ok || honors {
		return -1, false
	}
	full := c.h13
	full[c.win.WinTile.Type]++
	return suit, isNineGates(full, suit, false)
}

// isNineGates checks 1112345678999 plus one tile of the suit; exact asks
// for the bare 13-tile pattern.
func isNineGates(h Hand34, suit int, exact bool) bool {
	want := [9]uint8{3, 1, 1, 1, 1, 1, 1, 1, 3}
	total := 0
	for n := 0; n < 9; n++ {
		got := h[suit*9+n]
		if got < want[n] || (exact && got != want[n]) {
			return false
		}
		total += int(got)
	}
	if exact {
		return total == 13
	}
	return total == 14
}

func kokushiDistinct(h Hand34) int {
	n := 0
	for _, i := range kokushiTiles {
		if h[i] > 0 {
			n++
		}
	}
	return n
}

// value runs the registries: yakuman first, normal yaku only without one.
func (c *yakuContext) value() WinValue {
	var v WinValue
	for _, y := range yakumanRegistry {
		if mult := y.check(c); mult > 0 {
			v.Yakuman += mult
			v.Yaku = append(v.Yaku, YakuHan{Yaku: y.id, Han: 13 * mult})
		}
	}
	if v.Yakuman > 0 {
		return v
	}
	for _, y := range yakuRegistry {
		if han := y.check(c); han > 0 {
			v.Han += han
			v.Yaku = append(v.Yaku, YakuHan{Yaku: y.id, Han: han})
		}
	}
	v.Fu = c.fu()
	return v
}
