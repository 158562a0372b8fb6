package mahjong

import (
	"fmt"
)

type Hand34 [TileKinds]uint8

// Memo is the cache behind the searcher; common/cache.GeneralCache fits.
type Memo interface {
	Get(key string) (any, bool)
	Set(key string, value any) bool
}

// Searcher answers shape questions (agari, waits, shanten) on kind counts,
// memoized by hand key. A nil memo disables caching.
type Searcher struct {
	memo Memo
}

func NewSearcher(memo Memo) *Searcher {
	return &Searcher{memo: memo}
}

func (s *Searcher) load(key string) (any, bool) {
	if s.memo == nil {
		return nil, false
	}
	return s.memo.Get(key)
}

func (s *Searcher) store(key string, v any) {
	if s.memo != nil {
		s.memo.Set(key, v)
	}
}

// Waits lists the kinds completing a 13-tile shape. Kinds the hand already
// holds four of are skipped.
func (s *Searcher) Waits(h13 Hand34, fixedMelds int) []TileType {
	key := "w" + h13.keyWithFixedMelds(fixedMelds)
	if v, ok := s.load(key); ok {
		return append([]TileType(nil), v.([]TileType)...)
	}

	var waits []TileType
	for t := 0; t < TileKinds; t++ {
		if h13[t] >= 4 {
			continue
		}
		work := h13
		work[t]++
		if s.IsAgariAll(work, fixedMelds) {
			waits = append(waits, TileType(t))
		}
	}
	s.store(key, append([]TileType(nil), waits...))
	return waits
}

// IsAgariAll tests a complete shape; chiitoitsu and kokushi need a closed hand.
func (s *Searcher) IsAgariAll(h Hand34, fixedMelds int) bool {
	key := "a" + h.keyWithFixedMelds(fixedMelds)
	if v, ok := s.load(key); ok {
		return v.(bool)
	}

	var ok bool
	if fixedMelds > 0 {
		ok = IsAgariNormal(h, fixedMelds)
	} else {
		ok = IsAgariNormal(h, 0) || IsAgariChiitoi(h) || IsAgariKokushi(h)
	}
	s.store(key, ok)
	return ok
}

// IsAgariNormal tries every pair, then splits the rest into sets.
func IsAgariNormal(h Hand34, fixedMelds int) bool {
	need := 4 - fixedMelds
	if need < 0 {
		return false
	}

	for j := 0; j < TileKinds; j++ {
		if h[j] < 2 {
			continue
		}
		work := h
		work[j] -= 2
		if canFormMelds(&work, need) {
			return true
		}
	}
	return false
}

// IsAgariChiitoi needs seven distinct pairs.
func IsAgariChiitoi(h Hand34) bool {
	pairs := 0
	for i := 0; i < TileKinds; i++ {
		switch h[i] {
		case 0:
		case 2:
			pairs++
		default:
			return false
		}
	}
	return pairs == 7
}

func IsAgariKokushi(h Hand34) bool {
	unique := 0
	pair := false
	total := 0
	for _, idx := range kokushiTiles {
		if h[idx] > 0 {
			unique++
			if h[idx] >= 2 {
				pair = true
			}
		}
		total += int(h[idx])
	}
	return unique == 13 && pair && total == 14
}

func canFormMelds(h *Hand34, need int) bool {
	if need == 0 {
		for i := 0; i < TileKinds; i++ {
			if (*h)[i] != 0 {
				return false
			}
		}
		return true
	}

	i := -1
	for k := 0; k < TileKinds; k++ {
		if (*h)[k] > 0 {
			i = k
			break
		}
	}
	if i == -1 {
		return false
	}
	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		if canFormMelds(h, need-1) {
			(*h)[i] += 3
			return true
		}
		(*h)[i] += 3
	}
	if runStartsAt(i) && (*h)[i+1] > 0 && (*h)[i+2] > 0 {
		(*h)[i]--
		(*h)[i+1]--
		(*h)[i+2]--
		ok := canFormMelds(h, need-1)
		(*h)[i]++
		(*h)[i+1]++
		(*h)[i+2]++
		if ok {
			return true
		}
	}
	return false
}

func Hand34FromTiles(tiles []Tile) Hand34 {
	var h Hand34
	for _, t := range tiles {
		h[int(t.Type)]++
	}
	return h
}

func (h Hand34) keyWithFixedMelds(fixedMelds int) string {
	var b [TileKinds]byte
	for i := 0; i < TileKinds; i++ {
		b[i] = '0' + h[i]
	}
	return fmt.Sprintf("%s/%d", b[:], fixedMelds)
}

// runStartsAt reports whether i, i+1, i+2 form a sequence within one suit.
func runStartsAt(i int) bool {
	t := TileType(i)
	return t.IsNumbered() && t.Number() <= 7
}

var kokushiTiles = [13]int{
	int(Man1), int(Man9),
	int(Pin1), int(Pin9),
	int(So1), int(So9),
	int(East), int(South), int(West), int(North),
	int(White), int(Green), int(Red),
}

// Shanten is the minimum over normal, chiitoitsu and kokushi shapes; -1 is complete.
func (s *Searcher) Shanten(h Hand34, fixedMelds int) int {
	key := "s" + h.keyWithFixedMelds(fixedMelds)
	if v, ok := s.load(key); ok {
		return v.(int)
	}

	best := ShantenNormal(h, fixedMelds)
	if fixedMelds == 0 {
		if v := ShantenChiitoi(h); v < best {
			best = v
		}
		if v := ShantenKokushi(h); v < best {
			best = v
		}
	}
	s.store(key, best)
	return best
}

func ShantenKokushi(h Hand34) int {
	unique := 0
	pair := false
	for _, idx := range kokushiTiles {
		if h[idx] > 0 {
			unique++
			if h[idx] >= 2 {
				pair = true
			}
		}
	}
	sh := 13 - unique
	if pair {
		sh--
	}
	return sh
}

func ShantenChiitoi(h Hand34) int {
	pairs := 0
	unique := 0
	for i := 0; i < TileKinds; i++ {
		if h[i] > 0 {
			unique++
		}
		if h[i] >= 2 {
			pairs++
		}
	}
	sh := 6 - pairs
	if unique < 7 {
		sh += 7 - unique
	}
	return sh
}

func ShantenNormal(h Hand34, fixedMelds int) int {
	best := 8
	work := h
	dfsNormalShanten(&work, fixedMelds, 0, 0, &best)
	return best
}

// dfsNormalShanten: m sets formed (fixed melds included), p pair taken (0/1),
// t partial sets; best holds the global minimum.
func dfsNormalShanten(h *Hand34, m int, p int, t int, best *int) {
	if m > 4 {
		return
	}

	t2 := t
	if limit := 4 - m; t2 > limit {
		t2 = limit
	}
	if sh := 8 - 2*m - t2 - p; sh < *best {
		*best = sh
	}

	i := -1
	for k := 0; k < TileKinds; k++ {
		if (*h)[k] > 0 {
			i = k
			break
		}
	}
	if i == -1 {
		return
	}

	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		dfsNormalShanten(h, m+1, p, t, best)
		(*h)[i] += 3
	}
	if p == 0 && (*h)[i] >= 2 {
		(*h)[i] -= 2
		dfsNormalShanten(h, m, 1, t, best)
		(*h)[i] += 2
	}

	kind := TileType(i)
	if kind.IsNumbered() {
		n := kind.Number()
		if n <= 7 && (*h)[i+1] > 0 && (*h)[i+2] > 0 {
			(*h)[i]--
			(*h)[i+1]--
			(*h)[i+2]--
			dfsNormalShanten(h, m+1, p, t, best)
			(*h)[i]++
			(*h)[i+1]++
			(*h)[i+2]++
		}
		if n <= 8 && (*h)[i+1] > 0 {
			(*h)[i]--
			(*h)[i+1]--
			dfsNormalShanten(h, m, p, t+1, best)
			(*h)[i]++
			(*h)[i+1]++
		}
		if n <= 7 && (*h)[i+2] > 0 {
			(*h)[i]--
			(*h)[i+2]--
			dfsNormalShanten(h, m, p, t+1, best)
			(*h)[i]++
			(*h)[i+2]++
		}
	}

	(*h)[i]--
	dfsNormalShanten(h, m, p, t, best)
	(*h)[i]++
}
