package mahjong

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const neutral = "147m258p369s1z5z6z7z"

// Dealer discards 5p: seat 1 may pon it, seat 2 may ron it on a kanchan.
var ronTable = wallLayout{
	hands: [4]string{
		"13579m2468s46z9p5p",
		"55p19m19s1234567z",
		"234m567m33s456s46p",
		"258m258s369p1357z",
	},
	draws: "8p5p",
	dead:  "1p1p1p1p7z",
}

// Dealer is ready on 4s/7s and draws an East first.
var eastTable = wallLayout{
	hands: [4]string{"234m567m234p56s77s", neutral, neutral, neutral},
	draws: "1z",
}

func TestStart_Deal(t *testing.T) {
	h := startHand(t, wallLayout{hands: eastTable.hands, draws: "1z"})

	require.Equal(t, PhaseAwaitingSelfAction, h.Phase)
	require.Equal(t, 0, h.Turn)
	require.Equal(t, uint64(1), h.Token)
	require.NotNil(t, h.Players[0].Drawn)
	require.Equal(t, 14, h.Players[0].TileCount())
	for seat := 1; seat < 4; seat++ {
		require.Equal(t, 13, h.Players[seat].TileCount())
		require.Nil(t, h.Players[seat].Drawn)
	}
	require.Len(t, h.Wall.DoraIndicators(), 1)
	require.Equal(t, liveWallSize-53, h.Wall.TurnRest())
	require.Equal(t, []TileType{So4, So7}, h.Players[0].Waits())
}

func TestStart_RejectsBadConfig(t *testing.T) {
	_, err := Start(HandConfig{}, NewTileDeck())
	require.Error(t, err)

	cfg := testConfig(NewEvaluator(nil))
	cfg.Dealer = 4
	_, err = Start(cfg, NewTileDeck())
	require.ErrorIs(t, err, ErrBadSeat)

	cfg.Dealer = 0
	_, err = Start(cfg, NewTileDeck()[:100])
	require.ErrorIs(t, err, ErrBadWall)
}

func TestApply_RejectionsChangeNothing(t *testing.T) {
	h := startHand(t, eastTable)
	token := h.Token
	east := *h.Players[0].Drawn

	err := h.Apply(Input{Token: token - 1, Kind: InputDiscard, Seat: 0, Tile: east})
	require.ErrorIs(t, err, ErrStaleToken)

	cases := []struct {
		in   Input
		want error
	}{
		{Input{Kind: InputDiscard, Seat: 1, Tile: east}, ErrNotYourTurn},
		{Input{Kind: InputDiscard, Seat: 0, Tile: Tile{Type: Man9, ID: 3}}, ErrTileNotInHand},
		{Input{Kind: InputDraw, Seat: 0}, ErrWrongPhase},
		{Input{Kind: InputWin, Seat: 0}, ErrActionNotOffered},
		{Input{Kind: InputSkip, Seat: 1}, ErrWrongPhase},
		{Input{Kind: InputRiichi, Seat: 0, Tile: handTile(t, h, 0, "2m")}, ErrActionNotOffered},
		{Input{Kind: InputDiscard, Seat: 7}, ErrBadSeat},
	}
	for _, c := range cases {
		c.in.Token = token
		require.ErrorIs(t, h.Apply(c.in), c.want, "%s seat %d", c.in.Kind, c.in.Seat)
	}
	require.Equal(t, token, h.Token)
	require.Equal(t, 14, h.Players[0].TileCount())
}

func TestApply_DiscardPassesTurn(t *testing.T) {
	var tokens []uint64
	ws := eastTable
	eval := NewEvaluator(nil)
	cfg := testConfig(eval)
	cfg.Publisher = func(s *Snapshot) { tokens = append(tokens, s.Token) }
	h, err := Start(cfg, ws.build(t))
	require.NoError(t, err)

	mustApply(t, h, Input{Kind: InputDiscard, Seat: 0, Tile: *h.Players[0].Drawn})
	require.Equal(t, 1, h.Turn)
	require.Equal(t, PhaseAwaitingSelfAction, h.Phase)
	require.Equal(t, 14, h.Players[1].TileCount())
	require.Equal(t, 13, h.Players[0].TileCount())
	require.True(t, h.Players[0].Discards[0].Tsumogiri)

	// one snapshot per commit, tokens strictly increasing
	for i := 1; i < len(tokens); i++ {
		require.Equal(t, tokens[i-1]+1, tokens[i])
	}
	require.Equal(t, h.Token, tokens[len(tokens)-1])
}

func TestApply_RonBeatsPon(t *testing.T) {
	h := startHand(t, ronTable)
	mustApply(t, h, Input{Kind: InputDiscard, Seat: 0, Tile: handTile(t, h, 0, "5p")})

	require.Equal(t, PhaseAwaitingReactions, h.Phase)
	require.Equal(t, []int{1, 2}, h.Waiting())
	require.True(t, h.Registry.Offered(1, ActionPon))
	require.True(t, h.Registry.Offered(2, ActionRon))

	pon := h.Registry.find(1, ActionPon).Options[0]
	mustApply(t, h, Input{Kind: InputCall, Seat: 1, Meld: pon})
	require.Equal(t, PhaseAwaitingReactions, h.Phase, "a pending ron holds the pon")

	mustApply(t, h, Input{Kind: InputWin, Seat: 2})
	require.Equal(t, PhaseHandEnded, h.Phase)
	s := h.Settlement
	require.Equal(t, EndRon, s.Kind)
	require.Len(t, s.Wins, 1)
	require.Equal(t, 2, s.Wins[0].Seat)
	require.Equal(t, 0, s.Wins[0].From)
	require.Equal(t, -1, s.Wins[0].Pao)
	require.Equal(t, 1300, s.Wins[0].Points)
	require.Equal(t, [4]int{-1300, 0, 1300, 0}, s.Delta)
	require.Equal(t, [4]int{23700, 25000, 26300, 25000}, s.Points)
	require.False(t, s.DealerContinues)
	require.Zero(t, s.Honba)
	require.Empty(t, h.Players[1].Melds)

	require.ErrorIs(t, h.Apply(Input{Token: h.Token, Kind: InputSkip, Seat: 1}), ErrHandOver)
}

func TestApply_PonAfterDeclinedRon(t *testing.T) {
	h := startHand(t, ronTable)
	mustApply(t, h, Input{Kind: InputDiscard, Seat: 0, Tile: handTile(t, h, 0, "5p")})
	mustApply(t, h, Input{Kind: InputSkip, Seat: 2})
	require.True(t, h.Players[2].TempFuriten)

	pon := h.Registry.find(1, ActionPon).Options[0]
	mustApply(t, h, Input{Kind: InputCall, Seat: 1, Meld: pon})

	p := h.Players[1]
	require.Equal(t, PhaseAwaitingSelfAction, h.Phase)
	require.Equal(t, 1, h.Turn)
	require.Len(t, p.Melds, 1)
	require.Equal(t, MeldTriplet, p.Melds[0].Kind)
	require.Equal(t, 3, p.Melds[0].From)
	require.Nil(t, p.Drawn)
	require.Equal(t, 14, p.TileCount())
	require.True(t, h.Players[0].Discards[0].Called)

	mustApply(t, h, Input{Kind: InputDiscard, Seat: 1, Tile: handTile(t, h, 1, "9s")})
	require.Equal(t, 2, h.Turn)
}

func TestApply_TemporaryFuriten(t *testing.T) {
	h := startHand(t, ronTable)
	mustApply(t, h, Input{Kind: InputDiscard, Seat: 0, Tile: handTile(t, h, 0, "5p")})
	mustApply(t, h, Input{Kind: InputSkip, Seat: 2})
	mustApply(t, h, Input{Kind: InputSkip, Seat: 1})

	require.Equal(t, 1, h.Turn)
	require.True(t, h.Players[2].Furiten())

	// the next 5p is out of reach, only the chi remains
	drawn := *h.Players[1].Drawn
	require.Equal(t, Pin5, drawn.Type)
	mustApply(t, h, Input{Kind: InputDiscard, Seat: 1, Tile: drawn})
	require.False(t, h.Registry.Offered(2, ActionRon))
	require.True(t, h.Registry.Offered(2, ActionChi))

	mustApply(t, h, Input{Kind: InputSkip, Seat: 2})
	require.Equal(t, 2, h.Turn)
	mustApply(t, h, Input{Kind: InputDiscard, Seat: 2, Tile: *h.Players[2].Drawn})
	require.False(t, h.Players[2].TempFuriten, "own discard lifts temporary furiten")
}

func TestApply_DoubleRiichi(t *testing.T) {
	h := startHand(t, eastTable)
	east := *h.Players[0].Drawn
	e := h.Registry.find(0, ActionRiichi)
	require.NotNil(t, e)
	require.Contains(t, e.Tiles, east)

	mustApply(t, h, Input{Kind: InputRiichi, Seat: 0, Tile: east})
	p := h.Players[0]
	require.True(t, p.Riichi)
	require.True(t, p.DoubleRiichi)
	require.True(t, p.Ippatsu)
	require.True(t, p.Discards[0].Riichi)
	require.Equal(t, 24000, p.Points)
	require.Equal(t, 1, h.Kyotaku)
	require.Equal(t, 1, h.Turn)

	// seats 1-3 play their draws back
	for seat := 1; seat < 4; seat++ {
		mustApply(t, h, Input{Kind: InputDiscard, Seat: seat, Tile: *h.Players[seat].Drawn})
	}
	require.Equal(t, 0, h.Turn)
	require.Equal(t, PhaseAwaitingSelfAction, h.Phase)

	err := h.Apply(Input{Token: h.Token, Kind: InputDiscard, Seat: 0, Tile: handTile(t, h, 0, "2p")})
	require.ErrorIs(t, err, ErrRiichiLocked)
	mustApply(t, h, Input{Kind: InputDiscard, Seat: 0, Tile: *h.Players[0].Drawn})
	require.False(t, p.Ippatsu)
}

func TestApply_FourWindsAbort(t *testing.T) {
	h := startHand(t, eastTable)
	mustApply(t, h, Input{Kind: InputDiscard, Seat: 0, Tile: *h.Players[0].Drawn})
	for seat := 1; seat < 4; seat++ {
		require.Equal(t, seat, h.Turn)
		mustApply(t, h, Input{Kind: InputDiscard, Seat: seat, Tile: handTile(t, h, seat, "1z")})
	}

	require.Equal(t, PhaseHandEnded, h.Phase)
	s := h.Settlement
	require.Equal(t, EndFourWind, s.Kind)
	require.True(t, s.Kind.IsAbort())
	require.True(t, s.DealerContinues)
	require.Equal(t, 1, s.Honba)
	require.Equal(t, [4]int{}, s.Delta)
}

func TestApply_NineTerminals(t *testing.T) {
	h := startHand(t, wallLayout{
		hands: [4]string{"19m19p19s1234z234m", neutral, neutral, neutral},
		draws: "5z",
	})
	require.True(t, h.Registry.Offered(0, ActionNineTerminals))

	mustApply(t, h, Input{Kind: InputAbort, Seat: 0})
	require.Equal(t, EndNineTerminals, h.Settlement.Kind)
	require.True(t, h.Settlement.DealerContinues)
	require.Equal(t, [4]int{25000, 25000, 25000, 25000}, h.Settlement.Points)
}

func TestApply_TenhouTsumo(t *testing.T) {
	h := startHand(t, wallLayout{hands: eastTable.hands, draws: "4s"})
	require.True(t, h.Registry.Offered(0, ActionTsumo))

	mustApply(t, h, Input{Kind: InputWin, Seat: 0})
	s := h.Settlement
	require.Equal(t, EndTsumo, s.Kind)
	require.True(t, s.Wins[0].Value.Has(YakuTenhou))
	require.Equal(t, -1, s.Wins[0].From)
	require.Equal(t, [4]int{48000, -16000, -16000, -16000}, s.Delta)
	require.True(t, s.DealerContinues)
	require.Equal(t, 1, s.Honba)
}

// winOnce offers a tsumo and then refuses to score it.
type winOnce struct {
	calls int
}

func (e *winOnce) Waits([]Tile, []Meld) []TileType { return nil }
func (e *winOnce) Shanten([]Tile, []Meld) int      { return 8 }
func (e *winOnce) Evaluate(*WinContext) (WinValue, bool) {
	e.calls++
	return WinValue{Han: 1, Fu: 30, Base: 240}, e.calls == 1
}

func TestApply_InvariantHaltsHand(t *testing.T) {
	var last *Snapshot
	cfg := testConfig(&winOnce{})
	cfg.Publisher = func(s *Snapshot) { last = s }
	h, err := Start(cfg, ShuffledWalls{Seed: 3}.Wall(0))
	require.NoError(t, err)

	err = h.Apply(Input{Token: h.Token, Kind: InputWin, Seat: 0})
	require.ErrorIs(t, err, ErrInvariant)
	require.Equal(t, PhaseHalted, h.Phase)
	require.ErrorIs(t, h.Err, ErrInvariant)
	require.NotEmpty(t, last.Halted)
	require.Nil(t, h.Settlement)
	require.ErrorIs(t, h.Apply(Input{Token: h.Token, Kind: InputSkip}), ErrHandOver)
}

func TestPlayOut_ExhaustiveAndDeterministic(t *testing.T) {
	wall := ShuffledWalls{Seed: 11}.Wall(0)
	play := func() *Hand {
		h, err := Start(testConfig(NewEvaluator(nil)), wall)
		require.NoError(t, err)
		playOut(t, h)
		return h
	}
	a, b := play(), play()
	require.Equal(t, a.Settlement, b.Settlement)
	require.Equal(t, a.Token, b.Token)

	s := a.Settlement
	require.Contains(t, []EndKind{EndExhaustive, EndNagashi, EndFourWind}, s.Kind)
	sum := 0
	for i, d := range s.Delta {
		sum += d
		require.Equal(t, 25000+d, s.Points[i])
	}
	require.Zero(t, sum)
	if s.Kind == EndExhaustive {
		require.Equal(t, exhaustiveExchange(s.Tenpai), s.Delta)
		require.Zero(t, a.Wall.TurnRest())
	}
	require.Equal(t, 1, s.Honba)
}

func TestApply_FourKanAbort(t *testing.T) {
	h := startHand(t, wallLayout{
		hands: [4]string{
			"111p333p444p1234z",
			"888m35m1248s234z6p",
			neutral,
			neutral,
		},
		draws: "1p8m",
		dead:  "4p3p6z5z",
	})
	for _, kind := range []TileType{Pin1, Pin3, Pin4} {
		e := h.Registry.find(0, ActionAnkan)
		require.NotNil(t, e, "quad of %s", kind)
		require.Equal(t, kind, e.Options[0].Own[0].Type)
		mustApply(t, h, Input{Kind: InputCall, Seat: 0, Meld: e.Options[0]})
	}
	require.Len(t, h.Wall.DoraIndicators(), 4)
	mustApply(t, h, Input{Kind: InputDiscard, Seat: 0, Tile: *h.Players[0].Drawn})

	require.Equal(t, 1, h.Turn)
	mustApply(t, h, Input{Kind: InputCall, Seat: 1, Meld: h.Registry.find(1, ActionAnkan).Options[0]})
	require.Len(t, h.Wall.DoraIndicators(), 5)
	require.Zero(t, h.Wall.RinshanRest())
	mustApply(t, h, Input{Kind: InputDiscard, Seat: 1, Tile: *h.Players[1].Drawn})

	require.Equal(t, PhaseHandEnded, h.Phase)
	s := h.Settlement
	require.Equal(t, EndFourKan, s.Kind)
	require.Equal(t, [4]int{}, s.Delta)
	require.True(t, s.DealerContinues)
	require.Equal(t, 1, s.Honba)
}

func TestApply_FourRiichiAbort(t *testing.T) {
	h := startHand(t, wallLayout{
		hands: [4]string{
			"123m456m789m123p9p",
			"123s456s789s456p9s",
			"123m456m789m456p1z",
			"123s456s789s789p2z",
		},
		draws: "7z6z5z4z",
	})
	for seat := 0; seat < 4; seat++ {
		require.Equal(t, seat, h.Turn)
		mustApply(t, h, Input{Kind: InputRiichi, Seat: seat, Tile: *h.Players[seat].Drawn})
	}

	require.Equal(t, PhaseHandEnded, h.Phase)
	s := h.Settlement
	require.Equal(t, EndFourRiichi, s.Kind)
	require.Equal(t, [4]int{}, s.Delta)
	require.Equal(t, [4]int{24000, 24000, 24000, 24000}, s.Points)
	require.Equal(t, 4, s.Kyotaku)
	require.Equal(t, 1, s.Honba)
	require.True(t, s.DealerContinues)
}
