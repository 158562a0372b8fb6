package mahjong

import (
	"errors"
	"fmt"
	"time"

	"github.com/k-jun/mahjong-tui-sub000/common/log"
)

type Phase int

const (
	PhaseAwaitingDraw Phase = iota
	PhaseAwaitingSelfAction
	PhaseAwaitingReactions
	PhaseHandEnded
	PhaseHalted
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingDraw:
		return "awaiting-draw"
	case PhaseAwaitingSelfAction:
		return "awaiting-self-action"
	case PhaseAwaitingReactions:
		return "awaiting-reactions"
	case PhaseHandEnded:
		return "hand-ended"
	case PhaseHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// Publisher receives a deep copy after every state change.
type Publisher func(s *Snapshot)

// HandConfig is what a hand inherits from the match.
type HandConfig struct {
	Number    int // hands played before this one
	Round     Wind
	Dealer    int
	Honba     int
	Kyotaku   int
	Points    [4]int
	Users     [4]string
	AutoDraw  bool
	StepDelay time.Duration
	Evaluator Evaluator
	Publisher Publisher
}

// Hand is one deal, from the deal to settlement. It is not safe for
// concurrent use; callers serialize Apply.
type Hand struct {
	Number     int
	Round      Wind
	Dealer     int
	Honba      int
	Kyotaku    int
	Players    [4]*PlayerImage
	Wall       *Wall
	Token      uint64
	Phase      Phase
	Turn       int
	Registry   Registry
	Settlement *Settlement
	Err        error

	eval      Evaluator
	publish   Publisher
	autoDraw  bool
	stepDelay time.Duration
	sleep     func(time.Duration)

	steps        []step
	callsMade    bool
	discardCount int
	pendingDora  int
	riichiSeat   int
	riichiDouble bool
	kanSeats     []int
}

// Start deals a hand from tiles and performs the dealer's first draw.
func Start(cfg HandConfig, tiles []Tile) (*Hand, error) {
	if cfg.Evaluator == nil {
		return nil, errors.New("hand needs an evaluator")
	}
	if cfg.Dealer < 0 || cfg.Dealer > 3 {
		return nil, fmt.Errorf("%w: dealer %d", ErrBadSeat, cfg.Dealer)
	}
	w, err := NewWall(tiles)
	if err != nil {
		return nil, err
	}
	h := &Hand{
		Number:     cfg.Number,
		Round:      cfg.Round,
		Dealer:     cfg.Dealer,
		Honba:      cfg.Honba,
		Kyotaku:    cfg.Kyotaku,
		Wall:       w,
		Turn:       cfg.Dealer,
		eval:       cfg.Evaluator,
		publish:    cfg.Publisher,
		autoDraw:   cfg.AutoDraw,
		stepDelay:  cfg.StepDelay,
		sleep:      time.Sleep,
		riichiSeat: -1,
	}
	for seat := 0; seat < 4; seat++ {
		h.Players[seat] = NewPlayerImage(cfg.Users[seat], seat, cfg.Points[seat])
	}
	for round := 0; round < 4; round++ {
		n := 4
		if round == 3 {
			n = 1
		}
		for k := 0; k < 4; k++ {
			p := h.Players[(cfg.Dealer+k)%4]
			for i := 0; i < n; i++ {
				p.Concealed = append(p.Concealed, w.deal())
			}
		}
	}
	for _, p := range h.Players {
		sortTiles(p.Concealed)
		p.waits = h.eval.Waits(p.Concealed, p.Melds)
	}
	w.RevealDora()
	if err := h.drawFor(cfg.Dealer); err != nil {
		return nil, err
	}
	if err := h.commit(); err != nil {
		return nil, err
	}
	log.Debug("hand %d started, dealer %d, round %s, honba %d", h.Number, h.Dealer, h.Round, h.Honba)
	return h, nil
}

// SeatWind of seat in this hand.
func (h *Hand) SeatWind(seat int) Wind {
	return Wind((seat - h.Dealer + 4) % 4)
}

// Ended reports a settled or halted hand.
func (h *Hand) Ended() bool {
	return h.Phase == PhaseHandEnded || h.Phase == PhaseHalted
}

// Apply validates and performs one input, then runs internal steps until
// the hand waits for players again. A rejected input changes nothing.
func (h *Hand) Apply(in Input) error {
	if h.Ended() {
		return ErrHandOver
	}
	if in.Token != h.Token {
		return fmt.Errorf("%w: got %d, current %d", ErrStaleToken, in.Token, h.Token)
	}
	if in.Seat < 0 || in.Seat > 3 {
		return fmt.Errorf("%w: %d", ErrBadSeat, in.Seat)
	}

	var err error
	switch in.Kind {
	case InputDraw:
		err = h.onDraw(in.Seat)
	case InputDiscard:
		err = h.onDiscard(in.Seat, in.Tile, false)
	case InputRiichi:
		err = h.onDiscard(in.Seat, in.Tile, true)
	case InputCall:
		err = h.onCall(in.Seat, in.Meld)
	case InputWin:
		err = h.onWin(in.Seat)
	case InputAbort:
		err = h.onNineTerminals(in.Seat)
	case InputSkip:
		err = h.onSkip(in.Seat)
	default:
		err = ErrWrongPhase
	}
	if err == nil {
		err = h.commit()
	}
	if err != nil {
		if errors.Is(err, ErrInvariant) {
			h.halt(err)
		}
		return fmt.Errorf("%s from seat %d: %w", in.Kind, in.Seat, err)
	}
	return h.run()
}

func (h *Hand) onDraw(seat int) error {
	if h.Phase != PhaseAwaitingDraw {
		return ErrWrongPhase
	}
	if seat != h.Turn {
		return ErrNotYourTurn
	}
	if h.Wall.TurnRest() == 0 {
		return ErrWallExhausted
	}
	return h.drawFor(seat)
}

func (h *Hand) drawFor(seat int) error {
	t, ok := h.Wall.Draw()
	if !ok {
		return fmt.Errorf("%w: draw from an empty wall", ErrInvariant)
	}
	p := h.Players[seat]
	p.draw(t)
	h.Turn = seat
	h.Phase = PhaseAwaitingSelfAction
	h.Registry = h.selfActions(seat)
	return nil
}

func (h *Hand) rinshanFor(seat int) error {
	t, ok := h.Wall.DrawRinshan()
	if !ok {
		return fmt.Errorf("%w: rinshan pile exhausted", ErrInvariant)
	}
	p := h.Players[seat]
	p.draw(t)
	p.JustKanned = true
	h.Turn = seat
	h.Phase = PhaseAwaitingSelfAction
	h.Registry = h.selfActions(seat)
	return nil
}

func (h *Hand) onDiscard(seat int, tile Tile, riichi bool) error {
	if h.Phase != PhaseAwaitingSelfAction {
		return ErrWrongPhase
	}
	if seat != h.Turn {
		return ErrNotYourTurn
	}
	p := h.Players[seat]
	if !p.HasTile(tile) {
		return ErrTileNotInHand
	}
	if p.Riichi && (p.Drawn == nil || *p.Drawn != tile) {
		return ErrRiichiLocked
	}
	if containsType(p.forbidden, tile.Type) {
		return ErrSwapCall
	}
	if riichi {
		e := h.Registry.find(seat, ActionRiichi)
		if e == nil || indexOfTile(e.Tiles, tile) < 0 {
			return ErrActionNotOffered
		}
	}

	h.flushDora()
	double := riichi && p.firstTurn() && !h.callsMade
	p.discard(tile, riichi)
	p.Ippatsu = false
	p.waits = h.eval.Waits(p.Concealed, p.Melds)
	h.discardCount++
	if riichi {
		h.riichiSeat = seat
		h.riichiDouble = double
	}

	h.Registry = Registry{Event: EventDiscard, Source: seat, Tile: tile}
	h.Phase = PhaseAwaitingReactions
	switch {
	case h.Wall.RinshanRest() == 0 && !h.kansBySingleSeat():
		h.push(step{kind: stepAbort, end: EndFourKan})
		return nil
	case h.fourWinds():
		h.push(step{kind: stepAbort, end: EndFourWind})
		return nil
	}

	h.Registry = h.reactions(seat, tile)
	if riichi {
		h.Registry.Entries = append(h.Registry.Entries, Entry{Seat: seat, Kind: ActionRiichiConfirm})
	}
	if !h.Registry.blocked() {
		h.push(step{kind: stepResolve})
	}
	return nil
}

func (h *Hand) kansBySingleSeat() bool {
	for _, s := range h.kanSeats {
		if s != h.kanSeats[0] {
			return false
		}
	}
	return true
}

// fourWinds: the first four discards are the same wind with no call in between.
func (h *Hand) fourWinds() bool {
	if h.discardCount != 4 || h.callsMade {
		return false
	}
	first := h.Players[0].Discards[0].Tile.Type
	if !first.IsWind() {
		return false
	}
	for _, p := range h.Players {
		if len(p.Discards) != 1 || p.Discards[0].Tile.Type != first {
			return false
		}
	}
	return true
}

func actionForMeld(k MeldKind) ActionKind {
	switch k {
	case MeldSequence:
		return ActionChi
	case MeldTriplet:
		return ActionPon
	case MeldOpenQuad:
		return ActionMinkan
	case MeldConcealedQuad:
		return ActionAnkan
	case MeldAddedQuad:
		return ActionKakan
	}
	return ActionChi
}

func (h *Hand) onCall(seat int, meld Meld) error {
	kind := actionForMeld(meld.Kind)
	switch meld.Kind {
	case MeldSequence, MeldTriplet, MeldOpenQuad:
		if h.Phase != PhaseAwaitingReactions || h.Registry.Event != EventDiscard {
			return ErrWrongPhase
		}
	case MeldConcealedQuad, MeldAddedQuad:
		if h.Phase != PhaseAwaitingSelfAction {
			return ErrWrongPhase
		}
		if seat != h.Turn {
			return ErrNotYourTurn
		}
	default:
		return ErrActionNotOffered
	}
	e := h.Registry.find(seat, kind)
	if e == nil || e.Decision != Pending {
		return ErrActionNotOffered
	}
	var chosen *Meld
	for i := range e.Options {
		if sameMeld(e.Options[i], meld) {
			chosen = &e.Options[i]
			break
		}
	}
	if chosen == nil {
		return ErrActionNotOffered
	}
	opt := chosen.clone()

	switch meld.Kind {
	case MeldConcealedQuad:
		h.Registry.commit(seat, kind, &opt)
		h.declareAnkan(seat, opt)
	case MeldAddedQuad:
		h.Registry.commit(seat, kind, &opt)
		return h.declareKakan(seat, opt)
	case MeldSequence, MeldTriplet, MeldOpenQuad:
		for _, lost := range h.Registry.commit(seat, kind, &opt) {
			h.markFuriten(lost)
		}
		if !h.Registry.blocked() {
			h.push(step{kind: stepResolve})
		}
	}
	return nil
}

func (h *Hand) onWin(seat int) error {
	switch h.Phase {
	case PhaseAwaitingSelfAction:
		if seat != h.Turn {
			return ErrNotYourTurn
		}
		if !h.Registry.Offered(seat, ActionTsumo) {
			return ErrActionNotOffered
		}
		h.Registry.commit(seat, ActionTsumo, nil)
		h.push(step{kind: stepTsumo, seat: seat})
	case PhaseAwaitingReactions:
		if !h.Registry.Offered(seat, ActionRon) {
			return ErrActionNotOffered
		}
		h.Registry.commit(seat, ActionRon, nil)
		if !h.Registry.blocked() {
			h.push(step{kind: stepResolve})
		}
	default:
		return ErrWrongPhase
	}
	return nil
}

func (h *Hand) onNineTerminals(seat int) error {
	if h.Phase != PhaseAwaitingSelfAction {
		return ErrWrongPhase
	}
	if seat != h.Turn {
		return ErrNotYourTurn
	}
	if !h.Registry.Offered(seat, ActionNineTerminals) {
		return ErrActionNotOffered
	}
	h.Registry.commit(seat, ActionNineTerminals, nil)
	h.push(step{kind: stepAbort, end: EndNineTerminals})
	return nil
}

func (h *Hand) onSkip(seat int) error {
	if h.Phase != PhaseAwaitingReactions {
		return ErrWrongPhase
	}
	if !h.Registry.hasPending(seat) {
		return ErrActionNotOffered
	}
	if h.Registry.decline(seat) {
		h.markFuriten(seat)
	}
	if !h.Registry.blocked() {
		h.push(step{kind: stepResolve})
	}
	return nil
}

// markFuriten applies the penalty for passing on a winning tile.
func (h *Hand) markFuriten(seat int) {
	p := h.Players[seat]
	if p.Riichi {
		p.RiichiFuriten = true
	} else {
		p.TempFuriten = true
	}
}

// resolve closes a reaction window once nothing undecided can outrank
// what was committed.
func (h *Hand) resolve() error {
	r := &h.Registry
	rons := r.committedRons()
	if len(rons) >= 3 {
		h.settleAbort(EndTripleRon)
		return nil
	}
	if len(rons) > 0 {
		return h.settleRon(rons)
	}
	if r.Event == EventDiscard && h.riichiSeat >= 0 {
		h.confirmRiichi()
		if h.riichiCount() == 4 {
			h.settleAbort(EndFourRiichi)
			return nil
		}
	}
	if e := r.bestCall(); e != nil {
		return h.executeCall(e.Seat, *e.Chosen)
	}
	if r.Event == EventAddedQuad {
		h.completeKakan(r.Source)
		return nil
	}
	h.advance()
	return nil
}

func (h *Hand) confirmRiichi() {
	p := h.Players[h.riichiSeat]
	p.Riichi = true
	p.DoubleRiichi = h.riichiDouble
	p.Ippatsu = true
	p.Points -= 1000
	h.Kyotaku++
	if e := h.Registry.find(h.riichiSeat, ActionRiichiConfirm); e != nil {
		e.Decision = Committed
	}
	log.Debug("hand %d: seat %d riichi confirmed", h.Number, h.riichiSeat)
	h.riichiSeat = -1
}

func (h *Hand) riichiCount() int {
	n := 0
	for _, p := range h.Players {
		if p.Riichi {
			n++
		}
	}
	return n
}

func (h *Hand) breakIppatsu() {
	for _, p := range h.Players {
		p.Ippatsu = false
	}
}

func (h *Hand) executeCall(seat int, meld Meld) error {
	src, tile := h.Registry.Source, h.Registry.Tile
	d := h.Players[src]
	d.Discards[len(d.Discards)-1].Called = true

	p := h.Players[seat]
	p.takeTiles(meld.Own)
	meld.Called = tile
	meld.From = relativeSeat(seat, src)
	p.Melds = append(p.Melds, meld)
	p.HasCalled = true
	h.callsMade = true
	h.breakIppatsu()
	h.checkPao(seat, src, meld)
	h.Turn = seat

	switch meld.Kind {
	case MeldOpenQuad:
		h.kanSeats = append(h.kanSeats, seat)
		h.pendingDora++
		h.Phase = PhaseAwaitingDraw
		h.Registry = Registry{Event: EventCall, Source: seat, Tile: tile}
		h.push(step{kind: stepRinshan, seat: seat})
	case MeldSequence, MeldTriplet:
		p.forbidden = kuikaeKinds(meld)
		h.Phase = PhaseAwaitingSelfAction
		h.Registry = Registry{Event: EventCall, Source: seat, Tile: tile}
	case MeldConcealedQuad, MeldAddedQuad:
		return fmt.Errorf("%w: %s executed as a call", ErrInvariant, meld.Kind)
	}
	log.Debug("hand %d: seat %d %s %s from seat %d", h.Number, seat, meld.Kind, tile, src)
	return nil
}

// checkPao records liability when a call completes the third dragon or
// fourth wind set.
func (h *Hand) checkPao(seat, src int, meld Meld) {
	if meld.Kind != MeldTriplet && meld.Kind != MeldOpenQuad {
		return
	}
	p := h.Players[seat]
	count := func(pred func(TileType) bool) int {
		n := 0
		for _, m := range p.Melds {
			if m.Kind != MeldSequence && pred(m.Base()) {
				n++
			}
		}
		return n
	}
	switch k := meld.Called.Type; {
	case k.IsDragon() && count(TileType.IsDragon) == 3:
		p.paoDragons = src
	case k.IsWind() && count(TileType.IsWind) == 4:
		p.paoWinds = src
	}
}

func (h *Hand) declareAnkan(seat int, meld Meld) {
	p := h.Players[seat]
	p.takeTiles(meld.Own)
	meld.From = 0
	p.Melds = append(p.Melds, meld)
	h.kanSeats = append(h.kanSeats, seat)
	h.callsMade = true
	h.breakIppatsu()
	h.flushDora()
	h.Wall.RevealDora()
	h.Phase = PhaseAwaitingDraw
	h.Registry = Registry{Event: EventCall, Source: seat}
	h.push(step{kind: stepRinshan, seat: seat})
}

// declareKakan upgrades the pon and opens the robbing window.
func (h *Hand) declareKakan(seat int, meld Meld) error {
	p := h.Players[seat]
	idx := -1
	for i, m := range p.Melds {
		if m.Kind == MeldTriplet && m.Called.Type == meld.Added.Type {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: no pon to extend with %s", ErrInvariant, meld.Added)
	}
	p.takeTiles([]Tile{meld.Added})
	p.Melds[idx] = meld
	h.kanSeats = append(h.kanSeats, seat)
	h.Registry = h.chankanReactions(seat, meld.Added)
	h.Phase = PhaseAwaitingReactions
	if !h.Registry.blocked() {
		h.push(step{kind: stepResolve})
	}
	return nil
}

func (h *Hand) completeKakan(seat int) {
	h.pendingDora++
	h.callsMade = true
	h.breakIppatsu()
	h.Turn = seat
	h.Phase = PhaseAwaitingDraw
	h.Registry = Registry{Event: EventCall, Source: seat}
	h.push(step{kind: stepRinshan, seat: seat})
}

// flushDora reveals indicators owed by earlier open or added quads.
func (h *Hand) flushDora() {
	for ; h.pendingDora > 0; h.pendingDora-- {
		h.Wall.RevealDora()
	}
}

func (h *Hand) advance() {
	if h.Wall.TurnRest() == 0 {
		h.push(step{kind: stepExhaustive})
		return
	}
	next := (h.Registry.Source + 1) % 4
	h.Turn = next
	h.Phase = PhaseAwaitingDraw
	h.Registry = Registry{Event: EventNone, Source: next}
	if h.autoDraw {
		h.push(step{kind: stepDraw, seat: next})
	}
}

func (h *Hand) winContext(seat int, tile Tile, tsumo, chankan bool) *WinContext {
	p := h.Players[seat]
	first := p.firstTurn() && !h.callsMade
	last := h.Wall.TurnRest() == 0
	w := &WinContext{
		Concealed:      p.Concealed,
		Melds:          p.Melds,
		WinTile:        tile,
		Tsumo:          tsumo,
		SeatWind:       h.SeatWind(seat),
		RoundWind:      h.Round,
		DoraIndicators: h.Wall.DoraIndicators(),
		Riichi:         p.Riichi,
		DoubleRiichi:   p.DoubleRiichi,
		Ippatsu:        p.Ippatsu,
		Rinshan:        tsumo && p.JustKanned,
		Chankan:        chankan,
		Haitei:         tsumo && last && !p.JustKanned,
		Houtei:         !tsumo && !chankan && last,
		Tenhou:         tsumo && first && seat == h.Dealer,
		Chiihou:        tsumo && first && seat != h.Dealer,
	}
	if p.Riichi {
		w.UraIndicators = h.Wall.UraIndicators()
	}
	return w
}

func (h *Hand) evaluate(seat int, tile Tile, tsumo, chankan bool) (WinValue, bool) {
	return h.eval.Evaluate(h.winContext(seat, tile, tsumo, chankan))
}

type stepKind int

const (
	stepDraw stepKind = iota
	stepRinshan
	stepResolve
	stepTsumo
	stepExhaustive
	stepAbort
)

// step is one deferred internal transition.
type step struct {
	kind stepKind
	seat int
	end  EndKind
}

func (h *Hand) push(s step) {
	h.steps = append(h.steps, s)
}

// run drains the step queue; each step publishes its own snapshot.
func (h *Hand) run() error {
	for len(h.steps) > 0 && !h.Ended() {
		st := h.steps[0]
		h.steps = h.steps[1:]
		if h.stepDelay > 0 {
			h.sleep(h.stepDelay)
		}
		err := h.exec(st)
		if err == nil {
			err = h.commit()
		}
		if err != nil {
			h.halt(err)
			return err
		}
	}
	h.steps = nil
	return nil
}

func (h *Hand) exec(st step) error {
	switch st.kind {
	case stepDraw:
		return h.drawFor(st.seat)
	case stepRinshan:
		return h.rinshanFor(st.seat)
	case stepResolve:
		return h.resolve()
	case stepTsumo:
		return h.settleTsumo(st.seat)
	case stepExhaustive:
		h.settleExhaustive()
		return nil
	case stepAbort:
		h.settleAbort(st.end)
		return nil
	}
	return fmt.Errorf("%w: unknown step %d", ErrInvariant, st.kind)
}

// commit checks the tile-count invariant, bumps the token and publishes.
func (h *Hand) commit() error {
	if !h.Ended() {
		if err := h.checkInvariants(); err != nil {
			return err
		}
	}
	h.Token++
	if h.publish != nil {
		h.publish(h.Snapshot())
	}
	return nil
}

func (h *Hand) checkInvariants() error {
	for seat, p := range h.Players {
		owes := h.Phase == PhaseAwaitingSelfAction && seat == h.Turn
		if err := p.checkCount(owes); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hand) halt(err error) {
	log.Error("hand %d halted: %v", h.Number, err)
	h.Err = err
	h.Phase = PhaseHalted
	h.steps = nil
	h.Token++
	if h.publish != nil {
		h.publish(h.Snapshot())
	}
}
