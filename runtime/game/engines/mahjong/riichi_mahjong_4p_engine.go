package mahjong

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/k-jun/mahjong-tui-sub000/common/log"
	"github.com/k-jun/mahjong-tui-sub000/core/domain/entity"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game/engines"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game/share"
)

const (
	DefaultNextHandDelay = 3 * time.Second
	gameEventBuffer      = 256
)

var ErrTableClosed = errors.New("table closed")

// TableOptions configure an engine prototype.
type TableOptions struct {
	Rules         Rules
	RedFives      bool
	NextHandDelay time.Duration
	TurnBank      time.Duration // 0 disables the turn clock
	TurnBonus     time.Duration
	// Walls deals the hands; nil means a fresh seed per room.
	Walls WallSource
	// OnSnapshot sees every unredacted snapshot, mostly for tests.
	OnSnapshot func(*Snapshot)
}

type gameEvent interface {
	eventType() string
}

type inputEvent struct {
	input Input
	reply chan inputResult
}

type inputResult struct {
	token uint64
	err   error
}

type nextHandEvent struct{}

type timeoutEvent struct {
	seat  int
	token uint64
}

func (*inputEvent) eventType() string    { return "Input" }
func (*nextHandEvent) eventType() string { return "NextHand" }
func (*timeoutEvent) eventType() string  { return "Timeout" }

// RiichiMahjong4p runs one table: a match of hands driven by a single actor
// goroutine, so inputs never interleave. It is the gate in front of Hand:
// stale inputs are dropped here, and a halted hand tears the table down.
type RiichiMahjong4p struct {
	ID      string
	State   engines.GameState
	Host    engines.Host
	RoomID  string
	UserMap map[string]*share.UserInfo
	Users   [4]string
	Options TableOptions
	Match   *Match
	Hand    *Hand

	Persister *GamePersister
	Clock     *TurnClock

	eval      Evaluator
	walls     WallSource
	wall      []Tile
	latest    atomic.Pointer[Snapshot]
	nextTimer *time.Timer

	gameEvents chan gameEvent
	gameDone   chan struct{}
	actorExit  chan struct{}
	closed     atomic.Bool
	closeOnce  sync.Once
}

// NewRiichiMahjong4p builds a prototype; rooms run clones of it.
func NewRiichiMahjong4p(host engines.Host, eval Evaluator, opts TableOptions) *RiichiMahjong4p {
	if opts.NextHandDelay < 0 {
		opts.NextHandDelay = 0
	}
	return &RiichiMahjong4p{
		State:   engines.GameWaiting,
		Host:    host,
		Options: opts,
		eval:    eval,
	}
}

func (eg *RiichiMahjong4p) Clone() engines.Engine {
	return NewRiichiMahjong4p(eg.Host, eg.eval, eg.Options)
}

// InitializeEngine seats users by their SeatIndex and starts the actor.
// The first hand is dealt after NextHandDelay.
func (eg *RiichiMahjong4p) InitializeEngine(roomID string, userMap map[string]*share.UserInfo) error {
	if len(userMap) != 4 {
		return fmt.Errorf("need 4 users, got %d", len(userMap))
	}
	var taken [4]bool
	for userID, u := range userMap {
		if u.SeatIndex < 0 || u.SeatIndex > 3 || taken[u.SeatIndex] {
			return fmt.Errorf("%w: user %s seat %d", ErrBadSeat, userID, u.SeatIndex)
		}
		taken[u.SeatIndex] = true
		eg.Users[u.SeatIndex] = userID
	}
	eg.ID = uuid.NewString()
	eg.RoomID = roomID
	eg.UserMap = userMap
	eg.Match = NewMatch(eg.Options.Rules, eg.Users, eg.eval)
	eg.walls = eg.Options.Walls
	if eg.walls == nil {
		eg.walls = ShuffledWalls{Seed: time.Now().UnixNano()}
	}
	if eg.Host != nil && eg.Host.GameRecords() != nil {
		eg.Persister = NewGamePersister(eg.Host.GameRecords(), roomID, eg.Users, entity.RuleSet{
			InitialPoints: eg.Match.Rules.InitialPoints,
			Hands:         eg.Match.Rules.Hands,
			RedFives:      eg.Options.RedFives,
		})
	}
	if eg.Options.TurnBank > 0 {
		eg.Clock = NewTurnClock(eg.Options.TurnBank, eg.Options.TurnBonus, func(seat int, token uint64) {
			eg.NotifyEvent(&timeoutEvent{seat: seat, token: token})
		})
	}

	eg.gameEvents = make(chan gameEvent, gameEventBuffer)
	eg.gameDone = make(chan struct{})
	eg.actorExit = make(chan struct{})
	go eg.actorLoop()

	eg.scheduleNextHand()
	log.Info("table %s created for room %s, users %v", eg.ID, roomID, eg.Users)
	return nil
}

func (eg *RiichiMahjong4p) actorLoop() {
	defer close(eg.actorExit)
	for {
		select {
		case <-eg.gameDone:
			return
		case event := <-eg.gameEvents:
			eg.processEvent(event)
		}
	}
}

// NotifyEvent enqueues an internal event without waiting.
func (eg *RiichiMahjong4p) NotifyEvent(event gameEvent) {
	if event == nil || eg.closed.Load() {
		return
	}
	select {
	case <-eg.gameDone:
	case eg.gameEvents <- event:
	default:
		log.Warn("table %s event queue full, dropping %s", eg.ID, event.eventType())
	}
}

func (eg *RiichiMahjong4p) processEvent(event gameEvent) {
	switch e := event.(type) {
	case *inputEvent:
		tok, err := eg.applyInput(e.input)
		e.reply <- inputResult{token: tok, err: err}
	case *nextHandEvent:
		eg.startHand()
	case *timeoutEvent:
		eg.handleTimeout(e)
	default:
		log.Warn("table %s: unknown event %T", eg.ID, event)
	}
}

// Submit hands one input to the actor and waits for the outcome. ctx only
// bounds the wait; an input taken by the actor is always applied.
func (eg *RiichiMahjong4p) Submit(ctx context.Context, in Input) (uint64, error) {
	if eg.closed.Load() {
		return 0, ErrTableClosed
	}
	ev := &inputEvent{input: in, reply: make(chan inputResult, 1)}
	select {
	case eg.gameEvents <- ev:
	case <-eg.gameDone:
		return 0, ErrTableClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	select {
	case res := <-ev.reply:
		return res.token, res.err
	case <-eg.gameDone:
		return 0, ErrTableClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// SubmitUser is Submit with the seat taken from userID.
func (eg *RiichiMahjong4p) SubmitUser(ctx context.Context, userID string, in Input) (uint64, error) {
	seat, err := eg.getSeatIndex(userID)
	if err != nil {
		return 0, err
	}
	in.Seat = seat
	return eg.Submit(ctx, in)
}

func (eg *RiichiMahjong4p) HandleMessage(ctx context.Context, userID string, payload []byte) (uint64, error) {
	var in Input
	if err := json.Unmarshal(payload, &in); err != nil {
		return 0, fmt.Errorf("decode input: %w", err)
	}
	return eg.SubmitUser(ctx, userID, in)
}

func (eg *RiichiMahjong4p) getSeatIndex(userID string) (int, error) {
	for seat, u := range eg.Users {
		if u == userID && u != "" {
			return seat, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrUnknownUser, userID)
}

// Latest returns the newest unredacted snapshot, or nil before the first deal.
func (eg *RiichiMahjong4p) Latest() *Snapshot {
	return eg.latest.Load()
}

func (eg *RiichiMahjong4p) SnapshotFor(userID string) ([]byte, error) {
	seat, err := eg.getSeatIndex(userID)
	if err != nil {
		return nil, err
	}
	s := eg.latest.Load()
	if s == nil {
		return nil, ErrHandOver
	}
	return json.Marshal(s.RedactFor(seat))
}

// applyInput runs on the actor. A stale token is not an error: the sender
// acted on an old view and will see the newer snapshot.
func (eg *RiichiMahjong4p) applyInput(in Input) (uint64, error) {
	h := eg.Hand
	if h == nil || h.Ended() {
		return eg.currentToken(), ErrHandOver
	}
	err := h.Apply(in)
	switch {
	case errors.Is(err, ErrStaleToken):
		log.Debug("table %s: dropped %s from seat %d: %v", eg.ID, in.Kind, in.Seat, err)
		return h.Token, nil
	case err != nil && h.Phase != PhaseHalted:
		return h.Token, err
	}
	if eg.Persister != nil && err == nil {
		eg.Persister.RecordInput(in)
	}
	eg.afterStep()
	return h.Token, err
}

func (eg *RiichiMahjong4p) currentToken() uint64 {
	if eg.Hand == nil {
		return 0
	}
	return eg.Hand.Token
}

func (eg *RiichiMahjong4p) handleTimeout(e *timeoutEvent) {
	h := eg.Hand
	if h == nil || h.Ended() || h.Token != e.token {
		return
	}
	in, ok := h.DefaultInput(e.seat)
	if !ok {
		return
	}
	log.Info("table %s: seat %d timed out, playing %s", eg.ID, e.seat, in.Kind)
	if _, err := eg.applyInput(in); err != nil {
		log.Warn("table %s: timeout input for seat %d rejected: %v", eg.ID, e.seat, err)
	}
}

func (eg *RiichiMahjong4p) startHand() {
	if eg.Match.Over || eg.closed.Load() {
		return
	}
	eg.wall = eg.walls.Wall(eg.Match.Played)
	h, err := eg.Match.NextHand(eg.wall, eg.publish)
	if err != nil {
		eg.HappenDamageError(fmt.Sprintf("deal hand %d: %v", eg.Match.Played, err))
		return
	}
	eg.State = engines.GameInProgress
	eg.Hand = h
	if eg.Persister != nil {
		eg.Persister.StartRound(h, eg.wall)
	}
	eg.afterStep()
}

// afterStep rearms the clock or closes the hand.
func (eg *RiichiMahjong4p) afterStep() {
	h := eg.Hand
	if !h.Ended() {
		if eg.Clock != nil {
			eg.Clock.Arm(h.Waiting(), h.Token)
		}
		return
	}
	if eg.Clock != nil {
		eg.Clock.StopAll()
	}
	if h.Phase == PhaseHalted {
		eg.HappenDamageError(h.Err.Error())
		return
	}
	if eg.Persister != nil {
		eg.Persister.CompleteRound(h.Settlement)
	}
	if err := eg.Match.Finish(h.Settlement); err != nil {
		eg.HappenDamageError(err.Error())
		return
	}
	if eg.Match.Over {
		eg.finishGame()
		return
	}
	eg.scheduleNextHand()
}

func (eg *RiichiMahjong4p) scheduleNextHand() {
	if eg.Options.NextHandDelay == 0 {
		eg.NotifyEvent(&nextHandEvent{})
		return
	}
	eg.nextTimer = time.AfterFunc(eg.Options.NextHandDelay, func() {
		eg.NotifyEvent(&nextHandEvent{})
	})
}

func (eg *RiichiMahjong4p) finishGame() {
	eg.State = engines.GameFinished
	standings := eg.Match.Standings()
	log.Info("table %s finished: %+v", eg.ID, standings)
	if eg.Persister != nil {
		points := eg.Match.Points
		eg.Persister.flushAsync(func(ctx context.Context) error {
			return eg.Persister.FinalizeGame(ctx, standings, points)
		})
	}
	eg.Terminate()
}

// publish fans a snapshot out, redacted per seat.
func (eg *RiichiMahjong4p) publish(s *Snapshot) {
	eg.latest.Store(s)
	if eg.Options.OnSnapshot != nil {
		eg.Options.OnSnapshot(s)
	}
	if eg.Host == nil {
		return
	}
	for seat := 0; seat < 4; seat++ {
		data, err := json.Marshal(s.RedactFor(seat))
		if err != nil {
			log.Error("table %s: encode snapshot: %v", eg.ID, err)
			return
		}
		if err := eg.Host.PushSeat(eg.RoomID, seat, data); err != nil {
			log.Warn("table %s: push seat %d: %v", eg.ID, seat, err)
		}
	}
}

// HappenDamageError tears down a table whose state can no longer be trusted.
func (eg *RiichiMahjong4p) HappenDamageError(reason string) {
	log.Error("table %s damaged: %s", eg.ID, reason)
	eg.State = engines.GameFinished
	if eg.Persister != nil {
		eg.Persister.flushAsync(func(ctx context.Context) error {
			return eg.Persister.AbortGame(ctx, reason)
		})
	}
	eg.Terminate()
}

func (eg *RiichiMahjong4p) Terminate() {
	if eg.Host == nil || eg.RoomID == "" {
		return
	}
	eg.Host.RequestDestroyRoom(eg.RoomID)
}

func (eg *RiichiMahjong4p) Close() {
	eg.closeOnce.Do(func() {
		eg.closed.Store(true)
		if eg.gameDone != nil {
			close(eg.gameDone)
		}
		if eg.actorExit != nil {
			<-eg.actorExit
		}
		if eg.nextTimer != nil {
			eg.nextTimer.Stop()
		}
		if eg.Clock != nil {
			eg.Clock.StopAll()
		}
		if eg.Persister != nil && eg.State != engines.GameFinished {
			eg.Persister.flushAsync(func(ctx context.Context) error {
				return eg.Persister.AbortGame(ctx, "table closed")
			})
		}
		eg.State = engines.GameFinished
		eg.Host = nil
	})
}
