package mahjong

import (
	"sync"
	"time"
)

type TickerState int

const (
	StateIdle TickerState = iota
	StateRunning
	StateStopped
	StateTimeout
)

// PlayerTicker is one seat's time bank. Time used on a turn is taken from
// Available; a timeout empties it.
type PlayerTicker struct {
	Available time.Duration
	State     TickerState

	started time.Time
	timer   *time.Timer
	mu      sync.Mutex
}

func NewPlayerTicker(bank time.Duration) *PlayerTicker {
	return &PlayerTicker{Available: bank}
}

func (pt *PlayerTicker) start(d time.Duration, onTimeout func()) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if pt.timer != nil {
		pt.timer.Stop()
	}
	pt.State = StateRunning
	pt.started = time.Now()
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		pt.mu.Lock()
		if pt.timer != t {
			pt.mu.Unlock()
			return
		}
		pt.State = StateTimeout
		pt.Available = 0
		pt.timer = nil
		pt.mu.Unlock()
		onTimeout()
	})
	pt.timer = t
}

// stop charges the elapsed time against the bank.
func (pt *PlayerTicker) stop() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if pt.timer == nil {
		return
	}
	pt.timer.Stop()
	pt.timer = nil
	pt.Available -= time.Since(pt.started)
	if pt.Available < 0 {
		pt.Available = 0
	}
	pt.State = StateStopped
}

func (pt *PlayerTicker) GetState() TickerState {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.State
}

// TurnClock times the seats a hand is waiting on. A timeout reports the
// seat and the token it was armed at, so a late timer for an old state
// can be told apart.
type TurnClock struct {
	Tickers   [4]*PlayerTicker
	Bonus     time.Duration
	onTimeout func(seat int, token uint64)
}

func NewTurnClock(bank, bonus time.Duration, onTimeout func(seat int, token uint64)) *TurnClock {
	c := &TurnClock{Bonus: bonus, onTimeout: onTimeout}
	for i := range c.Tickers {
		c.Tickers[i] = NewPlayerTicker(bank)
	}
	return c
}

// Arm stops every ticker and starts the ones of seats.
func (c *TurnClock) Arm(seats []int, token uint64) {
	c.StopAll()
	for _, seat := range seats {
		seat := seat
		pt := c.Tickers[seat]
		pt.mu.Lock()
		d := pt.Available + c.Bonus
		pt.mu.Unlock()
		pt.start(d, func() { c.onTimeout(seat, token) })
	}
}

func (c *TurnClock) StopAll() {
	for _, pt := range c.Tickers {
		pt.stop()
	}
}

// Waiting lists the seats whose input the hand needs next.
func (h *Hand) Waiting() []int {
	switch h.Phase {
	case PhaseAwaitingDraw, PhaseAwaitingSelfAction:
		return []int{h.Turn}
	case PhaseAwaitingReactions:
		var out []int
		for seat := 0; seat < 4; seat++ {
			if h.Registry.hasPending(seat) {
				out = append(out, seat)
			}
		}
		return out
	}
	return nil
}

// DefaultInput is what a seat plays when its time runs out: draw, discard
// the drawn tile (or the first legal one after a call), or pass.
func (h *Hand) DefaultInput(seat int) (Input, bool) {
	in := Input{Token: h.Token, Seat: seat}
	switch {
	case h.Phase == PhaseAwaitingDraw && seat == h.Turn:
		in.Kind = InputDraw
		return in, true
	case h.Phase == PhaseAwaitingSelfAction && seat == h.Turn:
		p := h.Players[seat]
		in.Kind = InputDiscard
		if p.Drawn != nil {
			in.Tile = *p.Drawn
			return in, true
		}
		for _, t := range p.Concealed {
			if !containsType(p.forbidden, t.Type) {
				in.Tile = t
				return in, true
			}
		}
	case h.Phase == PhaseAwaitingReactions && h.Registry.hasPending(seat):
		in.Kind = InputSkip
		return in, true
	}
	return in, false
}
