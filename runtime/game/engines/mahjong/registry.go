package mahjong

// Decision is the state of one offered action.
type Decision int

const (
	Pending Decision = iota
	Committed
	Declined
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case Declined:
		return "declined"
	default:
		return "unknown"
	}
}

type ActionKind int

const (
	ActionChi ActionKind = iota
	ActionPon
	ActionMinkan
	ActionRon
	// ActionRiichiConfirm settles a riichi declaration once its discard passes.
	ActionRiichiConfirm
	ActionTsumo
	ActionAnkan
	ActionKakan
	ActionRiichi
	ActionNineTerminals
)

func (k ActionKind) String() string {
	switch k {
	case ActionChi:
		return "chi"
	case ActionPon:
		return "pon"
	case ActionMinkan:
		return "minkan"
	case ActionRon:
		return "ron"
	case ActionRiichiConfirm:
		return "riichi-confirm"
	case ActionTsumo:
		return "tsumo"
	case ActionAnkan:
		return "ankan"
	case ActionKakan:
		return "kakan"
	case ActionRiichi:
		return "riichi"
	case ActionNineTerminals:
		return "kyuushu"
	default:
		return "unknown"
	}
}

// Priority orders reactions: ron > kan = pon > chi. Self actions are 0.
func (k ActionKind) Priority() int {
	switch k {
	case ActionRon:
		return 3
	case ActionMinkan, ActionPon:
		return 2
	case ActionChi:
		return 1
	default:
		return 0
	}
}

// IsReaction reports kinds that answer another seat's tile and block resolution.
func (k ActionKind) IsReaction() bool {
	return k.Priority() > 0
}

// EventKind says what opened the current registry.
type EventKind int

const (
	EventNone EventKind = iota
	EventDraw
	EventCall
	EventDiscard
	EventAddedQuad
)

type Entry struct {
	Seat     int        `json:"seat"`
	Kind     ActionKind `json:"kind"`
	Decision Decision   `json:"decision"`
	Options  []Meld     `json:"options,omitempty"`
	Tiles    []Tile     `json:"tiles,omitempty"` // riichi: declarable discards
	Chosen   *Meld      `json:"chosen,omitempty"`
}

// Registry is the action set of one event: self actions after a draw or a
// reaction window after a discard or added quad. It is replaced wholesale
// on every revealing event.
type Registry struct {
	Event   EventKind `json:"event"`
	Source  int       `json:"source"`
	Tile    Tile      `json:"tile"`
	Entries []Entry   `json:"entries"`
}

func (r *Registry) find(seat int, kind ActionKind) *Entry {
	for i := range r.Entries {
		if r.Entries[i].Seat == seat && r.Entries[i].Kind == kind {
			return &r.Entries[i]
		}
	}
	return nil
}

// Offered reports whether seat may still take kind.
func (r *Registry) Offered(seat int, kind ActionKind) bool {
	e := r.find(seat, kind)
	return e != nil && e.Decision == Pending
}

func (r *Registry) ForSeat(seat int) []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Seat == seat {
			out = append(out, e)
		}
	}
	return out
}

func (r *Registry) hasPending(seat int) bool {
	for _, e := range r.Entries {
		if e.Seat == seat && e.Decision == Pending && e.Kind.IsReaction() {
			return true
		}
	}
	return false
}

// blocked is true while any reaction is undecided.
func (r *Registry) blocked() bool {
	for _, e := range r.Entries {
		if e.Decision == Pending && e.Kind.IsReaction() {
			return true
		}
	}
	return false
}

// decline rejects every pending entry of seat and reports whether a ron was among them.
func (r *Registry) decline(seat int) (declinedRon bool) {
	for i := range r.Entries {
		e := &r.Entries[i]
		if e.Seat != seat || e.Decision != Pending || e.Kind == ActionRiichiConfirm {
			continue
		}
		e.Decision = Declined
		if e.Kind == ActionRon {
			declinedRon = true
		}
	}
	return declinedRon
}

// commit accepts one entry. The seat's other entries are declined, and so
// is every pending entry of another seat with lower priority. It returns
// the seats whose pending ron was declined along the way.
func (r *Registry) commit(seat int, kind ActionKind, chosen *Meld) []int {
	e := r.find(seat, kind)
	e.Decision = Committed
	if chosen != nil {
		m := chosen.clone()
		e.Chosen = &m
	}
	var lostRon []int
	for i := range r.Entries {
		o := &r.Entries[i]
		if o == e || o.Decision != Pending || !o.Kind.IsReaction() {
			continue
		}
		if o.Seat == seat || o.Kind.Priority() < kind.Priority() {
			o.Decision = Declined
			if o.Kind == ActionRon {
				lostRon = append(lostRon, o.Seat)
			}
		}
	}
	return lostRon
}

// committedRons returns the seats that claimed ron, in seating order after source.
func (r *Registry) committedRons() []int {
	var out []int
	for d := 1; d < 4; d++ {
		seat := (r.Source + d) % 4
		if e := r.find(seat, ActionRon); e != nil && e.Decision == Committed {
			out = append(out, seat)
		}
	}
	return out
}

// bestCall returns the highest-priority committed call, if any.
func (r *Registry) bestCall() *Entry {
	var best *Entry
	for i := range r.Entries {
		e := &r.Entries[i]
		if e.Decision != Committed || e.Chosen == nil {
			continue
		}
		if best == nil || e.Kind.Priority() > best.Kind.Priority() {
			best = e
		}
	}
	return best
}

func (r *Registry) clone() Registry {
	c := *r
	c.Entries = make([]Entry, len(r.Entries))
	for i, e := range r.Entries {
		ce := e
		ce.Options = make([]Meld, len(e.Options))
		for j, m := range e.Options {
			ce.Options[j] = m.clone()
		}
		ce.Tiles = append([]Tile(nil), e.Tiles...)
		if e.Chosen != nil {
			m := e.Chosen.clone()
			ce.Chosen = &m
		}
		c.Entries[i] = ce
	}
	return c
}
