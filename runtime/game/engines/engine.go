package engines

import (
	"context"

	"github.com/k-jun/mahjong-tui-sub000/core/domain/repository"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game/share"
)

type engineType int32

const (
	RIICHI_MAHJONG_4P_ENGINE engineType = iota
)

type GameState int

const (
	GameWaiting GameState = iota
	GameInProgress
	GamePaused
	GameFinished
)

func (s GameState) String() string {
	switch s {
	case GameWaiting:
		return "waiting"
	case GameInProgress:
		return "in-progress"
	case GamePaused:
		return "paused"
	case GameFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Host is the side of the worker an engine may call back into.
type Host interface {
	// RequestDestroyRoom is asynchronous; the engine is closed later.
	RequestDestroyRoom(roomID string)
	// PushSeat delivers a payload to whoever sits at seat.
	PushSeat(roomID string, seat int, data []byte) error
	// GameRecords may return nil when nothing is persisted.
	GameRecords() repository.GameRecordRepository
}

// Engine is a prototype: every room runs its own Clone.
type Engine interface {
	InitializeEngine(roomID string, users map[string]*share.UserInfo) error

	// HandleMessage decodes one input of userID and waits for it to be applied.
	HandleMessage(ctx context.Context, userID string, payload []byte) (uint64, error)

	// SnapshotFor encodes the current view of userID's seat.
	SnapshotFor(userID string) ([]byte, error)

	Clone() Engine

	// Terminate asks the host to destroy the room.
	Terminate()

	// Close releases the engine; safe to call more than once.
	Close()
}
