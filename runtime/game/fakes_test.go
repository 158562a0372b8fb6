package game

import (
	"context"
	"errors"
	"sync"

	"github.com/k-jun/mahjong-tui-sub000/core/domain/repository"
	svc "github.com/k-jun/mahjong-tui-sub000/runtime/game/application/service"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game/engines"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game/share"
)

var errInitFailed = errors.New("init failed")

// fakeEngine records what the room did with it.
type fakeEngine struct {
	mu       sync.Mutex
	roomID   string
	users    map[string]*share.UserInfo
	inputs   []string
	closed   int
	failInit bool
	token    uint64
	err      error
}

func (e *fakeEngine) InitializeEngine(roomID string, users map[string]*share.UserInfo) error {
	if e.failInit {
		return errInitFailed
	}
	e.roomID, e.users = roomID, users
	return nil
}

func (e *fakeEngine) HandleMessage(_ context.Context, userID string, payload []byte) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inputs = append(e.inputs, userID+":"+string(payload))
	return e.token, e.err
}

func (e *fakeEngine) SnapshotFor(userID string) ([]byte, error) {
	return []byte(`{"for":"` + userID + `"}`), nil
}

// Clone hands out the prototype itself so tests can inspect it.
func (e *fakeEngine) Clone() engines.Engine { return e }

func (e *fakeEngine) Terminate() {}

func (e *fakeEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed++
}

func (e *fakeEngine) closeCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// memoryDirectory is a RoomDirectory in a map.
type memoryDirectory struct {
	mu       sync.Mutex
	rooms    map[string]string
	users    map[string]string
	released []string
}

func newMemoryDirectory() *memoryDirectory {
	return &memoryDirectory{rooms: map[string]string{}, users: map[string]string{}}
}

func (d *memoryDirectory) ClaimSeats(_ context.Context, roomID, nodeID string, users [4]string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range users {
		if _, ok := d.users[u]; ok {
			return repository.ErrSeatTaken
		}
	}
	d.rooms[roomID] = nodeID
	for _, u := range users {
		d.users[u] = roomID
	}
	return nil
}

func (d *memoryDirectory) RoomNode(_ context.Context, roomID string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	node, ok := d.rooms[roomID]
	if !ok {
		return "", repository.ErrRoomNotListed
	}
	return node, nil
}

func (d *memoryDirectory) UserRoom(_ context.Context, userID string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	room, ok := d.users[userID]
	if !ok {
		return "", repository.ErrRoomNotListed
	}
	return room, nil
}

func (d *memoryDirectory) ReleaseSeats(_ context.Context, roomID string, users [4]string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range users {
		if d.users[u] == roomID {
			delete(d.users, u)
		}
	}
	delete(d.rooms, roomID)
	d.released = append(d.released, roomID)
	return nil
}

func (d *memoryDirectory) releasedRooms() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.released...)
}

// roomService is the smallest GameService over a RoomManager.
type roomService struct {
	rm *RoomManager
}

func (s roomService) CreateRoom(_ context.Context, req *svc.CreateRoomReq) (*svc.CreateRoomResp, error) {
	room, err := s.rm.CreateRoom(req.Users, req.EngineType)
	if err != nil {
		return &svc.CreateRoomResp{Message: err.Error()}, nil
	}
	return &svc.CreateRoomResp{Success: true, RoomID: room.ID}, nil
}
