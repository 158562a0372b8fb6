package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/k-jun/mahjong-tui-sub000/common/log"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game/engines"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrUserInRoom     = errors.New("user already in a room")
	ErrUnknownEngine  = errors.New("unsupported engine type")
	ErrEngineRequired = errors.New("engine prototype required")
)

// RoomManager owns every room of this node and routes users to them.
// Engines are cloned from registered prototypes.
type RoomManager struct {
	rooms            map[string]*Room
	playerRoom       map[string]string // userID -> roomID
	enginePrototypes map[int32]engines.Engine
	mu               sync.RWMutex
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms:            make(map[string]*Room),
		playerRoom:       make(map[string]string),
		enginePrototypes: make(map[int32]engines.Engine),
	}
}

func (rm *RoomManager) SetEnginePrototype(engineType int32, engine engines.Engine) error {
	if engine == nil {
		return ErrEngineRequired
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.enginePrototypes[engineType] = engine
	log.Info("engine prototype registered: type %d", engineType)
	return nil
}

// CreateRoom clones an engine, seats users and starts the engine.
func (rm *RoomManager) CreateRoom(users [MaxPlayers]string, engineType int32) (*Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	for _, userID := range users {
		if roomID, exists := rm.playerRoom[userID]; exists {
			return nil, fmt.Errorf("%w: %s in %s", ErrUserInRoom, userID, roomID)
		}
	}
	prototype, exists := rm.enginePrototypes[engineType]
	if !exists {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEngine, engineType)
	}
	room, err := NewRoom(prototype.Clone(), users)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	if err := room.Engine.InitializeEngine(room.ID, room.Users); err != nil {
		room.Close()
		return nil, fmt.Errorf("initialize engine: %w", err)
	}
	rm.rooms[room.ID] = room
	for _, userID := range users {
		rm.playerRoom[userID] = room.ID
	}
	log.Info("room %s created, engine type %d, users %v", room.ID, engineType, users)
	return room, nil
}

func (rm *RoomManager) GetRoom(roomID string) (*Room, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	room, exists := rm.rooms[roomID]
	return room, exists
}

func (rm *RoomManager) GetPlayerRoom(userID string) (*Room, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	roomID, exists := rm.playerRoom[userID]
	if !exists {
		return nil, false
	}
	room, exists := rm.rooms[roomID]
	return room, exists
}

// DeleteRoom unroutes the room's users and closes its engine.
func (rm *RoomManager) DeleteRoom(roomID string) error {
	rm.mu.Lock()
	room, exists := rm.rooms[roomID]
	if !exists {
		rm.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	room.mu.RLock()
	for userID := range room.Users {
		delete(rm.playerRoom, userID)
	}
	room.mu.RUnlock()
	delete(rm.rooms, roomID)
	rm.mu.Unlock()

	// outside the lock: Close waits for the engine's actor
	room.Close()
	log.Info("room %s deleted", roomID)
	return nil
}

// GetStats reports room and player counts for the load monitor.
func (rm *RoomManager) GetStats() (gameCount int, playerCount int) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms), len(rm.playerRoom)
}

func (rm *RoomManager) GetAllRooms() []*Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	rooms := make([]*Room, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// CloseAll deletes every room, used on shutdown.
func (rm *RoomManager) CloseAll() {
	for _, room := range rm.GetAllRooms() {
		if err := rm.DeleteRoom(room.ID); err != nil {
			log.Warn("close room %s: %v", room.ID, err)
		}
	}
}
