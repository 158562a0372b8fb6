package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/k-jun/mahjong-tui-sub000/runtime/game/engines"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game/share"
)

const MaxPlayers = 4

// Room binds four users to one engine instance.
type Room struct {
	ID        string
	Engine    engines.Engine
	Users     map[string]*share.UserInfo // userID -> seat info, shared with the engine
	CreatedAt time.Time
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewRoom seats users in order: users[0] is seat 0 and the first dealer.
func NewRoom(engine engines.Engine, users [MaxPlayers]string) (*Room, error) {
	seated := make(map[string]*share.UserInfo, MaxPlayers)
	for seat, userID := range users {
		if userID == "" {
			return nil, fmt.Errorf("seat %d is empty", seat)
		}
		if _, dup := seated[userID]; dup {
			return nil, fmt.Errorf("user %s seated twice", userID)
		}
		seated[userID] = share.NewUserInfo(userID, seat)
	}
	return &Room{
		ID:        uuid.NewString(),
		Engine:    engine,
		Users:     seated,
		CreatedAt: time.Now(),
	}, nil
}

func (r *Room) GetPlayer(userID string) (*share.UserInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.Users[userID]
	return u, ok
}

// SeatUser returns the user at seat.
func (r *Room) SeatUser(seat int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for userID, u := range r.Users {
		if u.SeatIndex == seat {
			return userID, true
		}
	}
	return "", false
}

// Seats lists the users in seat order.
func (r *Room) Seats() [MaxPlayers]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var seats [MaxPlayers]string
	for userID, u := range r.Users {
		seats[u.SeatIndex] = userID
	}
	return seats
}

func (r *Room) Close() {
	r.closeOnce.Do(func() {
		if r.Engine != nil {
			r.Engine.Close()
		}
	})
}
