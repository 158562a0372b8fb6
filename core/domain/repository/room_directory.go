package repository

import (
	"context"
	"errors"
)

var (
	ErrSeatTaken     = errors.New("user already seated elsewhere")
	ErrRoomNotListed = errors.New("room not in directory")
)

// RoomDirectory tells every node where a room runs and which room a user
// sits in.
type RoomDirectory interface {
	// ClaimSeats lists roomID on nodeID and binds all users to it, or binds
	// nobody and returns ErrSeatTaken.
	ClaimSeats(ctx context.Context, roomID, nodeID string, users [4]string) error

	RoomNode(ctx context.Context, roomID string) (string, error)

	UserRoom(ctx context.Context, userID string) (string, error)

	// ReleaseSeats drops the room and every user binding still pointing at it.
	ReleaseSeats(ctx context.Context, roomID string, users [4]string) error
}
