package share

import "encoding/json"

// InputRequest is the body of a table input message. Input is decoded by
// the table's engine.
type InputRequest struct {
	RoomID string          `json:"roomId"`
	UserID string          `json:"userId"`
	Input  json.RawMessage `json:"input"`
}

// InputReply answers an InputRequest. Token is the table's token after the
// input was handled; a stale input is not an error.
type InputReply struct {
	Token uint64 `json:"token"`
	Error string `json:"error,omitempty"`
}

// CreateRoomRequest seats four users in order, seat 0 first.
type CreateRoomRequest struct {
	Users [4]string `json:"users"`
	Seed  *int64    `json:"seed,omitempty"`
}

type CreateRoomReply struct {
	RoomID string `json:"roomId,omitempty"`
	Error  string `json:"error,omitempty"`
}

// SnapshotRequest asks for the current redacted view, for reconnects.
type SnapshotRequest struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}
