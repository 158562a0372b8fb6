package service

import "context"

type GameService interface {
	CreateRoom(ctx context.Context, req *CreateRoomReq) (*CreateRoomResp, error)
}

type CreateRoomReq struct {
	Users      [4]string `json:"users"` // seat order
	EngineType int32     `json:"engineType"`
}

type CreateRoomResp struct {
	Success bool   `json:"success"`
	RoomID  string `json:"roomID"`
	Message string `json:"message"`
}
