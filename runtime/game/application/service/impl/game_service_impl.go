package impl

import (
	"context"
	"fmt"

	"github.com/k-jun/mahjong-tui-sub000/common/log"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game/application/service"
)

type GameServiceImpl struct {
	roomManager *game.RoomManager
}

func NewGameService(roomManager *game.RoomManager) service.GameService {
	return &GameServiceImpl{roomManager: roomManager}
}

// CreateRoom reports refusals in the response; the error is reserved for
// failures of the service itself.
func (s *GameServiceImpl) CreateRoom(ctx context.Context, req *service.CreateRoomReq) (*service.CreateRoomResp, error) {
	if req == nil {
		return &service.CreateRoomResp{Message: "empty request"}, nil
	}
	for seat, userID := range req.Users {
		if userID == "" {
			return &service.CreateRoomResp{Message: fmt.Sprintf("seat %d is empty", seat)}, nil
		}
	}
	room, err := s.roomManager.CreateRoom(req.Users, req.EngineType)
	if err != nil {
		log.Warn("create room for %v: %v", req.Users, err)
		return &service.CreateRoomResp{Message: err.Error()}, nil
	}
	return &service.CreateRoomResp{Success: true, RoomID: room.ID, Message: "room created"}, nil
}
