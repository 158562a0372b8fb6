package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/k-jun/mahjong-tui-sub000/common/log"
	"github.com/k-jun/mahjong-tui-sub000/core/domain/repository"
	svc "github.com/k-jun/mahjong-tui-sub000/runtime/game/application/service"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game/engines"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game/share"
)

const (
	inputTimeout   = 10 * time.Second
	directoryWait  = 5 * time.Second
	reportInterval = 5 * time.Second
	queueGroup     = "game"
)

/*
Subjects, all under the configured prefix:

	<prefix>.room.create            request  CreateRoomRequest  -> CreateRoomReply
	<prefix>.room.<id>.input        request  InputRequest       -> InputReply
	<prefix>.room.<id>.snapshot     request  SnapshotRequest    -> redacted snapshot
	<prefix>.room.<id>.seat.<n>     publish  redacted snapshot after every step
	<prefix>.node.<nodeID>.load     publish  LoadInfo
*/

// Worker connects rooms to NATS. It is the engines.Host of every room.
type Worker struct {
	RoomManager *RoomManager
	Client      *NatsClient
	Monitor     *Monitor
	GameService svc.GameService
	NodeID      string
	Prefix      string
	EngineType  int32

	records       repository.GameRecordRepository
	directory     repository.RoomDirectory
	destroyRoomCh chan string
	destroyMu     sync.Mutex
	destroyClosed bool
	loopDone      chan struct{}
}

func NewWorker(nodeID, prefix string, records repository.GameRecordRepository) *Worker {
	w := &Worker{
		RoomManager:   NewRoomManager(),
		NodeID:        nodeID,
		Prefix:        prefix,
		EngineType:    int32(engines.RIICHI_MAHJONG_4P_ENGINE),
		records:       records,
		destroyRoomCh: make(chan string, 128),
		loopDone:      make(chan struct{}),
	}
	go w.destroyRoomLoop()
	return w
}

func (w *Worker) subject(parts ...string) string {
	return w.Prefix + "." + strings.Join(parts, ".")
}

func (w *Worker) SetGameService(gameService svc.GameService) {
	w.GameService = gameService
}

// SetDirectory publishes room placement to other nodes; nil keeps rooms local.
func (w *Worker) SetDirectory(directory repository.RoomDirectory) {
	w.directory = directory
}

func (w *Worker) GameRecords() repository.GameRecordRepository {
	return w.records
}

func (w *Worker) destroyRoomLoop() {
	defer close(w.loopDone)
	for roomID := range w.destroyRoomCh {
		if room, ok := w.RoomManager.GetRoom(roomID); ok {
			w.releaseSeats(room)
		}
		if err := w.RoomManager.DeleteRoom(roomID); err != nil {
			log.Warn("destroy room %s: %v", roomID, err)
		}
	}
}

func (w *Worker) RequestDestroyRoom(roomID string) {
	if roomID == "" {
		return
	}
	w.destroyMu.Lock()
	defer w.destroyMu.Unlock()
	if w.destroyClosed {
		return
	}
	select {
	case w.destroyRoomCh <- roomID:
	default:
		log.Warn("destroy queue full, room %s", roomID)
	}
}

func (w *Worker) PushSeat(roomID string, seat int, data []byte) error {
	if w.Client == nil {
		return ErrNotConnected
	}
	return w.Client.SendMessage(w.subject("room", roomID, "seat", fmt.Sprint(seat)), data)
}

// Start connects to NATS, subscribes the handlers and starts load reports.
func (w *Worker) Start(ctx context.Context, natsURL string) error {
	client, err := NewNatsClient(natsURL, "game-"+w.NodeID)
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}
	w.Client = client
	handlers := map[string]func(string, []byte) []byte{
		w.subject("room", "create"):       w.handleCreateRoom,
		w.subject("room", "*", "input"):    w.handleInput,
		w.subject("room", "*", "snapshot"): w.handleSnapshot,
	}
	for subject, handle := range handlers {
		if err := client.Reply(subject, queueGroup, handle); err != nil {
			client.Close()
			return fmt.Errorf("subscribe %s: %w", subject, err)
		}
	}
	w.Monitor = NewMonitor(w.NodeID, w.RoomManager, w.reportLoad, reportInterval)
	go w.Monitor.Start(ctx)
	log.Info("game worker %s listening under %s", w.NodeID, w.Prefix)
	return nil
}

func (w *Worker) reportLoad(info *LoadInfo) error {
	if w.Client == nil {
		return ErrNotConnected
	}
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return w.Client.SendMessage(w.subject("node", w.NodeID, "load"), data)
}

func encode(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error("encode reply: %v", err)
		return nil
	}
	return data
}

func (w *Worker) handleCreateRoom(_ string, data []byte) []byte {
	var req share.CreateRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return encode(share.CreateRoomReply{Error: "bad request: " + err.Error()})
	}
	if w.GameService == nil {
		return encode(share.CreateRoomReply{Error: "game service not ready"})
	}
	resp, err := w.GameService.CreateRoom(context.Background(), &svc.CreateRoomReq{Users: req.Users, EngineType: w.EngineType})
	if err != nil {
		return encode(share.CreateRoomReply{Error: err.Error()})
	}
	if !resp.Success {
		return encode(share.CreateRoomReply{Error: resp.Message})
	}
	if err := w.claimSeats(resp.RoomID, req.Users); err != nil {
		if delErr := w.RoomManager.DeleteRoom(resp.RoomID); delErr != nil {
			log.Warn("drop unclaimed room %s: %v", resp.RoomID, delErr)
		}
		return encode(share.CreateRoomReply{Error: err.Error()})
	}
	return encode(share.CreateRoomReply{RoomID: resp.RoomID})
}

func (w *Worker) claimSeats(roomID string, users [MaxPlayers]string) error {
	if w.directory == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), directoryWait)
	defer cancel()
	return w.directory.ClaimSeats(ctx, roomID, w.NodeID, users)
}

func (w *Worker) releaseSeats(room *Room) {
	if w.directory == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), directoryWait)
	defer cancel()
	if err := w.directory.ReleaseSeats(ctx, room.ID, room.Seats()); err != nil {
		log.Warn("room %s: %v", room.ID, err)
	}
}

// roomFromSubject reads <prefix>.room.<id>.<verb>.
func (w *Worker) roomFromSubject(subject string) string {
	rest := strings.TrimPrefix(subject, w.Prefix+".room.")
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		return rest[:i]
	}
	return rest
}

func (w *Worker) lookup(subject, roomID, userID string) (*Room, error) {
	if roomID == "" {
		roomID = w.roomFromSubject(subject)
	}
	room, ok := w.RoomManager.GetRoom(roomID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	if _, ok := room.GetPlayer(userID); !ok {
		return nil, fmt.Errorf("user %s not in room %s", userID, roomID)
	}
	return room, nil
}

func (w *Worker) handleInput(subject string, data []byte) []byte {
	var req share.InputRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return encode(share.InputReply{Error: "bad request: " + err.Error()})
	}
	room, err := w.lookup(subject, req.RoomID, req.UserID)
	if err != nil {
		return encode(share.InputReply{Error: err.Error()})
	}
	ctx, cancel := context.WithTimeout(context.Background(), inputTimeout)
	defer cancel()
	token, err := room.Engine.HandleMessage(ctx, req.UserID, req.Input)
	reply := share.InputReply{Token: token}
	if err != nil {
		reply.Error = err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("room %s: input of %s timed out", room.ID, req.UserID)
		}
	}
	return encode(reply)
}

func (w *Worker) handleSnapshot(subject string, data []byte) []byte {
	var req share.SnapshotRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return encode(map[string]string{"error": "bad request: " + err.Error()})
	}
	room, err := w.lookup(subject, req.RoomID, req.UserID)
	if err != nil {
		return encode(map[string]string{"error": err.Error()})
	}
	snap, err := room.Engine.SnapshotFor(req.UserID)
	if err != nil {
		return encode(map[string]string{"error": err.Error()})
	}
	return snap
}

// Close stops the monitor, closes every room and the connection.
func (w *Worker) Close() {
	if w.Monitor != nil {
		w.Monitor.Stop()
	}
	w.destroyMu.Lock()
	if !w.destroyClosed {
		close(w.destroyRoomCh)
		w.destroyClosed = true
	}
	w.destroyMu.Unlock()
	<-w.loopDone

	for _, room := range w.RoomManager.GetAllRooms() {
		w.releaseSeats(room)
	}
	w.RoomManager.CloseAll()
	if w.Client != nil {
		w.Client.Close()
	}
	log.Info("game worker %s closed", w.NodeID)
}
