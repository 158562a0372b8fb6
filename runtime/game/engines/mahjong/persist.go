package mahjong

import (
	"context"
	"sync"
	"time"

	"github.com/k-jun/mahjong-tui-sub000/common/log"
	"github.com/k-jun/mahjong-tui-sub000/core/domain/entity"
	"github.com/k-jun/mahjong-tui-sub000/core/domain/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const persistTimeout = 30 * time.Second

// GamePersister collects a match while it is played and writes it once
// the match ends. Every accepted input is kept, so a stored hand replays.
type GamePersister struct {
	repo         repository.GameRecordRepository
	gameRecord   *entity.GameRecord
	rounds       []*entity.RoundRecord
	currentRound *entity.RoundRecord
	eventMu      sync.Mutex
	closed       bool
}

func NewGamePersister(repo repository.GameRecordRepository, roomID string, users [4]string, rules entity.RuleSet) *GamePersister {
	players := make([]entity.PlayerInfo, 0, len(users))
	for seat, userID := range users {
		players = append(players, entity.PlayerInfo{UserID: userID, SeatIndex: seat})
	}
	return &GamePersister{
		repo:       repo,
		gameRecord: entity.NewGameRecord(roomID, "riichi_mahjong_4p", players, rules),
		rounds:     make([]*entity.RoundRecord, 0, 8),
	}
}

func (gp *GamePersister) GetGameRecordID() primitive.ObjectID {
	return gp.gameRecord.ID
}

func toEntityTile(t Tile) entity.Tile {
	return entity.Tile{Type: int(t.Type), ID: t.ID}
}

func toEntityTiles(tiles []Tile) []entity.Tile {
	out := make([]entity.Tile, len(tiles))
	for i, t := range tiles {
		out[i] = toEntityTile(t)
	}
	return out
}

func tileData(t Tile) map[string]interface{} {
	return map[string]interface{}{"type": int(t.Type), "id": t.ID}
}

// StartRound opens the record of a freshly dealt hand.
func (gp *GamePersister) StartRound(h *Hand, wall []Tile) {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	if gp.closed {
		return
	}
	gp.currentRound = entity.NewRoundRecord(gp.gameRecord.ID, h.Number, h.Round.String(), h.Dealer, h.Honba, h.Kyotaku, toEntityTiles(wall))
	gp.rounds = append(gp.rounds, gp.currentRound)
	gp.currentRound.AddEvent(entity.EventTypeRoundStart, -1, h.Token, map[string]interface{}{
		"dora_indicators": toEntityTiles(h.Wall.DoraIndicators()),
		"current_turn":    h.Turn,
	})
}

func eventTypeOf(k InputKind) string {
	switch k {
	case InputDraw:
		return entity.EventTypeDrawTile
	case InputDiscard:
		return entity.EventTypeDiscard
	case InputCall:
		return entity.EventTypeCall
	case InputRiichi:
		return entity.EventTypeRiichi
	case InputWin:
		return entity.EventTypeWin
	case InputAbort:
		return entity.EventTypeAbort
	default:
		return entity.EventTypeSkip
	}
}

// RecordInput stores an accepted input with the token it was applied at.
func (gp *GamePersister) RecordInput(in Input) {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	if gp.closed || gp.currentRound == nil {
		return
	}
	data := map[string]interface{}{}
	switch in.Kind {
	case InputDiscard, InputRiichi:
		data["tile"] = tileData(in.Tile)
	case InputCall:
		data["meld"] = map[string]interface{}{
			"kind":   in.Meld.Kind.String(),
			"own":    toEntityTiles(in.Meld.Own),
			"called": toEntityTile(in.Meld.Called),
			"added":  toEntityTile(in.Meld.Added),
		}
	}
	gp.currentRound.AddEvent(eventTypeOf(in.Kind), in.Seat, in.Token, data)
}

// CompleteRound closes the current hand with its settlement.
func (gp *GamePersister) CompleteRound(s *Settlement) {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	if gp.closed || gp.currentRound == nil || s == nil {
		return
	}
	claims := make([]entity.HuClaim, 0, len(s.Wins))
	for _, w := range s.Wins {
		yaku := make([]string, 0, len(w.Value.Yaku))
		for _, y := range w.Value.Yaku {
			yaku = append(yaku, y.Yaku.String())
		}
		claims = append(claims, entity.HuClaim{
			WinnerSeat: w.Seat,
			LoserSeat:  w.From,
			PaoSeat:    w.Pao,
			WinTile:    toEntityTile(w.Tile),
			Han:        w.Value.Han,
			Fu:         w.Value.Fu,
			Yakuman:    w.Value.Yakuman,
			Yaku:       yaku,
			Points:     w.Points,
		})
	}
	gp.currentRound.CompleteRound(&entity.RoundResult{
		EndType:         s.Kind.String(),
		Claims:          claims,
		Delta:           s.Delta,
		Points:          s.Points,
		Tenpai:          s.Tenpai,
		DealerContinues: s.DealerContinues,
		NextHonba:       s.Honba,
		NextKyotaku:     s.Kyotaku,
	})
	gp.currentRound.AddEvent(entity.EventTypeRoundEnd, -1, 0, map[string]interface{}{})
	gp.currentRound = nil
}

// FinalizeGame writes the match with its final standings.
func (gp *GamePersister) FinalizeGame(ctx context.Context, standings []Standing, points [4]int) error {
	rankings := make([]entity.PlayerRanking, 0, len(standings))
	for _, s := range standings {
		rankings = append(rankings, entity.PlayerRanking{SeatIndex: s.Seat, UserID: s.UserID, Points: s.Points, Rank: s.Rank})
	}
	return gp.flush(ctx, func(r *entity.GameRecord) {
		r.CompleteGame(&entity.GameFinalResult{Rankings: rankings, Points: points})
	})
}

// AbortGame writes what was played of a match that will not finish.
func (gp *GamePersister) AbortGame(ctx context.Context, reason string) error {
	return gp.flush(ctx, func(r *entity.GameRecord) {
		r.AbortGame(reason)
	})
}

func (gp *GamePersister) flush(ctx context.Context, finish func(*entity.GameRecord)) error {
	gp.eventMu.Lock()
	if gp.closed {
		gp.eventMu.Unlock()
		return nil
	}
	gp.closed = true
	rounds := make([]*entity.RoundRecord, len(gp.rounds))
	copy(rounds, gp.rounds)
	finish(gp.gameRecord)
	gp.eventMu.Unlock()

	if err := gp.repo.SaveGameRecord(ctx, gp.gameRecord); err != nil {
		return err
	}
	if err := gp.repo.SaveRoundRecords(ctx, rounds); err != nil {
		return err
	}
	log.Info("game record %s saved, status %s, hands %d", gp.gameRecord.ID.Hex(), gp.gameRecord.Status, len(rounds))
	return nil
}

// flushAsync runs flush off the actor goroutine.
func (gp *GamePersister) flushAsync(write func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := write(ctx); err != nil {
			log.Error("persist game %s: %v", gp.gameRecord.RoomID, err)
		}
	}()
}
