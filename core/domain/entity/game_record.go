package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameRecord is the aggregate root of one match; hands are stored as
// separate RoundRecord documents.
type GameRecord struct {
	ID          primitive.ObjectID `bson:"_id"`
	RoomID      string             `bson:"room_id"`
	GameType    string             `bson:"game_type"`
	Players     []PlayerInfo       `bson:"players"`
	Rules       RuleSet            `bson:"rules"`
	StartTime   time.Time          `bson:"start_time"`
	EndTime     time.Time          `bson:"end_time"`
	Duration    int                `bson:"duration"` // seconds
	FinalResult *GameFinalResult   `bson:"final_result"`
	Status      string             `bson:"status"`
	Reason      string             `bson:"reason,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
}

type PlayerInfo struct {
	UserID    string `bson:"user_id"`
	SeatIndex int    `bson:"seat_index"`
}

type RuleSet struct {
	InitialPoints int  `bson:"initial_points"`
	Hands         int  `bson:"hands"`
	RedFives      bool `bson:"red_fives"`
}

type GameFinalResult struct {
	Rankings []PlayerRanking `bson:"rankings"`
	Points   [4]int          `bson:"points"` // by seat
}

type PlayerRanking struct {
	SeatIndex int    `bson:"seat_index"`
	UserID    string `bson:"user_id"`
	Points    int    `bson:"points"`
	Rank      int    `bson:"rank"`
}

const (
	GameStatusInProgress = "in_progress"
	GameStatusCompleted  = "completed"
	GameStatusAborted    = "aborted"
)

func NewGameRecord(roomID, gameType string, players []PlayerInfo, rules RuleSet) *GameRecord {
	now := time.Now()
	return &GameRecord{
		ID:        primitive.NewObjectID(),
		RoomID:    roomID,
		GameType:  gameType,
		Players:   players,
		Rules:     rules,
		StartTime: now,
		Status:    GameStatusInProgress,
		CreatedAt: now,
	}
}

func (gr *GameRecord) CompleteGame(finalResult *GameFinalResult) {
	gr.EndTime = time.Now()
	gr.Duration = int(gr.EndTime.Sub(gr.StartTime).Seconds())
	gr.FinalResult = finalResult
	gr.Status = GameStatusCompleted
}

// AbortGame marks a match that ended without a final result.
func (gr *GameRecord) AbortGame(reason string) {
	gr.EndTime = time.Now()
	gr.Duration = int(gr.EndTime.Sub(gr.StartTime).Seconds())
	gr.Status = GameStatusAborted
	gr.Reason = reason
}
