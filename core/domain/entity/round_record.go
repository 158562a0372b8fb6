package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoundRecord is one hand: its wall, every accepted input and the settlement.
// Wall plus Events is enough to replay the hand.
type RoundRecord struct {
	ID           primitive.ObjectID `bson:"_id"`
	GameRecordID primitive.ObjectID `bson:"game_record_id"`
	HandNumber   int                `bson:"hand_number"`
	RoundWind    string             `bson:"round_wind"`
	DealerIndex  int                `bson:"dealer_index"`
	Honba        int                `bson:"honba"`
	Kyotaku      int                `bson:"kyotaku"`
	Wall         []Tile             `bson:"wall"`
	Events       []RoundEvent       `bson:"events"`
	RoundResult  *RoundResult       `bson:"round_result"`
	StartTime    time.Time          `bson:"start_time"`
	EndTime      time.Time          `bson:"end_time"`
	Duration     int                `bson:"duration"`
	CreatedAt    time.Time          `bson:"created_at"`
}

type RoundEvent struct {
	Sequence  int                    `bson:"sequence"`
	EventType string                 `bson:"event_type"`
	Timestamp time.Time              `bson:"timestamp"`
	SeatIndex int                    `bson:"seat_index"` // -1 for table events
	Token     uint64                 `bson:"token"`
	Data      map[string]interface{} `bson:"data"`
}

type RoundResult struct {
	EndType         string    `bson:"end_type"`
	Claims          []HuClaim `bson:"claims"`
	Delta           [4]int    `bson:"delta"`
	Points          [4]int    `bson:"points"`
	Tenpai          [4]bool   `bson:"tenpai"`
	DealerContinues bool      `bson:"dealer_continues"`
	NextHonba       int       `bson:"next_honba"`
	NextKyotaku     int       `bson:"next_kyotaku"`
}

type HuClaim struct {
	WinnerSeat int      `bson:"winner_seat"`
	LoserSeat  int      `bson:"loser_seat"` // -1 on tsumo
	PaoSeat    int      `bson:"pao_seat"`   // -1 without liability
	WinTile    Tile     `bson:"win_tile"`
	Han        int      `bson:"han"`
	Fu         int      `bson:"fu"`
	Yakuman    int      `bson:"yakuman"`
	Yaku       []string `bson:"yaku"`
	Points     int      `bson:"points"`
}

type Tile struct {
	Type int `bson:"type"`
	ID   int `bson:"id"`
}

func NewRoundRecord(gameRecordID primitive.ObjectID, handNumber int, roundWind string, dealerIndex, honba, kyotaku int, wall []Tile) *RoundRecord {
	now := time.Now()
	return &RoundRecord{
		ID:           primitive.NewObjectID(),
		GameRecordID: gameRecordID,
		HandNumber:   handNumber,
		RoundWind:    roundWind,
		DealerIndex:  dealerIndex,
		Honba:        honba,
		Kyotaku:      kyotaku,
		Wall:         wall,
		Events:       make([]RoundEvent, 0, 128),
		StartTime:    now,
		CreatedAt:    now,
	}
}

func (rr *RoundRecord) AddEvent(eventType string, seatIndex int, token uint64, data map[string]interface{}) {
	rr.Events = append(rr.Events, RoundEvent{
		Sequence:  len(rr.Events),
		EventType: eventType,
		Timestamp: time.Now(),
		SeatIndex: seatIndex,
		Token:     token,
		Data:      data,
	})
}

func (rr *RoundRecord) CompleteRound(result *RoundResult) {
	rr.EndTime = time.Now()
	rr.Duration = int(rr.EndTime.Sub(rr.StartTime).Seconds())
	rr.RoundResult = result
}

const (
	EventTypeRoundStart = "round_start"
	EventTypeDrawTile   = "draw_tile"
	EventTypeDiscard    = "discard_tile"
	EventTypeCall       = "call"
	EventTypeRiichi     = "riichi"
	EventTypeWin        = "win"
	EventTypeAbort      = "abort"
	EventTypeSkip       = "skip"
	EventTypeRoundEnd   = "round_end"
)
