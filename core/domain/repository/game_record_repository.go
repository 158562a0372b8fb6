package repository

import (
	"context"

	"github.com/k-jun/mahjong-tui-sub000/core/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GameRecordRepository interface {
	SaveGameRecord(ctx context.Context, record *entity.GameRecord) error

	FindGameRecord(ctx context.Context, recordID primitive.ObjectID) (*entity.GameRecord, error)

	// FindGameRecordsByUser pages through a user's matches, newest first.
	FindGameRecordsByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.GameRecord, error)

	FindGameRecordByRoom(ctx context.Context, roomID string) (*entity.GameRecord, error)

	SaveRoundRecord(ctx context.Context, round *entity.RoundRecord) error

	// SaveRoundRecords inserts every hand of a match in one batch.
	SaveRoundRecords(ctx context.Context, rounds []*entity.RoundRecord) error

	// FindRoundRecords returns a match's hands ordered by hand number.
	FindRoundRecords(ctx context.Context, gameRecordID primitive.ObjectID) ([]*entity.RoundRecord, error)

	FindRoundRecord(ctx context.Context, gameRecordID primitive.ObjectID, handNumber int) (*entity.RoundRecord, error)
}
