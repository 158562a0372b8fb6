package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/k-jun/mahjong-tui-sub000/common/database"
	"github.com/k-jun/mahjong-tui-sub000/common/log"
	"github.com/k-jun/mahjong-tui-sub000/core/domain/entity"
	"github.com/k-jun/mahjong-tui-sub000/core/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	gameRecordCollection  = "game_records"
	roundRecordCollection = "round_records"
)

type GameRecordRepository struct {
	mongo *database.MongoManager
}

func NewGameRecordRepository(mongo *database.MongoManager) repository.GameRecordRepository {
	return &GameRecordRepository{mongo: mongo}
}

// EnsureIndexes creates the lookup indexes used by the Find methods.
func (r *GameRecordRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.mongo.Db.Collection(gameRecordCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "room_id", Value: 1}}},
		{Keys: bson.D{{Key: "players.user_id", Value: 1}, {Key: "start_time", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("game record indexes: %w", err)
	}
	_, err = r.mongo.Db.Collection(roundRecordCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "game_record_id", Value: 1}, {Key: "hand_number", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("round record indexes: %w", err)
	}
	return nil
}

// SaveGameRecord upserts so a record saved on abort can be completed later.
func (r *GameRecordRepository) SaveGameRecord(ctx context.Context, record *entity.GameRecord) error {
	collection := r.mongo.Db.Collection(gameRecordCollection)
	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, bson.M{"_id": record.ID}, record, opts); err != nil {
		log.Error("save game record %s: %v", record.ID.Hex(), err)
		return repository.ErrMongodb
	}
	return nil
}

func (r *GameRecordRepository) FindGameRecord(ctx context.Context, recordID primitive.ObjectID) (*entity.GameRecord, error) {
	return r.findOneGame(ctx, bson.M{"_id": recordID})
}

func (r *GameRecordRepository) FindGameRecordByRoom(ctx context.Context, roomID string) (*entity.GameRecord, error) {
	return r.findOneGame(ctx, bson.M{"room_id": roomID})
}

func (r *GameRecordRepository) findOneGame(ctx context.Context, filter bson.M) (*entity.GameRecord, error) {
	var record entity.GameRecord
	err := r.mongo.Db.Collection(gameRecordCollection).FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrGameRecordNotFound
		}
		log.Error("find game record: %v", err)
		return nil, repository.ErrMongodb
	}
	return &record, nil
}

func (r *GameRecordRepository) FindGameRecordsByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.GameRecord, error) {
	opts := options.Find().
		SetSort(bson.M{"start_time": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.mongo.Db.Collection(gameRecordCollection).Find(ctx, bson.M{"players.user_id": userID}, opts)
	if err != nil {
		log.Error("find game records of %s: %v", userID, err)
		return nil, repository.ErrMongodb
	}
	defer cursor.Close(ctx)

	var records []*entity.GameRecord
	if err := cursor.All(ctx, &records); err != nil {
		log.Error("decode game records: %v", err)
		return nil, repository.ErrMongodb
	}
	return records, nil
}

func (r *GameRecordRepository) SaveRoundRecord(ctx context.Context, round *entity.RoundRecord) error {
	collection := r.mongo.Db.Collection(roundRecordCollection)
	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, bson.M{"_id": round.ID}, round, opts); err != nil {
		log.Error("save round record %s: %v", round.ID.Hex(), err)
		return repository.ErrMongodb
	}
	return nil
}

func (r *GameRecordRepository) SaveRoundRecords(ctx context.Context, rounds []*entity.RoundRecord) error {
	docs := make([]any, 0, len(rounds))
	for _, round := range rounds {
		if round != nil {
			docs = append(docs, round)
		}
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := r.mongo.Db.Collection(roundRecordCollection).InsertMany(ctx, docs); err != nil {
		log.Error("insert %d round records: %v", len(docs), err)
		return repository.ErrMongodb
	}
	log.Info("saved %d round records", len(docs))
	return nil
}

func (r *GameRecordRepository) FindRoundRecords(ctx context.Context, gameRecordID primitive.ObjectID) ([]*entity.RoundRecord, error) {
	opts := options.Find().SetSort(bson.M{"hand_number": 1})
	cursor, err := r.mongo.Db.Collection(roundRecordCollection).Find(ctx, bson.M{"game_record_id": gameRecordID}, opts)
	if err != nil {
		log.Error("find round records: %v", err)
		return nil, repository.ErrMongodb
	}
	defer cursor.Close(ctx)

	var rounds []*entity.RoundRecord
	if err := cursor.All(ctx, &rounds); err != nil {
		log.Error("decode round records: %v", err)
		return nil, repository.ErrMongodb
	}
	return rounds, nil
}

func (r *GameRecordRepository) FindRoundRecord(ctx context.Context, gameRecordID primitive.ObjectID, handNumber int) (*entity.RoundRecord, error) {
	filter := bson.M{"game_record_id": gameRecordID, "hand_number": handNumber}
	var round entity.RoundRecord
	err := r.mongo.Db.Collection(roundRecordCollection).FindOne(ctx, filter).Decode(&round)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrRoundRecordNotFound
		}
		log.Error("find round record: %v", err)
		return nil, repository.ErrMongodb
	}
	return &round, nil
}
