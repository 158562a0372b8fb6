package mahjong

import (
	"context"
	"sync"

	"github.com/k-jun/mahjong-tui-sub000/core/domain/entity"
	"github.com/k-jun/mahjong-tui-sub000/core/domain/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryRecords struct {
	mu     sync.Mutex
	games  []*entity.GameRecord
	rounds []*entity.RoundRecord
	saved  chan struct{}
}

func newMemoryRecords() *memoryRecords {
	return &memoryRecords{saved: make(chan struct{}, 4)}
}

func (m *memoryRecords) SaveGameRecord(_ context.Context, r *entity.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games = append(m.games, r)
	return nil
}

func (m *memoryRecords) FindGameRecord(_ context.Context, id primitive.ObjectID) (*entity.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.games {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, repository.ErrGameRecordNotFound
}

func (m *memoryRecords) FindGameRecordsByUser(context.Context, string, int, int) ([]*entity.GameRecord, error) {
	return nil, nil
}

func (m *memoryRecords) FindGameRecordByRoom(_ context.Context, roomID string) (*entity.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.games {
		if g.RoomID == roomID {
			return g, nil
		}
	}
	return nil, repository.ErrGameRecordNotFound
}

func (m *memoryRecords) SaveRoundRecord(_ context.Context, r *entity.RoundRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds = append(m.rounds, r)
	return nil
}

func (m *memoryRecords) SaveRoundRecords(_ context.Context, rs []*entity.RoundRecord) error {
	m.mu.Lock()
	m.rounds = append(m.rounds, rs...)
	m.mu.Unlock()
	m.saved <- struct{}{}
	return nil
}

func (m *memoryRecords) FindRoundRecords(context.Context, primitive.ObjectID) ([]*entity.RoundRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entity.RoundRecord(nil), m.rounds...), nil
}

func (m *memoryRecords) FindRoundRecord(context.Context, primitive.ObjectID, int) (*entity.RoundRecord, error) {
	return nil, repository.ErrRoundRecordNotFound
}

// fakeHost keeps the last payload pushed to each seat.
type fakeHost struct {
	mu        sync.Mutex
	pushed    [4][]byte
	pushes    int
	destroyed chan string
	records   repository.GameRecordRepository
}

func newFakeHost(records repository.GameRecordRepository) *fakeHost {
	return &fakeHost{destroyed: make(chan string, 4), records: records}
}

func (f *fakeHost) RequestDestroyRoom(roomID string) {
	f.destroyed <- roomID
}

func (f *fakeHost) PushSeat(_ string, seat int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed[seat] = data
	f.pushes++
	return nil
}

func (f *fakeHost) GameRecords() repository.GameRecordRepository {
	return f.records
}

func (f *fakeHost) last(seat int) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pushed[seat]
}
