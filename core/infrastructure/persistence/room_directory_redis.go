package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/k-jun/mahjong-tui-sub000/common/database"
	"github.com/k-jun/mahjong-tui-sub000/core/domain/repository"
)

// Keys share one hash tag so the scripts stay on one cluster slot.
const (
	userRoomKeyFmt = "%s:{dir}:user:%s"
	roomNodeKeyFmt = "%s:{dir}:room:%s"
)

// KEYS: four user keys, then the room key. ARGV: room id, node id, ttl.
const claimSeatsScript = `
for i = 1, #KEYS - 1 do
	local held = redis.call('GET', KEYS[i])
	if held and held ~= ARGV[1] then
		return held
	end
end
for i = 1, #KEYS - 1 do
	redis.call('SET', KEYS[i], ARGV[1], 'EX', ARGV[3])
end
redis.call('SET', KEYS[#KEYS], ARGV[2], 'EX', ARGV[3])
return ''
`

// KEYS: four user keys, then the room key. ARGV: room id.
const releaseSeatsScript = `
for i = 1, #KEYS - 1 do
	if redis.call('GET', KEYS[i]) == ARGV[1] then
		redis.call('DEL', KEYS[i])
	end
end
redis.call('DEL', KEYS[#KEYS])
return 1
`

type RoomDirectory struct {
	redis  *database.RedisManager
	prefix string
	ttl    time.Duration
}

func NewRoomDirectory(r *database.RedisManager, prefix string, ttl time.Duration) repository.RoomDirectory {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &RoomDirectory{redis: r, prefix: prefix, ttl: ttl}
}

func (d *RoomDirectory) userKey(userID string) string {
	return fmt.Sprintf(userRoomKeyFmt, d.prefix, userID)
}

func (d *RoomDirectory) roomKey(roomID string) string {
	return fmt.Sprintf(roomNodeKeyFmt, d.prefix, roomID)
}

func (d *RoomDirectory) keys(roomID string, users [4]string) []string {
	keys := make([]string, 0, len(users)+1)
	for _, u := range users {
		keys = append(keys, d.userKey(u))
	}
	return append(keys, d.roomKey(roomID))
}

func (d *RoomDirectory) ClaimSeats(ctx context.Context, roomID, nodeID string, users [4]string) error {
	res, err := d.redis.EvalScript(ctx, "claim_seats", claimSeatsScript, d.keys(roomID, users),
		roomID, nodeID, int64(d.ttl/time.Second))
	if err != nil {
		return fmt.Errorf("claim seats of %s: %w", roomID, err)
	}
	if held, _ := res.(string); held != "" {
		return fmt.Errorf("%w: room %s", repository.ErrSeatTaken, held)
	}
	return nil
}

func (d *RoomDirectory) RoomNode(ctx context.Context, roomID string) (string, error) {
	return d.lookup(ctx, d.roomKey(roomID))
}

func (d *RoomDirectory) UserRoom(ctx context.Context, userID string) (string, error) {
	return d.lookup(ctx, d.userKey(userID))
}

func (d *RoomDirectory) lookup(ctx context.Context, key string) (string, error) {
	v, err := d.redis.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrRoomNotListed
	}
	return v, err
}

func (d *RoomDirectory) ReleaseSeats(ctx context.Context, roomID string, users [4]string) error {
	if _, err := d.redis.EvalScript(ctx, "release_seats", releaseSeatsScript, d.keys(roomID, users), roomID); err != nil {
		return fmt.Errorf("release seats of %s: %w", roomID, err)
	}
	return nil
}
