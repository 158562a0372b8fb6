package container

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/k-jun/mahjong-tui-sub000/common/config"
	"github.com/k-jun/mahjong-tui-sub000/common/log"
	"github.com/k-jun/mahjong-tui-sub000/core/domain/repository"
	"github.com/k-jun/mahjong-tui-sub000/core/infrastructure/persistence"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game/application/service/impl"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game/engines"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game/engines/mahjong"
)

// GameContainer wires the game node: storage, evaluator, worker and the
// engine prototype.
type GameContainer struct {
	*BaseContainer
	GameWorker *game.Worker
	closed     bool
	mu         sync.Mutex
}

func NewGameContainer(ctx context.Context, conf config.GameConfiguration) (*GameContainer, error) {
	base, err := NewBase(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("base container: %w", err)
	}

	var records repository.GameRecordRepository
	if base.mongo != nil {
		repo := persistence.NewGameRecordRepository(base.mongo)
		if ix, ok := repo.(interface{ EnsureIndexes(context.Context) error }); ok {
			if err := ix.EnsureIndexes(ctx); err != nil {
				log.Warn("ensure indexes: %v", err)
			}
		}
		records = repo
	}

	worker := game.NewWorker(conf.ID, conf.NatsConfig.Prefix, records)
	eval := mahjong.NewEvaluator(base.cache)
	eval.RedFives = conf.RuleConf.RedFives
	prototype := mahjong.NewRiichiMahjong4p(worker, eval, TableOptions(conf.RuleConf))
	if err := worker.RoomManager.SetEnginePrototype(int32(engines.RIICHI_MAHJONG_4P_ENGINE), prototype); err != nil {
		_ = base.Close()
		return nil, err
	}
	worker.SetGameService(impl.NewGameService(worker.RoomManager))
	if base.redis != nil {
		ttl := time.Duration(conf.DatabaseConf.RedisConf.RoomTTL) * time.Second
		worker.SetDirectory(persistence.NewRoomDirectory(base.redis, conf.NatsConfig.Prefix, ttl))
	}

	return &GameContainer{
		BaseContainer: base,
		GameWorker:    worker,
	}, nil
}

// TableOptions converts configured rules into engine options.
func TableOptions(rc config.RuleConf) mahjong.TableOptions {
	return mahjong.TableOptions{
		Rules: mahjong.Rules{
			InitialPoints: rc.InitialPoints,
			Hands:         rc.Hands,
			AutoDraw:      rc.AutoDraw,
			StepDelay:     time.Duration(rc.StepDelay) * time.Millisecond,
		},
		RedFives:      rc.RedFives,
		NextHandDelay: time.Duration(rc.NextHandDelay) * time.Millisecond,
		TurnBank:      time.Duration(rc.TurnBank) * time.Second,
		TurnBonus:     time.Duration(rc.TurnBonus) * time.Second,
	}
}

// Close is idempotent: the worker goes first, then storage.
func (c *GameContainer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.GameWorker != nil {
		c.GameWorker.Close()
	}
	if err := c.BaseContainer.Close(); err != nil {
		return err
	}
	log.Info("game container closed")
	return nil
}
