package container

import (
	"context"
	"time"

	"github.com/k-jun/mahjong-tui-sub000/common/cache"
	"github.com/k-jun/mahjong-tui-sub000/common/config"
	"github.com/k-jun/mahjong-tui-sub000/common/database"
	"github.com/k-jun/mahjong-tui-sub000/common/log"
)

// BaseContainer holds the shared resources. Mongo and redis are optional:
// without mongo nothing is persisted, without redis rooms stay node-local.
type BaseContainer struct {
	mongo *database.MongoManager
	redis *database.RedisManager
	cache *cache.GeneralCache
}

func NewBase(ctx context.Context, conf config.GameConfiguration) (*BaseContainer, error) {
	c, err := cache.NewGeneralCache(conf.CacheConf.MaxCost, time.Duration(conf.CacheConf.TTL)*time.Second)
	if err != nil {
		return nil, err
	}
	base := &BaseContainer{cache: c}
	if conf.DatabaseConf.MongoConf.Url == "" {
		log.Warn("no mongo url configured, game records are not persisted")
	} else {
		m, err := database.NewMongo(ctx, conf.DatabaseConf.MongoConf)
		if err != nil {
			_ = base.Close()
			return nil, err
		}
		base.mongo = m
		log.Info("mongodb connected, db %s", conf.DatabaseConf.MongoConf.Db)
	}
	rc := conf.DatabaseConf.RedisConf
	if rc.Addr == "" && len(rc.ClusterAddrs) == 0 {
		log.Warn("no redis configured, room directory disabled")
		return base, nil
	}
	r, err := database.NewRedis(ctx, rc)
	if err != nil {
		_ = base.Close()
		return nil, err
	}
	base.redis = r
	log.Info("redis connected")
	return base, nil
}

func (c *BaseContainer) GetMongo() *database.MongoManager {
	return c.mongo
}

func (c *BaseContainer) GetRedis() *database.RedisManager {
	return c.redis
}

func (c *BaseContainer) GetCache() *cache.GeneralCache {
	return c.cache
}

func (c *BaseContainer) Close() error {
	c.cache.Close()
	var firstErr error
	if err := c.redis.Close(); err != nil {
		firstErr = err
	}
	if c.mongo != nil {
		if err := c.mongo.Close(); err != nil {
			log.Error("mongo close: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
