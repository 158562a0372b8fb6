package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/k-jun/mahjong-tui-sub000/common/config"
	"github.com/k-jun/mahjong-tui-sub000/common/log"
)

var ErrRedisNotInitialized = errors.New("redis client not initialized")

type RedisManager struct {
	Cli        *redis.Client
	ClusterCli *redis.ClusterClient
	scriptSHAs map[string]string
	mu         sync.RWMutex
}

// NewRedis connects a single node, or a cluster when ClusterAddrs is set.
func NewRedis(ctx context.Context, redisConf config.RedisConf) (*RedisManager, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	r := &RedisManager{scriptSHAs: make(map[string]string)}
	if len(redisConf.ClusterAddrs) == 0 {
		if redisConf.Addr == "" {
			return nil, errors.New("redis addr is empty")
		}
		r.Cli = redis.NewClient(&redis.Options{
			Addr:         redisConf.Addr,
			Password:     redisConf.Password,
			PoolSize:     redisConf.PoolSize,
			MinIdleConns: redisConf.MinIdleConns,
		})
	} else {
		r.ClusterCli = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        redisConf.ClusterAddrs,
			Password:     redisConf.Password,
			PoolSize:     redisConf.PoolSize,
			MinIdleConns: redisConf.MinIdleConns,
		})
	}
	cli, _ := r.GetClient()
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return r, nil
}

func (r *RedisManager) GetClient() (redis.Cmdable, error) {
	if r.Cli != nil {
		return r.Cli, nil
	}
	if r.ClusterCli != nil {
		return r.ClusterCli, nil
	}
	return nil, ErrRedisNotInitialized
}

func (r *RedisManager) Get(ctx context.Context, key string) (string, error) {
	cli, err := r.GetClient()
	if err != nil {
		return "", err
	}
	return cli.Get(ctx, key).Result()
}

// EvalScript runs script by its cached SHA and reloads it once when the
// server has lost it.
func (r *RedisManager) EvalScript(ctx context.Context, scriptName, script string, keys []string, args ...any) (any, error) {
	cli, err := r.GetClient()
	if err != nil {
		return nil, err
	}
	if scriptName == "" {
		return cli.Eval(ctx, script, keys, args...).Result()
	}

	r.mu.RLock()
	sha, exists := r.scriptSHAs[scriptName]
	r.mu.RUnlock()
	if exists {
		result, err := cli.EvalSha(ctx, sha, keys, args...).Result()
		if err == nil || !strings.HasPrefix(err.Error(), "NOSCRIPT") {
			return result, err
		}
	}
	sha, err = cli.ScriptLoad(ctx, script).Result()
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", scriptName, err)
	}
	r.mu.Lock()
	r.scriptSHAs[scriptName] = sha
	r.mu.Unlock()
	return cli.EvalSha(ctx, sha, keys, args...).Result()
}

func (r *RedisManager) Close() error {
	if r == nil {
		return nil
	}
	if r.Cli != nil {
		if err := r.Cli.Close(); err != nil {
			log.Error("redis close: %v", err)
			return err
		}
	}
	if r.ClusterCli != nil {
		if err := r.ClusterCli.Close(); err != nil {
			log.Error("redis cluster close: %v", err)
			return err
		}
	}
	return nil
}
