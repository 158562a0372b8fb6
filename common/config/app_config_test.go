package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	require.NoError(t, Load(""))
	cfg := Game()
	require.Equal(t, "game", cfg.ServerType)
	require.Equal(t, 25000, cfg.RuleConf.InitialPoints)
	require.Equal(t, 8, cfg.RuleConf.Hands)
	require.True(t, cfg.RuleConf.AutoDraw)
	require.Equal(t, 16, cfg.DatabaseConf.RedisConf.PoolSize)
	require.Equal(t, 21600, cfg.DatabaseConf.RedisConf.RoomTTL)
	require.Empty(t, cfg.DatabaseConf.RedisConf.Addr)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "game.yaml")
	body := []byte(`
id: game-1
serverType: game
log:
  level: debug
rule:
  initialPoints: 30000
  hands: 4
  stepDelay: 250
nats:
  url: nats://nats:4222
database:
  redis:
    clusterAddrs: [redis-0:6379, redis-1:6379]
    roomTTL: 600
`)
	require.NoError(t, os.WriteFile(file, body, 0o644))
	require.NoError(t, Load(file))
	cfg := Game()
	require.Equal(t, "game-1", cfg.ID)
	require.Equal(t, "debug", cfg.LogConf.Level)
	require.Equal(t, 30000, cfg.RuleConf.InitialPoints)
	require.Equal(t, 4, cfg.RuleConf.Hands)
	require.Equal(t, 250, cfg.RuleConf.StepDelay)
	require.Equal(t, "nats://nats:4222", cfg.NatsConfig.URL)
	require.Equal(t, "riichi", cfg.NatsConfig.Prefix)
	require.Equal(t, []string{"redis-0:6379", "redis-1:6379"}, cfg.DatabaseConf.RedisConf.ClusterAddrs)
	require.Equal(t, 600, cfg.DatabaseConf.RedisConf.RoomTTL)
}

func TestLoadRejectsOtherServerType(t *testing.T) {
	file := filepath.Join(t.TempDir(), "gate.yaml")
	require.NoError(t, os.WriteFile(file, []byte("serverType: gate\n"), 0o644))
	require.Error(t, Load(file))
}
