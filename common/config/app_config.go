package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/k-jun/mahjong-tui-sub000/common/log"
)

var (
	mu             sync.RWMutex
	GameNodeConfig GameConfiguration
)

type BaseConfig struct {
	ID         string `mapstructure:"id"`
	ServerType string `mapstructure:"serverType"`
}

type GameConfiguration struct {
	BaseConfig   `mapstructure:",squash"`
	DatabaseConf `mapstructure:"database"`
	LogConf      `mapstructure:"log"`
	NatsConfig   `mapstructure:"nats"`
	RuleConf     `mapstructure:"rule"`
	CacheConf    `mapstructure:"cache"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

type DatabaseConf struct {
	MongoConf MongoConf `mapstructure:"mongo"`
	RedisConf RedisConf `mapstructure:"redis"`
}

type MongoConf struct {
	Url         string `mapstructure:"url"`
	Db          string `mapstructure:"db"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	MinPoolSize int    `mapstructure:"minPoolSize"`
	MaxPoolSize int    `mapstructure:"maxPoolSize"`
}

// RedisConf locates the room directory. Empty Addr and ClusterAddrs
// disable it.
type RedisConf struct {
	Addr         string   `mapstructure:"addr"`
	ClusterAddrs []string `mapstructure:"clusterAddrs"`
	Password     string   `mapstructure:"password"`
	PoolSize     int      `mapstructure:"poolSize"`
	MinIdleConns int      `mapstructure:"minIdleConns"`
	RoomTTL      int      `mapstructure:"roomTTL"` // seconds
}

type NatsConfig struct {
	URL string `json:"url" mapstructure:"url"`
	// Prefix roots every subject the worker publishes or listens on.
	Prefix string `json:"prefix" mapstructure:"prefix"`
}

// RuleConf holds the table rules. Delays are in milliseconds.
type RuleConf struct {
	InitialPoints int  `mapstructure:"initialPoints"`
	Hands         int  `mapstructure:"hands"` // 4 east only, 8 hanchan
	RedFives      bool `mapstructure:"redFives"`
	AutoDraw      bool `mapstructure:"autoDraw"`
	StepDelay     int  `mapstructure:"stepDelay"`
	NextHandDelay int  `mapstructure:"nextHandDelay"`
	TurnBank      int  `mapstructure:"turnBank"`  // seconds per seat, 0 disables the clock
	TurnBonus     int  `mapstructure:"turnBonus"` // seconds added each turn
}

type CacheConf struct {
	MaxCost int64 `mapstructure:"maxCost"`
	TTL     int   `mapstructure:"ttl"` // seconds
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("serverType", "game")
	v.SetDefault("log.level", "info")
	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.prefix", "riichi")
	v.SetDefault("database.mongo.db", "riichi")
	v.SetDefault("database.mongo.minPoolSize", 1)
	v.SetDefault("database.mongo.maxPoolSize", 16)
	v.SetDefault("database.redis.poolSize", 16)
	v.SetDefault("database.redis.roomTTL", 6*3600)
	v.SetDefault("rule.initialPoints", 25000)
	v.SetDefault("rule.hands", 8)
	v.SetDefault("rule.redFives", true)
	v.SetDefault("rule.autoDraw", true)
	v.SetDefault("rule.nextHandDelay", 3000)
	v.SetDefault("rule.turnBank", 0)
	v.SetDefault("rule.turnBonus", 5)
	v.SetDefault("cache.maxCost", 1<<20)
	v.SetDefault("cache.ttl", 600)
}

// Load reads configFile into GameNodeConfig and keeps watching it. An empty
// path loads defaults only. NODE_ID in the environment overrides the id.
func Load(configFile string) error {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	if err := unmarshal(v); err != nil {
		return err
	}
	if configFile != "" {
		v.OnConfigChange(func(in fsnotify.Event) {
			if err := unmarshal(v); err != nil {
				log.Error("reload config %s: %v", in.Name, err)
				return
			}
			log.SetLevel(Game().LogConf.Level)
			log.Info("config reloaded from %s", in.Name)
		})
		v.WatchConfig()
	}
	return nil
}

func unmarshal(v *viper.Viper) error {
	var cfg GameConfiguration
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if nodeID := os.Getenv("NODE_ID"); nodeID != "" {
		cfg.ID = nodeID
	}
	if cfg.ServerType != "game" {
		return fmt.Errorf("unknown server type: %s", cfg.ServerType)
	}
	mu.Lock()
	GameNodeConfig = cfg
	mu.Unlock()
	return nil
}

// Game returns a copy of the current configuration; safe across hot reloads.
func Game() GameConfiguration {
	mu.RLock()
	defer mu.RUnlock()
	return GameNodeConfig
}

// SetNodeID overrides the node id, as the --identifier flag does.
func SetNodeID(id string) {
	mu.Lock()
	GameNodeConfig.ID = id
	mu.Unlock()
}
