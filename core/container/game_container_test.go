package container

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/k-jun/mahjong-tui-sub000/common/config"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game/engines"
)

func TestTableOptions(t *testing.T) {
	opts := TableOptions(config.RuleConf{
		InitialPoints: 30000,
		Hands:         4,
		RedFives:      true,
		AutoDraw:      true,
		StepDelay:     250,
		NextHandDelay: 1500,
		TurnBank:      20,
		TurnBonus:     5,
	})
	require.Equal(t, 30000, opts.Rules.InitialPoints)
	require.Equal(t, 4, opts.Rules.Hands)
	require.True(t, opts.Rules.AutoDraw)
	require.Equal(t, 250*time.Millisecond, opts.Rules.StepDelay)
	require.Equal(t, 1500*time.Millisecond, opts.NextHandDelay)
	require.Equal(t, 20*time.Second, opts.TurnBank)
	require.Equal(t, 5*time.Second, opts.TurnBonus)
	require.True(t, opts.RedFives)
	require.Nil(t, opts.Walls)
}

func TestNewGameContainer_LocalOnly(t *testing.T) {
	require.NoError(t, config.Load(""))
	conf := config.Game()
	conf.ID = "node-test"

	c, err := NewGameContainer(context.Background(), conf)
	require.NoError(t, err)
	require.Nil(t, c.GetMongo())
	require.Nil(t, c.GetRedis())
	require.NotNil(t, c.GetCache())
	require.Nil(t, c.GameWorker.GameRecords())
	require.NotNil(t, c.GameWorker.GameService)
	require.Equal(t, int32(engines.RIICHI_MAHJONG_4P_ENGINE), c.GameWorker.EngineType)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}
