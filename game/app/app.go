package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/k-jun/mahjong-tui-sub000/common/config"
	"github.com/k-jun/mahjong-tui-sub000/common/log"
	"github.com/k-jun/mahjong-tui-sub000/core/container"
)

// Run starts the game node and blocks until ctx ends or a stop signal arrives.
func Run(ctx context.Context) error {
	conf := config.Game()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	gameContainer, err := container.NewGameContainer(ctx, conf)
	if err != nil {
		return err
	}
	if err := gameContainer.GameWorker.Start(ctx, conf.NatsConfig.URL); err != nil {
		_ = gameContainer.Close()
		return err
	}
	log.Info("game node %s started", conf.ID)

	stop := func() {
		log.Info("stopping game node %s", conf.ID)
		done := make(chan struct{})
		go func() {
			if err := gameContainer.Close(); err != nil {
				log.Error("close game container: %v", err)
			}
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			log.Warn("shutdown timed out")
		}
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(c)
	select {
	case <-ctx.Done():
	case s := <-c:
		log.Info("received %s", s)
	}
	stop()
	return nil
}
