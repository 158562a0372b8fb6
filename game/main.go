package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/k-jun/mahjong-tui-sub000/common/config"
	"github.com/k-jun/mahjong-tui-sub000/common/log"
	"github.com/k-jun/mahjong-tui-sub000/core/container"
	"github.com/k-jun/mahjong-tui-sub000/game/app"
	"github.com/k-jun/mahjong-tui-sub000/runtime/game/engines/mahjong"
)

var (
	configFile string
	logLevel   string
	identifier string
)

var rootCmd = &cobra.Command{
	Use:   "game",
	Short: "riichi mahjong table server",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(configFile); err != nil {
			return err
		}
		level := config.Game().LogConf.Level
		if cmd.Flags().Changed("logLevel") {
			level = logLevel
		}
		log.InitLog("game", level)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve tables over nats",
	RunE: func(cmd *cobra.Command, args []string) error {
		if identifier != "" {
			config.SetNodeID(identifier)
		}
		log.Info("config: %+v", config.Game())
		return app.Run(context.Background())
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay <script.json>",
	Short: "replay a recorded match and print its settlements",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var script mahjong.Script
		if err := json.Unmarshal(data, &script); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}
		conf := config.Game()
		opts := container.TableOptions(conf.RuleConf)
		eval := mahjong.NewEvaluator(nil)
		eval.RedFives = opts.RedFives
		res, err := mahjong.ReplayScript(opts.Rules, eval, script)
		if res != nil {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			for _, s := range res.Settlements {
				if encErr := enc.Encode(s); encErr != nil {
					return encErr
				}
			}
			if res.Hand != nil && !res.Hand.Ended() {
				log.Warn("script stopped mid-hand at token %d", res.Hand.Token)
			}
			if res.Match.Over {
				_ = enc.Encode(res.Match.Standings())
			}
		}
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "resource", "", "config file, defaults only when empty")
	rootCmd.PersistentFlags().StringVar(&logLevel, "logLevel", "info", "log level: debug, info, warn, error")
	serveCmd.Flags().StringVar(&identifier, "identifier", "", "node id, also the nats identity of this node")
	rootCmd.AddCommand(serveCmd, replayCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen: %v", err)
		os.Exit(1)
	}
}
