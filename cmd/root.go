// Package cmd implements the ai-search command line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/ai-search/library/config"
	"github.com/Laisky/ai-search/library/log"
)

var rootCMD = &cobra.Command{
	Use:   "ai-search",
	Short: "ai-search",
	Long:  `search enrichment middleware over SearXNG with LLM intent routing and cross-encoder re-ranking`,
	Args:  gcmd.NoExtraArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCMD.Execute()
}

func init() {
	rootCMD.PersistentFlags().Bool("debug", false, "run in debug mode")
	rootCMD.PersistentFlags().StringP("config", "c", "", "optional config file path")
	rootCMD.PersistentFlags().String("listen", "", "listen address, overrides PORT")
}

func initialize(ctx context.Context, cmd *cobra.Command) error {
	if err := gconfig.Shared.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind pflags")
	}

	setupSettings(ctx)
	setupLogger(ctx)

	return nil
}

func setupSettings(ctx context.Context) {
	if gconfig.Shared.GetBool("debug") {
		fmt.Println("run in debug mode")
		gconfig.Shared.Set(config.KeyLogLevel, "debug")
	}

	config.Setup(gconfig.Shared.GetString("config"))
}

func setupLogger(ctx context.Context) {
	if gconfig.Shared.GetString(config.KeyEnvironment) == "production" {
		// JSON encoder for log shippers.
		logger, err := glog.NewWithName("ai-search",
			glog.Level(gconfig.Shared.GetString(config.KeyLogLevel)))
		if err != nil {
			log.Logger.Panic("new production logger", zap.Error(err))
		}
		log.Logger = logger
		return
	}

	lvl := gconfig.Shared.GetString(config.KeyLogLevel)
	if err := log.Logger.ChangeLevel(glog.Level(lvl)); err != nil {
		log.Logger.Panic("change log level", zap.Error(err), zap.String("level", lvl))
	}
}
