package cmd

import (
	"context"
	"fmt"
	"time"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/ai-search/internal/search/controller"
	"github.com/Laisky/ai-search/internal/search/dao"
	"github.com/Laisky/ai-search/internal/search/service"
	"github.com/Laisky/ai-search/internal/web"
	"github.com/Laisky/ai-search/library/config"
	"github.com/Laisky/ai-search/library/crossencoder"
	"github.com/Laisky/ai-search/library/db/redis"
	"github.com/Laisky/ai-search/library/llm"
	"github.com/Laisky/ai-search/library/log"
	"github.com/Laisky/ai-search/library/searxng"
)

var apiCMD = &cobra.Command{
	Use:   "api",
	Short: "api",
	Long:  `run the search API server`,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		runAPI(context.Background())
	},
}

func init() {
	rootCMD.AddCommand(apiCMD)
}

func runAPI(ctx context.Context) {
	rdb, err := redis.NewDBFromURL(gconfig.Shared.GetString(config.KeyRedisURL))
	if err != nil {
		log.Logger.Panic("connect redis", zap.Error(err))
	}
	if err := rdb.Ping(ctx); err != nil {
		// The cache is an optimization; start anyway and let /health report it.
		log.Logger.Warn("redis unreachable at startup", zap.Error(err))
	}

	backend, err := searxng.NewClient(gconfig.Shared.GetString(config.KeySearxngURL))
	if err != nil {
		log.Logger.Panic("new searxng client", zap.Error(err))
	}

	classifier, err := llm.NewClaudeClient(gconfig.Shared.GetString(config.KeyAnthropicAPIKey))
	if err != nil {
		log.Logger.Panic("new claude client", zap.Error(err))
	}

	opts := []service.Option{
		service.WithStorePinger(rdb),
		service.WithCacheTTL(time.Duration(gconfig.Shared.GetInt(config.KeyCacheTTLHours)) * time.Hour),
		service.WithDefaultLimit(gconfig.Shared.GetInt(config.KeyMaxResults)),
	}

	if ceURL := gconfig.Shared.GetString(config.KeyCrossEncoderURL); ceURL != "" {
		scorer, err := crossencoder.NewClient(ceURL)
		if err != nil {
			log.Logger.Panic("new cross encoder client", zap.Error(err))
		}
		if err := scorer.Probe(ctx); err != nil {
			log.Logger.Warn("cross encoder not ready at startup", zap.Error(err))
		}
		opts = append(opts, service.WithSemanticScorer(scorer))
	} else {
		log.Logger.Info("cross encoder disabled")
	}

	svc := service.New(
		dao.NewCache(rdb),
		dao.NewStats(rdb),
		backend,
		classifier,
		opts...,
	)

	addr := gconfig.Shared.GetString("listen")
	if addr == "" {
		addr = fmt.Sprintf(":%d", gconfig.Shared.GetInt(config.KeyPort))
	}

	web.RunServer(addr, controller.New(svc))
}
