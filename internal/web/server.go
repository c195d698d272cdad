// Package web gin server
package web

import (
	ginMw "github.com/Laisky/gin-middlewares/v7"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/ai-search/internal/search/controller"
	"github.com/Laisky/ai-search/library/log"
)

var (
	server = gin.New()
)

// RunServer wires the routes and blocks serving addr.
func RunServer(addr string, ctrl *controller.Controller) {
	server.Use(
		gin.Recovery(),
		ginMw.NewLoggerMiddleware(
			ginMw.WithLogger(log.Logger.Named("gin")),
		),
	)
	if !gconfig.Shared.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := ginMw.EnableMetric(server); err != nil {
		log.Logger.Panic("enable metric server", zap.Error(err))
	}

	server.GET("/search", ctrl.Search)
	server.GET("/health", ctrl.Health)
	server.GET("/stats", ctrl.Stats)

	log.Logger.Info("listening on http", zap.String("addr", addr))
	log.Logger.Panic("httpServer exit", zap.Error(server.Run(addr)))
}
