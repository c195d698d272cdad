// Package config seeds gconfig.Shared with defaults and environment overrides.
package config

import (
	"os"
	"path/filepath"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/ai-search/library/log"
)

// Recognized configuration keys. Values come from defaults, an optional
// settings file, and finally the environment (highest precedence).
const (
	KeyAnthropicAPIKey = "anthropic_api_key"
	KeyRedisURL        = "redis_url"
	KeySearxngURL      = "searxng_url"
	KeyCrossEncoderURL = "cross_encoder_url"
	KeyCacheTTLHours   = "cache_ttl_hours"
	KeyMaxResults      = "max_results"
	KeyPort            = "port"
	KeyLogLevel        = "log_level"
	KeyEnvironment     = "environment"
)

// envBindings maps configuration keys to the environment variables that
// override them.
var envBindings = map[string]string{
	KeyAnthropicAPIKey: "ANTHROPIC_API_KEY",
	KeyRedisURL:        "REDIS_URL",
	KeySearxngURL:      "SEARXNG_URL",
	KeyCrossEncoderURL: "CROSS_ENCODER_URL",
	KeyCacheTTLHours:   "CACHE_TTL_HOURS",
	KeyMaxResults:      "MAX_RESULTS",
	KeyPort:            "PORT",
	KeyLogLevel:        "LOG_LEVEL",
	KeyEnvironment:     "ENVIRONMENT",
}

// Setup loads defaults, the optional settings file at cfgPath, and
// environment overrides into gconfig.Shared.
func Setup(cfgPath string) {
	gconfig.Shared.Set(KeyRedisURL, "redis://localhost:6379/0")
	gconfig.Shared.Set(KeySearxngURL, "http://localhost:8888")
	gconfig.Shared.Set(KeyCrossEncoderURL, "")
	gconfig.Shared.Set(KeyCacheTTLHours, 24)
	gconfig.Shared.Set(KeyMaxResults, 8)
	gconfig.Shared.Set(KeyPort, 7777)
	gconfig.Shared.Set(KeyLogLevel, "info")
	gconfig.Shared.Set(KeyEnvironment, "development")

	if cfgPath != "" {
		LoadFromFile(cfgPath)
	}

	for key, env := range envBindings {
		if v := os.Getenv(env); v != "" {
			gconfig.Shared.Set(key, v)
		}
	}
}

func LoadFromFile(cfgPath string) {
	gconfig.Shared.Set("cfg_dir", filepath.Dir(cfgPath))
	if err := gconfig.Shared.LoadFromFile(cfgPath); err != nil {
		log.Logger.Panic("load configuration",
			zap.Error(err),
			zap.String("config", cfgPath))
	}

	log.Logger.Info("load configuration",
		zap.String("config", cfgPath))
}
