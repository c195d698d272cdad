package main

import (
	"github.com/Laisky/zap"

	"github.com/Laisky/ai-search/cmd"
	"github.com/Laisky/ai-search/library/log"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Logger.Panic("command exit", zap.Error(err))
	}
}
