package service

import (
	"context"
	"strings"

	"github.com/Laisky/zap"

	"github.com/Laisky/ai-search/internal/search/model"
)

// analyzeQuery runs the intent classifier with its stage deadline and
// validates the output. The classifier never fails the request: any
// timeout, transport error, or unparseable body degrades to
// {general, raw query}.
func (s *Service) analyzeQuery(ctx context.Context, query string) model.ExpandedQuery {
	ctx, cancel := context.WithTimeout(ctx, classifierDeadline)
	defer cancel()

	cls, err := s.classifier.AnalyzeQuery(ctx, query)
	if err != nil {
		s.logger.Warn("classifier_degraded",
			zap.Error(err),
			zap.String("query", truncateForLog(query)))
		return model.ExpandedQuery{
			Intent:    model.IntentGeneral,
			Text:      query,
			Rewritten: query,
		}
	}

	expanded := model.ExpandedQuery{
		Intent:    model.ParseIntent(cls.Intent),
		Text:      strings.TrimSpace(cls.ExpandedQuery),
		Rewritten: strings.TrimSpace(cls.RewrittenQuery),
	}
	if expanded.Text == "" {
		expanded.Text = query
	}
	if expanded.Rewritten == "" {
		expanded.Rewritten = query
	}

	s.logger.Debug("query analyzed",
		zap.String("intent", string(expanded.Intent)),
		zap.String("expanded", truncateForLog(expanded.Text)))
	return expanded
}

func truncateForLog(s string) string {
	if len(s) <= 80 {
		return s
	}

	return s[:80]
}
