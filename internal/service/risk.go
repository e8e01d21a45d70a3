// Package service contains the business logic layer.
//
// This file implements the risk service: it takes one ruleset snapshot per
// call, resolves a stored photo to a condition score when asked, and runs
// the numeric risk engine over a batch of hazard candidates.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/DukeRupert/kyrisk/internal/domain"
	"github.com/DukeRupert/kyrisk/internal/metrics"
	"github.com/DukeRupert/kyrisk/internal/photo"
	"github.com/DukeRupert/kyrisk/internal/risk"
	"github.com/DukeRupert/kyrisk/internal/ruleset"
)

// =============================================================================
// Interface Definition
// =============================================================================

// RiskService scores hazard candidates against a site context.
type RiskService interface {
	// Score returns every candidate with its risk breakdown, highest
	// final risk first.
	// Returns domain.ETOOLARGE for more than domain.MaxCandidates candidates.
	// Returns domain.EINVALID / domain.ENOTFOUND for an unusable photo key.
	Score(ctx context.Context, params domain.ScoreParams) (*domain.ScoreResult, error)
}

// PhotoScorer turns a stored photo into a condition score in [0,1].
type PhotoScorer interface {
	Score(ctx context.Context, key string) (float64, error)
}

// =============================================================================
// Implementation
// =============================================================================

type riskService struct {
	rules  *ruleset.Store
	photos PhotoScorer // nil when photo scoring is disabled
	logger *slog.Logger
}

// NewRiskService creates a new RiskService. photos may be nil.
func NewRiskService(rules *ruleset.Store, photos PhotoScorer, logger *slog.Logger) RiskService {
	return &riskService{
		rules:  rules,
		photos: photos,
		logger: logger,
	}
}

// Score runs the risk engine.
func (s *riskService) Score(ctx context.Context, params domain.ScoreParams) (*domain.ScoreResult, error) {
	const op = "risk.score"

	if len(params.Candidates) > domain.MaxCandidates {
		return nil, domain.TooLarge(op, fmt.Sprintf("at most %d candidates are allowed", domain.MaxCandidates))
	}

	snap := s.rules.Current()
	model := snap.Ruleset.Risk
	rc := params.Context

	if rc.PhotoScore == nil && params.PhotoKey != "" {
		score, err := s.scorePhoto(ctx, params.PhotoKey)
		if err != nil {
			return nil, err
		}
		rc.PhotoScore = &score
	}

	requestID := uuid.New()
	results := risk.Score(params.Candidates, rc, model)
	trade := model.Trades.Classify(rc.WorkDescription)

	finals := make([]float64, len(results))
	for i, r := range results {
		finals[i] = r.FinalRisk
	}
	metrics.RecordScore(trade.String(), finals)

	s.logger.Info("hazards scored",
		"request_id", requestID,
		"ruleset_hash", snap.Hash,
		"trade", trade,
		"count", len(results),
	)

	return &domain.ScoreResult{
		RequestID:   requestID,
		RulesetHash: snap.Hash,
		Trade:       trade,
		Results:     results,
	}, nil
}

// scorePhoto resolves a photo key through the configured scorer.
func (s *riskService) scorePhoto(ctx context.Context, key string) (float64, error) {
	const op = "risk.score_photo"

	if s.photos == nil {
		return 0, domain.Invalid(op, "photo scoring is not configured; send photo_score instead")
	}

	score, err := s.photos.Score(ctx, key)
	switch {
	case err == nil:
		return score, nil
	case photo.IsNotFound(err):
		return 0, domain.NotFound(op, "photo", key)
	case photo.IsInvalid(err):
		return 0, &domain.Error{Code: domain.EINVALID, Op: op, Message: "photo cannot be scored", Err: err}
	default:
		return 0, domain.Unavailable(err, op, "photo storage is unavailable")
	}
}
