// Package service contains the business logic layer.
//
// This file implements the KY service: triage of freeform hazard text,
// generation of a KY draft through the AI collaborator, and review of
// AI text against what the crew wrote by hand.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/DukeRupert/kyrisk/internal/ai"
	"github.com/DukeRupert/kyrisk/internal/domain"
	"github.com/DukeRupert/kyrisk/internal/metrics"
	"github.com/DukeRupert/kyrisk/internal/risk"
	"github.com/DukeRupert/kyrisk/internal/ruleset"
	"github.com/DukeRupert/kyrisk/internal/triage"
)

// =============================================================================
// Interface Definition
// =============================================================================

// KYService defines the KY text operations.
type KYService interface {
	// Triage ranks one block of candidate text against a baseline.
	// Returns domain.EINVALID for a negative limit or a threshold outside (0,1].
	// Returns domain.ETOOLARGE when the text exceeds domain.MaxTextBytes.
	Triage(ctx context.Context, params domain.TriageParams) (*domain.TriageResult, error)

	// Generate asks the AI collaborator for a draft and triages it with
	// template backfill.
	// Returns domain.EINVALID without a work description.
	// Returns domain.ERATELIMIT / domain.EUNAVAILABLE when the collaborator fails.
	Generate(ctx context.Context, params domain.KYGenerateParams) (*domain.KYGenerateResult, error)

	// Review triages AI text against human text without backfill and reports
	// the day's weather and photo factors.
	Review(ctx context.Context, params domain.ReviewParams) (*domain.ReviewResult, error)
}

// =============================================================================
// Implementation
// =============================================================================

type kyService struct {
	rules     *ruleset.Store
	generator ai.Generator
	logger    *slog.Logger
}

// NewKYService creates a new KYService.
func NewKYService(rules *ruleset.Store, generator ai.Generator, logger *slog.Logger) KYService {
	return &kyService{
		rules:     rules,
		generator: generator,
		logger:    logger,
	}
}

// =============================================================================
// Triage
// =============================================================================

// Triage ranks rawText against baselineText.
func (s *kyService) Triage(ctx context.Context, params domain.TriageParams) (*domain.TriageResult, error) {
	const op = "ky.triage"

	if err := checkTextSize(op, params.RawText, params.BaselineText); err != nil {
		return nil, err
	}
	snap := s.rules.Current()
	limit, threshold, err := resolveLimits(op, params.Limit, params.Threshold, snap.Ruleset.Triage)
	if err != nil {
		return nil, err
	}

	lines, stats := triage.TriageWithStats(params.RawText, params.BaselineText, limit, threshold, params.AlignmentKeywords, snap.Ruleset.Triage)
	metrics.RecordTriage(stats.Input, stats.Duplicate, stats.Baseline, stats.Selected)

	s.logger.Debug("text triaged",
		"ruleset_hash", snap.Hash,
		"input", stats.Input,
		"selected", stats.Selected,
	)

	return &domain.TriageResult{RulesetHash: snap.Hash, Lines: lines}, nil
}

// =============================================================================
// Generate
// =============================================================================

// Generate drafts and triages a KY sheet.
func (s *kyService) Generate(ctx context.Context, params domain.KYGenerateParams) (*domain.KYGenerateResult, error) {
	const op = "ky.generate"

	if strings.TrimSpace(params.WorkDescription) == "" {
		return nil, domain.Invalid(op, "work description is required")
	}
	if err := checkTextSize(op, params.WorkDescription, params.SiteNotes,
		params.Baseline.Hazards, params.Baseline.Countermeasures, params.Baseline.ThirdParty); err != nil {
		return nil, err
	}

	snap := s.rules.Current()
	cfg := snap.Ruleset.Triage
	limit, threshold, err := resolveLimits(op, params.Limit, params.Threshold, cfg)
	if err != nil {
		return nil, err
	}

	requestID := uuid.New()
	suggestion, err := s.generator.Suggest(ctx, ai.SuggestParams{
		WorkDescription: params.WorkDescription,
		SiteNotes:       params.SiteNotes,
		ThirdParty:      params.ThirdParty,
		Weather:         params.Weather,
		RequestID:       requestID,
	})
	if err != nil {
		s.logger.Error("ai suggestion failed", "request_id", requestID, "error", err)
		return nil, mapAIError(err, op)
	}

	result, stats := triage.Generate(domain.GenerateParams{
		WorkDescription: params.WorkDescription,
		Suggested: domain.KYText{
			Hazards:         suggestion.Hazards,
			Countermeasures: suggestion.Countermeasures,
			ThirdParty:      suggestion.ThirdParty,
		},
		Baseline:  params.Baseline,
		Limit:     limit,
		Threshold: threshold,
	}, cfg)
	metrics.RecordTriage(stats.Input, stats.Duplicate, stats.Baseline, stats.Selected)
	metrics.RecordBackfill(stats.Template, stats.Generic)

	s.logger.Info("ky draft generated",
		"request_id", requestID,
		"ruleset_hash", snap.Hash,
		"hazards", len(result.Hazards),
		"countermeasures", len(result.Countermeasures),
		"template", stats.Template,
		"generic", stats.Generic,
	)

	return &domain.KYGenerateResult{
		RequestID:      requestID,
		RulesetHash:    snap.Hash,
		GenerateResult: result,
	}, nil
}

// =============================================================================
// Review
// =============================================================================

// Review keeps the AI lines that add something to the human text.
func (s *kyService) Review(ctx context.Context, params domain.ReviewParams) (*domain.ReviewResult, error) {
	const op = "ky.review"

	if err := checkTextSize(op,
		params.Human.Hazards, params.Human.Countermeasures, params.Human.ThirdParty,
		params.AI.Hazards, params.AI.Countermeasures, params.AI.ThirdParty); err != nil {
		return nil, err
	}

	snap := s.rules.Current()
	cfg := snap.Ruleset.Triage
	coeff := snap.Ruleset.Risk.Coefficients
	limit, threshold, err := resolveLimits(op, params.Limit, params.Threshold, cfg)
	if err != nil {
		return nil, err
	}

	var stats triage.Stats
	hazards, hs := triage.TriageWithStats(params.AI.Hazards, params.Human.Hazards, limit, threshold, nil, cfg)
	stats.Add(hs)

	texts := make([]string, len(hazards))
	for i, h := range hazards {
		texts[i] = h.Text
	}
	keywords := cfg.Keywords.ExtractKeywords(texts)

	measures, ms := triage.TriageWithStats(params.AI.Countermeasures, params.Human.Countermeasures, limit, threshold, keywords, cfg)
	stats.Add(ms)
	third, ts := triage.TriageWithStats(params.AI.ThirdParty, params.Human.ThirdParty, limit, threshold, nil, cfg)
	stats.Add(ts)

	metrics.RecordTriage(stats.Input, stats.Duplicate, stats.Baseline, stats.Selected)

	return &domain.ReviewResult{
		RulesetHash:     snap.Hash,
		Hazards:         hazards,
		Countermeasures: measures,
		ThirdParty:      third,
		WeatherFactor:   risk.WeatherFactor(params.Weather, coeff.Weather),
		PhotoFactor:     risk.PhotoFactor(params.PhotoScore, coeff.Photo),
	}, nil
}

// =============================================================================
// Helpers
// =============================================================================

// resolveLimits applies ruleset defaults to an omitted limit or threshold
// and rejects values the engine would otherwise silently replace.
func resolveLimits(op string, limit *int, threshold *float64, cfg triage.Config) (int, float64, error) {
	l := cfg.Limit
	if limit != nil {
		if *limit < 0 {
			return 0, 0, domain.Invalid(op, "limit must not be negative")
		}
		l = *limit
	}

	t := cfg.Threshold
	if threshold != nil {
		v := *threshold
		if math.IsNaN(v) || v <= 0 || v > 1 {
			return 0, 0, domain.Invalid(op, fmt.Sprintf("threshold must be in (0,1], got %v", v))
		}
		t = v
	}
	return l, t, nil
}

func checkTextSize(op string, texts ...string) error {
	total := 0
	for _, t := range texts {
		total += len(t)
	}
	if total > domain.MaxTextBytes {
		return domain.TooLarge(op, fmt.Sprintf("text exceeds %d bytes", domain.MaxTextBytes))
	}
	return nil
}

// mapAIError converts AI collaborator errors to application errors.
func mapAIError(err error, op string) error {
	switch {
	case errors.Is(err, ai.EAIRateLimit):
		return &domain.Error{Code: domain.ERATELIMIT, Op: op, Message: "The AI service is busy. Please try again later.", Err: err}
	case errors.Is(err, ai.EAIInvalidRequest):
		return &domain.Error{Code: domain.EINVALID, Op: op, Message: "The AI service rejected the request.", Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.Unavailable(err, op, "The request was cancelled before the AI service answered.")
	default:
		return domain.Unavailable(err, op, "The AI service is unavailable. Please try again later.")
	}
}
