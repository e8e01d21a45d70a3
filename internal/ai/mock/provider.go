package mock

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/DukeRupert/kyrisk/internal/ai"
)

// Provider is a mock AI provider for testing and development
type Provider struct {
	logger *slog.Logger

	mu sync.Mutex

	// Configurable responses for testing
	SuggestResponse *ai.Suggestion
	SuggestError    error

	// Call tracking for testing
	SuggestCalls int
	LastParams   ai.SuggestParams
}

// New creates a new mock AI provider
func New(logger *slog.Logger) *Provider {
	return &Provider{
		logger: logger,
	}
}

// Suggest returns a canned KY draft. The draft deliberately contains list
// markers, a repeated line and a boilerplate line so the triage path has
// real work to do in development.
func (p *Provider) Suggest(ctx context.Context, params ai.SuggestParams) (*ai.Suggestion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.SuggestCalls++
	p.LastParams = params

	// If a custom response or error is set, use it
	if p.SuggestError != nil {
		return nil, p.SuggestError
	}
	if p.SuggestResponse != nil {
		s := *p.SuggestResponse
		return &s, nil
	}

	p.logger.Debug("mock AI suggestion", "request_id", params.RequestID, "work", params.WorkDescription)

	hazards := []string{
		"重機の旋回範囲内に作業員が立ち入り接触する",
		"法肩からの墜落",
		"吊り荷の落下による飛来災害",
		"重機の旋回範囲内に作業員が立ち入り接触する",
		"足元に注意する",
	}
	if strings.Contains(strings.ToLower(params.WorkDescription), "heat") || hot(params) {
		hazards = append(hazards, "炎天下での作業による熱中症")
	}

	return &ai.Suggestion{
		Hazards: ai.JoinLines(hazards),
		Countermeasures: ai.JoinLines([]string{
			"重機の旋回範囲をカラーコーンで明示し立入禁止とする",
			"法肩に親綱を設置し墜落制止用器具を使用する",
			"吊り荷の下に立ち入らない",
			"安全に作業する",
			"こまめな水分・塩分補給で熱中症を予防する",
		}),
		ThirdParty: ai.JoinLines([]string{
			"交通誘導員を配置し歩行者を迂回路へ誘導する",
			"作業帯の外周にバリケードを設置する",
		}),
		Usage: ai.UsageInfo{
			Model:        "mock-ai-v1",
			InputTokens:  420,
			OutputTokens: 310,
			CostCents:    0,
			Duration:     50 * time.Millisecond,
		},
	}, nil
}

func hot(params ai.SuggestParams) bool {
	return params.Weather != nil && params.Weather.TemperatureC != nil && *params.Weather.TemperatureC >= 28
}

// Reset clears call counters and custom responses for testing
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.SuggestCalls = 0
	p.LastParams = ai.SuggestParams{}
	p.SuggestResponse = nil
	p.SuggestError = nil
}
