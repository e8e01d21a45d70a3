package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DukeRupert/kyrisk/internal/domain"
)

// Generator produces raw candidate KY text for a day's work. Its output is
// untrusted freeform text; all structure is recovered by the triage engine.
type Generator interface {
	// Suggest drafts hazards, countermeasures and third-party measures
	Suggest(ctx context.Context, params SuggestParams) (*Suggestion, error)
}

// SuggestParams contains what the generator knows about the work
type SuggestParams struct {
	WorkDescription string                     // What the crew is doing today
	SiteNotes       string                     // Optional free notes from the foreman
	ThirdParty      string                     // Raw third-party exposure text
	Weather         *domain.WeatherObservation // Optional weather snapshot
	RequestID       uuid.UUID                  // Request ID for tracking
}

// Suggestion is the generator's raw output. Each field is a text blob with
// one item per line.
type Suggestion struct {
	Hazards         string
	Countermeasures string
	ThirdParty      string
	Usage           UsageInfo // Token usage and cost information
}

// UsageInfo tracks API usage for monitoring
type UsageInfo struct {
	Model        string        // AI model used
	InputTokens  int           // Tokens in the request
	OutputTokens int           // Tokens in the response
	CostCents    int           // Estimated cost in cents
	Duration     time.Duration // Request duration
}

// ProviderConfig contains common configuration for AI providers
type ProviderConfig struct {
	MaxRetries     int           // Maximum retry attempts for transient errors
	RetryBaseDelay time.Duration // Base delay for exponential backoff
	RequestTimeout time.Duration // Timeout for individual requests
}

// Error codes for AI provider operations
var (
	// EAIRateLimit indicates the API rate limit has been exceeded
	EAIRateLimit = errors.New("ai provider rate limit exceeded")

	// EAIInvalidRequest indicates the provider rejected the request
	EAIInvalidRequest = errors.New("ai provider rejected the request")

	// EAIInvalidResponse indicates the model output could not be parsed
	EAIInvalidResponse = errors.New("ai response could not be parsed")

	// EAITimeout indicates the request timed out
	EAITimeout = errors.New("ai request timed out")

	// EAIUnavailable indicates the AI service is temporarily unavailable
	EAIUnavailable = errors.New("ai service temporarily unavailable")

	// EAIUnauthorized indicates invalid API credentials
	EAIUnauthorized = errors.New("ai provider authentication failed")
)

// IsRetryable returns true if the error is a transient error that can be retried
func IsRetryable(err error) bool {
	return errors.Is(err, EAIRateLimit) ||
		errors.Is(err, EAITimeout) ||
		errors.Is(err, EAIUnavailable)
}

// WrapError wraps an error with context about the AI operation
func WrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("ai %s: %w", operation, err)
}

// JoinLines renders items as a "- " bulleted text blob, skipping blanks.
func JoinLines(items []string) string {
	var b strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}
