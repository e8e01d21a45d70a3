package anthropic

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/kyrisk/internal/ai"
	"github.com/DukeRupert/kyrisk/internal/domain"
)

func newTestProvider(t *testing.T, url string) *Provider {
	t.Helper()
	p, err := New(Config{
		APIKey:  "test-key",
		BaseURL: url,
		ProviderConfig: ai.ProviderConfig{
			MaxRetries:     3,
			RetryBaseDelay: time.Millisecond,
			RequestTimeout: 5 * time.Second,
		},
	}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return p
}

func textResponse(text string) string {
	b, _ := json.Marshal(apiResponse{
		Type:    "message",
		Content: []apiContentOutput{{Type: "text", Text: text}},
		Usage:   apiUsage{InputTokens: 1_000_000, OutputTokens: 100_000},
	})
	return string(b)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{}, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}

func TestSuggest_Success(t *testing.T) {
	var got apiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, APIVersion, r.Header.Get("anthropic-version"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		io.WriteString(w, textResponse("```json\n{\"hazards\":[\"法面からの墜落\",\" \"],\"countermeasures\":[\"親綱を設置する\"],\"third_party\":[]}\n```"))
	}))
	defer srv.Close()

	temp := 31.0
	res, err := newTestProvider(t, srv.URL).Suggest(context.Background(), ai.SuggestParams{
		WorkDescription: "法面のモルタル吹付",
		Weather:         &domain.WeatherObservation{TemperatureC: &temp},
	})
	require.NoError(t, err)

	assert.Equal(t, "- 法面からの墜落", res.Hazards)
	assert.Equal(t, "- 親綱を設置する", res.Countermeasures)
	assert.Equal(t, "", res.ThirdParty)
	assert.Equal(t, DefaultModel, res.Usage.Model)
	assert.Equal(t, 300+150, res.Usage.CostCents)

	require.Len(t, got.Messages, 1)
	prompt := got.Messages[0].Content[0].Text
	assert.Contains(t, prompt, "法面のモルタル吹付")
	assert.Contains(t, prompt, "Temperature: 31.0")
}

func TestSuggest_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.NotEmpty(t, body, "body resent on retry")
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, textResponse(`{"hazards":["a hazard line"]}`))
	}))
	defer srv.Close()

	res, err := newTestProvider(t, srv.URL).Suggest(context.Background(), ai.SuggestParams{WorkDescription: "scaffold"})
	require.NoError(t, err)
	assert.Equal(t, "- a hazard line", res.Hazards)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSuggest_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
		calls  int32
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, want: ai.EAIUnauthorized, calls: 1},
		{name: "rate limited exhausts retries", status: http.StatusTooManyRequests, want: ai.EAIRateLimit, calls: 3},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":{"message":"nope"}}`, want: ai.EAIInvalidRequest, calls: 1},
		{name: "overloaded", status: 529, want: ai.EAIUnavailable, calls: 3},
		{name: "unparseable output", status: http.StatusOK, body: textResponse("I cannot help with that."), want: ai.EAIInvalidResponse, calls: 1},
		{name: "empty output", status: http.StatusOK, body: textResponse(""), want: ai.EAIInvalidResponse, calls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestProvider(t, srv.URL).Suggest(context.Background(), ai.SuggestParams{WorkDescription: "road work"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.calls, calls.Load())
		})
	}
}

func TestSuggest_RequiresWorkDescription(t *testing.T) {
	p := newTestProvider(t, "http://127.0.0.1:0")
	_, err := p.Suggest(context.Background(), ai.SuggestParams{WorkDescription: "  "})
	assert.ErrorIs(t, err, ai.EAIInvalidRequest)
}

func TestBuildSuggestPrompt(t *testing.T) {
	prompt := buildSuggestPrompt(ai.SuggestParams{
		WorkDescription: "Excavation for drainage pipe",
		SiteNotes:       "school next door",
		ThirdParty:      "many",
	})

	assert.Contains(t, prompt, "Excavation for drainage pipe")
	assert.Contains(t, prompt, "school next door")
	assert.Contains(t, prompt, "Third-Party Traffic Near Site:** many")
	assert.NotContains(t, prompt, "Weather Today")
	assert.True(t, strings.HasSuffix(prompt, "no additional text or explanation."))
}
