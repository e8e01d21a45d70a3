package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/DukeRupert/kyrisk/internal/ruleset"
)

// RulesetHandler reports which ruleset version is serving requests.
type RulesetHandler struct {
	store  *ruleset.Store
	logger *slog.Logger
}

// NewRulesetHandler creates a new RulesetHandler.
func NewRulesetHandler(store *ruleset.Store, logger *slog.Logger) *RulesetHandler {
	return &RulesetHandler{store: store, logger: logger}
}

// RegisterRoutes registers the ruleset routes on mux.
func (h *RulesetHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/ruleset", h.Get)
}

type rulesetResponse struct {
	Version  string    `json:"version"`
	Hash     string    `json:"hash"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Get returns the active ruleset version and hash.
func (h *RulesetHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Current()
	writeJSON(w, http.StatusOK, rulesetResponse{
		Version:  snap.Ruleset.Version,
		Hash:     snap.Hash,
		LoadedAt: snap.LoadedAt.UTC(),
	})
}
