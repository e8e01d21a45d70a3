package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/kyrisk/internal/domain"
	"github.com/DukeRupert/kyrisk/internal/service"
)

// KYHandler serves the KY text endpoints: triage, generate and review.
type KYHandler struct {
	kyService service.KYService
	logger    *slog.Logger
}

// NewKYHandler creates a new KYHandler.
func NewKYHandler(kyService service.KYService, logger *slog.Logger) *KYHandler {
	return &KYHandler{
		kyService: kyService,
		logger:    logger,
	}
}

// RegisterRoutes registers the KY routes on mux. limit wraps the
// AI-backed generate route.
func (h *KYHandler) RegisterRoutes(mux *http.ServeMux, limit func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /api/ky/triage", h.Triage)
	mux.Handle("POST /api/ky/generate", limit(http.HandlerFunc(h.Generate)))
	mux.HandleFunc("POST /api/ky/review", h.Review)
}

// =============================================================================
// Request Types
// =============================================================================

type kyTextRequest struct {
	Hazards         string `json:"hazards"`
	Countermeasures string `json:"countermeasures"`
	ThirdParty      string `json:"third_party"`
}

func (t kyTextRequest) toDomain() domain.KYText {
	return domain.KYText{
		Hazards:         t.Hazards,
		Countermeasures: t.Countermeasures,
		ThirdParty:      t.ThirdParty,
	}
}

type triageRequest struct {
	RawText           string   `json:"raw_text"`
	BaselineText      string   `json:"baseline_text"`
	Limit             Count    `json:"limit"`
	Threshold         Number   `json:"threshold"`
	AlignmentKeywords []string `json:"alignment_keywords"`
}

type generateRequest struct {
	WorkDescription string          `json:"work_description"`
	SiteNotes       string          `json:"site_notes"`
	ThirdParty      string          `json:"third_party"`
	Weather         *weatherRequest `json:"weather"`
	Baseline        kyTextRequest   `json:"baseline"`
	Limit           Count           `json:"limit"`
	Threshold       Number          `json:"threshold"`
}

type photoRequest struct {
	Score Number `json:"score"`
}

type reviewRequest struct {
	Human     kyTextRequest   `json:"human"`
	AI        kyTextRequest   `json:"ai"`
	Weather   *weatherRequest `json:"weather"`
	Photo     *photoRequest   `json:"photo"`
	Limit     Count           `json:"limit"`
	Threshold Number          `json:"threshold"`
}

// =============================================================================
// POST /api/ky/triage
// =============================================================================

// Triage ranks one block of candidate text against a baseline.
func (h *KYHandler) Triage(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ky_triage"

	var req triageRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	result, err := h.kyService.Triage(r.Context(), domain.TriageParams{
		RawText:           req.RawText,
		BaselineText:      req.BaselineText,
		Limit:             req.Limit.Ptr(),
		Threshold:         req.Threshold.Ptr(),
		AlignmentKeywords: req.AlignmentKeywords,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// POST /api/ky/generate
// =============================================================================

// Generate drafts a KY sheet with the AI collaborator and triages it.
func (h *KYHandler) Generate(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ky_generate"

	var req generateRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	result, err := h.kyService.Generate(r.Context(), domain.KYGenerateParams{
		WorkDescription: req.WorkDescription,
		SiteNotes:       req.SiteNotes,
		ThirdParty:      req.ThirdParty,
		Weather:         req.Weather.toDomain(),
		Baseline:        req.Baseline.toDomain(),
		Limit:           req.Limit.Ptr(),
		Threshold:       req.Threshold.Ptr(),
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// POST /api/ky/review
// =============================================================================

// Review triages AI text against human text and reports the day's
// weather and photo factors.
func (h *KYHandler) Review(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ky_review"

	var req reviewRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var photoScore *float64
	if req.Photo != nil {
		photoScore = req.Photo.Score.Ptr()
	}

	result, err := h.kyService.Review(r.Context(), domain.ReviewParams{
		Human:      req.Human.toDomain(),
		AI:         req.AI.toDomain(),
		Weather:    req.Weather.toDomain(),
		PhotoScore: photoScore,
		Limit:      req.Limit.Ptr(),
		Threshold:  req.Threshold.Ptr(),
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
