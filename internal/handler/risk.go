package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/kyrisk/internal/domain"
	"github.com/DukeRupert/kyrisk/internal/service"
)

// RiskHandler serves the hazard scoring endpoint.
type RiskHandler struct {
	riskService service.RiskService
	logger      *slog.Logger
}

// NewRiskHandler creates a new RiskHandler.
func NewRiskHandler(riskService service.RiskService, logger *slog.Logger) *RiskHandler {
	return &RiskHandler{
		riskService: riskService,
		logger:      logger,
	}
}

// RegisterRoutes registers the scoring routes on mux.
func (h *RiskHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/risk/score", h.Score)
}

// =============================================================================
// Request Types
// =============================================================================

type candidateRequest struct {
	Hazard         string `json:"hazard"`
	Countermeasure string `json:"countermeasure"`
	Likelihood     Count  `json:"likelihood"`
	Severity       Count  `json:"severity"`
	Category       string `json:"category"`
}

type weatherRequest struct {
	PrecipitationMM Number `json:"precipitation_mm"`
	WindSpeedMS     Number `json:"wind_speed_ms"`
	TemperatureC    Number `json:"temperature_c"`
}

// toDomain returns nil for an absent weather object.
func (wr *weatherRequest) toDomain() *domain.WeatherObservation {
	if wr == nil {
		return nil
	}
	return &domain.WeatherObservation{
		PrecipitationMM: wr.PrecipitationMM.Ptr(),
		WindSpeedMS:     wr.WindSpeedMS.Ptr(),
		TemperatureC:    wr.TemperatureC.Ptr(),
	}
}

type riskContextRequest struct {
	ThirdParty      string          `json:"third_party"`
	WorkerCount     Count           `json:"worker_count"`
	Weather         *weatherRequest `json:"weather"`
	PhotoScore      Number          `json:"photo_score"`
	PhotoKey        string          `json:"photo_key"`
	WorkDescription string          `json:"work_description"`
}

type scoreRequest struct {
	Candidates []candidateRequest `json:"candidates"`
	Context    riskContextRequest `json:"context"`
}

// =============================================================================
// POST /api/risk/score
// =============================================================================

// Score ranks hazard candidates by final risk.
//
// Request body:
//
//	{"candidates": [{"hazard", "countermeasure", "likelihood", "severity", "category"}],
//	 "context": {"third_party", "worker_count", "weather", "photo_score", "photo_key", "work_description"}}
//
// Numeric fields accept numbers, numeric strings, or null.
func (h *RiskHandler) Score(w http.ResponseWriter, r *http.Request) {
	const op = "handler.risk_score"

	var req scoreRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if len(req.Candidates) > domain.MaxCandidates {
		ErrorResponse(w, r, h.logger, domain.TooLarge(op, "too many candidates"))
		return
	}

	candidates := make([]domain.HazardCandidate, len(req.Candidates))
	for i, c := range req.Candidates {
		candidates[i] = domain.HazardCandidate{
			Hazard:         c.Hazard,
			Countermeasure: c.Countermeasure,
			Likelihood:     c.Likelihood.Value,
			Severity:       c.Severity.Value,
			Category:       domain.Category(c.Category),
		}
	}

	result, err := h.riskService.Score(r.Context(), domain.ScoreParams{
		Candidates: candidates,
		Context: domain.RiskContext{
			ThirdParty:      req.Context.ThirdParty,
			WorkerCount:     req.Context.WorkerCount.Ptr(),
			Weather:         req.Context.Weather.toDomain(),
			PhotoScore:      req.Context.PhotoScore.Ptr(),
			WorkDescription: req.Context.WorkDescription,
		},
		PhotoKey: req.Context.PhotoKey,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
