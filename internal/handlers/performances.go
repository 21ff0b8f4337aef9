package handlers

import (
	"net/http"

	"tradejournal/internal/models"
	"tradejournal/internal/services"

	"github.com/go-chi/chi/v5"
)

type performanceRequest struct {
	StrategyID    string          `json:"strategy_id"`
	TradingPlanID string          `json:"trading_plan_id"`
	Metrics       models.Document `json:"metrics"`
	Timeframe     string          `json:"timeframe"`
	Period        string          `json:"period"`
}

type performanceUpdateRequest struct {
	StrategyID    *string          `json:"strategy_id"`
	TradingPlanID *string          `json:"trading_plan_id"`
	Metrics       *models.Document `json:"metrics"`
	Timeframe     *string          `json:"timeframe"`
	Period        *string          `json:"period"`
}

func (h *Handler) CreatePerformance(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req performanceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	performance, err := h.performances.Create(r.Context(), userID, services.PerformanceInput(req))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newPerformanceResponse(performance))
}

func (h *Handler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	performance, err := h.performances.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPerformanceResponse(performance))
}

func (h *Handler) UpdatePerformance(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req performanceUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	performance, err := h.performances.Update(r.Context(), userID, chi.URLParam(r, "id"), services.PerformanceUpdate(req))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPerformanceResponse(performance))
}

func (h *Handler) DeletePerformance(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.performances.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
