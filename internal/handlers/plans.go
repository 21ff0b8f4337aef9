package handlers

import (
	"net/http"

	"tradejournal/internal/models"
	"tradejournal/internal/services"

	"github.com/go-chi/chi/v5"
)

type planRequest struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	RiskManagement models.Document `json:"risk_management"`
	EntryRules     models.Document `json:"entry_rules"`
	ExitRules      models.Document `json:"exit_rules"`
	Timeframes     models.Document `json:"timeframes"`
	PositionSizing models.Document `json:"position_sizing"`
	Markets        models.Document `json:"markets"`
	Notes          *string         `json:"notes"`
	IsActive       *bool           `json:"is_active"`
	PlanImages     any             `json:"plan_images"`
}

type planUpdateRequest struct {
	Name           *string          `json:"name"`
	Type           *string          `json:"type"`
	RiskManagement *models.Document `json:"risk_management"`
	EntryRules     *models.Document `json:"entry_rules"`
	ExitRules      *models.Document `json:"exit_rules"`
	Timeframes     *models.Document `json:"timeframes"`
	PositionSizing *models.Document `json:"position_sizing"`
	Markets        *models.Document `json:"markets"`
	Notes          *string          `json:"notes"`
	Version        *int             `json:"version"`
	IsActive       *bool            `json:"is_active"`
	PlanImages     any              `json:"plan_images"`
}

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	plans, err := h.plans.List(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapAll(plans, newPlanResponse))
}

func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req planRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	plan, err := h.plans.Create(r.Context(), userID, services.PlanInput{
		Name:           req.Name,
		Type:           req.Type,
		RiskManagement: req.RiskManagement,
		EntryRules:     req.EntryRules,
		ExitRules:      req.ExitRules,
		Timeframes:     req.Timeframes,
		PositionSizing: req.PositionSizing,
		Markets:        req.Markets,
		Notes:          req.Notes,
		IsActive:       req.IsActive,
		PlanImages:     req.PlanImages,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newPlanResponse(plan))
}

func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	plan, err := h.plans.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPlanResponse(plan))
}

func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req planUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	plan, err := h.plans.Update(r.Context(), userID, chi.URLParam(r, "id"), services.PlanUpdate{
		Name:           req.Name,
		Type:           req.Type,
		RiskManagement: req.RiskManagement,
		EntryRules:     req.EntryRules,
		ExitRules:      req.ExitRules,
		Timeframes:     req.Timeframes,
		PositionSizing: req.PositionSizing,
		Markets:        req.Markets,
		Notes:          req.Notes,
		Version:        req.Version,
		IsActive:       req.IsActive,
		PlanImages:     req.PlanImages,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPlanResponse(plan))
}

func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.plans.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListPlanTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	trades, err := h.trades.ListByPlan(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapAll(trades, newTradeResponse))
}

func (h *Handler) ListPlanJournals(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	journals, err := h.journals.ListByPlan(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapAll(journals, newJournalResponse))
}

func (h *Handler) ListPlanPerformances(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	performances, err := h.performances.ListByPlan(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapAll(performances, newPerformanceResponse))
}
