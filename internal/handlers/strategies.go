package handlers

import (
	"net/http"

	"tradejournal/internal/models"
	"tradejournal/internal/services"

	"github.com/go-chi/chi/v5"
)

type strategyRequest struct {
	Name               string          `json:"name"`
	Description        *string         `json:"description"`
	Parameters         models.Document `json:"parameters"`
	PerformanceMetrics models.Document `json:"performance_metrics"`
	StrategyImageURL   *string         `json:"strategy_image_url"`
	ExampleImages      any             `json:"example_images"`
}

type strategyUpdateRequest struct {
	Name               *string          `json:"name"`
	Description        *string          `json:"description"`
	Parameters         *models.Document `json:"parameters"`
	PerformanceMetrics *models.Document `json:"performance_metrics"`
	StrategyImageURL   optional[string] `json:"strategy_image_url"`
	ExampleImages      any              `json:"example_images"`
}

func (h *Handler) ListStrategies(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 100)
	strategies, err := h.strategies.List(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapAll(strategies, newStrategyResponse))
}

func (h *Handler) CreateStrategy(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req strategyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	strategy, err := h.strategies.Create(r.Context(), userID, services.StrategyInput{
		Name:               req.Name,
		Description:        req.Description,
		Parameters:         req.Parameters,
		PerformanceMetrics: req.PerformanceMetrics,
		StrategyImageURL:   req.StrategyImageURL,
		ExampleImages:      req.ExampleImages,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newStrategyResponse(strategy))
}

func (h *Handler) GetStrategy(w http.ResponseWriter, r *http.Request) {
	strategy, err := h.strategies.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newStrategyResponse(strategy))
}

func (h *Handler) UpdateStrategy(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req strategyUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	strategy, err := h.strategies.Update(r.Context(), userID, chi.URLParam(r, "id"), services.StrategyUpdate{
		Name:               req.Name,
		Description:        req.Description,
		Parameters:         req.Parameters,
		PerformanceMetrics: req.PerformanceMetrics,
		StrategyImageURL:   req.StrategyImageURL.Value,
		ClearImage:         req.StrategyImageURL.cleared(),
		ExampleImages:      req.ExampleImages,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newStrategyResponse(strategy))
}

func (h *Handler) DeleteStrategy(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.strategies.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListStrategyTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	trades, err := h.strategies.Trades(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapAll(trades, newTradeResponse))
}

func (h *Handler) ListStrategyPerformances(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	performances, err := h.strategies.Performances(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapAll(performances, newPerformanceResponse))
}
