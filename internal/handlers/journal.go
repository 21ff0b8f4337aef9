package handlers

import (
	"net/http"

	"tradejournal/internal/models"
	"tradejournal/internal/services"
	"tradejournal/internal/validator"

	"github.com/go-chi/chi/v5"
)

type journalRequest struct {
	TradeID          string          `json:"trade_id"`
	TradingPlanID    string          `json:"trading_plan_id"`
	Notes            *string         `json:"notes"`
	Emotions         *string         `json:"emotions"`
	MarketConditions models.Document `json:"market_conditions"`
	PlanAdherence    models.Document `json:"plan_adherence"`
	Images           any             `json:"images"`
}

type journalUpdateRequest struct {
	TradingPlanID    *string          `json:"trading_plan_id"`
	Notes            *string          `json:"notes"`
	Emotions         *string          `json:"emotions"`
	MarketConditions *models.Document `json:"market_conditions"`
	PlanAdherence    *models.Document `json:"plan_adherence"`
	Images           any              `json:"images"`
}

func (h *Handler) CreateJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req journalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	if req.TradeID == "" {
		respondServiceError(w, r, validator.Required("trade_id"))
		return
	}
	journal, err := h.journals.Create(r.Context(), userID, services.JournalInput{
		TradeID:          req.TradeID,
		TradingPlanID:    req.TradingPlanID,
		Notes:            req.Notes,
		Emotions:         req.Emotions,
		MarketConditions: req.MarketConditions,
		PlanAdherence:    req.PlanAdherence,
		Images:           req.Images,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newJournalResponse(journal))
}

func (h *Handler) GetJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	journal, err := h.journals.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newJournalResponse(journal))
}

func (h *Handler) UpdateJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req journalUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	journal, err := h.journals.Update(r.Context(), userID, chi.URLParam(r, "id"), services.JournalUpdate{
		TradingPlanID:    req.TradingPlanID,
		Notes:            req.Notes,
		Emotions:         req.Emotions,
		MarketConditions: req.MarketConditions,
		PlanAdherence:    req.PlanAdherence,
		Images:           req.Images,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newJournalResponse(journal))
}

func (h *Handler) DeleteJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.journals.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
