package handlers

import (
	"net/http"

	"tradejournal/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type tradeRequest struct {
	TradingPlanID string              `json:"trading_plan_id"`
	StrategyID    *string             `json:"strategy_id"`
	Symbol        string              `json:"symbol"`
	EntryPrice    decimal.Decimal     `json:"entry_price"`
	ExitPrice     decimal.NullDecimal `json:"exit_price"`
	EntryTime     string              `json:"entry_time"`
	ExitTime      *string             `json:"exit_time"`
	PositionSize  decimal.Decimal     `json:"position_size"`
	Timeframe     *string             `json:"timeframe"`
	EntryFee      *decimal.Decimal    `json:"entry_fee"`
	ExitFee       *decimal.Decimal    `json:"exit_fee"`
	EntryImageURL *string             `json:"entry_image_url"`
	ExitImageURL  *string             `json:"exit_image_url"`
}

type tradeUpdateRequest struct {
	TradingPlanID *string          `json:"trading_plan_id"`
	StrategyID    optional[string] `json:"strategy_id"`
	Symbol        *string          `json:"symbol"`
	EntryPrice    *decimal.Decimal `json:"entry_price"`
	ExitPrice     *decimal.Decimal `json:"exit_price"`
	EntryTime     *string          `json:"entry_time"`
	ExitTime      *string          `json:"exit_time"`
	PositionSize  *decimal.Decimal `json:"position_size"`
	Timeframe     *string          `json:"timeframe"`
	EntryFee      *decimal.Decimal `json:"entry_fee"`
	ExitFee       *decimal.Decimal `json:"exit_fee"`
	EntryImageURL optional[string] `json:"entry_image_url"`
	ExitImageURL  optional[string] `json:"exit_image_url"`
}

func (req tradeRequest) input() (services.TradeInput, error) {
	entryTime, err := parseTime("entry_time", req.EntryTime)
	if err != nil {
		return services.TradeInput{}, err
	}
	exitTime, err := parseOptionalTime("exit_time", req.ExitTime)
	if err != nil {
		return services.TradeInput{}, err
	}
	return services.TradeInput{
		TradingPlanID: req.TradingPlanID,
		StrategyID:    req.StrategyID,
		EntryPrice:    req.EntryPrice,
		ExitPrice:     req.ExitPrice,
		EntryTime:     entryTime,
		ExitTime:      exitTime,
		Symbol:        req.Symbol,
		PositionSize:  req.PositionSize,
		Timeframe:     req.Timeframe,
		EntryFee:      req.EntryFee,
		ExitFee:       req.ExitFee,
		EntryImageURL: req.EntryImageURL,
		ExitImageURL:  req.ExitImageURL,
	}, nil
}

func (req tradeUpdateRequest) update() (services.TradeUpdate, error) {
	entryTime, err := parseOptionalTime("entry_time", req.EntryTime)
	if err != nil {
		return services.TradeUpdate{}, err
	}
	exitTime, err := parseOptionalTime("exit_time", req.ExitTime)
	if err != nil {
		return services.TradeUpdate{}, err
	}
	return services.TradeUpdate{
		TradingPlanID:   req.TradingPlanID,
		StrategyID:      req.StrategyID.Value,
		ClearStrategy:   req.StrategyID.cleared(),
		EntryPrice:      req.EntryPrice,
		ExitPrice:       req.ExitPrice,
		EntryTime:       entryTime,
		ExitTime:        exitTime,
		Symbol:          req.Symbol,
		PositionSize:    req.PositionSize,
		Timeframe:       req.Timeframe,
		EntryFee:        req.EntryFee,
		ExitFee:         req.ExitFee,
		EntryImageURL:   req.EntryImageURL.Value,
		ExitImageURL:    req.ExitImageURL.Value,
		ClearEntryImage: req.EntryImageURL.cleared(),
		ClearExitImage:  req.ExitImageURL.cleared(),
	}, nil
}

func (h *Handler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req tradeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	trade, err := h.trades.Create(r.Context(), userID, in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newTradeResponse(trade))
}

func (h *Handler) GetTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	trade, err := h.trades.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newTradeResponse(trade))
}

func (h *Handler) UpdateTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req tradeUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	update, err := req.update()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	trade, err := h.trades.Update(r.Context(), userID, chi.URLParam(r, "id"), update)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newTradeResponse(trade))
}

func (h *Handler) DeleteTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.trades.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetTradeJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	journal, err := h.journals.GetByTrade(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newJournalResponse(journal))
}
