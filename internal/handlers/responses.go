package handlers

import (
	"time"

	"tradejournal/internal/models"

	"github.com/shopspring/decimal"
)

type userResponse struct {
	ID                      string     `json:"id"`
	Email                   string     `json:"email"`
	Username                string     `json:"username"`
	IsActive                bool       `json:"is_active"`
	Role                    string     `json:"role"`
	LastLogin               *time.Time `json:"last_login"`
	ProfilePicture          string     `json:"profile_picture"`
	ProfilePictureUpdatedAt *time.Time `json:"profile_picture_updated_at"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:                      u.ID,
		Email:                   u.Email,
		Username:                u.Username,
		IsActive:                u.IsActive,
		Role:                    u.Role,
		LastLogin:               u.LastLogin,
		ProfilePicture:          u.ProfilePictureURL(),
		ProfilePictureUpdatedAt: u.ProfilePictureUpdatedAt,
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
	}
}

type planResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	RiskManagement models.Document `json:"risk_management"`
	EntryRules     models.Document `json:"entry_rules"`
	ExitRules      models.Document `json:"exit_rules"`
	Timeframes     models.Document `json:"timeframes"`
	PositionSizing models.Document `json:"position_sizing"`
	Markets        models.Document `json:"markets"`
	Notes          *string         `json:"notes"`
	Version        int             `json:"version"`
	IsActive       bool            `json:"is_active"`
	PlanImages     models.Images   `json:"plan_images"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func newPlanResponse(p *models.TradingPlan) planResponse {
	return planResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		Name:           p.Name,
		Type:           p.Type,
		RiskManagement: p.RiskManagement,
		EntryRules:     p.EntryRules,
		ExitRules:      p.ExitRules,
		Timeframes:     p.Timeframes,
		PositionSizing: p.PositionSizing,
		Markets:        p.Markets,
		Notes:          p.Notes,
		Version:        p.Version,
		IsActive:       p.IsActive,
		PlanImages:     p.PlanImages(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

type strategyResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        *string         `json:"description"`
	Parameters         models.Document `json:"parameters"`
	PerformanceMetrics models.Document `json:"performance_metrics"`
	StrategyImageURL   *string         `json:"strategy_image_url"`
	ExampleImages      models.Images   `json:"example_images"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func newStrategyResponse(s *models.Strategy) strategyResponse {
	return strategyResponse{
		ID:                 s.ID,
		Name:               s.Name,
		Description:        s.Description,
		Parameters:         s.Parameters,
		PerformanceMetrics: s.PerformanceMetrics,
		StrategyImageURL:   s.StrategyImage(),
		ExampleImages:      s.ExampleImages(),
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

type tradeResponse struct {
	ID            string              `json:"id"`
	TradingPlanID string              `json:"trading_plan_id"`
	StrategyID    *string             `json:"strategy_id"`
	Symbol        string              `json:"symbol"`
	BaseCurrency  *string             `json:"base_currency"`
	QuoteCurrency *string             `json:"quote_currency"`
	EntryPrice    decimal.Decimal     `json:"entry_price"`
	ExitPrice     decimal.NullDecimal `json:"exit_price"`
	EntryTime     time.Time           `json:"entry_time"`
	ExitTime      *time.Time          `json:"exit_time"`
	PositionSize  decimal.Decimal     `json:"position_size"`
	Timeframe     *string             `json:"timeframe"`
	EntryFee      decimal.Decimal     `json:"entry_fee"`
	ExitFee       decimal.Decimal     `json:"exit_fee"`
	EntryImageURL *string             `json:"entry_image_url"`
	ExitImageURL  *string             `json:"exit_image_url"`
	IsClosed      bool                `json:"is_closed"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func newTradeResponse(t *models.Trade) tradeResponse {
	return tradeResponse{
		ID:            t.ID,
		TradingPlanID: t.TradingPlanID,
		StrategyID:    t.StrategyID,
		Symbol:        t.Symbol,
		BaseCurrency:  t.BaseCurrency(),
		QuoteCurrency: t.QuoteCurrency(),
		EntryPrice:    t.EntryPrice,
		ExitPrice:     t.ExitPrice,
		EntryTime:     t.EntryTime,
		ExitTime:      t.ExitTime,
		PositionSize:  t.PositionSize,
		Timeframe:     t.Timeframe,
		EntryFee:      t.EntryFee,
		ExitFee:       t.ExitFee,
		EntryImageURL: t.EntryImage(),
		ExitImageURL:  t.ExitImage(),
		IsClosed:      t.IsClosed(),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

type journalResponse struct {
	ID               string          `json:"id"`
	TradeID          string          `json:"trade_id"`
	TradingPlanID    string          `json:"trading_plan_id"`
	Notes            *string         `json:"notes"`
	Emotions         *string         `json:"emotions"`
	MarketConditions models.Document `json:"market_conditions"`
	PlanAdherence    models.Document `json:"plan_adherence"`
	Images           models.Images   `json:"images"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func newJournalResponse(j *models.Journal) journalResponse {
	return journalResponse{
		ID:               j.ID,
		TradeID:          j.TradeID,
		TradingPlanID:    j.TradingPlanID,
		Notes:            j.Notes,
		Emotions:         j.Emotions,
		MarketConditions: j.MarketConditions,
		PlanAdherence:    j.PlanAdherence,
		Images:           j.Images(),
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

type performanceResponse struct {
	ID            string          `json:"id"`
	StrategyID    string          `json:"strategy_id"`
	TradingPlanID string          `json:"trading_plan_id"`
	Metrics       models.Document `json:"metrics"`
	Timeframe     string          `json:"timeframe"`
	Period        string          `json:"period"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func newPerformanceResponse(p *models.Performance) performanceResponse {
	return performanceResponse{
		ID:            p.ID,
		StrategyID:    p.StrategyID,
		TradingPlanID: p.TradingPlanID,
		Metrics:       p.Metrics,
		Timeframe:     p.Timeframe,
		Period:        p.Period,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func mapAll[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
