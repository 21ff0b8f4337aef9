package handlers

import (
	"context"

	"tradejournal/internal/models"
	"tradejournal/internal/services"
	"tradejournal/internal/store"
)

type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
}

type UserService interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	AuditLog(ctx context.Context, limit, offset int) ([]store.AuditEntry, error)
	SetProfilePicture(ctx context.Context, userID string, filename *string) (*models.User, error)
	SetActive(ctx context.Context, actorID, userID string, active bool) (*models.User, error)
	SetRole(ctx context.Context, actorID, userID, role string) (*models.User, error)
	Delete(ctx context.Context, actorID, userID string) error
}

type PlanService interface {
	Create(ctx context.Context, userID string, in services.PlanInput) (*models.TradingPlan, error)
	Get(ctx context.Context, userID, planID string) (*models.TradingPlan, error)
	List(ctx context.Context, userID string) ([]*models.TradingPlan, error)
	Update(ctx context.Context, userID, planID string, in services.PlanUpdate) (*models.TradingPlan, error)
	Delete(ctx context.Context, userID, planID string) error
}

type StrategyService interface {
	Create(ctx context.Context, userID string, in services.StrategyInput) (*models.Strategy, error)
	Get(ctx context.Context, strategyID string) (*models.Strategy, error)
	List(ctx context.Context, limit, offset int) ([]*models.Strategy, error)
	Update(ctx context.Context, userID, strategyID string, in services.StrategyUpdate) (*models.Strategy, error)
	Delete(ctx context.Context, userID, strategyID string) error
	Trades(ctx context.Context, userID, strategyID string) ([]*models.Trade, error)
	Performances(ctx context.Context, userID, strategyID string) ([]*models.Performance, error)
}

type TradeService interface {
	Create(ctx context.Context, userID string, in services.TradeInput) (*models.Trade, error)
	Get(ctx context.Context, userID, tradeID string) (*models.Trade, error)
	ListByPlan(ctx context.Context, userID, planID string) ([]*models.Trade, error)
	Update(ctx context.Context, userID, tradeID string, in services.TradeUpdate) (*models.Trade, error)
	Delete(ctx context.Context, userID, tradeID string) error
}

type JournalService interface {
	Create(ctx context.Context, userID string, in services.JournalInput) (*models.Journal, error)
	Get(ctx context.Context, userID, journalID string) (*models.Journal, error)
	GetByTrade(ctx context.Context, userID, tradeID string) (*models.Journal, error)
	ListByPlan(ctx context.Context, userID, planID string) ([]*models.Journal, error)
	Update(ctx context.Context, userID, journalID string, in services.JournalUpdate) (*models.Journal, error)
	Delete(ctx context.Context, userID, journalID string) error
}

type PerformanceService interface {
	Create(ctx context.Context, userID string, in services.PerformanceInput) (*models.Performance, error)
	Get(ctx context.Context, userID, performanceID string) (*models.Performance, error)
	ListByPlan(ctx context.Context, userID, planID string) ([]*models.Performance, error)
	Update(ctx context.Context, userID, performanceID string, in services.PerformanceUpdate) (*models.Performance, error)
	Delete(ctx context.Context, userID, performanceID string) error
}
