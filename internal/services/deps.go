package services

import (
	"context"

	"tradejournal/internal/models"
	"tradejournal/internal/store"
	"tradejournal/internal/websocket"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, u *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetForUpdate(ctx context.Context, tx store.Getter, userID string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Update(ctx context.Context, tx store.Execer, u *models.User) error
	Delete(ctx context.Context, tx store.Execer, userID string) error
}

type TradingPlanStore interface {
	Create(ctx context.Context, tx store.Execer, p *models.TradingPlan) error
	GetByID(ctx context.Context, planID string) (*models.TradingPlan, error)
	GetForUpdate(ctx context.Context, tx store.Getter, planID string) (*models.TradingPlan, error)
	ListByUser(ctx context.Context, userID string) ([]*models.TradingPlan, error)
	IDsByUser(ctx context.Context, tx store.Selecter, userID string) ([]string, error)
	Update(ctx context.Context, tx store.Execer, p *models.TradingPlan) error
	Delete(ctx context.Context, tx store.Execer, planID string) error
	DeleteByUser(ctx context.Context, tx store.Execer, userID string) (int64, error)
}

type StrategyStore interface {
	Create(ctx context.Context, tx store.Execer, s *models.Strategy) error
	GetByID(ctx context.Context, strategyID string) (*models.Strategy, error)
	GetForUpdate(ctx context.Context, tx store.Getter, strategyID string) (*models.Strategy, error)
	List(ctx context.Context, limit, offset int) ([]*models.Strategy, error)
	Update(ctx context.Context, tx store.Execer, s *models.Strategy) error
	Delete(ctx context.Context, tx store.Execer, strategyID string) error
}

type TradeStore interface {
	Create(ctx context.Context, tx store.Execer, t *models.Trade) error
	GetByID(ctx context.Context, tradeID string) (*models.Trade, error)
	GetForUpdate(ctx context.Context, tx store.Getter, tradeID string) (*models.Trade, error)
	ListByTradingPlan(ctx context.Context, planID string) ([]*models.Trade, error)
	ListByStrategy(ctx context.Context, strategyID, userID string) ([]*models.Trade, error)
	Update(ctx context.Context, tx store.Execer, t *models.Trade) error
	Delete(ctx context.Context, tx store.Execer, tradeID string) error
	DeleteByTradingPlan(ctx context.Context, tx store.Execer, planID string) (int64, error)
	ClearStrategy(ctx context.Context, tx store.Execer, strategyID string) (int64, error)
}

type JournalStore interface {
	Create(ctx context.Context, tx store.Execer, j *models.Journal) error
	GetByID(ctx context.Context, journalID string) (*models.Journal, error)
	GetForUpdate(ctx context.Context, tx store.Getter, journalID string) (*models.Journal, error)
	GetByTrade(ctx context.Context, tradeID string) (*models.Journal, error)
	ExistsForTrade(ctx context.Context, tx store.Getter, tradeID string) (bool, error)
	ListByTradingPlan(ctx context.Context, planID string) ([]*models.Journal, error)
	Update(ctx context.Context, tx store.Execer, j *models.Journal) error
	Delete(ctx context.Context, tx store.Execer, journalID string) error
	DeleteByTrade(ctx context.Context, tx store.Execer, tradeID string) (int64, error)
	DeleteByTradingPlan(ctx context.Context, tx store.Execer, planID string) (int64, error)
}

type PerformanceStore interface {
	Create(ctx context.Context, tx store.Execer, p *models.Performance) error
	GetByID(ctx context.Context, performanceID string) (*models.Performance, error)
	GetForUpdate(ctx context.Context, tx store.Getter, performanceID string) (*models.Performance, error)
	ListByTradingPlan(ctx context.Context, planID string) ([]*models.Performance, error)
	ListByStrategy(ctx context.Context, strategyID, userID string) ([]*models.Performance, error)
	Update(ctx context.Context, tx store.Execer, p *models.Performance) error
	Delete(ctx context.Context, tx store.Execer, performanceID string) error
	DeleteByTradingPlan(ctx context.Context, tx store.Execer, planID string) (int64, error)
	DeleteByStrategy(ctx context.Context, tx store.Execer, strategyID string) (int64, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, entry store.AuditEntry) error
	List(ctx context.Context, limit, offset int) ([]store.AuditEntry, error)
}

type TokenIssuer interface {
	AccessToken(userID string) (string, error)
	RefreshToken(userID string) (string, error)
	ParseRefresh(token string) (string, error)
}

type EventPublisher interface {
	Publish(userID string, event websocket.Event)
}
