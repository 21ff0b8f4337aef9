package services

import (
	"context"
	"time"

	"tradejournal/internal/db"
	"tradejournal/internal/models"

	"github.com/jmoiron/sqlx"
	zlog "github.com/rs/zerolog/log"
)

type PerformanceService struct {
	txRunner     db.TxRunner
	performances PerformanceStore
	strategies   StrategyStore
	owner        ownership
	events       EventPublisher
}

func NewPerformanceService(txRunner db.TxRunner, plans TradingPlanStore, trades TradeStore, strategies StrategyStore, performances PerformanceStore, events EventPublisher) *PerformanceService {
	return &PerformanceService{
		txRunner:     txRunner,
		performances: performances,
		strategies:   strategies,
		owner:        ownership{plans: plans, trades: trades},
		events:       events,
	}
}

type PerformanceInput struct {
	StrategyID    string
	TradingPlanID string
	Metrics       models.Document
	Timeframe     string
	Period        string
}

type PerformanceUpdate struct {
	StrategyID    *string
	TradingPlanID *string
	Metrics       *models.Document
	Timeframe     *string
	Period        *string
}

func (s *PerformanceService) Create(ctx context.Context, userID string, in PerformanceInput) (*models.Performance, error) {
	performance, err := models.NewPerformance(in.StrategyID, in.TradingPlanID, in.Timeframe, in.Period)
	if err != nil {
		return nil, err
	}
	performance.Metrics = in.Metrics
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.owner.planTx(ctx, tx, userID, performance.TradingPlanID); err != nil {
			return err
		}
		if err := requireStrategy(ctx, s.strategies, tx, performance.StrategyID); err != nil {
			return err
		}
		return s.performances.Create(ctx, tx, performance)
	})
	if err != nil {
		return nil, err
	}
	publish(s.events, userID, EventPerformanceCreated, performance.ID, map[string]any{"trading_plan_id": performance.TradingPlanID})
	return performance, nil
}

func (s *PerformanceService) Get(ctx context.Context, userID, performanceID string) (*models.Performance, error) {
	performance, err := s.performances.GetByID(ctx, performanceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.owner.plan(ctx, userID, performance.TradingPlanID); err != nil {
		return nil, err
	}
	return performance, nil
}

func (s *PerformanceService) ListByPlan(ctx context.Context, userID, planID string) ([]*models.Performance, error) {
	if _, err := s.owner.plan(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.performances.ListByTradingPlan(ctx, planID)
}

func (s *PerformanceService) Update(ctx context.Context, userID, performanceID string, in PerformanceUpdate) (*models.Performance, error) {
	var updated *models.Performance
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		performance, err := s.performanceTx(ctx, tx, userID, performanceID)
		if err != nil {
			return err
		}
		if in.TradingPlanID != nil && *in.TradingPlanID != performance.TradingPlanID {
			if _, err := s.owner.planTx(ctx, tx, userID, *in.TradingPlanID); err != nil {
				return err
			}
			performance.TradingPlanID = *in.TradingPlanID
		}
		if in.StrategyID != nil && *in.StrategyID != performance.StrategyID {
			if err := requireStrategy(ctx, s.strategies, tx, *in.StrategyID); err != nil {
				return err
			}
			performance.StrategyID = *in.StrategyID
		}
		setDocument(&performance.Metrics, in.Metrics)
		setString(&performance.Timeframe, in.Timeframe)
		setString(&performance.Period, in.Period)
		if err := performance.Validate(); err != nil {
			return err
		}
		performance.UpdatedAt = time.Now().UTC()
		if err := s.performances.Update(ctx, tx, performance); err != nil {
			return err
		}
		updated = performance
		return nil
	})
	if err != nil {
		return nil, err
	}
	publish(s.events, userID, EventPerformanceUpdated, performanceID, map[string]any{"trading_plan_id": updated.TradingPlanID})
	return updated, nil
}

func (s *PerformanceService) Delete(ctx context.Context, userID, performanceID string) error {
	var planID string
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		performance, err := s.performanceTx(ctx, tx, userID, performanceID)
		if err != nil {
			return err
		}
		planID = performance.TradingPlanID
		return s.performances.Delete(ctx, tx, performanceID)
	})
	if err != nil {
		return err
	}
	zlog.Info().Str("user_id", userID).Str("performance_id", performanceID).Msg("performance record deleted")
	publish(s.events, userID, EventPerformanceDeleted, performanceID, map[string]any{"trading_plan_id": planID})
	return nil
}

func (s *PerformanceService) performanceTx(ctx context.Context, tx *sqlx.Tx, userID, performanceID string) (*models.Performance, error) {
	performance, err := s.performances.GetForUpdate(ctx, tx, performanceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.owner.planTx(ctx, tx, userID, performance.TradingPlanID); err != nil {
		return nil, err
	}
	return performance, nil
}
