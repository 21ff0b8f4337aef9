package services

import (
	"context"
	"time"

	"tradejournal/internal/db"
	"tradejournal/internal/models"

	"github.com/jmoiron/sqlx"
	zlog "github.com/rs/zerolog/log"
)

type StrategyService struct {
	txRunner     db.TxRunner
	strategies   StrategyStore
	trades       TradeStore
	performances PerformanceStore
	events       EventPublisher
}

func NewStrategyService(txRunner db.TxRunner, strategies StrategyStore, trades TradeStore, performances PerformanceStore, events EventPublisher) *StrategyService {
	return &StrategyService{
		txRunner:     txRunner,
		strategies:   strategies,
		trades:       trades,
		performances: performances,
		events:       events,
	}
}

type StrategyInput struct {
	Name               string
	Description        *string
	Parameters         models.Document
	PerformanceMetrics models.Document
	StrategyImageURL   *string
	ExampleImages      any
}

type StrategyUpdate struct {
	Name               *string
	Description        *string
	Parameters         *models.Document
	PerformanceMetrics *models.Document
	StrategyImageURL   *string
	ClearImage         bool
	ExampleImages      any
}

func (s *StrategyService) Create(ctx context.Context, userID string, in StrategyInput) (*models.Strategy, error) {
	strategy, err := models.NewStrategy(in.Name)
	if err != nil {
		return nil, err
	}
	strategy.Description = in.Description
	strategy.Parameters = in.Parameters
	strategy.PerformanceMetrics = in.PerformanceMetrics
	if err := strategy.SetStrategyImage(in.StrategyImageURL); err != nil {
		return nil, err
	}
	if in.ExampleImages != nil {
		if err := setImageList(in.ExampleImages, "example_images", strategy.SetExampleImages); err != nil {
			return nil, err
		}
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.strategies.Create(ctx, tx, strategy)
	})
	if err != nil {
		return nil, err
	}
	publish(s.events, userID, EventStrategyCreated, strategy.ID, nil)
	return strategy, nil
}

func (s *StrategyService) Get(ctx context.Context, strategyID string) (*models.Strategy, error) {
	return s.strategies.GetByID(ctx, strategyID)
}

func (s *StrategyService) List(ctx context.Context, limit, offset int) ([]*models.Strategy, error) {
	return s.strategies.List(ctx, limit, offset)
}

func (s *StrategyService) Update(ctx context.Context, userID, strategyID string, in StrategyUpdate) (*models.Strategy, error) {
	var updated *models.Strategy
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		strategy, err := s.strategies.GetForUpdate(ctx, tx, strategyID)
		if err != nil {
			return err
		}
		if in.Name != nil {
			strategy.Name = *in.Name
		}
		if in.Description != nil {
			strategy.Description = in.Description
		}
		setDocument(&strategy.Parameters, in.Parameters)
		setDocument(&strategy.PerformanceMetrics, in.PerformanceMetrics)
		switch {
		case in.ClearImage:
			if err := strategy.SetStrategyImage(nil); err != nil {
				return err
			}
		case in.StrategyImageURL != nil:
			if err := strategy.SetStrategyImage(in.StrategyImageURL); err != nil {
				return err
			}
		}
		if in.ExampleImages != nil {
			if err := setImageList(in.ExampleImages, "example_images", strategy.SetExampleImages); err != nil {
				return err
			}
		}
		if err := strategy.Validate(); err != nil {
			return err
		}
		strategy.UpdatedAt = time.Now().UTC()
		if err := s.strategies.Update(ctx, tx, strategy); err != nil {
			return err
		}
		updated = strategy
		return nil
	})
	if err != nil {
		return nil, err
	}
	publish(s.events, userID, EventStrategyUpdated, strategyID, nil)
	return updated, nil
}

// Delete detaches referencing trades (their strategy becomes null) and
// removes the strategy's performance records.
func (s *StrategyService) Delete(ctx context.Context, userID, strategyID string) error {
	var detached, removed int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.strategies.GetForUpdate(ctx, tx, strategyID); err != nil {
			return err
		}
		var err error
		if detached, err = s.trades.ClearStrategy(ctx, tx, strategyID); err != nil {
			return err
		}
		if removed, err = s.performances.DeleteByStrategy(ctx, tx, strategyID); err != nil {
			return err
		}
		return s.strategies.Delete(ctx, tx, strategyID)
	})
	if err != nil {
		return err
	}
	zlog.Info().
		Str("strategy_id", strategyID).
		Str("user_id", userID).
		Int64("trades_detached", detached).
		Int64("performances", removed).
		Msg("strategy deleted")
	publish(s.events, userID, EventStrategyDeleted, strategyID, nil)
	return nil
}

// Trades lists the caller's trades that use the strategy.
func (s *StrategyService) Trades(ctx context.Context, userID, strategyID string) ([]*models.Trade, error) {
	if _, err := s.strategies.GetByID(ctx, strategyID); err != nil {
		return nil, err
	}
	return s.trades.ListByStrategy(ctx, strategyID, userID)
}

func (s *StrategyService) Performances(ctx context.Context, userID, strategyID string) ([]*models.Performance, error) {
	if _, err := s.strategies.GetByID(ctx, strategyID); err != nil {
		return nil, err
	}
	return s.performances.ListByStrategy(ctx, strategyID, userID)
}
