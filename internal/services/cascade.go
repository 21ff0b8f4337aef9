package services

import (
	"context"
	"errors"

	"tradejournal/internal/models"
	"tradejournal/internal/store"

	zlog "github.com/rs/zerolog/log"
)

// planCascade removes everything filed under a trading plan. Journals go
// first because their delete looks trades up by plan.
type planCascade struct {
	trades       TradeStore
	journals     JournalStore
	performances PerformanceStore
}

type cascadeCounts struct {
	Trades       int64
	Journals     int64
	Performances int64
}

func (c cascadeCounts) add(other cascadeCounts) cascadeCounts {
	return cascadeCounts{
		Trades:       c.Trades + other.Trades,
		Journals:     c.Journals + other.Journals,
		Performances: c.Performances + other.Performances,
	}
}

func (c planCascade) deleteChildren(ctx context.Context, tx store.Execer, planID string) (cascadeCounts, error) {
	var counts cascadeCounts
	var err error
	if counts.Journals, err = c.journals.DeleteByTradingPlan(ctx, tx, planID); err != nil {
		return counts, err
	}
	if counts.Performances, err = c.performances.DeleteByTradingPlan(ctx, tx, planID); err != nil {
		return counts, err
	}
	if counts.Trades, err = c.trades.DeleteByTradingPlan(ctx, tx, planID); err != nil {
		return counts, err
	}
	zlog.Debug().
		Str("trading_plan_id", planID).
		Int64("journals", counts.Journals).
		Int64("performances", counts.Performances).
		Int64("trades", counts.Trades).
		Msg("cascaded trading plan children")
	return counts, nil
}

// ownership resolves records through their trading plan. Anything that does
// not belong to userID is reported as models.ErrNotFound.
type ownership struct {
	plans  TradingPlanStore
	trades TradeStore
}

func (o ownership) plan(ctx context.Context, userID, planID string) (*models.TradingPlan, error) {
	plan, err := o.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, models.ErrNotFound
	}
	return plan, nil
}

func (o ownership) planTx(ctx context.Context, tx store.Getter, userID, planID string) (*models.TradingPlan, error) {
	plan, err := o.plans.GetForUpdate(ctx, tx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, models.ErrNotFound
	}
	return plan, nil
}

func (o ownership) trade(ctx context.Context, userID, tradeID string) (*models.Trade, error) {
	trade, err := o.trades.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if _, err := o.plan(ctx, userID, trade.TradingPlanID); err != nil {
		return nil, err
	}
	return trade, nil
}

func (o ownership) tradeTx(ctx context.Context, tx store.Getter, userID, tradeID string) (*models.Trade, error) {
	trade, err := o.trades.GetForUpdate(ctx, tx, tradeID)
	if err != nil {
		return nil, err
	}
	if _, err := o.planTx(ctx, tx, userID, trade.TradingPlanID); err != nil {
		return nil, err
	}
	return trade, nil
}

// requireStrategy checks a referenced strategy exists; a missing one is a
// missing parent, reported as not found.
func requireStrategy(ctx context.Context, strategies StrategyStore, tx store.Getter, strategyID string) error {
	_, err := strategies.GetForUpdate(ctx, tx, strategyID)
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
