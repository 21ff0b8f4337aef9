package services

import (
	"context"
	"testing"

	"tradejournal/internal/models"
	"tradejournal/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformanceCreateChecksParents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "trader")
	other := env.register(t, "other")
	plan := env.plan(t, user.ID)
	strategy := env.strategy(t, "Breakout")

	_, err := env.performances.Create(ctx, user.ID, PerformanceInput{StrategyID: "missing", TradingPlanID: plan.ID, Timeframe: "D1", Period: "2025"})
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = env.performances.Create(ctx, other.ID, PerformanceInput{StrategyID: strategy.ID, TradingPlanID: plan.ID, Timeframe: "D1", Period: "2025"})
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = env.performances.Create(ctx, user.ID, PerformanceInput{StrategyID: strategy.ID, TradingPlanID: plan.ID, Period: "2025"})
	assert.ErrorIs(t, err, validator.ErrRequired)
	assert.Empty(t, env.db.performances)

	performance := env.performance(t, user.ID, plan.ID, strategy.ID)
	assert.Equal(t, 0.6, performance.Metrics.Get("win_rate"))
}

func TestPerformanceUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "trader")
	other := env.register(t, "other")
	plan := env.plan(t, user.ID)
	strategy := env.strategy(t, "Breakout")
	performance := env.performance(t, user.ID, plan.ID, strategy.ID)

	period := "2025-Q2"
	metrics := models.NewDocument(map[string]any{"win_rate": 0.7, "trades": float64(12)})
	updated, err := env.performances.Update(ctx, user.ID, performance.ID, PerformanceUpdate{Period: &period, Metrics: &metrics})
	require.NoError(t, err)
	assert.Equal(t, "2025-Q2", updated.Period)
	assert.Equal(t, "H4", updated.Timeframe)
	assert.Equal(t, 0.7, updated.Metrics.Get("win_rate"))

	tooLong := "2025-Q2-and-a-lot-more"
	_, err = env.performances.Update(ctx, user.ID, performance.ID, PerformanceUpdate{Period: &tooLong})
	assert.ErrorIs(t, err, validator.ErrTooLong)

	_, err = env.performances.Get(ctx, other.ID, performance.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, env.performances.Delete(ctx, other.ID, performance.ID), models.ErrNotFound)

	require.NoError(t, env.performances.Delete(ctx, user.ID, performance.ID))
	listed, err := env.performances.ListByPlan(ctx, user.ID, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
	assert.Contains(t, env.hub.types(user.ID), EventPerformanceDeleted)
}
