package services

import (
	"context"
	"errors"
	"testing"

	"tradejournal/internal/models"
	"tradejournal/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalCreateDefaultsToTradePlan(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "trader")
	plan := env.plan(t, user.ID)
	trade := env.trade(t, user.ID, plan.ID, nil)

	journal := env.journal(t, user.ID, trade.ID)
	assert.Equal(t, plan.ID, journal.TradingPlanID)
	assert.Equal(t, trade.ID, journal.TradeID)
	assert.Empty(t, journal.Images())
	assert.Contains(t, env.hub.types(user.ID), EventJournalCreated)
}

func TestJournalCreateRequiresTrade(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "trader")

	_, err := env.journals.Create(context.Background(), user.ID, JournalInput{})
	assert.ErrorIs(t, err, validator.ErrRequired)
	var verr *validator.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "trade_id", verr.Field)
	assert.Empty(t, env.db.journals)
}

func TestJournalSecondEntryConflicts(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "trader")
	trade := env.trade(t, user.ID, env.plan(t, user.ID).ID, nil)
	env.journal(t, user.ID, trade.ID)

	_, err := env.journals.Create(context.Background(), user.ID, JournalInput{TradeID: trade.ID})
	var integrity *models.IntegrityError
	require.True(t, errors.As(err, &integrity))
	assert.Equal(t, models.IntegrityUnique, integrity.Kind)
	assert.Len(t, env.db.journals, 1)
}

func TestJournalOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	other := env.register(t, "other")
	trade := env.trade(t, owner.ID, env.plan(t, owner.ID).ID, nil)

	_, err := env.journals.Create(ctx, other.ID, JournalInput{TradeID: trade.ID})
	assert.ErrorIs(t, err, models.ErrNotFound)

	foreign := env.plan(t, other.ID)
	_, err = env.journals.Create(ctx, owner.ID, JournalInput{TradeID: trade.ID, TradingPlanID: foreign.ID})
	assert.ErrorIs(t, err, models.ErrNotFound)

	journal := env.journal(t, owner.ID, trade.ID)
	_, err = env.journals.Get(ctx, other.ID, journal.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = env.journals.GetByTrade(ctx, other.ID, trade.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, env.journals.Delete(ctx, other.ID, journal.ID), models.ErrNotFound)
}

func TestJournalUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "trader")
	trade := env.trade(t, user.ID, env.plan(t, user.ID).ID, nil)
	target := env.plan(t, user.ID)
	journal := env.journal(t, user.ID, trade.ID)

	emotions := "calm"
	adherence := models.NewDocument(map[string]any{"followed_entry": true})
	updated, err := env.journals.Update(ctx, user.ID, journal.ID, JournalUpdate{
		TradingPlanID: &target.ID,
		Emotions:      &emotions,
		PlanAdherence: &adherence,
		Images: []any{map[string]any{
			"url":         "/static/journal/chart.png",
			"description": "entry chart",
			"upload_date": "2025-01-15T10:30:00.123456",
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, target.ID, updated.TradingPlanID)
	assert.Equal(t, "calm", *updated.Emotions)
	assert.Equal(t, "followed the plan", *updated.Notes)
	assert.Len(t, updated.Images(), 1)

	listed, err := env.journals.ListByPlan(ctx, user.ID, target.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	long := "this emotion description is far longer than fifty characters"
	_, err = env.journals.Update(ctx, user.ID, journal.ID, JournalUpdate{Emotions: &long})
	assert.ErrorIs(t, err, validator.ErrTooLong)
}

func TestJournalDeleteKeepsTrade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "trader")
	trade := env.trade(t, user.ID, env.plan(t, user.ID).ID, nil)
	journal := env.journal(t, user.ID, trade.ID)

	require.NoError(t, env.journals.Delete(ctx, user.ID, journal.ID))
	_, err := env.journals.Get(ctx, user.ID, journal.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = env.trades.Get(ctx, user.ID, trade.ID)
	assert.NoError(t, err)

	env.journal(t, user.ID, trade.ID)
}

func TestJournalGetByTrade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "trader")
	trade := env.trade(t, user.ID, env.plan(t, user.ID).ID, nil)

	_, err := env.journals.GetByTrade(ctx, user.ID, trade.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	journal := env.journal(t, user.ID, trade.ID)
	found, err := env.journals.GetByTrade(ctx, user.ID, trade.ID)
	require.NoError(t, err)
	assert.Equal(t, journal.ID, found.ID)
}
