package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"tradejournal/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var journalColumnNames = []string{
	"id", "trade_id", "trading_plan_id", "notes", "emotions", "market_conditions",
	"plan_adherence", "images", "created_at", "updated_at",
}

func TestJournalStoreGetByTrade(t *testing.T) {
	db, mock := newMockDB(t)
	at := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	images := `[{"url":"/static/journal/analysis_1.png","description":"setup","upload_date":"2025-01-15T10:00:00Z","type":"analysis"}]`
	mock.ExpectQuery(regexp.QuoteMeta("FROM journal_entries WHERE trade_id = $1")).
		WithArgs("trade-1").
		WillReturnRows(sqlmock.NewRows(journalColumnNames).AddRow(
			"journal-1", "trade-1", "plan-1", "held too long", "anxious",
			[]byte(`{"trend":"bullish"}`), nil, []byte(images), at, at,
		))

	journal, err := NewJournalStore(db).GetByTrade(context.Background(), "trade-1")
	require.NoError(t, err)
	assert.Equal(t, "journal-1", journal.ID)
	assert.Equal(t, "bullish", journal.MarketConditions.Get("trend"))
	assert.True(t, journal.PlanAdherence.IsNull())
	require.Len(t, journal.Images(), 1)
	assert.Equal(t, "analysis", journal.Images()[0].Tag("type"))
}

func TestJournalStoreGetByTradeMissing(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM journal_entries WHERE trade_id = $1")).
		WithArgs("trade-1").
		WillReturnError(sql.ErrNoRows)

	_, err := NewJournalStore(db).GetByTrade(context.Background(), "trade-1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestJournalStoreExistsForTrade(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM journal_entries WHERE trade_id = $1)")).
		WithArgs("trade-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := NewJournalStore(db).ExistsForTrade(context.Background(), db, "trade-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestJournalStoreCreateStoresEmptyImageList(t *testing.T) {
	db, mock := newMockDB(t)
	journal, err := models.NewJournal("trade-1", "plan-1")
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO journal_entries")).
		WithArgs(journal.ID, "trade-1", "plan-1", nil, nil, nil, nil, "[]", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewJournalStore(db).Create(context.Background(), db, journal))
}

func TestJournalStoreDeleteByTradingPlanCoversTrades(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("WHERE trading_plan_id = $1 OR trade_id IN (SELECT id FROM trades WHERE trading_plan_id = $1)")).
		WithArgs("plan-1").
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := NewJournalStore(db).DeleteByTradingPlan(context.Background(), db, "plan-1")
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func TestJournalStoreDeleteByTrade(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM journal_entries WHERE trade_id = $1")).
		WithArgs("trade-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := NewJournalStore(db).DeleteByTrade(context.Background(), db, "trade-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
