package store

import (
	"context"
	"database/sql"
	"regexp"
	"strings"
	"testing"
	"time"

	"tradejournal/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planColumnNames = []string{
	"id", "user_id", "name", "type", "risk_management", "entry_rules", "exit_rules", "timeframes",
	"position_sizing", "markets", "notes", "version", "is_active", "plan_images", "created_at", "updated_at",
}

func TestTradingPlanStoreGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM trading_plans WHERE id = $1")).
		WithArgs("plan-1").
		WillReturnRows(sqlmock.NewRows(planColumnNames).AddRow(
			"plan-1", "user-1", "Daily Forex", "day_trading",
			[]byte(`{"max_risk_per_trade":0.01}`), nil, nil, []byte(`["H1","H4"]`), nil, []byte(`["EUR/USD","GBP/USD"]`),
			nil, int64(3), true, nil, at, at,
		))

	plan, err := NewTradingPlanStore(db).GetByID(context.Background(), "plan-1")
	require.NoError(t, err)
	assert.Equal(t, 3, plan.Version)
	assert.Equal(t, 0.01, plan.RiskManagement.Get("max_risk_per_trade"))
	assert.Equal(t, []any{"H1", "H4"}, plan.Timeframes.Any())
	assert.Equal(t, []any{"EUR/USD", "GBP/USD"}, plan.Markets.Any())
	assert.True(t, plan.EntryRules.IsNull())
	assert.NotNil(t, plan.PlanImages())
	assert.Empty(t, plan.PlanImages())
}

func TestTradingPlanStoreCreate(t *testing.T) {
	plan, err := models.NewTradingPlan("user-1", "Daily Forex", "day_trading")
	require.NoError(t, err)
	plan.RiskManagement = models.NewDocument(map[string]any{"stop_loss": 0.02})

	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO trading_plans") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 16 || args[0] != plan.ID || args[1] != "user-1" || args[11] != 1 {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	require.NoError(t, NewTradingPlanStore(stubDB{}).Create(context.Background(), execer, plan))
}

func TestTradingPlanStoreIDsByUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM trading_plans WHERE user_id = $1 FOR UPDATE")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("plan-1").AddRow("plan-2"))

	ids, err := NewTradingPlanStore(db).IDsByUser(context.Background(), db, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"plan-1", "plan-2"}, ids)
}

func TestTradingPlanStoreDeleteByUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trading_plans WHERE user_id = $1")).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := NewTradingPlanStore(db).DeleteByUser(context.Background(), db, "user-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestTradingPlanStoreDeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trading_plans WHERE id = $1")).
		WithArgs("plan-x").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewTradingPlanStore(db).Delete(context.Background(), db, "plan-x")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
