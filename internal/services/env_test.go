package services

import (
	"context"
	"testing"
	"time"

	"tradejournal/internal/auth"
	"tradejournal/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testPassword = "TestPass123!"

type testEnv struct {
	db           *memDB
	hub          *stubHub
	audit        memAudit
	auth         *AuthService
	users        *UserService
	plans        *PlanService
	strategies   *StrategyService
	trades       *TradeService
	journals     *JournalService
	performances *PerformanceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mem := newMemDB()
	runner := fakeTxRunner{}
	hub := &stubHub{}
	users := memUsers{mem}
	plans := memPlans{mem}
	strategies := memStrategies{mem}
	trades := memTrades{mem}
	journals := memJournals{mem}
	performances := memPerformances{mem}
	audit := memAudit{mem}
	return &testEnv{
		db:           mem,
		hub:          hub,
		audit:        audit,
		auth:         NewAuthService(runner, users, audit, auth.NewIssuer("test-secret", time.Minute, time.Hour)),
		users:        NewUserService(runner, users, plans, trades, journals, performances, audit),
		plans:        NewPlanService(runner, plans, trades, journals, performances, hub),
		strategies:   NewStrategyService(runner, strategies, trades, performances, hub),
		trades:       NewTradeService(runner, plans, trades, journals, strategies, hub),
		journals:     NewJournalService(runner, plans, trades, journals, hub),
		performances: NewPerformanceService(runner, plans, trades, strategies, performances, hub),
	}
}

func (e *testEnv) register(t *testing.T, name string) *models.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), RegisterInput{
		Email:    name + "@example.com",
		Username: name,
		Password: testPassword,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) plan(t *testing.T, userID string) *models.TradingPlan {
	t.Helper()
	plan, err := e.plans.Create(context.Background(), userID, PlanInput{
		Name:           "Swing plan",
		Type:           "swing",
		RiskManagement: models.NewDocument(map[string]any{"max_risk": 0.02}),
	})
	require.NoError(t, err)
	return plan
}

func (e *testEnv) strategy(t *testing.T, name string) *models.Strategy {
	t.Helper()
	strategy, err := e.strategies.Create(context.Background(), "", StrategyInput{Name: name})
	require.NoError(t, err)
	return strategy
}

func (e *testEnv) trade(t *testing.T, userID, planID string, strategyID *string) *models.Trade {
	t.Helper()
	trade, err := e.trades.Create(context.Background(), userID, TradeInput{
		TradingPlanID: planID,
		StrategyID:    strategyID,
		Symbol:        "EURUSD",
		EntryPrice:    decimal.RequireFromString("1.10450"),
		PositionSize:  decimal.RequireFromString("0.5"),
		EntryTime:     time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return trade
}

func (e *testEnv) journal(t *testing.T, userID, tradeID string) *models.Journal {
	t.Helper()
	notes := "followed the plan"
	journal, err := e.journals.Create(context.Background(), userID, JournalInput{TradeID: tradeID, Notes: &notes})
	require.NoError(t, err)
	return journal
}

func (e *testEnv) performance(t *testing.T, userID, planID, strategyID string) *models.Performance {
	t.Helper()
	performance, err := e.performances.Create(context.Background(), userID, PerformanceInput{
		StrategyID:    strategyID,
		TradingPlanID: planID,
		Metrics:       models.NewDocument(map[string]any{"win_rate": 0.6}),
		Timeframe:     "H4",
		Period:        "2025-Q1",
	})
	require.NoError(t, err)
	return performance
}
