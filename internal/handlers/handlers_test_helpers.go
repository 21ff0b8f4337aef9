package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"tradejournal/internal/auth"
	"tradejournal/internal/config"
	"tradejournal/internal/models"
	"tradejournal/internal/services"
	"tradejournal/internal/store"
	"tradejournal/internal/websocket"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, in services.RegisterInput) (*models.User, error)
	loginFn          func(ctx context.Context, email, password string) (*services.Session, error)
	refreshFn        func(ctx context.Context, refreshToken string) (string, error)
	changePasswordFn func(ctx context.Context, userID, current, next string) error
}

func (s stubAuthService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	return s.registerFn(ctx, in)
}

func (s stubAuthService) Login(ctx context.Context, email, password string) (*services.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s stubAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s stubAuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	return s.changePasswordFn(ctx, userID, current, next)
}

type stubUserService struct {
	getFn        func(ctx context.Context, userID string) (*models.User, error)
	listFn       func(ctx context.Context, limit, offset int) ([]*models.User, error)
	auditLogFn   func(ctx context.Context, limit, offset int) ([]store.AuditEntry, error)
	setPictureFn func(ctx context.Context, userID string, filename *string) (*models.User, error)
	setActiveFn  func(ctx context.Context, actorID, userID string, active bool) (*models.User, error)
	setRoleFn    func(ctx context.Context, actorID, userID, role string) (*models.User, error)
	deleteFn     func(ctx context.Context, actorID, userID string) error
}

func (s stubUserService) Get(ctx context.Context, userID string) (*models.User, error) {
	if s.getFn == nil {
		return nil, models.ErrNotFound
	}
	return s.getFn(ctx, userID)
}

func (s stubUserService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func (s stubUserService) AuditLog(ctx context.Context, limit, offset int) ([]store.AuditEntry, error) {
	return s.auditLogFn(ctx, limit, offset)
}

func (s stubUserService) SetProfilePicture(ctx context.Context, userID string, filename *string) (*models.User, error) {
	return s.setPictureFn(ctx, userID, filename)
}

func (s stubUserService) SetActive(ctx context.Context, actorID, userID string, active bool) (*models.User, error) {
	return s.setActiveFn(ctx, actorID, userID, active)
}

func (s stubUserService) SetRole(ctx context.Context, actorID, userID, role string) (*models.User, error) {
	return s.setRoleFn(ctx, actorID, userID, role)
}

func (s stubUserService) Delete(ctx context.Context, actorID, userID string) error {
	return s.deleteFn(ctx, actorID, userID)
}

type stubPlanService struct {
	createFn func(ctx context.Context, userID string, in services.PlanInput) (*models.TradingPlan, error)
	getFn    func(ctx context.Context, userID, planID string) (*models.TradingPlan, error)
	listFn   func(ctx context.Context, userID string) ([]*models.TradingPlan, error)
	updateFn func(ctx context.Context, userID, planID string, in services.PlanUpdate) (*models.TradingPlan, error)
	deleteFn func(ctx context.Context, userID, planID string) error
}

func (s stubPlanService) Create(ctx context.Context, userID string, in services.PlanInput) (*models.TradingPlan, error) {
	return s.createFn(ctx, userID, in)
}

func (s stubPlanService) Get(ctx context.Context, userID, planID string) (*models.TradingPlan, error) {
	return s.getFn(ctx, userID, planID)
}

func (s stubPlanService) List(ctx context.Context, userID string) ([]*models.TradingPlan, error) {
	return s.listFn(ctx, userID)
}

func (s stubPlanService) Update(ctx context.Context, userID, planID string, in services.PlanUpdate) (*models.TradingPlan, error) {
	return s.updateFn(ctx, userID, planID, in)
}

func (s stubPlanService) Delete(ctx context.Context, userID, planID string) error {
	return s.deleteFn(ctx, userID, planID)
}

type stubStrategyService struct {
	createFn       func(ctx context.Context, userID string, in services.StrategyInput) (*models.Strategy, error)
	getFn          func(ctx context.Context, strategyID string) (*models.Strategy, error)
	listFn         func(ctx context.Context, limit, offset int) ([]*models.Strategy, error)
	updateFn       func(ctx context.Context, userID, strategyID string, in services.StrategyUpdate) (*models.Strategy, error)
	deleteFn       func(ctx context.Context, userID, strategyID string) error
	tradesFn       func(ctx context.Context, userID, strategyID string) ([]*models.Trade, error)
	performancesFn func(ctx context.Context, userID, strategyID string) ([]*models.Performance, error)
}

func (s stubStrategyService) Create(ctx context.Context, userID string, in services.StrategyInput) (*models.Strategy, error) {
	return s.createFn(ctx, userID, in)
}

func (s stubStrategyService) Get(ctx context.Context, strategyID string) (*models.Strategy, error) {
	return s.getFn(ctx, strategyID)
}

func (s stubStrategyService) List(ctx context.Context, limit, offset int) ([]*models.Strategy, error) {
	return s.listFn(ctx, limit, offset)
}

func (s stubStrategyService) Update(ctx context.Context, userID, strategyID string, in services.StrategyUpdate) (*models.Strategy, error) {
	return s.updateFn(ctx, userID, strategyID, in)
}

func (s stubStrategyService) Delete(ctx context.Context, userID, strategyID string) error {
	return s.deleteFn(ctx, userID, strategyID)
}

func (s stubStrategyService) Trades(ctx context.Context, userID, strategyID string) ([]*models.Trade, error) {
	return s.tradesFn(ctx, userID, strategyID)
}

func (s stubStrategyService) Performances(ctx context.Context, userID, strategyID string) ([]*models.Performance, error) {
	return s.performancesFn(ctx, userID, strategyID)
}

type stubTradeService struct {
	createFn     func(ctx context.Context, userID string, in services.TradeInput) (*models.Trade, error)
	getFn        func(ctx context.Context, userID, tradeID string) (*models.Trade, error)
	listByPlanFn func(ctx context.Context, userID, planID string) ([]*models.Trade, error)
	updateFn     func(ctx context.Context, userID, tradeID string, in services.TradeUpdate) (*models.Trade, error)
	deleteFn     func(ctx context.Context, userID, tradeID string) error
}

func (s stubTradeService) Create(ctx context.Context, userID string, in services.TradeInput) (*models.Trade, error) {
	return s.createFn(ctx, userID, in)
}

func (s stubTradeService) Get(ctx context.Context, userID, tradeID string) (*models.Trade, error) {
	return s.getFn(ctx, userID, tradeID)
}

func (s stubTradeService) ListByPlan(ctx context.Context, userID, planID string) ([]*models.Trade, error) {
	return s.listByPlanFn(ctx, userID, planID)
}

func (s stubTradeService) Update(ctx context.Context, userID, tradeID string, in services.TradeUpdate) (*models.Trade, error) {
	return s.updateFn(ctx, userID, tradeID, in)
}

func (s stubTradeService) Delete(ctx context.Context, userID, tradeID string) error {
	return s.deleteFn(ctx, userID, tradeID)
}

type stubJournalService struct {
	createFn     func(ctx context.Context, userID string, in services.JournalInput) (*models.Journal, error)
	getFn        func(ctx context.Context, userID, journalID string) (*models.Journal, error)
	getByTradeFn func(ctx context.Context, userID, tradeID string) (*models.Journal, error)
	listByPlanFn func(ctx context.Context, userID, planID string) ([]*models.Journal, error)
	updateFn     func(ctx context.Context, userID, journalID string, in services.JournalUpdate) (*models.Journal, error)
	deleteFn     func(ctx context.Context, userID, journalID string) error
}

func (s stubJournalService) Create(ctx context.Context, userID string, in services.JournalInput) (*models.Journal, error) {
	return s.createFn(ctx, userID, in)
}

func (s stubJournalService) Get(ctx context.Context, userID, journalID string) (*models.Journal, error) {
	return s.getFn(ctx, userID, journalID)
}

func (s stubJournalService) GetByTrade(ctx context.Context, userID, tradeID string) (*models.Journal, error) {
	return s.getByTradeFn(ctx, userID, tradeID)
}

func (s stubJournalService) ListByPlan(ctx context.Context, userID, planID string) ([]*models.Journal, error) {
	return s.listByPlanFn(ctx, userID, planID)
}

func (s stubJournalService) Update(ctx context.Context, userID, journalID string, in services.JournalUpdate) (*models.Journal, error) {
	return s.updateFn(ctx, userID, journalID, in)
}

func (s stubJournalService) Delete(ctx context.Context, userID, journalID string) error {
	return s.deleteFn(ctx, userID, journalID)
}

type stubPerformanceService struct {
	createFn     func(ctx context.Context, userID string, in services.PerformanceInput) (*models.Performance, error)
	getFn        func(ctx context.Context, userID, performanceID string) (*models.Performance, error)
	listByPlanFn func(ctx context.Context, userID, planID string) ([]*models.Performance, error)
	updateFn     func(ctx context.Context, userID, performanceID string, in services.PerformanceUpdate) (*models.Performance, error)
	deleteFn     func(ctx context.Context, userID, performanceID string) error
}

func (s stubPerformanceService) Create(ctx context.Context, userID string, in services.PerformanceInput) (*models.Performance, error) {
	return s.createFn(ctx, userID, in)
}

func (s stubPerformanceService) Get(ctx context.Context, userID, performanceID string) (*models.Performance, error) {
	return s.getFn(ctx, userID, performanceID)
}

func (s stubPerformanceService) ListByPlan(ctx context.Context, userID, planID string) ([]*models.Performance, error) {
	return s.listByPlanFn(ctx, userID, planID)
}

func (s stubPerformanceService) Update(ctx context.Context, userID, performanceID string, in services.PerformanceUpdate) (*models.Performance, error) {
	return s.updateFn(ctx, userID, performanceID, in)
}

func (s stubPerformanceService) Delete(ctx context.Context, userID, performanceID string) error {
	return s.deleteFn(ctx, userID, performanceID)
}

type stubUserLookup map[string]*models.User

func (s stubUserLookup) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, ok := s[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return user, nil
}

// testServices holds the stubs a test cares about. Unset fns are nil, so a
// route that reaches one panics and Recoverer answers 500.
type testServices struct {
	auth         stubAuthService
	users        stubUserService
	plans        stubPlanService
	strategies   stubStrategyService
	trades       stubTradeService
	journals     stubJournalService
	performances stubPerformanceService
	roles        stubUserLookup
}

func newTestHandler(svc testServices) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		AccessTokenTTL: time.Minute,
		AllowedOrigins: "*",
	}
	return New(cfg, svc.auth, svc.users, svc.plans, svc.strategies, svc.trades, svc.journals, svc.performances, svc.roles, websocket.NewHub())
}

// serve routes a request through the full router, authenticated as userID
// when it is not empty.
func serve(t *testing.T, h *Handler, method, path string, body any, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(v)
	default:
		payload, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := auth.GenerateToken("secret", userID, time.Minute)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rr.Code, rr.Body.String())
	}
}

func testUser(id, role string) *models.User {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	return &models.User{
		ID:        id,
		Email:     id + "@example.com",
		Username:  id,
		IsActive:  true,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func stringPtr(value string) *string {
	return &value
}
