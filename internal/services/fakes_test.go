package services

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"

	"tradejournal/internal/models"
	"tradejournal/internal/store"
	"tradejournal/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

// retryingTxRunner replays fn the way db.WithTx does after a serialization
// failure: the first failures attempts are rolled back and run again.
type retryingTxRunner struct {
	db       *memDB
	failures int
}

func (r retryingTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	for attempt := 0; ; attempt++ {
		snap := r.db.snapshot()
		err := fn(nil)
		if err != nil || attempt >= r.failures {
			return err
		}
		r.db.restore(snap)
	}
}

// memDB backs the in-memory stores below. Reads hand out copies so a service
// only changes state through Update.
type memDB struct {
	mu           sync.Mutex
	users        map[string]models.User
	plans        map[string]models.TradingPlan
	strategies   map[string]models.Strategy
	trades       map[string]models.Trade
	journals     map[string]models.Journal
	performances map[string]models.Performance
	audit        []store.AuditEntry
}

func newMemDB() *memDB {
	return &memDB{
		users:        map[string]models.User{},
		plans:        map[string]models.TradingPlan{},
		strategies:   map[string]models.Strategy{},
		trades:       map[string]models.Trade{},
		journals:     map[string]models.Journal{},
		performances: map[string]models.Performance{},
	}
}

func (m *memDB) snapshot() *memDB {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &memDB{
		users:        maps.Clone(m.users),
		plans:        maps.Clone(m.plans),
		strategies:   maps.Clone(m.strategies),
		trades:       maps.Clone(m.trades),
		journals:     maps.Clone(m.journals),
		performances: maps.Clone(m.performances),
		audit:        slices.Clone(m.audit),
	}
}

func (m *memDB) restore(snap *memDB) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = snap.users
	m.plans = snap.plans
	m.strategies = snap.strategies
	m.trades = snap.trades
	m.journals = snap.journals
	m.performances = snap.performances
	m.audit = snap.audit
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

type memUsers struct{ db *memDB }

func (s memUsers) Create(_ context.Context, _ store.Execer, u *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return &models.IntegrityError{Constraint: "users_email_key", Kind: models.IntegrityUnique}
		}
	}
	s.db.users[u.ID] = *u
	return nil
}

func (s memUsers) GetByID(_ context.Context, userID string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (s memUsers) find(match func(models.User) bool) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Email == email })
}

func (s memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Username == username })
}

func (s memUsers) GetForUpdate(ctx context.Context, _ store.Getter, userID string) (*models.User, error) {
	return s.GetByID(ctx, userID)
}

func (s memUsers) List(_ context.Context, limit, offset int) ([]*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]*models.User, 0, len(s.db.users))
	for _, u := range s.db.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return page(out, limit, offset), nil
}

func (s memUsers) Update(_ context.Context, _ store.Execer, u *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[u.ID]; !ok {
		return models.ErrNotFound
	}
	s.db.users[u.ID] = *u
	return nil
}

func (s memUsers) Delete(_ context.Context, _ store.Execer, userID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[userID]; !ok {
		return models.ErrNotFound
	}
	delete(s.db.users, userID)
	return nil
}

type memPlans struct{ db *memDB }

func (s memPlans) Create(_ context.Context, _ store.Execer, p *models.TradingPlan) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.plans[p.ID] = *p
	return nil
}

func (s memPlans) GetByID(_ context.Context, planID string) (*models.TradingPlan, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.plans[planID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (s memPlans) GetForUpdate(ctx context.Context, _ store.Getter, planID string) (*models.TradingPlan, error) {
	return s.GetByID(ctx, planID)
}

func (s memPlans) ListByUser(_ context.Context, userID string) ([]*models.TradingPlan, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []*models.TradingPlan{}
	for _, p := range s.db.plans {
		if p.UserID == userID {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (s memPlans) IDsByUser(ctx context.Context, _ store.Selecter, userID string) ([]string, error) {
	plans, _ := s.ListByUser(ctx, userID)
	ids := make([]string, 0, len(plans))
	for _, p := range plans {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (s memPlans) Update(_ context.Context, _ store.Execer, p *models.TradingPlan) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.plans[p.ID]; !ok {
		return models.ErrNotFound
	}
	s.db.plans[p.ID] = *p
	return nil
}

func (s memPlans) Delete(_ context.Context, _ store.Execer, planID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.plans[planID]; !ok {
		return models.ErrNotFound
	}
	delete(s.db.plans, planID)
	return nil
}

func (s memPlans) DeleteByUser(_ context.Context, _ store.Execer, userID string) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for id, p := range s.db.plans {
		if p.UserID == userID {
			delete(s.db.plans, id)
			n++
		}
	}
	return n, nil
}

type memStrategies struct{ db *memDB }

func (s memStrategies) Create(_ context.Context, _ store.Execer, st *models.Strategy) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.strategies[st.ID] = *st
	return nil
}

func (s memStrategies) GetByID(_ context.Context, strategyID string) (*models.Strategy, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	st, ok := s.db.strategies[strategyID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &st, nil
}

func (s memStrategies) GetForUpdate(ctx context.Context, _ store.Getter, strategyID string) (*models.Strategy, error) {
	return s.GetByID(ctx, strategyID)
}

func (s memStrategies) List(_ context.Context, limit, offset int) ([]*models.Strategy, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]*models.Strategy, 0, len(s.db.strategies))
	for _, st := range s.db.strategies {
		st := st
		out = append(out, &st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (s memStrategies) Update(_ context.Context, _ store.Execer, st *models.Strategy) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.strategies[st.ID]; !ok {
		return models.ErrNotFound
	}
	s.db.strategies[st.ID] = *st
	return nil
}

func (s memStrategies) Delete(_ context.Context, _ store.Execer, strategyID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.strategies[strategyID]; !ok {
		return models.ErrNotFound
	}
	delete(s.db.strategies, strategyID)
	return nil
}

type memTrades struct{ db *memDB }

func (s memTrades) Create(_ context.Context, _ store.Execer, t *models.Trade) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.trades[t.ID] = *t
	return nil
}

func (s memTrades) GetByID(_ context.Context, tradeID string) (*models.Trade, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	t, ok := s.db.trades[tradeID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &t, nil
}

func (s memTrades) GetForUpdate(ctx context.Context, _ store.Getter, tradeID string) (*models.Trade, error) {
	return s.GetByID(ctx, tradeID)
}

func (s memTrades) filter(match func(models.Trade) bool) []*models.Trade {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []*models.Trade{}
	for _, t := range s.db.trades {
		if match(t) {
			t := t
			out = append(out, &t)
		}
	}
	return out
}

func (s memTrades) ListByTradingPlan(_ context.Context, planID string) ([]*models.Trade, error) {
	return s.filter(func(t models.Trade) bool { return t.TradingPlanID == planID }), nil
}

func (s memTrades) ListByStrategy(_ context.Context, strategyID, userID string) ([]*models.Trade, error) {
	return s.filter(func(t models.Trade) bool {
		return t.StrategyID != nil && *t.StrategyID == strategyID && s.db.plans[t.TradingPlanID].UserID == userID
	}), nil
}

func (s memTrades) Update(_ context.Context, _ store.Execer, t *models.Trade) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.trades[t.ID]; !ok {
		return models.ErrNotFound
	}
	s.db.trades[t.ID] = *t
	return nil
}

func (s memTrades) Delete(_ context.Context, _ store.Execer, tradeID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.trades[tradeID]; !ok {
		return models.ErrNotFound
	}
	delete(s.db.trades, tradeID)
	return nil
}

func (s memTrades) DeleteByTradingPlan(_ context.Context, _ store.Execer, planID string) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for id, t := range s.db.trades {
		if t.TradingPlanID == planID {
			delete(s.db.trades, id)
			n++
		}
	}
	return n, nil
}

func (s memTrades) ClearStrategy(_ context.Context, _ store.Execer, strategyID string) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for id, t := range s.db.trades {
		if t.StrategyID != nil && *t.StrategyID == strategyID {
			t.StrategyID = nil
			s.db.trades[id] = t
			n++
		}
	}
	return n, nil
}

type memJournals struct{ db *memDB }

func (s memJournals) Create(_ context.Context, _ store.Execer, j *models.Journal) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.journals {
		if existing.TradeID == j.TradeID {
			return &models.IntegrityError{Constraint: journalTradeConstraint, Kind: models.IntegrityUnique}
		}
	}
	s.db.journals[j.ID] = *j
	return nil
}

func (s memJournals) GetByID(_ context.Context, journalID string) (*models.Journal, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	j, ok := s.db.journals[journalID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &j, nil
}

func (s memJournals) GetForUpdate(ctx context.Context, _ store.Getter, journalID string) (*models.Journal, error) {
	return s.GetByID(ctx, journalID)
}

func (s memJournals) GetByTrade(_ context.Context, tradeID string) (*models.Journal, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, j := range s.db.journals {
		if j.TradeID == tradeID {
			return &j, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s memJournals) ExistsForTrade(ctx context.Context, _ store.Getter, tradeID string) (bool, error) {
	_, err := s.GetByTrade(ctx, tradeID)
	return err == nil, nil
}

func (s memJournals) ListByTradingPlan(_ context.Context, planID string) ([]*models.Journal, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []*models.Journal{}
	for _, j := range s.db.journals {
		if j.TradingPlanID == planID {
			j := j
			out = append(out, &j)
		}
	}
	return out, nil
}

func (s memJournals) Update(_ context.Context, _ store.Execer, j *models.Journal) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.journals[j.ID]; !ok {
		return models.ErrNotFound
	}
	s.db.journals[j.ID] = *j
	return nil
}

func (s memJournals) Delete(_ context.Context, _ store.Execer, journalID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.journals[journalID]; !ok {
		return models.ErrNotFound
	}
	delete(s.db.journals, journalID)
	return nil
}

func (s memJournals) deleteWhere(match func(models.Journal) bool) int64 {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for id, j := range s.db.journals {
		if match(j) {
			delete(s.db.journals, id)
			n++
		}
	}
	return n
}

func (s memJournals) DeleteByTrade(_ context.Context, _ store.Execer, tradeID string) (int64, error) {
	return s.deleteWhere(func(j models.Journal) bool { return j.TradeID == tradeID }), nil
}

func (s memJournals) DeleteByTradingPlan(_ context.Context, _ store.Execer, planID string) (int64, error) {
	return s.deleteWhere(func(j models.Journal) bool {
		return j.TradingPlanID == planID || s.db.trades[j.TradeID].TradingPlanID == planID
	}), nil
}

type memPerformances struct{ db *memDB }

func (s memPerformances) Create(_ context.Context, _ store.Execer, p *models.Performance) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.performances[p.ID] = *p
	return nil
}

func (s memPerformances) GetByID(_ context.Context, performanceID string) (*models.Performance, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.performances[performanceID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (s memPerformances) GetForUpdate(ctx context.Context, _ store.Getter, performanceID string) (*models.Performance, error) {
	return s.GetByID(ctx, performanceID)
}

func (s memPerformances) filter(match func(models.Performance) bool) []*models.Performance {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []*models.Performance{}
	for _, p := range s.db.performances {
		if match(p) {
			p := p
			out = append(out, &p)
		}
	}
	return out
}

func (s memPerformances) ListByTradingPlan(_ context.Context, planID string) ([]*models.Performance, error) {
	return s.filter(func(p models.Performance) bool { return p.TradingPlanID == planID }), nil
}

func (s memPerformances) ListByStrategy(_ context.Context, strategyID, userID string) ([]*models.Performance, error) {
	return s.filter(func(p models.Performance) bool {
		return p.StrategyID == strategyID && s.db.plans[p.TradingPlanID].UserID == userID
	}), nil
}

func (s memPerformances) Update(_ context.Context, _ store.Execer, p *models.Performance) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.performances[p.ID]; !ok {
		return models.ErrNotFound
	}
	s.db.performances[p.ID] = *p
	return nil
}

func (s memPerformances) Delete(_ context.Context, _ store.Execer, performanceID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.performances[performanceID]; !ok {
		return models.ErrNotFound
	}
	delete(s.db.performances, performanceID)
	return nil
}

func (s memPerformances) deleteWhere(match func(models.Performance) bool) int64 {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for id, p := range s.db.performances {
		if match(p) {
			delete(s.db.performances, id)
			n++
		}
	}
	return n
}

func (s memPerformances) DeleteByTradingPlan(_ context.Context, _ store.Execer, planID string) (int64, error) {
	return s.deleteWhere(func(p models.Performance) bool { return p.TradingPlanID == planID }), nil
}

func (s memPerformances) DeleteByStrategy(_ context.Context, _ store.Execer, strategyID string) (int64, error) {
	return s.deleteWhere(func(p models.Performance) bool { return p.StrategyID == strategyID }), nil
}

type memAudit struct{ db *memDB }

func (s memAudit) Log(_ context.Context, _ store.Execer, entry store.AuditEntry) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.audit = append(s.db.audit, entry)
	return nil
}

func (s memAudit) List(_ context.Context, limit, offset int) ([]store.AuditEntry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := append([]store.AuditEntry{}, s.db.audit...)
	return page(out, limit, offset), nil
}

func (s memAudit) actions() []string {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]string, 0, len(s.db.audit))
	for _, entry := range s.db.audit {
		out = append(out, entry.Action)
	}
	return out
}

type stubHub struct {
	mu     sync.Mutex
	events map[string][]websocket.Event
}

func (s *stubHub) Publish(userID string, event websocket.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.events == nil {
		s.events = map[string][]websocket.Event{}
	}
	s.events[userID] = append(s.events[userID], event)
}

func (s *stubHub) types(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []string{}
	for _, event := range s.events[userID] {
		out = append(out, event.Type)
	}
	return out
}
