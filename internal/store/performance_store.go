package store

import (
	"context"
	"time"

	"tradejournal/internal/db"
	"tradejournal/internal/models"
)

type PerformanceStore struct {
	db DB
}

func NewPerformanceStore(db DB) *PerformanceStore {
	return &PerformanceStore{db: db}
}

const performanceColumns = `pm.id, pm.strategy_id, pm.trading_plan_id, pm.metrics, pm.timeframe, pm.period,
	pm.created_at, pm.updated_at`

type performanceRow struct {
	ID            string          `db:"id"`
	StrategyID    string          `db:"strategy_id"`
	TradingPlanID string          `db:"trading_plan_id"`
	Metrics       models.Document `db:"metrics"`
	Timeframe     string          `db:"timeframe"`
	Period        string          `db:"period"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (r performanceRow) model() *models.Performance {
	return &models.Performance{
		ID:            r.ID,
		StrategyID:    r.StrategyID,
		TradingPlanID: r.TradingPlanID,
		Metrics:       r.Metrics,
		Timeframe:     r.Timeframe,
		Period:        r.Period,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func performanceModels(rows []performanceRow) []*models.Performance {
	out := make([]*models.Performance, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out
}

func (s *PerformanceStore) Create(ctx context.Context, tx Execer, p *models.Performance) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO performance_metrics (id, strategy_id, trading_plan_id, metrics, timeframe, period,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.StrategyID, p.TradingPlanID, p.Metrics, p.Timeframe, p.Period, p.CreatedAt, p.UpdatedAt)
	return db.MapError(err)
}

func (s *PerformanceStore) get(ctx context.Context, q Getter, query, performanceID string) (*models.Performance, error) {
	var row performanceRow
	if err := q.GetContext(ctx, &row, query, performanceID); err != nil {
		return nil, db.MapError(err)
	}
	return row.model(), nil
}

func (s *PerformanceStore) GetByID(ctx context.Context, performanceID string) (*models.Performance, error) {
	return s.get(ctx, s.db, `SELECT `+performanceColumns+` FROM performance_metrics pm WHERE pm.id = $1`, performanceID)
}

func (s *PerformanceStore) GetForUpdate(ctx context.Context, tx Getter, performanceID string) (*models.Performance, error) {
	return s.get(ctx, tx, `SELECT `+performanceColumns+` FROM performance_metrics pm WHERE pm.id = $1 FOR UPDATE`, performanceID)
}

func (s *PerformanceStore) ListByTradingPlan(ctx context.Context, planID string) ([]*models.Performance, error) {
	var rows []performanceRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+performanceColumns+`
		FROM performance_metrics pm
		WHERE pm.trading_plan_id = $1
		ORDER BY pm.created_at DESC
	`, planID)
	if err != nil {
		return nil, db.MapError(err)
	}
	return performanceModels(rows), nil
}

// ListByStrategy only returns records filed under plans of userID.
func (s *PerformanceStore) ListByStrategy(ctx context.Context, strategyID, userID string) ([]*models.Performance, error) {
	var rows []performanceRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+performanceColumns+`
		FROM performance_metrics pm
		JOIN trading_plans p ON p.id = pm.trading_plan_id
		WHERE pm.strategy_id = $1 AND p.user_id = $2
		ORDER BY pm.created_at DESC
	`, strategyID, userID)
	if err != nil {
		return nil, db.MapError(err)
	}
	return performanceModels(rows), nil
}

func (s *PerformanceStore) Update(ctx context.Context, tx Execer, p *models.Performance) error {
	return execOne(ctx, tx, `
		UPDATE performance_metrics
		SET strategy_id = $1, trading_plan_id = $2, metrics = $3, timeframe = $4, period = $5, updated_at = $6
		WHERE id = $7
	`, p.StrategyID, p.TradingPlanID, p.Metrics, p.Timeframe, p.Period, p.UpdatedAt, p.ID)
}

func (s *PerformanceStore) Delete(ctx context.Context, tx Execer, performanceID string) error {
	return execOne(ctx, tx, `DELETE FROM performance_metrics WHERE id = $1`, performanceID)
}

func (s *PerformanceStore) DeleteByTradingPlan(ctx context.Context, tx Execer, planID string) (int64, error) {
	return execMany(ctx, tx, `DELETE FROM performance_metrics WHERE trading_plan_id = $1`, planID)
}

func (s *PerformanceStore) DeleteByStrategy(ctx context.Context, tx Execer, strategyID string) (int64, error) {
	return execMany(ctx, tx, `DELETE FROM performance_metrics WHERE strategy_id = $1`, strategyID)
}
