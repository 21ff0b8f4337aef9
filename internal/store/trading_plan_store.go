package store

import (
	"context"
	"fmt"
	"time"

	"tradejournal/internal/db"
	"tradejournal/internal/models"
)

type TradingPlanStore struct {
	db DB
}

func NewTradingPlanStore(db DB) *TradingPlanStore {
	return &TradingPlanStore{db: db}
}

const planColumns = `id, user_id, name, type, risk_management, entry_rules, exit_rules, timeframes,
	position_sizing, markets, notes, version, is_active, plan_images, created_at, updated_at`

type planRow struct {
	ID             string          `db:"id"`
	UserID         string          `db:"user_id"`
	Name           string          `db:"name"`
	Type           string          `db:"type"`
	RiskManagement models.Document `db:"risk_management"`
	EntryRules     models.Document `db:"entry_rules"`
	ExitRules      models.Document `db:"exit_rules"`
	Timeframes     models.Document `db:"timeframes"`
	PositionSizing models.Document `db:"position_sizing"`
	Markets        models.Document `db:"markets"`
	Notes          *string         `db:"notes"`
	Version        int             `db:"version"`
	IsActive       bool            `db:"is_active"`
	PlanImages     models.Images   `db:"plan_images"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

func (r planRow) model() (*models.TradingPlan, error) {
	plan, err := models.RestoreTradingPlan(models.TradingPlan{
		ID:             r.ID,
		UserID:         r.UserID,
		Name:           r.Name,
		Type:           r.Type,
		RiskManagement: r.RiskManagement,
		EntryRules:     r.EntryRules,
		ExitRules:      r.ExitRules,
		Timeframes:     r.Timeframes,
		PositionSizing: r.PositionSizing,
		Markets:        r.Markets,
		Notes:          r.Notes,
		Version:        r.Version,
		IsActive:       r.IsActive,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}, r.PlanImages)
	if err != nil {
		return nil, fmt.Errorf("load trading plan %s: %w", r.ID, err)
	}
	return plan, nil
}

func (s *TradingPlanStore) Create(ctx context.Context, tx Execer, p *models.TradingPlan) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO trading_plans (id, user_id, name, type, risk_management, entry_rules, exit_rules,
			timeframes, position_sizing, markets, notes, version, is_active, plan_images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, p.ID, p.UserID, p.Name, p.Type, p.RiskManagement, p.EntryRules, p.ExitRules,
		p.Timeframes, p.PositionSizing, p.Markets, p.Notes, p.Version, p.IsActive, p.PlanImages(),
		p.CreatedAt, p.UpdatedAt)
	return db.MapError(err)
}

func (s *TradingPlanStore) get(ctx context.Context, q Getter, query, planID string) (*models.TradingPlan, error) {
	var row planRow
	if err := q.GetContext(ctx, &row, query, planID); err != nil {
		return nil, db.MapError(err)
	}
	return row.model()
}

func (s *TradingPlanStore) GetByID(ctx context.Context, planID string) (*models.TradingPlan, error) {
	return s.get(ctx, s.db, `SELECT `+planColumns+` FROM trading_plans WHERE id = $1`, planID)
}

func (s *TradingPlanStore) GetForUpdate(ctx context.Context, tx Getter, planID string) (*models.TradingPlan, error) {
	return s.get(ctx, tx, `SELECT `+planColumns+` FROM trading_plans WHERE id = $1 FOR UPDATE`, planID)
}

func (s *TradingPlanStore) ListByUser(ctx context.Context, userID string) ([]*models.TradingPlan, error) {
	var rows []planRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+planColumns+`
		FROM trading_plans
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, db.MapError(err)
	}
	plans := make([]*models.TradingPlan, 0, len(rows))
	for _, row := range rows {
		plan, err := row.model()
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// IDsByUser lists plan ids inside a transaction so a cascade sees the same set
// it deletes.
func (s *TradingPlanStore) IDsByUser(ctx context.Context, tx Selecter, userID string) ([]string, error) {
	var ids []string
	err := tx.SelectContext(ctx, &ids, `SELECT id FROM trading_plans WHERE user_id = $1 FOR UPDATE`, userID)
	if err != nil {
		return nil, db.MapError(err)
	}
	return ids, nil
}

func (s *TradingPlanStore) Update(ctx context.Context, tx Execer, p *models.TradingPlan) error {
	return execOne(ctx, tx, `
		UPDATE trading_plans
		SET name = $1, type = $2, risk_management = $3, entry_rules = $4, exit_rules = $5,
			timeframes = $6, position_sizing = $7, markets = $8, notes = $9, version = $10,
			is_active = $11, plan_images = $12, updated_at = $13
		WHERE id = $14
	`, p.Name, p.Type, p.RiskManagement, p.EntryRules, p.ExitRules,
		p.Timeframes, p.PositionSizing, p.Markets, p.Notes, p.Version,
		p.IsActive, p.PlanImages(), p.UpdatedAt, p.ID)
}

func (s *TradingPlanStore) Delete(ctx context.Context, tx Execer, planID string) error {
	return execOne(ctx, tx, `DELETE FROM trading_plans WHERE id = $1`, planID)
}

func (s *TradingPlanStore) DeleteByUser(ctx context.Context, tx Execer, userID string) (int64, error) {
	return execMany(ctx, tx, `DELETE FROM trading_plans WHERE user_id = $1`, userID)
}
