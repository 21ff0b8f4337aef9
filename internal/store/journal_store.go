package store

import (
	"context"
	"fmt"
	"time"

	"tradejournal/internal/db"
	"tradejournal/internal/models"
)

type JournalStore struct {
	db DB
}

func NewJournalStore(db DB) *JournalStore {
	return &JournalStore{db: db}
}

const journalColumns = `id, trade_id, trading_plan_id, notes, emotions, market_conditions,
	plan_adherence, images, created_at, updated_at`

type journalRow struct {
	ID               string          `db:"id"`
	TradeID          string          `db:"trade_id"`
	TradingPlanID    string          `db:"trading_plan_id"`
	Notes            *string         `db:"notes"`
	Emotions         *string         `db:"emotions"`
	MarketConditions models.Document `db:"market_conditions"`
	PlanAdherence    models.Document `db:"plan_adherence"`
	Images           models.Images   `db:"images"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

func (r journalRow) model() (*models.Journal, error) {
	journal, err := models.RestoreJournal(models.Journal{
		ID:               r.ID,
		TradeID:          r.TradeID,
		TradingPlanID:    r.TradingPlanID,
		Notes:            r.Notes,
		Emotions:         r.Emotions,
		MarketConditions: r.MarketConditions,
		PlanAdherence:    r.PlanAdherence,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}, r.Images)
	if err != nil {
		return nil, fmt.Errorf("load journal %s: %w", r.ID, err)
	}
	return journal, nil
}

func (s *JournalStore) Create(ctx context.Context, tx Execer, j *models.Journal) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO journal_entries (id, trade_id, trading_plan_id, notes, emotions,
			market_conditions, plan_adherence, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, j.ID, j.TradeID, j.TradingPlanID, j.Notes, j.Emotions,
		j.MarketConditions, j.PlanAdherence, j.Images(), j.CreatedAt, j.UpdatedAt)
	return db.MapError(err)
}

func (s *JournalStore) get(ctx context.Context, q Getter, query, arg string) (*models.Journal, error) {
	var row journalRow
	if err := q.GetContext(ctx, &row, query, arg); err != nil {
		return nil, db.MapError(err)
	}
	return row.model()
}

func (s *JournalStore) GetByID(ctx context.Context, journalID string) (*models.Journal, error) {
	return s.get(ctx, s.db, `SELECT `+journalColumns+` FROM journal_entries WHERE id = $1`, journalID)
}

func (s *JournalStore) GetForUpdate(ctx context.Context, tx Getter, journalID string) (*models.Journal, error) {
	return s.get(ctx, tx, `SELECT `+journalColumns+` FROM journal_entries WHERE id = $1 FOR UPDATE`, journalID)
}

// GetByTrade returns the single journal entry of a trade.
func (s *JournalStore) GetByTrade(ctx context.Context, tradeID string) (*models.Journal, error) {
	return s.get(ctx, s.db, `SELECT `+journalColumns+` FROM journal_entries WHERE trade_id = $1`, tradeID)
}

// ExistsForTrade is read inside the creating transaction; the unique index on
// trade_id backs it up.
func (s *JournalStore) ExistsForTrade(ctx context.Context, tx Getter, tradeID string) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM journal_entries WHERE trade_id = $1)`, tradeID)
	if err != nil {
		return false, db.MapError(err)
	}
	return exists, nil
}

func (s *JournalStore) ListByTradingPlan(ctx context.Context, planID string) ([]*models.Journal, error) {
	var rows []journalRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+journalColumns+`
		FROM journal_entries
		WHERE trading_plan_id = $1
		ORDER BY created_at DESC
	`, planID)
	if err != nil {
		return nil, db.MapError(err)
	}
	journals := make([]*models.Journal, 0, len(rows))
	for _, row := range rows {
		journal, err := row.model()
		if err != nil {
			return nil, err
		}
		journals = append(journals, journal)
	}
	return journals, nil
}

func (s *JournalStore) Update(ctx context.Context, tx Execer, j *models.Journal) error {
	return execOne(ctx, tx, `
		UPDATE journal_entries
		SET trading_plan_id = $1, notes = $2, emotions = $3, market_conditions = $4,
			plan_adherence = $5, images = $6, updated_at = $7
		WHERE id = $8
	`, j.TradingPlanID, j.Notes, j.Emotions, j.MarketConditions,
		j.PlanAdherence, j.Images(), j.UpdatedAt, j.ID)
}

func (s *JournalStore) Delete(ctx context.Context, tx Execer, journalID string) error {
	return execOne(ctx, tx, `DELETE FROM journal_entries WHERE id = $1`, journalID)
}

func (s *JournalStore) DeleteByTrade(ctx context.Context, tx Execer, tradeID string) (int64, error) {
	return execMany(ctx, tx, `DELETE FROM journal_entries WHERE trade_id = $1`, tradeID)
}

// DeleteByTradingPlan removes entries filed under the plan as well as entries
// of the plan's trades that were filed under another plan.
func (s *JournalStore) DeleteByTradingPlan(ctx context.Context, tx Execer, planID string) (int64, error) {
	return execMany(ctx, tx, `
		DELETE FROM journal_entries
		WHERE trading_plan_id = $1
		   OR trade_id IN (SELECT id FROM trades WHERE trading_plan_id = $1)
	`, planID)
}
