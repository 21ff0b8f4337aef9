package store

import (
	"context"
	"fmt"
	"time"

	"tradejournal/internal/db"
	"tradejournal/internal/models"

	"github.com/shopspring/decimal"
)

type TradeStore struct {
	db DB
}

func NewTradeStore(db DB) *TradeStore {
	return &TradeStore{db: db}
}

const tradeColumns = `t.id, t.trading_plan_id, t.strategy_id, t.entry_price, t.exit_price, t.entry_time,
	t.exit_time, t.symbol, t.position_size, t.timeframe, t.entry_fee, t.exit_fee,
	t.entry_image_url, t.exit_image_url, t.created_at, t.updated_at`

type tradeRow struct {
	ID            string              `db:"id"`
	TradingPlanID string              `db:"trading_plan_id"`
	StrategyID    *string             `db:"strategy_id"`
	EntryPrice    decimal.Decimal     `db:"entry_price"`
	ExitPrice     decimal.NullDecimal `db:"exit_price"`
	EntryTime     time.Time           `db:"entry_time"`
	ExitTime      *time.Time          `db:"exit_time"`
	Symbol        string              `db:"symbol"`
	PositionSize  decimal.Decimal     `db:"position_size"`
	Timeframe     *string             `db:"timeframe"`
	EntryFee      decimal.Decimal     `db:"entry_fee"`
	ExitFee       decimal.Decimal     `db:"exit_fee"`
	EntryImageURL *string             `db:"entry_image_url"`
	ExitImageURL  *string             `db:"exit_image_url"`
	CreatedAt     time.Time           `db:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at"`
}

func (r tradeRow) model() (*models.Trade, error) {
	trade, err := models.RestoreTrade(models.Trade{
		ID:            r.ID,
		TradingPlanID: r.TradingPlanID,
		StrategyID:    r.StrategyID,
		EntryPrice:    r.EntryPrice,
		ExitPrice:     r.ExitPrice,
		EntryTime:     r.EntryTime,
		ExitTime:      r.ExitTime,
		Symbol:        r.Symbol,
		PositionSize:  r.PositionSize,
		Timeframe:     r.Timeframe,
		EntryFee:      r.EntryFee,
		ExitFee:       r.ExitFee,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, r.EntryImageURL, r.ExitImageURL)
	if err != nil {
		return nil, fmt.Errorf("load trade %s: %w", r.ID, err)
	}
	return trade, nil
}

func tradeModels(rows []tradeRow) ([]*models.Trade, error) {
	trades := make([]*models.Trade, 0, len(rows))
	for _, row := range rows {
		trade, err := row.model()
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

func (s *TradeStore) Create(ctx context.Context, tx Execer, t *models.Trade) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO trades (id, trading_plan_id, strategy_id, entry_price, exit_price, entry_time,
			exit_time, symbol, position_size, timeframe, entry_fee, exit_fee,
			entry_image_url, exit_image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, t.ID, t.TradingPlanID, t.StrategyID, t.EntryPrice, t.ExitPrice, t.EntryTime,
		t.ExitTime, t.Symbol, t.PositionSize, t.Timeframe, t.EntryFee, t.ExitFee,
		t.EntryImage(), t.ExitImage(), t.CreatedAt, t.UpdatedAt)
	return db.MapError(err)
}

func (s *TradeStore) get(ctx context.Context, q Getter, query, tradeID string) (*models.Trade, error) {
	var row tradeRow
	if err := q.GetContext(ctx, &row, query, tradeID); err != nil {
		return nil, db.MapError(err)
	}
	return row.model()
}

func (s *TradeStore) GetByID(ctx context.Context, tradeID string) (*models.Trade, error) {
	return s.get(ctx, s.db, `SELECT `+tradeColumns+` FROM trades t WHERE t.id = $1`, tradeID)
}

func (s *TradeStore) GetForUpdate(ctx context.Context, tx Getter, tradeID string) (*models.Trade, error) {
	return s.get(ctx, tx, `SELECT `+tradeColumns+` FROM trades t WHERE t.id = $1 FOR UPDATE`, tradeID)
}

func (s *TradeStore) ListByTradingPlan(ctx context.Context, planID string) ([]*models.Trade, error) {
	var rows []tradeRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+tradeColumns+`
		FROM trades t
		WHERE t.trading_plan_id = $1
		ORDER BY t.entry_time DESC
	`, planID)
	if err != nil {
		return nil, db.MapError(err)
	}
	return tradeModels(rows)
}

// ListByStrategy returns the trades referencing a strategy that belong to
// plans of userID. Strategies are shared; trades are not.
func (s *TradeStore) ListByStrategy(ctx context.Context, strategyID, userID string) ([]*models.Trade, error) {
	var rows []tradeRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+tradeColumns+`
		FROM trades t
		JOIN trading_plans p ON p.id = t.trading_plan_id
		WHERE t.strategy_id = $1 AND p.user_id = $2
		ORDER BY t.entry_time DESC
	`, strategyID, userID)
	if err != nil {
		return nil, db.MapError(err)
	}
	return tradeModels(rows)
}

func (s *TradeStore) Update(ctx context.Context, tx Execer, t *models.Trade) error {
	return execOne(ctx, tx, `
		UPDATE trades
		SET trading_plan_id = $1, strategy_id = $2, entry_price = $3, exit_price = $4,
			entry_time = $5, exit_time = $6, symbol = $7, position_size = $8, timeframe = $9,
			entry_fee = $10, exit_fee = $11, entry_image_url = $12, exit_image_url = $13,
			updated_at = $14
		WHERE id = $15
	`, t.TradingPlanID, t.StrategyID, t.EntryPrice, t.ExitPrice,
		t.EntryTime, t.ExitTime, t.Symbol, t.PositionSize, t.Timeframe,
		t.EntryFee, t.ExitFee, t.EntryImage(), t.ExitImage(),
		t.UpdatedAt, t.ID)
}

func (s *TradeStore) Delete(ctx context.Context, tx Execer, tradeID string) error {
	return execOne(ctx, tx, `DELETE FROM trades WHERE id = $1`, tradeID)
}

func (s *TradeStore) DeleteByTradingPlan(ctx context.Context, tx Execer, planID string) (int64, error) {
	return execMany(ctx, tx, `DELETE FROM trades WHERE trading_plan_id = $1`, planID)
}

// ClearStrategy detaches every trade from a strategy that is about to go.
func (s *TradeStore) ClearStrategy(ctx context.Context, tx Execer, strategyID string) (int64, error) {
	return execMany(ctx, tx, `
		UPDATE trades
		SET strategy_id = NULL, updated_at = NOW()
		WHERE strategy_id = $1
	`, strategyID)
}
