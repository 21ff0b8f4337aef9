package services

import (
	"context"
	"time"

	"tradejournal/internal/db"
	"tradejournal/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	zlog "github.com/rs/zerolog/log"
)

type TradeService struct {
	txRunner   db.TxRunner
	trades     TradeStore
	journals   JournalStore
	strategies StrategyStore
	owner      ownership
	events     EventPublisher
}

func NewTradeService(txRunner db.TxRunner, plans TradingPlanStore, trades TradeStore, journals JournalStore, strategies StrategyStore, events EventPublisher) *TradeService {
	return &TradeService{
		txRunner:   txRunner,
		trades:     trades,
		journals:   journals,
		strategies: strategies,
		owner:      ownership{plans: plans, trades: trades},
		events:     events,
	}
}

type TradeInput struct {
	TradingPlanID string
	StrategyID    *string
	EntryPrice    decimal.Decimal
	ExitPrice     decimal.NullDecimal
	EntryTime     time.Time
	ExitTime      *time.Time
	Symbol        string
	PositionSize  decimal.Decimal
	Timeframe     *string
	EntryFee      *decimal.Decimal
	ExitFee       *decimal.Decimal
	EntryImageURL *string
	ExitImageURL  *string
}

// TradeUpdate changes only the fields that are set. TradingPlanID moves the
// trade to another plan of the same user; ClearStrategy detaches it.
type TradeUpdate struct {
	TradingPlanID   *string
	StrategyID      *string
	ClearStrategy   bool
	EntryPrice      *decimal.Decimal
	ExitPrice       *decimal.Decimal
	EntryTime       *time.Time
	ExitTime        *time.Time
	Symbol          *string
	PositionSize    *decimal.Decimal
	Timeframe       *string
	EntryFee        *decimal.Decimal
	ExitFee         *decimal.Decimal
	EntryImageURL   *string
	ExitImageURL    *string
	ClearEntryImage bool
	ClearExitImage  bool
}

func (s *TradeService) Create(ctx context.Context, userID string, in TradeInput) (*models.Trade, error) {
	trade, err := models.NewTrade(in.TradingPlanID, in.Symbol, in.EntryPrice, in.PositionSize, in.EntryTime)
	if err != nil {
		return nil, err
	}
	trade.StrategyID = in.StrategyID
	trade.ExitPrice = in.ExitPrice
	trade.ExitTime = in.ExitTime
	trade.Timeframe = in.Timeframe
	if in.EntryFee != nil {
		trade.EntryFee = *in.EntryFee
	}
	if in.ExitFee != nil {
		trade.ExitFee = *in.ExitFee
	}
	if err := trade.SetEntryImage(in.EntryImageURL); err != nil {
		return nil, err
	}
	if err := trade.SetExitImage(in.ExitImageURL); err != nil {
		return nil, err
	}
	if err := trade.Validate(); err != nil {
		return nil, err
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.owner.planTx(ctx, tx, userID, trade.TradingPlanID); err != nil {
			return err
		}
		if trade.StrategyID != nil {
			if err := requireStrategy(ctx, s.strategies, tx, *trade.StrategyID); err != nil {
				return err
			}
		}
		return s.trades.Create(ctx, tx, trade)
	})
	if err != nil {
		return nil, err
	}
	publish(s.events, userID, EventTradeCreated, trade.ID, map[string]any{"trading_plan_id": trade.TradingPlanID})
	return trade, nil
}

func (s *TradeService) Get(ctx context.Context, userID, tradeID string) (*models.Trade, error) {
	return s.owner.trade(ctx, userID, tradeID)
}

func (s *TradeService) ListByPlan(ctx context.Context, userID, planID string) ([]*models.Trade, error) {
	if _, err := s.owner.plan(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.trades.ListByTradingPlan(ctx, planID)
}

func (s *TradeService) Update(ctx context.Context, userID, tradeID string, in TradeUpdate) (*models.Trade, error) {
	var updated *models.Trade
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		trade, err := s.owner.tradeTx(ctx, tx, userID, tradeID)
		if err != nil {
			return err
		}
		if in.TradingPlanID != nil && *in.TradingPlanID != trade.TradingPlanID {
			if _, err := s.owner.planTx(ctx, tx, userID, *in.TradingPlanID); err != nil {
				return err
			}
			trade.TradingPlanID = *in.TradingPlanID
		}
		switch {
		case in.ClearStrategy:
			trade.StrategyID = nil
		case in.StrategyID != nil:
			if err := requireStrategy(ctx, s.strategies, tx, *in.StrategyID); err != nil {
				return err
			}
			trade.StrategyID = in.StrategyID
		}
		if err := in.apply(trade); err != nil {
			return err
		}
		trade.UpdatedAt = time.Now().UTC()
		if err := s.trades.Update(ctx, tx, trade); err != nil {
			return err
		}
		updated = trade
		return nil
	})
	if err != nil {
		return nil, err
	}
	publish(s.events, userID, EventTradeUpdated, tradeID, map[string]any{"trading_plan_id": updated.TradingPlanID})
	return updated, nil
}

func (in TradeUpdate) apply(trade *models.Trade) error {
	if in.EntryPrice != nil {
		trade.EntryPrice = *in.EntryPrice
	}
	if in.ExitPrice != nil {
		trade.ExitPrice = decimal.NewNullDecimal(*in.ExitPrice)
	}
	if in.EntryTime != nil {
		trade.EntryTime = *in.EntryTime
	}
	if in.ExitTime != nil {
		trade.ExitTime = in.ExitTime
	}
	setString(&trade.Symbol, in.Symbol)
	if in.PositionSize != nil {
		trade.PositionSize = *in.PositionSize
	}
	if in.Timeframe != nil {
		trade.Timeframe = in.Timeframe
	}
	if in.EntryFee != nil {
		trade.EntryFee = *in.EntryFee
	}
	if in.ExitFee != nil {
		trade.ExitFee = *in.ExitFee
	}
	if err := updateImage(in.ClearEntryImage, in.EntryImageURL, trade.SetEntryImage); err != nil {
		return err
	}
	if err := updateImage(in.ClearExitImage, in.ExitImageURL, trade.SetExitImage); err != nil {
		return err
	}
	return trade.Validate()
}

func updateImage(clear bool, url *string, set func(*string) error) error {
	switch {
	case clear:
		return set(nil)
	case url != nil:
		return set(url)
	}
	return nil
}

// Delete removes the trade and its journal entry. Plan and strategy stay.
func (s *TradeService) Delete(ctx context.Context, userID, tradeID string) error {
	var planID string
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		trade, err := s.owner.tradeTx(ctx, tx, userID, tradeID)
		if err != nil {
			return err
		}
		planID = trade.TradingPlanID
		if _, err := s.journals.DeleteByTrade(ctx, tx, tradeID); err != nil {
			return err
		}
		return s.trades.Delete(ctx, tx, tradeID)
	})
	if err != nil {
		return err
	}
	zlog.Info().Str("user_id", userID).Str("trade_id", tradeID).Msg("trade deleted")
	publish(s.events, userID, EventTradeDeleted, tradeID, map[string]any{"trading_plan_id": planID})
	return nil
}
