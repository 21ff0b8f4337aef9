package services

import (
	"context"
	"errors"
	"time"

	"tradejournal/internal/db"
	"tradejournal/internal/models"
	"tradejournal/internal/validator"

	"github.com/jmoiron/sqlx"
	zlog "github.com/rs/zerolog/log"
)

const journalTradeConstraint = "journal_entries_trade_id_key"

var errJournalExists = errors.New("trade already has a journal entry")

type JournalService struct {
	txRunner db.TxRunner
	journals JournalStore
	owner    ownership
	events   EventPublisher
}

func NewJournalService(txRunner db.TxRunner, plans TradingPlanStore, trades TradeStore, journals JournalStore, events EventPublisher) *JournalService {
	return &JournalService{
		txRunner: txRunner,
		journals: journals,
		owner:    ownership{plans: plans, trades: trades},
		events:   events,
	}
}

// JournalInput files an entry for TradeID. An empty TradingPlanID means the
// trade's own plan.
type JournalInput struct {
	TradeID          string
	TradingPlanID    string
	Notes            *string
	Emotions         *string
	MarketConditions models.Document
	PlanAdherence    models.Document
	Images           any
}

type JournalUpdate struct {
	TradingPlanID    *string
	Notes            *string
	Emotions         *string
	MarketConditions *models.Document
	PlanAdherence    *models.Document
	Images           any
}

func (s *JournalService) Create(ctx context.Context, userID string, in JournalInput) (*models.Journal, error) {
	if in.TradeID == "" {
		return nil, validator.Required("trade_id")
	}
	var journal *models.Journal
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		trade, err := s.owner.tradeTx(ctx, tx, userID, in.TradeID)
		if err != nil {
			return err
		}
		planID := in.TradingPlanID
		if planID == "" {
			planID = trade.TradingPlanID
		} else if planID != trade.TradingPlanID {
			if _, err := s.owner.planTx(ctx, tx, userID, planID); err != nil {
				return err
			}
		}
		exists, err := s.journals.ExistsForTrade(ctx, tx, trade.ID)
		if err != nil {
			return err
		}
		if exists {
			return &models.IntegrityError{Constraint: journalTradeConstraint, Kind: models.IntegrityUnique, Err: errJournalExists}
		}
		entry, err := models.NewJournal(trade.ID, planID)
		if err != nil {
			return err
		}
		entry.Notes = in.Notes
		entry.Emotions = in.Emotions
		entry.MarketConditions = in.MarketConditions
		entry.PlanAdherence = in.PlanAdherence
		if in.Images != nil {
			if err := setImageList(in.Images, "images", entry.SetImages); err != nil {
				return err
			}
		}
		if err := entry.Validate(); err != nil {
			return err
		}
		if err := s.journals.Create(ctx, tx, entry); err != nil {
			return err
		}
		journal = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	publish(s.events, userID, EventJournalCreated, journal.ID, map[string]any{"trade_id": journal.TradeID})
	return journal, nil
}

// Get resolves the entry through its trade, so an entry filed under another
// user's plan stays invisible.
func (s *JournalService) Get(ctx context.Context, userID, journalID string) (*models.Journal, error) {
	journal, err := s.journals.GetByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if _, err := s.owner.trade(ctx, userID, journal.TradeID); err != nil {
		return nil, err
	}
	return journal, nil
}

func (s *JournalService) GetByTrade(ctx context.Context, userID, tradeID string) (*models.Journal, error) {
	if _, err := s.owner.trade(ctx, userID, tradeID); err != nil {
		return nil, err
	}
	return s.journals.GetByTrade(ctx, tradeID)
}

func (s *JournalService) ListByPlan(ctx context.Context, userID, planID string) ([]*models.Journal, error) {
	if _, err := s.owner.plan(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.journals.ListByTradingPlan(ctx, planID)
}

func (s *JournalService) Update(ctx context.Context, userID, journalID string, in JournalUpdate) (*models.Journal, error) {
	var updated *models.Journal
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		journal, err := s.journalTx(ctx, tx, userID, journalID)
		if err != nil {
			return err
		}
		if in.TradingPlanID != nil && *in.TradingPlanID != journal.TradingPlanID {
			if _, err := s.owner.planTx(ctx, tx, userID, *in.TradingPlanID); err != nil {
				return err
			}
			journal.TradingPlanID = *in.TradingPlanID
		}
		if in.Notes != nil {
			journal.Notes = in.Notes
		}
		if in.Emotions != nil {
			journal.Emotions = in.Emotions
		}
		setDocument(&journal.MarketConditions, in.MarketConditions)
		setDocument(&journal.PlanAdherence, in.PlanAdherence)
		if in.Images != nil {
			if err := setImageList(in.Images, "images", journal.SetImages); err != nil {
				return err
			}
		}
		if err := journal.Validate(); err != nil {
			return err
		}
		journal.UpdatedAt = time.Now().UTC()
		if err := s.journals.Update(ctx, tx, journal); err != nil {
			return err
		}
		updated = journal
		return nil
	})
	if err != nil {
		return nil, err
	}
	publish(s.events, userID, EventJournalUpdated, journalID, map[string]any{"trade_id": updated.TradeID})
	return updated, nil
}

func (s *JournalService) Delete(ctx context.Context, userID, journalID string) error {
	var tradeID string
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		journal, err := s.journalTx(ctx, tx, userID, journalID)
		if err != nil {
			return err
		}
		tradeID = journal.TradeID
		return s.journals.Delete(ctx, tx, journalID)
	})
	if err != nil {
		return err
	}
	zlog.Info().Str("user_id", userID).Str("journal_id", journalID).Msg("journal entry deleted")
	publish(s.events, userID, EventJournalDeleted, journalID, map[string]any{"trade_id": tradeID})
	return nil
}

func (s *JournalService) journalTx(ctx context.Context, tx *sqlx.Tx, userID, journalID string) (*models.Journal, error) {
	journal, err := s.journals.GetForUpdate(ctx, tx, journalID)
	if err != nil {
		return nil, err
	}
	if _, err := s.owner.tradeTx(ctx, tx, userID, journal.TradeID); err != nil {
		return nil, err
	}
	return journal, nil
}
