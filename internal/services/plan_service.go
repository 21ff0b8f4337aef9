package services

import (
	"context"
	"time"

	"tradejournal/internal/db"
	"tradejournal/internal/models"

	"github.com/jmoiron/sqlx"
	zlog "github.com/rs/zerolog/log"
)

type PlanService struct {
	txRunner db.TxRunner
	plans    TradingPlanStore
	cascade  planCascade
	owner    ownership
	events   EventPublisher
}

func NewPlanService(txRunner db.TxRunner, plans TradingPlanStore, trades TradeStore, journals JournalStore, performances PerformanceStore, events EventPublisher) *PlanService {
	return &PlanService{
		txRunner: txRunner,
		plans:    plans,
		cascade:  planCascade{trades: trades, journals: journals, performances: performances},
		owner:    ownership{plans: plans, trades: trades},
		events:   events,
	}
}

type PlanInput struct {
	Name           string
	Type           string
	RiskManagement models.Document
	EntryRules     models.Document
	ExitRules      models.Document
	Timeframes     models.Document
	PositionSizing models.Document
	Markets        models.Document
	Notes          *string
	IsActive       *bool
	PlanImages     any
}

// PlanUpdate changes only the fields that are set. Version is whatever the
// caller says it is.
type PlanUpdate struct {
	Name           *string
	Type           *string
	RiskManagement *models.Document
	EntryRules     *models.Document
	ExitRules      *models.Document
	Timeframes     *models.Document
	PositionSizing *models.Document
	Markets        *models.Document
	Notes          *string
	Version        *int
	IsActive       *bool
	PlanImages     any
}

func (s *PlanService) Create(ctx context.Context, userID string, in PlanInput) (*models.TradingPlan, error) {
	plan, err := models.NewTradingPlan(userID, in.Name, in.Type)
	if err != nil {
		return nil, err
	}
	plan.RiskManagement = in.RiskManagement
	plan.EntryRules = in.EntryRules
	plan.ExitRules = in.ExitRules
	plan.Timeframes = in.Timeframes
	plan.PositionSizing = in.PositionSizing
	plan.Markets = in.Markets
	plan.Notes = in.Notes
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}
	if in.PlanImages != nil {
		if err := setImageList(in.PlanImages, "plan_images", plan.SetPlanImages); err != nil {
			return nil, err
		}
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.plans.Create(ctx, tx, plan)
	})
	if err != nil {
		return nil, err
	}
	publish(s.events, userID, EventPlanCreated, plan.ID, nil)
	return plan, nil
}

func (s *PlanService) Get(ctx context.Context, userID, planID string) (*models.TradingPlan, error) {
	return s.owner.plan(ctx, userID, planID)
}

func (s *PlanService) List(ctx context.Context, userID string) ([]*models.TradingPlan, error) {
	return s.plans.ListByUser(ctx, userID)
}

func (s *PlanService) Update(ctx context.Context, userID, planID string, in PlanUpdate) (*models.TradingPlan, error) {
	var updated *models.TradingPlan
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		plan, err := s.owner.planTx(ctx, tx, userID, planID)
		if err != nil {
			return err
		}
		if err := in.apply(plan); err != nil {
			return err
		}
		plan.UpdatedAt = time.Now().UTC()
		if err := s.plans.Update(ctx, tx, plan); err != nil {
			return err
		}
		updated = plan
		return nil
	})
	if err != nil {
		return nil, err
	}
	publish(s.events, userID, EventPlanUpdated, planID, nil)
	return updated, nil
}

func (in PlanUpdate) apply(plan *models.TradingPlan) error {
	if in.Name != nil {
		plan.Name = *in.Name
	}
	if in.Type != nil {
		plan.Type = *in.Type
	}
	setDocument(&plan.RiskManagement, in.RiskManagement)
	setDocument(&plan.EntryRules, in.EntryRules)
	setDocument(&plan.ExitRules, in.ExitRules)
	setDocument(&plan.Timeframes, in.Timeframes)
	setDocument(&plan.PositionSizing, in.PositionSizing)
	setDocument(&plan.Markets, in.Markets)
	if in.Notes != nil {
		plan.Notes = in.Notes
	}
	if in.Version != nil {
		plan.Version = *in.Version
	}
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}
	if in.PlanImages != nil {
		if err := setImageList(in.PlanImages, "plan_images", plan.SetPlanImages); err != nil {
			return err
		}
	}
	return plan.Validate()
}

// Delete removes the plan with its trades, journals and performance records.
func (s *PlanService) Delete(ctx context.Context, userID, planID string) error {
	var counts cascadeCounts
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.owner.planTx(ctx, tx, userID, planID); err != nil {
			return err
		}
		var err error
		if counts, err = s.cascade.deleteChildren(ctx, tx, planID); err != nil {
			return err
		}
		return s.plans.Delete(ctx, tx, planID)
	})
	if err != nil {
		return err
	}
	zlog.Info().
		Str("user_id", userID).
		Str("trading_plan_id", planID).
		Int64("trades", counts.Trades).
		Int64("journals", counts.Journals).
		Int64("performances", counts.Performances).
		Msg("trading plan deleted")
	publish(s.events, userID, EventPlanDeleted, planID, nil)
	return nil
}
