package models

import (
	"time"

	"tradejournal/internal/validator"

	"github.com/google/uuid"
)

const emotionsMaxLength = 50

// Journal is the single journal entry of a trade.
type Journal struct {
	ID               string
	TradeID          string
	TradingPlanID    string
	Notes            *string
	Emotions         *string
	MarketConditions Document
	PlanAdherence    Document
	CreatedAt        time.Time
	UpdatedAt        time.Time

	images Images
}

func NewJournal(tradeID, tradingPlanID string) (*Journal, error) {
	now := time.Now().UTC()
	journal := &Journal{
		ID:            uuid.NewString(),
		TradeID:       tradeID,
		TradingPlanID: tradingPlanID,
		CreatedAt:     now,
		UpdatedAt:     now,
		images:        Images{},
	}
	if err := journal.Validate(); err != nil {
		return nil, err
	}
	return journal, nil
}

func RestoreJournal(j Journal, images Images) (*Journal, error) {
	if err := j.SetImages(images); err != nil {
		return nil, err
	}
	return &j, nil
}

func (j *Journal) Validate() error {
	if err := validator.ValidateRequired("trade_id", j.TradeID); err != nil {
		return err
	}
	if err := validator.ValidateRequired("trading_plan_id", j.TradingPlanID); err != nil {
		return err
	}
	if j.Emotions != nil {
		if err := validator.ValidateMaxLength("emotions", *j.Emotions, emotionsMaxLength); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) Images() Images {
	return j.images.clone()
}

func (j *Journal) SetImages(images Images) error {
	if err := images.validate("images"); err != nil {
		return err
	}
	j.images = images.clone()
	return nil
}
