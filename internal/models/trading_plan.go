package models

import (
	"time"

	"tradejournal/internal/validator"

	"github.com/google/uuid"
)

const (
	planNameMaxLength = 100
	planTypeMaxLength = 50
)

type TradingPlan struct {
	ID             string
	UserID         string
	Name           string
	Type           string
	RiskManagement Document
	EntryRules     Document
	ExitRules      Document
	Timeframes     Document
	PositionSizing Document
	Markets        Document
	Notes          *string
	// Version is bumped by the caller on meaningful edits; nothing here
	// increments it.
	Version   int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time

	planImages Images
}

func NewTradingPlan(userID, name, planType string) (*TradingPlan, error) {
	now := time.Now().UTC()
	plan := &TradingPlan{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		Type:       planType,
		Version:    1,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
		planImages: Images{},
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// RestoreTradingPlan rebuilds a persisted plan, re-checking its images.
func RestoreTradingPlan(p TradingPlan, images Images) (*TradingPlan, error) {
	if err := p.SetPlanImages(images); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *TradingPlan) Validate() error {
	if err := validator.ValidateRequired("user_id", p.UserID); err != nil {
		return err
	}
	if err := validator.ValidateRequired("name", p.Name); err != nil {
		return err
	}
	if err := validator.ValidateMaxLength("name", p.Name, planNameMaxLength); err != nil {
		return err
	}
	if err := validator.ValidateRequired("type", p.Type); err != nil {
		return err
	}
	if err := validator.ValidateMaxLength("type", p.Type, planTypeMaxLength); err != nil {
		return err
	}
	if p.Version < 1 {
		return validator.Required("version")
	}
	return nil
}

func (p *TradingPlan) PlanImages() Images {
	return p.planImages.clone()
}

func (p *TradingPlan) SetPlanImages(images Images) error {
	if err := images.validate("plan_images"); err != nil {
		return err
	}
	p.planImages = images.clone()
	return nil
}
