package models

import (
	"time"

	"tradejournal/internal/validator"

	"github.com/google/uuid"
)

const (
	performanceTimeframeMaxLength = 10
	periodMaxLength               = 20
)

type Performance struct {
	ID            string
	StrategyID    string
	TradingPlanID string
	Metrics       Document
	Timeframe     string
	Period        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewPerformance(strategyID, tradingPlanID, timeframe, period string) (*Performance, error) {
	now := time.Now().UTC()
	performance := &Performance{
		ID:            uuid.NewString(),
		StrategyID:    strategyID,
		TradingPlanID: tradingPlanID,
		Timeframe:     timeframe,
		Period:        period,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := performance.Validate(); err != nil {
		return nil, err
	}
	return performance, nil
}

func (p *Performance) Validate() error {
	if err := validator.ValidateRequired("strategy_id", p.StrategyID); err != nil {
		return err
	}
	if err := validator.ValidateRequired("trading_plan_id", p.TradingPlanID); err != nil {
		return err
	}
	if err := validator.ValidateRequired("timeframe", p.Timeframe); err != nil {
		return err
	}
	if err := validator.ValidateMaxLength("timeframe", p.Timeframe, performanceTimeframeMaxLength); err != nil {
		return err
	}
	if err := validator.ValidateRequired("period", p.Period); err != nil {
		return err
	}
	return validator.ValidateMaxLength("period", p.Period, periodMaxLength)
}
