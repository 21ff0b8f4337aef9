package models

import (
	"time"

	"tradejournal/internal/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	symbolMaxLength         = 10
	tradeTimeframeMaxLength = 5
	currencyCodeLength      = 3
)

type Trade struct {
	ID            string
	TradingPlanID string
	StrategyID    *string
	EntryPrice    decimal.Decimal
	ExitPrice     decimal.NullDecimal
	EntryTime     time.Time
	ExitTime      *time.Time
	Symbol        string
	PositionSize  decimal.Decimal
	Timeframe     *string
	EntryFee      decimal.Decimal
	ExitFee       decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time

	entryImageURL *string
	exitImageURL  *string
}

// NewTrade fills zero fees and validates the required set.
func NewTrade(tradingPlanID, symbol string, entryPrice, positionSize decimal.Decimal, entryTime time.Time) (*Trade, error) {
	now := time.Now().UTC()
	trade := &Trade{
		ID:            uuid.NewString(),
		TradingPlanID: tradingPlanID,
		EntryPrice:    entryPrice,
		EntryTime:     entryTime,
		Symbol:        symbol,
		PositionSize:  positionSize,
		EntryFee:      decimal.Zero,
		ExitFee:       decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := trade.Validate(); err != nil {
		return nil, err
	}
	return trade, nil
}

func RestoreTrade(t Trade, entryImage, exitImage *string) (*Trade, error) {
	if err := t.SetEntryImage(entryImage); err != nil {
		return nil, err
	}
	if err := t.SetExitImage(exitImage); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Trade) Validate() error {
	if err := validator.ValidateRequired("trading_plan_id", t.TradingPlanID); err != nil {
		return err
	}
	if t.EntryPrice.IsZero() {
		return validator.Required("entry_price")
	}
	if t.EntryTime.IsZero() {
		return validator.Required("entry_time")
	}
	if err := validator.ValidateRequired("symbol", t.Symbol); err != nil {
		return err
	}
	if err := validator.ValidateMaxLength("symbol", t.Symbol, symbolMaxLength); err != nil {
		return err
	}
	if t.PositionSize.IsZero() {
		return validator.Required("position_size")
	}
	if t.Timeframe != nil {
		if err := validator.ValidateMaxLength("timeframe", *t.Timeframe, tradeTimeframeMaxLength); err != nil {
			return err
		}
	}
	return nil
}

// BaseCurrency is the first three characters of the symbol, nil without a
// symbol.
func (t *Trade) BaseCurrency() *string {
	if t.Symbol == "" {
		return nil
	}
	base, _ := splitSymbol(t.Symbol)
	return &base
}

func (t *Trade) QuoteCurrency() *string {
	if t.Symbol == "" {
		return nil
	}
	_, quote := splitSymbol(t.Symbol)
	return &quote
}

// splitSymbol cuts after the third character, not the third byte.
func splitSymbol(symbol string) (string, string) {
	count := 0
	for idx := range symbol {
		if count == currencyCodeLength {
			return symbol[:idx], symbol[idx:]
		}
		count++
	}
	return symbol, ""
}

func (t *Trade) IsClosed() bool {
	return t.ExitPrice.Valid && t.ExitTime != nil
}

func (t *Trade) EntryImage() *string {
	return copyString(t.entryImageURL)
}

func (t *Trade) SetEntryImage(url *string) error {
	if err := validateImageURL("entry_image_url", url); err != nil {
		return err
	}
	t.entryImageURL = copyString(url)
	return nil
}

func (t *Trade) ExitImage() *string {
	return copyString(t.exitImageURL)
}

func (t *Trade) SetExitImage(url *string) error {
	if err := validateImageURL("exit_image_url", url); err != nil {
		return err
	}
	t.exitImageURL = copyString(url)
	return nil
}
