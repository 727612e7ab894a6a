package types

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/idtwin/crypto-auto-trader/pkg/errors"
)

// TradeRecord is one append-only trade log entry. Records are immutable once
// written; insertion order is chronological order.
type TradeRecord struct {
	ID        string     `json:"id" yaml:"id" validate:"required,uuid"`
	Timestamp time.Time  `json:"timestamp" yaml:"timestamp" validate:"required"`
	Symbol    string     `json:"symbol" yaml:"symbol" validate:"required"`
	Action    ActionType `json:"action" yaml:"action" validate:"required,oneof=BUY SELL REJECTED_FUNDS"`
	Amount    float64    `json:"amount" yaml:"amount" validate:"gte=0"`
	Price     float64    `json:"price" yaml:"price" validate:"required,gt=0"`
	// Value is Amount * Price at execution time.
	Value float64 `json:"value" yaml:"value" validate:"gte=0"`
	Note  string  `json:"note" yaml:"note"`
}

// Validate validates the TradeRecord struct.
func (t *TradeRecord) Validate() error {
	validate := validator.New()
	if err := validate.Struct(t); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTradeRecord, "invalid trade record", err)
	}

	return nil
}
