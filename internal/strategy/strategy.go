// Package strategy contains rule-based signal sources. Strategies are
// stateless per call: each invocation evaluates the supplied series against
// the current parameters and returns a signal.
package strategy

import (
	"github.com/idtwin/crypto-auto-trader/internal/types"
)

// SignalSource generates a trading signal from a price series.
type SignalSource interface {
	// GenerateSignal evaluates the series and returns BUY, SELL or HOLD.
	// A series too short for the strategy degrades to HOLD, never an error.
	GenerateSignal(series types.PriceSeries) types.Signal
	// Name returns the name of the strategy
	Name() string
}
