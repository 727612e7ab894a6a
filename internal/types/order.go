package types

type ActionType string

const (
	ActionBuy  ActionType = "BUY"
	ActionSell ActionType = "SELL"
	// ActionRejectedFunds records a buy that was approved by the risk
	// pipeline but failed against the cash balance.
	ActionRejectedFunds ActionType = "REJECTED_FUNDS"
)

// TradeAmount is a tagged trade quantity: either an explicit number of units
// or a full-position liquidation. It replaces the convention of signalling a
// full sell with a negative quantity.
type TradeAmount struct {
	fullPosition bool
	quantity     float64
}

// Units creates a TradeAmount for an explicit number of units.
func Units(quantity float64) TradeAmount {
	return TradeAmount{
		fullPosition: false,
		quantity:     quantity,
	}
}

// FullPosition creates a TradeAmount that liquidates the entire held position.
func FullPosition() TradeAmount {
	return TradeAmount{
		fullPosition: true,
		quantity:     0,
	}
}

// IsFullPosition reports whether the amount requests a full liquidation.
func (a TradeAmount) IsFullPosition() bool {
	return a.fullPosition
}

// Quantity returns the explicit unit count. It is zero for a full-position amount.
func (a TradeAmount) Quantity() float64 {
	return a.quantity
}

// TradeDecision is the risk pipeline's final verdict for one cycle.
type TradeDecision struct {
	// Signal is the approved action. HOLD means no trade.
	Signal SignalType
	// Amount is the approved trade size. Meaningless when Signal is HOLD.
	Amount TradeAmount
	// Reason explains the approval or rejection.
	Reason string
}
