package types

// Position represents current holdings of a single symbol.
type Position struct {
	Symbol string `json:"symbol"`
	// Amount is the held quantity. A position only exists while Amount is
	// above the dust threshold enforced by the ledger.
	Amount float64 `json:"amount"`
	// AverageEntryPrice is the cost-weighted mean entry price across all
	// buy lots. Sells never change it.
	AverageEntryPrice float64 `json:"average_entry_price"`
}

// MarketValue returns the position value at the given price.
func (p Position) MarketValue(price float64) float64 {
	return p.Amount * price
}
