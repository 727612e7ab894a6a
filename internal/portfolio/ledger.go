// Package portfolio tracks the virtual cash balance and open positions for
// a trading session. The ledger is the single source of truth for holdings
// and is only mutated through AddPosition and RemovePosition.
package portfolio

import (
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"

	"github.com/idtwin/crypto-auto-trader/internal/types"
	"github.com/idtwin/crypto-auto-trader/pkg/errors"
)

// dustThreshold is the residual amount below which a position is deleted.
const dustThreshold = 1e-8

// Ledger manages the virtual balance and open positions. Cash and cost-basis
// arithmetic run on decimals so that a buy followed by an identical sell
// restores the cash balance exactly.
type Ledger struct {
	initialBalance float64
	cash           decimal.Decimal
	positions      map[string]types.Position
}

// NewLedger creates a ledger funded with the given cash balance.
func NewLedger(initialBalance float64) *Ledger {
	return &Ledger{
		initialBalance: initialBalance,
		cash:           decimal.NewFromFloat(initialBalance),
		positions:      make(map[string]types.Position),
	}
}

// InitialBalance returns the starting cash balance.
func (l *Ledger) InitialBalance() float64 {
	return l.initialBalance
}

// CashBalance returns the current cash balance.
func (l *Ledger) CashBalance() float64 {
	cash, _ := l.cash.Float64()

	return cash
}

// Position returns the open position for the symbol, or None if not held.
func (l *Ledger) Position(symbol string) optional.Option[types.Position] {
	position, ok := l.positions[symbol]
	if !ok {
		return optional.None[types.Position]()
	}

	return optional.Some(position)
}

// Positions returns a copy of all open positions keyed by symbol.
func (l *Ledger) Positions() map[string]types.Position {
	positions := make(map[string]types.Position, len(l.positions))
	for symbol, position := range l.positions {
		positions[symbol] = position
	}

	return positions
}

// AddPosition simulates buying an asset: it debits cash and merges the new
// lot into any existing position using a cost-weighted average entry price.
// A buy whose cost exceeds the cash balance fails without mutation.
func (l *Ledger) AddPosition(symbol string, amount, price float64) error {
	if symbol == "" || amount <= 0 || price <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"invalid buy: symbol=%q amount=%f price=%f", symbol, amount, price)
	}

	amountDec := decimal.NewFromFloat(amount)
	priceDec := decimal.NewFromFloat(price)
	cost := amountDec.Mul(priceDec)

	if cost.GreaterThan(l.cash) {
		return errors.Newf(errors.ErrCodeInsufficientFunds,
			"insufficient funds to buy %f %s at %f", amount, symbol, price)
	}

	l.cash = l.cash.Sub(cost)

	existing, ok := l.positions[symbol]
	if !ok {
		l.positions[symbol] = types.Position{
			Symbol:            symbol,
			Amount:            amount,
			AverageEntryPrice: price,
		}

		return nil
	}

	oldAmount := decimal.NewFromFloat(existing.Amount)
	oldPrice := decimal.NewFromFloat(existing.AverageEntryPrice)

	newAmount := oldAmount.Add(amountDec)
	newPrice := oldAmount.Mul(oldPrice).Add(cost).Div(newAmount)

	amountF, _ := newAmount.Float64()
	priceF, _ := newPrice.Float64()

	l.positions[symbol] = types.Position{
		Symbol:            symbol,
		Amount:            amountF,
		AverageEntryPrice: priceF,
	}

	return nil
}

// RemovePosition simulates selling an asset: it credits cash at the given
// price and decrements the held amount. Selling more than held, or a symbol
// not held at all, fails without mutation. The average entry price is never
// changed by a sell; the entry is deleted once the residual amount is dust.
func (l *Ledger) RemovePosition(symbol string, amount, price float64) error {
	if symbol == "" || amount <= 0 || price <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"invalid sell: symbol=%q amount=%f price=%f", symbol, amount, price)
	}

	existing, ok := l.positions[symbol]
	if !ok || existing.Amount < amount {
		return errors.Newf(errors.ErrCodeInsufficientPosition,
			"insufficient position to sell %f %s", amount, symbol)
	}

	amountDec := decimal.NewFromFloat(amount)
	priceDec := decimal.NewFromFloat(price)

	l.cash = l.cash.Add(amountDec.Mul(priceDec))

	residual, _ := decimal.NewFromFloat(existing.Amount).Sub(amountDec).Float64()
	if residual < dustThreshold {
		delete(l.positions, symbol)

		return nil
	}

	existing.Amount = residual
	l.positions[symbol] = existing

	return nil
}

// PortfolioValue calculates cash plus the market value of all open positions
// present in the supplied price map. Positions lacking a current price are
// excluded from valuation.
func (l *Ledger) PortfolioValue(currentPrices map[string]float64) float64 {
	total := l.cash

	for symbol, position := range l.positions {
		price, ok := currentPrices[symbol]
		if !ok {
			continue
		}

		total = total.Add(decimal.NewFromFloat(position.Amount).Mul(decimal.NewFromFloat(price)))
	}

	value, _ := total.Float64()

	return value
}

// OpenExposure calculates the aggregate market value of all open positions,
// valuing each at the supplied price when available and at its average entry
// price otherwise.
func (l *Ledger) OpenExposure(currentPrices map[string]float64) float64 {
	total := decimal.Zero

	for symbol, position := range l.positions {
		price, ok := currentPrices[symbol]
		if !ok {
			price = position.AverageEntryPrice
		}

		total = total.Add(decimal.NewFromFloat(position.Amount).Mul(decimal.NewFromFloat(price)))
	}

	value, _ := total.Float64()

	return value
}
