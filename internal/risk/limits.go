// Package risk enforces sizing rules over percentages of portfolio value.
package risk

const (
	// DefaultMaxPositionPct caps a single trade at 20% of portfolio value.
	DefaultMaxPositionPct = 0.2
	// DefaultMaxExposurePct caps total open positions at 80% of portfolio value.
	DefaultMaxExposurePct = 0.8
)

// Limits holds the live risk percentages. Each is independently mutable
// within (0, 1]; out-of-bound updates are ignored and retain the prior value.
type Limits struct {
	maxPositionPct float64
	maxExposurePct float64
}

// NewLimits creates risk limits, substituting defaults for out-of-bound values.
func NewLimits(maxPositionPct, maxExposurePct float64) *Limits {
	l := &Limits{
		maxPositionPct: DefaultMaxPositionPct,
		maxExposurePct: DefaultMaxExposurePct,
	}
	l.SetMaxPositionPct(maxPositionPct)
	l.SetMaxExposurePct(maxExposurePct)

	return l
}

// MaxPositionPct returns the current per-trade cap.
func (l *Limits) MaxPositionPct() float64 {
	return l.maxPositionPct
}

// MaxExposurePct returns the current total-exposure cap.
func (l *Limits) MaxExposurePct() float64 {
	return l.maxExposurePct
}

// SetMaxPositionPct updates the per-trade cap. It reports whether the update
// was applied; values outside (0, 1] are ignored.
func (l *Limits) SetMaxPositionPct(pct float64) bool {
	if pct <= 0 || pct > 1 {
		return false
	}

	l.maxPositionPct = pct

	return true
}

// SetMaxExposurePct updates the total-exposure cap. It reports whether the
// update was applied; values outside (0, 1] are ignored.
func (l *Limits) SetMaxExposurePct(pct float64) bool {
	if pct <= 0 || pct > 1 {
		return false
	}

	l.maxExposurePct = pct

	return true
}

// ValidatePositionSize reports whether a proposed trade value fits within the
// per-trade cap.
func (l *Limits) ValidatePositionSize(portfolioValue, proposedValue float64) bool {
	return proposedValue <= portfolioValue*l.maxPositionPct
}

// ValidateExposure reports whether opening a trade of the proposed value
// keeps total open exposure within the exposure cap.
func (l *Limits) ValidateExposure(portfolioValue, openExposureValue, proposedValue float64) bool {
	return openExposureValue+proposedValue <= portfolioValue*l.maxExposurePct
}

// PositionSize calculates the base quantity that spends the per-trade cap at
// the given price. Exposure validation happens separately.
func (l *Limits) PositionSize(portfolioValue, price float64) float64 {
	if price <= 0 {
		return 0
	}

	return portfolioValue * l.maxPositionPct / price
}
