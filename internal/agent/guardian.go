package agent

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/idtwin/crypto-auto-trader/internal/logger"
	"github.com/idtwin/crypto-auto-trader/internal/risk"
	"github.com/idtwin/crypto-auto-trader/internal/types"
)

const (
	// cooldownCycles is the number of forced-HOLD cycles after a severe
	// loss streak.
	cooldownCycles = 5
)

// Size modifiers recomputed from the current streak on every adaptation.
const (
	sizeModifierNeutral    = 1.0
	sizeModifierCautious   = 0.75
	sizeModifierReduced    = 0.5
	sizeModifierAggressive = 1.25
)

// Guardian is the final gatekeeper before execution: it sizes buy proposals
// against the risk limits and enforces a cooldown state machine. The two
// states are ACTIVE (cooldown == 0) and COOLING (cooldown > 0); while
// cooling every proposal is forced to HOLD.
type Guardian struct {
	baseAgent
	limits            *risk.Limits
	cooldownRemaining int
	sizeModifier      float64
}

// NewGuardian creates a risk guardian agent enforcing the given limits.
func NewGuardian(limits *risk.Limits, log *logger.Logger) *Guardian {
	return &Guardian{
		baseAgent:         newBaseAgent("Risk Guardian", log),
		limits:            limits,
		cooldownRemaining: 0,
		sizeModifier:      sizeModifierNeutral,
	}
}

// SizeModifier returns the current position size multiplier.
func (g *Guardian) SizeModifier() float64 {
	return g.sizeModifier
}

// CooldownRemaining returns the number of forced-HOLD cycles left.
func (g *Guardian) CooldownRemaining() int {
	return g.cooldownRemaining
}

// IsCooling reports whether the guardian is in the COOLING state.
func (g *Guardian) IsCooling() bool {
	return g.cooldownRemaining > 0
}

// UpdateMemory implements Adaptive.
func (g *Guardian) UpdateMemory(realizedPnL float64) {
	g.memory.RecordOutcome(realizedPnL)
	g.adapt(true)
}

// adapt recomputes the size modifier and labels from the current streak.
// The modifier branches are ordered most-negative first so a -3 streak takes
// the reduced modifier, not the cautious one. Entering cooldown happens only
// on the memory-update path and only when not already cooling; the re-run at
// the end of a cooldown refreshes the modifier without re-arming the timer.
func (g *Guardian) adapt(allowCooldownTrigger bool) {
	g.memory.Adaptations = nil

	switch {
	case g.memory.CurrentStreak <= -3:
		if allowCooldownTrigger && g.cooldownRemaining == 0 {
			g.cooldownRemaining = cooldownCycles
		}

		g.sizeModifier = sizeModifierReduced

		if g.cooldownRemaining > 0 {
			g.memory.Adaptations = append(g.memory.Adaptations, "Active Cooldown")
		}

		g.memory.Adaptations = append(g.memory.Adaptations, "Reduced Sizing (-50%)")
	case g.memory.CurrentStreak <= -1:
		g.sizeModifier = sizeModifierCautious
		g.memory.Adaptations = append(g.memory.Adaptations, "Cautious Sizing (-25%)")
	case g.memory.CurrentStreak >= 3:
		g.sizeModifier = sizeModifierAggressive
		g.memory.Adaptations = append(g.memory.Adaptations, "Aggressive Sizing (+25%)")
	default:
		g.sizeModifier = sizeModifierNeutral
	}
}

// Evaluate approves, sizes or rejects the analyst's proposal against the
// current portfolio state. Sells are always approved at full position size;
// buys are sized from the risk limits and the streak-based modifier, then
// validated against both the per-trade and total-exposure caps.
func (g *Guardian) Evaluate(proposal types.Signal, portfolioValue, openExposureValue, currentPrice float64) types.TradeDecision {
	if g.cooldownRemaining > 0 {
		g.cooldownRemaining--

		if g.cooldownRemaining > 0 {
			g.status = fmt.Sprintf("Cooldown Active (%d cycles left)", g.cooldownRemaining)
		} else {
			// Re-run adaptation once so the size modifier reflects the
			// streak as it stands when trading resumes.
			g.adapt(false)
			g.status = "Cooldown Finished"
		}

		return types.TradeDecision{
			Signal: types.SignalTypeHold,
			Amount: types.Units(0),
			Reason: "blocked by active cooldown",
		}
	}

	switch proposal.Type {
	case types.SignalTypeHold:
		g.status = "No Action Required"

		return types.TradeDecision{
			Signal: types.SignalTypeHold,
			Amount: types.Units(0),
			Reason: "no trade proposed",
		}
	case types.SignalTypeSell:
		// Sells release exposure, so no sizing math applies.
		g.status = "Approved SELL"

		return types.TradeDecision{
			Signal: types.SignalTypeSell,
			Amount: types.FullPosition(),
			Reason: "sell approved by risk logic",
		}
	}

	baseQuantity := g.limits.PositionSize(portfolioValue, currentPrice)
	quantity := baseQuantity * g.sizeModifier
	value := quantity * currentPrice

	validSize := g.limits.ValidatePositionSize(portfolioValue, value)
	validExposure := g.limits.ValidateExposure(portfolioValue, openExposureValue, value)

	if validSize && validExposure {
		g.status = "Approved BUY"
		g.log.Debug("buy approved",
			zap.Float64("quantity", quantity),
			zap.Float64("value", value),
			zap.Float64("size_modifier", g.sizeModifier),
		)

		return types.TradeDecision{
			Signal: types.SignalTypeBuy,
			Amount: types.Units(quantity),
			Reason: fmt.Sprintf("sizing approved (modifier: %gx)", g.sizeModifier),
		}
	}

	// When both checks fail, report the position-size limit.
	limit := "max position size limit"
	if validSize {
		limit = "max exposure limit"
	}

	g.status = "Rejected BUY"

	return types.TradeDecision{
		Signal: types.SignalTypeHold,
		Amount: types.Units(0),
		Reason: fmt.Sprintf("risk rejected: %s", limit),
	}
}
