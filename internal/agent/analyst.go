package agent

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/idtwin/crypto-auto-trader/internal/logger"
	"github.com/idtwin/crypto-auto-trader/internal/strategy"
	"github.com/idtwin/crypto-auto-trader/internal/types"
)

// Analyst confirms or rejects scout opportunities with the rule-based
// strategy. While alignment mode is on, a strategy signal is only approved
// when the scout independently agrees.
type Analyst struct {
	baseAgent
	source strategy.SignalSource
	// requiresAlignment is a sticky switch: it turns on at a loss streak of
	// -2 or worse, off at a win streak of +2 or better, and keeps its value
	// for streaks in between.
	requiresAlignment bool
}

// NewAnalyst creates an analyst agent evaluating signals from the given source.
func NewAnalyst(source strategy.SignalSource, log *logger.Logger) *Analyst {
	return &Analyst{
		baseAgent:         newBaseAgent("Analyst", log),
		source:            source,
		requiresAlignment: false,
	}
}

// RequiresAlignment reports whether alignment mode is currently active.
func (a *Analyst) RequiresAlignment() bool {
	return a.requiresAlignment
}

// UpdateMemory implements Adaptive.
func (a *Analyst) UpdateMemory(realizedPnL float64) {
	a.memory.RecordOutcome(realizedPnL)
	a.adapt()
}

func (a *Analyst) adapt() {
	a.memory.Adaptations = nil

	switch {
	case a.memory.CurrentStreak <= -2:
		a.requiresAlignment = true
		a.memory.Adaptations = append(a.memory.Adaptations, "Requiring Scout Alignment (Loss Streak)")
	case a.memory.CurrentStreak >= 2:
		a.requiresAlignment = false
		a.memory.Adaptations = append(a.memory.Adaptations, "Relaxed Alignment (Win Streak)")
	}
}

// Analyze runs the strategy on the series and applies the alignment gate to
// the scout's advisory signal, producing the trade proposal for the guardian.
func (a *Analyst) Analyze(scoutSignal types.Signal, series types.PriceSeries) types.Signal {
	strategySignal := a.source.GenerateSignal(series)

	final := types.SignalTypeHold
	reason := fmt.Sprintf("strategy signal: %s", strategySignal.Type)

	if strategySignal.Type != types.SignalTypeHold {
		switch {
		case !a.requiresAlignment:
			final = strategySignal.Type
			reason += " | base strategy executing"
		case strategySignal.Type == scoutSignal.Type:
			final = strategySignal.Type
			reason += " | confirmed by scout alignment"
		default:
			reason += fmt.Sprintf(" | rejected: scout divergence (%s)", scoutSignal.Type)
		}
	}

	a.status = fmt.Sprintf("Analyzed | output: %s", final)
	a.log.Debug("analyst proposal",
		zap.String("strategy_signal", string(strategySignal.Type)),
		zap.String("scout_signal", string(scoutSignal.Type)),
		zap.String("proposal", string(final)),
		zap.Bool("alignment_required", a.requiresAlignment),
	)

	return types.Signal{
		Time:   strategySignal.Time,
		Type:   final,
		Name:   a.name,
		Reason: reason,
	}
}
