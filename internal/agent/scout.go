package agent

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/idtwin/crypto-auto-trader/internal/logger"
	"github.com/idtwin/crypto-auto-trader/internal/types"
)

const (
	// scoutMinPoints is the minimum series length for a momentum reading.
	scoutMinPoints = 5
	// momentumTrigger is the absolute momentum beyond which the scout signals.
	momentumTrigger = 0.01
	// defaultVolatilityThreshold rejects signals above 5% realized volatility.
	defaultVolatilityThreshold = 0.05
	// tightenedVolatilityThreshold applies while on a severe loss streak.
	tightenedVolatilityThreshold = 0.02
)

// Scout scans price history with a fast momentum-plus-volatility heuristic
// and produces an advisory signal for the analyst.
type Scout struct {
	baseAgent
	volatilityThreshold float64
}

// NewScout creates a scout agent with the default volatility filter.
func NewScout(log *logger.Logger) *Scout {
	return &Scout{
		baseAgent:           newBaseAgent("Scout", log),
		volatilityThreshold: defaultVolatilityThreshold,
	}
}

// VolatilityThreshold returns the currently active volatility filter.
func (s *Scout) VolatilityThreshold() float64 {
	return s.volatilityThreshold
}

// UpdateMemory implements Adaptive.
func (s *Scout) UpdateMemory(realizedPnL float64) {
	s.memory.RecordOutcome(realizedPnL)
	s.adapt()
}

// adapt recomputes the volatility filter and the adaptation labels from the
// current streak.
func (s *Scout) adapt() {
	s.memory.Adaptations = nil

	if s.memory.CurrentStreak <= -3 {
		s.volatilityThreshold = tightenedVolatilityThreshold
		s.memory.Adaptations = append(s.memory.Adaptations, "Tightened Volatility Filter (Loss Streak)")
	} else {
		s.volatilityThreshold = defaultVolatilityThreshold
	}
}

// Scan evaluates the series and returns an advisory signal. The signal's
// RawValue carries the measured volatility.
func (s *Scout) Scan(series types.PriceSeries) types.Signal {
	if len(series) < scoutMinPoints {
		s.status = "Waiting for data"

		return types.Signal{
			Type:   types.SignalTypeHold,
			Name:   s.name,
			Reason: "insufficient data",
		}
	}

	closes := series.Closes()
	last := closes[len(closes)-1]
	back := closes[len(closes)-scoutMinPoints]

	momentum := (last - back) / back
	volatility := realizedVolatility(closes)

	signal := types.SignalTypeHold
	reason := fmt.Sprintf("momentum: %.4f, volatility: %.4f", momentum, volatility)

	switch {
	case volatility > s.volatilityThreshold:
		reason += fmt.Sprintf(" | rejected: high volatility (>%.2f)", s.volatilityThreshold)
	case momentum > momentumTrigger:
		signal = types.SignalTypeBuy
		reason += " | strong positive momentum"
	case momentum < -momentumTrigger:
		signal = types.SignalTypeSell
		reason += " | strong negative momentum"
	}

	s.status = fmt.Sprintf("Scanned | volatility: %.4f", volatility)
	s.log.Debug("scout scan",
		zap.Float64("momentum", momentum),
		zap.Float64("volatility", volatility),
		zap.String("signal", string(signal)),
	)

	lastCandle, _ := series.Last()

	return types.Signal{
		Time:     lastCandle.Time,
		Type:     signal,
		Name:     s.name,
		Reason:   reason,
		RawValue: volatility,
	}
}

// realizedVolatility approximates realized volatility as the sample standard
// deviation of period-over-period returns scaled by the square root of the
// return count. It is not annualized.
func realizedVolatility(closes []float64) float64 {
	returns := make([]float64, 0, len(closes)-1)

	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}

		returns = append(returns, closes[i]/closes[i-1]-1)
	}

	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}

	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}

	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * math.Sqrt(float64(len(returns)))
}
