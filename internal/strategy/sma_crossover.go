package strategy

import (
	"fmt"

	"github.com/idtwin/crypto-auto-trader/internal/types"
)

// SMACrossover is a simple strategy that signals BUY when the short moving
// average crosses above the long moving average and SELL when it crosses
// below.
type SMACrossover struct {
	shortWindow int
	longWindow  int
}

// NewSMACrossover creates a new SMA crossover strategy with the given windows.
// Invalid windows fall back to 20/50 defaults.
func NewSMACrossover(shortWindow, longWindow int) *SMACrossover {
	s := &SMACrossover{
		shortWindow: 20,
		longWindow:  50,
	}
	s.SetWindows(shortWindow, longWindow)

	return s
}

// Name returns the name of the strategy
func (s *SMACrossover) Name() string {
	return fmt.Sprintf("SMA_Cross_%d_%d", s.shortWindow, s.longWindow)
}

// Windows returns the current short and long window lengths.
func (s *SMACrossover) Windows() (int, int) {
	return s.shortWindow, s.longWindow
}

// SetWindows updates the moving average windows. An update violating
// 0 < short < long is ignored and the prior windows are retained. It reports
// whether the update was applied.
func (s *SMACrossover) SetWindows(shortWindow, longWindow int) bool {
	if shortWindow <= 0 || shortWindow >= longWindow {
		return false
	}

	s.shortWindow = shortWindow
	s.longWindow = longWindow

	return true
}

// GenerateSignal implements SignalSource. A crossover is detected by
// comparing the moving averages at the last two samples; if the long average
// is undefined at either sample the cycle is discarded as HOLD.
func (s *SMACrossover) GenerateSignal(series types.PriceSeries) types.Signal {
	hold := func(reason string) types.Signal {
		return types.Signal{
			Type:   types.SignalTypeHold,
			Name:   s.Name(),
			Reason: reason,
		}
	}

	if len(series) < s.longWindow {
		return hold(fmt.Sprintf("insufficient data: have %d, need %d", len(series), s.longWindow))
	}

	// One extra point is needed for a defined previous long average.
	if len(series) < s.longWindow+1 {
		return hold("previous long average undefined")
	}

	closes := series.Closes()
	prev := closes[:len(closes)-1]

	lastShort := tailMean(closes, s.shortWindow)
	lastLong := tailMean(closes, s.longWindow)
	prevShort := tailMean(prev, s.shortWindow)
	prevLong := tailMean(prev, s.longWindow)

	last, _ := series.Last()

	switch {
	case prevShort <= prevLong && lastShort > lastLong:
		return types.Signal{
			Time:   last.Time,
			Type:   types.SignalTypeBuy,
			Name:   s.Name(),
			Reason: "bullish crossover: short SMA crossed above long SMA",
		}
	case prevShort >= prevLong && lastShort < lastLong:
		return types.Signal{
			Time:   last.Time,
			Type:   types.SignalTypeSell,
			Name:   s.Name(),
			Reason: "bearish crossover: short SMA crossed below long SMA",
		}
	default:
		return types.Signal{
			Time:   last.Time,
			Type:   types.SignalTypeHold,
			Name:   s.Name(),
			Reason: "no crossover",
		}
	}
}

// tailMean calculates the simple moving average over the last window closes.
func tailMean(closes []float64, window int) float64 {
	if window <= 0 || len(closes) < window {
		return 0
	}

	sum := 0.0
	for _, c := range closes[len(closes)-window:] {
		sum += c
	}

	return sum / float64(window)
}
