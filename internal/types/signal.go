package types

import "time"

type SignalType string

const (
	// SignalTypeBuy is a signal that tells the pipeline to open or extend a position
	SignalTypeBuy SignalType = "BUY"
	// SignalTypeSell is a signal that tells the pipeline to liquidate a position
	SignalTypeSell SignalType = "SELL"
	// SignalTypeHold is a signal that tells the pipeline to take no action
	SignalTypeHold SignalType = "HOLD"
)

type Signal struct {
	// Time is the time of the signal
	Time time.Time
	// Type is the type of the signal
	Type SignalType
	// Name is the name of the agent or strategy that generated the signal
	Name string
	// Reason is the reason for the signal
	Reason string
	// RawValue is the raw value behind the signal, e.g. the scout's realized volatility
	RawValue any
	// Symbol is the symbol of the signal
	Symbol string
}
