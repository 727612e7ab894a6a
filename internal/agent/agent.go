package agent

import (
	"github.com/idtwin/crypto-auto-trader/internal/logger"
)

// Adaptive is the capability shared by all pipeline agents: receive the
// realized P&L of a settled trade and expose read-only state outward.
type Adaptive interface {
	// Name returns the agent's display name.
	Name() string
	// Status returns a human-readable description of the agent's last action.
	Status() string
	// UpdateMemory records a settled trade outcome and re-runs the agent's
	// adaptation rules.
	UpdateMemory(realizedPnL float64)
	// Memory returns a snapshot of the agent's memory.
	Memory() Memory
}

// baseAgent carries the state common to every agent. Agents embed it and
// keep exclusive ownership of the memory.
type baseAgent struct {
	name   string
	status string
	memory Memory
	log    *logger.Logger
}

func newBaseAgent(name string, log *logger.Logger) baseAgent {
	return baseAgent{
		name:   name,
		status: "Idle",
		memory: Memory{},
		log:    log,
	}
}

// Name implements Adaptive.
func (b *baseAgent) Name() string {
	return b.name
}

// Status implements Adaptive.
func (b *baseAgent) Status() string {
	return b.status
}

// Memory implements Adaptive.
func (b *baseAgent) Memory() Memory {
	return b.memory.Snapshot()
}
