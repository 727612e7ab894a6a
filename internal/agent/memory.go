// Package agent implements the adaptive decision pipeline: a scout producing
// a fast advisory signal, an analyst confirming it against the rule-based
// strategy, and a risk guardian sizing and gating the result. Each agent
// owns its memory exclusively and adapts its behavior from realized trade
// outcomes.
package agent

// Memory tracks an agent's settled trade outcomes. The streak is signed:
// positive magnitudes count consecutive wins, negative magnitudes count
// consecutive losses. After the first settled trade it is never zero; an
// outcome against the current direction resets it to +1 or -1.
type Memory struct {
	TotalTrades   int `json:"total_trades"`
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	CurrentStreak int `json:"current_streak"`
	// Adaptations lists the currently active adaptation labels. The set is
	// recomputed wholesale on every adaptation event, never accumulated.
	Adaptations []string `json:"adaptations"`
}

// RecordOutcome updates the counters and streak for one settled trade.
// A break-even outcome counts the trade but moves neither the win/loss
// counters nor the streak.
func (m *Memory) RecordOutcome(realizedPnL float64) {
	m.TotalTrades++

	switch {
	case realizedPnL > 0:
		m.Wins++

		if m.CurrentStreak > 0 {
			m.CurrentStreak++
		} else {
			m.CurrentStreak = 1
		}
	case realizedPnL < 0:
		m.Losses++

		if m.CurrentStreak < 0 {
			m.CurrentStreak--
		} else {
			m.CurrentStreak = -1
		}
	}
}

// Snapshot returns a copy safe to hand outside the owning agent.
func (m *Memory) Snapshot() Memory {
	snapshot := *m
	snapshot.Adaptations = append([]string(nil), m.Adaptations...)

	return snapshot
}
