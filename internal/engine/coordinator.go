// Package engine orchestrates the agent decision pipeline: it pulls prices,
// runs scout, analyst and guardian in order, settles approved trades against
// the ledger and feeds realized outcomes back into the agents' memory.
package engine

import (
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/idtwin/crypto-auto-trader/internal/agent"
	"github.com/idtwin/crypto-auto-trader/internal/logger"
	"github.com/idtwin/crypto-auto-trader/internal/market"
	"github.com/idtwin/crypto-auto-trader/internal/portfolio"
	"github.com/idtwin/crypto-auto-trader/internal/risk"
	"github.com/idtwin/crypto-auto-trader/internal/strategy"
	"github.com/idtwin/crypto-auto-trader/internal/types"
	"github.com/idtwin/crypto-auto-trader/pkg/errors"
)

// Coordinator drives one full decision cycle per call. The whole pipeline
// for a symbol is a single critical section: agent adaptation state and the
// cooldown counter are read-modify-write across the steps of a cycle, so no
// partial interleaving is safe.
type Coordinator struct {
	mu sync.Mutex

	config    SessionConfig
	provider  market.PriceProvider
	crossover *strategy.SMACrossover
	limits    *risk.Limits
	ledger    *portfolio.Ledger
	scout     *agent.Scout
	analyst   *agent.Analyst
	guardian  *agent.Guardian
	tradeLog  *TradeLog
	log       *logger.Logger
	now       func() time.Time
}

// CycleResult reports what one cycle observed and did.
type CycleResult struct {
	Symbol      string
	Price       float64
	ScoutSignal types.Signal
	Proposal    types.Signal
	Decision    types.TradeDecision
	// Executed is true when the decision mutated the ledger.
	Executed bool
	// RealizedPnL is set only for an executed sell.
	RealizedPnL optional.Option[float64]
}

// NewCoordinator wires the pipeline from a validated session config.
func NewCoordinator(config SessionConfig, provider market.PriceProvider, log *logger.Logger) (*Coordinator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	tradeLog, err := NewTradeLog(log)
	if err != nil {
		return nil, err
	}

	if err := tradeLog.Initialize(); err != nil {
		return nil, err
	}

	crossover := strategy.NewSMACrossover(config.ShortWindow, config.LongWindow)
	limits := risk.NewLimits(config.MaxPositionPct, config.MaxExposurePct)

	return &Coordinator{
		config:    config,
		provider:  provider,
		crossover: crossover,
		limits:    limits,
		ledger:    portfolio.NewLedger(config.InitialBalance),
		scout:     agent.NewScout(log),
		analyst:   agent.NewAnalyst(crossover, log),
		guardian:  agent.NewGuardian(limits, log),
		tradeLog:  tradeLog,
		log:       log,
		now:       time.Now,
	}, nil
}

// RunCycle executes one synchronous decision cycle for the configured symbol.
func (c *Coordinator) RunCycle() (CycleResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	symbol := c.config.Symbol

	price, err := c.provider.CurrentPrice(symbol)
	if err != nil {
		return CycleResult{}, errors.Wrap(errors.ErrCodePriceUnavailable, "failed to fetch current price", err)
	}

	history, err := c.provider.History(symbol, c.config.HistoryLimit)
	if err != nil {
		return CycleResult{}, errors.Wrap(errors.ErrCodePriceUnavailable, "failed to fetch price history", err)
	}

	scoutSignal := c.scout.Scan(history)
	proposal := c.analyst.Analyze(scoutSignal, history)

	currentPrices := map[string]float64{symbol: price}
	portfolioValue := c.ledger.PortfolioValue(currentPrices)
	openExposure := c.ledger.OpenExposure(currentPrices)

	decision := c.guardian.Evaluate(proposal, portfolioValue, openExposure, price)

	result := CycleResult{
		Symbol:      symbol,
		Price:       price,
		ScoutSignal: scoutSignal,
		Proposal:    proposal,
		Decision:    decision,
		Executed:    false,
		RealizedPnL: optional.None[float64](),
	}

	switch decision.Signal {
	case types.SignalTypeBuy:
		if err := c.executeBuy(&result); err != nil {
			return result, err
		}
	case types.SignalTypeSell:
		if err := c.executeSell(&result); err != nil {
			return result, err
		}
	case types.SignalTypeHold:
		// No side effects.
	}

	return result, nil
}

// executeBuy applies an approved buy against the ledger. A buy rejected for
// insufficient cash is logged as REJECTED_FUNDS without any memory update.
func (c *Coordinator) executeBuy(result *CycleResult) error {
	amount := result.Decision.Amount.Quantity()
	if amount <= 0 {
		c.log.Warn("approved buy has no quantity, skipping",
			zap.String("symbol", result.Symbol),
		)

		return nil
	}

	err := c.ledger.AddPosition(result.Symbol, amount, result.Price)
	if err == nil {
		result.Executed = true

		return c.appendTrade(result.Symbol, types.ActionBuy, amount, result.Price,
			"agent pipeline executed")
	}

	if errors.HasCode(err, errors.ErrCodeInsufficientFunds) {
		return c.appendTrade(result.Symbol, types.ActionRejectedFunds, amount, result.Price,
			"insufficient cash balance")
	}

	return err
}

// executeSell liquidates the full held position and feeds the realized P&L
// back into every agent's memory. This is the only path that triggers
// adaptation. A sell with no open position is dropped silently.
func (c *Coordinator) executeSell(result *CycleResult) error {
	held := c.ledger.Position(result.Symbol)
	if held.IsNone() {
		c.log.Debug("sell decision with no open position, dropping",
			zap.String("symbol", result.Symbol),
		)

		return nil
	}

	position := held.Unwrap()
	if position.Amount <= 0 {
		return nil
	}

	if err := c.ledger.RemovePosition(result.Symbol, position.Amount, result.Price); err != nil {
		if errors.HasCode(err, errors.ErrCodeInsufficientPosition) {
			// The sell leg aborts silently.
			return nil
		}

		return err
	}

	realizedPnL := (result.Price - position.AverageEntryPrice) * position.Amount

	c.scout.UpdateMemory(realizedPnL)
	c.analyst.UpdateMemory(realizedPnL)
	c.guardian.UpdateMemory(realizedPnL)

	result.Executed = true
	result.RealizedPnL = optional.Some(realizedPnL)

	return c.appendTrade(result.Symbol, types.ActionSell, position.Amount, result.Price,
		"agents memory updated")
}

func (c *Coordinator) appendTrade(symbol string, action types.ActionType, amount, price float64, note string) error {
	return c.tradeLog.Append(types.TradeRecord{
		Timestamp: c.now(),
		Symbol:    symbol,
		Action:    action,
		Amount:    amount,
		Price:     price,
		Value:     amount * price,
		Note:      note,
	})
}

// UpdateStrategyWindows applies a live strategy parameter update. An update
// violating 0 < short < long is ignored and reports false.
func (c *Coordinator) UpdateStrategyWindows(short, long int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.crossover.SetWindows(short, long)
}

// UpdateRiskLimits applies live risk percentage updates. Each percentage is
// validated independently; an out-of-bound value is ignored while the other
// may still apply.
func (c *Coordinator) UpdateRiskLimits(maxPositionPct, maxExposurePct float64) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.limits.SetMaxPositionPct(maxPositionPct), c.limits.SetMaxExposurePct(maxExposurePct)
}

// AgentSnapshot is a read-only view of one agent's state.
type AgentSnapshot struct {
	Name   string       `json:"name"`
	Status string       `json:"status"`
	Memory agent.Memory `json:"memory"`
}

// Snapshot is a read-only view of the session for the control surface.
type Snapshot struct {
	Symbol            string                    `json:"symbol"`
	CashBalance       float64                   `json:"cash_balance"`
	InitialBalance    float64                   `json:"initial_balance"`
	Positions         map[string]types.Position `json:"positions"`
	Agents            []AgentSnapshot           `json:"agents"`
	CooldownRemaining int                       `json:"cooldown_remaining"`
	SizeModifier      float64                   `json:"size_modifier"`
	AlignmentRequired bool                      `json:"alignment_required"`
	ShortWindow       int                       `json:"short_window"`
	LongWindow        int                       `json:"long_window"`
	MaxPositionPct    float64                   `json:"max_position_pct"`
	MaxExposurePct    float64                   `json:"max_exposure_pct"`
}

// Snapshot returns a consistent read-only view of the whole session.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	short, long := c.crossover.Windows()

	return Snapshot{
		Symbol:         c.config.Symbol,
		CashBalance:    c.ledger.CashBalance(),
		InitialBalance: c.ledger.InitialBalance(),
		Positions:      c.ledger.Positions(),
		Agents: []AgentSnapshot{
			{Name: c.scout.Name(), Status: c.scout.Status(), Memory: c.scout.Memory()},
			{Name: c.analyst.Name(), Status: c.analyst.Status(), Memory: c.analyst.Memory()},
			{Name: c.guardian.Name(), Status: c.guardian.Status(), Memory: c.guardian.Memory()},
		},
		CooldownRemaining: c.guardian.CooldownRemaining(),
		SizeModifier:      c.guardian.SizeModifier(),
		AlignmentRequired: c.analyst.RequiresAlignment(),
		ShortWindow:       short,
		LongWindow:        long,
		MaxPositionPct:    c.limits.MaxPositionPct(),
		MaxExposurePct:    c.limits.MaxExposurePct(),
	}
}

// TradeHistory returns the trade log in insertion order.
func (c *Coordinator) TradeHistory() ([]types.TradeRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.tradeLog.Records()
}

// PortfolioValue values the portfolio at the provider's current price.
func (c *Coordinator) PortfolioValue() (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	price, err := c.provider.CurrentPrice(c.config.Symbol)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodePriceUnavailable, "failed to fetch current price", err)
	}

	return c.ledger.PortfolioValue(map[string]float64{c.config.Symbol: price}), nil
}

// Close releases the trade log resources.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.tradeLog.Close()
}
