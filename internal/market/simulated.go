package market

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/idtwin/crypto-auto-trader/internal/types"
	"github.com/idtwin/crypto-auto-trader/pkg/errors"
)

const (
	// currentPriceDrift bounds the per-call random walk of the spot price.
	currentPriceDrift = 0.005
	// historyDrift bounds the per-period variance of generated hourly candles.
	historyDrift = 0.02
)

// SimulatedProvider generates price data with a random walk. Each symbol
// keeps its own walk state, so consecutive calls produce a continuous price
// path.
type SimulatedProvider struct {
	mu         sync.Mutex
	rng        *rand.Rand
	lastPrices map[string]float64
	now        func() time.Time
}

// NewSimulatedProvider creates a simulated provider seeded for reproducible runs.
func NewSimulatedProvider(seed int64) *SimulatedProvider {
	return &SimulatedProvider{
		rng:        rand.New(rand.NewSource(seed)),
		lastPrices: make(map[string]float64),
		now:        time.Now,
	}
}

// initSymbol sets a plausible starting price the first time a symbol is seen.
func (p *SimulatedProvider) initSymbol(symbol string) {
	if _, ok := p.lastPrices[symbol]; ok {
		return
	}

	switch {
	case strings.Contains(symbol, "BTC"):
		p.lastPrices[symbol] = 60000.0
	case strings.Contains(symbol, "ETH"):
		p.lastPrices[symbol] = 3000.0
	default:
		p.lastPrices[symbol] = 100.0
	}
}

// CurrentPrice implements PriceProvider. Each call advances the symbol's
// random walk by at most +/-0.5%.
func (p *SimulatedProvider) CurrentPrice(symbol string) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if symbol == "" {
		return 0, errors.New(errors.ErrCodePriceUnavailable, "empty symbol")
	}

	p.initSymbol(symbol)

	change := (p.rng.Float64()*2 - 1) * currentPriceDrift
	price := p.lastPrices[symbol] * (1 + change)
	p.lastPrices[symbol] = price

	return price, nil
}

// History implements PriceProvider. It generates an hourly random walk
// ending at the symbol's current price, oldest candle first.
func (p *SimulatedProvider) History(symbol string, limit int) (types.PriceSeries, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if symbol == "" {
		return nil, errors.New(errors.ErrCodePriceUnavailable, "empty symbol")
	}

	if limit <= 0 {
		return types.PriceSeries{}, nil
	}

	p.initSymbol(symbol)

	// Walk backwards from the current price so the series ends where the
	// spot price is.
	closes := make([]float64, limit)
	closes[limit-1] = p.lastPrices[symbol]

	for i := limit - 2; i >= 0; i-- {
		change := (p.rng.Float64()*2 - 1) * historyDrift
		closes[i] = closes[i+1] / (1 + change)
	}

	now := p.now()
	series := make(types.PriceSeries, limit)

	for i := 0; i < limit; i++ {
		series[i] = types.Candle{
			Time:  now.Add(-time.Duration(limit-1-i) * time.Hour),
			Close: closes[i],
		}
	}

	return series, nil
}
