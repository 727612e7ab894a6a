// Package market supplies current prices and historical price series to the
// decision pipeline. The pipeline treats providers as opaque: any provider
// may return an empty or short series, which consumers handle as
// insufficient data.
package market

import (
	"github.com/idtwin/crypto-auto-trader/internal/types"
)

type ProviderType string

const (
	ProviderSimulated ProviderType = "simulated"
)

// PriceProvider is the pipeline-facing interface to a price data source.
type PriceProvider interface {
	// CurrentPrice returns the latest price for the symbol.
	CurrentPrice(symbol string) (float64, error)
	// History returns a chronological series of closing prices for the
	// symbol, oldest first, with at most limit points. Providers may
	// return fewer points than requested.
	History(symbol string, limit int) (types.PriceSeries, error)
}
