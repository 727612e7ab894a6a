package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/idtwin/crypto-auto-trader/internal/logger"
	"github.com/idtwin/crypto-auto-trader/internal/types"
)

func makeSeries(closes ...float64) types.PriceSeries {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(types.PriceSeries, len(closes))

	for i, c := range closes {
		series[i] = types.Candle{
			Time:  base.Add(time.Duration(i) * time.Hour),
			Close: c,
		}
	}

	return series
}

type ScoutTestSuite struct {
	suite.Suite
	scout *Scout
}

func (suite *ScoutTestSuite) SetupTest() {
	suite.scout = NewScout(logger.NewNopLogger())
}

func TestScoutSuite(t *testing.T) {
	suite.Run(t, new(ScoutTestSuite))
}

func (suite *ScoutTestSuite) TestInsufficientData() {
	signal := suite.scout.Scan(makeSeries(100, 101, 102, 103))
	suite.Equal(types.SignalTypeHold, signal.Type)
	suite.Equal("insufficient data", signal.Reason)
	suite.Equal("Waiting for data", suite.scout.Status())
}

func (suite *ScoutTestSuite) TestPositiveMomentumBuys() {
	signal := suite.scout.Scan(makeSeries(100, 100, 100, 100, 102))
	suite.Equal(types.SignalTypeBuy, signal.Type)
	suite.Contains(signal.Reason, "positive momentum")
}

func (suite *ScoutTestSuite) TestNegativeMomentumSells() {
	signal := suite.scout.Scan(makeSeries(100, 100, 100, 100, 98))
	suite.Equal(types.SignalTypeSell, signal.Type)
	suite.Contains(signal.Reason, "negative momentum")
}

func (suite *ScoutTestSuite) TestFlatSeriesHolds() {
	signal := suite.scout.Scan(makeSeries(100, 100, 100, 100, 100))
	suite.Equal(types.SignalTypeHold, signal.Type)
}

func (suite *ScoutTestSuite) TestHighVolatilityRejected() {
	signal := suite.scout.Scan(makeSeries(100, 115, 90, 110, 101))
	suite.Equal(types.SignalTypeHold, signal.Type)
	suite.Contains(signal.Reason, "high volatility")
}

func (suite *ScoutTestSuite) TestVolatilityCarriedInRawValue() {
	signal := suite.scout.Scan(makeSeries(100, 100, 100, 100, 102))

	volatility, ok := signal.RawValue.(float64)
	suite.True(ok)
	suite.Greater(volatility, 0.0)
}

func (suite *ScoutTestSuite) TestLossStreakTightensFilter() {
	suite.Equal(defaultVolatilityThreshold, suite.scout.VolatilityThreshold())

	suite.scout.UpdateMemory(-1)
	suite.scout.UpdateMemory(-1)
	suite.Equal(defaultVolatilityThreshold, suite.scout.VolatilityThreshold())

	suite.scout.UpdateMemory(-1)
	suite.Equal(tightenedVolatilityThreshold, suite.scout.VolatilityThreshold())
	suite.Contains(suite.scout.Memory().Adaptations, "Tightened Volatility Filter (Loss Streak)")
}

func (suite *ScoutTestSuite) TestWinResetsFilter() {
	for i := 0; i < 3; i++ {
		suite.scout.UpdateMemory(-1)
	}

	suite.scout.UpdateMemory(5)
	suite.Equal(defaultVolatilityThreshold, suite.scout.VolatilityThreshold())
	// Labels are recomputed wholesale, not accumulated.
	suite.Empty(suite.scout.Memory().Adaptations)
}

func (suite *ScoutTestSuite) TestTightenedFilterRejectsModerateVolatility() {
	for i := 0; i < 3; i++ {
		suite.scout.UpdateMemory(-1)
	}

	// Volatility around 0.02-0.05 passes the default filter but not the
	// tightened one.
	series := makeSeries(100, 101.5, 100, 101.5, 103)
	signal := suite.scout.Scan(series)
	suite.Equal(types.SignalTypeHold, signal.Type)
	suite.Contains(signal.Reason, "high volatility")
}
