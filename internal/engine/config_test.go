package engine

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/idtwin/crypto-auto-trader/pkg/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestDefaultConfigIsValid() {
	config := DefaultConfig()
	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestParseConfig() {
	config, err := ParseConfig(`
symbol: ETHUSDT
initial_balance: 5000
short_window: 5
long_window: 15
max_position_pct: 0.1
max_exposure_pct: 0.5
history_limit: 50
`)
	suite.NoError(err)
	suite.Equal("ETHUSDT", config.Symbol)
	suite.Equal(5000.0, config.InitialBalance)
	suite.Equal(5, config.ShortWindow)
	suite.Equal(15, config.LongWindow)
	suite.Equal(0.1, config.MaxPositionPct)
	suite.Equal(0.5, config.MaxExposurePct)
	suite.Equal(50, config.HistoryLimit)
}

func (suite *ConfigTestSuite) TestParseConfigAppliesDefaults() {
	config, err := ParseConfig(`symbol: SOLUSDT`)
	suite.NoError(err)
	suite.Equal("SOLUSDT", config.Symbol)
	suite.Equal(10000.0, config.InitialBalance)
	suite.Equal(20, config.ShortWindow)
	suite.Equal(50, config.LongWindow)
}

func (suite *ConfigTestSuite) TestParseConfigInvalidYAML() {
	_, err := ParseConfig("symbol: [unclosed")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestWindowOrderingEnforced() {
	config := DefaultConfig()
	config.ShortWindow = 50
	config.LongWindow = 20
	suite.Error(config.Validate())
}

func (suite *ConfigTestSuite) TestPercentageBoundsEnforced() {
	config := DefaultConfig()
	config.MaxPositionPct = 1.5
	suite.Error(config.Validate())

	config = DefaultConfig()
	config.MaxExposurePct = 0
	suite.Error(config.Validate())
}

func (suite *ConfigTestSuite) TestHistoryLimitMustCoverLongWindow() {
	config := DefaultConfig()
	config.HistoryLimit = config.LongWindow
	suite.Error(config.Validate())

	config.HistoryLimit = config.LongWindow + 1
	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestConfigSchema() {
	schema, err := ConfigSchema()
	suite.NoError(err)
	suite.Contains(schema, "symbol")
	suite.Contains(schema, "max_position_pct")
}
