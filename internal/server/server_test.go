package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/idtwin/crypto-auto-trader/internal/engine"
	"github.com/idtwin/crypto-auto-trader/internal/logger"
	"github.com/idtwin/crypto-auto-trader/internal/types"
)

type staticProvider struct {
	price   float64
	history types.PriceSeries
}

func (p *staticProvider) CurrentPrice(string) (float64, error) {
	return p.price, nil
}

func (p *staticProvider) History(string, int) (types.PriceSeries, error) {
	return p.history, nil
}

type StatusServerTestSuite struct {
	suite.Suite
	coordinator *engine.Coordinator
	server      *StatusServer
}

func (suite *StatusServerTestSuite) SetupTest() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	closes := []float64{100, 101, 102, 101, 100}
	history := make(types.PriceSeries, len(closes))

	for i, c := range closes {
		history[i] = types.Candle{Time: base.Add(time.Duration(i) * time.Hour), Close: c}
	}

	provider := &staticProvider{price: 100, history: history}

	config := engine.DefaultConfig()
	config.ShortWindow = 2
	config.LongWindow = 3
	config.HistoryLimit = 5

	coordinator, err := engine.NewCoordinator(config, provider, logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.coordinator = coordinator

	suite.server = NewStatusServer(coordinator, logger.NewNopLogger())
	suite.Require().NoError(suite.server.Start(":0"))
}

func (suite *StatusServerTestSuite) TearDownTest() {
	suite.NoError(suite.server.Stop())
	suite.NoError(suite.coordinator.Close())
}

func TestStatusServerSuite(t *testing.T) {
	suite.Run(t, new(StatusServerTestSuite))
}

func (suite *StatusServerTestSuite) get(path string, out interface{}) *http.Response {
	resp, err := http.Get(suite.server.BaseURL() + path)
	suite.Require().NoError(err)

	defer resp.Body.Close()

	if out != nil {
		suite.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}

	return resp
}

func (suite *StatusServerTestSuite) TestHealth() {
	var body map[string]string

	resp := suite.get("/api/health", &body)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("ok", body["status"])
}

func (suite *StatusServerTestSuite) TestStatus() {
	var snapshot engine.Snapshot

	resp := suite.get("/api/status", &snapshot)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("BTCUSDT", snapshot.Symbol)
	suite.Len(snapshot.Agents, 3)
	suite.Equal(2, snapshot.ShortWindow)
	suite.Equal(3, snapshot.LongWindow)
}

func (suite *StatusServerTestSuite) TestPortfolio() {
	var body struct {
		CashBalance    float64 `json:"cash_balance"`
		PortfolioValue float64 `json:"portfolio_value"`
		TotalReturnPct float64 `json:"total_return_pct"`
	}

	resp := suite.get("/api/portfolio", &body)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal(10000.0, body.CashBalance)
	suite.Equal(10000.0, body.PortfolioValue)
	suite.Equal(0.0, body.TotalReturnPct)
}

func (suite *StatusServerTestSuite) TestTradesEmpty() {
	var records []types.TradeRecord

	resp := suite.get("/api/trades", &records)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Empty(records)
}

func (suite *StatusServerTestSuite) TestConfigSchema() {
	var schema map[string]interface{}

	resp := suite.get("/api/config/schema", &schema)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(schema, "$ref")
}

func (suite *StatusServerTestSuite) TestUpdateParams() {
	payload := []byte(`{"short_window": 5, "long_window": 10, "max_position_pct": 0.3}`)

	resp, err := http.Post(suite.server.BaseURL()+"/api/params", "application/json", bytes.NewReader(payload))
	suite.Require().NoError(err)

	defer resp.Body.Close()

	var body paramsResponse
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.True(body.WindowsApplied)
	suite.True(body.PositionPctApplied)
	suite.Equal(5, body.Snapshot.ShortWindow)
	suite.Equal(10, body.Snapshot.LongWindow)
	suite.Equal(0.3, body.Snapshot.MaxPositionPct)
	suite.Equal(0.8, body.Snapshot.MaxExposurePct)
}

func (suite *StatusServerTestSuite) TestUpdateParamsRejectsInvalidWindows() {
	payload := []byte(`{"short_window": 50, "long_window": 10}`)

	resp, err := http.Post(suite.server.BaseURL()+"/api/params", "application/json", bytes.NewReader(payload))
	suite.Require().NoError(err)

	defer resp.Body.Close()

	var body paramsResponse
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))

	suite.False(body.WindowsApplied)
	suite.Equal(2, body.Snapshot.ShortWindow)
	suite.Equal(3, body.Snapshot.LongWindow)
}

func (suite *StatusServerTestSuite) TestUpdateParamsRejectsMalformedBody() {
	resp, err := http.Post(suite.server.BaseURL()+"/api/params", "application/json", bytes.NewReader([]byte("{")))
	suite.Require().NoError(err)

	defer resp.Body.Close()

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (suite *StatusServerTestSuite) TestMethodNotAllowed() {
	req, err := http.NewRequest(http.MethodDelete, suite.server.BaseURL()+"/api/status", nil)
	suite.Require().NoError(err)

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)

	defer resp.Body.Close()

	suite.Equal(http.StatusMethodNotAllowed, resp.StatusCode)
}
