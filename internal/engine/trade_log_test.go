package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/idtwin/crypto-auto-trader/internal/logger"
	"github.com/idtwin/crypto-auto-trader/internal/types"
	"github.com/idtwin/crypto-auto-trader/pkg/errors"
)

type TradeLogTestSuite struct {
	suite.Suite
	tradeLog *TradeLog
}

func (suite *TradeLogTestSuite) SetupTest() {
	tradeLog, err := NewTradeLog(logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.Require().NoError(tradeLog.Initialize())
	suite.tradeLog = tradeLog
}

func (suite *TradeLogTestSuite) TearDownTest() {
	if suite.tradeLog != nil {
		suite.NoError(suite.tradeLog.Close())
	}
}

func TestTradeLogSuite(t *testing.T) {
	suite.Run(t, new(TradeLogTestSuite))
}

func (suite *TradeLogTestSuite) record(action types.ActionType, amount, price float64) types.TradeRecord {
	return types.TradeRecord{
		Timestamp: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Symbol:    "BTCUSDT",
		Action:    action,
		Amount:    amount,
		Price:     price,
		Value:     amount * price,
		Note:      "test",
	}
}

func (suite *TradeLogTestSuite) TestAppendAssignsID() {
	suite.NoError(suite.tradeLog.Append(suite.record(types.ActionBuy, 1, 100)))

	records, err := suite.tradeLog.Records()
	suite.NoError(err)
	suite.Require().Len(records, 1)
	suite.NotEmpty(records[0].ID)
}

func (suite *TradeLogTestSuite) TestAppendRejectsInvalidRecord() {
	record := suite.record(types.ActionBuy, 1, 100)
	record.Symbol = ""

	err := suite.tradeLog.Append(record)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidTradeRecord))

	count, countErr := suite.tradeLog.Count()
	suite.NoError(countErr)
	suite.Equal(0, count)
}

func (suite *TradeLogTestSuite) TestRecordsPreserveInsertionOrder() {
	suite.NoError(suite.tradeLog.Append(suite.record(types.ActionBuy, 1, 100)))
	suite.NoError(suite.tradeLog.Append(suite.record(types.ActionSell, 1, 110)))
	suite.NoError(suite.tradeLog.Append(suite.record(types.ActionRejectedFunds, 2, 110)))

	records, err := suite.tradeLog.Records()
	suite.NoError(err)
	suite.Require().Len(records, 3)
	suite.Equal(types.ActionBuy, records[0].Action)
	suite.Equal(types.ActionSell, records[1].Action)
	suite.Equal(types.ActionRejectedFunds, records[2].Action)
}

func (suite *TradeLogTestSuite) TestRecordFieldsRoundTrip() {
	original := suite.record(types.ActionSell, 0.5, 62000)
	suite.NoError(suite.tradeLog.Append(original))

	records, err := suite.tradeLog.Records()
	suite.NoError(err)
	suite.Require().Len(records, 1)

	stored := records[0]
	suite.Equal(original.Symbol, stored.Symbol)
	suite.Equal(original.Amount, stored.Amount)
	suite.Equal(original.Price, stored.Price)
	suite.Equal(original.Value, stored.Value)
	suite.Equal(original.Note, stored.Note)
}

func (suite *TradeLogTestSuite) TestCount() {
	count, err := suite.tradeLog.Count()
	suite.NoError(err)
	suite.Equal(0, count)

	suite.NoError(suite.tradeLog.Append(suite.record(types.ActionBuy, 1, 100)))

	count, err = suite.tradeLog.Count()
	suite.NoError(err)
	suite.Equal(1, count)
}
