package engine

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/idtwin/crypto-auto-trader/internal/logger"
	"github.com/idtwin/crypto-auto-trader/internal/types"
	"github.com/idtwin/crypto-auto-trader/pkg/errors"
)

// TradeLog is the append-only record of executed and rejected trades, backed
// by an in-memory DuckDB table. Entries are immutable once written; the
// sequence column preserves insertion order, which is chronological order.
type TradeLog struct {
	db  *sql.DB
	log *logger.Logger
	sq  squirrel.StatementBuilderType
}

// NewTradeLog opens an in-memory trade log.
func NewTradeLog(log *logger.Logger) (*TradeLog, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTradeLogInit, "failed to open trade log database", err)
	}

	return &TradeLog{
		db:  db,
		log: log,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the trade log table and its ordering sequence.
func (t *TradeLog) Initialize() error {
	_, err := t.db.Exec(`CREATE SEQUENCE IF NOT EXISTS trade_seq`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeTradeLogInit, "failed to create sequence", err)
	}

	_, err = t.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			seq BIGINT DEFAULT nextval('trade_seq'),
			id TEXT PRIMARY KEY,
			timestamp TIMESTAMP,
			symbol TEXT,
			action TEXT,
			amount DOUBLE,
			price DOUBLE,
			value DOUBLE,
			note TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeTradeLogInit, "failed to create trades table", err)
	}

	return nil
}

// Append validates and stores one trade record. A record without an ID gets
// a fresh UUID.
func (t *TradeLog) Append(record types.TradeRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	if err := record.Validate(); err != nil {
		return err
	}

	query, args, err := t.sq.
		Insert("trades").
		Columns("id", "timestamp", "symbol", "action", "amount", "price", "value", "note").
		Values(record.ID, record.Timestamp, record.Symbol, string(record.Action),
			record.Amount, record.Price, record.Value, record.Note).
		ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeTradeLogWrite, "failed to build insert query", err)
	}

	if _, err := t.db.Exec(query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeTradeLogWrite, "failed to append trade record", err)
	}

	t.log.Info("trade logged",
		zap.String("symbol", record.Symbol),
		zap.String("action", string(record.Action)),
		zap.Float64("amount", record.Amount),
		zap.Float64("price", record.Price),
		zap.String("note", record.Note),
	)

	return nil
}

// Records returns all trade records in insertion order.
func (t *TradeLog) Records() ([]types.TradeRecord, error) {
	query, args, err := t.sq.
		Select("id", "timestamp", "symbol", "action", "amount", "price", "value", "note").
		From("trades").
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTradeLogQuery, "failed to build select query", err)
	}

	rows, err := t.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTradeLogQuery, "failed to query trade records", err)
	}
	defer rows.Close()

	records := make([]types.TradeRecord, 0)

	for rows.Next() {
		var (
			record    types.TradeRecord
			timestamp time.Time
			action    string
		)

		if err := rows.Scan(&record.ID, &timestamp, &record.Symbol, &action,
			&record.Amount, &record.Price, &record.Value, &record.Note); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTradeLogQuery, "failed to scan trade record", err)
		}

		record.Timestamp = timestamp
		record.Action = types.ActionType(action)
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTradeLogQuery, "failed to iterate trade records", err)
	}

	return records, nil
}

// Count returns the number of stored trade records.
func (t *TradeLog) Count() (int, error) {
	var count int
	if err := t.db.QueryRow(`SELECT COUNT(*) FROM trades`).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeTradeLogQuery, "failed to count trade records", err)
	}

	return count, nil
}

// Close releases the underlying database.
func (t *TradeLog) Close() error {
	if t.db == nil {
		return nil
	}

	return t.db.Close()
}
