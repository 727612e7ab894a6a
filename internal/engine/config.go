package engine

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/idtwin/crypto-auto-trader/pkg/errors"
)

// SessionConfig holds the initial parameters of a trading session. Strategy
// windows and risk percentages can be changed later through the coordinator's
// setter contracts; the rest is fixed for the session lifetime.
type SessionConfig struct {
	// Symbol is the traded symbol.
	Symbol string `yaml:"symbol" json:"symbol" validate:"required"`
	// InitialBalance is the starting cash balance in USD.
	InitialBalance float64 `yaml:"initial_balance" json:"initial_balance" validate:"required,gt=0"`
	// ShortWindow is the short moving average window.
	ShortWindow int `yaml:"short_window" json:"short_window" validate:"required,gt=0"`
	// LongWindow is the long moving average window. Must exceed ShortWindow.
	LongWindow int `yaml:"long_window" json:"long_window" validate:"required,gtfield=ShortWindow"`
	// MaxPositionPct caps a single trade as a fraction of portfolio value.
	MaxPositionPct float64 `yaml:"max_position_pct" json:"max_position_pct" validate:"required,gt=0,lte=1"`
	// MaxExposurePct caps total open exposure as a fraction of portfolio value.
	MaxExposurePct float64 `yaml:"max_exposure_pct" json:"max_exposure_pct" validate:"required,gt=0,lte=1"`
	// HistoryLimit is the number of candles requested from the provider
	// each cycle.
	HistoryLimit int `yaml:"history_limit" json:"history_limit" validate:"required,gt=0"`
}

// DefaultConfig returns a SessionConfig with the stock paper-trading defaults.
func DefaultConfig() SessionConfig {
	return SessionConfig{
		Symbol:         "BTCUSDT",
		InitialBalance: 10000,
		ShortWindow:    20,
		LongWindow:     50,
		MaxPositionPct: 0.2,
		MaxExposurePct: 0.8,
		HistoryLimit:   100,
	}
}

// Validate validates the SessionConfig struct.
func (c *SessionConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid session config", err)
	}

	if c.HistoryLimit < c.LongWindow+1 {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"history limit %d too small for long window %d", c.HistoryLimit, c.LongWindow)
	}

	return nil
}

// ConfigSchema returns the JSON schema of SessionConfig, for clients that
// build or validate config files.
func ConfigSchema() (string, error) {
	schema := jsonschema.Reflect(&SessionConfig{})

	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal config schema", err)
	}

	return string(schemaBytes), nil
}

// ParseConfig parses and validates a YAML session config.
func ParseConfig(content string) (SessionConfig, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return SessionConfig{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse session config", err)
	}

	if err := config.Validate(); err != nil {
		return SessionConfig{}, err
	}

	return config, nil
}
