package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidTradeRecord   ErrorCode = 102
	ErrCodeInsufficientData     ErrorCode = 103
	ErrCodeInvalidWindow        ErrorCode = 104
	ErrCodeInvalidPercentage    ErrorCode = 105

	// Market data errors (200-299)
	ErrCodePriceUnavailable ErrorCode = 200
	ErrCodeHistoryTooShort  ErrorCode = 201

	// Portfolio errors (300-399)
	ErrCodeInsufficientFunds    ErrorCode = 300
	ErrCodeInsufficientPosition ErrorCode = 301
	ErrCodePositionNotFound     ErrorCode = 302

	// Trade log errors (400-499)
	ErrCodeTradeLogInit  ErrorCode = 400
	ErrCodeTradeLogWrite ErrorCode = 401
	ErrCodeTradeLogQuery ErrorCode = 402
)
