package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorized operation forbidden
	ErrUnauthorized ErrorCode = 100001
	// ErrInvalidArgument invalid argument
	ErrInvalidArgument ErrorCode = 100002

	// ErrMarketNotFound no market
	ErrMarketNotFound ErrorCode = 100100
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrPositionNotFound no position
	ErrPositionNotFound ErrorCode = 100102
	// ErrPositionExists position already opened
	ErrPositionExists ErrorCode = 100103
	// ErrExceedsMaximumLtv debt over collateral limit
	ErrExceedsMaximumLtv ErrorCode = 100104
	// ErrInsufficientLiquidity insufficient liquidity
	ErrInsufficientLiquidity ErrorCode = 100105
	// ErrMathOverflow arithmetic overflow or zero denominator
	ErrMathOverflow ErrorCode = 100106
	// ErrTransferFailed custody rejected the transfer
	ErrTransferFailed ErrorCode = 100107
	// ErrProtocolPaused market paused
	ErrProtocolPaused ErrorCode = 100108
)

var errorMessages = map[ErrorCode]string{
	ErrUnknown:               "unknown error",
	ErrUnauthorized:          "unauthorized",
	ErrInvalidArgument:       "invalid argument",
	ErrMarketNotFound:        "market not found",
	ErrInvalidAmount:         "invalid amount",
	ErrPositionNotFound:      "position not found",
	ErrPositionExists:        "position already exists",
	ErrExceedsMaximumLtv:     "exceeds maximum ltv",
	ErrInsufficientLiquidity: "insufficient liquidity",
	ErrMathOverflow:          "math overflow",
	ErrTransferFailed:        "transfer failed",
	ErrProtocolPaused:        "protocol paused",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}

	return e.String()
}
