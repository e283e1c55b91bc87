package exchange

import "fmt"

// Venue error codes this system recognizes.
const (
	// CodeNoTradingHistory is returned by the venue when a symbol has no
	// trade history in the requested window.
	CodeNoTradingHistory = -2013
)

// APIError is a rejection returned by the venue itself, as opposed to a
// transport failure. The message is safe to surface to the operator.
type APIError struct {
	Code    int64  `json:"code"`
	Message string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance: %s (code=%d)", e.Message, e.Code)
}

// IsNoTradingHistory reports whether err is the venue's "no trading history"
// rejection for a symbol.
func IsNoTradingHistory(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Code == CodeNoTradingHistory
}
