// Package domain holds the value types shared by the gateway, the order
// store and the surfaces.
package domain

import (
	"github.com/shopspring/decimal"
)

// Side is an order direction as the venue spells it. Raw input is
// uppercased and passed through; the venue rejects anything else.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OpenOrder is one entry of the order state store: the most recent open
// order id believed live for a symbol.
type OpenOrder struct {
	Symbol  string `json:"symbol"`
	OrderID int64  `json:"orderId"`
}

// Balance is a single asset holding.
type Balance struct {
	Asset  string          `json:"asset"`
	Free   decimal.Decimal `json:"free"`
	Locked decimal.Decimal `json:"locked"`
}

// HasFunds reports whether anything is held, free or locked.
func (b Balance) HasFunds() bool {
	return b.Free.IsPositive() || b.Locked.IsPositive()
}

// Trade is one fill from the account trade history.
type Trade struct {
	Symbol          string          `json:"symbol"`
	ID              int64           `json:"id"`
	OrderID         int64           `json:"orderId"`
	Price           decimal.Decimal `json:"price"`
	Quantity        decimal.Decimal `json:"qty"`
	QuoteQuantity   decimal.Decimal `json:"quoteQty"`
	Commission      decimal.Decimal `json:"commission"`
	CommissionAsset string          `json:"commissionAsset"`
	Time            int64           `json:"time"`
	IsBuyer         bool            `json:"isBuyer"`
	IsMaker         bool            `json:"isMaker"`
}

// OrderReceipt is the venue's acknowledgement of a placed order.
type OrderReceipt struct {
	Symbol        string `json:"symbol"`
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	TransactTime  int64  `json:"transactTime"`
	Price         string `json:"price"`
	OrigQty       string `json:"origQty"`
	ExecutedQty   string `json:"executedQty"`
	Status        string `json:"status"`
	Side          string `json:"side"`
	Type          string `json:"type"`
}
