package exchange

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/alexbobes/slack-binance-trading-bot/internal/domain"
)

// PlaceLimitOrder submits a GTC limit order. Price and quantity are passed
// through as decimal strings; the venue validates tick and step sizes.
func (c *Client) PlaceLimitOrder(ctx context.Context, symbol string, side domain.Side, price, quantity string) (*domain.OrderReceipt, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", string(side))
	params.Set("type", "LIMIT")
	params.Set("timeInForce", "GTC")
	params.Set("price", price)
	params.Set("quantity", quantity)
	params.Set("newClientOrderId", uuid.NewString())

	receipt := &domain.OrderReceipt{}
	if err := c.do(ctx, http.MethodPost, "/api/v3/order", params, true, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// CancelOrder cancels an open order by symbol and venue order id.
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", strconv.FormatInt(orderID, 10))

	return c.do(ctx, http.MethodDelete, "/api/v3/order", params, true, nil)
}

type listenKeyResponse struct {
	ListenKey string `json:"listenKey"`
}

// CreateListenKey opens a user data stream session and returns its key.
// The key expires venue-side unless kept alive.
func (c *Client) CreateListenKey(ctx context.Context) (string, error) {
	var resp listenKeyResponse
	if err := c.do(ctx, http.MethodPost, "/api/v3/userDataStream", nil, false, &resp); err != nil {
		return "", err
	}
	return resp.ListenKey, nil
}

// KeepAliveListenKey extends the listen key's expiry.
func (c *Client) KeepAliveListenKey(ctx context.Context, listenKey string) error {
	params := url.Values{}
	params.Set("listenKey", listenKey)

	return c.do(ctx, http.MethodPut, "/api/v3/userDataStream", params, false, nil)
}
