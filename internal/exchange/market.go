package exchange

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type tickerPriceResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// GetPrice fetches the current ticker price for a symbol.
func (c *Client) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var resp tickerPriceResponse
	if err := c.do(ctx, http.MethodGet, "/api/v3/ticker/price", params, false, &resp); err != nil {
		return decimal.Zero, err
	}

	price, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse price %q for %s", resp.Price, symbol)
	}
	return price, nil
}
