package exchange

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alexbobes/slack-binance-trading-bot/internal/domain"
)

// tradeHistoryWindow is the largest span the venue accepts per myTrades
// request, so longer ranges are walked in 24h steps.
const tradeHistoryWindow = 24 * time.Hour

type accountResponse struct {
	Balances []domain.Balance `json:"balances"`
}

// AccountBalances fetches every asset balance on the account, including
// zero holdings. Callers filter as needed.
func (c *Client) AccountBalances(ctx context.Context) ([]domain.Balance, error) {
	var resp accountResponse
	if err := c.do(ctx, http.MethodGet, "/api/v3/account", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Balances, nil
}

// TradeHistory fetches the account's fills for a symbol between start and
// end by walking 24-hour windows and concatenating the results. A
// "no trading history" rejection ends the walk early with whatever was
// gathered so far; any other error aborts and propagates.
func (c *Client) TradeHistory(ctx context.Context, symbol string, start, end time.Time) ([]domain.Trade, error) {
	var trades []domain.Trade

	startMs := start.UnixMilli()
	endMs := end.UnixMilli()
	stepMs := tradeHistoryWindow.Milliseconds()

	for t := startMs; t < endMs; t += stepMs {
		windowEnd := t + stepMs
		if windowEnd > endMs {
			windowEnd = endMs
		}

		params := url.Values{}
		params.Set("symbol", symbol)
		params.Set("startTime", strconv.FormatInt(t, 10))
		params.Set("endTime", strconv.FormatInt(windowEnd, 10))

		var windowTrades []domain.Trade
		if err := c.do(ctx, http.MethodGet, "/api/v3/myTrades", params, true, &windowTrades); err != nil {
			if IsNoTradingHistory(err) {
				break
			}
			return nil, err
		}
		trades = append(trades, windowTrades...)
	}

	return trades, nil
}
