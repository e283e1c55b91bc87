package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alexbobes/slack-binance-trading-bot/internal/notify"
	"github.com/alexbobes/slack-binance-trading-bot/pkg/logger"
)

// Slash commands served on /slack/commands.
const (
	slashTrade      = "/crypto_trade"
	slashPrice      = "/crypto_price"
	slashBalance    = "/crypto_balance"
	slashOpenOrders = "/crypto_open_orders"
)

// handleSlackCommand acks every slash command immediately; the real
// response goes to the caller's response URL from a separate goroutine.
func (s *Server) handleSlackCommand(c *gin.Context) {
	name := c.PostForm("command")
	text := c.PostForm("text")
	responseURL := c.PostForm("response_url")

	go s.runSlashCommand(context.Background(), name, text, responseURL)
	c.Status(http.StatusOK)
}

func (s *Server) runSlashCommand(ctx context.Context, name, text, responseURL string) {
	var (
		response   string
		visibility notify.Visibility
	)

	switch name {
	case slashTrade:
		s.dispatcher.Respond(ctx, responseURL, text)
		return
	case slashPrice:
		response, visibility = s.priceLookup(ctx, text)
	case slashBalance:
		response, visibility = s.balanceSummary(ctx)
	case slashOpenOrders:
		response, visibility = s.openOrderSummary()
	default:
		response = fmt.Sprintf("Unknown command: %s", name)
		visibility = notify.VisibilityPrivate
	}

	if err := s.notifier.PostResponse(ctx, responseURL, response, visibility); err != nil {
		logger.Warnf("[server] slash command response failed: %v", err)
	}
}

// priceLookup resolves a price for a tracked symbol. Untracked symbols are
// rejected without touching the gateway.
func (s *Server) priceLookup(ctx context.Context, text string) (string, notify.Visibility) {
	symbol := strings.ToUpper(strings.TrimSpace(text))

	if !s.isTracked(symbol) {
		return fmt.Sprintf("Invalid symbol. Supported symbols are: %s",
			strings.Join(s.tracked, ", ")), notify.VisibilityPrivate
	}

	price, err := s.gateway.GetPrice(ctx, symbol)
	if err != nil {
		return fmt.Sprintf("Error fetching price for %s: %v", symbol, err), notify.VisibilityPrivate
	}
	return fmt.Sprintf("Current price for %s: %s", symbol, price), notify.VisibilityPublic
}

func (s *Server) balanceSummary(ctx context.Context) (string, notify.Visibility) {
	balances, err := s.gateway.AccountBalances(ctx)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), notify.VisibilityPrivate
	}

	var sb strings.Builder
	sb.WriteString("Balances:")
	for _, b := range balances {
		if !b.HasFunds() {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s: %s (Free) | %s (Locked)", b.Asset, b.Free, b.Locked))
	}
	return sb.String(), notify.VisibilityPublic
}

func (s *Server) openOrderSummary() (string, notify.Visibility) {
	orders := s.store.Snapshot()
	if len(orders) == 0 {
		return "No open orders.", notify.VisibilityPublic
	}

	var sb strings.Builder
	sb.WriteString("Open Orders:")
	for _, o := range orders {
		sb.WriteString(fmt.Sprintf("\n%s: Order ID %d", o.Symbol, o.OrderID))
	}
	return sb.String(), notify.VisibilityPublic
}

func (s *Server) isTracked(symbol string) bool {
	for _, t := range s.tracked {
		if t == symbol {
			return true
		}
	}
	return false
}
