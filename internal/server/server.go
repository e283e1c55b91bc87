// Package server exposes the HTTP control surface and the Slack
// slash-command callback endpoint.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/alexbobes/slack-binance-trading-bot/internal/command"
	"github.com/alexbobes/slack-binance-trading-bot/internal/domain"
	"github.com/alexbobes/slack-binance-trading-bot/internal/orderstore"
)

// Gateway is the slice of the exchange gateway the surfaces read from and
// write to.
type Gateway interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	PlaceLimitOrder(ctx context.Context, symbol string, side domain.Side, price, quantity string) (*domain.OrderReceipt, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) error
	AccountBalances(ctx context.Context) ([]domain.Balance, error)
	TradeHistory(ctx context.Context, symbol string, start, end time.Time) ([]domain.Trade, error)
}

type Server struct {
	gateway    Gateway
	store      *orderstore.Store
	dispatcher *command.Dispatcher
	notifier   command.Notifier
	tracked    []string
}

func New(gateway Gateway, store *orderstore.Store, dispatcher *command.Dispatcher, notifier command.Notifier, trackedSymbols []string) *Server {
	return &Server{
		gateway:    gateway,
		store:      store,
		dispatcher: dispatcher,
		notifier:   notifier,
		tracked:    trackedSymbols,
	}
}

func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.GET("/price", s.handlePrice)
	r.POST("/order", s.handleOrder)
	r.GET("/balances", s.handleBalances)
	r.GET("/open_orders", s.handleOpenOrders)
	r.POST("/cancel_order", s.handleCancelOrder)
	r.GET("/trade_history", s.handleTradeHistory)
	r.POST("/trade_command", s.handleTradeCommand)

	r.POST("/slack/commands", s.handleSlackCommand)

	return r
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}
