// Package command parses and executes four-token trade instructions coming
// from Slack slash commands and the HTTP surface.
package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/alexbobes/slack-binance-trading-bot/internal/domain"
	"github.com/alexbobes/slack-binance-trading-bot/internal/notify"
	"github.com/alexbobes/slack-binance-trading-bot/pkg/logger"
)

// ErrInvalidFormat is returned when a raw command does not contain exactly
// four whitespace-separated tokens: side, symbol, price, quantity.
var ErrInvalidFormat = errors.New("invalid command format")

// TradeCommand is a parsed trade instruction, e.g. "buy BTCUSDT 50000 0.1".
type TradeCommand struct {
	Side     domain.Side
	Symbol   string
	Price    string
	Quantity string
}

// Parse splits raw into the four expected tokens, uppercasing side and
// symbol. Side and symbol values are not validated here; the venue rejects
// unknown ones.
func Parse(raw string) (TradeCommand, error) {
	tokens := strings.Fields(raw)
	if len(tokens) != 4 {
		return TradeCommand{}, ErrInvalidFormat
	}
	return TradeCommand{
		Side:     domain.Side(strings.ToUpper(tokens[0])),
		Symbol:   strings.ToUpper(tokens[1]),
		Price:    tokens[2],
		Quantity: tokens[3],
	}, nil
}

// OrderPlacer is the slice of the exchange gateway the dispatcher uses.
type OrderPlacer interface {
	PlaceLimitOrder(ctx context.Context, symbol string, side domain.Side, price, quantity string) (*domain.OrderReceipt, error)
}

// Notifier delivers outcomes to the channel and to deferred response URLs.
type Notifier interface {
	Notify(ctx context.Context, text string) error
	PostResponse(ctx context.Context, responseURL, text string, visibility notify.Visibility) error
}

// Result is the structured outcome of a dispatched command. Successful
// trades are public, failures private to the caller.
type Result struct {
	Text       string
	Visibility notify.Visibility
	Receipt    *domain.OrderReceipt
	Err        error
}

// Dispatcher turns raw command strings into limit orders.
type Dispatcher struct {
	gateway  OrderPlacer
	notifier Notifier
}

func NewDispatcher(gateway OrderPlacer, notifier Notifier) *Dispatcher {
	return &Dispatcher{gateway: gateway, notifier: notifier}
}

// Dispatch parses raw and places the order. A successful trade is also
// announced on the channel; announcement failure does not fail the trade.
func (d *Dispatcher) Dispatch(ctx context.Context, raw string) Result {
	cmd, err := Parse(raw)
	if err != nil {
		return Result{
			Text:       fmt.Sprintf("Error executing trade command: %v", err),
			Visibility: notify.VisibilityPrivate,
			Err:        err,
		}
	}

	receipt, err := d.gateway.PlaceLimitOrder(ctx, cmd.Symbol, cmd.Side, cmd.Price, cmd.Quantity)
	if err != nil {
		return Result{
			Text:       fmt.Sprintf("Error executing trade command: %v", err),
			Visibility: notify.VisibilityPrivate,
			Err:        err,
		}
	}

	if notifyErr := d.notifier.Notify(ctx, fmt.Sprintf("Order submitted successfully: %s %s %s %s",
		cmd.Side, cmd.Symbol, cmd.Price, cmd.Quantity)); notifyErr != nil {
		logger.Warnf("[command] order notification failed: %v", notifyErr)
	}

	return Result{
		Text:       fmt.Sprintf("Trade command executed: %s", raw),
		Visibility: notify.VisibilityPublic,
		Receipt:    receipt,
	}
}

// Respond dispatches raw and posts the outcome to responseURL. Used for the
// deferred half of the ack-then-respond contract.
func (d *Dispatcher) Respond(ctx context.Context, responseURL, raw string) {
	result := d.Dispatch(ctx, raw)
	if err := d.notifier.PostResponse(ctx, responseURL, result.Text, result.Visibility); err != nil {
		logger.Warnf("[command] deferred response to %s failed: %v", responseURL, err)
	}
}
