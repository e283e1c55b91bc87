// Package broadcast pushes periodic price updates for the tracked symbols
// to the notification sink.
package broadcast

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alexbobes/slack-binance-trading-bot/pkg/logger"
)

// PriceSource is the slice of the exchange gateway the broadcaster uses.
type PriceSource interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// Notifier delivers one text message.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Broadcaster runs one pass over the tracked symbols per interval. A
// failure on one symbol never aborts the pass.
type Broadcaster struct {
	source   PriceSource
	notifier Notifier
	symbols  []string
	interval time.Duration
}

func New(source PriceSource, notifier Notifier, symbols []string, interval time.Duration) *Broadcaster {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Broadcaster{
		source:   source,
		notifier: notifier,
		symbols:  symbols,
		interval: interval,
	}
}

// Run broadcasts immediately, then once per interval until ctx is
// cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	for {
		b.broadcastOnce(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.interval):
		}
	}
}

// broadcastOnce fetches and delivers every tracked symbol's price, logging
// and skipping symbols that fail.
func (b *Broadcaster) broadcastOnce(ctx context.Context) {
	for _, symbol := range b.symbols {
		price, err := b.source.GetPrice(ctx, symbol)
		if err != nil {
			logger.Errorf("[broadcast] fetch price for %s: %v", symbol, err)
			continue
		}
		if err := b.notifier.Notify(ctx, fmt.Sprintf("%s: %s", symbol, price)); err != nil {
			logger.Errorf("[broadcast] notify price for %s: %v", symbol, err)
		}
	}
}
