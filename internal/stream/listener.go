// Package stream maintains the authenticated user data stream connection to
// the exchange and applies order lifecycle events to the order store.
package stream

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alexbobes/slack-binance-trading-bot/internal/orderstore"
	"github.com/alexbobes/slack-binance-trading-bot/pkg/logger"
)

const DefaultStreamURL = "wss://stream.binance.com:9443/ws"

// Order statuses carried by executionReport events.
const (
	statusNew             = "NEW"
	statusPartiallyFilled = "PARTIALLY_FILLED"
	statusCanceled        = "CANCELED"
	statusFilled          = "FILLED"
)

// ListenKeySource is the slice of the exchange gateway the listener needs:
// opening and extending the user data stream session.
type ListenKeySource interface {
	CreateListenKey(ctx context.Context) (string, error)
	KeepAliveListenKey(ctx context.Context, listenKey string) error
}

// Config tunes the connection lifecycle.
type Config struct {
	URL               string
	HandshakeTimeout  time.Duration
	ReconnectBase     time.Duration
	ReconnectMax      time.Duration
	KeepAliveInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		URL:               DefaultStreamURL,
		HandshakeTimeout:  10 * time.Second,
		ReconnectBase:     1 * time.Second,
		ReconnectMax:      60 * time.Second,
		KeepAliveInterval: 30 * time.Minute,
	}
}

// Listener owns the push-feed connection. It is the only writer of the
// order store.
type Listener struct {
	gateway   ListenKeySource
	store     *orderstore.Store
	apiKey    string
	apiSecret string
	cfg       Config

	keyMu     sync.Mutex
	listenKey string
}

func NewListener(gateway ListenKeySource, store *orderstore.Store, apiKey, apiSecret string, cfg Config) *Listener {
	if cfg.URL == "" {
		cfg = DefaultConfig()
	}
	return &Listener{
		gateway:   gateway,
		store:     store,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		cfg:       cfg,
	}
}

// Run connects, authenticates and consumes events until ctx is cancelled.
// Disconnects and dial failures are retried with exponential backoff; the
// backoff resets after any session that got as far as authenticating.
func (l *Listener) Run(ctx context.Context) error {
	backoff := l.cfg.ReconnectBase

	for {
		connected, err := l.runSession(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			backoff = l.cfg.ReconnectBase
		}
		logger.Warnf("[stream] session ended: %v, reconnecting in %s", err, backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > l.cfg.ReconnectMax {
			backoff = l.cfg.ReconnectMax
		}
	}
}

// runSession runs one connection from dial to close. connected reports
// whether authentication was sent, so the caller can reset its backoff.
func (l *Listener) runSession(ctx context.Context) (connected bool, err error) {
	key, err := l.currentListenKey(ctx)
	if err != nil {
		return false, fmt.Errorf("obtain listen key: %w", err)
	}

	dialer := websocket.Dialer{HandshakeTimeout: l.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, l.cfg.URL, nil)
	if err != nil {
		return false, fmt.Errorf("dial %s: %w", l.cfg.URL, err)
	}
	defer conn.Close()

	if err := l.authenticate(conn, key); err != nil {
		return false, fmt.Errorf("authenticate: %w", err)
	}
	logger.Infof("[stream] connected to %s", l.cfg.URL)

	// Unblock ReadMessage on cancellation and keep the listen key alive
	// while the session lasts.
	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go l.keepAliveLoop(sessionCtx)
	go func() {
		<-sessionCtx.Done()
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}
		l.handleMessage(message)
	}
}

// controlFrame is one of the three frames sent on connection open. IDs are
// assigned 1, 2, 3 so responses could be correlated.
type controlFrame struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
	ID     int    `json:"id"`
}

// authenticate subscribes to the listen key's event stream and registers the
// API key and an HMAC-SHA256 signature over "timestamp=<ms>" captured at
// send time. The venue expects exactly this payload format.
func (l *Listener) authenticate(conn *websocket.Conn, listenKey string) error {
	timestamp := time.Now().UnixMilli()
	payload := fmt.Sprintf("timestamp=%d", timestamp)

	mac := hmac.New(sha256.New, []byte(l.apiSecret))
	mac.Write([]byte(payload))
	signature := hex.EncodeToString(mac.Sum(nil))

	frames := []controlFrame{
		{Method: "SUBSCRIBE", Params: []any{listenKey}, ID: 1},
		{Method: "SET_PROPERTY", Params: []any{"spot", "USER_API-KEY", l.apiKey}, ID: 2},
		{Method: "SET_PROPERTY", Params: []any{"spot", "USER_API-SIGNATURE", signature}, ID: 3},
	}
	for _, frame := range frames {
		if err := conn.WriteJSON(frame); err != nil {
			return err
		}
	}
	return nil
}

// executionReport carries the fields this system reads from an order
// lifecycle event. Other event types share the "e" discriminator.
type executionReport struct {
	EventType string `json:"e"`
	Symbol    string `json:"s"`
	OrderID   int64  `json:"i"`
	Status    string `json:"X"`
}

// handleMessage applies one inbound frame to the store. Only
// executionReport events are acted on; unrecognized event types and
// malformed payloads are dropped so a bad frame can never take the
// listener down.
func (l *Listener) handleMessage(data []byte) {
	var report executionReport
	if err := json.Unmarshal(data, &report); err != nil {
		logger.Debugf("[stream] dropping malformed frame: %v", err)
		return
	}
	if report.EventType != "executionReport" {
		return
	}

	switch report.Status {
	case statusNew, statusPartiallyFilled:
		l.store.Upsert(report.Symbol, report.OrderID)
		logger.Debugf("[stream] open order %s -> %d (%s)", report.Symbol, report.OrderID, report.Status)
	case statusCanceled, statusFilled:
		l.store.Remove(report.Symbol)
		logger.Debugf("[stream] closed order %s (%s)", report.Symbol, report.Status)
	}
}

// keepAliveLoop renews the listen key on an interval. On a failed renewal
// the cached key is cleared so the next session fetches a fresh one.
func (l *Listener) keepAliveLoop(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.KeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.keyMu.Lock()
			key := l.listenKey
			l.keyMu.Unlock()
			if key == "" {
				continue
			}
			if err := l.gateway.KeepAliveListenKey(ctx, key); err != nil {
				logger.Warnf("[stream] listen key keepalive failed: %v", err)
				l.keyMu.Lock()
				l.listenKey = ""
				l.keyMu.Unlock()
			}
		}
	}
}

// currentListenKey returns the cached listen key or fetches a new one.
func (l *Listener) currentListenKey(ctx context.Context) (string, error) {
	l.keyMu.Lock()
	defer l.keyMu.Unlock()

	if l.listenKey != "" {
		return l.listenKey, nil
	}
	key, err := l.gateway.CreateListenKey(ctx)
	if err != nil {
		return "", err
	}
	l.listenKey = key
	return key, nil
}
