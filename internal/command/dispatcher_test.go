package command

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexbobes/slack-binance-trading-bot/internal/domain"
	"github.com/alexbobes/slack-binance-trading-bot/internal/notify"
)

type fakePlacer struct {
	calls    int
	symbol   string
	side     domain.Side
	price    string
	quantity string
	err      error
}

func (f *fakePlacer) PlaceLimitOrder(_ context.Context, symbol string, side domain.Side, price, quantity string) (*domain.OrderReceipt, error) {
	f.calls++
	f.symbol, f.side, f.price, f.quantity = symbol, side, price, quantity
	if f.err != nil {
		return nil, f.err
	}
	return &domain.OrderReceipt{Symbol: symbol, OrderID: 1001, Status: "NEW"}, nil
}

type fakeNotifier struct {
	messages  []string
	responses []string
	notifyErr error
}

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	f.messages = append(f.messages, text)
	return f.notifyErr
}

func (f *fakeNotifier) PostResponse(_ context.Context, responseURL, text string, _ notify.Visibility) error {
	f.responses = append(f.responses, text)
	return nil
}

func TestParse(t *testing.T) {
	cmd, err := Parse("buy btcusdt 50000 0.1")
	require.NoError(t, err)
	assert.Equal(t, domain.SideBuy, cmd.Side)
	assert.Equal(t, "BTCUSDT", cmd.Symbol)
	assert.Equal(t, "50000", cmd.Price)
	assert.Equal(t, "0.1", cmd.Quantity)
}

func TestParse_RejectsWrongTokenCount(t *testing.T) {
	for _, raw := range []string{
		"",
		"buy",
		"buy BTCUSDT",
		"buy BTCUSDT 50000",
		"buy BTCUSDT 50000 0.1 extra",
	} {
		_, err := Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidFormat, "raw=%q", raw)
	}
}

func TestDispatch_InvalidFormatNeverReachesGateway(t *testing.T) {
	placer := &fakePlacer{}
	d := NewDispatcher(placer, &fakeNotifier{})

	result := d.Dispatch(context.Background(), "buy BTCUSDT 50000")

	assert.ErrorIs(t, result.Err, ErrInvalidFormat)
	assert.Equal(t, notify.VisibilityPrivate, result.Visibility)
	assert.Equal(t, 0, placer.calls)
}

func TestDispatch_Success(t *testing.T) {
	placer := &fakePlacer{}
	notifier := &fakeNotifier{}
	d := NewDispatcher(placer, notifier)

	result := d.Dispatch(context.Background(), "sell ethusdt 3000 1.5")

	require.NoError(t, result.Err)
	assert.Equal(t, notify.VisibilityPublic, result.Visibility)
	require.NotNil(t, result.Receipt)
	assert.Equal(t, int64(1001), result.Receipt.OrderID)

	assert.Equal(t, "ETHUSDT", placer.symbol)
	assert.Equal(t, domain.SideSell, placer.side)

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "Order submitted successfully: SELL ETHUSDT 3000 1.5", notifier.messages[0])
}

func TestDispatch_VenueRejection(t *testing.T) {
	placer := &fakePlacer{err: errors.New("Account has insufficient balance")}
	notifier := &fakeNotifier{}
	d := NewDispatcher(placer, notifier)

	result := d.Dispatch(context.Background(), "buy BTCUSDT 50000 0.1")

	require.Error(t, result.Err)
	assert.Equal(t, notify.VisibilityPrivate, result.Visibility)
	assert.Contains(t, result.Text, "insufficient balance")
	assert.Empty(t, notifier.messages)
}

func TestRespond_PostsOutcome(t *testing.T) {
	placer := &fakePlacer{}
	notifier := &fakeNotifier{}
	d := NewDispatcher(placer, notifier)

	d.Respond(context.Background(), "https://hooks.example/respond", "buy BTCUSDT 50000 0.1")

	require.Len(t, notifier.responses, 1)
	assert.Equal(t, "Trade command executed: buy BTCUSDT 50000 0.1", notifier.responses[0])
}
