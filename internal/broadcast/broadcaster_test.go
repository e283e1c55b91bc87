package broadcast

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	prices map[string]decimal.Decimal
	calls  []string
}

func (f *fakeSource) GetPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	f.calls = append(f.calls, symbol)
	price, ok := f.prices[symbol]
	if !ok {
		return decimal.Zero, errors.New("Invalid symbol.")
	}
	return price, nil
}

type fakeSink struct {
	messages []string
	err      error
}

func (f *fakeSink) Notify(_ context.Context, text string) error {
	f.messages = append(f.messages, text)
	return f.err
}

func TestBroadcastOnce_FormatsMessages(t *testing.T) {
	source := &fakeSource{prices: map[string]decimal.Decimal{
		"BTCUSDT": decimal.RequireFromString("50000.5"),
		"ETHUSDT": decimal.RequireFromString("3000"),
	}}
	sink := &fakeSink{}
	b := New(source, sink, []string{"BTCUSDT", "ETHUSDT"}, time.Hour)

	b.broadcastOnce(context.Background())

	require.Len(t, sink.messages, 2)
	assert.Equal(t, "BTCUSDT: 50000.5", sink.messages[0])
	assert.Equal(t, "ETHUSDT: 3000", sink.messages[1])
}

func TestBroadcastOnce_SymbolFailureDoesNotAbortPass(t *testing.T) {
	source := &fakeSource{prices: map[string]decimal.Decimal{
		"ETHUSDT": decimal.RequireFromString("3000"),
	}}
	sink := &fakeSink{}
	b := New(source, sink, []string{"BTCUSDT", "ETHUSDT"}, time.Hour)

	b.broadcastOnce(context.Background())

	// BTCUSDT failed, ETHUSDT was still fetched and delivered.
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, source.calls)
	require.Len(t, sink.messages, 1)
	assert.Equal(t, "ETHUSDT: 3000", sink.messages[0])
}

func TestBroadcastOnce_DeliveryFailureDoesNotAbortPass(t *testing.T) {
	source := &fakeSource{prices: map[string]decimal.Decimal{
		"BTCUSDT": decimal.RequireFromString("50000"),
		"ETHUSDT": decimal.RequireFromString("3000"),
	}}
	sink := &fakeSink{err: errors.New("channel_not_found")}
	b := New(source, sink, []string{"BTCUSDT", "ETHUSDT"}, time.Hour)

	b.broadcastOnce(context.Background())

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, source.calls)
}

func TestRun_StopsOnCancel(t *testing.T) {
	source := &fakeSource{prices: map[string]decimal.Decimal{}}
	b := New(source, &fakeSink{}, nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("broadcaster did not stop on cancellation")
	}
}
