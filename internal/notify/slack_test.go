package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat.postMessage", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	s := NewSlack(srv.URL, "xoxb-token", "#trading")
	require.NoError(t, s.Notify(context.Background(), "BTCUSDT: 50000"))

	assert.Equal(t, "Bearer xoxb-token", gotAuth)
	assert.Equal(t, "#trading", gotBody["channel"])
	assert.Equal(t, "BTCUSDT: 50000", gotBody["text"])
}

func TestNotify_APIFailureInsideOKResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ok":false,"error":"channel_not_found"}`)
	}))
	defer srv.Close()

	s := NewSlack(srv.URL, "xoxb-token", "#missing")
	err := s.Notify(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_not_found")
}

func TestPostResponse(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hooks/abc", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSlack(DefaultSlackURL, "xoxb-token", "#trading")
	err := s.PostResponse(context.Background(), srv.URL+"/hooks/abc", "Trade command executed", VisibilityPublic)
	require.NoError(t, err)

	assert.Equal(t, "Trade command executed", gotBody["text"])
	assert.Equal(t, "in_channel", gotBody["response_type"])
}
