package quote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const envelope = `{
  "status": "ok",
  "quotes": [
    {"ticker": "005930", "price": 71200, "change": -800, "change_percent": -1.11, "volume": 12000000, "fetched_at": "2025-03-14T06:30:00Z"},
    {"ticker": "AAPL", "price": "213.49", "change": null, "change_percent": null, "volume": null},
    {"ticker": "TSLA", "price": null},
    {"ticker": "MSFT", "price": 410.1}
  ]
}`

func newBackend(t *testing.T, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Quotes(t *testing.T) {
	srv := newBackend(t, envelope, func(r *http.Request) {
		assert.Equal(t, "/quotes", r.URL.Path)
		assert.Equal(t, "005930,AAPL,TSLA,NVDA", r.URL.Query().Get("tickers"))
		assert.Equal(t, "secret", r.Header.Get(APIKeyHeader))
	})

	c := NewClient(srv.URL+"/", WithAPIKey("secret"))
	got, err := c.Quotes(context.Background(), []string{"005930", "AAPL", "TSLA", "NVDA"})
	require.NoError(t, err)

	require.Len(t, got, 3, "MSFT was not requested and NVDA is unknown")
	assert.NotContains(t, got, "MSFT")
	assert.NotContains(t, got, "NVDA")

	samsung := got["005930"]
	require.True(t, samsung.Available())
	assert.True(t, samsung.Price.Decimal.Equal(decimal.NewFromInt(71200)))
	assert.True(t, samsung.Change.Decimal.Equal(decimal.NewFromInt(-800)))
	require.NotNil(t, samsung.FetchedAt)
	assert.True(t, samsung.FetchedAt.Equal(time.Date(2025, 3, 14, 6, 30, 0, 0, time.UTC)))

	apple := got["AAPL"]
	require.True(t, apple.Available())
	assert.Equal(t, "213.49", apple.Price.Decimal.String())
	assert.False(t, apple.Change.Valid)
	assert.Nil(t, apple.FetchedAt)

	tesla := got["TSLA"]
	assert.False(t, tesla.Available(), "a null price is unavailable, not zero")
}

func TestClient_NoTickers(t *testing.T) {
	var calls atomic.Int32
	srv := newBackend(t, envelope, func(*http.Request) { calls.Add(1) })

	got, err := NewClient(srv.URL).Quotes(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, calls.Load())
}

func TestClient_Path(t *testing.T) {
	srv := newBackend(t, `{"data": {"items": [{"ticker": "AAPL", "price": 1}]}}`, nil)

	got, err := NewClient(srv.URL, WithPath("$.data.items")).Quotes(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	assert.True(t, got["AAPL"].Available())

	_, err = NewClient(srv.URL).Quotes(context.Background(), []string{"AAPL"})
	assert.ErrorIs(t, err, ErrUnavailable, "the default path does not exist in this response")
}

func TestClient_Errors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).Quotes(context.Background(), []string{"AAPL"})
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("malformed", func(t *testing.T) {
		srv := newBackend(t, `{"quotes": [`, nil)
		_, err := NewClient(srv.URL).Quotes(context.Background(), []string{"AAPL"})
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("cancelled", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()
		_, err := NewClient(srv.URL).Quotes(ctx, []string{"AAPL"})
		assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
		assert.False(t, errors.Is(err, ErrUnavailable))
	})
}

func TestClient_RateLimit(t *testing.T) {
	srv := newBackend(t, envelope, nil)
	c := NewClient(srv.URL, WithRateLimit(0.001, 1))

	_, err := c.Quotes(context.Background(), []string{"AAPL"})
	require.NoError(t, err, "the first request uses the burst")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Quotes(ctx, []string{"AAPL"})
	assert.Error(t, err, "the second request must wait far longer than the deadline")
}

func TestStatic(t *testing.T) {
	s := Static{"AAPL": Priced("AAPL", decimal.NewFromInt(200))}

	got, err := s.Quotes(context.Background(), []string{"AAPL", "MSFT"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.True(t, got["AAPL"].Available())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Quotes(ctx, []string{"AAPL"})
	assert.ErrorIs(t, err, context.Canceled)
}
