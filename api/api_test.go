package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/valutatrade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestServer(t *testing.T, lim string, now time.Time) http.Handler {
	t.Helper()
	store := valutatrade.NewStore(t.TempDir())
	err := store.WriteSnapshot(map[valutatrade.RatePair]valutatrade.SnapshotEntry{
		valutatrade.NewRatePair("BTC", "USD"): {Rate: 60000, UpdatedAt: t0, Source: "CoinGecko"},
		valutatrade.NewRatePair("ETH", "USD"): {Rate: 3000, UpdatedAt: t0, Source: "CoinGecko"},
		valutatrade.NewRatePair("EUR", "USD"): {Rate: 1.25, UpdatedAt: t0.Add(-time.Hour), Source: "ExchangeRate-API"},
	}, t0)
	require.NoError(t, err)

	resolver := valutatrade.NewResolver(store, 300*time.Second)
	resolver.Now = func() time.Time { return now }

	logger := slog.New(slog.DiscardHandler)
	l, err := NewLimiter(lim)
	require.NoError(t, err)
	return NewRouter(NewRateHandler(store, resolver, valutatrade.DefaultRegistry(), logger), l, logger)
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(newTestServer(t, "10-M", t0), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestGetRate(t *testing.T) {
	h := newTestServer(t, "10-M", t0.Add(time.Minute))

	rec := get(h, "/rates/btc/usd")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var q QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, "BTC", q.From)
	assert.Equal(t, "USD", q.To)
	assert.Equal(t, 60000.0, q.Rate)
	assert.False(t, q.Derived)

	rec = get(h, "/rates/USD/ETH")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.True(t, q.Derived)
	assert.InDelta(t, 1.0/3000, q.Rate, 1e-12)
	assert.InDelta(t, 3000, q.Inverse, 1e-6)
}

func TestGetRateErrors(t *testing.T) {
	h := newTestServer(t, "10-M", t0.Add(time.Minute))

	tests := []struct {
		target string
		status int
	}{
		{"/rates/XYZ/USD", http.StatusNotFound},
		{"/rates/BTC/SOL", http.StatusNotFound},
		{"/rates/EUR/USD", http.StatusServiceUnavailable},
		{"/rates/B1/USD", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(h, tt.target)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestListRates(t *testing.T) {
	h := newTestServer(t, "10-M", t0.Add(time.Minute))

	rec := get(h, "/rates")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp RatesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.LastRefresh)
	assert.True(t, resp.LastRefresh.Equal(t0))
	require.Len(t, resp.Rates, 3)
	assert.Equal(t, "BTC_USD", resp.Rates[0].Pair)
	assert.True(t, resp.Rates[0].Fresh)
	assert.Equal(t, "EUR_USD", resp.Rates[2].Pair)
	assert.False(t, resp.Rates[2].Fresh)

	rec = get(h, "/rates?top=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Rates, 1)
	assert.Equal(t, "BTC_USD", resp.Rates[0].Pair)

	rec = get(h, "/rates?currency=eur")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Rates, 1)
	assert.Equal(t, "EUR_USD", resp.Rates[0].Pair)

	assert.Equal(t, http.StatusBadRequest, get(h, "/rates?top=zero").Code)
	assert.Equal(t, http.StatusNotFound, get(h, "/rates?currency=XYZ").Code)
}

func TestListRatesWithoutSnapshot(t *testing.T) {
	store := valutatrade.NewStore(t.TempDir())
	logger := slog.New(slog.DiscardHandler)
	h := NewRouter(NewRateHandler(store, valutatrade.NewResolver(store, 0), valutatrade.DefaultRegistry(), logger), nil, logger)

	rec := get(h, "/rates")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"last_refresh":null,"rates":[]}`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, "2-M", t0)

	assert.Equal(t, http.StatusOK, get(h, "/rates").Code)
	assert.Equal(t, http.StatusOK, get(h, "/rates").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(h, "/rates").Code)
	// health checks are not limited
	assert.Equal(t, http.StatusOK, get(h, "/health").Code)
}
