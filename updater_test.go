package valutatrade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProvider is a mock type for the Provider interface
type MockProvider struct {
	mock.Mock
	name string
}

func (m *MockProvider) Name() string { return m.name }

func (m *MockProvider) FetchRates(ctx context.Context) (map[RatePair]float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[RatePair]float64), args.Error(1)
}

func newTestUpdater(store RateStore, providers ...Provider) *Updater {
	u := NewUpdater(store, nil, providers...)
	u.now = func() time.Time { return t0.Add(500 * time.Millisecond) }
	return u
}

func TestRunUpdatePartialFailure(t *testing.T) {
	s := NewStore(t.TempDir())
	crypto := &MockProvider{name: "CoinGecko"}
	crypto.On("FetchRates", mock.Anything).Return(map[RatePair]float64{NewRatePair("BTC", "USD"): 60000}, nil).Once()
	fiat := &MockProvider{name: "ExchangeRate-API"}
	fiat.On("FetchRates", mock.Anything).Return(nil, ProviderError("ExchangeRate-API", "down", nil)).Once()

	n, err := newTestUpdater(s, crypto, fiat).RunUpdate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	snap, err := s.ReadSnapshot()
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, map[RatePair]SnapshotEntry{
		NewRatePair("BTC", "USD"): {Rate: 60000, UpdatedAt: t0, Source: "CoinGecko"},
	}, snap.Pairs)
	assert.True(t, snap.LastRefresh.Equal(t0), "timestamp is truncated to the second")

	history, err := s.History()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "BTC_USD_2025-01-02T03:04:05Z", history[0].ID)
	assert.NotEmpty(t, history[0].Meta["run_id"])

	crypto.AssertExpectations(t)
	fiat.AssertExpectations(t)
}

func TestRunUpdateLastProviderWins(t *testing.T) {
	s := NewStore(t.TempDir())
	a := &MockProvider{name: "A"}
	a.On("FetchRates", mock.Anything).Return(map[RatePair]float64{NewRatePair("EUR", "USD"): 1.1, NewRatePair("BTC", "USD"): 60000}, nil)
	b := &MockProvider{name: "B"}
	b.On("FetchRates", mock.Anything).Return(map[RatePair]float64{NewRatePair("EUR", "USD"): 1.2}, nil)

	n, err := newTestUpdater(s, a, b).RunUpdate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	snap, err := s.ReadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, SnapshotEntry{Rate: 1.2, UpdatedAt: t0, Source: "B"}, snap.Pairs[NewRatePair("EUR", "USD")])
}

func TestRunUpdateAllProvidersFail(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.WriteSnapshot(map[RatePair]SnapshotEntry{NewRatePair("BTC", "USD"): {Rate: 1, UpdatedAt: t0}}, t0))
	p := &MockProvider{name: "CoinGecko"}
	p.On("FetchRates", mock.Anything).Return(nil, ProviderError("CoinGecko", "down", nil))

	n, err := newTestUpdater(s, p).RunUpdate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	snap, err := s.ReadSnapshot()
	require.NoError(t, err)
	assert.Empty(t, snap.Pairs, "the snapshot holds exactly the merged set")
}

func TestRunUpdateTwiceInSameSecond(t *testing.T) {
	s := NewStore(t.TempDir())
	p := &MockProvider{name: "CoinGecko"}
	p.On("FetchRates", mock.Anything).Return(map[RatePair]float64{NewRatePair("BTC", "USD"): 60000}, nil)
	u := newTestUpdater(s, p)

	_, err := u.RunUpdate(context.Background())
	require.NoError(t, err)
	_, err = u.RunUpdate(context.Background())
	require.NoError(t, err)

	history, err := s.History()
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

// failingStore fails every write.
type failingStore struct{}

func (failingStore) AppendHistory([]RateRecord) (int, error) { return 0, errors.New("disk full") }
func (failingStore) WriteSnapshot(map[RatePair]SnapshotEntry, time.Time) error {
	return errors.New("disk full")
}

func TestRunUpdatePersistenceFailure(t *testing.T) {
	p := &MockProvider{name: "CoinGecko"}
	p.On("FetchRates", mock.Anything).Return(map[RatePair]float64{NewRatePair("BTC", "USD"): 60000}, nil)

	_, err := newTestUpdater(failingStore{}, p).RunUpdate(context.Background())
	assert.ErrorContains(t, err, "disk full")
}
