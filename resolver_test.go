package valutatrade

import (
	"errors"
	"math"
	"testing"
	"time"
)

// memSnapshot is an in memory SnapshotReader.
type memSnapshot struct{ snap *RateSnapshot }

func (m *memSnapshot) ReadSnapshot() (*RateSnapshot, error) { return m.snap, nil }

func newTestResolver(at time.Time, pairs map[RatePair]SnapshotEntry) *Resolver {
	return &Resolver{
		Snapshots: &memSnapshot{&RateSnapshot{Pairs: pairs, LastRefresh: t0}},
		TTL:       300 * time.Second,
		Now:       func() time.Time { return at },
	}
}

func TestResolveDirectAndInverse(t *testing.T) {
	pairs := map[RatePair]SnapshotEntry{NewRatePair("BTC", "USD"): {Rate: 60000, UpdatedAt: t0, Source: "CoinGecko"}}
	r := newTestResolver(t0.Add(299*time.Second), pairs)

	q, err := r.Resolve("BTC", "USD")
	if err != nil {
		t.Fatalf("Resolve(BTC, USD) unexpected error: %v", err)
	}
	if q.Rate != 60000 || q.Derived {
		t.Errorf("Resolve(BTC, USD) = %v, want direct 60000", q)
	}

	inv, err := r.Resolve("USD", "BTC")
	if err != nil {
		t.Fatalf("Resolve(USD, BTC) unexpected error: %v", err)
	}
	if got, want := inv.Rate, 1.0/60000; got != want {
		t.Errorf("Resolve(USD, BTC).Rate = %v, want %v", got, want)
	}
	if !inv.UpdatedAt.Equal(t0) || !inv.Derived {
		t.Errorf("Resolve(USD, BTC) = %v, want derived and updated at %v", inv, t0)
	}
	if got := q.Rate * inv.Rate; math.Abs(got-1) > 1e-12 {
		t.Errorf("direct * inverse = %v, want 1", got)
	}
}

func TestResolveTTL(t *testing.T) {
	pairs := map[RatePair]SnapshotEntry{NewRatePair("BTC", "USD"): {Rate: 60000, UpdatedAt: t0}}
	tests := []struct {
		age       time.Duration
		wantStale bool
	}{
		{0, false},
		{299 * time.Second, false},
		{300 * time.Second, false},
		{301 * time.Second, true},
	}
	for _, tt := range tests {
		r := newTestResolver(t0.Add(tt.age), pairs)
		for _, p := range []RatePair{NewRatePair("BTC", "USD"), NewRatePair("USD", "BTC")} {
			_, err := r.Resolve(p.From, p.To)
			if got := errors.Is(err, ErrStaleRate); got != tt.wantStale {
				t.Errorf("Resolve(%v) at age %v: error = %v, want stale %v", p, tt.age, err, tt.wantStale)
			}
			var e *Error
			if tt.wantStale && errors.As(err, &e) && !e.UpdatedAt.Equal(t0) {
				t.Errorf("stale error UpdatedAt = %v, want %v", e.UpdatedAt, t0)
			}
		}
	}
}

func TestResolveUnavailable(t *testing.T) {
	pairs := map[RatePair]SnapshotEntry{
		NewRatePair("BTC", "USD"): {Rate: 60000, UpdatedAt: t0},
		NewRatePair("ETH", "USD"): {Rate: 0, UpdatedAt: t0},
	}
	r := newTestResolver(t0, pairs)

	for _, p := range []RatePair{NewRatePair("BTC", "EUR"), NewRatePair("USD", "ETH")} {
		if _, err := r.Resolve(p.From, p.To); !errors.Is(err, ErrRateUnavailable) {
			t.Errorf("Resolve(%v) error = %v, want rate unavailable", p, err)
		}
	}
}

func TestResolveWithoutSnapshot(t *testing.T) {
	r := &Resolver{Snapshots: &memSnapshot{}}
	if _, err := r.Resolve("BTC", "USD"); !errors.Is(err, ErrRateUnavailable) {
		t.Errorf("Resolve() error = %v, want rate unavailable", err)
	}
}

func TestResolveIdentity(t *testing.T) {
	r := &Resolver{Snapshots: &memSnapshot{}}
	q, err := r.Resolve("USD", "USD")
	if err != nil {
		t.Fatalf("Resolve(USD, USD) unexpected error: %v", err)
	}
	if q.Rate != 1 {
		t.Errorf("Resolve(USD, USD).Rate = %v, want 1", q.Rate)
	}
}
