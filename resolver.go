package valutatrade

import (
	"time"
)

// DefaultTTL is the age after which a stored rate is no longer usable.
const DefaultTTL = 300 * time.Second

// Quote is a resolved exchange rate.
type Quote struct {
	Pair      RatePair
	Rate      float64
	UpdatedAt time.Time
	Source    string
	// Derived is true when Rate was computed from the inverse pair.
	Derived bool
}

// SnapshotReader gives access to the current rate snapshot.
type SnapshotReader interface {
	ReadSnapshot() (*RateSnapshot, error)
}

// Resolver answers rate queries from the current snapshot.
type Resolver struct {
	Snapshots SnapshotReader
	TTL       time.Duration    // DefaultTTL if zero
	Now       func() time.Time // time.Now if nil
}

// NewResolver returns a resolver reading snapshots from r.
func NewResolver(r SnapshotReader, ttl time.Duration) *Resolver {
	return &Resolver{Snapshots: r, TTL: ttl}
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Resolver) ttl() time.Duration {
	if r.TTL <= 0 {
		return DefaultTTL
	}
	return r.TTL
}

// Resolve returns the rate of one unit of from expressed in to.
//
// The direct pair is used if present, otherwise the inverse of the reverse
// pair. A rate whose age is strictly greater than the TTL fails with
// KindStaleRate. A missing pair, or a zero reverse rate, fails with
// KindRateUnavailable. The rate of a currency to itself is 1.
func (r *Resolver) Resolve(from, to CurrencyCode) (Quote, error) {
	pair := NewRatePair(from, to)
	if from == to {
		return Quote{Pair: pair, Rate: 1, UpdatedAt: Stamp(r.now())}, nil
	}
	snap, err := r.Snapshots.ReadSnapshot()
	if err != nil {
		return Quote{}, err
	}
	if snap == nil {
		return Quote{}, &Error{Kind: KindRateUnavailable, Pair: pair, Reason: "no rates available, run update-rates first"}
	}

	if e, ok := snap.Pairs[pair]; ok {
		if err := r.checkFresh(pair, e); err != nil {
			return Quote{}, err
		}
		return Quote{Pair: pair, Rate: e.Rate, UpdatedAt: e.UpdatedAt, Source: e.Source}, nil
	}

	if e, ok := snap.Pairs[pair.Inverse()]; ok {
		if e.Rate == 0 {
			return Quote{}, &Error{Kind: KindRateUnavailable, Pair: pair, Reason: "inverse rate is zero"}
		}
		if err := r.checkFresh(pair, e); err != nil {
			return Quote{}, err
		}
		return Quote{Pair: pair, Rate: 1 / e.Rate, UpdatedAt: e.UpdatedAt, Source: e.Source, Derived: true}, nil
	}

	return Quote{}, &Error{Kind: KindRateUnavailable, Pair: pair}
}

func (r *Resolver) checkFresh(pair RatePair, e SnapshotEntry) error {
	if r.now().Sub(e.UpdatedAt) > r.ttl() {
		return &Error{Kind: KindStaleRate, Pair: pair, UpdatedAt: e.UpdatedAt}
	}
	return nil
}

// IsFresh reports whether a rate updated at t is still within the TTL.
func (r *Resolver) IsFresh(t time.Time) bool {
	return r.now().Sub(t) <= r.ttl()
}
