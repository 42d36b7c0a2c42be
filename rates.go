package valutatrade

import (
	"cmp"
	"maps"
	"slices"
	"strings"
	"time"
)

// timestampLayout is the serialized form of every timestamp: UTC, second precision.
const timestampLayout = "2006-01-02T15:04:05Z"

// Stamp returns t as a UTC instant truncated to the second.
func Stamp(t time.Time) time.Time { return t.UTC().Truncate(time.Second) }

// FormatTimestamp formats t the way it is persisted.
func FormatTimestamp(t time.Time) string { return Stamp(t).Format(timestampLayout) }

// RateRecord is one observation in the rate history.
type RateRecord struct {
	ID        string            `json:"id"`
	From      CurrencyCode      `json:"from_currency"`
	To        CurrencyCode      `json:"to_currency"`
	Rate      float64           `json:"rate"`
	Timestamp time.Time         `json:"timestamp"`
	Source    string            `json:"source"`
	Meta      map[string]string `json:"meta"`
}

// NewRateRecord builds the record for pair observed at ts.
//
// The record ID is the pair followed by the timestamp, so two observations of
// the same pair at the same second are the same record.
func NewRateRecord(pair RatePair, rate float64, ts time.Time, source string, meta map[string]string) RateRecord {
	ts = Stamp(ts)
	if meta == nil {
		meta = map[string]string{}
	}
	return RateRecord{
		ID:        RecordID(pair, ts),
		From:      pair.From,
		To:        pair.To,
		Rate:      rate,
		Timestamp: ts,
		Source:    source,
		Meta:      meta,
	}
}

// RecordID returns the history id of pair observed at ts.
func RecordID(pair RatePair, ts time.Time) string {
	return pair.String() + "_" + FormatTimestamp(ts)
}

// Pair returns the pair the record is about.
func (r RateRecord) Pair() RatePair { return RatePair{From: r.From, To: r.To} }

// SnapshotEntry is the current best known rate of a pair.
type SnapshotEntry struct {
	Rate      float64   `json:"rate"`
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source"`
}

// RateSnapshot holds the latest rate of every pair.
//
// It is replaced wholesale by each update, never edited in place.
type RateSnapshot struct {
	Pairs       map[RatePair]SnapshotEntry `json:"pairs"`
	LastRefresh time.Time                  `json:"last_refresh"`
}

// SortedPairs returns the snapshot pairs in canonical text order.
func (s *RateSnapshot) SortedPairs() []RatePair {
	if s == nil {
		return nil
	}
	return slices.SortedFunc(maps.Keys(s.Pairs), func(a, b RatePair) int {
		return strings.Compare(a.String(), b.String())
	})
}

// RateFilter selects pairs of a snapshot.
type RateFilter struct {
	// Currency keeps only the pairs involving this currency, if set.
	Currency CurrencyCode
	// Top keeps only the Top most expensive crypto currencies, if positive.
	Top int
}

// Select returns the pairs matching f. Pairs are in canonical order, or by
// decreasing rate when f.Top is set.
func (s *RateSnapshot) Select(f RateFilter, currencies *Registry) []RatePair {
	var pairs []RatePair
	for _, p := range s.SortedPairs() {
		if f.Currency != "" && !p.Has(f.Currency) {
			continue
		}
		if f.Top > 0 {
			if c, err := currencies.Lookup(string(p.From)); err != nil || c.Kind != Crypto {
				continue
			}
		}
		pairs = append(pairs, p)
	}
	if f.Top > 0 {
		slices.SortStableFunc(pairs, func(a, b RatePair) int {
			return cmp.Compare(s.Pairs[b].Rate, s.Pairs[a].Rate)
		})
		pairs = pairs[:min(f.Top, len(pairs))]
	}
	return pairs
}
