package renderer

import (
	"time"

	"github.com/etnz/valutatrade"
)

// Quote is a resolved rate with its inverse.
type Quote struct {
	From      string
	To        string
	Rate      string
	Inverse   string
	UpdatedAt string
	Source    string
	Derived   bool
}

// NewQuote creates a Quote.
func NewQuote(q valutatrade.Quote) *Quote {
	inv := "n/a"
	if q.Rate != 0 {
		inv = valutatrade.FormatRate(1 / q.Rate)
	}
	return &Quote{
		From:      string(q.Pair.From),
		To:        string(q.Pair.To),
		Rate:      valutatrade.FormatRate(q.Rate),
		Inverse:   inv,
		UpdatedAt: valutatrade.FormatTimestamp(q.UpdatedAt),
		Source:    q.Source,
		Derived:   q.Derived,
	}
}

// Rates is a listing of snapshot entries.
type Rates struct {
	LastRefresh string
	Rows        []RateRow
}

// RateRow is one snapshot entry.
type RateRow struct {
	Pair      string
	Rate      string
	UpdatedAt string
	Source    string
	// Fresh is false when the rate is older than the TTL.
	Fresh bool
}

// NewRates creates a Rates listing of pairs, in the given order. isFresh
// tells whether an update time is within the TTL.
func NewRates(snap *valutatrade.RateSnapshot, pairs []valutatrade.RatePair, isFresh func(time.Time) bool) *Rates {
	r := &Rates{LastRefresh: "never"}
	if snap == nil {
		return r
	}
	if !snap.LastRefresh.IsZero() {
		r.LastRefresh = valutatrade.FormatTimestamp(snap.LastRefresh)
	}
	for _, p := range pairs {
		e, ok := snap.Pairs[p]
		if !ok {
			continue
		}
		r.Rows = append(r.Rows, RateRow{
			Pair:      p.String(),
			Rate:      valutatrade.FormatRate(e.Rate),
			UpdatedAt: valutatrade.FormatTimestamp(e.UpdatedAt),
			Source:    e.Source,
			Fresh:     isFresh(e.UpdatedAt),
		})
	}
	return r
}

// History is a listing of rate history records.
type History struct {
	Rows []HistoryRow
}

// HistoryRow is one history record.
type HistoryRow struct {
	Timestamp string
	Pair      string
	Rate      string
	Source    string
}

// NewHistory creates a History of the last n records, most recent first.
// All records are listed when n is not positive.
func NewHistory(records []valutatrade.RateRecord, n int) *History {
	h := &History{}
	start := 0
	if n > 0 && len(records) > n {
		start = len(records) - n
	}
	for i := len(records) - 1; i >= start; i-- {
		rec := records[i]
		h.Rows = append(h.Rows, HistoryRow{
			Timestamp: valutatrade.FormatTimestamp(rec.Timestamp),
			Pair:      rec.Pair().String(),
			Rate:      valutatrade.FormatRate(rec.Rate),
			Source:    rec.Source,
		})
	}
	return h
}
