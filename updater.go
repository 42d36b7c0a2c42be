package valutatrade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// RateStore persists the rate history and the current snapshot.
type RateStore interface {
	AppendHistory(records []RateRecord) (int, error)
	WriteSnapshot(pairs map[RatePair]SnapshotEntry, lastRefresh time.Time) error
}

// Updater collects rates from its providers and writes them through to the
// store.
type Updater struct {
	providers []Provider
	store     RateStore
	logger    *slog.Logger
	now       func() time.Time
}

// NewUpdater returns an updater querying providers in order.
func NewUpdater(store RateStore, logger *slog.Logger, providers ...Provider) *Updater {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Updater{providers: providers, store: store, logger: logger, now: time.Now}
}

// RunUpdate fetches rates from every provider, merges them and persists the
// result as one batch stamped with a single timestamp.
//
// When two providers quote the same pair, the later one wins. A failing
// provider is logged and skipped, so RunUpdate returns the number of merged
// pairs even if some or all providers failed. Only a persistence failure is
// returned as an error.
func (u *Updater) RunUpdate(ctx context.Context) (int, error) {
	runID := uuid.NewString()
	log := u.logger.With("run_id", runID)

	type quote struct {
		rate   float64
		source string
	}
	merged := make(map[RatePair]quote)
	var errs error
	for _, p := range u.providers {
		rates, err := p.FetchRates(ctx)
		if err != nil {
			errs = errors.Join(errs, err)
			log.Error("fetch rates", "provider", p.Name(), "result", "ERROR", "error", err)
			continue
		}
		for pair, rate := range rates {
			merged[pair] = quote{rate: rate, source: p.Name()}
		}
		log.Info("fetch rates", "provider", p.Name(), "pairs", len(rates), "result", "OK")
	}

	ts := Stamp(u.now())
	records := make([]RateRecord, 0, len(merged))
	pairs := make(map[RatePair]SnapshotEntry, len(merged))
	for pair, q := range merged {
		records = append(records, NewRateRecord(pair, q.rate, ts, q.source, map[string]string{"run_id": runID}))
		pairs[pair] = SnapshotEntry{Rate: q.rate, UpdatedAt: ts, Source: q.source}
	}

	appended, err := u.store.AppendHistory(records)
	if err != nil {
		log.Error("update rates", "result", "ERROR", "error", err)
		return 0, fmt.Errorf("could not append rate history: %w", err)
	}
	if err := u.store.WriteSnapshot(pairs, ts); err != nil {
		log.Error("update rates", "result", "ERROR", "error", err)
		return 0, fmt.Errorf("could not write rate snapshot: %w", err)
	}

	attrs := []any{"pairs", len(merged), "appended", appended, "last_refresh", FormatTimestamp(ts)}
	if errs != nil {
		log.Warn("update rates", append(attrs, "result", "PARTIAL", "error", errs)...)
	} else {
		log.Info("update rates", append(attrs, "result", "OK")...)
	}
	return len(merged), nil
}
