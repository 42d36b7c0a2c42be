package valutatrade

import "context"

// Provider fetches current exchange rates from an external service.
//
// Implementations omit pairs the service does not quote, or quotes as zero.
// Failures are reported as KindProvider errors.
type Provider interface {
	// Name identifies the provider in history records and logs.
	Name() string
	FetchRates(ctx context.Context) (map[RatePair]float64, error)
}
