// Package valutatrade tracks exchange rates for a small set of fiat and crypto
// currencies and lets users trade notional balances against them.
//
// The core functionalities include:
//   - Rate Acquisition: Providers fetch rates from external services, an
//     Updater merges them under a single timestamp and a Scheduler repeats the
//     update on a fixed period.
//   - Rate Storage: A file based Store keeps an append-only, deduplicated
//     history of every observation and a snapshot of the latest rate per pair.
//   - Rate Resolution: A Resolver answers "what is the rate from A to B" using
//     direct or inverse pairs of the snapshot, refusing rates older than a TTL.
//   - Portfolio Ledger: One wallet per currency per user, priced buy and sell
//     operations and a whole portfolio valuation in a chosen base currency.
//
// This package serves as the foundational logic for the `vtrade` command-line
// tool. Configuration, logging and storage location are injected by the caller.
package valutatrade
