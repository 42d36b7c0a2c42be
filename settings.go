package valutatrade

import "time"

// Settings holds the configuration of the application.
//
// The core never reads configuration from the environment or files itself;
// the config package builds a Settings and callers inject the pieces they need.
type Settings struct {
	// DataDir is the directory holding the JSON documents.
	DataDir string
	// LogDir is the directory of the action log, app.log.
	LogDir string
	// RatesTTL is the age after which a rate is stale.
	RatesTTL time.Duration
	// BaseCurrency is the default currency for valuations and trades.
	BaseCurrency CurrencyCode
	// FiatCurrencies are quoted against BaseCurrency by the fiat provider.
	FiatCurrencies []CurrencyCode
	// CryptoCurrencies are quoted against BaseCurrency by the crypto provider.
	CryptoCurrencies []CurrencyCode

	CoinGeckoURL       string
	ExchangeRateURL    string
	ExchangeRateAPIKey string
	// RequestTimeout bounds every provider call.
	RequestTimeout time.Duration
	// UpdateInterval is the scheduler period.
	UpdateInterval time.Duration

	// SessionSecret signs session tokens.
	SessionSecret string
	SessionTTL    time.Duration

	// APIRateLimit is the per client limit of the HTTP API, formatted as
	// "<limit>-<period>", e.g. "60-M".
	APIRateLimit string
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		DataDir:          "data",
		LogDir:           "logs",
		RatesTTL:         DefaultTTL,
		BaseCurrency:     "USD",
		FiatCurrencies:   []CurrencyCode{"EUR", "GBP", "RUB"},
		CryptoCurrencies: []CurrencyCode{"BTC", "ETH", "SOL"},
		CoinGeckoURL:     "https://api.coingecko.com/api/v3/simple/price",
		ExchangeRateURL:  "https://v6.exchangerate-api.com/v6",
		RequestTimeout:   10 * time.Second,
		UpdateInterval:   300 * time.Second,
		SessionSecret:    "vtrade-local-session",
		SessionTTL:       24 * time.Hour,
		APIRateLimit:     "60-M",
	}
}
