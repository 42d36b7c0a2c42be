package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/valutatrade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noEnvFile points at a dotenv file that does not exist.
func noEnvFile(t *testing.T) Options {
	return Options{EnvFile: filepath.Join(t.TempDir(), "missing.env")}
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load(noEnvFile(t))
	require.NoError(t, err)

	d := valutatrade.DefaultSettings()
	assert.Equal(t, d.DataDir, s.DataDir)
	assert.Equal(t, 300*time.Second, s.RatesTTL)
	assert.Equal(t, valutatrade.CurrencyCode("USD"), s.BaseCurrency)
	assert.Equal(t, []valutatrade.CurrencyCode{"EUR", "GBP", "RUB"}, s.FiatCurrencies)
	assert.Equal(t, []valutatrade.CurrencyCode{"BTC", "ETH", "SOL"}, s.CryptoCurrencies)
	assert.Equal(t, 10*time.Second, s.RequestTimeout)
	assert.Equal(t, 24*time.Hour, s.SessionTTL)
	assert.Equal(t, "60-M", s.APIRateLimit)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv(DataDir, "/var/lib/vtrade")
	t.Setenv(RatesTTLSeconds, "60")
	t.Setenv(BaseCurrency, "eur")
	t.Setenv(FiatCurrencies, "usd, gbp")
	t.Setenv(SessionTTL, "30m")

	s, err := Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/vtrade", s.DataDir)
	assert.Equal(t, time.Minute, s.RatesTTL)
	assert.Equal(t, valutatrade.CurrencyCode("EUR"), s.BaseCurrency)
	assert.Equal(t, []valutatrade.CurrencyCode{"USD", "GBP"}, s.FiatCurrencies)
	assert.Equal(t, 30*time.Minute, s.SessionTTL)
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "vtrade.toml")
	require.NoError(t, os.WriteFile(file, []byte(`
data_dir = "from-file"
crypto_currencies = ["btc", "sol"]
update_interval_seconds = 60
`), 0o644))

	opts := noEnvFile(t)
	opts.File = file
	s, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "from-file", s.DataDir)
	assert.Equal(t, []valutatrade.CurrencyCode{"BTC", "SOL"}, s.CryptoCurrencies)
	assert.Equal(t, time.Minute, s.UpdateInterval)

	// The environment overrides the file.
	t.Setenv(DataDir, "from-env")
	s, err = Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "from-env", s.DataDir)
}

func TestLoadMissingFile(t *testing.T) {
	opts := noEnvFile(t)
	opts.File = filepath.Join(t.TempDir(), "nope.yaml")
	_, err := Load(opts)
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("EXCHANGERATE_API_KEY=from-dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv(ExchangeRateAPIKey) })

	s, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", s.ExchangeRateAPIKey)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{BaseCurrency, "dollars"},
		{FiatCurrencies, "EUR,E1"},
		{RatesTTLSeconds, "0"},
		{CoinGeckoURL, "not a url"},
		{SessionSecret, "short"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(noEnvFile(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv(SessionTTL, "forever")
	_, err := Load(noEnvFile(t))
	assert.ErrorContains(t, err, SessionTTL)
}
