// Package config builds the application Settings from defaults, an optional
// config file, a .env file and the environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/valutatrade"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Keys of the configuration, as environment variables. Config files use the
// same keys, case insensitively.
const (
	DataDir            = "DATA_DIR"
	LogDir             = "LOG_DIR"
	RatesTTLSeconds    = "RATES_TTL_SECONDS"
	BaseCurrency       = "BASE_CURRENCY"
	FiatCurrencies     = "FIAT_CURRENCIES"
	CryptoCurrencies   = "CRYPTO_CURRENCIES"
	CoinGeckoURL       = "COINGECKO_URL"
	ExchangeRateURL    = "EXCHANGERATE_API_URL"
	ExchangeRateAPIKey = "EXCHANGERATE_API_KEY"
	RequestTimeout     = "REQUEST_TIMEOUT_SECONDS"
	UpdateInterval     = "UPDATE_INTERVAL_SECONDS"
	SessionSecret      = "SESSION_SECRET"
	SessionTTL         = "SESSION_TTL"
	APIRateLimit       = "API_RATE_LIMIT"
)

// Options locate the optional configuration files.
type Options struct {
	// File is a TOML, YAML or JSON config file. Optional.
	File string
	// EnvFile is a dotenv file loaded into the environment if it exists.
	// Defaults to ".env".
	EnvFile string
}

// values is the raw configuration, checked before being turned into Settings.
type values struct {
	DataDir               string   `validate:"required"`
	LogDir                string   `validate:"required"`
	RatesTTLSeconds       int      `validate:"gt=0"`
	BaseCurrency          string   `validate:"required,currency_code"`
	FiatCurrencies        []string `validate:"dive,currency_code"`
	CryptoCurrencies      []string `validate:"dive,currency_code"`
	CoinGeckoURL          string   `validate:"required,url"`
	ExchangeRateURL       string   `validate:"required,url"`
	ExchangeRateAPIKey    string
	RequestTimeoutSeconds int           `validate:"gt=0"`
	UpdateIntervalSeconds int           `validate:"gt=0"`
	SessionSecret         string        `validate:"required,min=8"`
	SessionTTL            time.Duration `validate:"gt=0"`
	APIRateLimit          string        `validate:"required"`
}

// Load returns the settings.
func Load(opts Options) (*valutatrade.Settings, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// A missing .env file is not an error.
	_ = godotenv.Load(envFile)

	v := viper.New()
	setDefaults(v)
	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file %q: %w", opts.File, err)
		}
	}
	v.AutomaticEnv()

	ttl, err := cast.ToDurationE(v.Get(SessionTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", SessionTTL, err)
	}
	vals := values{
		DataDir:               v.GetString(DataDir),
		LogDir:                v.GetString(LogDir),
		RatesTTLSeconds:       v.GetInt(RatesTTLSeconds),
		BaseCurrency:          v.GetString(BaseCurrency),
		FiatCurrencies:        list(v, FiatCurrencies),
		CryptoCurrencies:      list(v, CryptoCurrencies),
		CoinGeckoURL:          v.GetString(CoinGeckoURL),
		ExchangeRateURL:       v.GetString(ExchangeRateURL),
		ExchangeRateAPIKey:    v.GetString(ExchangeRateAPIKey),
		RequestTimeoutSeconds: v.GetInt(RequestTimeout),
		UpdateIntervalSeconds: v.GetInt(UpdateInterval),
		SessionSecret:         v.GetString(SessionSecret),
		SessionTTL:            ttl,
		APIRateLimit:          v.GetString(APIRateLimit),
	}
	if err := validate(vals); err != nil {
		return nil, err
	}
	return vals.settings(), nil
}

func setDefaults(v *viper.Viper) {
	d := valutatrade.DefaultSettings()
	v.SetDefault(DataDir, d.DataDir)
	v.SetDefault(LogDir, d.LogDir)
	v.SetDefault(RatesTTLSeconds, int(d.RatesTTL/time.Second))
	v.SetDefault(BaseCurrency, string(d.BaseCurrency))
	v.SetDefault(FiatCurrencies, codesString(d.FiatCurrencies))
	v.SetDefault(CryptoCurrencies, codesString(d.CryptoCurrencies))
	v.SetDefault(CoinGeckoURL, d.CoinGeckoURL)
	v.SetDefault(ExchangeRateURL, d.ExchangeRateURL)
	v.SetDefault(ExchangeRateAPIKey, "")
	v.SetDefault(RequestTimeout, int(d.RequestTimeout/time.Second))
	v.SetDefault(UpdateInterval, int(d.UpdateInterval/time.Second))
	v.SetDefault(SessionSecret, d.SessionSecret)
	v.SetDefault(SessionTTL, d.SessionTTL.String())
	v.SetDefault(APIRateLimit, d.APIRateLimit)
}

// list reads a list either from a comma separated string (environment) or
// from a native list (config file).
func list(v *viper.Viper, key string) []string {
	var items []string
	switch raw := v.Get(key).(type) {
	case string:
		items = strings.Split(raw, ",")
	default:
		items = cast.ToStringSlice(raw)
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}

func codesString(codes []valutatrade.CurrencyCode) string {
	s := make([]string, len(codes))
	for i, c := range codes {
		s[i] = string(c)
	}
	return strings.Join(s, ",")
}

// keyOf maps a values field to its configuration key, for error messages.
var keyOf = map[string]string{
	"DataDir":               DataDir,
	"LogDir":                LogDir,
	"RatesTTLSeconds":       RatesTTLSeconds,
	"BaseCurrency":          BaseCurrency,
	"FiatCurrencies":        FiatCurrencies,
	"CryptoCurrencies":      CryptoCurrencies,
	"CoinGeckoURL":          CoinGeckoURL,
	"ExchangeRateURL":       ExchangeRateURL,
	"RequestTimeoutSeconds": RequestTimeout,
	"UpdateIntervalSeconds": UpdateInterval,
	"SessionSecret":         SessionSecret,
	"SessionTTL":            SessionTTL,
	"APIRateLimit":          APIRateLimit,
}

func validate(vals values) error {
	vd := validator.New(validator.WithRequiredStructEnabled())
	vd.RegisterValidation("currency_code", func(fl validator.FieldLevel) bool {
		_, err := valutatrade.ParseCurrencyCode(fl.Field().String())
		return err == nil
	})
	err := vd.Struct(vals)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var errs error
	for _, fe := range verrs {
		field, _, _ := strings.Cut(fe.StructField(), "[")
		key := keyOf[field]
		errs = errors.Join(errs, fmt.Errorf("invalid %s %q: failed %q check", key, fmt.Sprint(fe.Value()), fe.Tag()))
	}
	return errs
}

func (vals values) settings() *valutatrade.Settings {
	codes := func(ss []string) []valutatrade.CurrencyCode {
		out := make([]valutatrade.CurrencyCode, len(ss))
		for i, s := range ss {
			out[i] = valutatrade.MustCurrencyCode(s)
		}
		return out
	}
	return &valutatrade.Settings{
		DataDir:            vals.DataDir,
		LogDir:             vals.LogDir,
		RatesTTL:           time.Duration(vals.RatesTTLSeconds) * time.Second,
		BaseCurrency:       valutatrade.MustCurrencyCode(vals.BaseCurrency),
		FiatCurrencies:     codes(vals.FiatCurrencies),
		CryptoCurrencies:   codes(vals.CryptoCurrencies),
		CoinGeckoURL:       vals.CoinGeckoURL,
		ExchangeRateURL:    vals.ExchangeRateURL,
		ExchangeRateAPIKey: vals.ExchangeRateAPIKey,
		RequestTimeout:     time.Duration(vals.RequestTimeoutSeconds) * time.Second,
		UpdateInterval:     time.Duration(vals.UpdateIntervalSeconds) * time.Second,
		SessionSecret:      vals.SessionSecret,
		SessionTTL:         vals.SessionTTL,
		APIRateLimit:       vals.APIRateLimit,
	}
}
