// Package exchangerate fetches fiat rates from ExchangeRate-API.
package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/valutatrade"
)

// Name identifies the provider in history records.
const Name = "ExchangeRate-API"

// DefaultURL is the v6 API root.
const DefaultURL = "https://v6.exchangerate-api.com/v6"

// Client quotes fiat currencies against a base currency.
//
// The API returns how many units of each currency one unit of Base buys, so
// every quote is inverted to get the CODE_BASE rate.
type Client struct {
	URL        string // DefaultURL if empty
	APIKey     string
	Base       valutatrade.CurrencyCode
	Codes      []valutatrade.CurrencyCode
	Timeout    time.Duration
	HTTPClient *http.Client
}

// New returns a client for the settings' fiat currencies.
func New(s valutatrade.Settings) *Client {
	return &Client{
		URL:     s.ExchangeRateURL,
		APIKey:  s.ExchangeRateAPIKey,
		Base:    s.BaseCurrency,
		Codes:   s.FiatCurrencies,
		Timeout: s.RequestTimeout,
	}
}

func (c *Client) Name() string { return Name }

// FetchRates returns the CODE_BASE rate of every code quoted by the API.
//
// A missing API key fails before any request is made.
func (c *Client) FetchRates(ctx context.Context) (map[valutatrade.RatePair]float64, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, valutatrade.ProviderError(Name, "missing API key, set EXCHANGERATE_API_KEY", nil)
	}
	root := c.URL
	if root == "" {
		root = DefaultURL
	}
	addr := fmt.Sprintf("%s/%s/latest/%s", strings.TrimRight(root, "/"), c.APIKey, c.Base)

	body, err := valutatrade.GetJSON(ctx, c.HTTPClient, Name, addr, c.Timeout)
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return nil, valutatrade.ProviderError(Name, "invalid JSON response", err)
	}
	if result, _ := jsonpath.Get("$.result", jobj); result == "error" {
		kind, _ := jsonpath.Get(`$["error-type"]`, jobj)
		return nil, valutatrade.ProviderError(Name, fmt.Sprintf("API error: %v", kind), nil)
	}

	quotes, err := quotesOf(jobj)
	if err != nil {
		return nil, err
	}

	rates := make(map[valutatrade.RatePair]float64)
	for _, code := range c.Codes {
		if code == c.Base {
			continue
		}
		v, ok := quotes[string(code)].(float64)
		if !ok || v == 0 {
			continue
		}
		rates[valutatrade.NewRatePair(code, c.Base)] = 1 / v
	}
	return rates, nil
}

// quotesOf returns the rates object of the response. Current API versions
// name it conversion_rates, older ones rates.
func quotesOf(jobj any) (map[string]any, error) {
	for _, path := range []string{"$.conversion_rates", "$.rates"} {
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			continue
		}
		if m, ok := jval.(map[string]any); ok {
			return m, nil
		}
	}
	return nil, valutatrade.ProviderError(Name, "response has no rates", nil)
}
