// Package coingecko fetches crypto currency prices from the CoinGecko
// simple price endpoint.
package coingecko

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etnz/valutatrade"
	"github.com/tidwall/gjson"
)

// Name identifies the provider in history records.
const Name = "CoinGecko"

// DefaultURL is the simple price endpoint.
const DefaultURL = "https://api.coingecko.com/api/v3/simple/price"

// ids maps currency codes to CoinGecko coin ids.
var ids = map[valutatrade.CurrencyCode]string{
	"BTC": "bitcoin",
	"ETH": "ethereum",
	"SOL": "solana",
}

// Client quotes a list of crypto currencies against a base currency.
type Client struct {
	URL        string // DefaultURL if empty
	Base       valutatrade.CurrencyCode
	Codes      []valutatrade.CurrencyCode
	Timeout    time.Duration
	HTTPClient *http.Client
}

// New returns a client for the settings' crypto currencies.
func New(s valutatrade.Settings) *Client {
	return &Client{
		URL:     s.CoinGeckoURL,
		Base:    s.BaseCurrency,
		Codes:   s.CryptoCurrencies,
		Timeout: s.RequestTimeout,
	}
}

func (c *Client) Name() string { return Name }

// FetchRates returns the CODE_BASE rate of every known code.
//
// Codes without a CoinGecko id, and coins missing or quoted as zero in the
// response, are left out.
func (c *Client) FetchRates(ctx context.Context) (map[valutatrade.RatePair]float64, error) {
	var coins []string
	for _, code := range c.Codes {
		if id, ok := ids[code]; ok {
			coins = append(coins, id)
		}
	}
	rates := make(map[valutatrade.RatePair]float64)
	if len(coins) == 0 {
		return rates, nil
	}

	base := strings.ToLower(string(c.Base))
	addr := c.URL
	if addr == "" {
		addr = DefaultURL
	}
	q := url.Values{}
	q.Set("ids", strings.Join(coins, ","))
	q.Set("vs_currencies", base)

	body, err := valutatrade.GetJSON(ctx, c.HTTPClient, Name, addr+"?"+q.Encode(), c.Timeout)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, valutatrade.ProviderError(Name, "invalid JSON response", nil)
	}

	for _, code := range c.Codes {
		id, ok := ids[code]
		if !ok {
			continue
		}
		v := gjson.GetBytes(body, id+"."+base)
		if !v.Exists() || v.Type != gjson.Number || v.Float() == 0 {
			continue
		}
		rates[valutatrade.NewRatePair(code, c.Base)] = v.Float()
	}
	return rates, nil
}
