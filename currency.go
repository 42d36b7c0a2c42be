package valutatrade

import (
	"fmt"
	"slices"
	"strings"
)

// CurrencyCode is a validated currency code: 2 to 5 uppercase ASCII letters.
//
// The zero value is not a valid code. Use ParseCurrencyCode to build one.
type CurrencyCode string

// ParseCurrencyCode trims and upper-cases s and checks it is a valid code.
func ParseCurrencyCode(s string) (CurrencyCode, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if code == "" {
		return "", validationError("currency code cannot be empty")
	}
	if len(code) < 2 || len(code) > 5 {
		return "", validationError("currency code %q must be 2 to 5 letters", code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", validationError("currency code %q must contain only letters", code)
		}
	}
	return CurrencyCode(code), nil
}

// MustCurrencyCode is like ParseCurrencyCode but panics on invalid input.
// It is meant for constants.
func MustCurrencyCode(s string) CurrencyCode {
	c, err := ParseCurrencyCode(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CurrencyCode) String() string { return string(c) }

// UnmarshalText validates the code when decoding documents.
func (c *CurrencyCode) UnmarshalText(text []byte) error {
	code, err := ParseCurrencyCode(string(text))
	if err != nil {
		return err
	}
	*c = code
	return nil
}

// CurrencyKind distinguishes fiat from crypto currencies.
type CurrencyKind string

const (
	Fiat   CurrencyKind = "fiat"
	Crypto CurrencyKind = "crypto"
)

// Currency describes a supported currency.
type Currency struct {
	Code CurrencyCode
	Name string
	Kind CurrencyKind

	// IssuingCountry is only set for fiat currencies.
	IssuingCountry string
	// Algorithm and MarketCap are only set for crypto currencies.
	Algorithm string
	MarketCap float64
}

// DisplayInfo returns a one line description of the currency.
func (c Currency) DisplayInfo() string {
	if c.Kind == Crypto {
		return fmt.Sprintf("[CRYPTO] %s (%s), algo=%s, cap=%.2f", c.Name, c.Code, c.Algorithm, c.MarketCap)
	}
	return fmt.Sprintf("[FIAT] %s (%s), %s", c.Name, c.Code, c.IssuingCountry)
}

// Registry is an immutable set of supported currencies.
type Registry struct {
	byCode map[CurrencyCode]Currency
}

// NewRegistry returns a registry holding currencies.
func NewRegistry(currencies ...Currency) *Registry {
	r := &Registry{byCode: make(map[CurrencyCode]Currency, len(currencies))}
	for _, c := range currencies {
		r.byCode[c.Code] = c
	}
	return r
}

// DefaultRegistry returns the currencies the providers know how to price.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Currency{Code: "USD", Name: "US Dollar", Kind: Fiat, IssuingCountry: "United States"},
		Currency{Code: "EUR", Name: "Euro", Kind: Fiat, IssuingCountry: "Eurozone"},
		Currency{Code: "GBP", Name: "British Pound", Kind: Fiat, IssuingCountry: "United Kingdom"},
		Currency{Code: "RUB", Name: "Russian Ruble", Kind: Fiat, IssuingCountry: "Russia"},
		Currency{Code: "BTC", Name: "Bitcoin", Kind: Crypto, Algorithm: "SHA-256"},
		Currency{Code: "ETH", Name: "Ethereum", Kind: Crypto, Algorithm: "Ethash"},
		Currency{Code: "SOL", Name: "Solana", Kind: Crypto, Algorithm: "Proof of History"},
	)
}

// Lookup returns the currency for code.
//
// Both a malformed and an unknown code fail with KindCurrencyNotFound.
func (r *Registry) Lookup(code string) (Currency, error) {
	c, err := ParseCurrencyCode(code)
	if err != nil {
		return Currency{}, &Error{Kind: KindCurrencyNotFound, Currency: CurrencyCode(strings.ToUpper(strings.TrimSpace(code))), Err: err}
	}
	cur, ok := r.byCode[c]
	if !ok {
		return Currency{}, &Error{Kind: KindCurrencyNotFound, Currency: c}
	}
	return cur, nil
}

// Codes returns all the supported codes in alphabetical order.
func (r *Registry) Codes() []CurrencyCode {
	codes := make([]CurrencyCode, 0, len(r.byCode))
	for c := range r.byCode {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes
}
