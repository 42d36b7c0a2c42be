package valutatrade

import "strings"

// RatePair identifies a directional exchange rate: the price of one unit of
// From expressed in To.
//
// A_B and B_A are distinct pairs.
type RatePair struct {
	From CurrencyCode
	To   CurrencyCode
}

// NewRatePair returns the pair from -> to.
func NewRatePair(from, to CurrencyCode) RatePair { return RatePair{From: from, To: to} }

// ParseRatePair parses the canonical "FROM_TO" form.
func ParseRatePair(s string) (RatePair, error) {
	from, to, ok := strings.Cut(s, "_")
	if !ok {
		return RatePair{}, validationError("invalid pair %q, expected FROM_TO", s)
	}
	f, err := ParseCurrencyCode(from)
	if err != nil {
		return RatePair{}, err
	}
	t, err := ParseCurrencyCode(to)
	if err != nil {
		return RatePair{}, err
	}
	return RatePair{From: f, To: t}, nil
}

// String returns the canonical "FROM_TO" form.
func (p RatePair) String() string { return string(p.From) + "_" + string(p.To) }

// Inverse returns the pair To -> From.
func (p RatePair) Inverse() RatePair { return RatePair{From: p.To, To: p.From} }

// IsZero reports whether p is the zero pair.
func (p RatePair) IsZero() bool { return p.From == "" && p.To == "" }

// Has reports whether code is one side of the pair.
func (p RatePair) Has(code CurrencyCode) bool { return p.From == code || p.To == code }

func (p RatePair) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *RatePair) UnmarshalText(text []byte) error {
	v, err := ParseRatePair(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
