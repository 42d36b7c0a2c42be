package valutatrade

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// cryptoFraction is the number of decimals shown for currencies unknown to
// the money formatter.
const cryptoFraction = 8

// Money is an amount of a currency, used for display.
type Money struct {
	value decimal.Decimal // in major units
	cur   CurrencyCode
}

// M returns value units of currency.
func M(value float64, currency CurrencyCode) Money {
	return Money{value: decimal.NewFromFloat(value), cur: currency}
}

// String formats the amount with the currency's symbol and precision when
// they are known, and as "<amount> <code>" otherwise.
func (m Money) String() string {
	if cur := money.GetCurrency(string(m.cur)); cur != nil && cur.Grapheme != "" && cur.Fraction < cryptoFraction {
		dec := m.value.Shift(int32(cur.Fraction))
		return cur.Formatter().Format(dec.Round(0).IntPart())
	}
	return FormatAmount(m.value.InexactFloat64()) + " " + string(m.cur)
}

// FormatAmount formats a quantity with up to 8 decimals, without trailing zeros.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).Round(cryptoFraction).String()
}

// FormatRate formats an exchange rate, keeping precision for very small
// rates such as the inverse of a crypto price.
func FormatRate(r float64) string {
	d := decimal.NewFromFloat(r)
	if d.Abs().LessThan(decimal.New(1, -4)) && !d.IsZero() {
		return d.Round(12).String()
	}
	return d.Round(cryptoFraction).String()
}
