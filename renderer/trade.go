package renderer

import (
	"fmt"

	"github.com/etnz/valutatrade"
)

// Trade is the receipt of a trade.
type Trade struct {
	Title      string
	Currency   string
	Pair       string
	Amount     string
	Rate       string
	TotalLabel string // "Cost" or "Revenue"
	Total      string
	Before     string
	After      string
}

// NewTrade creates a Trade receipt.
func NewTrade(t valutatrade.Trade) *Trade {
	verb, label := "Bought", "Cost"
	if t.Action == valutatrade.Sell {
		verb, label = "Sold", "Revenue"
	}
	return &Trade{
		Title:      fmt.Sprintf("%s %s %s", verb, valutatrade.FormatAmount(t.Amount), t.Currency),
		Currency:   string(t.Currency),
		Pair:       valutatrade.NewRatePair(t.Currency, t.Base).String(),
		Amount:     valutatrade.FormatAmount(t.Amount) + " " + string(t.Currency),
		Rate:       valutatrade.FormatRate(t.Rate),
		TotalLabel: label,
		Total:      valutatrade.M(t.Total, t.Base).String(),
		Before:     valutatrade.FormatAmount(t.Before),
		After:      valutatrade.FormatAmount(t.After),
	}
}
