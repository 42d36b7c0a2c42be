package renderer

import (
	"time"

	"github.com/etnz/valutatrade"
)

// Portfolio is a portfolio valuation ready to be rendered.
type Portfolio struct {
	// Username of the portfolio owner.
	Username string
	// Base is the valuation currency.
	Base string
	// Date of the valuation.
	Date string
	// Wallets in currency order.
	Wallets []PortfolioWallet
	// Total value of all the wallets, in Base.
	Total string
}

// PortfolioWallet is the valuation of a single wallet.
type PortfolioWallet struct {
	Currency string
	Balance  string
	Rate     string
	Value    string
}

// NewPortfolio creates a Portfolio from a valuation.
func NewPortfolio(username string, v valutatrade.Valuation, at time.Time) *Portfolio {
	p := &Portfolio{
		Username: username,
		Base:     string(v.Base),
		Date:     at.Format(time.DateOnly),
		Total:    valutatrade.M(v.Total, v.Base).String(),
	}
	for _, l := range v.Lines {
		p.Wallets = append(p.Wallets, PortfolioWallet{
			Currency: string(l.Currency),
			Balance:  valutatrade.FormatAmount(l.Balance),
			Rate:     valutatrade.FormatRate(l.Rate),
			Value:    valutatrade.M(l.Value, v.Base).String(),
		})
	}
	return p
}
