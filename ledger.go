package valutatrade

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioRepository loads and saves portfolios wholesale.
type PortfolioRepository interface {
	Portfolio(userID int) (*Portfolio, error)
	SavePortfolio(p *Portfolio) error
}

// RateSource resolves exchange rates.
type RateSource interface {
	Resolve(from, to CurrencyCode) (Quote, error)
}

// Action is a ledger operation.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// Trade is the receipt of a buy or a sell.
type Trade struct {
	Action   Action
	UserID   int
	Currency CurrencyCode
	Base     CurrencyCode
	Amount   float64
	Rate     float64
	Before   float64 // wallet balance before the trade
	After    float64 // wallet balance after the trade
	Total    float64 // cost of a buy or revenue of a sell, in Base
	At       time.Time
}

// ValuationLine is the value of one wallet.
type ValuationLine struct {
	Currency CurrencyCode
	Balance  float64
	Rate     float64
	Value    float64
}

// Valuation is the value of a whole portfolio in a base currency.
type Valuation struct {
	UserID int
	Base   CurrencyCode
	Lines  []ValuationLine
	Total  float64
}

// Ledger executes trades against users' portfolios at the current rates.
type Ledger struct {
	portfolios PortfolioRepository
	rates      RateSource
	currencies *Registry
	logger     *slog.Logger
	now        func() time.Time
}

// NewLedger returns a ledger. A nil logger discards the action log.
func NewLedger(portfolios PortfolioRepository, rates RateSource, currencies *Registry, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Ledger{portfolios: portfolios, rates: rates, currencies: currencies, logger: logger, now: time.Now}
}

// Buy credits amount of currency to the user's portfolio, priced in base.
//
// The rate is resolved before anything is modified, so a pricing failure
// leaves the stored portfolio untouched. The wallet is created if needed.
func (l *Ledger) Buy(user User, currency string, amount float64, base string) (trade Trade, err error) {
	trade = Trade{Action: Buy, UserID: user.ID, Amount: amount}
	defer func() { l.logTrade(user, trade, err) }()

	if err = checkAmount(amount); err != nil {
		return trade, err
	}
	if trade.Currency, trade.Base, err = l.lookupPair(currency, base); err != nil {
		return trade, err
	}
	p, err := l.portfolios.Portfolio(user.ID)
	if err != nil {
		return trade, err
	}
	q, err := l.rates.Resolve(trade.Currency, trade.Base)
	if err != nil {
		return trade, err
	}
	trade.Rate = q.Rate

	w := p.AddWallet(trade.Currency)
	trade.Before = w.Balance()
	if err = w.Deposit(amount); err != nil {
		return trade, err
	}
	trade.After = w.Balance()
	trade.Total = mul(amount, q.Rate)
	trade.At = Stamp(l.now())

	if err = l.portfolios.SavePortfolio(p); err != nil {
		return trade, err
	}
	return trade, nil
}

// Sell debits amount of currency from the user's portfolio, priced in base.
//
// It fails with KindWalletNotFound if the user holds no such wallet and with
// KindInsufficientFunds if amount exceeds the balance. Both are checked before
// the rate is resolved.
func (l *Ledger) Sell(user User, currency string, amount float64, base string) (trade Trade, err error) {
	trade = Trade{Action: Sell, UserID: user.ID, Amount: amount}
	defer func() { l.logTrade(user, trade, err) }()

	if err = checkAmount(amount); err != nil {
		return trade, err
	}
	if trade.Currency, trade.Base, err = l.lookupPair(currency, base); err != nil {
		return trade, err
	}
	p, err := l.portfolios.Portfolio(user.ID)
	if err != nil {
		return trade, err
	}
	w, ok := p.Wallet(trade.Currency)
	if !ok {
		return trade, &Error{Kind: KindWalletNotFound, Currency: trade.Currency}
	}
	trade.Before = w.Balance()
	if amount > trade.Before {
		return trade, &Error{Kind: KindInsufficientFunds, Currency: trade.Currency, Amount: amount, Available: trade.Before}
	}
	q, err := l.rates.Resolve(trade.Currency, trade.Base)
	if err != nil {
		return trade, err
	}
	trade.Rate = q.Rate

	if err = w.Withdraw(amount); err != nil {
		return trade, err
	}
	trade.After = w.Balance()
	trade.Total = mul(amount, q.Rate)
	trade.At = Stamp(l.now())

	if err = l.portfolios.SavePortfolio(p); err != nil {
		return trade, err
	}
	return trade, nil
}

// Value converts every wallet of the user into base and sums them.
//
// Any stale or unavailable rate fails the whole valuation.
func (l *Ledger) Value(user User, base string) (Valuation, error) {
	b, err := l.currencies.Lookup(base)
	if err != nil {
		return Valuation{}, err
	}
	p, err := l.portfolios.Portfolio(user.ID)
	if err != nil {
		return Valuation{}, err
	}
	v := Valuation{UserID: user.ID, Base: b.Code}
	total := decimal.Zero
	for _, code := range p.Currencies() {
		w, _ := p.Wallet(code)
		line := ValuationLine{Currency: code, Balance: w.Balance(), Rate: 1}
		if code != b.Code {
			q, err := l.rates.Resolve(code, b.Code)
			if err != nil {
				return Valuation{}, err
			}
			line.Rate = q.Rate
		}
		value := w.balance.Mul(decimal.NewFromFloat(line.Rate))
		line.Value = value.InexactFloat64()
		total = total.Add(value)
		v.Lines = append(v.Lines, line)
	}
	v.Total = total.InexactFloat64()
	return v, nil
}

// Rate returns the current rate from -> to after checking both currencies
// are supported.
func (l *Ledger) Rate(from, to string) (Quote, error) {
	f, t, err := l.lookupPair(from, to)
	if err != nil {
		return Quote{}, err
	}
	return l.rates.Resolve(f, t)
}

func (l *Ledger) lookupPair(a, b string) (CurrencyCode, CurrencyCode, error) {
	ca, err := l.currencies.Lookup(a)
	if err != nil {
		return "", "", err
	}
	cb, err := l.currencies.Lookup(b)
	if err != nil {
		return "", "", err
	}
	return ca.Code, cb.Code, nil
}

func (l *Ledger) logTrade(user User, t Trade, err error) {
	attrs := []any{
		"action", t.Action,
		"user", user.Username,
		"user_id", user.ID,
		"currency", t.Currency,
		"amount", t.Amount,
		"rate", t.Rate,
		"base", t.Base,
	}
	if err != nil {
		l.logger.Error("trade", append(attrs, "result", "ERROR", "error", err)...)
		return
	}
	l.logger.Info("trade", append(attrs, "result", "OK")...)
}

func mul(a, b float64) float64 {
	return decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).InexactFloat64()
}
