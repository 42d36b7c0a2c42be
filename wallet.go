package valutatrade

import (
	"math"

	"github.com/shopspring/decimal"
)

// Wallet is a user's balance in a single currency.
//
// The balance is never negative. Deposit and Withdraw are the only mutators.
type Wallet struct {
	currency CurrencyCode
	balance  decimal.Decimal
}

// NewWallet returns a wallet holding balance units of currency.
func NewWallet(currency CurrencyCode, balance float64) (*Wallet, error) {
	if math.IsNaN(balance) || math.IsInf(balance, 0) || balance < 0 {
		return nil, validationError("balance of %s must be a non negative number, got %v", currency, balance)
	}
	return &Wallet{currency: currency, balance: decimal.NewFromFloat(balance)}, nil
}

// Currency returns the currency held by the wallet.
func (w *Wallet) Currency() CurrencyCode { return w.currency }

// Balance returns the current balance.
func (w *Wallet) Balance() float64 { return w.balance.InexactFloat64() }

// Deposit adds amount to the balance.
func (w *Wallet) Deposit(amount float64) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	w.balance = w.balance.Add(decimal.NewFromFloat(amount))
	return nil
}

// Withdraw removes amount from the balance. It fails with KindInsufficientFunds
// if amount exceeds the balance, leaving the wallet untouched.
func (w *Wallet) Withdraw(amount float64) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	a := decimal.NewFromFloat(amount)
	if a.GreaterThan(w.balance) {
		return &Error{Kind: KindInsufficientFunds, Currency: w.currency, Amount: amount, Available: w.Balance()}
	}
	w.balance = w.balance.Sub(a)
	return nil
}

// checkAmount rejects amounts that are not strictly positive finite numbers.
func checkAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return validationError("amount must be a positive number, got %v", amount)
	}
	return nil
}
