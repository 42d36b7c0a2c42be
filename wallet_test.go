package valutatrade

import (
	"errors"
	"math"
	"testing"
)

func TestWallet(t *testing.T) {
	w, err := NewWallet("BTC", 0.1)
	if err != nil {
		t.Fatalf("NewWallet() unexpected error: %v", err)
	}
	if err := w.Deposit(0.2); err != nil {
		t.Fatalf("Deposit() unexpected error: %v", err)
	}
	if got, want := w.Balance(), 0.3; got != want {
		t.Errorf("Balance() = %v, want %v", got, want)
	}
	if err := w.Withdraw(0.2); err != nil {
		t.Fatalf("Withdraw() unexpected error: %v", err)
	}
	if got, want := w.Balance(), 0.1; got != want {
		t.Errorf("Balance() after deposit and withdraw = %v, want %v", got, want)
	}
}

func TestWalletRejects(t *testing.T) {
	if _, err := NewWallet("BTC", -1); !errors.Is(err, ErrValidation) {
		t.Errorf("NewWallet(-1) error = %v, want validation", err)
	}

	w, _ := NewWallet("BTC", 1)
	for _, a := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := w.Deposit(a); !errors.Is(err, ErrValidation) {
			t.Errorf("Deposit(%v) error = %v, want validation", a, err)
		}
		if err := w.Withdraw(a); !errors.Is(err, ErrValidation) {
			t.Errorf("Withdraw(%v) error = %v, want validation", a, err)
		}
	}

	err := w.Withdraw(1.5)
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindInsufficientFunds {
		t.Fatalf("Withdraw(1.5) error = %v, want insufficient funds", err)
	}
	if e.Available != 1 || e.Amount != 1.5 || e.Currency != "BTC" {
		t.Errorf("Withdraw(1.5) error = %+v, want available 1, requested 1.5 BTC", e)
	}
	if w.Balance() != 1 {
		t.Errorf("Balance() after failed withdraw = %v, want 1", w.Balance())
	}
}

func TestPortfolioAddWalletOnce(t *testing.T) {
	p := NewPortfolio(1)
	a := p.AddWallet("BTC")
	a.Deposit(1)
	b := p.AddWallet("BTC")
	if a != b || p.Len() != 1 {
		t.Errorf("AddWallet() twice created %d wallets, want 1", p.Len())
	}
	if b.Balance() != 1 {
		t.Errorf("AddWallet() on existing wallet reset balance to %v", b.Balance())
	}
}
