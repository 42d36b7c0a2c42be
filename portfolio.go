package valutatrade

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Portfolio is the set of wallets of a user, at most one per currency.
//
// Wallets are created lazily and never removed, even when their balance
// drops to zero.
type Portfolio struct {
	UserID  int
	wallets map[CurrencyCode]*Wallet
}

// NewPortfolio returns an empty portfolio for userID.
func NewPortfolio(userID int) *Portfolio {
	return &Portfolio{UserID: userID, wallets: make(map[CurrencyCode]*Wallet)}
}

// Wallet returns the wallet for code, if any.
func (p *Portfolio) Wallet(code CurrencyCode) (*Wallet, bool) {
	w, ok := p.wallets[code]
	return w, ok
}

// AddWallet returns the wallet for code, creating an empty one if needed.
func (p *Portfolio) AddWallet(code CurrencyCode) *Wallet {
	if w, ok := p.wallets[code]; ok {
		return w
	}
	if p.wallets == nil {
		p.wallets = make(map[CurrencyCode]*Wallet)
	}
	w := &Wallet{currency: code}
	p.wallets[code] = w
	return w
}

// Currencies returns the currencies held, sorted.
func (p *Portfolio) Currencies() []CurrencyCode {
	return slices.Sorted(maps.Keys(p.wallets))
}

// Len returns the number of wallets.
func (p *Portfolio) Len() int { return len(p.wallets) }

type walletDoc struct {
	Balance float64 `json:"balance"`
}

type portfolioDoc struct {
	UserID  int                        `json:"user_id"`
	Wallets map[CurrencyCode]walletDoc `json:"wallets"`
}

func (p *Portfolio) MarshalJSON() ([]byte, error) {
	doc := portfolioDoc{UserID: p.UserID, Wallets: make(map[CurrencyCode]walletDoc, len(p.wallets))}
	for code, w := range p.wallets {
		doc.Wallets[code] = walletDoc{Balance: w.Balance()}
	}
	return json.Marshal(doc)
}

func (p *Portfolio) UnmarshalJSON(data []byte) error {
	var doc portfolioDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	p.UserID = doc.UserID
	p.wallets = make(map[CurrencyCode]*Wallet, len(doc.Wallets))
	for code, wd := range doc.Wallets {
		w, err := NewWallet(code, wd.Balance)
		if err != nil {
			return fmt.Errorf("portfolio of user %d: %w", doc.UserID, err)
		}
		p.wallets[code] = w
	}
	return nil
}
