// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package ledger holds the in-memory payment ledger: account balances
// with an atomic authorize-and-debit operation.
//
// The ledger is deliberately non-durable — accounts live for the
// process lifetime and balances reset on restart. Durability belongs
// to the booking log, not the ledger.
package ledger

import (
	"errors"
	"sync"
)

// ErrDeclined is the single failure returned for a missing account, a
// credential mismatch, or an insufficient balance. The causes are
// intentionally not distinguished so a caller cannot probe which part
// failed.
var ErrDeclined = errors.New("invalid account credentials or insufficient balance")

// Account is one ledger entry. Number is the unique key; Secret is the
// credential matched on payment; Balance never goes negative.
type Account struct {
	Number  string
	Secret  string
	Balance float64
}

// Ledger owns exclusive mutation rights over its accounts. A single
// mutex guards the whole ledger: the check-credentials, check-balance,
// deduct sequence is indivisible under concurrent access, so two
// simultaneous debits can never jointly overdraw an account.
type Ledger struct {
	mu       sync.Mutex
	accounts map[string]*Account
}

// New creates a ledger holding copies of the given accounts. Later
// mutations of the caller's slice do not affect the ledger.
func New(accounts []Account) *Ledger {
	ledger := &Ledger{accounts: make(map[string]*Account, len(accounts))}
	for _, account := range accounts {
		copied := account
		ledger.accounts[account.Number] = &copied
	}
	return ledger
}

// AuthorizeAndDebit locates the account, verifies the credential, and
// deducts amount from the balance — all as one atomic unit. Returns
// ErrDeclined when the account is unknown, the credential does not
// match, the amount is negative, or the balance is insufficient; the
// balance is untouched in every failure case.
func (l *Ledger) AuthorizeAndDebit(number, secret string, amount float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[number]
	if !ok || account.Secret != secret {
		return ErrDeclined
	}
	if amount < 0 || account.Balance < amount {
		return ErrDeclined
	}

	account.Balance -= amount
	return nil
}

// Balance returns the current balance of an account, for inspection
// and tests. The second return is false when the account is unknown.
func (l *Ledger) Balance(number string) (float64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[number]
	if !ok {
		return 0, false
	}
	return account.Balance, true
}
