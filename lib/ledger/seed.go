// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

// SeedAccounts returns the fixed account set loaded at server start.
// These are demo credentials; the ledger carries no real money and no
// durability.
func SeedAccounts() []Account {
	return []Account{
		{Number: "12345", Secret: "pass", Balance: 100000.00},
		{Number: "54321", Secret: "pass", Balance: 50000.00},
	}
}
