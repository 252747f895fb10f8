// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
)

// Bank identifies one of the supported banking backends.
type Bank string

// Supported banks.
const (
	BankCBE      Bank = "cbe"
	BankBOA      Bank = "boa"
	BankTelebirr Bank = "telebirr"
)

// Banks lists every supported bank.
func Banks() []Bank {
	return []Bank{BankCBE, BankBOA, BankTelebirr}
}

// ParseBank converts user input into a Bank.
func ParseBank(s string) (Bank, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cbe":
		return BankCBE, nil
	case "boa":
		return BankBOA, nil
	case "telebirr":
		return BankTelebirr, nil
	default:
		return "", fmt.Errorf("unknown bank %q (expected cbe, boa, or telebirr)", s)
	}
}

// DisplayName returns the human-readable bank name.
func (b Bank) DisplayName() string {
	switch b {
	case BankCBE:
		return "Commercial Bank of Ethiopia"
	case BankBOA:
		return "Bank of Abyssinia"
	case BankTelebirr:
		return "Telebirr"
	default:
		return string(b)
	}
}

// RequiresAccount reports whether the bank needs a sender account number
// alongside the transaction reference. Telebirr verifies by transaction ID
// alone.
func (b Bank) RequiresAccount() bool {
	return b == BankCBE || b == BankBOA
}
