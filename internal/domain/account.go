package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType distinguishes the two account products.
type AccountType string

const (
	AccountTypeSavings  AccountType = "savings"
	AccountTypeChecking AccountType = "checking"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	return t == AccountTypeSavings || t == AccountTypeChecking
}

// Account is the domain entity for a bank account.
// PasswordHash is a SHA-256 hex digest; the plaintext is never stored.
type Account struct {
	Number         string
	CustomerID     string
	Type           AccountType
	Balance        decimal.Decimal
	PasswordHash   string
	FailedAttempts int
	Locked         bool
	InterestRate   decimal.Decimal // savings only
	OverdraftLimit decimal.Decimal // checking only
	CreatedAt      time.Time
}

// Floor returns the lowest balance the account may reach: zero for savings,
// the negated overdraft limit for checking.
func (a *Account) Floor() decimal.Decimal {
	if a.Type == AccountTypeChecking {
		return a.OverdraftLimit.Neg()
	}
	return decimal.Zero
}
