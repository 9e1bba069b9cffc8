package repo

import (
	"time"

	"github.com/shopspring/decimal"

	dom "github.com/hello-jai/banking-management-system/internal/domain"
)

// persistCustomer is the wire form of one row in customers.json. Field names
// follow the existing data files so old snapshots load unchanged.
type persistCustomer struct {
	CustomerID     string    `json:"customer_id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	AccountNumbers []string  `json:"account_numbers"`
	CreatedAt      time.Time `json:"created_at"`
}

// persistAccount is the wire form of one row in accounts.json. Balances and
// rates marshal as decimal strings; numeric literals from older files still
// parse.
type persistAccount struct {
	AccountNumber   string          `json:"account_number"`
	AccountHolderID string          `json:"account_holder_id"`
	Type            string          `json:"type"`
	Balance         decimal.Decimal `json:"balance"`
	PasswordHash    string          `json:"password_hash"`
	FailedAttempts  int             `json:"failed_attempts"`
	IsLocked        bool            `json:"is_locked"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	OverdraftLimit  decimal.Decimal `json:"overdraft_limit"`
	CreatedAt       time.Time       `json:"created_at"`
}

func customerToPersist(c *dom.Customer) persistCustomer {
	return persistCustomer{
		CustomerID:     c.ID,
		Name:           c.Name,
		Address:        c.Address,
		AccountNumbers: append([]string{}, c.AccountNumbers...),
		CreatedAt:      c.CreatedAt,
	}
}

func (p persistCustomer) toDomain() *dom.Customer {
	return &dom.Customer{
		ID:             p.CustomerID,
		Name:           p.Name,
		Address:        p.Address,
		AccountNumbers: p.AccountNumbers,
		CreatedAt:      p.CreatedAt,
	}
}

func accountToPersist(a *dom.Account) persistAccount {
	return persistAccount{
		AccountNumber:   a.Number,
		AccountHolderID: a.CustomerID,
		Type:            string(a.Type),
		Balance:         a.Balance,
		PasswordHash:    a.PasswordHash,
		FailedAttempts:  a.FailedAttempts,
		IsLocked:        a.Locked,
		InterestRate:    a.InterestRate,
		OverdraftLimit:  a.OverdraftLimit,
		CreatedAt:       a.CreatedAt,
	}
}

// toDomain converts a stored row; ok is false when the type is unknown and
// the row should be skipped.
func (p persistAccount) toDomain() (*dom.Account, bool) {
	t := dom.AccountType(p.Type)
	if !t.Valid() {
		return nil, false
	}
	return &dom.Account{
		Number:         p.AccountNumber,
		CustomerID:     p.AccountHolderID,
		Type:           t,
		Balance:        p.Balance,
		PasswordHash:   p.PasswordHash,
		FailedAttempts: p.FailedAttempts,
		Locked:         p.IsLocked,
		InterestRate:   p.InterestRate,
		OverdraftLimit: p.OverdraftLimit,
		CreatedAt:      p.CreatedAt,
	}, true
}
