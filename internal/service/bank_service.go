package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hello-jai/banking-management-system/internal/auth"
	dom "github.com/hello-jai/banking-management-system/internal/domain"
	"github.com/hello-jai/banking-management-system/internal/repo"
)

var (
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrCustomerExists       = errors.New("customer id already exists")
	ErrCustomerHasAccounts  = errors.New("customer still has open accounts")
	ErrInvalidCustomer      = errors.New("customer id and name are required")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountLocked        = errors.New("account is locked")
	ErrAuthenticationFailed = errors.New("incorrect password")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidAccountType   = errors.New("account type must be savings or checking")
	ErrSameAccount          = errors.New("cannot transfer to the same account")
	ErrPasswordTooShort     = errors.New("password must be at least 4 characters")
)

// LockThreshold is how many wrong passwords lock an account.
const LockThreshold = 3

const (
	minPasswordLen   = 4
	accountNumberLen = 8
)

// defaultInterestRate applies to savings accounts created without one (1%).
var defaultInterestRate = decimal.New(1, -2)

// BankService owns the customer and account books and is their only writer.
// One mutex covers every operation, so each operation is atomic; the ledger
// is flushed to the store after each mutation, failed password attempts
// included.
type BankService struct {
	mu        sync.Mutex
	store     repo.LedgerRepo
	customers map[string]*dom.Customer
	accounts  map[string]*dom.Account
}

// NewBankService loads the ledger from store. If store is nil, persistence
// is disabled and the service starts empty.
func NewBankService(ctx context.Context, store repo.LedgerRepo) (*BankService, error) {
	s := &BankService{
		store:     store,
		customers: make(map[string]*dom.Customer),
		accounts:  make(map[string]*dom.Account),
	}
	if store == nil {
		return s, nil
	}
	customers, accounts, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.customers = customers
	s.accounts = accounts
	return s, nil
}

// CreateAccount opens an account for an existing customer. The account
// number is an 8-character uuid prefix, re-drawn on collision. A nil
// interestRate or overdraftLimit selects the default for the account type;
// the rate only applies to savings accounts and the limit only to checking.
func (s *BankService) CreateAccount(ctx context.Context, customerID string, acctType dom.AccountType, password string, opening decimal.Decimal, interestRate, overdraftLimit *decimal.Decimal) (dom.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[customerID]
	if !ok {
		return dom.Account{}, ErrCustomerNotFound
	}
	if !acctType.Valid() {
		return dom.Account{}, ErrInvalidAccountType
	}
	if len(password) < minPasswordLen {
		return dom.Account{}, ErrPasswordTooShort
	}
	if opening.IsNegative() {
		return dom.Account{}, ErrInvalidAmount
	}

	rate := decimal.Zero
	limit := decimal.Zero
	switch acctType {
	case dom.AccountTypeSavings:
		rate = defaultInterestRate
		if interestRate != nil {
			if interestRate.IsNegative() {
				return dom.Account{}, ErrInvalidAmount
			}
			rate = *interestRate
		}
	case dom.AccountTypeChecking:
		if overdraftLimit != nil {
			if overdraftLimit.IsNegative() {
				return dom.Account{}, ErrInvalidAmount
			}
			limit = *overdraftLimit
		}
	}

	a := &dom.Account{
		Number:         s.newAccountNumberLocked(),
		CustomerID:     customerID,
		Type:           acctType,
		Balance:        opening,
		PasswordHash:   auth.HashPassword(password),
		InterestRate:   rate,
		OverdraftLimit: limit,
		CreatedAt:      time.Now().UTC(),
	}
	s.accounts[a.Number] = a
	c.AccountNumbers = append(c.AccountNumbers, a.Number)
	s.persistLocked(ctx)
	return copyAccount(a), nil
}

// Authenticate verifies the account password. A wrong password counts
// toward the lockout threshold; a correct one resets the counter. Both
// outcomes mutate state and are flushed.
func (s *BankService) Authenticate(ctx context.Context, number, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[number]
	if !ok {
		return ErrAccountNotFound
	}
	return s.verifyLocked(ctx, a, password)
}

// Deposit adds amount to the account balance. Password-gated.
func (s *BankService) Deposit(ctx context.Context, number, password string, amount decimal.Decimal) (dom.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[number]
	if !ok {
		return dom.Account{}, ErrAccountNotFound
	}
	if !amount.IsPositive() {
		return dom.Account{}, ErrInvalidAmount
	}
	if err := s.verifyLocked(ctx, a, password); err != nil {
		return dom.Account{}, err
	}

	a.Balance = a.Balance.Add(amount)
	s.persistLocked(ctx)
	return copyAccount(a), nil
}

// Withdraw subtracts amount from the account balance. The balance may not
// drop below the account floor (zero for savings, the negated overdraft
// limit for checking).
func (s *BankService) Withdraw(ctx context.Context, number, password string, amount decimal.Decimal) (dom.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[number]
	if !ok {
		return dom.Account{}, ErrAccountNotFound
	}
	if !amount.IsPositive() {
		return dom.Account{}, ErrInvalidAmount
	}
	if err := s.verifyLocked(ctx, a, password); err != nil {
		return dom.Account{}, err
	}
	if a.Balance.Sub(amount).LessThan(a.Floor()) {
		return dom.Account{}, ErrInsufficientFunds
	}

	a.Balance = a.Balance.Sub(amount)
	s.persistLocked(ctx)
	return copyAccount(a), nil
}

// Transfer moves amount from one account to another as a single step: both
// balances change or neither does. The source password gates the transfer;
// a locked destination rejects it.
func (s *BankService) Transfer(ctx context.Context, fromNumber, password, toNumber string, amount decimal.Decimal) (dom.Account, dom.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.accounts[fromNumber]
	if !ok {
		return dom.Account{}, dom.Account{}, ErrAccountNotFound
	}
	to, ok := s.accounts[toNumber]
	if !ok {
		return dom.Account{}, dom.Account{}, ErrAccountNotFound
	}
	if fromNumber == toNumber {
		return dom.Account{}, dom.Account{}, ErrSameAccount
	}
	if !amount.IsPositive() {
		return dom.Account{}, dom.Account{}, ErrInvalidAmount
	}
	if err := s.verifyLocked(ctx, from, password); err != nil {
		return dom.Account{}, dom.Account{}, err
	}
	if to.Locked {
		return dom.Account{}, dom.Account{}, ErrAccountLocked
	}
	if from.Balance.Sub(amount).LessThan(from.Floor()) {
		return dom.Account{}, dom.Account{}, ErrInsufficientFunds
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)
	s.persistLocked(ctx)
	return copyAccount(from), copyAccount(to), nil
}

// GetAccount returns a copy of the account.
func (s *BankService) GetAccount(ctx context.Context, number string) (dom.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[number]
	if !ok {
		return dom.Account{}, ErrAccountNotFound
	}
	return copyAccount(a), nil
}

// ListAccounts returns copies of all accounts ordered by number.
func (s *BankService) ListAccounts(ctx context.Context) []dom.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]dom.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, copyAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Unlock clears the lock and the failed-attempt counter. It is the only way
// back in after three wrong passwords.
func (s *BankService) Unlock(ctx context.Context, number string) (dom.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[number]
	if !ok {
		return dom.Account{}, ErrAccountNotFound
	}
	a.Locked = false
	a.FailedAttempts = 0
	s.persistLocked(ctx)
	return copyAccount(a), nil
}

// ApplyInterest credits every savings account with balance * rate, rounded
// to 2 decimal places, and returns how many accounts were credited. It is an
// operator batch, so locked accounts are credited too.
func (s *BankService) ApplyInterest(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	credited := 0
	for _, a := range s.accounts {
		if a.Type != dom.AccountTypeSavings {
			continue
		}
		interest := a.Balance.Mul(a.InterestRate).Round(2)
		a.Balance = a.Balance.Add(interest)
		credited++
	}
	if credited > 0 {
		s.persistLocked(ctx)
	}
	return credited
}

// Flush writes the ledger out and reports the result. Meant for shutdown;
// regular operations flush on their own.
func (s *BankService) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	return s.store.Save(ctx, s.customers, s.accounts)
}

// verifyLocked checks the password on an already-looked-up account. Callers
// must hold s.mu. Locked accounts fail without touching the counter; a wrong
// password bumps it and locks the account at the threshold.
func (s *BankService) verifyLocked(ctx context.Context, a *dom.Account, password string) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if !auth.CheckPassword(a.PasswordHash, password) {
		a.FailedAttempts++
		if a.FailedAttempts >= LockThreshold {
			a.Locked = true
		}
		s.persistLocked(ctx)
		return ErrAuthenticationFailed
	}
	if a.FailedAttempts != 0 {
		a.FailedAttempts = 0
		s.persistLocked(ctx)
	}
	return nil
}

// persistLocked flushes the full ledger after a mutation. Callers must hold
// s.mu. On a write error the in-memory state stays authoritative and the
// next flush rewrites the snapshot.
func (s *BankService) persistLocked(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, s.customers, s.accounts); err != nil {
		log.Printf("ledger: persist failed: %v", err)
	}
}

func (s *BankService) newAccountNumberLocked() string {
	for {
		n := uuid.NewString()[:accountNumberLen]
		if _, exists := s.accounts[n]; !exists {
			return n
		}
	}
}

func copyAccount(a *dom.Account) dom.Account {
	return *a
}
