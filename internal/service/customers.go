package service

import (
	"context"
	"sort"
	"strings"
	"time"

	dom "github.com/hello-jai/banking-management-system/internal/domain"
)

// CreateCustomer registers a new customer under a caller-chosen id.
func (s *BankService) CreateCustomer(ctx context.Context, id, name, address string) (dom.Customer, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)

	if id == "" || name == "" {
		return dom.Customer{}, ErrInvalidCustomer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[id]; exists {
		return dom.Customer{}, ErrCustomerExists
	}
	c := &dom.Customer{
		ID:        id,
		Name:      name,
		Address:   address,
		CreatedAt: time.Now().UTC(),
	}
	s.customers[id] = c
	s.persistLocked(ctx)
	return copyCustomer(c), nil
}

// GetCustomer returns a copy of the customer.
func (s *BankService) GetCustomer(ctx context.Context, id string) (dom.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return dom.Customer{}, ErrCustomerNotFound
	}
	return copyCustomer(c), nil
}

// ListCustomers returns copies of all customers ordered by id.
func (s *BankService) ListCustomers(ctx context.Context) []dom.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]dom.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, copyCustomer(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CustomerAccounts returns copies of the customer's accounts in creation
// order.
func (s *BankService) CustomerAccounts(ctx context.Context, id string) ([]dom.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	out := make([]dom.Account, 0, len(c.AccountNumbers))
	for _, n := range c.AccountNumbers {
		if a, ok := s.accounts[n]; ok {
			out = append(out, copyAccount(a))
		}
	}
	return out, nil
}

// RemoveCustomer deletes a customer. A customer with open accounts is only
// removed when closeAccounts is set, in which case the accounts are closed
// with it; the closed accounts are returned so callers can report them.
func (s *BankService) RemoveCustomer(ctx context.Context, id string, closeAccounts bool) ([]dom.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	if len(c.AccountNumbers) > 0 && !closeAccounts {
		return nil, ErrCustomerHasAccounts
	}

	closed := make([]dom.Account, 0, len(c.AccountNumbers))
	for _, n := range c.AccountNumbers {
		if a, ok := s.accounts[n]; ok {
			closed = append(closed, copyAccount(a))
			delete(s.accounts, n)
		}
	}
	delete(s.customers, id)
	s.persistLocked(ctx)
	return closed, nil
}

func copyCustomer(c *dom.Customer) dom.Customer {
	cp := *c
	cp.AccountNumbers = append([]string{}, c.AccountNumbers...)
	return cp
}
