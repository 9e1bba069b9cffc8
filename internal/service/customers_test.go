package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	dom "github.com/hello-jai/banking-management-system/internal/domain"
)

func TestCreateCustomer(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)

	c, err := s.CreateCustomer(ctx, " cust1 ", " Asha ", "12 Bank St")
	if err != nil {
		t.Fatal(err)
	}
	if c.ID != "cust1" || c.Name != "Asha" {
		t.Fatalf("fields not trimmed: %+v", c)
	}
	if _, err := s.CreateCustomer(ctx, "cust1", "Someone Else", ""); !errors.Is(err, ErrCustomerExists) {
		t.Fatalf("want ErrCustomerExists, got %v", err)
	}
	if _, err := s.CreateCustomer(ctx, "", "Asha", ""); !errors.Is(err, ErrInvalidCustomer) {
		t.Fatalf("want ErrInvalidCustomer, got %v", err)
	}
	if _, err := s.CreateCustomer(ctx, "cust2", "   ", ""); !errors.Is(err, ErrInvalidCustomer) {
		t.Fatalf("want ErrInvalidCustomer for blank name, got %v", err)
	}
}

func TestListCustomersSorted(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)
	for _, id := range []string{"zoe", "abe", "mia"} {
		if _, err := s.CreateCustomer(ctx, id, "Name", ""); err != nil {
			t.Fatal(err)
		}
	}
	list := s.ListCustomers(ctx)
	if len(list) != 3 || list[0].ID != "abe" || list[1].ID != "mia" || list[2].ID != "zoe" {
		t.Fatalf("unexpected order: %+v", list)
	}
}

func TestCustomerAccountsOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)
	if _, err := s.CreateCustomer(ctx, "cust1", "Asha", ""); err != nil {
		t.Fatal(err)
	}
	first, _ := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "sesame", decimal.Zero, nil, nil)
	second, _ := s.CreateAccount(ctx, "cust1", dom.AccountTypeChecking, "sesame", decimal.Zero, nil, nil)

	got, err := s.CustomerAccounts(ctx, "cust1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Number != first.Number || got[1].Number != second.Number {
		t.Fatalf("want creation order [%s %s], got %+v", first.Number, second.Number, got)
	}
	if _, err := s.CustomerAccounts(ctx, "nobody"); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("want ErrCustomerNotFound, got %v", err)
	}
}

func TestRemoveCustomer(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)

	if _, err := s.RemoveCustomer(ctx, "nobody", false); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("want ErrCustomerNotFound, got %v", err)
	}

	if _, err := s.CreateCustomer(ctx, "cust1", "Asha", ""); err != nil {
		t.Fatal(err)
	}
	a, _ := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "sesame", decimal.NewFromInt(10), nil, nil)

	if _, err := s.RemoveCustomer(ctx, "cust1", false); !errors.Is(err, ErrCustomerHasAccounts) {
		t.Fatalf("want ErrCustomerHasAccounts, got %v", err)
	}

	closed, err := s.RemoveCustomer(ctx, "cust1", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(closed) != 1 || closed[0].Number != a.Number {
		t.Fatalf("closed=%+v want [%s]", closed, a.Number)
	}
	if _, err := s.GetCustomer(ctx, "cust1"); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("customer survived removal: %v", err)
	}
	if _, err := s.GetAccount(ctx, a.Number); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("account survived cascade: %v", err)
	}
}

// Without accounts, no force flag is needed.
func TestRemoveCustomerNoAccounts(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)
	if _, err := s.CreateCustomer(ctx, "cust1", "Asha", ""); err != nil {
		t.Fatal(err)
	}
	closed, err := s.RemoveCustomer(ctx, "cust1", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(closed) != 0 {
		t.Fatalf("closed=%+v want empty", closed)
	}
}

// Returned copies must not alias service state.
func TestQueriesReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)
	if _, err := s.CreateCustomer(ctx, "cust1", "Asha", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "sesame", decimal.Zero, nil, nil); err != nil {
		t.Fatal(err)
	}

	c, _ := s.GetCustomer(ctx, "cust1")
	c.AccountNumbers[0] = "tampered"
	again, _ := s.GetCustomer(ctx, "cust1")
	if again.AccountNumbers[0] == "tampered" {
		t.Fatal("GetCustomer leaked internal slice")
	}
}
