package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	dom "github.com/hello-jai/banking-management-system/internal/domain"
	"github.com/hello-jai/banking-management-system/internal/repo"
)

func newTestBank(t *testing.T) *BankService {
	t.Helper()
	s, err := NewBankService(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewBankService: %v", err)
	}
	return s
}

// openSavings creates a customer and a savings account with the given opening
// balance and password "sesame".
func openSavings(t *testing.T, s *BankService, opening int64) dom.Account {
	t.Helper()
	ctx := context.Background()
	if _, err := s.CreateCustomer(ctx, "c-"+t.Name(), "Asha", "12 Bank St"); err != nil && !errors.Is(err, ErrCustomerExists) {
		t.Fatalf("CreateCustomer: %v", err)
	}
	a, err := s.CreateAccount(ctx, "c-"+t.Name(), dom.AccountTypeSavings, "sesame", decimal.NewFromInt(opening), nil, nil)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	return a
}

func balance(t *testing.T, s *BankService, number string) decimal.Decimal {
	t.Helper()
	a, err := s.GetAccount(context.Background(), number)
	if err != nil {
		t.Fatalf("GetAccount(%s): %v", number, err)
	}
	return a.Balance
}

func TestCreateAccountValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)

	if _, err := s.CreateAccount(ctx, "nobody", dom.AccountTypeSavings, "sesame", decimal.Zero, nil, nil); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("want ErrCustomerNotFound, got %v", err)
	}

	if _, err := s.CreateCustomer(ctx, "cust1", "Asha", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateAccount(ctx, "cust1", dom.AccountType("money-market"), "sesame", decimal.Zero, nil, nil); !errors.Is(err, ErrInvalidAccountType) {
		t.Fatalf("want ErrInvalidAccountType, got %v", err)
	}
	if _, err := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "pw", decimal.Zero, nil, nil); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("want ErrPasswordTooShort, got %v", err)
	}
	if _, err := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "sesame", decimal.NewFromInt(-5), nil, nil); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount for negative opening, got %v", err)
	}
	bad := decimal.NewFromFloat(-0.01)
	if _, err := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "sesame", decimal.Zero, &bad, nil); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount for negative rate, got %v", err)
	}
	if _, err := s.CreateAccount(ctx, "cust1", dom.AccountTypeChecking, "sesame", decimal.Zero, nil, &bad); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount for negative overdraft, got %v", err)
	}

	a, err := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "sesame", decimal.NewFromInt(50), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Number) != accountNumberLen {
		t.Fatalf("number %q, want %d chars", a.Number, accountNumberLen)
	}
	if !a.Balance.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("opening balance=%s want=50", a.Balance)
	}
	if !a.InterestRate.Equal(defaultInterestRate) {
		t.Fatalf("rate=%s want default %s", a.InterestRate, defaultInterestRate)
	}
	if a.PasswordHash == "sesame" || a.PasswordHash == "" {
		t.Fatalf("plaintext or empty password hash: %q", a.PasswordHash)
	}

	cust, err := s.GetCustomer(ctx, "cust1")
	if err != nil {
		t.Fatal(err)
	}
	if len(cust.AccountNumbers) != 1 || cust.AccountNumbers[0] != a.Number {
		t.Fatalf("customer account list %v, want [%s]", cust.AccountNumbers, a.Number)
	}
}

func TestDepositWithdraw(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)
	a := openSavings(t, s, 0)

	if _, err := s.Deposit(ctx, a.Number, "sesame", decimal.NewFromInt(100)); err != nil {
		t.Fatal(err)
	}
	if got := balance(t, s, a.Number); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance=%s want=100", got)
	}

	// Withdrawing more than the balance fails and changes nothing.
	if _, err := s.Withdraw(ctx, a.Number, "sesame", decimal.NewFromInt(150)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	if got := balance(t, s, a.Number); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance after failed withdraw=%s want=100", got)
	}

	for _, amt := range []int64{0, -10} {
		if _, err := s.Deposit(ctx, a.Number, "sesame", decimal.NewFromInt(amt)); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("deposit %d: want ErrInvalidAmount, got %v", amt, err)
		}
		if _, err := s.Withdraw(ctx, a.Number, "sesame", decimal.NewFromInt(amt)); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("withdraw %d: want ErrInvalidAmount, got %v", amt, err)
		}
	}

	if _, err := s.Withdraw(ctx, a.Number, "sesame", decimal.NewFromInt(40)); err != nil {
		t.Fatal(err)
	}
	if got := balance(t, s, a.Number); !got.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("balance=%s want=60", got)
	}

	if _, err := s.Deposit(ctx, "00000000", "sesame", decimal.NewFromInt(1)); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
}

// A malformed amount is rejected before the password is checked, so it never
// costs a failed attempt.
func TestInvalidAmountDoesNotCountAttempt(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)
	a := openSavings(t, s, 10)

	if _, err := s.Deposit(ctx, a.Number, "wrong", decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
	got, _ := s.GetAccount(ctx, a.Number)
	if got.FailedAttempts != 0 {
		t.Fatalf("failed_attempts=%d want=0", got.FailedAttempts)
	}
}

func TestLockoutAfterThreeFailures(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)
	a := openSavings(t, s, 100)

	for i := 1; i <= LockThreshold; i++ {
		err := s.Authenticate(ctx, a.Number, "wrong")
		if !errors.Is(err, ErrAuthenticationFailed) {
			t.Fatalf("attempt %d: want ErrAuthenticationFailed, got %v", i, err)
		}
		got, _ := s.GetAccount(ctx, a.Number)
		if got.FailedAttempts != i {
			t.Fatalf("attempt %d: failed_attempts=%d", i, got.FailedAttempts)
		}
		if wantLocked := i >= LockThreshold; got.Locked != wantLocked {
			t.Fatalf("attempt %d: locked=%v want=%v", i, got.Locked, wantLocked)
		}
	}

	// The correct password no longer helps.
	if err := s.Authenticate(ctx, a.Number, "sesame"); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("want ErrAccountLocked, got %v", err)
	}
	// And the counter does not move while locked.
	got, _ := s.GetAccount(ctx, a.Number)
	if got.FailedAttempts != LockThreshold {
		t.Fatalf("failed_attempts=%d want=%d", got.FailedAttempts, LockThreshold)
	}

	// No balance mutation gets through a lock.
	if _, err := s.Deposit(ctx, a.Number, "sesame", decimal.NewFromInt(1)); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("deposit on locked: want ErrAccountLocked, got %v", err)
	}
	if _, err := s.Withdraw(ctx, a.Number, "sesame", decimal.NewFromInt(1)); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("withdraw on locked: want ErrAccountLocked, got %v", err)
	}
	if got := balance(t, s, a.Number); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance=%s want=100", got)
	}
}

func TestAuthenticateResetsCounter(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)
	a := openSavings(t, s, 0)

	_ = s.Authenticate(ctx, a.Number, "wrong")
	_ = s.Authenticate(ctx, a.Number, "wrong")
	if err := s.Authenticate(ctx, a.Number, "sesame"); err != nil {
		t.Fatalf("correct password: %v", err)
	}
	got, _ := s.GetAccount(ctx, a.Number)
	if got.FailedAttempts != 0 || got.Locked {
		t.Fatalf("after success: attempts=%d locked=%v", got.FailedAttempts, got.Locked)
	}
	if err := s.Authenticate(ctx, "00000000", "sesame"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
}

func TestUnlock(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)
	a := openSavings(t, s, 25)

	for i := 0; i < LockThreshold; i++ {
		_ = s.Authenticate(ctx, a.Number, "wrong")
	}
	unlocked, err := s.Unlock(ctx, a.Number)
	if err != nil {
		t.Fatal(err)
	}
	if unlocked.Locked || unlocked.FailedAttempts != 0 {
		t.Fatalf("after unlock: locked=%v attempts=%d", unlocked.Locked, unlocked.FailedAttempts)
	}
	if err := s.Authenticate(ctx, a.Number, "sesame"); err != nil {
		t.Fatalf("authenticate after unlock: %v", err)
	}
	if _, err := s.Unlock(ctx, "00000000"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
}

func TestCheckingOverdraft(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)
	if _, err := s.CreateCustomer(ctx, "cust1", "Asha", ""); err != nil {
		t.Fatal(err)
	}
	limit := decimal.NewFromInt(50)
	a, err := s.CreateAccount(ctx, "cust1", dom.AccountTypeChecking, "sesame", decimal.NewFromInt(100), nil, &limit)
	if err != nil {
		t.Fatal(err)
	}

	// Down to the floor exactly is fine.
	if _, err := s.Withdraw(ctx, a.Number, "sesame", decimal.NewFromInt(150)); err != nil {
		t.Fatalf("withdraw to floor: %v", err)
	}
	if got := balance(t, s, a.Number); !got.Equal(decimal.NewFromInt(-50)) {
		t.Fatalf("balance=%s want=-50", got)
	}
	// One more paisa crosses it.
	if _, err := s.Withdraw(ctx, a.Number, "sesame", decimal.NewFromFloat(0.01)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}

	// A checking account without a limit behaves like savings.
	plain, err := s.CreateAccount(ctx, "cust1", dom.AccountTypeChecking, "sesame", decimal.NewFromInt(10), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Withdraw(ctx, plain.Number, "sesame", decimal.NewFromInt(11)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)
	if _, err := s.CreateCustomer(ctx, "cust1", "Asha", ""); err != nil {
		t.Fatal(err)
	}
	src, err := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "sesame", decimal.NewFromInt(1000), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	dst, err := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "open.sesame", decimal.NewFromInt(500), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	gotFrom, gotTo, err := s.Transfer(ctx, src.Number, "sesame", dst.Number, decimal.NewFromInt(300))
	if err != nil {
		t.Fatal(err)
	}
	if !gotFrom.Balance.Equal(decimal.NewFromInt(700)) || !gotTo.Balance.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("balances %s/%s want 700/800", gotFrom.Balance, gotTo.Balance)
	}

	checkUnchanged := func(reason string) {
		t.Helper()
		if a, b := balance(t, s, src.Number), balance(t, s, dst.Number); !a.Equal(decimal.NewFromInt(700)) || !b.Equal(decimal.NewFromInt(800)) {
			t.Fatalf("%s: balances moved to %s/%s", reason, a, b)
		}
	}

	if _, _, err := s.Transfer(ctx, src.Number, "sesame", src.Number, decimal.NewFromInt(1)); !errors.Is(err, ErrSameAccount) {
		t.Fatalf("want ErrSameAccount, got %v", err)
	}
	if _, _, err := s.Transfer(ctx, src.Number, "sesame", dst.Number, decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
	if _, _, err := s.Transfer(ctx, src.Number, "sesame", dst.Number, decimal.NewFromInt(9999)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	checkUnchanged("failed transfers")

	if _, _, err := s.Transfer(ctx, src.Number, "wrong", dst.Number, decimal.NewFromInt(1)); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("want ErrAuthenticationFailed, got %v", err)
	}
	a, _ := s.GetAccount(ctx, src.Number)
	if a.FailedAttempts != 1 {
		t.Fatalf("wrong transfer password should count an attempt, got %d", a.FailedAttempts)
	}
	checkUnchanged("wrong password")

	if _, _, err := s.Transfer(ctx, "00000000", "sesame", dst.Number, decimal.NewFromInt(1)); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
	if _, _, err := s.Transfer(ctx, src.Number, "sesame", "00000000", decimal.NewFromInt(1)); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
}

// A locked destination rejects incoming money as well.
func TestTransferToLockedDestination(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)
	if _, err := s.CreateCustomer(ctx, "cust1", "Asha", ""); err != nil {
		t.Fatal(err)
	}
	src, _ := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "sesame", decimal.NewFromInt(100), nil, nil)
	dst, _ := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "open.sesame", decimal.NewFromInt(0), nil, nil)

	for i := 0; i < LockThreshold; i++ {
		_ = s.Authenticate(ctx, dst.Number, "wrong")
	}
	if _, _, err := s.Transfer(ctx, src.Number, "sesame", dst.Number, decimal.NewFromInt(10)); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("want ErrAccountLocked, got %v", err)
	}
	if got := balance(t, s, src.Number); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("source balance moved: %s", got)
	}
}

func TestApplyInterest(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)
	if _, err := s.CreateCustomer(ctx, "cust1", "Asha", ""); err != nil {
		t.Fatal(err)
	}
	rate := decimal.NewFromFloat(0.015)
	sav, _ := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "sesame", decimal.NewFromInt(1000), &rate, nil)
	chk, _ := s.CreateAccount(ctx, "cust1", dom.AccountTypeChecking, "sesame", decimal.NewFromInt(1000), nil, nil)
	locked, _ := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "sesame", decimal.NewFromInt(200), &rate, nil)
	for i := 0; i < LockThreshold; i++ {
		_ = s.Authenticate(ctx, locked.Number, "wrong")
	}

	if credited := s.ApplyInterest(ctx); credited != 2 {
		t.Fatalf("credited=%d want=2", credited)
	}
	if got := balance(t, s, sav.Number); !got.Equal(decimal.NewFromInt(1015)) {
		t.Fatalf("savings=%s want=1015", got)
	}
	if got := balance(t, s, chk.Number); !got.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("checking moved: %s", got)
	}
	// Interest is an operator batch, so the locked account is credited too.
	if got := balance(t, s, locked.Number); !got.Equal(decimal.NewFromInt(203)) {
		t.Fatalf("locked savings=%s want=203", got)
	}
}

// Interest on odd balances is rounded to 2 decimal places before crediting.
func TestApplyInterestRounding(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)
	if _, err := s.CreateCustomer(ctx, "cust1", "Asha", ""); err != nil {
		t.Fatal(err)
	}
	rate := decimal.NewFromFloat(0.0333)
	a, _ := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "sesame", decimal.NewFromFloat(100.10), &rate, nil)

	s.ApplyInterest(ctx)

	// 100.10 * 0.0333 = 3.33333 -> 3.33
	want := decimal.NewFromFloat(103.43)
	if got := balance(t, s, a.Number); !got.Equal(want) {
		t.Fatalf("balance=%s want=%s", got, want)
	}
}

// State survives a restart through the JSON store, the failed-attempt counter
// included.
func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := repo.NewJSONLedgerRepo(dir+"/customers.json", dir+"/accounts.json")

	s, err := NewBankService(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateCustomer(ctx, "cust1", "Asha", "12 Bank St"); err != nil {
		t.Fatal(err)
	}
	a, err := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "sesame", decimal.NewFromInt(100), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Authenticate(ctx, a.Number, "wrong")
	_ = s.Authenticate(ctx, a.Number, "wrong")

	s2, err := NewBankService(ctx, store)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, err := s2.GetAccount(ctx, a.Number)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("reloaded balance=%s want=100", got.Balance)
	}
	if got.FailedAttempts != 2 {
		t.Fatalf("reloaded failed_attempts=%d want=2", got.FailedAttempts)
	}
	// The third wrong password after the restart still locks.
	if err := s2.Authenticate(ctx, a.Number, "wrong"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("want ErrAuthenticationFailed, got %v", err)
	}
	if err := s2.Authenticate(ctx, a.Number, "sesame"); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("want ErrAccountLocked, got %v", err)
	}
	cust, err := s2.GetCustomer(ctx, "cust1")
	if err != nil {
		t.Fatal(err)
	}
	if len(cust.AccountNumbers) != 1 || cust.AccountNumbers[0] != a.Number {
		t.Fatalf("reloaded account list %v", cust.AccountNumbers)
	}
}

// Money is conserved under concurrent transfers in both directions.
func TestConcurrentTransfersConserveTotal(t *testing.T) {
	ctx := context.Background()
	s := newTestBank(t)
	if _, err := s.CreateCustomer(ctx, "cust1", "Asha", ""); err != nil {
		t.Fatal(err)
	}
	a, _ := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "sesame", decimal.NewFromInt(1000), nil, nil)
	b, _ := s.CreateAccount(ctx, "cust1", dom.AccountTypeSavings, "sesame", decimal.NewFromInt(1000), nil, nil)

	const n = 100
	var wg sync.WaitGroup
	wg.Add(2 * n)
	one := decimal.NewFromInt(1)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, _, err := s.Transfer(ctx, a.Number, "sesame", b.Number, one); err != nil {
				t.Errorf("a->b: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, _, err := s.Transfer(ctx, b.Number, "sesame", a.Number, one); err != nil {
				t.Errorf("b->a: %v", err)
			}
		}()
	}
	wg.Wait()

	total := balance(t, s, a.Number).Add(balance(t, s, b.Number))
	if !total.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("total=%s want=2000", total)
	}
}
