// bankctl is the interactive banking console. It works directly on the
// ledger files; no server or Redis needed.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/term"

	dom "github.com/hello-jai/banking-management-system/internal/domain"
	"github.com/hello-jai/banking-management-system/internal/repo"
	"github.com/hello-jai/banking-management-system/internal/service"
	"github.com/hello-jai/banking-management-system/internal/utils"
)

func main() {
	customerFile := flag.String("customers", "customers.json", "path to the customer ledger")
	accountFile := flag.String("accounts", "accounts.json", "path to the account ledger")
	flag.Parse()

	store := repo.NewJSONLedgerRepo(*customerFile, *accountFile)
	bank, err := service.NewBankService(context.Background(), store)
	if err != nil {
		log.Fatalf("open ledger: %v", err)
	}

	c := &console{bank: bank, in: bufio.NewScanner(os.Stdin)}
	c.run(context.Background())
}

type console struct {
	bank *service.BankService
	in   *bufio.Scanner
}

func (c *console) run(ctx context.Context) {
	for {
		fmt.Println()
		fmt.Println("Banking System Menu:")
		fmt.Println("1. Add Customer")
		fmt.Println("2. Remove Customer")
		fmt.Println("3. Create Account")
		fmt.Println("4. Deposit")
		fmt.Println("5. Withdraw")
		fmt.Println("6. Transfer")
		fmt.Println("7. View Customer Accounts")
		fmt.Println("8. Apply Interest to All Savings Accounts")
		fmt.Println("9. Display All Customers")
		fmt.Println("10. Display All Accounts")
		fmt.Println("11. Unlock Account")
		fmt.Println("12. Exit")

		switch c.prompt("Enter your choice (1-12): ") {
		case "1":
			c.addCustomer(ctx)
		case "2":
			c.removeCustomer(ctx)
		case "3":
			c.createAccount(ctx)
		case "4":
			c.deposit(ctx)
		case "5":
			c.withdraw(ctx)
		case "6":
			c.transfer(ctx)
		case "7":
			c.viewCustomerAccounts(ctx)
		case "8":
			c.applyInterest(ctx)
		case "9":
			c.displayCustomers(ctx)
		case "10":
			c.displayAccounts(ctx)
		case "11":
			c.unlockAccount(ctx)
		case "12":
			fmt.Println("Exiting the banking system. Goodbye!")
			return
		default:
			fmt.Println("Invalid choice. Please enter a number between 1 and 12.")
		}
	}
}

func (c *console) addCustomer(ctx context.Context) {
	id := c.prompt("Enter customer ID: ")
	name := c.prompt("Enter customer name: ")
	address := c.prompt("Enter customer address: ")

	_, err := c.bank.CreateCustomer(ctx, id, name, address)
	switch {
	case errors.Is(err, service.ErrCustomerExists):
		fmt.Println("Error: Customer ID already exists.")
	case err != nil:
		fmt.Printf("Error: %v\n", err)
	default:
		fmt.Println("Customer added successfully.")
	}
}

func (c *console) removeCustomer(ctx context.Context) {
	id := c.prompt("Enter customer ID to remove: ")

	cust, err := c.bank.GetCustomer(ctx, id)
	if err != nil {
		fmt.Printf("Error: Customer ID '%s' not found.\n", id)
		return
	}
	accounts, _ := c.bank.CustomerAccounts(ctx, id)
	if len(accounts) == 0 {
		if _, err := c.bank.RemoveCustomer(ctx, id, false); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Customer '%s' has been removed successfully.\n", cust.Name)
		return
	}

	fmt.Printf("Customer '%s' has %d account(s):\n", cust.Name, len(accounts))
	for _, a := range accounts {
		fmt.Println("  " + describeAccount(a))
	}
	fmt.Println("Options:")
	fmt.Println("1. Cancel removal")
	fmt.Println("2. Remove customer and close all accounts")
	if c.prompt("Enter your choice (1-2): ") != "2" {
		fmt.Println("Removal cancelled.")
		return
	}

	for _, a := range accounts {
		if !a.Balance.IsZero() {
			fmt.Println("Warning: one or more accounts still hold a balance; closing them forfeits it.")
			if c.prompt("Type CONFIRM to proceed: ") != "CONFIRM" {
				fmt.Println("Removal cancelled.")
				return
			}
			break
		}
	}

	closed, err := c.bank.RemoveCustomer(ctx, id, true)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Closed %d account(s).\n", len(closed))
	fmt.Printf("Customer '%s' has been removed successfully.\n", cust.Name)
}

func (c *console) createAccount(ctx context.Context) {
	customerID := c.prompt("Enter customer ID: ")
	if _, err := c.bank.GetCustomer(ctx, customerID); err != nil {
		fmt.Printf("Error: Customer ID '%s' not found.\n", customerID)
		return
	}
	acctType := dom.AccountType(strings.ToLower(c.prompt("Enter account type (savings/checking): ")))
	if !acctType.Valid() {
		fmt.Println("Error: Account type must be 'savings' or 'checking'.")
		return
	}
	opening, ok := c.promptAmount("Enter initial balance: ")
	if !ok {
		return
	}

	password := c.promptPassword("Set account password (min 4 characters): ")
	if password != c.promptPassword("Confirm password: ") {
		fmt.Println("Error: Passwords do not match.")
		return
	}

	var ratePtr, limitPtr *decimal.Decimal
	switch acctType {
	case dom.AccountTypeSavings:
		if raw := c.prompt("Enter interest rate (default 0.01): "); raw != "" {
			rate, err := decimal.NewFromString(raw)
			if err != nil {
				fmt.Println("Invalid amount.")
				return
			}
			ratePtr = &rate
		}
	case dom.AccountTypeChecking:
		if raw := c.prompt("Enter overdraft limit (default 0): "); raw != "" {
			limit, err := decimal.NewFromString(raw)
			if err != nil {
				fmt.Println("Invalid amount.")
				return
			}
			limitPtr = &limit
		}
	}

	a, err := c.bank.CreateAccount(ctx, customerID, acctType, password, opening, ratePtr, limitPtr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Account created successfully. Account Number: %s\n", a.Number)
}

func (c *console) deposit(ctx context.Context) {
	number := c.prompt("Enter account number: ")
	amount, ok := c.promptAmount("Enter amount to deposit: ")
	if !ok {
		return
	}
	password := c.promptPassword("Enter account password: ")

	if _, err := c.bank.Deposit(ctx, number, password, amount); err != nil {
		c.reportAccountError(ctx, number, err)
		return
	}
	fmt.Println("Deposit successful.")
}

func (c *console) withdraw(ctx context.Context) {
	number := c.prompt("Enter account number: ")
	amount, ok := c.promptAmount("Enter amount to withdraw: ")
	if !ok {
		return
	}
	password := c.promptPassword("Enter account password: ")

	if _, err := c.bank.Withdraw(ctx, number, password, amount); err != nil {
		c.reportAccountError(ctx, number, err)
		return
	}
	fmt.Println("Withdrawal successful.")
}

func (c *console) transfer(ctx context.Context) {
	from := c.prompt("Enter source account number: ")
	to := c.prompt("Enter destination account number: ")
	amount, ok := c.promptAmount("Enter amount to transfer: ")
	if !ok {
		return
	}
	password := c.promptPassword("Enter source account password: ")

	if _, _, err := c.bank.Transfer(ctx, from, password, to, amount); err != nil {
		c.reportAccountError(ctx, from, err)
		return
	}
	fmt.Println("Transfer successful.")
}

func (c *console) viewCustomerAccounts(ctx context.Context) {
	id := c.prompt("Enter customer ID: ")
	accounts, err := c.bank.CustomerAccounts(ctx, id)
	if err != nil {
		fmt.Printf("Error: Customer ID '%s' not found.\n", id)
		return
	}
	if len(accounts) == 0 {
		fmt.Println("No accounts found for this customer.")
		return
	}
	for _, a := range accounts {
		fmt.Println(describeAccount(a))
	}
}

func (c *console) applyInterest(ctx context.Context) {
	credited := c.bank.ApplyInterest(ctx)
	fmt.Printf("Interest applied to %d savings account(s).\n", credited)
}

func (c *console) displayCustomers(ctx context.Context) {
	customers := c.bank.ListCustomers(ctx)
	if len(customers) == 0 {
		fmt.Println("No customers on record.")
		return
	}
	for _, cust := range customers {
		fmt.Printf("Customer ID: %s, Name: %s, Address: %s, Accounts: %d\n",
			cust.ID, cust.Name, cust.Address, len(cust.AccountNumbers))
	}
}

func (c *console) displayAccounts(ctx context.Context) {
	accounts := c.bank.ListAccounts(ctx)
	if len(accounts) == 0 {
		fmt.Println("No accounts on record.")
		return
	}
	for _, a := range accounts {
		fmt.Println(describeAccount(a))
	}
}

func (c *console) unlockAccount(ctx context.Context) {
	number := c.prompt("Enter account number to unlock: ")
	a, err := c.bank.Unlock(ctx, number)
	if err != nil {
		fmt.Println("Error: Account not found.")
		return
	}
	fmt.Printf("Account %s unlocked.\n", a.Number)
}

// reportAccountError prints money-operation failures the way tellers expect
// to read them, including how many attempts remain before a lockout.
func (c *console) reportAccountError(ctx context.Context, number string, err error) {
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		fmt.Println("Error: Account not found.")
	case errors.Is(err, service.ErrAccountLocked):
		fmt.Println("Account locked due to multiple failed attempts.")
	case errors.Is(err, service.ErrAuthenticationFailed):
		if a, getErr := c.bank.GetAccount(ctx, number); getErr == nil {
			if a.Locked {
				fmt.Println("Account locked due to multiple failed attempts.")
				return
			}
			fmt.Printf("Incorrect password. %d attempt(s) remaining.\n", service.LockThreshold-a.FailedAttempts)
			return
		}
		fmt.Println("Incorrect password.")
	case errors.Is(err, service.ErrInsufficientFunds):
		fmt.Println("Error: Insufficient funds.")
	case errors.Is(err, service.ErrInvalidAmount):
		fmt.Println("Invalid amount.")
	case errors.Is(err, service.ErrSameAccount):
		fmt.Println("Error: Cannot transfer to the same account.")
	default:
		fmt.Printf("Error: %v\n", err)
	}
}

func (c *console) prompt(label string) string {
	fmt.Print(label)
	if !c.in.Scan() {
		fmt.Println()
		os.Exit(0)
	}
	return strings.TrimSpace(c.in.Text())
}

// promptPassword reads without echo when stdin is a terminal, and falls back
// to a plain line read when input is piped.
func (c *console) promptPassword(label string) string {
	fmt.Print(label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err == nil {
			return string(b)
		}
	}
	if !c.in.Scan() {
		fmt.Println()
		os.Exit(0)
	}
	return c.in.Text()
}

func (c *console) promptAmount(label string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(c.prompt(label))
	if err != nil {
		fmt.Println("Invalid amount.")
		return decimal.Decimal{}, false
	}
	return d, true
}

func describeAccount(a dom.Account) string {
	s := fmt.Sprintf("Acc No: %s, Balance: %s, Type: %s", a.Number, utils.FormatINR(a.Balance), a.Type)
	switch a.Type {
	case dom.AccountTypeSavings:
		s += ", Interest Rate: " + utils.FormatPercent(a.InterestRate)
	case dom.AccountTypeChecking:
		s += ", Overdraft Limit: " + utils.FormatINR(a.OverdraftLimit)
	}
	if a.Locked {
		s += " [LOCKED]"
	}
	return s
}
