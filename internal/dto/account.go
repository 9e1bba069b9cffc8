package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Type       string `json:"type" binding:"required,oneof=savings checking"`
	Password   string `json:"password" binding:"required,min=4"`

	// InitialBalance is optional and defaults to 0.
	InitialBalance decimal.Decimal `json:"initial_balance" swaggertype:"number"`
	// InterestRate applies to savings accounts; nil selects the default.
	InterestRate *decimal.Decimal `json:"interest_rate" swaggertype:"number"`
	// OverdraftLimit applies to checking accounts; nil means none.
	OverdraftLimit *decimal.Decimal `json:"overdraft_limit" swaggertype:"number"`
}

type AuthenticateRequest struct {
	Password string `json:"password" binding:"required"`
}

// MoneyRequest covers deposit and withdraw.
type MoneyRequest struct {
	Password string          `json:"password" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required" swaggertype:"number"`
}

type TransferRequest struct {
	FromNumber string          `json:"from_number" binding:"required"`
	ToNumber   string          `json:"to_number" binding:"required"`
	Password   string          `json:"password" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required" swaggertype:"number"`
}

type AccountResponse struct {
	Number         string           `json:"number"`
	CustomerID     string           `json:"customer_id"`
	Type           string           `json:"type"`
	Balance        decimal.Decimal  `json:"balance" swaggertype:"number"`
	FailedAttempts int              `json:"failed_attempts"`
	Locked         bool             `json:"locked"`
	InterestRate   *decimal.Decimal `json:"interest_rate,omitempty" swaggertype:"number"`
	OverdraftLimit *decimal.Decimal `json:"overdraft_limit,omitempty" swaggertype:"number"`
	CreatedAt      time.Time        `json:"created_at"`
}

type ListAccountsResponse struct {
	Items []AccountResponse `json:"items"`
}

type TransferResponse struct {
	From AccountResponse `json:"from"`
	To   AccountResponse `json:"to"`
}

type AuthenticateResponse struct {
	Authenticated bool `json:"authenticated"`
}

type ApplyInterestResponse struct {
	Credited int `json:"credited"`
}
