package dto

import "time"

type CreateCustomerRequest struct {
	ID      string `json:"id" binding:"required,min=1,max=64"`
	Name    string `json:"name" binding:"required,min=1,max=120"`
	Address string `json:"address" binding:"max=200"`
}

type CustomerResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	AccountNumbers []string  `json:"account_numbers"`
	CreatedAt      time.Time `json:"created_at"`
}

type ListCustomersResponse struct {
	Items []CustomerResponse `json:"items"`
}

// DeleteCustomerResponse reports what a forced delete closed along the way.
type DeleteCustomerResponse struct {
	Removed        string   `json:"removed"`
	ClosedAccounts []string `json:"closed_accounts"`
}
