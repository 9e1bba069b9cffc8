package domain

import "time"

// Customer is the domain entity for a bank customer. AccountNumbers lists
// the customer's accounts in creation order.
type Customer struct {
	ID             string
	Name           string
	Address        string
	AccountNumbers []string
	CreatedAt      time.Time
}
