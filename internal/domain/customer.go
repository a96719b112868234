package domain

import "time"

// Customer holds the profile attached to a CUSTOMER user.
type Customer struct {
	ID         string
	UserID     string
	FullName   string
	Address    string
	PostalCode string
	CreatedAt  time.Time
}
