package domain

import "time"

// Service is a catalog entry curated by admins.
type Service struct {
	ID          string
	Name        string
	Description string
	BasePrice   float64
	ImagePath   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
