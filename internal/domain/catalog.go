package domain

import "time"

// MaterialType describes an office material that can be requested.
type MaterialType struct {
	ID          string
	Name        string
	Description string
	Stock       int
	CreatedAt   time.Time
}

// Provider is an external service supplier.
type Provider struct {
	ID        string
	Name      string
	Contact   string
	Phone     string
	Email     string
	CreatedAt time.Time
}
