package domain

import "time"

// Department represents an organizational unit that files requests.
type Department struct {
	ID            string
	Name          string
	ResponsibleID *string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
