package dto

import "time"

// PriorityRequest payload.
type PriorityRequest struct {
	Name              string `json:"name"`
	Level             int    `json:"level"`
	Description       string `json:"description"`
	ResponseTimeHours int    `json:"response_time_hours"`
}

// PriorityResponse representation.
type PriorityResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Level             int       `json:"level"`
	Description       string    `json:"description,omitempty"`
	ResponseTimeHours int       `json:"response_time_hours"`
	CreatedAt         time.Time `json:"created_at"`
}

// DepartmentRequest payload.
type DepartmentRequest struct {
	Name          string  `json:"name"`
	ResponsibleID *string `json:"responsible_id"`
}

// DepartmentResponse representation.
type DepartmentResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ResponsibleID *string   `json:"responsible_id"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// MaterialTypeRequest payload.
type MaterialTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Stock       int    `json:"stock"`
}

// MaterialTypeResponse representation.
type MaterialTypeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProviderRequest payload.
type ProviderRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// ProviderResponse representation.
type ProviderResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
