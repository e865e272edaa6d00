package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// UserRole defines the possible roles a user can hold within a tenant.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN" // Highest privilege; exempt from separation of duties
	RoleAccountant UserRole = "ACCOUNTANT"
	RoleReadOnly   UserRole = "READONLY"
)
