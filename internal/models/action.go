package models

import (
	"encoding/json"
	"time"
)

// ActionStatus indicates the review state of a persisted action row.
type ActionStatus string

const (
	Pending  ActionStatus = "PENDING"
	Approved ActionStatus = "APPROVED"
	Rejected ActionStatus = "REJECTED"
	Modified ActionStatus = "MODIFIED"
	Expired  ActionStatus = "EXPIRED"
)

// Action is the persisted form of a suggested change awaiting review.
// Payload is stored as an opaque JSONB column.
type Action struct {
	ActionID    string          `json:"actionID"`
	TenantID    string          `json:"tenantID"`
	EntityID    string          `json:"entityID"`
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      ActionStatus    `json:"status"`
	Confidence  int             `json:"confidence"`
	Priority    string          `json:"priority"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	SourceType  *string         `json:"sourceType,omitempty"`
	SourceID    *string         `json:"sourceID,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewedAt,omitempty"`
	ReviewedBy  *string         `json:"reviewedBy,omitempty"`
	ExpiresAt   *time.Time      `json:"expiresAt,omitempty"`
	AuditFields
}
