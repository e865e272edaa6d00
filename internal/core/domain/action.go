package domain

import (
	"encoding/json"
	"time"
)

// ActionStatus indicates the review state of a suggested action.
// PENDING is the only non-terminal state; there is no transition out of
// a terminal state. MODIFIED is reserved for future partial-edit flows
// and is never produced by this core.
type ActionStatus string

const (
	Pending  ActionStatus = "PENDING"
	Approved ActionStatus = "APPROVED"
	Rejected ActionStatus = "REJECTED"
	Modified ActionStatus = "MODIFIED"
	Expired  ActionStatus = "EXPIRED"
)

// IsTerminal reports whether no further transition is allowed.
func (s ActionStatus) IsTerminal() bool {
	return s != Pending
}

// ActionType identifies which executor handles an action's payload.
// This is a closed set; the pipeline itself never inspects payloads.
type ActionType string

const (
	ActionLedgerDraft    ActionType = "LEDGER_DRAFT"
	ActionCategorization ActionType = "CATEGORIZATION"
	ActionRuleSuggestion ActionType = "RULE_SUGGESTION"
	ActionAlert          ActionType = "ALERT"
)

// ActionPriority orders actions for review.
type ActionPriority string

const (
	PriorityLow    ActionPriority = "LOW"
	PriorityNormal ActionPriority = "NORMAL"
	PriorityHigh   ActionPriority = "HIGH"
)

// DefaultActionTTL is how long a new action stays approvable when the
// caller does not supply an expiry.
const DefaultActionTTL = 30 * 24 * time.Hour

// Action is a proposed, machine-suggested change awaiting human review.
// The payload is opaque to the pipeline and meaningful only to the
// executor registered for its type.
type Action struct {
	ActionID    string          `json:"actionID"`
	TenantID    string          `json:"tenantID"`
	EntityID    string          `json:"entityID"`
	Type        ActionType      `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      ActionStatus    `json:"status"`
	Confidence  int             `json:"confidence"` // 0-100
	Priority    ActionPriority  `json:"priority"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	SourceType  *string         `json:"sourceType,omitempty"`
	SourceID    *string         `json:"sourceID,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewedAt,omitempty"`
	ReviewedBy  *string         `json:"reviewedBy,omitempty"`
	ExpiresAt   *time.Time      `json:"expiresAt,omitempty"`
	AuditFields
}

// IsExpired reports whether the action's expiry has passed.
func (a *Action) IsExpired(now time.Time) bool {
	return a.ExpiresAt != nil && !a.ExpiresAt.After(now)
}

// ExecutionResult is the uniform outcome shape every executor handler
// returns. Handlers never propagate errors or panic; every failure,
// expected or not, is captured here so batch callers can continue.
type ExecutionResult struct {
	Success  bool       `json:"success"`
	ActionID string     `json:"actionID"`
	Type     ActionType `json:"type"`
	Detail   string     `json:"detail,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// ActionStats summarizes a tenant/entity's actions by status, with a
// pending-by-type breakdown for review queues.
type ActionStats struct {
	Total         int64                  `json:"total"`
	ByStatus      map[ActionStatus]int64 `json:"byStatus"`
	PendingByType map[ActionType]int64   `json:"pendingByType"`
}

// Payload shapes for the known action types. Each executor unmarshals
// its own; unknown fields are ignored.

// LedgerDraftPayload references the draft entry an action would post.
type LedgerDraftPayload struct {
	EntryID string `json:"entryId"`
}

// CategorizationPayload assigns a category to an imported transaction.
type CategorizationPayload struct {
	TransactionID string `json:"transactionId"`
	CategoryID    string `json:"categoryId"`
}

// RuleSuggestionPayload references a proposed automation rule.
type RuleSuggestionPayload struct {
	RuleID string `json:"ruleId"`
}

// AlertPayload optionally links an insight record to dismiss on reject.
type AlertPayload struct {
	InsightID string `json:"insightId,omitempty"`
}
