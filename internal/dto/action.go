package dto

import (
	"encoding/json"
	"time"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
)

// CreateActionRequest inserts a new pending suggestion for review.
type CreateActionRequest struct {
	Type        domain.ActionType     `json:"type" binding:"required"`
	Title       string                `json:"title" binding:"required"`
	Description string                `json:"description"`
	Confidence  int                   `json:"confidence" binding:"min=0,max=100"`
	Priority    domain.ActionPriority `json:"priority"`
	Payload     json.RawMessage       `json:"payload,omitempty"`
	SourceType  *string               `json:"sourceType,omitempty"`
	SourceID    *string               `json:"sourceID,omitempty"`
	ExpiresAt   *time.Time            `json:"expiresAt,omitempty"`
}

// ActionResponse defines the data returned for an action.
type ActionResponse struct {
	ActionID    string                `json:"actionID"`
	EntityID    string                `json:"entityID"`
	Type        domain.ActionType     `json:"type"`
	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	Status      domain.ActionStatus   `json:"status"`
	Confidence  int                   `json:"confidence"`
	Priority    domain.ActionPriority `json:"priority"`
	Payload     json.RawMessage       `json:"payload,omitempty"`
	ReviewedAt  *time.Time            `json:"reviewedAt,omitempty"`
	ReviewedBy  *string               `json:"reviewedBy,omitempty"`
	ExpiresAt   *time.Time            `json:"expiresAt,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// ListActionsParams holds parameters for listing actions.
type ListActionsParams struct {
	Status    *domain.ActionStatus
	Type      *domain.ActionType
	Limit     int
	NextToken *string
}

// ListActionsResponse is a page of actions plus the next-page token.
type ListActionsResponse struct {
	Actions   []ActionResponse `json:"actions"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ApproveActionResponse carries the reviewed action together with the
// raw execution result; execution failure does not undo the approval.
type ApproveActionResponse struct {
	Action    ActionResponse          `json:"action"`
	Execution *domain.ExecutionResult `json:"execution,omitempty"`
}

// BatchActionRequest names the actions a batch operation should review.
type BatchActionRequest struct {
	ActionIDs []string `json:"actionIDs" binding:"required,min=1"`
}

// BatchFailure reports why a single batch item was skipped.
type BatchFailure struct {
	ActionID string `json:"actionID"`
	Reason   string `json:"reason"`
}

// BatchActionResponse is the per-item breakdown of a batch operation.
// Partial success is a normal outcome, never an error state.
type BatchActionResponse struct {
	Succeeded []string       `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

// ActionStatsResponse summarizes actions by status and pending type.
type ActionStatsResponse struct {
	Total         int64            `json:"total"`
	ByStatus      map[string]int64 `json:"byStatus"`
	PendingByType map[string]int64 `json:"pendingByType"`
}

// ToActionResponse converts a domain.Action to an ActionResponse DTO.
func ToActionResponse(a *domain.Action) ActionResponse {
	return ActionResponse{
		ActionID:    a.ActionID,
		EntityID:    a.EntityID,
		Type:        a.Type,
		Title:       a.Title,
		Description: a.Description,
		Status:      a.Status,
		Confidence:  a.Confidence,
		Priority:    a.Priority,
		Payload:     a.Payload,
		ReviewedAt:  a.ReviewedAt,
		ReviewedBy:  a.ReviewedBy,
		ExpiresAt:   a.ExpiresAt,
		CreatedAt:   a.CreatedAt,
	}
}

// ToActionResponses converts a slice of domain.Action to DTOs.
func ToActionResponses(actions []domain.Action) []ActionResponse {
	responses := make([]ActionResponse, len(actions))
	for i := range actions {
		responses[i] = ToActionResponse(&actions[i])
	}
	return responses
}

// ToActionStatsResponse converts domain.ActionStats to its DTO.
func ToActionStatsResponse(s *domain.ActionStats) ActionStatsResponse {
	resp := ActionStatsResponse{
		Total:         s.Total,
		ByStatus:      make(map[string]int64, len(s.ByStatus)),
		PendingByType: make(map[string]int64, len(s.PendingByType)),
	}
	for status, n := range s.ByStatus {
		resp.ByStatus[string(status)] = n
	}
	for actionType, n := range s.PendingByType {
		resp.PendingByType[string(actionType)] = n
	}
	return resp
}
