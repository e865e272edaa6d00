package services

import (
	"context"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	"github.com/ledgerline/ledgerline_backend/internal/dto"
)

// ActionSvcFacade is the approval pipeline over suggested actions:
// a uniform PENDING -> APPROVED/REJECTED/EXPIRED lifecycle with
// idempotent, partial-failure-tolerant batch operations.
type ActionSvcFacade interface {
	// CreateAction inserts a PENDING action with defaulted expiry/priority.
	CreateAction(ctx context.Context, tenantID, entityID string, req dto.CreateActionRequest, creatorUserID string) (*domain.Action, error)

	// GetActionByID retrieves a single action.
	GetActionByID(ctx context.Context, tenantID, entityID, actionID string) (*domain.Action, error)

	// ListActions retrieves a filtered, paginated list, expiring stale
	// actions opportunistically first.
	ListActions(ctx context.Context, tenantID, entityID string, params dto.ListActionsParams) (*dto.ListActionsResponse, error)

	// ApproveAction marks a PENDING action APPROVED and synchronously
	// invokes its executor. The execution result is returned alongside
	// the action; an execution failure never rolls back the approval.
	ApproveAction(ctx context.Context, tenantID, entityID, actionID, userID string, userRole domain.UserRole) (*domain.Action, *domain.ExecutionResult, error)

	// RejectAction marks a PENDING action REJECTED and dispatches the
	// type's compensating handler best-effort.
	RejectAction(ctx context.Context, tenantID, entityID, actionID, userID string) (*domain.Action, error)

	// BatchApprove reviews each id independently; per-item failures do
	// not affect the others.
	BatchApprove(ctx context.Context, tenantID, entityID string, actionIDs []string, userID string, userRole domain.UserRole) (*dto.BatchActionResponse, error)

	// BatchReject mirrors BatchApprove for rejection.
	BatchReject(ctx context.Context, tenantID, entityID string, actionIDs []string, userID string) (*dto.BatchActionResponse, error)

	// ExpireStaleActions flips overdue PENDING actions to EXPIRED.
	ExpireStaleActions(ctx context.Context, tenantID, entityID string) (int64, error)

	// GetStats reports counts by status plus a pending-by-type breakdown.
	GetStats(ctx context.Context, tenantID, entityID string) (*domain.ActionStats, error)
}
