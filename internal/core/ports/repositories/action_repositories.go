package repositories

import (
	"context"
	"time"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
)

// ListActionsFilter narrows an action listing.
type ListActionsFilter struct {
	Status *domain.ActionStatus
	Type   *domain.ActionType
}

// ActionReader defines read operations for action data.
type ActionReader interface {
	// FindActionByID retrieves a specific action scoped by tenant and entity.
	FindActionByID(ctx context.Context, tenantID, entityID, actionID string) (*domain.Action, error)

	// ListActions retrieves a paginated, filtered list of actions using
	// token-based pagination.
	ListActions(ctx context.Context, tenantID, entityID string, filter ListActionsFilter, limit int, nextToken *string) ([]domain.Action, *string, error)

	// CountActionStats aggregates counts by status and pending-by-type.
	CountActionStats(ctx context.Context, tenantID, entityID string) (*domain.ActionStats, error)
}

// ActionWriter defines write operations for action data.
type ActionWriter interface {
	// SaveAction inserts a new pending action.
	SaveAction(ctx context.Context, action domain.Action) error

	// MarkReviewed transitions a PENDING action to the given terminal
	// status with a single conditional update; the WHERE clause requires
	// tenant+entity+id+status=PENDING and, when requireNotExpired is
	// set, that the expiry has not passed. The affected-row count (0 or
	// 1) is the complete success signal.
	MarkReviewed(ctx context.Context, tenantID, entityID, actionID string, status domain.ActionStatus, userID string, at time.Time, requireNotExpired bool) (bool, error)

	// MarkExpired flips a single PENDING action past its expiry to
	// EXPIRED. Returns false when the action was not PENDING anymore.
	MarkExpired(ctx context.Context, tenantID, entityID, actionID string, at time.Time) (bool, error)

	// ExpireStale flips every PENDING action with expires_at <= now to
	// EXPIRED for the tenant/entity, returning how many rows changed.
	// Idempotent; safe to run on a schedule or before a list query.
	ExpireStale(ctx context.Context, tenantID, entityID string, now time.Time) (int64, error)
}

// ActionRepositoryFacade combines all action repository interfaces.
type ActionRepositoryFacade interface {
	ActionReader
	ActionWriter
}
