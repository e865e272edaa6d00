package services

import (
	"context"
	"time"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
)

// The ledger core treats everything below as a narrow collaborator:
// the posting state machine and executor registry depend on these
// interfaces only, never on the implementations behind them.

// EntityResolverSvc resolves entity ownership for tenant scoping.
type EntityResolverSvc interface {
	EntityBelongsToTenant(ctx context.Context, entityID, tenantID string) (bool, error)
}

// AccountDirectorySvc answers which of the referenced accounts are
// active and owned by the entity/tenant. This check is the primary
// defense against cross-entity references.
type AccountDirectorySvc interface {
	FindActiveOwnedAccounts(ctx context.Context, accountIDs []string, entityID, tenantID string) (map[string]domain.LedgerAccount, error)
}

// FiscalPeriodSvc reports the locked period covering a date, if any.
type FiscalPeriodSvc interface {
	LockedPeriodCovering(ctx context.Context, entityID string, date time.Time) (*domain.FiscalPeriod, error)
}

// AuditSvc appends audit records. Fire-and-forget: implementations must
// never fail the primary operation; failures are logged and swallowed.
type AuditSvc interface {
	Record(ctx context.Context, tenantID, entityID, model, recordID, action string, before, after any)
}

// RuleReviewSvc is the rule-suggestion approval flow the executor
// registry delegates to. Approve materializes an active automation
// rule; both report apperrors.ErrConflict when the rule was already
// reviewed, which callers treat as idempotent success.
type RuleReviewSvc interface {
	Approve(ctx context.Context, tenantID, ruleID, userID string) error
	Reject(ctx context.Context, tenantID, ruleID, userID, reason string) error
}

// InsightSvc dismisses notification/insight records.
type InsightSvc interface {
	Dismiss(ctx context.Context, tenantID, insightID string) error
}

// FeedTransactionSvc is the slice of the imported-transaction store the
// executor registry needs: category assignment and entry unlinking.
type FeedTransactionSvc interface {
	FindByID(ctx context.Context, tenantID, entityID, transactionID string) (*domain.FeedTransaction, error)
	SetCategory(ctx context.Context, transactionID, categoryID, userID string) error
	UnlinkEntry(ctx context.Context, entryID string) error
}

// CategoryDirectorySvc checks category ownership for categorization.
type CategoryDirectorySvc interface {
	CategoryExists(ctx context.Context, tenantID, categoryID string) (bool, error)
}
