package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
)

// EntityReader resolves entity ownership.
type EntityReader interface {
	// EntityBelongsToTenant reports whether the entity exists and is
	// owned by the tenant.
	EntityBelongsToTenant(ctx context.Context, entityID, tenantID string) (bool, error)
}

// AccountReader is the ledger-account directory.
type AccountReader interface {
	// FindActiveOwnedAccounts returns the subset of the requested
	// accounts that are active and owned by the given entity and
	// tenant. Missing ids are simply absent from the result.
	FindActiveOwnedAccounts(ctx context.Context, accountIDs []string, entityID, tenantID string) (map[string]domain.LedgerAccount, error)
}

// CategoryReader checks category ownership for categorization actions.
type CategoryReader interface {
	// CategoryExists reports whether the category exists for the tenant.
	CategoryExists(ctx context.Context, tenantID, categoryID string) (bool, error)
}

// FiscalPeriodReader looks up period locks.
type FiscalPeriodReader interface {
	// LockedPeriodCovering returns the LOCKED or CLOSED period covering
	// the date for the entity, or nil when postings are allowed.
	LockedPeriodCovering(ctx context.Context, entityID string, date time.Time) (*domain.FiscalPeriod, error)
}

// FeedTransactionReader reads imported bank-feed transactions.
type FeedTransactionReader interface {
	FindFeedTransactionByID(ctx context.Context, tenantID, entityID, transactionID string) (*domain.FeedTransaction, error)
}

// FeedTransactionWriter mutates the narrow slice of feed transactions
// the executor registry touches.
type FeedTransactionWriter interface {
	// SetFeedTransactionCategory assigns a category to a transaction.
	SetFeedTransactionCategory(ctx context.Context, transactionID, categoryID, userID string, at time.Time) error

	// UnlinkFeedTransactionsFromEntry clears the ledger-entry link on
	// any transaction pointing at the entry.
	UnlinkFeedTransactionsFromEntry(ctx context.Context, entryID string, at time.Time) error
}

// FeedTransactionRepositoryFacade combines feed-transaction interfaces.
type FeedTransactionRepositoryFacade interface {
	FeedTransactionReader
	FeedTransactionWriter
}

// RuleWriter reviews automation-rule suggestions.
type RuleWriter interface {
	// MarkRuleReviewed transitions a suggested rule to the given status
	// with a conditional update. False means the rule was already
	// reviewed (or does not exist).
	MarkRuleReviewed(ctx context.Context, tenantID, ruleID, status, userID string, at time.Time) (bool, error)
}

// InsightWriter dismisses insight/notification records.
type InsightWriter interface {
	DismissInsight(ctx context.Context, tenantID, insightID string, at time.Time) error
}

// AuditWriter appends audit records. Append-only; no read side.
type AuditWriter interface {
	SaveAuditRecord(ctx context.Context, tenantID, entityID, model, recordID, action string, before, after json.RawMessage, userID string, at time.Time) error
}
