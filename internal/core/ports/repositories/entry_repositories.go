package repositories

import (
	"context"
	"time"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
)

// EntryReader defines read operations for ledger entry data.
type EntryReader interface {
	// FindEntryByID retrieves a specific non-deleted entry scoped to its entity.
	FindEntryByID(ctx context.Context, entityID, entryID string) (*domain.LedgerEntry, error)

	// FindLinesByEntryID retrieves the non-deleted lines of an entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.LedgerLine, error)

	// LatestEntryNumber returns the most recently created non-null entry
	// number for the entity, or nil when the entity has no entries yet.
	LatestEntryNumber(ctx context.Context, entityID string) (*string, error)

	// ListEntriesByEntity retrieves a paginated list of entries using
	// token-based pagination, optionally filtered by status.
	ListEntriesByEntity(ctx context.Context, entityID string, limit int, nextToken *string, status *domain.EntryStatus) ([]domain.LedgerEntry, *string, error)
}

// EntryWriter defines write operations for ledger entry data.
type EntryWriter interface {
	// SaveEntry persists an entry and its lines atomically.
	// Returns apperrors.ErrDuplicate when the entry number collides for
	// the entity, so callers can re-allocate and retry.
	SaveEntry(ctx context.Context, entry domain.LedgerEntry, lines []domain.LedgerLine) error

	// MarkEntryPosted transitions an entry from DRAFT to POSTED with a
	// status-guarded conditional update. Returns false when no row
	// matched (already posted, voided or deleted).
	MarkEntryPosted(ctx context.Context, entryID, userID string, at time.Time) (bool, error)

	// SoftDeleteEntry soft-deletes a draft entry and its lines.
	SoftDeleteEntry(ctx context.Context, entryID, userID string, at time.Time) error

	// VoidEntryWithReversal persists the reversal entry with its lines
	// and flips the original to VOIDED with its linked id, in a single
	// serializable transaction that re-checks for an existing reversal.
	// Returns an ALREADY_VOIDED error when a concurrent void won.
	VoidEntryWithReversal(ctx context.Context, originalEntryID string, reversal domain.LedgerEntry, lines []domain.LedgerLine, userID string, at time.Time) error
}

// EntryRepositoryFacade combines all ledger-entry repository interfaces.
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}
