package services

import (
	"context"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	"github.com/ledgerline/ledgerline_backend/internal/dto"
)

// LedgerEntrySvcFacade is the posting state machine: creation,
// approval, voiding (via reversing entries) and deletion of ledger
// entries, with balance and period-lock invariants.
type LedgerEntrySvcFacade interface {
	// CreateEntry validates and persists a new DRAFT entry with its lines.
	CreateEntry(ctx context.Context, tenantID, entityID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.LedgerEntry, error)

	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, tenantID, entityID, entryID string) (*domain.LedgerEntry, error)

	// ListEntries retrieves a paginated list of entries for an entity.
	ListEntries(ctx context.Context, tenantID, entityID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// ApproveEntry transitions a DRAFT entry to POSTED, enforcing the
	// fiscal-period lock and separation of duties.
	ApproveEntry(ctx context.Context, tenantID, entityID, entryID, approverID string, approverRole domain.UserRole) (*domain.LedgerEntry, error)

	// VoidEntry voids a POSTED entry by creating a sign-swapped reversal
	// and linking the original to it.
	VoidEntry(ctx context.Context, tenantID, entityID, entryID, userID string) (*dto.VoidEntryResponse, error)

	// DeleteEntry soft-deletes a DRAFT entry. Posted entries must be voided.
	DeleteEntry(ctx context.Context, tenantID, entityID, entryID, userID string) error
}
