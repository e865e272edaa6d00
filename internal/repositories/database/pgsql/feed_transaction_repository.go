package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
)

type PgxFeedTransactionRepository struct {
	BaseRepository
}

func newPgxFeedTransactionRepository(pool *pgxpool.Pool) portsrepo.FeedTransactionRepositoryFacade {
	return &PgxFeedTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FeedTransactionRepositoryFacade = (*PgxFeedTransactionRepository)(nil)

func (r *PgxFeedTransactionRepository) FindFeedTransactionByID(ctx context.Context, tenantID, entityID, transactionID string) (*domain.FeedTransaction, error) {
	query := `
		SELECT transaction_id, entity_id, tenant_id, description, category_id, ledger_entry_id
		FROM feed_transactions
		WHERE transaction_id = $1 AND tenant_id = $2 AND entity_id = $3 AND deleted_at IS NULL;
	`
	var t domain.FeedTransaction
	err := r.Pool.QueryRow(ctx, query, transactionID, tenantID, entityID).Scan(
		&t.TransactionID,
		&t.EntityID,
		&t.TenantID,
		&t.Description,
		&t.CategoryID,
		&t.LedgerEntryID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewEntityNotFound("transaction", transactionID)
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction "+transactionID, err)
	}
	return &t, nil
}

// SetFeedTransactionCategory assigns a category to a transaction.
func (r *PgxFeedTransactionRepository) SetFeedTransactionCategory(ctx context.Context, transactionID, categoryID, userID string, at time.Time) error {
	query := `
		UPDATE feed_transactions
		SET category_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, categoryID, at, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to categorize transaction "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewEntityNotFound("transaction", transactionID)
	}
	return nil
}

// UnlinkFeedTransactionsFromEntry clears the ledger-entry link on any
// transaction pointing at the entry. Affecting zero rows is fine.
func (r *PgxFeedTransactionRepository) UnlinkFeedTransactionsFromEntry(ctx context.Context, entryID string, at time.Time) error {
	query := `
		UPDATE feed_transactions
		SET ledger_entry_id = NULL, last_updated_at = $2
		WHERE ledger_entry_id = $1;
	`
	if _, err := r.Pool.Exec(ctx, query, entryID, at); err != nil {
		return apperrors.NewAppError(500, "failed to unlink transactions from entry "+entryID, err)
	}
	return nil
}
