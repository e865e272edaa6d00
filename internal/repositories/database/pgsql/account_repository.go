package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
)

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountReader {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountReader = (*PgxAccountRepository)(nil)

// FindActiveOwnedAccounts returns the subset of the requested accounts
// that are active and owned by the entity/tenant. Missing ids are
// simply absent from the result; the service treats absence as a
// cross-entity reference.
func (r *PgxAccountRepository) FindActiveOwnedAccounts(ctx context.Context, accountIDs []string, entityID, tenantID string) (map[string]domain.LedgerAccount, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.LedgerAccount{}, nil
	}

	query := `
		SELECT account_id, entity_id, tenant_id, name, is_active
		FROM ledger_accounts
		WHERE account_id = ANY($1) AND entity_id = $2 AND tenant_id = $3
		  AND is_active = TRUE AND deleted_at IS NULL;
	`
	rows, err := r.Pool.Query(ctx, query, accountIDs, entityID, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts for entity "+entityID, err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.LedgerAccount, len(accountIDs))
	for rows.Next() {
		var a domain.LedgerAccount
		if err := rows.Scan(&a.AccountID, &a.EntityID, &a.TenantID, &a.Name, &a.IsActive); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts[a.AccountID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}
