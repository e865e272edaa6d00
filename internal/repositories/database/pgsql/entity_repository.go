package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
)

type PgxEntityRepository struct {
	BaseRepository
}

func newPgxEntityRepository(pool *pgxpool.Pool) portsrepo.EntityReader {
	return &PgxEntityRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntityReader = (*PgxEntityRepository)(nil)

// EntityBelongsToTenant reports whether the entity exists, is active
// and is owned by the tenant.
func (r *PgxEntityRepository) EntityBelongsToTenant(ctx context.Context, entityID, tenantID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM entities
			WHERE entity_id = $1 AND tenant_id = $2 AND deleted_at IS NULL
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, entityID, tenantID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to resolve entity "+entityID, err)
	}
	return exists, nil
}
