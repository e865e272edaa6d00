package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
)

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryReader {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryReader = (*PgxCategoryRepository)(nil)

// CategoryExists reports whether the category exists for the tenant.
func (r *PgxCategoryRepository) CategoryExists(ctx context.Context, tenantID, categoryID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE category_id = $1 AND tenant_id = $2 AND deleted_at IS NULL
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, categoryID, tenantID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check category "+categoryID, err)
	}
	return exists, nil
}
