package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
)

type PgxInsightRepository struct {
	BaseRepository
}

func newPgxInsightRepository(pool *pgxpool.Pool) portsrepo.InsightWriter {
	return &PgxInsightRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InsightWriter = (*PgxInsightRepository)(nil)

// DismissInsight marks an insight dismissed. Dismissing twice, or
// dismissing a missing insight, is a no-op.
func (r *PgxInsightRepository) DismissInsight(ctx context.Context, tenantID, insightID string, at time.Time) error {
	query := `
		UPDATE insights
		SET dismissed_at = $3, last_updated_at = $3
		WHERE insight_id = $1 AND tenant_id = $2 AND dismissed_at IS NULL;
	`
	if _, err := r.Pool.Exec(ctx, query, insightID, tenantID, at); err != nil {
		return apperrors.NewAppError(500, "failed to dismiss insight "+insightID, err)
	}
	return nil
}
