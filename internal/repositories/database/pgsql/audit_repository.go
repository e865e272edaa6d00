package pgsql

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
)

type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditWriter {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditWriter = (*PgxAuditRepository)(nil)

// SaveAuditRecord appends one audit row. The table is append-only;
// there is no update or delete path.
func (r *PgxAuditRepository) SaveAuditRecord(ctx context.Context, tenantID, entityID, model, recordID, action string, before, after json.RawMessage, userID string, at time.Time) error {
	query := `
		INSERT INTO audit_logs (
			audit_id, tenant_id, entity_id, model, record_id, action,
			before_state, after_state, performed_by, performed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		uuid.NewString(),
		tenantID,
		entityID,
		model,
		recordID,
		action,
		before,
		after,
		userID,
		at,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit record for "+model+" "+recordID, err)
	}
	return nil
}
