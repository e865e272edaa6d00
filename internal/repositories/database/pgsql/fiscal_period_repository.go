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

type PgxFiscalPeriodRepository struct {
	BaseRepository
}

func newPgxFiscalPeriodRepository(pool *pgxpool.Pool) portsrepo.FiscalPeriodReader {
	return &PgxFiscalPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalPeriodReader = (*PgxFiscalPeriodRepository)(nil)

// LockedPeriodCovering returns the LOCKED or CLOSED period covering the
// date for the entity, or nil when postings are allowed.
func (r *PgxFiscalPeriodRepository) LockedPeriodCovering(ctx context.Context, entityID string, date time.Time) (*domain.FiscalPeriod, error) {
	query := `
		SELECT period_id, entity_id, name, start_date, end_date, status
		FROM fiscal_periods
		WHERE entity_id = $1 AND status IN ('LOCKED', 'CLOSED')
		  AND start_date <= $2 AND end_date >= $2
		LIMIT 1;
	`
	var p domain.FiscalPeriod
	err := r.Pool.QueryRow(ctx, query, entityID, date).Scan(
		&p.PeriodID,
		&p.EntityID,
		&p.Name,
		&p.StartDate,
		&p.EndDate,
		&p.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to check fiscal periods for entity "+entityID, err)
	}
	return &p, nil
}
