package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
	"github.com/ledgerline/ledgerline_backend/internal/models"
	"github.com/ledgerline/ledgerline_backend/internal/utils/mapping"
	"github.com/ledgerline/ledgerline_backend/internal/utils/pagination"
)

type PgxActionRepository struct {
	BaseRepository
}

// newPgxActionRepository creates a new repository for action data.
func newPgxActionRepository(pool *pgxpool.Pool) portsrepo.ActionRepositoryFacade {
	return &PgxActionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ActionRepositoryFacade = (*PgxActionRepository)(nil)

const actionColumns = `action_id, tenant_id, entity_id, action_type, title, description,
	       status, confidence, priority, payload, source_type, source_id,
	       reviewed_at, reviewed_by, expires_at,
	       created_at, created_by, last_updated_at, last_updated_by`

func scanAction(row pgx.Row) (*models.Action, error) {
	var m models.Action
	err := row.Scan(
		&m.ActionID,
		&m.TenantID,
		&m.EntityID,
		&m.Type,
		&m.Title,
		&m.Description,
		&m.Status,
		&m.Confidence,
		&m.Priority,
		&m.Payload,
		&m.SourceType,
		&m.SourceID,
		&m.ReviewedAt,
		&m.ReviewedBy,
		&m.ExpiresAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveAction inserts a new pending action.
func (r *PgxActionRepository) SaveAction(ctx context.Context, action domain.Action) error {
	m := mapping.ToModelAction(action)
	query := `
		INSERT INTO actions (
			action_id, tenant_id, entity_id, action_type, title, description,
			status, confidence, priority, payload, source_type, source_id,
			expires_at, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ActionID,
		m.TenantID,
		m.EntityID,
		m.Type,
		m.Title,
		m.Description,
		m.Status,
		m.Confidence,
		m.Priority,
		m.Payload,
		m.SourceType,
		m.SourceID,
		m.ExpiresAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert action "+m.ActionID, err)
	}
	return nil
}

// FindActionByID retrieves a specific action scoped by tenant and entity.
func (r *PgxActionRepository) FindActionByID(ctx context.Context, tenantID, entityID, actionID string) (*domain.Action, error) {
	query := `
		SELECT ` + actionColumns + `
		FROM actions
		WHERE action_id = $1 AND tenant_id = $2 AND entity_id = $3;
	`
	m, err := scanAction(r.Pool.QueryRow(ctx, query, actionID, tenantID, entityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewActionNotFound(actionID)
		}
		return nil, apperrors.NewAppError(500, "failed to find action by ID "+actionID, err)
	}

	action := mapping.ToDomainAction(*m)
	return &action, nil
}

// ListActions retrieves a paginated, filtered list of actions using
// token-based pagination.
func (r *PgxActionRepository) ListActions(ctx context.Context, tenantID, entityID string, filter portsrepo.ListActionsFilter, limit int, nextToken *string) ([]domain.Action, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + actionColumns + `
		FROM actions
		WHERE tenant_id = $1 AND entity_id = $2
	`
	args := []interface{}{tenantID, entityID}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		baseQuery += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		baseQuery += ` AND action_type = $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastActionID, decodeErr := pagination.DecodeCursorToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastActionID)
		baseQuery += ` AND (created_at, action_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + `
		ORDER BY created_at DESC, action_id DESC
		LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query actions for entity "+entityID, err)
	}
	defer rows.Close()

	actions := []models.Action{}
	for rows.Next() {
		m, err := scanAction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan action row for entity "+entityID, err)
		}
		actions = append(actions, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating action rows for entity "+entityID, err)
	}

	var nextTokenVal *string
	if len(actions) > limit {
		actions = actions[:limit]
		last := actions[limit-1]
		token := pagination.EncodeCursorToken(last.CreatedAt, last.ActionID)
		nextTokenVal = &token
	}

	return mapping.ToDomainActionSlice(actions), nextTokenVal, nil
}

// MarkReviewed transitions a PENDING action to a terminal status with a
// single conditional update. The row count is the whole truth: it does
// not distinguish missing, already-reviewed and expired rows.
func (r *PgxActionRepository) MarkReviewed(ctx context.Context, tenantID, entityID, actionID string, status domain.ActionStatus, userID string, at time.Time, requireNotExpired bool) (bool, error) {
	query := `
		UPDATE actions
		SET status = $4, reviewed_at = $5, reviewed_by = $6, last_updated_at = $5, last_updated_by = $6
		WHERE action_id = $1 AND tenant_id = $2 AND entity_id = $3 AND status = 'PENDING'
	`
	if requireNotExpired {
		query += ` AND (expires_at IS NULL OR expires_at > $5)`
	}
	query += `;`

	tag, err := r.Pool.Exec(ctx, query, actionID, tenantID, entityID, string(status), at, userID)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to review action "+actionID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkExpired flips a single overdue PENDING action to EXPIRED.
func (r *PgxActionRepository) MarkExpired(ctx context.Context, tenantID, entityID, actionID string, at time.Time) (bool, error) {
	query := `
		UPDATE actions
		SET status = 'EXPIRED', last_updated_at = $4, last_updated_by = 'system'
		WHERE action_id = $1 AND tenant_id = $2 AND entity_id = $3
		  AND status = 'PENDING' AND expires_at IS NOT NULL AND expires_at <= $4;
	`
	tag, err := r.Pool.Exec(ctx, query, actionID, tenantID, entityID, at)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to expire action "+actionID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ExpireStale flips every overdue PENDING action to EXPIRED for the
// tenant/entity. Idempotent.
func (r *PgxActionRepository) ExpireStale(ctx context.Context, tenantID, entityID string, now time.Time) (int64, error) {
	query := `
		UPDATE actions
		SET status = 'EXPIRED', last_updated_at = $3, last_updated_by = 'system'
		WHERE tenant_id = $1 AND entity_id = $2
		  AND status = 'PENDING' AND expires_at IS NOT NULL AND expires_at <= $3;
	`
	tag, err := r.Pool.Exec(ctx, query, tenantID, entityID, now)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to expire stale actions for entity "+entityID, err)
	}
	return tag.RowsAffected(), nil
}

// CountActionStats aggregates counts by status and pending-by-type.
func (r *PgxActionRepository) CountActionStats(ctx context.Context, tenantID, entityID string) (*domain.ActionStats, error) {
	statusQuery := `
		SELECT status, COUNT(*)
		FROM actions
		WHERE tenant_id = $1 AND entity_id = $2
		GROUP BY status;
	`
	rows, err := r.Pool.Query(ctx, statusQuery, tenantID, entityID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to count actions for entity "+entityID, err)
	}
	defer rows.Close()

	stats := &domain.ActionStats{
		ByStatus:      make(map[domain.ActionStatus]int64),
		PendingByType: make(map[domain.ActionType]int64),
	}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan action status counts", err)
		}
		stats.ByStatus[domain.ActionStatus(status)] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating action status counts", err)
	}

	typeQuery := `
		SELECT action_type, COUNT(*)
		FROM actions
		WHERE tenant_id = $1 AND entity_id = $2 AND status = 'PENDING'
		GROUP BY action_type;
	`
	typeRows, err := r.Pool.Query(ctx, typeQuery, tenantID, entityID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to count pending actions by type", err)
	}
	defer typeRows.Close()

	for typeRows.Next() {
		var actionType string
		var count int64
		if err := typeRows.Scan(&actionType, &count); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan pending type counts", err)
		}
		stats.PendingByType[domain.ActionType(actionType)] = count
	}
	if err := typeRows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating pending type counts", err)
	}

	return stats, nil
}
