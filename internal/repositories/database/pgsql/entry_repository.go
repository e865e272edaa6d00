package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
	"github.com/ledgerline/ledgerline_backend/internal/models"
	"github.com/ledgerline/ledgerline_backend/internal/utils/mapping"
	"github.com/ledgerline/ledgerline_backend/internal/utils/pagination"
)

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for ledger entry and line data.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

const entryColumns = `entry_id, entity_id, entry_number, entry_date, memo, source_type,
	       source_id, source_document, linked_entry_id, status, deleted_at,
	       created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (*models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntityID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Memo,
		&m.SourceType,
		&m.SourceID,
		&m.SourceDocument,
		&m.LinkedEntryID,
		&m.Status,
		&m.DeletedAt,
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

// SaveEntry persists an entry and its lines atomically. A collision on
// the per-entity entry number surfaces as a duplicate error so the
// service can re-allocate and retry.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry, lines []domain.LedgerLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntryInTx(ctx, tx, entry); err != nil {
		return err
	}
	if err := insertLinesInTx(ctx, tx, lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func insertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (
			entry_id, entity_id, entry_number, entry_date, memo, source_type,
			source_id, source_document, linked_entry_id, status,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.EntityID,
		m.EntryNumber,
		m.EntryDate,
		m.Memo,
		m.SourceType,
		m.SourceID,
		m.SourceDocument,
		m.LinkedEntryID,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewDuplicate("entry number " + m.EntryNumber + " already exists for entity " + m.EntityID)
		}
		return apperrors.NewAppError(500, "failed to insert entry "+m.EntryID, err)
	}
	return nil
}

func insertLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.LedgerLine) error {
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO ledger_lines (
			line_id, entry_id, account_id, debit_amount, credit_amount, memo,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, line := range lines {
		m := mapping.ToModelLedgerLine(line)
		batch.Queue(lineQuery,
			m.LineID,
			m.EntryID,
			m.AccountID,
			m.DebitAmount,
			m.CreditAmount,
			m.Memo,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger lines", err)
	}
	return nil
}

// FindEntryByID retrieves a specific non-deleted entry scoped to its entity.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entityID, entryID string) (*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE entry_id = $1 AND entity_id = $2 AND deleted_at IS NULL;
	`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID, entityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewEntityNotFound("entry", entryID)
		}
		return nil, apperrors.NewAppError(500, "failed to find entry by ID "+entryID, err)
	}

	entry := mapping.ToDomainLedgerEntry(*m)
	return &entry, nil
}

// FindLinesByEntryID retrieves the non-deleted lines of an entry.
func (r *PgxEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.LedgerLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, debit_amount, credit_amount, memo, deleted_at,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM ledger_lines
		WHERE entry_id = $1 AND deleted_at IS NULL
		ORDER BY created_at, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []models.LedgerLine{}
	for rows.Next() {
		var m models.LedgerLine
		err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountID,
			&m.DebitAmount,
			&m.CreditAmount,
			&m.Memo,
			&m.DeletedAt,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}

	return mapping.ToDomainLedgerLineSlice(lines), nil
}

// LatestEntryNumber returns the most recently created entry number for
// the entity, or nil when the entity has no entries yet. Soft-deleted
// entries still hold their number, so they stay in the scan.
func (r *PgxEntryRepository) LatestEntryNumber(ctx context.Context, entityID string) (*string, error) {
	query := `
		SELECT entry_number
		FROM ledger_entries
		WHERE entity_id = $1
		ORDER BY created_at DESC, entry_number DESC
		LIMIT 1;
	`
	var number string
	err := r.Pool.QueryRow(ctx, query, entityID).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to read latest entry number for entity "+entityID, err)
	}
	return &number, nil
}

// ListEntriesByEntity retrieves a paginated list of entries using
// token-based pagination, optionally filtered by status.
func (r *PgxEntryRepository) ListEntriesByEntity(ctx context.Context, entityID string, limit int, nextToken *string, status *domain.EntryStatus) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE entity_id = $1 AND deleted_at IS NULL
	`
	args := []interface{}{entityID}

	if status != nil {
		args = append(args, string(*status))
		baseQuery += ` AND status = $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastEntryID, decodeErr := pagination.DecodeCursorToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastEntryID)
		baseQuery += ` AND (created_at, entry_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + `
		ORDER BY created_at DESC, entry_id DESC
		LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for entity "+entityID, err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row for entity "+entityID, err)
		}
		entries = append(entries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows for entity "+entityID, err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeCursorToken(last.CreatedAt, last.EntryID)
		nextTokenVal = &token
	}

	result := make([]domain.LedgerEntry, len(entries))
	for i, m := range entries {
		result[i] = mapping.ToDomainLedgerEntry(m)
	}
	return result, nextTokenVal, nil
}

// MarkEntryPosted flips a DRAFT entry to POSTED with a status-guarded
// conditional update. A zero row count means some other transition won.
func (r *PgxEntryRepository) MarkEntryPosted(ctx context.Context, entryID, userID string, at time.Time) (bool, error) {
	query := `
		UPDATE ledger_entries
		SET status = 'POSTED', last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND status = 'DRAFT' AND deleted_at IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, entryID, at, userID)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to post entry "+entryID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// SoftDeleteEntry soft-deletes a draft entry and its lines.
func (r *PgxEntryRepository) SoftDeleteEntry(ctx context.Context, entryID, userID string, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	entryQuery := `
		UPDATE ledger_entries
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND status = 'DRAFT' AND deleted_at IS NULL;
	`
	tag, err := tx.Exec(ctx, entryQuery, entryID, at, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewEntityNotFound("entry", entryID)
	}

	lineQuery := `
		UPDATE ledger_lines
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND deleted_at IS NULL;
	`
	if _, err := tx.Exec(ctx, lineQuery, entryID, at, userID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for entry "+entryID, err)
	}

	return r.Commit(ctx, tx)
}

// VoidEntryWithReversal persists the reversal and flips the original to
// VOIDED in one serializable transaction. The original row is locked and
// re-checked inside the transaction, so of any number of concurrent
// voids exactly one writes a reversal.
func (r *PgxEntryRepository) VoidEntryWithReversal(ctx context.Context, originalEntryID string, reversal domain.LedgerEntry, lines []domain.LedgerLine, userID string, at time.Time) error {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	checkQuery := `
		SELECT status, linked_entry_id
		FROM ledger_entries
		WHERE entry_id = $1 AND deleted_at IS NULL
		FOR UPDATE;
	`
	var status string
	var linkedEntryID *string
	if err := tx.QueryRow(ctx, checkQuery, originalEntryID).Scan(&status, &linkedEntryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewEntityNotFound("entry", originalEntryID)
		}
		return apperrors.NewAppError(500, "failed to lock entry "+originalEntryID, err)
	}
	if status == string(models.Voided) || linkedEntryID != nil {
		return apperrors.NewAlreadyVoided(originalEntryID)
	}
	if status != string(models.Posted) {
		return apperrors.NewValidation("entry " + originalEntryID + " is not posted")
	}

	if err := insertEntryInTx(ctx, tx, reversal); err != nil {
		return err
	}
	if err := insertLinesInTx(ctx, tx, lines); err != nil {
		return err
	}

	voidQuery := `
		UPDATE ledger_entries
		SET status = 'VOIDED', linked_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1;
	`
	if _, err := tx.Exec(ctx, voidQuery, originalEntryID, reversal.EntryID, at, userID); err != nil {
		return apperrors.NewAppError(500, "failed to void entry "+originalEntryID, err)
	}

	return r.Commit(ctx, tx)
}
