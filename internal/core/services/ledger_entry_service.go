package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerline/ledgerline_backend/internal/core/ports/services"
	"github.com/ledgerline/ledgerline_backend/internal/dto"
	"github.com/ledgerline/ledgerline_backend/internal/metrics"
	"github.com/ledgerline/ledgerline_backend/internal/middleware"
)

const (
	// entryNumberPrefix seeds the sequence for entities without entries.
	entryNumberPrefix = "JE"

	// maxSequenceAttempts bounds the retry loop around the unique
	// (entity_id, entry_number) constraint. Two concurrent creations
	// can read the same latest number; the constraint rejects the
	// loser, which re-reads and retries.
	maxSequenceAttempts = 3

	defaultEntryPageSize = 20
)

// ledgerEntryService implements the posting state machine for ledger
// entries: DRAFT -> {POSTED, deleted}; POSTED -> VOIDED; VOIDED terminal.
type ledgerEntryService struct {
	entryRepo portsrepo.EntryRepositoryFacade
	entities  portssvc.EntityResolverSvc
	accounts  portssvc.AccountDirectorySvc
	periods   portssvc.FiscalPeriodSvc
	audit     portssvc.AuditSvc
}

// NewLedgerEntryService creates a new ledger entry service.
func NewLedgerEntryService(
	entryRepo portsrepo.EntryRepositoryFacade,
	entities portssvc.EntityResolverSvc,
	accounts portssvc.AccountDirectorySvc,
	periods portssvc.FiscalPeriodSvc,
	audit portssvc.AuditSvc,
) portssvc.LedgerEntrySvcFacade {
	return &ledgerEntryService{
		entryRepo: entryRepo,
		entities:  entities,
		accounts:  accounts,
		periods:   periods,
		audit:     audit,
	}
}

var _ portssvc.LedgerEntrySvcFacade = (*ledgerEntryService)(nil)

// nextEntryNumber derives the next human-readable entry number from the
// latest existing one. "JE-003" -> "JE-004"; numbers past 999 simply
// widen the string.
func nextEntryNumber(latest *string) string {
	if latest == nil || *latest == "" {
		return fmt.Sprintf("%s-%03d", entryNumberPrefix, 1)
	}

	prefix := entryNumberPrefix
	suffix := *latest
	if idx := strings.LastIndex(*latest, "-"); idx >= 0 {
		prefix = (*latest)[:idx]
		suffix = (*latest)[idx+1:]
	}

	n, err := strconv.Atoi(suffix)
	if err != nil {
		// Malformed latest number; restart the sequence under the
		// default prefix rather than failing entry creation.
		return fmt.Sprintf("%s-%03d", entryNumberPrefix, 1)
	}
	return fmt.Sprintf("%s-%03d", prefix, n+1)
}

func (s *ledgerEntryService) checkEntity(ctx context.Context, tenantID, entityID string) error {
	ok, err := s.entities.EntityBelongsToTenant(ctx, entityID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to resolve entity %s: %w", entityID, err)
	}
	if !ok {
		return apperrors.NewEntityNotFound("entity", entityID)
	}
	return nil
}

func (s *ledgerEntryService) checkPeriodOpen(ctx context.Context, entityID string, date time.Time) error {
	period, err := s.periods.LockedPeriodCovering(ctx, entityID, date)
	if err != nil {
		return fmt.Errorf("failed to check fiscal period for %s: %w", entityID, err)
	}
	if period != nil {
		return apperrors.NewFiscalPeriodClosed(period.Name)
	}
	return nil
}

// CreateEntry validates and persists a new DRAFT ledger entry.
// Implements portssvc.LedgerEntrySvcFacade.
func (s *ledgerEntryService) CreateEntry(ctx context.Context, tenantID, entityID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.checkEntity(ctx, tenantID, entityID); err != nil {
		return nil, err
	}

	if len(req.Lines) < 2 {
		return nil, apperrors.NewValidation("entry must have at least two lines")
	}

	if err := s.checkPeriodOpen(ctx, entityID, req.EntryDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	entryID := uuid.NewString()
	lines := make([]domain.LedgerLine, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	for i, lineReq := range req.Lines {
		if lineReq.DebitAmount < 0 || lineReq.CreditAmount < 0 {
			return nil, apperrors.NewValidation(fmt.Sprintf("negative amount on account %s", lineReq.AccountID))
		}
		lines[i] = domain.LedgerLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    lineReq.AccountID,
			DebitAmount:  lineReq.DebitAmount,
			CreditAmount: lineReq.CreditAmount,
			Memo:         lineReq.Memo,
			AuditFields:  audit,
		}
		accountIDs = append(accountIDs, lineReq.AccountID)
	}

	// Balance re-check. The boundary validates each line has exactly one
	// side set; the ledger re-checks only the aggregate sum.
	if debits, credits := domain.SumLines(lines); debits != credits {
		return nil, apperrors.NewUnbalancedEntry(debits, credits)
	}

	// Every referenced account must be active and owned by the same
	// entity and tenant. A miss here is the primary IDOR defense.
	uniqueAccountIDs := uniqueStrings(accountIDs)
	accountsMap, err := s.accounts.FindActiveOwnedAccounts(ctx, uniqueAccountIDs, entityID, tenantID)
	if err != nil {
		logger.Error("Failed to fetch accounts for entry creation", slog.String("error", err.Error()), slog.String("entity_id", entityID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range uniqueAccountIDs {
		if _, found := accountsMap[id]; !found {
			logger.Warn("Entry references account outside the entity", slog.String("entity_id", entityID), slog.String("account_id", id))
			return nil, apperrors.NewCrossEntityReference(fmt.Sprintf("account %s is not an active account of entity %s", id, entityID))
		}
	}

	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = domain.SourceManual
	}

	entry := domain.LedgerEntry{
		EntryID:        entryID,
		EntityID:       entityID,
		EntryDate:      req.EntryDate,
		Memo:           req.Memo,
		SourceType:     sourceType,
		SourceID:       req.SourceID,
		SourceDocument: req.SourceDocument,
		Status:         domain.Draft,
		AuditFields:    audit,
	}

	if err := s.saveWithFreshNumber(ctx, &entry, lines); err != nil {
		logger.Error("Failed to save entry", slog.String("error", err.Error()), slog.String("entity_id", entityID))
		return nil, err
	}

	s.audit.Record(ctx, tenantID, entityID, "ledger_entry", entry.EntryID, "create", nil, entry)
	metrics.EntriesCreated.Inc()
	logger.Info("Ledger entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber), slog.String("entity_id", entityID))

	entry.Lines = lines
	return &entry, nil
}

// saveWithFreshNumber allocates the next entry number and persists the
// entry, re-allocating on a number collision.
func (s *ledgerEntryService) saveWithFreshNumber(ctx context.Context, entry *domain.LedgerEntry, lines []domain.LedgerLine) error {
	var lastErr error
	for attempt := 0; attempt < maxSequenceAttempts; attempt++ {
		latest, err := s.entryRepo.LatestEntryNumber(ctx, entry.EntityID)
		if err != nil {
			return fmt.Errorf("failed to read latest entry number: %w", err)
		}
		entry.EntryNumber = nextEntryNumber(latest)

		lastErr = s.entryRepo.SaveEntry(ctx, *entry, lines)
		if lastErr == nil {
			return nil
		}
		if appErr, ok := apperrors.AsAppError(lastErr); !ok || appErr.Err != apperrors.ErrDuplicate {
			return lastErr
		}
		// Another creator minted the same number first; re-read and retry.
	}
	return fmt.Errorf("exhausted entry number allocation attempts: %w", lastErr)
}

// GetEntryByID retrieves an entry with its lines.
// Implements portssvc.LedgerEntrySvcFacade.
func (s *ledgerEntryService) GetEntryByID(ctx context.Context, tenantID, entityID, entryID string) (*domain.LedgerEntry, error) {
	if err := s.checkEntity(ctx, tenantID, entityID); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, entityID, entryID)
	if err != nil {
		return nil, err
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a paginated list of entries for an entity.
// Implements portssvc.LedgerEntrySvcFacade.
func (s *ledgerEntryService) ListEntries(ctx context.Context, tenantID, entityID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.checkEntity(ctx, tenantID, entityID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultEntryPageSize
	}

	entries, nextToken, err := s.entryRepo.ListEntriesByEntity(ctx, entityID, limit, params.NextToken, params.Status)
	if err != nil {
		logger.Error("Failed to list entries from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		if params.IncludeLines {
			lines, err := s.entryRepo.FindLinesByEntryID(ctx, entries[i].EntryID)
			if err != nil {
				logger.Warn("Failed to fetch lines for entry", "entry_id", entries[i].EntryID, "error", err)
			} else {
				entries[i].Lines = lines
			}
		}
		responses[i] = dto.ToEntryResponse(&entries[i])
	}

	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// ApproveEntry transitions a DRAFT entry to POSTED.
// Implements portssvc.LedgerEntrySvcFacade.
func (s *ledgerEntryService) ApproveEntry(ctx context.Context, tenantID, entityID, entryID, approverID string, approverRole domain.UserRole) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.checkEntity(ctx, tenantID, entityID); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, entityID, entryID)
	if err != nil {
		return nil, err
	}

	if entry.Status != domain.Draft {
		return nil, apperrors.NewAlreadyPosted(entryID)
	}

	// The period may have been locked since the draft was created.
	if err := s.checkPeriodOpen(ctx, entityID, entry.EntryDate); err != nil {
		return nil, err
	}

	// Separation of duties: the approver must differ from the creator
	// unless they hold the highest privilege role.
	if approverID == entry.CreatedBy && approverRole != domain.RoleAdmin {
		logger.Warn("Separation of duties violation on approve", slog.String("entry_id", entryID), slog.String("user_id", approverID))
		return nil, apperrors.NewSeparationOfDuties()
	}

	now := time.Now().UTC()
	posted, err := s.entryRepo.MarkEntryPosted(ctx, entryID, approverID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to post entry %s: %w", entryID, err)
	}
	if !posted {
		// A concurrent approval or void won the conditional update.
		return nil, apperrors.NewAlreadyPosted(entryID)
	}

	before := *entry
	entry.Status = domain.Posted
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = approverID

	s.audit.Record(ctx, tenantID, entityID, "ledger_entry", entryID, "approve", before, entry)
	metrics.EntriesPosted.Inc()
	logger.Info("Ledger entry posted", slog.String("entry_id", entryID), slog.String("approved_by", approverID))
	return entry, nil
}

// VoidEntry voids a POSTED entry by creating a sign-swapped reversal.
// Implements portssvc.LedgerEntrySvcFacade.
func (s *ledgerEntryService) VoidEntry(ctx context.Context, tenantID, entityID, entryID, userID string) (*dto.VoidEntryResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.checkEntity(ctx, tenantID, entityID); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, entityID, entryID)
	if err != nil {
		return nil, err
	}

	if entry.Status == domain.Voided || entry.LinkedEntryID != nil {
		return nil, apperrors.NewAlreadyVoided(entryID)
	}
	if entry.Status != domain.Posted {
		return nil, apperrors.NewValidation(fmt.Sprintf("entry %s is not posted; delete the draft instead", entryID))
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}

	now := time.Now().UTC()
	var reversal domain.LedgerEntry
	var lastErr error
	for attempt := 0; attempt < maxSequenceAttempts; attempt++ {
		latest, err := s.entryRepo.LatestEntryNumber(ctx, entityID)
		if err != nil {
			return nil, fmt.Errorf("failed to read latest entry number: %w", err)
		}

		var reversedLines []domain.LedgerLine
		reversal, reversedLines = domain.BuildReversal(*entry, lines, uuid.NewString(), nextEntryNumber(latest), userID, now)

		// The check for an existing reversal and both mutations run
		// inside one serializable transaction in the repository; a
		// concurrent void surfaces here as ALREADY_VOIDED.
		lastErr = s.entryRepo.VoidEntryWithReversal(ctx, entryID, reversal, reversedLines, userID, now)
		if lastErr == nil {
			break
		}
		if appErr, ok := apperrors.AsAppError(lastErr); ok && appErr.Err == apperrors.ErrDuplicate {
			continue // entry number collision; re-allocate
		}
		return nil, lastErr
	}
	if lastErr != nil {
		return nil, fmt.Errorf("exhausted entry number allocation attempts: %w", lastErr)
	}

	voided := *entry
	voided.Status = domain.Voided
	voided.LinkedEntryID = &reversal.EntryID
	s.audit.Record(ctx, tenantID, entityID, "ledger_entry", entryID, "void", entry, voided)
	s.audit.Record(ctx, tenantID, entityID, "ledger_entry", reversal.EntryID, "create_reversal", nil, reversal)
	metrics.EntriesVoided.Inc()

	logger.Info("Ledger entry voided", slog.String("entry_id", entryID), slog.String("reversal_entry_id", reversal.EntryID))
	return &dto.VoidEntryResponse{VoidedEntryID: entryID, ReversalEntryID: reversal.EntryID}, nil
}

// DeleteEntry soft-deletes a DRAFT entry.
// Implements portssvc.LedgerEntrySvcFacade.
func (s *ledgerEntryService) DeleteEntry(ctx context.Context, tenantID, entityID, entryID, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.checkEntity(ctx, tenantID, entityID); err != nil {
		return err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, entityID, entryID)
	if err != nil {
		return err
	}

	if entry.Status != domain.Draft {
		return apperrors.NewImmutablePostedEntry(entryID)
	}

	now := time.Now().UTC()
	if err := s.entryRepo.SoftDeleteEntry(ctx, entryID, userID, now); err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}

	s.audit.Record(ctx, tenantID, entityID, "ledger_entry", entryID, "delete", entry, nil)
	logger.Info("Draft entry deleted", slog.String("entry_id", entryID), slog.String("deleted_by", userID))
	return nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
