package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerline/ledgerline_backend/internal/core/ports/services"
	"github.com/ledgerline/ledgerline_backend/internal/dto"
)

// --- Mock EntryRepository ---

type MockEntryRepository struct {
	mock.Mock
}

var _ portsrepo.EntryRepositoryFacade = (*MockEntryRepository)(nil)

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, entityID, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entityID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerLine), args.Error(1)
}

func (m *MockEntryRepository) LatestEntryNumber(ctx context.Context, entityID string) (*string, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockEntryRepository) ListEntriesByEntity(ctx context.Context, entityID string, limit int, nextToken *string, status *domain.EntryStatus) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, entityID, limit, nextToken, status)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerEntry), returnedToken, args.Error(2)
}

func (m *MockEntryRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry, lines []domain.LedgerLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockEntryRepository) MarkEntryPosted(ctx context.Context, entryID, userID string, at time.Time) (bool, error) {
	args := m.Called(ctx, entryID, userID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntryRepository) SoftDeleteEntry(ctx context.Context, entryID, userID string, at time.Time) error {
	args := m.Called(ctx, entryID, userID, at)
	return args.Error(0)
}

func (m *MockEntryRepository) VoidEntryWithReversal(ctx context.Context, originalEntryID string, reversal domain.LedgerEntry, lines []domain.LedgerLine, userID string, at time.Time) error {
	args := m.Called(ctx, originalEntryID, reversal, lines, userID, at)
	return args.Error(0)
}

// --- Mock ActionRepository ---

type MockActionRepository struct {
	mock.Mock
}

var _ portsrepo.ActionRepositoryFacade = (*MockActionRepository)(nil)

func (m *MockActionRepository) FindActionByID(ctx context.Context, tenantID, entityID, actionID string) (*domain.Action, error) {
	args := m.Called(ctx, tenantID, entityID, actionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Action), args.Error(1)
}

func (m *MockActionRepository) ListActions(ctx context.Context, tenantID, entityID string, filter portsrepo.ListActionsFilter, limit int, nextToken *string) ([]domain.Action, *string, error) {
	args := m.Called(ctx, tenantID, entityID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.Action), returnedToken, args.Error(2)
}

func (m *MockActionRepository) CountActionStats(ctx context.Context, tenantID, entityID string) (*domain.ActionStats, error) {
	args := m.Called(ctx, tenantID, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ActionStats), args.Error(1)
}

func (m *MockActionRepository) SaveAction(ctx context.Context, action domain.Action) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockActionRepository) MarkReviewed(ctx context.Context, tenantID, entityID, actionID string, status domain.ActionStatus, userID string, at time.Time, requireNotExpired bool) (bool, error) {
	args := m.Called(ctx, tenantID, entityID, actionID, status, userID, at, requireNotExpired)
	return args.Bool(0), args.Error(1)
}

func (m *MockActionRepository) MarkExpired(ctx context.Context, tenantID, entityID, actionID string, at time.Time) (bool, error) {
	args := m.Called(ctx, tenantID, entityID, actionID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockActionRepository) ExpireStale(ctx context.Context, tenantID, entityID string, now time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, entityID, now)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock collaborator services ---

type MockEntityResolver struct {
	mock.Mock
}

var _ portssvc.EntityResolverSvc = (*MockEntityResolver)(nil)

func (m *MockEntityResolver) EntityBelongsToTenant(ctx context.Context, entityID, tenantID string) (bool, error) {
	args := m.Called(ctx, entityID, tenantID)
	return args.Bool(0), args.Error(1)
}

type MockAccountDirectory struct {
	mock.Mock
}

var _ portssvc.AccountDirectorySvc = (*MockAccountDirectory)(nil)

func (m *MockAccountDirectory) FindActiveOwnedAccounts(ctx context.Context, accountIDs []string, entityID, tenantID string) (map[string]domain.LedgerAccount, error) {
	args := m.Called(ctx, accountIDs, entityID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.LedgerAccount), args.Error(1)
}

type MockFiscalPeriodSvc struct {
	mock.Mock
}

var _ portssvc.FiscalPeriodSvc = (*MockFiscalPeriodSvc)(nil)

func (m *MockFiscalPeriodSvc) LockedPeriodCovering(ctx context.Context, entityID string, date time.Time) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, entityID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

// MockAuditSvc swallows audit records like the real recorder; tests that
// care about audit behavior assert on the writer mock instead.
type MockAuditSvc struct {
	mock.Mock
}

var _ portssvc.AuditSvc = (*MockAuditSvc)(nil)

func (m *MockAuditSvc) Record(ctx context.Context, tenantID, entityID, model, recordID, action string, before, after any) {
	m.Called(ctx, tenantID, entityID, model, recordID, action, before, after)
}

type MockFeedTransactionSvc struct {
	mock.Mock
}

var _ portssvc.FeedTransactionSvc = (*MockFeedTransactionSvc)(nil)

func (m *MockFeedTransactionSvc) FindByID(ctx context.Context, tenantID, entityID, transactionID string) (*domain.FeedTransaction, error) {
	args := m.Called(ctx, tenantID, entityID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeedTransaction), args.Error(1)
}

func (m *MockFeedTransactionSvc) SetCategory(ctx context.Context, transactionID, categoryID, userID string) error {
	args := m.Called(ctx, transactionID, categoryID, userID)
	return args.Error(0)
}

func (m *MockFeedTransactionSvc) UnlinkEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

type MockCategoryDirectory struct {
	mock.Mock
}

var _ portssvc.CategoryDirectorySvc = (*MockCategoryDirectory)(nil)

func (m *MockCategoryDirectory) CategoryExists(ctx context.Context, tenantID, categoryID string) (bool, error) {
	args := m.Called(ctx, tenantID, categoryID)
	return args.Bool(0), args.Error(1)
}

type MockRuleReviewSvc struct {
	mock.Mock
}

var _ portssvc.RuleReviewSvc = (*MockRuleReviewSvc)(nil)

func (m *MockRuleReviewSvc) Approve(ctx context.Context, tenantID, ruleID, userID string) error {
	args := m.Called(ctx, tenantID, ruleID, userID)
	return args.Error(0)
}

func (m *MockRuleReviewSvc) Reject(ctx context.Context, tenantID, ruleID, userID, reason string) error {
	args := m.Called(ctx, tenantID, ruleID, userID, reason)
	return args.Error(0)
}

type MockInsightSvc struct {
	mock.Mock
}

var _ portssvc.InsightSvc = (*MockInsightSvc)(nil)

func (m *MockInsightSvc) Dismiss(ctx context.Context, tenantID, insightID string) error {
	args := m.Called(ctx, tenantID, insightID)
	return args.Error(0)
}

// --- Mock LedgerEntrySvcFacade (used by executor tests) ---

type MockLedgerEntrySvc struct {
	mock.Mock
}

var _ portssvc.LedgerEntrySvcFacade = (*MockLedgerEntrySvc)(nil)

func (m *MockLedgerEntrySvc) CreateEntry(ctx context.Context, tenantID, entityID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, entityID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntrySvc) GetEntryByID(ctx context.Context, tenantID, entityID, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, entityID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntrySvc) ListEntries(ctx context.Context, tenantID, entityID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, tenantID, entityID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

func (m *MockLedgerEntrySvc) ApproveEntry(ctx context.Context, tenantID, entityID, entryID, approverID string, approverRole domain.UserRole) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, entityID, entryID, approverID, approverRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntrySvc) VoidEntry(ctx context.Context, tenantID, entityID, entryID, userID string) (*dto.VoidEntryResponse, error) {
	args := m.Called(ctx, tenantID, entityID, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VoidEntryResponse), args.Error(1)
}

func (m *MockLedgerEntrySvc) DeleteEntry(ctx context.Context, tenantID, entityID, entryID, userID string) error {
	args := m.Called(ctx, tenantID, entityID, entryID, userID)
	return args.Error(0)
}
