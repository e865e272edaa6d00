package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		EntryRepo:        newPgxEntryRepository(dbPool),
		ActionRepo:       newPgxActionRepository(dbPool),
		EntityRepo:       newPgxEntityRepository(dbPool),
		AccountRepo:      newPgxAccountRepository(dbPool),
		CategoryRepo:     newPgxCategoryRepository(dbPool),
		FiscalPeriodRepo: newPgxFiscalPeriodRepository(dbPool),
		FeedTxnRepo:      newPgxFeedTransactionRepository(dbPool),
		RuleRepo:         newPgxRuleRepository(dbPool),
		InsightRepo:      newPgxInsightRepository(dbPool),
		AuditRepo:        newPgxAuditRepository(dbPool),
	}
}
