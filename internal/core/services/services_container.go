package services

import (
	"time"

	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerline/ledgerline_backend/internal/core/ports/services"
	"github.com/ledgerline/ledgerline_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The lookup repositories satisfy the collaborator service
	// interfaces directly; no adapter layer is needed for them.
	audit := NewAuditService(repos.AuditRepo)
	feedTxns := NewFeedTransactionService(repos.FeedTxnRepo)
	rules := NewRuleReviewService(repos.RuleRepo)
	insights := NewInsightService(repos.InsightRepo)

	container.LedgerEntry = NewLedgerEntryService(
		repos.EntryRepo,
		repos.EntityRepo,
		repos.AccountRepo,
		repos.FiscalPeriodRepo,
		audit,
	)

	// The entry lookup given to the registry is the ledger service
	// itself; executors see the same tenant scoping handlers do.
	registry := NewExecutorRegistry(
		container.LedgerEntry,
		container.LedgerEntry,
		feedTxns,
		repos.CategoryRepo,
		rules,
		insights,
	)

	container.Action = NewActionService(
		repos.ActionRepo,
		repos.EntityRepo,
		registry,
		audit,
		time.Duration(cfg.ActionExpiryDays)*24*time.Hour,
	)

	return container
}
