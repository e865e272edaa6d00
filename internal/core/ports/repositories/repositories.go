package repositories

// RepositoryProvider bundles every repository implementation the
// service layer needs, so wiring happens in one place.
type RepositoryProvider struct {
	EntryRepo        EntryRepositoryFacade
	ActionRepo       ActionRepositoryFacade
	EntityRepo       EntityReader
	AccountRepo      AccountReader
	CategoryRepo     CategoryReader
	FiscalPeriodRepo FiscalPeriodReader
	FeedTxnRepo      FeedTransactionRepositoryFacade
	RuleRepo         RuleWriter
	InsightRepo      InsightWriter
	AuditRepo        AuditWriter
}
