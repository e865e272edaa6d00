package domain

import "time"

// PeriodStatus indicates whether postings into a fiscal period are allowed.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodLocked PeriodStatus = "LOCKED"
	PeriodClosed PeriodStatus = "CLOSED"
)

// FiscalPeriod is the slice of a period the ledger needs: enough to
// refuse postings into a locked or closed range.
type FiscalPeriod struct {
	PeriodID  string       `json:"periodID"`
	EntityID  string       `json:"entityID"`
	Name      string       `json:"name"`
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    PeriodStatus `json:"status"`
}

// Blocks reports whether the period refuses new postings.
func (p PeriodStatus) Blocks() bool {
	return p == PeriodLocked || p == PeriodClosed
}

// LedgerAccount is the directory view of an account: just what the
// posting state machine needs for its cross-entity reference check.
type LedgerAccount struct {
	AccountID string `json:"accountID"`
	EntityID  string `json:"entityID"`
	TenantID  string `json:"tenantID"`
	Name      string `json:"name"`
	IsActive  bool   `json:"isActive"`
}

// FeedTransaction is an imported bank-feed transaction as seen by the
// executor registry: category assignment and ledger-entry linkage only.
type FeedTransaction struct {
	TransactionID string  `json:"transactionID"`
	EntityID      string  `json:"entityID"`
	TenantID      string  `json:"tenantID"`
	Description   string  `json:"description"`
	CategoryID    *string `json:"categoryID,omitempty"`
	LedgerEntryID *string `json:"ledgerEntryID,omitempty"`
}
