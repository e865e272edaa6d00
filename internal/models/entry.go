package models

import "time"

// EntryStatus indicates the lifecycle state of a ledger entry row.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	Voided EntryStatus = "VOIDED"
)

// LedgerEntry is the persisted form of a double-entry transaction.
type LedgerEntry struct {
	EntryID        string      `json:"entryID"`
	EntityID       string      `json:"entityID"`
	EntryNumber    string      `json:"entryNumber"`
	EntryDate      time.Time   `json:"entryDate"`
	Memo           string      `json:"memo"`
	SourceType     string      `json:"sourceType"`
	SourceID       *string     `json:"sourceID,omitempty"`
	SourceDocument *string     `json:"sourceDocument,omitempty"`
	LinkedEntryID  *string     `json:"linkedEntryID,omitempty"`
	Status         EntryStatus `json:"status"`
	DeletedAt      *time.Time  `json:"deletedAt,omitempty"`
	AuditFields
}

// LedgerLine is the persisted form of one debit/credit posting.
// Amounts are integer minor-currency units.
type LedgerLine struct {
	LineID       string     `json:"lineID"`
	EntryID      string     `json:"entryID"`
	AccountID    string     `json:"accountID"`
	DebitAmount  int64      `json:"debitAmount"`
	CreditAmount int64      `json:"creditAmount"`
	Memo         string     `json:"memo"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	AuditFields
}
