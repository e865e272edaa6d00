package domain

import (
	"fmt"
	"time"
)

// EntryStatus indicates the lifecycle state of a ledger entry.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	Voided EntryStatus = "VOIDED"
)

// SourceType records where a ledger entry originated.
type SourceType string

const (
	SourceManual       SourceType = "MANUAL"
	SourceAISuggestion SourceType = "AI_SUGGESTION"
	SourceImport       SourceType = "IMPORT"
	SourceAdjustment   SourceType = "ADJUSTMENT"
)

// ReversalMemoPrefix marks the memo of an entry that reverses another.
const ReversalMemoPrefix = "Reversal of: "

// LedgerEntry represents a single double-entry transaction.
// An entry with status other than DRAFT is immutable, except for the
// one POSTED -> VOIDED transition and the LinkedEntryID it sets.
type LedgerEntry struct {
	EntryID        string       `json:"entryID"`     // Primary Key (UUID)
	EntityID       string       `json:"entityID"`    // Owning entity
	EntryNumber    string       `json:"entryNumber"` // Human readable sequence, e.g. "JE-003"
	EntryDate      time.Time    `json:"entryDate"`   // Date the event occurred
	Memo           string       `json:"memo"`
	SourceType     SourceType   `json:"sourceType"`
	SourceID       *string      `json:"sourceID,omitempty"`       // Identifier in the source system
	SourceDocument *string      `json:"sourceDocument,omitempty"` // Free-form provenance document
	LinkedEntryID  *string      `json:"linkedEntryID,omitempty"`  // Set on the original once voided, points at its reversal
	Status         EntryStatus  `json:"status"`
	Lines          []LedgerLine `json:"lines,omitempty"` // Often loaded separately
	DeletedAt      *time.Time   `json:"deletedAt,omitempty"`
	AuditFields
}

// LedgerLine is one debit or credit posting within an entry, against one account.
// Amounts are non-negative integer minor-currency units; exactly one of
// DebitAmount/CreditAmount is expected to be non-zero (enforced at the
// boundary, re-checked here only in aggregate).
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

// SumLines totals the debit and credit sides over non-deleted lines.
func SumLines(lines []LedgerLine) (debits int64, credits int64) {
	for _, line := range lines {
		if line.DeletedAt != nil {
			continue
		}
		debits += line.DebitAmount
		credits += line.CreditAmount
	}
	return debits, credits
}

// LinesBalanced reports whether debits equal credits over non-deleted lines.
func LinesBalanced(lines []LedgerLine) bool {
	debits, credits := SumLines(lines)
	return debits == credits
}

// BuildReversal constructs the sign-swapped mirror of a posted entry.
// The reversal is POSTED immediately: it exactly mirrors an already
// approved fact, so it takes no trip through DRAFT.
func BuildReversal(original LedgerEntry, lines []LedgerLine, reversalID, entryNumber, userID string, now time.Time) (LedgerEntry, []LedgerLine) {
	audit := AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	sourceID := original.EntryID
	reversal := LedgerEntry{
		EntryID:     reversalID,
		EntityID:    original.EntityID,
		EntryNumber: entryNumber,
		EntryDate:   original.EntryDate,
		Memo:        fmt.Sprintf("%s%s", ReversalMemoPrefix, original.Memo),
		SourceType:  SourceAdjustment,
		SourceID:    &sourceID,
		Status:      Posted,
		AuditFields: audit,
	}

	reversedLines := make([]LedgerLine, 0, len(lines))
	for i, line := range lines {
		if line.DeletedAt != nil {
			continue
		}
		reversedLines = append(reversedLines, LedgerLine{
			LineID:       reversalLineID(reversalID, i),
			EntryID:      reversalID,
			AccountID:    line.AccountID,
			DebitAmount:  line.CreditAmount,
			CreditAmount: line.DebitAmount,
			Memo:         line.Memo,
			AuditFields:  audit,
		})
	}
	return reversal, reversedLines
}

// reversalLineID derives a deterministic child id for a reversal line.
func reversalLineID(reversalID string, index int) string {
	return fmt.Sprintf("%s-%d", reversalID, index)
}
