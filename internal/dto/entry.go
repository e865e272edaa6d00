package dto

import (
	"time"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	"github.com/ledgerline/ledgerline_backend/internal/utils/money"
)

// CreateLineRequest is one debit/credit posting within a new entry.
// Amounts are non-negative integer minor-currency units; exactly one of
// the two must be non-zero (validated by the oneamount binding rule).
type CreateLineRequest struct {
	AccountID    string `json:"accountID" binding:"required"`
	DebitAmount  int64  `json:"debitAmount" binding:"min=0"`
	CreditAmount int64  `json:"creditAmount" binding:"min=0,oneamount"`
	Memo         string `json:"memo"`
}

// CreateEntryRequest creates a new draft ledger entry with its lines.
type CreateEntryRequest struct {
	EntryDate      time.Time           `json:"entryDate" binding:"required"`
	Memo           string              `json:"memo" binding:"required"`
	SourceType     domain.SourceType   `json:"sourceType"`
	SourceID       *string             `json:"sourceID,omitempty"`
	SourceDocument *string             `json:"sourceDocument,omitempty"`
	Lines          []CreateLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// LineResponse defines the data returned for a ledger line. Amounts
// are returned both as raw minor units and as fixed-precision strings.
type LineResponse struct {
	LineID          string `json:"lineID"`
	AccountID       string `json:"accountID"`
	DebitAmount     int64  `json:"debitAmount"`
	CreditAmount    int64  `json:"creditAmount"`
	DebitFormatted  string `json:"debitFormatted"`
	CreditFormatted string `json:"creditFormatted"`
	Memo            string `json:"memo,omitempty"`
}

// EntryResponse defines the data returned for a ledger entry.
type EntryResponse struct {
	EntryID       string             `json:"entryID"`
	EntityID      string             `json:"entityID"`
	EntryNumber   string             `json:"entryNumber"`
	EntryDate     time.Time          `json:"entryDate"`
	Memo          string             `json:"memo"`
	SourceType    domain.SourceType  `json:"sourceType"`
	SourceID      *string            `json:"sourceID,omitempty"`
	LinkedEntryID *string            `json:"linkedEntryID,omitempty"`
	Status        domain.EntryStatus `json:"status"`
	Lines         []LineResponse     `json:"lines,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
}

// ListEntriesParams holds parameters for listing ledger entries.
type ListEntriesParams struct {
	Status       *domain.EntryStatus
	Limit        int
	NextToken    *string
	IncludeLines bool
}

// ListEntriesResponse is a page of entries plus the next-page token.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// VoidEntryResponse identifies the voided original and its reversal.
type VoidEntryResponse struct {
	VoidedEntryID   string `json:"voidedEntryID"`
	ReversalEntryID string `json:"reversalEntryID"`
}

// ToLineResponse converts a domain.LedgerLine to a LineResponse DTO.
func ToLineResponse(line *domain.LedgerLine) LineResponse {
	return LineResponse{
		LineID:          line.LineID,
		AccountID:       line.AccountID,
		DebitAmount:     line.DebitAmount,
		CreditAmount:    line.CreditAmount,
		DebitFormatted:  money.FormatMinorUnits(line.DebitAmount, money.DefaultExponent),
		CreditFormatted: money.FormatMinorUnits(line.CreditAmount, money.DefaultExponent),
		Memo:            line.Memo,
	}
}

// ToEntryResponse converts a domain.LedgerEntry to an EntryResponse DTO.
func ToEntryResponse(e *domain.LedgerEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:       e.EntryID,
		EntityID:      e.EntityID,
		EntryNumber:   e.EntryNumber,
		EntryDate:     e.EntryDate,
		Memo:          e.Memo,
		SourceType:    e.SourceType,
		SourceID:      e.SourceID,
		LinkedEntryID: e.LinkedEntryID,
		Status:        e.Status,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]LineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToLineResponse(&e.Lines[i])
		}
	}
	return resp
}
