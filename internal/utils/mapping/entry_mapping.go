package mapping

import (
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	"github.com/ledgerline/ledgerline_backend/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:        d.EntryID,
		EntityID:       d.EntityID,
		EntryNumber:    d.EntryNumber,
		EntryDate:      d.EntryDate,
		Memo:           d.Memo,
		SourceType:     string(d.SourceType),
		SourceID:       d.SourceID,
		SourceDocument: d.SourceDocument,
		LinkedEntryID:  d.LinkedEntryID,
		Status:         models.EntryStatus(d.Status),
		DeletedAt:      d.DeletedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:        m.EntryID,
		EntityID:       m.EntityID,
		EntryNumber:    m.EntryNumber,
		EntryDate:      m.EntryDate,
		Memo:           m.Memo,
		SourceType:     domain.SourceType(m.SourceType),
		SourceID:       m.SourceID,
		SourceDocument: m.SourceDocument,
		LinkedEntryID:  m.LinkedEntryID,
		Status:         domain.EntryStatus(m.Status),
		DeletedAt:      m.DeletedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLedgerLine converts a domain LedgerLine to a model LedgerLine
func ToModelLedgerLine(d domain.LedgerLine) models.LedgerLine {
	return models.LedgerLine{
		LineID:       d.LineID,
		EntryID:      d.EntryID,
		AccountID:    d.AccountID,
		DebitAmount:  d.DebitAmount,
		CreditAmount: d.CreditAmount,
		Memo:         d.Memo,
		DeletedAt:    d.DeletedAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerLine converts a model LedgerLine to a domain LedgerLine
func ToDomainLedgerLine(m models.LedgerLine) domain.LedgerLine {
	return domain.LedgerLine{
		LineID:       m.LineID,
		EntryID:      m.EntryID,
		AccountID:    m.AccountID,
		DebitAmount:  m.DebitAmount,
		CreditAmount: m.CreditAmount,
		Memo:         m.Memo,
		DeletedAt:    m.DeletedAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerLineSlice converts a slice of model LedgerLines to domain LedgerLines
func ToDomainLedgerLineSlice(ms []models.LedgerLine) []domain.LedgerLine {
	ds := make([]domain.LedgerLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerLine(m)
	}
	return ds
}
