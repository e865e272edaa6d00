package mapping

import (
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	"github.com/ledgerline/ledgerline_backend/internal/models"
)

// ToModelAction converts a domain Action to a model Action
func ToModelAction(d domain.Action) models.Action {
	return models.Action{
		ActionID:    d.ActionID,
		TenantID:    d.TenantID,
		EntityID:    d.EntityID,
		Type:        string(d.Type),
		Title:       d.Title,
		Description: d.Description,
		Status:      models.ActionStatus(d.Status),
		Confidence:  d.Confidence,
		Priority:    string(d.Priority),
		Payload:     d.Payload,
		SourceType:  d.SourceType,
		SourceID:    d.SourceID,
		ReviewedAt:  d.ReviewedAt,
		ReviewedBy:  d.ReviewedBy,
		ExpiresAt:   d.ExpiresAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAction converts a model Action to a domain Action
func ToDomainAction(m models.Action) domain.Action {
	return domain.Action{
		ActionID:    m.ActionID,
		TenantID:    m.TenantID,
		EntityID:    m.EntityID,
		Type:        domain.ActionType(m.Type),
		Title:       m.Title,
		Description: m.Description,
		Status:      domain.ActionStatus(m.Status),
		Confidence:  m.Confidence,
		Priority:    domain.ActionPriority(m.Priority),
		Payload:     m.Payload,
		SourceType:  m.SourceType,
		SourceID:    m.SourceID,
		ReviewedAt:  m.ReviewedAt,
		ReviewedBy:  m.ReviewedBy,
		ExpiresAt:   m.ExpiresAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainActionSlice converts a slice of model Actions to domain Actions
func ToDomainActionSlice(ms []models.Action) []domain.Action {
	ds := make([]domain.Action, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAction(m)
	}
	return ds
}
