package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerline/ledgerline_backend/internal/core/ports/services"
	"github.com/ledgerline/ledgerline_backend/internal/middleware"
)

// auditWriteTimeout bounds the detached write so a slow audit store can
// never hold a request-path goroutine indefinitely.
const auditWriteTimeout = 5 * time.Second

type auditService struct {
	auditRepo repositories.AuditWriter
}

// NewAuditService creates the append-only audit recorder.
func NewAuditService(auditRepo repositories.AuditWriter) portssvc.AuditSvc {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvc = (*auditService)(nil)

// Record appends an audit row. Failures are logged and swallowed; the
// primary operation has already succeeded and must not be failed by
// bookkeeping. The write runs under a detached context so request
// cancellation cannot abort it.
func (s *auditService) Record(ctx context.Context, tenantID, entityID, model, recordID, action string, before, after any) {
	logger := middleware.GetLoggerFromCtx(ctx)
	userID := middleware.UserIDFromCtx(ctx)

	beforeJSON, err := marshalSnapshot(before)
	if err != nil {
		logger.Error("Failed to serialize audit before-snapshot", slog.String("model", model), slog.String("record_id", recordID), slog.String("error", err.Error()))
		return
	}
	afterJSON, err := marshalSnapshot(after)
	if err != nil {
		logger.Error("Failed to serialize audit after-snapshot", slog.String("model", model), slog.String("record_id", recordID), slog.String("error", err.Error()))
		return
	}

	detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	if err := s.auditRepo.SaveAuditRecord(detached, tenantID, entityID, model, recordID, action, beforeJSON, afterJSON, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to save audit record",
			slog.String("model", model),
			slog.String("record_id", recordID),
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}

func marshalSnapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
