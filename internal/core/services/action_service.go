package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerline/ledgerline_backend/internal/core/ports/services"
	"github.com/ledgerline/ledgerline_backend/internal/dto"
	"github.com/ledgerline/ledgerline_backend/internal/metrics"
	"github.com/ledgerline/ledgerline_backend/internal/middleware"
)

const defaultActionPageSize = 20

// batchFailureReason is the uniform reason reported for a batch item
// whose conditional update matched no row. The three causes are
// deliberately not distinguished; the caller only needs to know the
// item was not reviewable.
const batchFailureReason = "Not found, not pending, or expired"

// actionService implements the approval pipeline over suggested actions.
type actionService struct {
	actionRepo portsrepo.ActionRepositoryFacade
	entities   portssvc.EntityResolverSvc
	registry   *ExecutorRegistry
	audit      portssvc.AuditSvc
	actionTTL  time.Duration
}

// NewActionService creates a new action pipeline service. actionTTL is
// the default expiry horizon for new actions; zero falls back to 30 days.
func NewActionService(
	actionRepo portsrepo.ActionRepositoryFacade,
	entities portssvc.EntityResolverSvc,
	registry *ExecutorRegistry,
	audit portssvc.AuditSvc,
	actionTTL time.Duration,
) portssvc.ActionSvcFacade {
	if actionTTL <= 0 {
		actionTTL = domain.DefaultActionTTL
	}
	return &actionService{
		actionRepo: actionRepo,
		entities:   entities,
		registry:   registry,
		audit:      audit,
		actionTTL:  actionTTL,
	}
}

var _ portssvc.ActionSvcFacade = (*actionService)(nil)

func (s *actionService) checkEntity(ctx context.Context, tenantID, entityID string) error {
	ok, err := s.entities.EntityBelongsToTenant(ctx, entityID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to resolve entity %s: %w", entityID, err)
	}
	if !ok {
		return apperrors.NewEntityNotFound("entity", entityID)
	}
	return nil
}

// CreateAction inserts a new PENDING action.
// Implements portssvc.ActionSvcFacade.
func (s *actionService) CreateAction(ctx context.Context, tenantID, entityID string, req dto.CreateActionRequest, creatorUserID string) (*domain.Action, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.checkEntity(ctx, tenantID, entityID); err != nil {
		return nil, err
	}

	if req.Confidence < 0 || req.Confidence > 100 {
		return nil, apperrors.NewValidation("confidence must be between 0 and 100")
	}

	now := time.Now().UTC()
	expiresAt := req.ExpiresAt
	if expiresAt == nil {
		defaulted := now.Add(s.actionTTL)
		expiresAt = &defaulted
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}

	action := domain.Action{
		ActionID:    uuid.NewString(),
		TenantID:    tenantID,
		EntityID:    entityID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.Pending,
		Confidence:  req.Confidence,
		Priority:    priority,
		Payload:     req.Payload,
		SourceType:  req.SourceType,
		SourceID:    req.SourceID,
		ExpiresAt:   expiresAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.actionRepo.SaveAction(ctx, action); err != nil {
		logger.Error("Failed to save action", slog.String("error", err.Error()), slog.String("entity_id", entityID))
		return nil, fmt.Errorf("failed to save action: %w", err)
	}

	logger.Info("Action created", slog.String("action_id", action.ActionID), slog.String("type", string(action.Type)))
	return &action, nil
}

// GetActionByID retrieves a single action.
// Implements portssvc.ActionSvcFacade.
func (s *actionService) GetActionByID(ctx context.Context, tenantID, entityID, actionID string) (*domain.Action, error) {
	if err := s.checkEntity(ctx, tenantID, entityID); err != nil {
		return nil, err
	}
	return s.actionRepo.FindActionByID(ctx, tenantID, entityID, actionID)
}

// ListActions retrieves a filtered, paginated list of actions.
// Implements portssvc.ActionSvcFacade.
func (s *actionService) ListActions(ctx context.Context, tenantID, entityID string, params dto.ListActionsParams) (*dto.ListActionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.checkEntity(ctx, tenantID, entityID); err != nil {
		return nil, err
	}

	// Opportunistic sweep so the listing never shows approvable actions
	// that are already past their expiry.
	if _, err := s.expireStale(ctx, tenantID, entityID); err != nil {
		logger.Warn("Stale-action sweep before list failed", "error", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultActionPageSize
	}

	actions, nextToken, err := s.actionRepo.ListActions(ctx, tenantID, entityID, portsrepo.ListActionsFilter{
		Status: params.Status,
		Type:   params.Type,
	}, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list actions from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve actions: %w", err)
	}

	return &dto.ListActionsResponse{
		Actions:   dto.ToActionResponses(actions),
		NextToken: nextToken,
	}, nil
}

// ApproveAction marks a PENDING action APPROVED and synchronously
// invokes its executor.
// Implements portssvc.ActionSvcFacade.
func (s *actionService) ApproveAction(ctx context.Context, tenantID, entityID, actionID, userID string, userRole domain.UserRole) (*domain.Action, *domain.ExecutionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.checkEntity(ctx, tenantID, entityID); err != nil {
		return nil, nil, err
	}

	action, err := s.actionRepo.FindActionByID(ctx, tenantID, entityID, actionID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	if action.Status == domain.Pending && action.IsExpired(now) {
		if err := s.flipExpired(ctx, tenantID, entityID, actionID, now); err != nil {
			logger.Warn("Failed to mark overdue action expired", slog.String("action_id", actionID), slog.String("error", err.Error()))
		}
		return nil, nil, apperrors.NewActionExpired(actionID)
	}
	if action.Status != domain.Pending {
		return nil, nil, apperrors.NewActionNotPending(actionID)
	}

	// Status-guarded conditional update: of any number of concurrent
	// approvals of the same action, exactly one affects a row, so the
	// executor runs at most once.
	updated, err := s.actionRepo.MarkReviewed(ctx, tenantID, entityID, actionID, domain.Approved, userID, now, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to approve action %s: %w", actionID, err)
	}
	if !updated {
		// Lost the race; decide which terminal error to surface.
		if action.IsExpired(now) {
			if err := s.flipExpired(ctx, tenantID, entityID, actionID, now); err != nil {
				logger.Warn("Failed to mark overdue action expired", slog.String("action_id", actionID), slog.String("error", err.Error()))
			}
			return nil, nil, apperrors.NewActionExpired(actionID)
		}
		return nil, nil, apperrors.NewActionNotPending(actionID)
	}

	action.Status = domain.Approved
	action.ReviewedAt = &now
	action.ReviewedBy = &userID
	action.LastUpdatedAt = now
	action.LastUpdatedBy = userID

	s.audit.Record(ctx, tenantID, entityID, "action", actionID, "approve", nil, action)
	metrics.ActionsReviewed.WithLabelValues("approved").Inc()

	// The approval is recorded regardless of whether the downstream
	// effect succeeds; a failed execution is surfaced in the result for
	// operators to retry, never rolled back.
	result := s.registry.Apply(ctx, ExecutionInput{Action: *action, UserID: userID, Role: userRole})
	if !result.Success {
		logger.Warn("Action approved but execution failed",
			slog.String("action_id", actionID),
			slog.String("type", string(action.Type)),
			slog.String("error", result.Error),
		)
	}
	return action, &result, nil
}

// RejectAction marks a PENDING action REJECTED and dispatches the
// type's compensating handler best-effort.
// Implements portssvc.ActionSvcFacade.
func (s *actionService) RejectAction(ctx context.Context, tenantID, entityID, actionID, userID string) (*domain.Action, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.checkEntity(ctx, tenantID, entityID); err != nil {
		return nil, err
	}

	action, err := s.actionRepo.FindActionByID(ctx, tenantID, entityID, actionID)
	if err != nil {
		return nil, err
	}
	if action.Status != domain.Pending {
		return nil, apperrors.NewActionNotPending(actionID)
	}

	now := time.Now().UTC()
	updated, err := s.actionRepo.MarkReviewed(ctx, tenantID, entityID, actionID, domain.Rejected, userID, now, false)
	if err != nil {
		return nil, fmt.Errorf("failed to reject action %s: %w", actionID, err)
	}
	if !updated {
		return nil, apperrors.NewActionNotPending(actionID)
	}

	action.Status = domain.Rejected
	action.ReviewedAt = &now
	action.ReviewedBy = &userID
	action.LastUpdatedAt = now
	action.LastUpdatedBy = userID

	s.audit.Record(ctx, tenantID, entityID, "action", actionID, "reject", nil, action)
	metrics.ActionsReviewed.WithLabelValues("rejected").Inc()

	// Compensation is best-effort; its failure is logged, not surfaced.
	result := s.registry.Compensate(ctx, ExecutionInput{Action: *action, UserID: userID})
	if !result.Success {
		logger.Warn("Compensating cleanup failed after reject",
			slog.String("action_id", actionID),
			slog.String("type", string(action.Type)),
			slog.String("error", result.Error),
		)
	}
	return action, nil
}

// BatchApprove reviews each id independently; the result is always a
// full per-item breakdown, never all-or-nothing.
// Implements portssvc.ActionSvcFacade.
func (s *actionService) BatchApprove(ctx context.Context, tenantID, entityID string, actionIDs []string, userID string, userRole domain.UserRole) (*dto.BatchActionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.checkEntity(ctx, tenantID, entityID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	resp := &dto.BatchActionResponse{Succeeded: []string{}, Failed: []dto.BatchFailure{}}
	for _, actionID := range actionIDs {
		updated, err := s.actionRepo.MarkReviewed(ctx, tenantID, entityID, actionID, domain.Approved, userID, now, true)
		if err != nil {
			logger.Error("Batch approve item errored", slog.String("action_id", actionID), slog.String("error", err.Error()))
			resp.Failed = append(resp.Failed, dto.BatchFailure{ActionID: actionID, Reason: batchFailureReason})
			continue
		}
		if !updated {
			resp.Failed = append(resp.Failed, dto.BatchFailure{ActionID: actionID, Reason: batchFailureReason})
			continue
		}

		resp.Succeeded = append(resp.Succeeded, actionID)
		metrics.ActionsReviewed.WithLabelValues("approved").Inc()

		action, err := s.actionRepo.FindActionByID(ctx, tenantID, entityID, actionID)
		if err != nil {
			logger.Warn("Approved action vanished before execution", slog.String("action_id", actionID), slog.String("error", err.Error()))
			continue
		}
		result := s.registry.Apply(ctx, ExecutionInput{Action: *action, UserID: userID, Role: userRole})
		if !result.Success {
			logger.Warn("Batch-approved action execution failed", slog.String("action_id", actionID), slog.String("error", result.Error))
		}
	}

	s.audit.Record(ctx, tenantID, entityID, "action", "", "batch_approve", nil, resp)
	return resp, nil
}

// BatchReject mirrors BatchApprove for rejection.
// Implements portssvc.ActionSvcFacade.
func (s *actionService) BatchReject(ctx context.Context, tenantID, entityID string, actionIDs []string, userID string) (*dto.BatchActionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.checkEntity(ctx, tenantID, entityID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	resp := &dto.BatchActionResponse{Succeeded: []string{}, Failed: []dto.BatchFailure{}}
	for _, actionID := range actionIDs {
		updated, err := s.actionRepo.MarkReviewed(ctx, tenantID, entityID, actionID, domain.Rejected, userID, now, false)
		if err != nil {
			logger.Error("Batch reject item errored", slog.String("action_id", actionID), slog.String("error", err.Error()))
			resp.Failed = append(resp.Failed, dto.BatchFailure{ActionID: actionID, Reason: batchFailureReason})
			continue
		}
		if !updated {
			resp.Failed = append(resp.Failed, dto.BatchFailure{ActionID: actionID, Reason: batchFailureReason})
			continue
		}

		resp.Succeeded = append(resp.Succeeded, actionID)
		metrics.ActionsReviewed.WithLabelValues("rejected").Inc()

		action, err := s.actionRepo.FindActionByID(ctx, tenantID, entityID, actionID)
		if err != nil {
			continue
		}
		result := s.registry.Compensate(ctx, ExecutionInput{Action: *action, UserID: userID})
		if !result.Success {
			logger.Warn("Batch-rejected action compensation failed", slog.String("action_id", actionID), slog.String("error", result.Error))
		}
	}

	s.audit.Record(ctx, tenantID, entityID, "action", "", "batch_reject", nil, resp)
	return resp, nil
}

// ExpireStaleActions flips overdue PENDING actions to EXPIRED.
// Implements portssvc.ActionSvcFacade.
func (s *actionService) ExpireStaleActions(ctx context.Context, tenantID, entityID string) (int64, error) {
	if err := s.checkEntity(ctx, tenantID, entityID); err != nil {
		return 0, err
	}
	return s.expireStale(ctx, tenantID, entityID)
}

func (s *actionService) expireStale(ctx context.Context, tenantID, entityID string) (int64, error) {
	count, err := s.actionRepo.ExpireStale(ctx, tenantID, entityID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale actions: %w", err)
	}
	if count > 0 {
		metrics.ActionsExpired.Add(float64(count))
		middleware.GetLoggerFromCtx(ctx).Info("Expired stale actions", slog.Int64("count", count), slog.String("entity_id", entityID))
	}
	return count, nil
}

// flipExpired marks one overdue PENDING action EXPIRED.
func (s *actionService) flipExpired(ctx context.Context, tenantID, entityID, actionID string, now time.Time) error {
	flipped, err := s.actionRepo.MarkExpired(ctx, tenantID, entityID, actionID, now)
	if err != nil {
		return err
	}
	if flipped {
		metrics.ActionsExpired.Inc()
	}
	return nil
}

// GetStats reports counts by status plus a pending-by-type breakdown.
// Implements portssvc.ActionSvcFacade.
func (s *actionService) GetStats(ctx context.Context, tenantID, entityID string) (*domain.ActionStats, error) {
	if err := s.checkEntity(ctx, tenantID, entityID); err != nil {
		return nil, err
	}
	return s.actionRepo.CountActionStats(ctx, tenantID, entityID)
}
