package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	portssvc "github.com/ledgerline/ledgerline_backend/internal/core/ports/services"
	"github.com/ledgerline/ledgerline_backend/internal/metrics"
	"github.com/ledgerline/ledgerline_backend/internal/middleware"
)

// ExecutionInput carries an approved or rejected action into its
// executor together with the reviewing user's identity.
type ExecutionInput struct {
	Action domain.Action
	UserID string
	Role   domain.UserRole
}

// ExecutorFunc applies or compensates one action. It never returns a Go
// error: every failure is folded into the result so batch callers and
// the approval flow continue past partial failures.
type ExecutorFunc func(ctx context.Context, in ExecutionInput) domain.ExecutionResult

// Executor pairs the apply handler with its compensating rejection handler.
// A nil Compensate means rejection is a pure no-op for the type.
type Executor struct {
	Apply      ExecutorFunc
	Compensate ExecutorFunc
}

// ExecutorRegistry dispatches actions to their type's handler pair.
// The set of types is closed; an unknown type yields a failure result,
// never a panic or error.
type ExecutorRegistry struct {
	executors map[domain.ActionType]Executor
}

// NewExecutorRegistry wires the four known action types to their
// collaborators.
func NewExecutorRegistry(
	ledger portssvc.LedgerEntrySvcFacade,
	entryLookup EntryLookup,
	feedTxns portssvc.FeedTransactionSvc,
	categories portssvc.CategoryDirectorySvc,
	rules portssvc.RuleReviewSvc,
	insights portssvc.InsightSvc,
) *ExecutorRegistry {
	r := &ExecutorRegistry{executors: make(map[domain.ActionType]Executor)}

	r.executors[domain.ActionLedgerDraft] = Executor{
		Apply:      ledgerDraftApply(ledger, entryLookup),
		Compensate: ledgerDraftCompensate(ledger, entryLookup, feedTxns),
	}
	r.executors[domain.ActionCategorization] = Executor{
		Apply: categorizationApply(feedTxns, categories),
		// Rejecting a categorization suggestion needs no cleanup.
	}
	r.executors[domain.ActionRuleSuggestion] = Executor{
		Apply:      ruleSuggestionApply(rules),
		Compensate: ruleSuggestionCompensate(rules),
	}
	r.executors[domain.ActionAlert] = Executor{
		Apply:      alertApply(),
		Compensate: alertCompensate(insights),
	}
	return r
}

// EntryLookup is the slice of the ledger read side the ledger-draft
// executor needs, independent of the full service facade.
type EntryLookup interface {
	GetEntryByID(ctx context.Context, tenantID, entityID, entryID string) (*domain.LedgerEntry, error)
}

// Apply runs the type's apply handler. Unknown types and panics become
// failure results.
func (r *ExecutorRegistry) Apply(ctx context.Context, in ExecutionInput) (result domain.ExecutionResult) {
	defer recoverIntoResult(ctx, in, &result)

	executor, ok := r.executors[in.Action.Type]
	if !ok {
		return failure(in, fmt.Sprintf("unknown action type: %s", in.Action.Type))
	}
	result = executor.Apply(ctx, in)
	if !result.Success {
		metrics.ExecutorFailures.WithLabelValues(string(in.Action.Type)).Inc()
	}
	return result
}

// Compensate runs the type's compensating handler, if any.
func (r *ExecutorRegistry) Compensate(ctx context.Context, in ExecutionInput) (result domain.ExecutionResult) {
	defer recoverIntoResult(ctx, in, &result)

	executor, ok := r.executors[in.Action.Type]
	if !ok {
		return failure(in, fmt.Sprintf("unknown action type: %s", in.Action.Type))
	}
	if executor.Compensate == nil {
		return success(in, "no compensating action for this type")
	}
	result = executor.Compensate(ctx, in)
	if !result.Success {
		metrics.ExecutorFailures.WithLabelValues(string(in.Action.Type)).Inc()
	}
	return result
}

// recoverIntoResult converts a handler panic into a failure result so
// the never-propagate contract holds even for unexpected bugs.
func recoverIntoResult(ctx context.Context, in ExecutionInput, result *domain.ExecutionResult) {
	if rec := recover(); rec != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Executor panicked",
			slog.String("action_id", in.Action.ActionID),
			slog.String("action_type", string(in.Action.Type)),
			slog.Any("panic", rec),
		)
		metrics.ExecutorFailures.WithLabelValues(string(in.Action.Type)).Inc()
		*result = failure(in, fmt.Sprintf("internal executor failure: %v", rec))
	}
}

func success(in ExecutionInput, detail string) domain.ExecutionResult {
	return domain.ExecutionResult{Success: true, ActionID: in.Action.ActionID, Type: in.Action.Type, Detail: detail}
}

func failure(in ExecutionInput, errMsg string) domain.ExecutionResult {
	return domain.ExecutionResult{Success: false, ActionID: in.Action.ActionID, Type: in.Action.Type, Error: errMsg}
}

func ledgerDraftApply(ledger portssvc.LedgerEntrySvcFacade, entries EntryLookup) ExecutorFunc {
	return func(ctx context.Context, in ExecutionInput) domain.ExecutionResult {
		var payload domain.LedgerDraftPayload
		if err := json.Unmarshal(in.Action.Payload, &payload); err != nil || payload.EntryID == "" {
			return failure(in, "payload does not reference a ledger entry")
		}

		entry, err := entries.GetEntryByID(ctx, in.Action.TenantID, in.Action.EntityID, payload.EntryID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return failure(in, fmt.Sprintf("draft entry %s not found", payload.EntryID))
			}
			return failure(in, err.Error())
		}

		switch entry.Status {
		case domain.Posted:
			// Already applied, approving again is a no-op.
			return success(in, "entry already posted")
		case domain.Voided:
			return failure(in, "cannot approve a voided entry")
		}

		if _, err := ledger.ApproveEntry(ctx, in.Action.TenantID, in.Action.EntityID, payload.EntryID, in.UserID, in.Role); err != nil {
			return failure(in, err.Error())
		}
		return success(in, fmt.Sprintf("entry %s posted", payload.EntryID))
	}
}

func ledgerDraftCompensate(ledger portssvc.LedgerEntrySvcFacade, entries EntryLookup, feedTxns portssvc.FeedTransactionSvc) ExecutorFunc {
	return func(ctx context.Context, in ExecutionInput) domain.ExecutionResult {
		logger := middleware.GetLoggerFromCtx(ctx)

		var payload domain.LedgerDraftPayload
		if err := json.Unmarshal(in.Action.Payload, &payload); err != nil || payload.EntryID == "" {
			return failure(in, "payload does not reference a ledger entry")
		}

		entry, err := entries.GetEntryByID(ctx, in.Action.TenantID, in.Action.EntityID, payload.EntryID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return success(in, "draft entry already gone")
			}
			return failure(in, err.Error())
		}
		if entry.Status != domain.Draft {
			// Posted/voided entries are immutable history; leave them be.
			return success(in, "entry no longer a draft, nothing to clean up")
		}

		if err := ledger.DeleteEntry(ctx, in.Action.TenantID, in.Action.EntityID, payload.EntryID, in.UserID); err != nil {
			return failure(in, err.Error())
		}
		if err := feedTxns.UnlinkEntry(ctx, payload.EntryID); err != nil {
			// Best-effort; the draft itself is already gone.
			logger.Warn("Failed to unlink feed transactions from rejected draft", slog.String("entry_id", payload.EntryID), slog.String("error", err.Error()))
		}
		return success(in, fmt.Sprintf("draft entry %s deleted", payload.EntryID))
	}
}

func categorizationApply(feedTxns portssvc.FeedTransactionSvc, categories portssvc.CategoryDirectorySvc) ExecutorFunc {
	return func(ctx context.Context, in ExecutionInput) domain.ExecutionResult {
		var payload domain.CategorizationPayload
		if err := json.Unmarshal(in.Action.Payload, &payload); err != nil || payload.TransactionID == "" || payload.CategoryID == "" {
			return failure(in, "payload does not reference a transaction and category")
		}

		txn, err := feedTxns.FindByID(ctx, in.Action.TenantID, in.Action.EntityID, payload.TransactionID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return failure(in, fmt.Sprintf("transaction %s not found", payload.TransactionID))
			}
			return failure(in, err.Error())
		}

		if txn.CategoryID != nil && *txn.CategoryID == payload.CategoryID {
			return success(in, "category already assigned")
		}

		ok, err := categories.CategoryExists(ctx, in.Action.TenantID, payload.CategoryID)
		if err != nil {
			return failure(in, err.Error())
		}
		if !ok {
			return failure(in, fmt.Sprintf("category %s not found for tenant", payload.CategoryID))
		}

		if err := feedTxns.SetCategory(ctx, payload.TransactionID, payload.CategoryID, in.UserID); err != nil {
			return failure(in, err.Error())
		}
		return success(in, fmt.Sprintf("category %s applied", payload.CategoryID))
	}
}

func ruleSuggestionApply(rules portssvc.RuleReviewSvc) ExecutorFunc {
	return func(ctx context.Context, in ExecutionInput) domain.ExecutionResult {
		var payload domain.RuleSuggestionPayload
		if err := json.Unmarshal(in.Action.Payload, &payload); err != nil || payload.RuleID == "" {
			return failure(in, "payload does not reference a rule")
		}

		if err := rules.Approve(ctx, in.Action.TenantID, payload.RuleID, in.UserID); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return success(in, "rule already reviewed")
			}
			return failure(in, err.Error())
		}
		return success(in, fmt.Sprintf("rule %s activated", payload.RuleID))
	}
}

func ruleSuggestionCompensate(rules portssvc.RuleReviewSvc) ExecutorFunc {
	return func(ctx context.Context, in ExecutionInput) domain.ExecutionResult {
		var payload domain.RuleSuggestionPayload
		if err := json.Unmarshal(in.Action.Payload, &payload); err != nil || payload.RuleID == "" {
			return failure(in, "payload does not reference a rule")
		}

		if err := rules.Reject(ctx, in.Action.TenantID, payload.RuleID, in.UserID, "suggestion rejected"); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return success(in, "rule already reviewed")
			}
			return failure(in, err.Error())
		}
		return success(in, fmt.Sprintf("rule %s rejected", payload.RuleID))
	}
}

func alertApply() ExecutorFunc {
	return func(_ context.Context, in ExecutionInput) domain.ExecutionResult {
		// Approving an alert is an acknowledgment; there is nothing to mutate.
		return success(in, "alert acknowledged")
	}
}

func alertCompensate(insights portssvc.InsightSvc) ExecutorFunc {
	return func(ctx context.Context, in ExecutionInput) domain.ExecutionResult {
		var payload domain.AlertPayload
		if err := json.Unmarshal(in.Action.Payload, &payload); err != nil || payload.InsightID == "" {
			return success(in, "no linked insight to dismiss")
		}

		if err := insights.Dismiss(ctx, in.Action.TenantID, payload.InsightID); err != nil {
			return failure(in, err.Error())
		}
		return success(in, fmt.Sprintf("insight %s dismissed", payload.InsightID))
	}
}
