package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	"github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerline/ledgerline_backend/internal/core/ports/services"
)

// Statuses an automation rule moves through when its suggestion is
// reviewed.
const (
	ruleStatusActive   = "ACTIVE"
	ruleStatusRejected = "REJECTED"
)

type ruleReviewService struct {
	ruleRepo repositories.RuleWriter
}

// NewRuleReviewService creates the rule-suggestion review flow used by
// the executor registry.
func NewRuleReviewService(ruleRepo repositories.RuleWriter) portssvc.RuleReviewSvc {
	return &ruleReviewService{ruleRepo: ruleRepo}
}

var _ portssvc.RuleReviewSvc = (*ruleReviewService)(nil)

// Approve activates a suggested rule. Returns apperrors.ErrConflict
// when the rule was already reviewed, which callers treat as
// idempotent success.
func (s *ruleReviewService) Approve(ctx context.Context, tenantID, ruleID, userID string) error {
	updated, err := s.ruleRepo.MarkRuleReviewed(ctx, tenantID, ruleID, ruleStatusActive, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to activate rule %s: %w", ruleID, err)
	}
	if !updated {
		return apperrors.ErrConflict
	}
	return nil
}

// Reject marks a suggested rule rejected. Same conflict contract as
// Approve.
func (s *ruleReviewService) Reject(ctx context.Context, tenantID, ruleID, userID, reason string) error {
	updated, err := s.ruleRepo.MarkRuleReviewed(ctx, tenantID, ruleID, ruleStatusRejected, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to reject rule %s: %w", ruleID, err)
	}
	if !updated {
		return apperrors.ErrConflict
	}
	return nil
}
