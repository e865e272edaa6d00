package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerline/ledgerline_backend/internal/core/ports/services"
)

type insightService struct {
	insightRepo repositories.InsightWriter
}

// NewInsightService creates the insight dismissal collaborator.
func NewInsightService(insightRepo repositories.InsightWriter) portssvc.InsightSvc {
	return &insightService{insightRepo: insightRepo}
}

var _ portssvc.InsightSvc = (*insightService)(nil)

func (s *insightService) Dismiss(ctx context.Context, tenantID, insightID string) error {
	if err := s.insightRepo.DismissInsight(ctx, tenantID, insightID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to dismiss insight %s: %w", insightID, err)
	}
	return nil
}
