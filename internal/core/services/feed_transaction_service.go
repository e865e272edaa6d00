package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	"github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerline/ledgerline_backend/internal/core/ports/services"
)

type feedTransactionService struct {
	feedRepo repositories.FeedTransactionRepositoryFacade
}

// NewFeedTransactionService creates the imported-transaction
// collaborator the executor registry works against.
func NewFeedTransactionService(feedRepo repositories.FeedTransactionRepositoryFacade) portssvc.FeedTransactionSvc {
	return &feedTransactionService{feedRepo: feedRepo}
}

var _ portssvc.FeedTransactionSvc = (*feedTransactionService)(nil)

func (s *feedTransactionService) FindByID(ctx context.Context, tenantID, entityID, transactionID string) (*domain.FeedTransaction, error) {
	return s.feedRepo.FindFeedTransactionByID(ctx, tenantID, entityID, transactionID)
}

func (s *feedTransactionService) SetCategory(ctx context.Context, transactionID, categoryID, userID string) error {
	if err := s.feedRepo.SetFeedTransactionCategory(ctx, transactionID, categoryID, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to categorize transaction %s: %w", transactionID, err)
	}
	return nil
}

func (s *feedTransactionService) UnlinkEntry(ctx context.Context, entryID string) error {
	if err := s.feedRepo.UnlinkFeedTransactionsFromEntry(ctx, entryID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to unlink transactions from entry %s: %w", entryID, err)
	}
	return nil
}
