package journal

import (
	"context"
	"fmt"
	"time"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
	"tradecore/pkg/logger"
)

// Service provides business operations for the journal register.
// Transactions are managed by the caller.
type Service struct {
	repo Repository
}

// NewService creates a new journal register service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordEntries validates and inserts a balanced set of journal lines.
func (s *Service) RecordEntries(ctx context.Context, entries []entity.JournalMovement) error {
	if len(entries) == 0 {
		return nil
	}

	var debits, credits types.Money
	for i, e := range entries {
		if e.Account == "" {
			return apperror.NewValidation(fmt.Sprintf("entry %d: account is required", i))
		}
		if id.IsNil(e.RecorderID) {
			return apperror.NewValidation(fmt.Sprintf("entry %d: recorder_id is required", i))
		}
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return apperror.NewValidation(fmt.Sprintf("entry %d: amounts must be non-negative", i))
		}
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}

	if !debits.Equal(credits) {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"journal entries must balance",
		).WithDetail("debits", debits.String()).WithDetail("credits", credits.String())
	}

	if err := s.repo.CreateEntries(ctx, entries); err != nil {
		return fmt.Errorf("create journal entries: %w", err)
	}

	logger.Info(ctx, "recorded journal entries",
		"count", len(entries),
		"recorder_id", entries[0].RecorderID,
		"amount", debits.String(),
	)

	return nil
}

// ReverseEntries removes all journal lines recorded by a document.
func (s *Service) ReverseEntries(ctx context.Context, recorderID id.ID) error {
	if err := s.repo.DeleteEntriesByRecorder(ctx, recorderID); err != nil {
		return fmt.Errorf("delete journal entries: %w", err)
	}
	return nil
}

// GetEntriesByRecorder returns the lines a document produced.
func (s *Service) GetEntriesByRecorder(ctx context.Context, recorderID id.ID) ([]entity.JournalMovement, error) {
	return s.repo.GetEntriesByRecorder(ctx, recorderID)
}

// GetAccountBalance returns debit minus credit for an account.
func (s *Service) GetAccountBalance(ctx context.Context, account string, until time.Time) (types.Money, error) {
	return s.repo.GetAccountBalance(ctx, account, until)
}

// GetEntriesByAccount lists lines for an account in a period.
func (s *Service) GetEntriesByAccount(ctx context.Context, account string, filter EntryFilter) ([]entity.JournalMovement, error) {
	return s.repo.GetEntriesByAccount(ctx, account, filter)
}
