package commission

import (
	"context"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
	"tradecore/pkg/logger"
)

// Service manages commission accruals produced by posted documents.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordAccruals validates and stores commission accruals for a document.
func (s *Service) RecordAccruals(ctx context.Context, accruals []entity.CommissionMovement) error {
	if len(accruals) == 0 {
		return nil
	}

	for i := range accruals {
		a := &accruals[i]
		if id.IsNil(a.RecorderID) {
			return apperror.NewValidation("accrual has no recorder")
		}
		if id.IsNil(a.SalespersonID) {
			return apperror.NewValidation("accrual has no salesperson")
		}
		if a.BaseAmount.IsNegative() {
			return apperror.NewValidation("accrual base amount cannot be negative")
		}
		if a.Rate.IsNegative() {
			return apperror.NewValidation("accrual rate cannot be negative")
		}
	}

	if err := s.repo.CreateAccruals(ctx, accruals); err != nil {
		return apperror.NewInternal(err)
	}

	logger.Info(ctx, "commission accruals recorded",
		"recorder_id", accruals[0].RecorderID,
		"count", len(accruals))

	return nil
}

// ReverseAccruals removes all accruals recorded by a document.
func (s *Service) ReverseAccruals(ctx context.Context, recorderID id.ID) error {
	if err := s.repo.DeleteAccrualsByRecorder(ctx, recorderID); err != nil {
		return apperror.NewInternal(err)
	}
	logger.Info(ctx, "commission accruals reversed", "recorder_id", recorderID)
	return nil
}

func (s *Service) GetAccrualsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.CommissionMovement, error) {
	return s.repo.GetAccrualsByRecorder(ctx, recorderID)
}

func (s *Service) GetAccruedTotal(ctx context.Context, salespersonID id.ID, filter AccrualFilter) (types.Money, error) {
	accruals, err := s.repo.GetAccrualsBySalesperson(ctx, salespersonID, filter)
	if err != nil {
		return types.Zero(), apperror.NewInternal(err)
	}
	total := types.Zero()
	for i := range accruals {
		total = total.Add(accruals[i].Amount)
	}
	return total, nil
}

func (s *Service) GetAccrualsBySalesperson(ctx context.Context, salespersonID id.ID, filter AccrualFilter) ([]entity.CommissionMovement, error) {
	return s.repo.GetAccrualsBySalesperson(ctx, salespersonID, filter)
}
