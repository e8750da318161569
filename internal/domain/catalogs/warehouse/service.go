package warehouse

import (
	"context"
	"fmt"
	"time"

	"tradecore/internal/domain"
	"tradecore/pkg/numerator"
)

// Service provides business logic for the Warehouse catalog.
type Service struct {
	*domain.CatalogService[*Warehouse]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Warehouse service.
// In Database-per-Tenant, TxManager is obtained from context.
func NewService(repo Repository, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Warehouse]{
		Repo:       repo,
		TxManager:  nil, // Will be obtained from context
		Numerator:  num,
		EntityName: "warehouse",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)

	return svc
}

// prepareForCreate handles code generation and the default flag.
func (s *Service) prepareForCreate(ctx context.Context, wh *Warehouse) error {
	if wh.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("WH"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		wh.Code = code
	}

	if wh.IsDefault {
		if err := s.repo.ClearDefault(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) prepareForUpdate(ctx context.Context, wh *Warehouse) error {
	if wh.IsDefault {
		if err := s.repo.ClearDefault(ctx); err != nil {
			return err
		}
	}
	return nil
}
