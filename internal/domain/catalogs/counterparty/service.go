package counterparty

import (
	"context"
	"fmt"
	"time"

	"tradecore/internal/core/apperror"
	"tradecore/internal/domain"
	"tradecore/pkg/numerator"
)

// Service provides business logic for the Counterparty catalog.
type Service struct {
	*domain.CatalogService[*Counterparty]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Counterparty service.
// In Database-per-Tenant, TxManager is obtained from context.
func NewService(repo Repository, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Counterparty]{
		Repo:       repo,
		TxManager:  nil, // Will be obtained from context
		Numerator:  num,
		EntityName: "counterparty",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkTaxIDUnique)

	return svc
}

// prepareForCreate handles code generation and uniqueness checks.
func (s *Service) prepareForCreate(ctx context.Context, cp *Counterparty) error {
	if cp.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("CP"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		cp.Code = code
	}
	return s.checkTaxIDUnique(ctx, cp)
}

func (s *Service) checkTaxIDUnique(ctx context.Context, cp *Counterparty) error {
	if cp.TaxID == nil || *cp.TaxID == "" {
		return nil
	}
	if existing, err := s.repo.FindByTaxID(ctx, *cp.TaxID); err == nil && existing.ID != cp.ID {
		return apperror.NewConflict("counterparty with this tax id already exists").
			WithDetail("taxId", *cp.TaxID)
	}
	return nil
}

// FindByTaxID retrieves counterparty by tax id.
func (s *Service) FindByTaxID(ctx context.Context, taxID string) (*Counterparty, error) {
	return s.repo.FindByTaxID(ctx, taxID)
}
