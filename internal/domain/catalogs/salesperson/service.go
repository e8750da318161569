package salesperson

import (
	"context"
	"fmt"
	"time"

	"tradecore/internal/domain"
	"tradecore/pkg/numerator"
)

// Service provides business logic for the Salesperson catalog.
type Service struct {
	*domain.CatalogService[*Salesperson]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Salesperson service.
// In Database-per-Tenant, TxManager is obtained from context.
func NewService(repo Repository, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Salesperson]{
		Repo:       repo,
		TxManager:  nil, // Will be obtained from context
		Numerator:  num,
		EntityName: "salesperson",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, sp *Salesperson) error {
	if sp.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("SP"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		sp.Code = code
	}
	return nil
}
