package item

import (
	"context"
	"fmt"
	"time"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/id"
	"tradecore/internal/domain"
	"tradecore/pkg/numerator"
)

// Service provides business logic for the Item catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Item]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Item service.
// In Database-per-Tenant, TxManager is obtained from context.
func NewService(repo Repository, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Item]{
		Repo:       repo,
		TxManager:  nil, // Will be obtained from context
		Numerator:  num,
		EntityName: "item",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkUniqueness)
	base.Hooks().OnAfterCreate(svc.savePackagings)
	base.Hooks().OnAfterUpdate(svc.savePackagings)

	return svc
}

// prepareForCreate handles code generation and uniqueness checks.
func (s *Service) prepareForCreate(ctx context.Context, it *Item) error {
	if it.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("ITM"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		it.Code = code
	}
	return s.checkUniqueness(ctx, it)
}

func (s *Service) checkUniqueness(ctx context.Context, it *Item) error {
	if it.SKU != nil && *it.SKU != "" {
		if existing, err := s.repo.FindBySKU(ctx, *it.SKU); err == nil && existing.ID != it.ID {
			return apperror.NewConflict("item with this SKU already exists").
				WithDetail("sku", *it.SKU)
		}
	}
	if it.Barcode != nil && *it.Barcode != "" {
		if existing, err := s.repo.FindByBarcode(ctx, *it.Barcode); err == nil && existing.ID != it.ID {
			return apperror.NewConflict("item with this barcode already exists").
				WithDetail("barcode", *it.Barcode)
		}
	}
	return nil
}

// savePackagings persists the packaging child rows after the item itself.
func (s *Service) savePackagings(ctx context.Context, it *Item) error {
	if it.Packagings == nil {
		return nil
	}
	for idx := range it.Packagings {
		if id.IsNil(it.Packagings[idx].ID) {
			it.Packagings[idx].ID = id.New()
		}
		it.Packagings[idx].ItemID = it.ID
	}
	return s.repo.ReplacePackagings(ctx, it.ID, it.Packagings)
}

// --- Entity-specific methods ---

// GetWithPackagings retrieves an item with packagings loaded.
func (s *Service) GetWithPackagings(ctx context.Context, itemID id.ID) (*Item, error) {
	it, err := s.repo.GetWithPackagings(ctx, itemID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("item", itemID.String())
		}
		return nil, err
	}
	return it, nil
}

// FindBySKU retrieves an item by SKU.
func (s *Service) FindBySKU(ctx context.Context, sku string) (*Item, error) {
	return s.repo.FindBySKU(ctx, sku)
}

// FindByBarcode retrieves an item by barcode.
func (s *Service) FindByBarcode(ctx context.Context, barcode string) (*Item, error) {
	return s.repo.FindByBarcode(ctx, barcode)
}
