package sales_invoice

import (
	"context"
	"fmt"
	"time"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/id"
	"tradecore/internal/core/tenant"
	"tradecore/internal/core/tx"
	"tradecore/internal/domain"
	"tradecore/internal/domain/catalogs/salesperson"
	"tradecore/internal/domain/posting"
	"tradecore/internal/domain/uom"
	"tradecore/pkg/logger"
	"tradecore/pkg/numerator"
)

// SalespersonSource provides salesperson lookups for rate snapshotting.
type SalespersonSource interface {
	GetByID(ctx context.Context, spID id.ID) (*salesperson.Salesperson, error)
}

// Service provides business operations for sales invoices.
// In Database-per-Tenant architecture, TxManager is obtained from context.
type Service struct {
	repo          Repository
	postingEngine *posting.Engine
	normalizer    *uom.Normalizer
	items         uom.ItemSource
	salespersons  SalespersonSource
	numerator     *numerator.Service
	txManager     tx.Manager // Optional. If nil, obtained from context.
	hooks         *domain.HookRegistry[*SalesInvoice]
}

// NewService creates a new sales invoice service.
func NewService(
	repo Repository,
	postingEngine *posting.Engine,
	normalizer *uom.Normalizer,
	items uom.ItemSource,
	salespersons SalespersonSource,
	num *numerator.Service,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:          repo,
		postingEngine: postingEngine,
		normalizer:    normalizer,
		items:         items,
		salespersons:  salespersons,
		numerator:     num,
		txManager:     txManager,
		hooks:         domain.NewHookRegistry[*SalesInvoice](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*SalesInvoice] {
	return s.hooks
}

func (s *Service) getTxManager(ctx context.Context) (tx.Manager, error) {
	if s.txManager != nil {
		return s.txManager, nil
	}
	return tenant.GetTxManager(ctx)
}

// enrichLines normalizes every entered quantity to base units and fills
// prices and valuation rates from the item catalog. Any error aborts the
// whole operation.
func (s *Service) enrichLines(ctx context.Context, doc *SalesInvoice) error {
	for i := range doc.Lines {
		line := &doc.Lines[i]

		nl, err := s.normalizer.Normalize(ctx, line.ItemID, line.PackagingID, line.EnteredQty)
		if err != nil {
			return err
		}
		line.ConversionFactor = nl.ConversionFactor
		line.Quantity = nl.NormalizedQty

		it, err := s.items.GetWithPackagings(ctx, line.ItemID)
		if err != nil {
			return err
		}
		line.CostRate = it.CostRate
		if line.UnitPrice.IsZero() {
			line.UnitPrice = it.SalesPrice
		}
	}

	doc.RecalculateTotals()
	return nil
}

// snapshotCommissionRate copies the salesperson's current rate onto the
// document so past accruals survive later rate changes.
func (s *Service) snapshotCommissionRate(ctx context.Context, doc *SalesInvoice) error {
	if doc.SalespersonID == nil {
		return nil
	}

	sp, err := s.salespersons.GetByID(ctx, *doc.SalespersonID)
	if err != nil {
		return err
	}
	if !sp.IsActive {
		return apperror.NewBusinessRule("SALESPERSON_INACTIVE", "salesperson is not active").
			WithDetail("salesperson_id", doc.SalespersonID.String())
	}
	doc.CommissionRate = sp.CommissionRate
	return nil
}

func (s *Service) ensureNumber(ctx context.Context, doc *SalesInvoice) error {
	if doc.Number != "" {
		return nil
	}
	cfg := numerator.DefaultConfig(NumberPrefix)
	number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: NumeratorStrategy}, time.Now())
	if err != nil {
		return fmt.Errorf("generate number: %w", err)
	}
	doc.Number = number
	return nil
}

// Create creates a new sales invoice with normalized lines.
func (s *Service) Create(ctx context.Context, doc *SalesInvoice) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if err := s.enrichLines(ctx, doc); err != nil {
		return err
	}

	if err := s.ensureNumber(ctx, doc); err != nil {
		return err
	}

	txm, err := s.getTxManager(ctx)
	if err != nil {
		return apperror.NewInternal(err).WithDetail("missing", "tx_manager")
	}
	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "sales invoice created",
		"id", doc.ID,
		"number", doc.Number)

	return nil
}

// GetByID retrieves an invoice with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*SalesInvoice, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Update updates a sales invoice.
func (s *Service) Update(ctx context.Context, doc *SalesInvoice) error {
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	if err := doc.CanModify(); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if err := s.enrichLines(ctx, doc); err != nil {
		return err
	}

	txm, err := s.getTxManager(ctx)
	if err != nil {
		return apperror.NewInternal(err).WithDetail("missing", "tx_manager")
	}
	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// Delete soft-deletes an invoice. Posted invoices must be unposted first.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if doc.Posted {
		return doc.CanModify()
	}

	return s.repo.Delete(ctx, docID)
}

// Post expenses stock and runs downstream postings. The returned result
// carries the per-poster downstream outcomes.
func (s *Service) Post(ctx context.Context, docID id.ID) (*posting.Result, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if err := s.enrichLines(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.snapshotCommissionRate(ctx, doc); err != nil {
		return nil, err
	}

	updateDoc := func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return err
		}
		return s.repo.SaveLines(ctx, doc.ID, doc.Lines)
	}

	return s.postingEngine.Post(ctx, doc, updateDoc)
}

// Unpost reverses the invoice's movements and downstream postings.
func (s *Service) Unpost(ctx context.Context, docID id.ID) (*posting.Result, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	updateDoc := func(ctx context.Context) error {
		return s.repo.Update(ctx, doc)
	}

	return s.postingEngine.Unpost(ctx, doc, updateDoc)
}

// PostAndSave creates (or updates) and posts in one operation.
// Used by the save-and-post endpoint.
func (s *Service) PostAndSave(ctx context.Context, doc *SalesInvoice) (*posting.Result, error) {
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.enrichLines(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.snapshotCommissionRate(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.ensureNumber(ctx, doc); err != nil {
		return nil, err
	}

	updateDoc := func(ctx context.Context) error {
		if doc.Version == 1 {
			if err := s.repo.Create(ctx, doc); err != nil {
				return err
			}
			return s.repo.SaveLines(ctx, doc.ID, doc.Lines)
		}
		if err := s.repo.Update(ctx, doc); err != nil {
			return err
		}
		return s.repo.SaveLines(ctx, doc.ID, doc.Lines)
	}

	return s.postingEngine.Post(ctx, doc, updateDoc)
}

// MarkPaid moves a sent invoice to paid.
func (s *Service) MarkPaid(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := doc.ChangeStatus(machine, StatusPaid); err != nil {
		return err
	}

	txm, err := s.getTxManager(ctx)
	if err != nil {
		return apperror.NewInternal(err).WithDetail("missing", "tx_manager")
	}
	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, doc)
	})
}

// List retrieves invoices with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*SalesInvoice], error) {
	return s.repo.List(ctx, filter)
}
