package sales_order

import (
	"context"
	"fmt"
	"time"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/id"
	"tradecore/internal/core/status"
	"tradecore/internal/core/tenant"
	"tradecore/internal/core/tx"
	"tradecore/internal/domain"
	"tradecore/internal/domain/documents/sales_invoice"
	"tradecore/internal/domain/posting"
	"tradecore/internal/domain/uom"
	"tradecore/pkg/logger"
	"tradecore/pkg/numerator"
)

// Service provides business operations for sales orders.
// In Database-per-Tenant architecture, TxManager is obtained from context.
type Service struct {
	repo       Repository
	invoices   *sales_invoice.Service
	normalizer *uom.Normalizer
	numerator  *numerator.Service
	txManager  tx.Manager // Optional. If nil, obtained from context.
	hooks      *domain.HookRegistry[*SalesOrder]
}

// NewService creates a new sales order service.
func NewService(
	repo Repository,
	invoices *sales_invoice.Service,
	normalizer *uom.Normalizer,
	num *numerator.Service,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:       repo,
		invoices:   invoices,
		normalizer: normalizer,
		numerator:  num,
		txManager:  txManager,
		hooks:      domain.NewHookRegistry[*SalesOrder](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*SalesOrder] {
	return s.hooks
}

func (s *Service) getTxManager(ctx context.Context) (tx.Manager, error) {
	if s.txManager != nil {
		return s.txManager, nil
	}
	return tenant.GetTxManager(ctx)
}

// enrichLines normalizes entered quantities to base units.
func (s *Service) enrichLines(ctx context.Context, doc *SalesOrder) error {
	for i := range doc.Lines {
		line := &doc.Lines[i]
		nl, err := s.normalizer.Normalize(ctx, line.ItemID, line.PackagingID, line.EnteredQty)
		if err != nil {
			return err
		}
		line.ConversionFactor = nl.ConversionFactor
		line.Quantity = nl.NormalizedQty
	}
	doc.RecalculateTotals()
	return nil
}

// Create creates a new sales order.
func (s *Service) Create(ctx context.Context, doc *SalesOrder) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if err := s.enrichLines(ctx, doc); err != nil {
		return err
	}

	if doc.Number == "" {
		cfg := numerator.DefaultConfig(NumberPrefix)
		number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: NumeratorStrategy}, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
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

	logger.Info(ctx, "sales order created", "id", doc.ID, "number", doc.Number)

	return nil
}

// GetByID retrieves an order with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*SalesOrder, error) {
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

// Update updates a sales order.
func (s *Service) Update(ctx context.Context, doc *SalesOrder) error {
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	if doc.Status == StatusInvoiced {
		return apperror.NewBusinessRule("ORDER_INVOICED", "invoiced order cannot be modified").
			WithDetail("document_id", doc.ID.String())
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

// Delete soft-deletes an order.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if doc.Status == StatusInvoiced {
		return apperror.NewBusinessRule("ORDER_INVOICED", "invoiced order cannot be deleted").
			WithDetail("document_id", doc.ID.String())
	}

	return s.repo.Delete(ctx, docID)
}

// changeStatus applies a workflow transition and saves.
func (s *Service) changeStatus(ctx context.Context, docID id.ID, to status.Status) (*SalesOrder, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if err := doc.ChangeStatus(machine, to); err != nil {
		return nil, err
	}

	txm, err := s.getTxManager(ctx)
	if err != nil {
		return nil, apperror.NewInternal(err).WithDetail("missing", "tx_manager")
	}
	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Confirm moves a draft order to confirmed.
func (s *Service) Confirm(ctx context.Context, docID id.ID) (*SalesOrder, error) {
	return s.changeStatus(ctx, docID, StatusConfirmed)
}

// StartProcessing moves a confirmed order to processing.
func (s *Service) StartProcessing(ctx context.Context, docID id.ID) (*SalesOrder, error) {
	return s.changeStatus(ctx, docID, StatusProcessing)
}

// ConvertToInvoice creates a sales invoice from the order's normalized lines.
// When postImmediately is set, the invoice is posted in the same call and the
// posting result (including downstream outcomes) is returned.
func (s *Service) ConvertToInvoice(ctx context.Context, docID id.ID, postImmediately bool) (*sales_invoice.SalesInvoice, *posting.Result, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, nil, err
	}

	if err := doc.CanConvert(); err != nil {
		return nil, nil, err
	}

	inv := sales_invoice.NewSalesInvoice(doc.CustomerID, doc.WarehouseID)
	inv.SalespersonID = doc.SalespersonID
	inv.Comment = fmt.Sprintf("Converted from order %s", doc.Number)
	for i := range doc.Lines {
		line := &doc.Lines[i]
		inv.AddLine(line.ItemID, line.EnteredQty, line.PackagingID, line.UnitPrice)
	}

	txm, err := s.getTxManager(ctx)
	if err != nil {
		return nil, nil, apperror.NewInternal(err).WithDetail("missing", "tx_manager")
	}

	// Create the invoice and mark the order invoiced in one transaction.
	// Either both commit or neither does: an order can never end up invoiced
	// without its invoice link, and a retried conversion can never produce a
	// second invoice (CanConvert rejects orders with InvoiceID set).
	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.invoices.Create(ctx, inv); err != nil {
			return err
		}

		doc.InvoiceID = id.Ptr(inv.ID)
		if err := doc.ChangeStatus(machine, StatusInvoiced); err != nil {
			return err
		}
		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return nil, nil, err
	}

	// Posting happens after the conversion committed. If it fails, the
	// invoice stays in draft with the order already linked; recovery is
	// posting the invoice directly, never converting again.
	var result *posting.Result
	if postImmediately {
		result, err = s.invoices.Post(ctx, inv.ID)
		if err != nil {
			logger.Warn(ctx, "converted invoice failed to post",
				"order_id", doc.ID,
				"invoice_id", inv.ID,
				"error", err)
			return inv, nil, err
		}
	}

	logger.Info(ctx, "sales order converted to invoice",
		"order_id", doc.ID,
		"invoice_id", inv.ID,
		"posted", postImmediately)

	return inv, result, nil
}

// List retrieves orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*SalesOrder], error) {
	return s.repo.List(ctx, filter)
}
