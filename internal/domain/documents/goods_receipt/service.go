package goods_receipt

import (
	"context"
	"fmt"
	"time"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/id"
	"tradecore/internal/core/tenant"
	"tradecore/internal/core/tx"
	"tradecore/internal/domain"
	"tradecore/internal/domain/posting"
	"tradecore/internal/domain/uom"
	"tradecore/pkg/logger"
	"tradecore/pkg/numerator"
)

// Service provides business operations for goods receipts.
// In Database-per-Tenant architecture, TxManager is obtained from context.
type Service struct {
	repo          Repository
	postingEngine *posting.Engine
	normalizer    *uom.Normalizer
	numerator     *numerator.Service
	txManager     tx.Manager // Optional. If nil, obtained from context.
	hooks         *domain.HookRegistry[*GoodsReceipt]
}

// NewService creates a new goods receipt service.
func NewService(
	repo Repository,
	postingEngine *posting.Engine,
	normalizer *uom.Normalizer,
	num *numerator.Service,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:          repo,
		postingEngine: postingEngine,
		normalizer:    normalizer,
		numerator:     num,
		txManager:     txManager,
		hooks:         domain.NewHookRegistry[*GoodsReceipt](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*GoodsReceipt] {
	return s.hooks
}

func (s *Service) getTxManager(ctx context.Context) (tx.Manager, error) {
	if s.txManager != nil {
		return s.txManager, nil
	}
	return tenant.GetTxManager(ctx)
}

// enrichLines normalizes entered quantities to base units.
func (s *Service) enrichLines(ctx context.Context, doc *GoodsReceipt) error {
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

// Create creates a new goods receipt.
func (s *Service) Create(ctx context.Context, doc *GoodsReceipt) error {
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

	logger.Info(ctx, "goods receipt created", "id", doc.ID, "number", doc.Number)

	return nil
}

// GetByID retrieves a receipt with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*GoodsReceipt, error) {
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

// Update updates a goods receipt.
func (s *Service) Update(ctx context.Context, doc *GoodsReceipt) error {
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

// Delete soft-deletes a receipt. Approved receipts must be unapproved first.
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

// SubmitForApproval moves a draft receipt to pending approval.
func (s *Service) SubmitForApproval(ctx context.Context, docID id.ID) (*GoodsReceipt, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if err := doc.ChangeStatus(machine, StatusPendingApproval); err != nil {
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

// Approve posts the receipt: the status moves to approved and stock comes in.
// The receipt must be pending approval.
func (s *Service) Approve(ctx context.Context, docID id.ID) (*posting.Result, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if err := s.enrichLines(ctx, doc); err != nil {
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

// Unapprove reverses the receipt's movements and steps back to pending
// approval. Fails with INSUFFICIENT_STOCK when the received goods have
// already been expensed.
func (s *Service) Unapprove(ctx context.Context, docID id.ID) (*posting.Result, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	updateDoc := func(ctx context.Context) error {
		return s.repo.Update(ctx, doc)
	}

	return s.postingEngine.Unpost(ctx, doc, updateDoc)
}

// List retrieves receipts with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*GoodsReceipt], error) {
	return s.repo.List(ctx, filter)
}
