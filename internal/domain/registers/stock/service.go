// Package stock provides the stock accumulation register service.
package stock

import (
	"context"
	"fmt"
	"sort"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
	"tradecore/pkg/logger"
)

// Service provides business operations for the stock register.
// In Database-per-Tenant architecture, transactions are managed by the caller (posting engine).
type Service struct {
	repo Repository
}

// NewService creates a new stock register service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// ApplyMovements applies stock movements under row locks and records them.
// Must run inside the caller's transaction.
//
// For each movement the balance row is locked, the new quantity computed,
// and qty_before/qty_after snapshots stamped onto the movement. An expense
// that would drive the balance negative fails the whole batch; nothing is
// clamped.
//
// Balance rows are locked in (warehouse, item) order so concurrent postings
// touching the same pairs cannot deadlock.
func (s *Service) ApplyMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	for i, m := range movements {
		if !m.Quantity.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("movement %d: quantity must be positive", i))
		}
		if id.IsNil(m.RecorderID) {
			return apperror.NewValidation(fmt.Sprintf("movement %d: recorder_id is required", i))
		}
	}

	type dim struct {
		warehouseID id.ID
		itemID      id.ID
	}

	// Indices of movements per balance dimension, preserving document order
	// within a dimension.
	byDim := make(map[dim][]int)
	dims := make([]dim, 0)
	for i, m := range movements {
		d := dim{m.WarehouseID, m.ItemID}
		if _, seen := byDim[d]; !seen {
			dims = append(dims, d)
		}
		byDim[d] = append(byDim[d], i)
	}
	sort.Slice(dims, func(i, j int) bool {
		if dims[i].warehouseID != dims[j].warehouseID {
			return dims[i].warehouseID.String() < dims[j].warehouseID.String()
		}
		return dims[i].itemID.String() < dims[j].itemID.String()
	})

	for _, d := range dims {
		if err := s.repo.EnsureBalanceRow(ctx, d.warehouseID, d.itemID); err != nil {
			return fmt.Errorf("ensure balance row: %w", err)
		}

		balance, err := s.repo.GetBalanceForUpdate(ctx, d.warehouseID, d.itemID)
		if err != nil {
			return fmt.Errorf("lock balance for %s: %w", d.itemID, err)
		}

		current := balance.Quantity
		lastMovementAt := balance.LastMovementAt

		for _, idx := range byDim[d] {
			m := &movements[idx]

			next := current.Add(m.SignedQuantity())
			if next.IsNegative() {
				return apperror.NewInsufficientStock(
					m.ItemID.String(),
					m.WarehouseID.String(),
					m.Quantity.String(),
					current.String(),
				)
			}

			m.QtyBefore = current
			m.QtyAfter = next
			current = next
			if m.Period.After(lastMovementAt) {
				lastMovementAt = m.Period
			}
		}

		if err := s.repo.UpdateBalance(ctx, d.warehouseID, d.itemID, current, lastMovementAt); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
	}

	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Info(ctx, "applied stock movements",
		"count", len(movements),
		"recorder_id", movements[0].RecorderID,
	)

	return nil
}

// ReverseMovements undoes a document's movements: balances are restored
// under row locks and the movement rows deleted.
// Must run inside the caller's transaction.
func (s *Service) ReverseMovements(ctx context.Context, recorderID id.ID) error {
	movements, err := s.repo.GetMovementsByRecorder(ctx, recorderID)
	if err != nil {
		return fmt.Errorf("get movements: %w", err)
	}
	if len(movements) == 0 {
		return nil
	}

	// Invert each movement and apply the deltas under locks. A reversal of
	// a receipt may itself fail on insufficient stock if the goods were
	// already issued downstream.
	type dim struct {
		warehouseID id.ID
		itemID      id.ID
	}

	deltas := make(map[dim]types.Quantity)
	dims := make([]dim, 0)
	for _, m := range movements {
		d := dim{m.WarehouseID, m.ItemID}
		if _, seen := deltas[d]; !seen {
			dims = append(dims, d)
		}
		deltas[d] = deltas[d].Sub(m.SignedQuantity())
	}
	sort.Slice(dims, func(i, j int) bool {
		if dims[i].warehouseID != dims[j].warehouseID {
			return dims[i].warehouseID.String() < dims[j].warehouseID.String()
		}
		return dims[i].itemID.String() < dims[j].itemID.String()
	})

	for _, d := range dims {
		if err := s.repo.EnsureBalanceRow(ctx, d.warehouseID, d.itemID); err != nil {
			return fmt.Errorf("ensure balance row: %w", err)
		}
		balance, err := s.repo.GetBalanceForUpdate(ctx, d.warehouseID, d.itemID)
		if err != nil {
			return fmt.Errorf("lock balance for %s: %w", d.itemID, err)
		}

		next := balance.Quantity.Add(deltas[d])
		if next.IsNegative() {
			return apperror.NewInsufficientStock(
				d.itemID.String(),
				d.warehouseID.String(),
				deltas[d].Neg().String(),
				balance.Quantity.String(),
			)
		}

		if err := s.repo.UpdateBalance(ctx, d.warehouseID, d.itemID, next, balance.LastMovementAt); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
	}

	if err := s.repo.DeleteMovementsByRecorder(ctx, recorderID, 0); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	logger.Info(ctx, "reversed stock movements",
		"recorder_id", recorderID,
		"count", len(movements),
	)

	return nil
}

// GetMovementsByRecorder returns the stock ledger lines a document produced.
func (s *Service) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	return s.repo.GetMovementsByRecorder(ctx, recorderID)
}

// GetItemAvailability returns available quantity across warehouses.
func (s *Service) GetItemAvailability(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	balances, err := s.repo.GetBalancesByItem(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf("get balances: %w", err)
	}

	var total types.Quantity
	for _, b := range balances {
		total += b.Quantity
	}

	return total, nil
}

// GetBalance returns the current balance for one warehouse+item pair.
func (s *Service) GetBalance(ctx context.Context, warehouseID, itemID id.ID) (entity.StockBalance, error) {
	return s.repo.GetBalance(ctx, warehouseID, itemID)
}

// GetWarehouseStock returns all items with stock in a warehouse.
func (s *Service) GetWarehouseStock(ctx context.Context, warehouseID id.ID) ([]entity.StockBalance, error) {
	return s.repo.GetBalancesByWarehouse(ctx, warehouseID, BalanceFilter{
		ExcludeZero: true,
	})
}

// GetMovementHistory returns the ledger for an item.
func (s *Service) GetMovementHistory(ctx context.Context, itemID id.ID, filter MovementFilter) ([]entity.StockMovement, error) {
	return s.repo.GetMovementHistory(ctx, itemID, filter)
}

// GetStockReport generates a turnover report for the period.
func (s *Service) GetStockReport(ctx context.Context, filter TurnoverFilter) (Turnover, error) {
	return s.repo.GetTurnover(ctx, filter)
}
