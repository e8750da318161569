// Package register_repo provides PostgreSQL implementations for register repositories.
// In Database-per-Tenant architecture, TxManager is obtained from context.
package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
	"tradecore/internal/domain/registers/stock"
	"tradecore/internal/infrastructure/storage/postgres"
)

const (
	stockMovementsTable = "reg_stock_movements"
	stockBalancesTable  = "reg_stock_balances"
)

// StockRepo implements stock.Repository.
// In Database-per-Tenant architecture, TxManager is obtained from context.
type StockRepo struct {
	builder squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo() *StockRepo {
	return &StockRepo{
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// getTxManager retrieves TxManager from context.
func (r *StockRepo) getTxManager(ctx context.Context) *postgres.TxManager {
	return postgres.MustGetTxManager(ctx)
}

// CreateMovements batch inserts movements.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	txm := r.getTxManager(ctx)
	if tx := txm.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(txm)
		columns := []string{
			"line_id", "recorder_id", "recorder_type", "recorder_version",
			"period", "record_type",
			"warehouse_id", "item_id", "quantity",
			"qty_before", "qty_after", "valuation_rate", "created_at",
		}
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, []any{
				m.LineID, m.RecorderID, m.RecorderType, m.RecorderVersion,
				m.Period, m.RecordType,
				m.WarehouseID, m.ItemID, m.Quantity,
				m.QtyBefore, m.QtyAfter, m.ValuationRate, m.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, stockMovementsTable, columns, rows); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
		return nil
	}

	// Fallback: non-transactional insert (slower). Prefer calling CreateMovements within tx.
	q := r.builder.Insert(stockMovementsTable).Columns(
		"line_id", "recorder_id", "recorder_type", "recorder_version",
		"period", "record_type",
		"warehouse_id", "item_id", "quantity",
		"qty_before", "qty_after", "valuation_rate", "created_at",
	)

	for _, m := range movements {
		q = q.Values(
			m.LineID, m.RecorderID, m.RecorderType, m.RecorderVersion,
			m.Period, m.RecordType,
			m.WarehouseID, m.ItemID, m.Quantity,
			m.QtyBefore, m.QtyAfter, m.ValuationRate, m.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}

	return nil
}

// DeleteMovementsByRecorder removes movements for a document version.
func (r *StockRepo) DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID, beforeVersion int) error {
	q := r.builder.Delete(stockMovementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		Where(squirrel.Lt{"recorder_version": beforeVersion})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	return nil
}

// GetMovementsByRecorder retrieves movements for a document.
func (r *StockRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	q := r.builder.Select(
		"line_id", "recorder_id", "recorder_type", "recorder_version",
		"period", "record_type",
		"warehouse_id", "item_id", "quantity",
		"qty_before", "qty_after", "valuation_rate", "created_at",
	).From(stockMovementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}

// GetBalance returns current balance for warehouse+item.
func (r *StockRepo) GetBalance(ctx context.Context, warehouseID, itemID id.ID) (entity.StockBalance, error) {
	var balance entity.StockBalance

	q := r.builder.Select(
		"warehouse_id", "item_id",
		"quantity", "last_movement_at", "updated_at",
	).From(stockBalancesTable).
		Where(squirrel.Eq{
			"warehouse_id": warehouseID,
			"item_id":      itemID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return balance, fmt.Errorf("build query: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &balance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity.StockBalance{
				WarehouseID: warehouseID,
				ItemID:      itemID,
				Quantity:    0,
			}, nil
		}
		return balance, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// EnsureBalanceRow inserts a zero balance row if absent. Called before
// GetBalanceForUpdate so FOR UPDATE always has a row to lock.
func (r *StockRepo) EnsureBalanceRow(ctx context.Context, warehouseID, itemID id.ID) error {
	sql := `
		INSERT INTO reg_stock_balances (warehouse_id, item_id, quantity, last_movement_at, updated_at)
		VALUES ($1, $2, 0, NOW(), NOW())
		ON CONFLICT (warehouse_id, item_id) DO NOTHING
	`

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, warehouseID, itemID); err != nil {
		return fmt.Errorf("ensure balance row: %w", err)
	}

	return nil
}

// GetBalanceForUpdate returns balance with pessimistic lock.
func (r *StockRepo) GetBalanceForUpdate(ctx context.Context, warehouseID, itemID id.ID) (entity.StockBalance, error) {
	var balance entity.StockBalance

	sql := `
		SELECT warehouse_id, item_id, quantity, last_movement_at, updated_at
		FROM reg_stock_balances
		WHERE warehouse_id = $1 AND item_id = $2
		FOR UPDATE
	`

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	err := pgxscan.Get(ctx, querier, &balance, sql, warehouseID, itemID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return entity.StockBalance{
				WarehouseID: warehouseID,
				ItemID:      itemID,
				Quantity:    0,
			}, nil
		}
		return balance, fmt.Errorf("get balance for update: %w", err)
	}

	return balance, nil
}

// UpdateBalance writes the new quantity for a locked balance row.
func (r *StockRepo) UpdateBalance(ctx context.Context, warehouseID, itemID id.ID, quantity types.Quantity, movementAt time.Time) error {
	q := r.builder.Update(stockBalancesTable).
		Set("quantity", quantity).
		Set("last_movement_at", movementAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"warehouse_id": warehouseID,
			"item_id":      itemID,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update balance: %w", err)
	}

	return nil
}

// GetBalancesByWarehouse returns balances for a warehouse.
func (r *StockRepo) GetBalancesByWarehouse(ctx context.Context, warehouseID id.ID, filter stock.BalanceFilter) ([]entity.StockBalance, error) {
	q := r.builder.Select(
		"warehouse_id", "item_id",
		"quantity", "last_movement_at", "updated_at",
	).From(stockBalancesTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID})

	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"quantity": int64(0)})
	}

	if len(filter.ItemIDs) > 0 {
		q = q.Where(squirrel.Eq{"item_id": filter.ItemIDs})
	}

	if filter.MinQuantity != nil {
		q = q.Where(squirrel.GtOrEq{"quantity": filter.MinQuantity.Int64Scaled()})
	}

	if filter.MaxQuantity != nil {
		q = q.Where(squirrel.LtOrEq{"quantity": filter.MaxQuantity.Int64Scaled()})
	}

	q = q.OrderBy("item_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []entity.StockBalance
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

// GetBalancesByItem returns balances for an item across warehouses.
func (r *StockRepo) GetBalancesByItem(ctx context.Context, itemID id.ID) ([]entity.StockBalance, error) {
	q := r.builder.Select(
		"warehouse_id", "item_id",
		"quantity", "last_movement_at", "updated_at",
	).From(stockBalancesTable).
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.NotEq{"quantity": int64(0)}).
		OrderBy("warehouse_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []entity.StockBalance
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

// GetMovementHistory returns movement history for an item.
func (r *StockRepo) GetMovementHistory(ctx context.Context, itemID id.ID, filter stock.MovementFilter) ([]entity.StockMovement, error) {
	q := r.builder.Select(
		"line_id", "recorder_id", "recorder_type", "recorder_version",
		"period", "record_type",
		"warehouse_id", "item_id", "quantity",
		"qty_before", "qty_after", "valuation_rate", "created_at",
	).From(stockMovementsTable).
		Where(squirrel.Eq{"item_id": itemID})

	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}

	if filter.RecordType != nil {
		q = q.Where(squirrel.Eq{"record_type": *filter.RecordType})
	}

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"period": *filter.FromDate})
	}

	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"period": *filter.ToDate})
	}

	q = q.OrderBy("period DESC", "created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	return movements, nil
}

// GetTurnover calculates turnover for period.
func (r *StockRepo) GetTurnover(ctx context.Context, filter stock.TurnoverFilter) (stock.Turnover, error) {
	var result stock.Turnover

	args := []any{filter.FromDate, filter.ToDate}
	baseConditions := "period >= $1 AND period < $2"
	argIndex := 3

	if filter.WarehouseID != nil {
		baseConditions += fmt.Sprintf(" AND warehouse_id = $%d", argIndex)
		args = append(args, *filter.WarehouseID)
		result.WarehouseID = *filter.WarehouseID
		argIndex++
	}

	if filter.ItemID != nil {
		baseConditions += fmt.Sprintf(" AND item_id = $%d", argIndex)
		args = append(args, *filter.ItemID)
		result.ItemID = *filter.ItemID
		argIndex++
	}

	sql := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE 0 END), 0) as receipt,
			COALESCE(SUM(CASE WHEN record_type = 'expense' THEN quantity ELSE 0 END), 0) as expense
		FROM reg_stock_movements
		WHERE %s
	`, baseConditions)

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	var receiptScaled, expenseScaled int64
	err := querier.QueryRow(ctx, sql, args...).Scan(&receiptScaled, &expenseScaled)
	if err != nil && err != pgx.ErrNoRows {
		return result, fmt.Errorf("calculate turnover: %w", err)
	}
	result.Receipt = types.NewQuantityFromInt64Scaled(receiptScaled)
	result.Expense = types.NewQuantityFromInt64Scaled(expenseScaled)

	// Opening balance from movements before the period.
	openingArgs := []any{filter.FromDate}
	openingConditions := "period < $1"
	argIndex = 2

	if filter.WarehouseID != nil {
		openingConditions += fmt.Sprintf(" AND warehouse_id = $%d", argIndex)
		openingArgs = append(openingArgs, *filter.WarehouseID)
		argIndex++
	}

	if filter.ItemID != nil {
		openingConditions += fmt.Sprintf(" AND item_id = $%d", argIndex)
		openingArgs = append(openingArgs, *filter.ItemID)
	}

	openingSQL := fmt.Sprintf(`
		SELECT COALESCE(
			SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END),
			0
		)
		FROM reg_stock_movements
		WHERE %s
	`, openingConditions)

	var openingScaled int64
	err = querier.QueryRow(ctx, openingSQL, openingArgs...).Scan(&openingScaled)
	if err != nil && err != pgx.ErrNoRows {
		return result, fmt.Errorf("calculate opening balance: %w", err)
	}
	result.OpeningBalance = types.NewQuantityFromInt64Scaled(openingScaled)

	result.ClosingBalance = result.OpeningBalance + result.Receipt - result.Expense

	return result, nil
}

// Ensure interface compliance.
var _ stock.Repository = (*StockRepo)(nil)
