package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tradecore/internal/core/id"
	"tradecore/internal/domain"
	"tradecore/internal/domain/documents/stock_adjustment"
	"tradecore/internal/infrastructure/storage/postgres"
)

const (
	stockAdjustmentsTable     = "doc_stock_adjustments"
	stockAdjustmentLinesTable = "doc_stock_adjustment_lines"
)

// StockAdjustmentRepo implements stock_adjustment.Repository.
type StockAdjustmentRepo struct {
	*BaseDocumentRepo[*stock_adjustment.StockAdjustment]
}

// NewStockAdjustmentRepo creates a new stock adjustment repository.
func NewStockAdjustmentRepo() *StockAdjustmentRepo {
	return &StockAdjustmentRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*stock_adjustment.StockAdjustment](
			stockAdjustmentsTable,
			postgres.ExtractDBColumns[stock_adjustment.StockAdjustment](),
			func() *stock_adjustment.StockAdjustment { return &stock_adjustment.StockAdjustment{} },
		),
	}
}

// GetLines retrieves lines for a stock adjustment.
func (r *StockAdjustmentRepo) GetLines(ctx context.Context, docID id.ID) ([]stock_adjustment.Line, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "item_id", "direction",
			"entered_qty", "packaging_id", "conversion_factor", "quantity",
			"cost_rate",
		).
		From(stockAdjustmentLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []stock_adjustment.Line
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines saves lines for a stock adjustment (delete existing + insert new).
func (r *StockAdjustmentRepo) SaveLines(ctx context.Context, docID id.ID, lines []stock_adjustment.Line) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + stockAdjustmentLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(stockAdjustmentLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "item_id", "direction",
			"entered_qty", "packaging_id", "conversion_factor", "quantity",
			"cost_rate",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.ItemID, line.Direction,
			line.EnteredQty, line.PackagingID, line.ConversionFactor, line.Quantity,
			line.CostRate,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// List retrieves stock adjustments with filtering.
func (r *StockAdjustmentRepo) List(ctx context.Context, filter stock_adjustment.ListFilter) (domain.ListResult[*stock_adjustment.StockAdjustment], error) {
	result := domain.ListResult[*stock_adjustment.StockAdjustment]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	if filter.Posted != nil {
		q = q.Where(squirrel.Eq{"posted": *filter.Posted})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy := "date DESC"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}
