package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tradecore/internal/core/id"
	"tradecore/internal/domain"
	"tradecore/internal/domain/documents/sales_order"
	"tradecore/internal/infrastructure/storage/postgres"
)

const (
	salesOrdersTable     = "doc_sales_orders"
	salesOrderLinesTable = "doc_sales_order_lines"
)

// SalesOrderRepo implements sales_order.Repository.
type SalesOrderRepo struct {
	*BaseDocumentRepo[*sales_order.SalesOrder]
}

// NewSalesOrderRepo creates a new sales order repository.
func NewSalesOrderRepo() *SalesOrderRepo {
	return &SalesOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*sales_order.SalesOrder](
			salesOrdersTable,
			postgres.ExtractDBColumns[sales_order.SalesOrder](),
			func() *sales_order.SalesOrder { return &sales_order.SalesOrder{} },
		),
	}
}

// GetLines retrieves lines for a sales order.
func (r *SalesOrderRepo) GetLines(ctx context.Context, docID id.ID) ([]sales_order.Line, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "item_id",
			"entered_qty", "packaging_id", "conversion_factor", "quantity",
			"unit_price", "amount",
		).
		From(salesOrderLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []sales_order.Line
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines saves lines for a sales order (delete existing + insert new).
func (r *SalesOrderRepo) SaveLines(ctx context.Context, docID id.ID, lines []sales_order.Line) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + salesOrderLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(salesOrderLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "item_id",
			"entered_qty", "packaging_id", "conversion_factor", "quantity",
			"unit_price", "amount",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.ItemID,
			line.EnteredQty, line.PackagingID, line.ConversionFactor, line.Quantity,
			line.UnitPrice, line.Amount,
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

// List retrieves sales orders with filtering.
func (r *SalesOrderRepo) List(ctx context.Context, filter sales_order.ListFilter) (domain.ListResult[*sales_order.SalesOrder], error) {
	result := domain.ListResult[*sales_order.SalesOrder]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}

	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
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
