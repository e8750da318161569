package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tradecore/internal/core/id"
	"tradecore/internal/domain"
	"tradecore/internal/domain/documents/sales_invoice"
	"tradecore/internal/infrastructure/storage/postgres"
)

const (
	salesInvoicesTable     = "doc_sales_invoices"
	salesInvoiceLinesTable = "doc_sales_invoice_lines"
)

// SalesInvoiceRepo implements sales_invoice.Repository.
type SalesInvoiceRepo struct {
	*BaseDocumentRepo[*sales_invoice.SalesInvoice]
}

// NewSalesInvoiceRepo creates a new sales invoice repository.
func NewSalesInvoiceRepo() *SalesInvoiceRepo {
	return &SalesInvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*sales_invoice.SalesInvoice](
			salesInvoicesTable,
			postgres.ExtractDBColumns[sales_invoice.SalesInvoice](),
			func() *sales_invoice.SalesInvoice { return &sales_invoice.SalesInvoice{} },
		),
	}
}

// GetLines retrieves lines for a sales invoice.
func (r *SalesInvoiceRepo) GetLines(ctx context.Context, docID id.ID) ([]sales_invoice.Line, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "item_id",
			"entered_qty", "packaging_id", "conversion_factor", "quantity",
			"unit_price", "cost_rate", "amount",
		).
		From(salesInvoiceLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []sales_invoice.Line
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines saves lines for a sales invoice (delete existing + insert new).
func (r *SalesInvoiceRepo) SaveLines(ctx context.Context, docID id.ID, lines []sales_invoice.Line) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + salesInvoiceLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(salesInvoiceLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "item_id",
			"entered_qty", "packaging_id", "conversion_factor", "quantity",
			"unit_price", "cost_rate", "amount",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.ItemID,
			line.EnteredQty, line.PackagingID, line.ConversionFactor, line.Quantity,
			line.UnitPrice, line.CostRate, line.Amount,
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

// List retrieves sales invoices with filtering.
func (r *SalesInvoiceRepo) List(ctx context.Context, filter sales_invoice.ListFilter) (domain.ListResult[*sales_invoice.SalesInvoice], error) {
	result := domain.ListResult[*sales_invoice.SalesInvoice]{
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

	if filter.SalespersonID != nil {
		q = q.Where(squirrel.Eq{"salesperson_id": *filter.SalespersonID})
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
