package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tradecore/internal/core/id"
	"tradecore/internal/domain"
	"tradecore/internal/domain/documents/delivery_note"
	"tradecore/internal/infrastructure/storage/postgres"
)

const (
	deliveryNotesTable     = "doc_delivery_notes"
	deliveryNoteLinesTable = "doc_delivery_note_lines"
)

// DeliveryNoteRepo implements delivery_note.Repository.
type DeliveryNoteRepo struct {
	*BaseDocumentRepo[*delivery_note.DeliveryNote]
}

// NewDeliveryNoteRepo creates a new delivery note repository.
func NewDeliveryNoteRepo() *DeliveryNoteRepo {
	return &DeliveryNoteRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*delivery_note.DeliveryNote](
			deliveryNotesTable,
			postgres.ExtractDBColumns[delivery_note.DeliveryNote](),
			func() *delivery_note.DeliveryNote { return &delivery_note.DeliveryNote{} },
		),
	}
}

// GetLines retrieves lines for a delivery note.
func (r *DeliveryNoteRepo) GetLines(ctx context.Context, docID id.ID) ([]delivery_note.Line, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "item_id",
			"entered_qty", "packaging_id", "conversion_factor", "quantity",
			"cost_rate", "amount",
		).
		From(deliveryNoteLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []delivery_note.Line
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines saves lines for a delivery note (delete existing + insert new).
func (r *DeliveryNoteRepo) SaveLines(ctx context.Context, docID id.ID, lines []delivery_note.Line) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + deliveryNoteLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(deliveryNoteLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "item_id",
			"entered_qty", "packaging_id", "conversion_factor", "quantity",
			"cost_rate", "amount",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.ItemID,
			line.EnteredQty, line.PackagingID, line.ConversionFactor, line.Quantity,
			line.CostRate, line.Amount,
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

// List retrieves delivery notes with filtering.
func (r *DeliveryNoteRepo) List(ctx context.Context, filter delivery_note.ListFilter) (domain.ListResult[*delivery_note.DeliveryNote], error) {
	result := domain.ListResult[*delivery_note.DeliveryNote]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
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
		searchPattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": searchPattern},
			squirrel.ILike{"tracking_number": searchPattern},
		})
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
