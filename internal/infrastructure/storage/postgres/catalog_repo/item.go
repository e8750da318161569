package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/id"
	"tradecore/internal/domain/catalogs/item"
	"tradecore/internal/infrastructure/storage/postgres"
)

const (
	itemTable      = "cat_items"
	packagingTable = "cat_item_packagings"
)

// ItemRepo implements item.Repository.
type ItemRepo struct {
	*BaseCatalogRepo[*item.Item]
}

// NewItemRepo creates a new item repository.
func NewItemRepo() *ItemRepo {
	return &ItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*item.Item](
			itemTable,
			postgres.ExtractDBColumns[item.Item](),
			func() *item.Item { return &item.Item{} },
		),
	}
}

// FindBySKU retrieves an item by SKU.
func (r *ItemRepo) FindBySKU(ctx context.Context, sku string) (*item.Item, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"sku": sku}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	it, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("item", sku)
		}
		return nil, err
	}
	return it, nil
}

// FindByBarcode retrieves an item by barcode.
func (r *ItemRepo) FindByBarcode(ctx context.Context, barcode string) (*item.Item, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"barcode": barcode}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	it, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("item", barcode)
		}
		return nil, err
	}
	return it, nil
}

// GetWithPackagings retrieves an item with its packaging rows loaded.
func (r *ItemRepo) GetWithPackagings(ctx context.Context, itemID id.ID) (*item.Item, error) {
	it, err := r.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	packagings, err := r.loadPackagings(ctx, itemID)
	if err != nil {
		return nil, err
	}
	it.Packagings = packagings

	return it, nil
}

// ReplacePackagings rewrites the packaging rows of an item.
// Intended to be called inside the item save transaction.
func (r *ItemRepo) ReplacePackagings(ctx context.Context, itemID id.ID, packagings []item.Packaging) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	delQ := r.Builder().
		Delete(packagingTable).
		Where(squirrel.Eq{"item_id": itemID})

	sql, args, err := delQ.ToSql()
	if err != nil {
		return fmt.Errorf("build delete packagings: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete packagings: %w", err)
	}

	if len(packagings) == 0 {
		return nil
	}

	insQ := r.Builder().
		Insert(packagingTable).
		Columns("id", "item_id", "name", "qty_per_pack", "is_base", "is_active")
	for _, p := range packagings {
		insQ = insQ.Values(p.ID, itemID, p.Name, p.QtyPerPack, p.IsBase, p.IsActive)
	}

	sql, args, err = insQ.ToSql()
	if err != nil {
		return fmt.Errorf("build insert packagings: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert packagings: %w", err)
	}

	return nil
}

func (r *ItemRepo) loadPackagings(ctx context.Context, itemID id.ID) ([]item.Packaging, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[item.Packaging]()...).
		From(packagingTable).
		Where(squirrel.Eq{"item_id": itemID}).
		OrderBy("is_base DESC", "name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var packagings []item.Packaging
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &packagings, sql, args...); err != nil {
		return nil, fmt.Errorf("load packagings: %w", err)
	}

	return packagings, nil
}
