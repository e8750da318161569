// Package item provides the Item catalog: goods and services sold and stocked.
// Each item carries a base unit plus alternate packagings with conversion
// factors to base units.
package item

import (
	"context"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
)

// ItemType defines the item category.
type ItemType string

const (
	TypeGoods   ItemType = "goods"
	TypeService ItemType = "service"
)

// Item represents a product or service.
type Item struct {
	entity.Catalog

	// Type defines the item category
	Type ItemType `db:"type" json:"type"`

	// SKU is the stock-keeping article
	SKU *string `db:"sku" json:"sku,omitempty"`

	// Barcode is the item barcode (EAN-13, etc.)
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// BaseUnitID references the base unit of measure; stock balances are
	// always kept in this unit
	BaseUnitID *id.ID `db:"base_unit_id" json:"baseUnitId,omitempty"`

	// SalesPrice is the default price per base unit
	SalesPrice types.Money `db:"sales_price" json:"salesPrice"`

	// CostRate is the valuation rate per base unit used for COGS postings
	CostRate types.Money `db:"cost_rate" json:"costRate"`

	// IsActive indicates if the item can be used in new documents
	IsActive bool `db:"is_active" json:"isActive"`

	// Description is a free-form note
	Description *string `db:"description" json:"description,omitempty"`

	// Packagings lists the packaging variants of this item.
	// Loaded as child rows of cat_item_packagings, not a column.
	Packagings []Packaging `db:"-" json:"packagings,omitempty"`
}

// Packaging is a packaging variant of an item. QtyPerPack is the conversion
// factor to base units: one pack contains QtyPerPack base units. The base
// packaging always has factor 1.
type Packaging struct {
	ID     id.ID `db:"id" json:"id"`
	ItemID id.ID `db:"item_id" json:"itemId"`

	// Name is the display name ("box of 12", "pallet")
	Name string `db:"name" json:"name"`

	// QtyPerPack is how many base units one pack contains
	QtyPerPack types.Quantity `db:"qty_per_pack" json:"qtyPerPack"`

	// IsBase marks the canonical storage unit packaging
	IsBase bool `db:"is_base" json:"isBase"`

	// IsActive indicates if the packaging can be selected on new lines
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewItem creates a new Item with required fields.
func NewItem(code, name string, itemType ItemType) *Item {
	return &Item{
		Catalog:    entity.NewCatalog(code, name),
		Type:       itemType,
		SalesPrice: types.Zero(),
		CostRate:   types.Zero(),
		IsActive:   true,
	}
}

// NewPackaging creates a packaging variant for an item.
func NewPackaging(itemID id.ID, name string, qtyPerPack types.Quantity) Packaging {
	return Packaging{
		ID:         id.New(),
		ItemID:     itemID,
		Name:       name,
		QtyPerPack: qtyPerPack,
		IsActive:   true,
	}
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidItemType(i.Type) {
		return apperror.NewValidation("invalid item type").
			WithDetail("field", "type").
			WithDetail("value", string(i.Type))
	}

	if i.SalesPrice.IsNegative() {
		return apperror.NewValidation("sales price cannot be negative").
			WithDetail("field", "salesPrice")
	}

	if i.CostRate.IsNegative() {
		return apperror.NewValidation("cost rate cannot be negative").
			WithDetail("field", "costRate")
	}

	baseCount := 0
	for idx := range i.Packagings {
		p := &i.Packagings[idx]
		if p.Name == "" {
			return apperror.NewValidation("packaging name is required").
				WithDetail("field", "packagings.name")
		}
		if !p.QtyPerPack.IsPositive() {
			return apperror.NewValidation("packaging conversion factor must be positive").
				WithDetail("field", "packagings.qtyPerPack").
				WithDetail("packaging", p.Name)
		}
		if p.IsBase {
			baseCount++
			// Base packaging is one base unit per pack, always.
			if p.QtyPerPack != types.NewQuantityFromInt(1) {
				return apperror.NewValidation("base packaging conversion factor must be 1").
					WithDetail("field", "packagings.qtyPerPack").
					WithDetail("packaging", p.Name)
			}
		}
	}
	if baseCount > 1 {
		return apperror.NewValidation("item cannot have more than one base packaging").
			WithDetail("field", "packagings")
	}

	return nil
}

// IsStocked returns true if the item participates in stock accounting.
func (i *Item) IsStocked() bool {
	return i.Type == TypeGoods
}

// FindPackaging returns the packaging with the given id, or nil.
func (i *Item) FindPackaging(packagingID id.ID) *Packaging {
	for idx := range i.Packagings {
		if i.Packagings[idx].ID == packagingID {
			return &i.Packagings[idx]
		}
	}
	return nil
}

// BasePackaging returns the base packaging, or nil when none is defined.
func (i *Item) BasePackaging() *Packaging {
	for idx := range i.Packagings {
		if i.Packagings[idx].IsBase {
			return &i.Packagings[idx]
		}
	}
	return nil
}

func isValidItemType(t ItemType) bool {
	switch t {
	case TypeGoods, TypeService:
		return true
	}
	return false
}
