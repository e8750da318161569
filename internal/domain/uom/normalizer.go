// Package uom converts user-entered quantities in arbitrary packagings to the
// item's base stock-keeping unit. Stock balances and movements are always
// recorded in base units; the normalized line keeps the original input for
// traceability.
package uom

import (
	"context"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
	"tradecore/internal/domain/catalogs/item"
)

// ItemSource provides item lookups with packagings loaded.
type ItemSource interface {
	GetWithPackagings(ctx context.Context, itemID id.ID) (*item.Item, error)
}

// NormalizedLine is the result of quantity normalization, persisted onto the
// movement rows for audit.
type NormalizedLine struct {
	ItemID id.ID `json:"itemId"`

	// InputQty is the quantity the user entered, in packs
	InputQty types.Quantity `json:"inputQty"`

	// PackagingID is the packaging the user chose; nil means base unit
	PackagingID *id.ID `json:"packagingId,omitempty"`

	// ConversionFactor is base units per pack at the time of normalization
	ConversionFactor types.Quantity `json:"conversionFactor"`

	// NormalizedQty = InputQty × ConversionFactor, in base units
	NormalizedQty types.Quantity `json:"normalizedQty"`

	// BaseUnitID is the item's base unit of measure
	BaseUnitID *id.ID `json:"baseUnitId,omitempty"`
}

// Normalizer computes base-unit quantities from packaging input.
type Normalizer struct {
	items ItemSource
}

func NewNormalizer(items ItemSource) *Normalizer {
	return &Normalizer{items: items}
}

// Normalize converts qty in the given packaging to the item's base unit.
// A nil packagingID means the quantity is already in base units (factor 1).
// Any error here must abort the whole posting.
func (n *Normalizer) Normalize(ctx context.Context, itemID id.ID, packagingID *id.ID, qty types.Quantity) (NormalizedLine, error) {
	if !qty.IsPositive() {
		return NormalizedLine{}, apperror.NewValidation("quantity must be positive").
			WithDetail("item_id", itemID.String()).
			WithDetail("quantity", qty.String())
	}

	it, err := n.items.GetWithPackagings(ctx, itemID)
	if err != nil {
		return NormalizedLine{}, err
	}
	if !it.IsActive {
		return NormalizedLine{}, apperror.NewBusinessRule("ITEM_INACTIVE", "item is not active").
			WithDetail("item_id", itemID.String())
	}

	factor := types.NewQuantityFromInt(1)
	if packagingID != nil {
		pkg := it.FindPackaging(*packagingID)
		if pkg == nil {
			return NormalizedLine{}, apperror.NewValidation("packaging does not belong to item").
				WithDetail("item_id", itemID.String()).
				WithDetail("packaging_id", packagingID.String())
		}
		if !pkg.IsActive {
			return NormalizedLine{}, apperror.NewBusinessRule("PACKAGING_INACTIVE", "packaging is not active").
				WithDetail("item_id", itemID.String()).
				WithDetail("packaging_id", packagingID.String())
		}
		if !pkg.QtyPerPack.IsPositive() {
			return NormalizedLine{}, apperror.NewValidation("packaging conversion factor must be positive").
				WithDetail("item_id", itemID.String()).
				WithDetail("packaging_id", packagingID.String()).
				WithDetail("factor", pkg.QtyPerPack.String())
		}
		factor = pkg.QtyPerPack
	}

	return NormalizedLine{
		ItemID:           itemID,
		InputQty:         qty,
		PackagingID:      packagingID,
		ConversionFactor: factor,
		NormalizedQty:    qty.Mul(factor),
		BaseUnitID:       it.BaseUnitID,
	}, nil
}
