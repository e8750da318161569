// Package warehouse provides the Warehouse catalog.
// Warehouses are physical locations that hold stock balances.
package warehouse

import (
	"context"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/entity"
)

// WarehouseType defines the type of warehouse.
type WarehouseType string

const (
	TypeMain         WarehouseType = "main"
	TypeDistribution WarehouseType = "distribution"
	TypeRetail       WarehouseType = "retail"
	TypeTransit      WarehouseType = "transit"
)

// Warehouse represents a storage location for goods.
type Warehouse struct {
	entity.Catalog

	// Type defines the warehouse category
	Type WarehouseType `db:"type" json:"type"`

	// Address is the physical address
	Address *string `db:"address" json:"address,omitempty"`

	// IsActive indicates if warehouse is operational
	IsActive bool `db:"is_active" json:"isActive"`

	// IsDefault indicates if this is the default warehouse for new documents
	IsDefault bool `db:"is_default" json:"isDefault"`

	// Description is a free-form note
	Description *string `db:"description" json:"description,omitempty"`
}

// NewWarehouse creates a new Warehouse with required fields.
func NewWarehouse(code, name string, whType WarehouseType) *Warehouse {
	return &Warehouse{
		Catalog:  entity.NewCatalog(code, name),
		Type:     whType,
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (w *Warehouse) Validate(ctx context.Context) error {
	if err := w.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidWarehouseType(w.Type) {
		return apperror.NewValidation("invalid warehouse type").
			WithDetail("field", "type").
			WithDetail("value", string(w.Type))
	}

	return nil
}

// CanHoldStock returns true if the warehouse can participate in stock postings.
func (w *Warehouse) CanHoldStock() bool {
	return w.IsActive && !w.IsFolder
}

func isValidWarehouseType(t WarehouseType) bool {
	switch t {
	case TypeMain, TypeDistribution, TypeRetail, TypeTransit:
		return true
	}
	return false
}
