package dto

import (
	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
	"tradecore/internal/domain/catalogs/item"
)

// --- Request DTOs ---

// PackagingRequest is a packaging variant in item create/update requests.
type PackagingRequest struct {
	ID         *string        `json:"id"`
	Name       string         `json:"name" binding:"required"`
	QtyPerPack types.Quantity `json:"qtyPerPack" binding:"required"`
	IsBase     bool           `json:"isBase"`
	IsActive   *bool          `json:"isActive"`
}

// CreateItemRequest is the request body for creating an item.
type CreateItemRequest struct {
	Code        string             `json:"code"`
	Name        string             `json:"name" binding:"required"`
	Type        item.ItemType      `json:"type" binding:"required"`
	SKU         *string            `json:"sku"`
	Barcode     *string            `json:"barcode"`
	BaseUnitID  *string            `json:"baseUnitId"`
	SalesPrice  types.Money        `json:"salesPrice"`
	CostRate    types.Money        `json:"costRate"`
	IsActive    *bool              `json:"isActive"`
	Description *string            `json:"description"`
	Packagings  []PackagingRequest `json:"packagings"`
	ParentID    *string            `json:"parentId"`
	IsFolder    bool               `json:"isFolder"`
	Attributes  entity.Attributes  `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateItemRequest) ToEntity() *item.Item {
	it := item.NewItem(r.Code, r.Name, r.Type)
	it.SKU = r.SKU
	it.Barcode = r.Barcode
	if r.BaseUnitID != nil {
		if parsed, err := id.Parse(*r.BaseUnitID); err == nil {
			it.BaseUnitID = &parsed
		}
	}
	it.SalesPrice = r.SalesPrice
	it.CostRate = r.CostRate
	if r.IsActive != nil {
		it.IsActive = *r.IsActive
	}
	it.Description = r.Description
	it.ParentID = r.ParentID
	it.IsFolder = r.IsFolder
	it.Attributes = r.Attributes
	it.Packagings = mapPackagings(it.ID, r.Packagings)
	return it
}

// UpdateItemRequest is the request body for updating an item.
type UpdateItemRequest struct {
	Code        string             `json:"code"`
	Name        string             `json:"name" binding:"required"`
	Type        item.ItemType      `json:"type" binding:"required"`
	SKU         *string            `json:"sku"`
	Barcode     *string            `json:"barcode"`
	BaseUnitID  *string            `json:"baseUnitId"`
	SalesPrice  types.Money        `json:"salesPrice"`
	CostRate    types.Money        `json:"costRate"`
	IsActive    bool               `json:"isActive"`
	Description *string            `json:"description"`
	Packagings  []PackagingRequest `json:"packagings"`
	ParentID    *string            `json:"parentId"`
	IsFolder    bool               `json:"isFolder"`
	Attributes  entity.Attributes  `json:"attributes"`
	Version     int                `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateItemRequest) ApplyTo(it *item.Item) {
	it.Code = r.Code
	it.Name = r.Name
	it.Type = r.Type
	it.SKU = r.SKU
	it.Barcode = r.Barcode
	it.BaseUnitID = nil
	if r.BaseUnitID != nil {
		if parsed, err := id.Parse(*r.BaseUnitID); err == nil {
			it.BaseUnitID = &parsed
		}
	}
	it.SalesPrice = r.SalesPrice
	it.CostRate = r.CostRate
	it.IsActive = r.IsActive
	it.Description = r.Description
	it.ParentID = r.ParentID
	it.IsFolder = r.IsFolder
	it.Attributes = r.Attributes
	it.Version = r.Version
	if r.Packagings != nil {
		it.Packagings = mapPackagings(it.ID, r.Packagings)
	}
}

func mapPackagings(itemID id.ID, reqs []PackagingRequest) []item.Packaging {
	packs := make([]item.Packaging, 0, len(reqs))
	for _, p := range reqs {
		pack := item.NewPackaging(itemID, p.Name, p.QtyPerPack)
		if p.ID != nil {
			if parsed, err := id.Parse(*p.ID); err == nil {
				pack.ID = parsed
			}
		}
		pack.IsBase = p.IsBase
		if p.IsActive != nil {
			pack.IsActive = *p.IsActive
		}
		packs = append(packs, pack)
	}
	return packs
}

// --- Response DTOs ---

// PackagingResponse is a packaging variant in item responses.
type PackagingResponse struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	QtyPerPack types.Quantity `json:"qtyPerPack"`
	IsBase     bool           `json:"isBase"`
	IsActive   bool           `json:"isActive"`
}

// ItemResponse is the response body for an item.
type ItemResponse struct {
	ID           string              `json:"id"`
	Code         string              `json:"code"`
	Name         string              `json:"name"`
	Type         item.ItemType       `json:"type"`
	SKU          *string             `json:"sku,omitempty"`
	Barcode      *string             `json:"barcode,omitempty"`
	BaseUnitID   *string             `json:"baseUnitId,omitempty"`
	SalesPrice   types.Money         `json:"salesPrice"`
	CostRate     types.Money         `json:"costRate"`
	IsActive     bool                `json:"isActive"`
	Description  *string             `json:"description,omitempty"`
	Packagings   []PackagingResponse `json:"packagings,omitempty"`
	ParentID     *string             `json:"parentId,omitempty"`
	IsFolder     bool                `json:"isFolder"`
	DeletionMark bool                `json:"deletionMark"`
	Version      int                 `json:"version"`
	Attributes   entity.Attributes   `json:"attributes,omitempty"`
}

// FromItem creates response DTO from domain entity.
func FromItem(it *item.Item) *ItemResponse {
	resp := &ItemResponse{
		ID:           it.ID.String(),
		Code:         it.Code,
		Name:         it.Name,
		Type:         it.Type,
		SKU:          it.SKU,
		Barcode:      it.Barcode,
		SalesPrice:   it.SalesPrice,
		CostRate:     it.CostRate,
		IsActive:     it.IsActive,
		Description:  it.Description,
		ParentID:     it.ParentID,
		IsFolder:     it.IsFolder,
		DeletionMark: it.DeletionMark,
		Version:      it.Version,
		Attributes:   it.Attributes,
	}
	if it.BaseUnitID != nil {
		s := it.BaseUnitID.String()
		resp.BaseUnitID = &s
	}
	for _, p := range it.Packagings {
		resp.Packagings = append(resp.Packagings, PackagingResponse{
			ID:         p.ID.String(),
			Name:       p.Name,
			QtyPerPack: p.QtyPerPack,
			IsBase:     p.IsBase,
			IsActive:   p.IsActive,
		})
	}
	return resp
}
