package dto

import (
	"tradecore/internal/core/entity"
	"tradecore/internal/core/types"
	"tradecore/internal/domain/catalogs/salesperson"
)

// --- Request DTOs ---

// CreateSalespersonRequest is the request body for creating a salesperson.
type CreateSalespersonRequest struct {
	Code           string            `json:"code"`
	Name           string            `json:"name" binding:"required"`
	CommissionRate types.Money       `json:"commissionRate"`
	Phone          *string           `json:"phone"`
	Email          *string           `json:"email"`
	IsActive       *bool             `json:"isActive"`
	ParentID       *string           `json:"parentId"`
	IsFolder       bool              `json:"isFolder"`
	Attributes     entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateSalespersonRequest) ToEntity() *salesperson.Salesperson {
	sp := salesperson.NewSalesperson(r.Code, r.Name, r.CommissionRate)
	sp.Phone = r.Phone
	sp.Email = r.Email
	if r.IsActive != nil {
		sp.IsActive = *r.IsActive
	}
	sp.ParentID = r.ParentID
	sp.IsFolder = r.IsFolder
	sp.Attributes = r.Attributes
	return sp
}

// UpdateSalespersonRequest is the request body for updating a salesperson.
type UpdateSalespersonRequest struct {
	Code           string            `json:"code"`
	Name           string            `json:"name" binding:"required"`
	CommissionRate types.Money       `json:"commissionRate"`
	Phone          *string           `json:"phone"`
	Email          *string           `json:"email"`
	IsActive       bool              `json:"isActive"`
	ParentID       *string           `json:"parentId"`
	IsFolder       bool              `json:"isFolder"`
	Attributes     entity.Attributes `json:"attributes"`
	Version        int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateSalespersonRequest) ApplyTo(sp *salesperson.Salesperson) {
	sp.Code = r.Code
	sp.Name = r.Name
	sp.CommissionRate = r.CommissionRate
	sp.Phone = r.Phone
	sp.Email = r.Email
	sp.IsActive = r.IsActive
	sp.ParentID = r.ParentID
	sp.IsFolder = r.IsFolder
	sp.Attributes = r.Attributes
	sp.Version = r.Version
}

// --- Response DTOs ---

// SalespersonResponse is the response body for a salesperson.
type SalespersonResponse struct {
	ID             string            `json:"id"`
	Code           string            `json:"code"`
	Name           string            `json:"name"`
	CommissionRate types.Money       `json:"commissionRate"`
	Phone          *string           `json:"phone,omitempty"`
	Email          *string           `json:"email,omitempty"`
	IsActive       bool              `json:"isActive"`
	ParentID       *string           `json:"parentId,omitempty"`
	IsFolder       bool              `json:"isFolder"`
	DeletionMark   bool              `json:"deletionMark"`
	Version        int               `json:"version"`
	Attributes     entity.Attributes `json:"attributes,omitempty"`
}

// FromSalesperson creates response DTO from domain entity.
func FromSalesperson(sp *salesperson.Salesperson) *SalespersonResponse {
	return &SalespersonResponse{
		ID:             sp.ID.String(),
		Code:           sp.Code,
		Name:           sp.Name,
		CommissionRate: sp.CommissionRate,
		Phone:          sp.Phone,
		Email:          sp.Email,
		IsActive:       sp.IsActive,
		ParentID:       sp.ParentID,
		IsFolder:       sp.IsFolder,
		DeletionMark:   sp.DeletionMark,
		Version:        sp.Version,
		Attributes:     sp.Attributes,
	}
}
