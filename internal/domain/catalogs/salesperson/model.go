// Package salesperson provides the Salesperson catalog.
// Salespersons are attached to sales documents and accrue commission
// at their individual rate when an invoice is posted.
package salesperson

import (
	"context"
	"regexp"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/entity"
	"tradecore/internal/core/types"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Salesperson represents a sales agent earning commission.
type Salesperson struct {
	entity.Catalog

	// CommissionRate is the commission percentage (e.g. 5 means 5%)
	CommissionRate types.Money `db:"commission_rate" json:"commissionRate"`

	// Phone is the contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Email is the contact email
	Email *string `db:"email" json:"email,omitempty"`

	// IsActive indicates if the salesperson can be attached to new documents
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewSalesperson creates a new Salesperson with required fields.
func NewSalesperson(code, name string, commissionRate types.Money) *Salesperson {
	return &Salesperson{
		Catalog:        entity.NewCatalog(code, name),
		CommissionRate: commissionRate,
		IsActive:       true,
	}
}

// Validate implements entity.Validatable interface.
func (s *Salesperson) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	if s.CommissionRate.IsNegative() {
		return apperror.NewValidation("commission rate cannot be negative").
			WithDetail("field", "commissionRate")
	}
	// A rate over 100% is almost certainly a data-entry error.
	if s.CommissionRate.GreaterThan(types.NewMoney(100)) {
		return apperror.NewValidation("commission rate cannot exceed 100").
			WithDetail("field", "commissionRate")
	}

	if s.Email != nil && *s.Email != "" && !emailRE.MatchString(*s.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}
