// Package counterparty provides the Counterparty catalog.
// Counterparties represent business partners: customers and suppliers.
package counterparty

import (
	"context"
	"regexp"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/entity"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// CounterpartyType defines the type of counterparty.
type CounterpartyType string

const (
	TypeCustomer CounterpartyType = "customer"
	TypeSupplier CounterpartyType = "supplier"
	TypeBoth     CounterpartyType = "both"
)

// Counterparty represents a business partner (customer, supplier, or both).
type Counterparty struct {
	entity.Catalog

	// Type defines whether this is a customer, supplier, or both
	Type CounterpartyType `db:"type" json:"type"`

	// FullName is the official registered name
	FullName *string `db:"full_name" json:"fullName,omitempty"`

	// TaxID is the tax identification number
	TaxID *string `db:"tax_id" json:"taxId,omitempty"`

	// BillingAddress is the address used on invoices
	BillingAddress *string `db:"billing_address" json:"billingAddress,omitempty"`

	// ShippingAddress is the default delivery address
	ShippingAddress *string `db:"shipping_address" json:"shippingAddress,omitempty"`

	// Phone is the primary contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Email is the primary contact email
	Email *string `db:"email" json:"email,omitempty"`

	// ContactPerson is the primary contact name
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	// Comment is a free-form note
	Comment *string `db:"comment" json:"comment,omitempty"`
}

// NewCounterparty creates a new Counterparty with required fields.
func NewCounterparty(code, name string, cpType CounterpartyType) *Counterparty {
	return &Counterparty{
		Catalog: entity.NewCatalog(code, name),
		Type:    cpType,
	}
}

// Validate implements entity.Validatable interface.
func (c *Counterparty) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidCounterpartyType(c.Type) {
		return apperror.NewValidation("invalid counterparty type").
			WithDetail("field", "type").
			WithDetail("value", string(c.Type))
	}

	if c.Email != nil && *c.Email != "" && !emailRE.MatchString(*c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}

// IsCustomer returns true if counterparty is a customer.
func (c *Counterparty) IsCustomer() bool {
	return c.Type == TypeCustomer || c.Type == TypeBoth
}

// IsSupplier returns true if counterparty is a supplier.
func (c *Counterparty) IsSupplier() bool {
	return c.Type == TypeSupplier || c.Type == TypeBoth
}

func isValidCounterpartyType(t CounterpartyType) bool {
	switch t {
	case TypeCustomer, TypeSupplier, TypeBoth:
		return true
	}
	return false
}
