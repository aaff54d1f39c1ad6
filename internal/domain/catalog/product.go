package catalog

import (
	"fmt"
	"strings"

	"github.com/erp/mws-connector/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// IsValid checks if the status is a known value
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// Product represents a product/SKU in the catalog.
// Code is optional on the ERP side; marketplace exports enforce it.
type Product struct {
	shared.BaseAggregateRoot
	Code           string
	Name           string
	Description    string
	Unit           string          // Unit of measure code (e.g., "pcs", "kg")
	ListPrice      decimal.Decimal // Selling price published to marketplaces
	CostPrice      decimal.Decimal
	RevenueAccount string
	ExpenseAccount string
	Status         ProductStatus
}

// NewProduct creates a new product without prices
func NewProduct(code, name, unit string) (*Product, error) {
	code = strings.TrimSpace(code)
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Unit:              unit,
		ListPrice:         decimal.Zero,
		CostPrice:         decimal.Zero,
		Status:            ProductStatusActive,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Bump()
	return nil
}

// SetPrices sets both cost and list prices
func (p *Product) SetPrices(costPrice, listPrice decimal.Decimal) error {
	if costPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}
	if listPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "List price cannot be negative")
	}

	p.CostPrice = costPrice
	p.ListPrice = listPrice
	p.Bump()
	return nil
}

// SetAccounts sets the revenue and expense account references
func (p *Product) SetAccounts(revenue, expense string) {
	p.RevenueAccount = revenue
	p.ExpenseAccount = expense
	p.Bump()
}

// HasCode returns true if the product carries a SKU
func (p *Product) HasCode() bool {
	return p.Code != ""
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// Deactivate deactivates the product
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	p.Status = ProductStatusInactive
	p.Bump()
	return nil
}

const (
	maxCodeLen = 50
	maxNameLen = 500
	maxUnitLen = 20
)

// validateProductCode accepts an empty code. A non-empty one becomes the
// marketplace SKU, so it may not contain spaces or control characters.
func validateProductCode(code string) error {
	if len(code) > maxCodeLen {
		return shared.NewDomainError("INVALID_CODE", fmt.Sprintf("Product code cannot exceed %d characters", maxCodeLen))
	}
	if strings.IndexFunc(code, func(r rune) bool { return r <= ' ' || r == 0x7f }) >= 0 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot contain whitespace or control characters")
	}
	return nil
}

func validateProductName(name string) error {
	return requireLength("INVALID_NAME", "Product name", name, maxNameLen)
}

func validateUnit(unit string) error {
	return requireLength("INVALID_UNIT", "Unit", unit, maxUnitLen)
}

func requireLength(code, field, value string, max int) error {
	switch {
	case value == "":
		return shared.NewDomainError(code, field+" cannot be empty")
	case len(value) > max:
		return shared.NewDomainError(code, fmt.Sprintf("%s cannot exceed %d characters", field, max))
	}
	return nil
}

// ProductIDs returns the IDs of the given products in order
func ProductIDs(products []Product) []uuid.UUID {
	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	return ids
}
