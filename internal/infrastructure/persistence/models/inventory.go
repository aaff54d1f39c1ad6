package models

import (
	"github.com/erp/mws-connector/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LocationModel is the persistence model for stock locations.
type LocationModel struct {
	BaseModel
	Code string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_stock_locations_code"`
	Name string                 `gorm:"type:varchar(200);not null"`
	Type inventory.LocationType `gorm:"type:varchar(20);not null;index:idx_stock_locations_type"`
}

// TableName returns the table name for GORM
func (LocationModel) TableName() string {
	return "stock_locations"
}

// ToDomain converts the persistence model to a domain Location.
func (m *LocationModel) ToDomain() *inventory.Location {
	return &inventory.Location{
		BaseEntity: m.entity(),
		Code:       m.Code,
		Name:       m.Name,
		Type:       m.Type,
	}
}

// FromDomain populates the persistence model from a domain Location.
func (m *LocationModel) FromDomain(l *inventory.Location) {
	m.BaseModel = baseModelOf(l.BaseEntity)
	m.Code = l.Code
	m.Name = l.Name
	m.Type = l.Type
}

// StockQuantityModel is the persistence model for per-location stock.
type StockQuantityModel struct {
	BaseModel
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_quantities_product_location,priority:1"`
	LocationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_quantities_product_location,priority:2"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockQuantityModel) TableName() string {
	return "stock_quantities"
}

// FromDomain populates the persistence model from a domain StockQuantity.
func (m *StockQuantityModel) FromDomain(s *inventory.StockQuantity) {
	m.BaseModel = baseModelOf(s.BaseEntity)
	m.ProductID = s.ProductID
	m.LocationID = s.LocationID
	m.Quantity = s.Quantity
}
