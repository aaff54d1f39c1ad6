package models

import (
	"github.com/erp/mws-connector/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	VersionedModel
	Code           string                `gorm:"type:varchar(50);not null;default:'';index:idx_products_code"`
	Name           string                `gorm:"type:varchar(500);not null"`
	Description    string                `gorm:"type:text"`
	Unit           string                `gorm:"type:varchar(20);not null"`
	ListPrice      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	CostPrice      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	RevenueAccount string                `gorm:"type:varchar(50)"`
	ExpenseAccount string                `gorm:"type:varchar(50)"`
	Status         catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.aggregate(),
		Code:              m.Code,
		Name:              m.Name,
		Description:       m.Description,
		Unit:              m.Unit,
		ListPrice:         m.ListPrice,
		CostPrice:         m.CostPrice,
		RevenueAccount:    m.RevenueAccount,
		ExpenseAccount:    m.ExpenseAccount,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.VersionedModel = versionedModelOf(p.BaseAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.Description = p.Description
	m.Unit = p.Unit
	m.ListPrice = p.ListPrice
	m.CostPrice = p.CostPrice
	m.RevenueAccount = p.RevenueAccount
	m.ExpenseAccount = p.ExpenseAccount
	m.Status = p.Status
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
