package models

import (
	"time"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// ProductIdentifierModel
// ---------------------------------------------------------------------------

// ProductIdentifierModel is the persistence model for marketplace identifiers.
type ProductIdentifierModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index:idx_amazon_identifiers_product"`
	Code      string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_amazon_identifiers_code_type,priority:1"`
	CodeType  amazon.CodeType `gorm:"type:varchar(10);not null;uniqueIndex:idx_amazon_identifiers_code_type,priority:2"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductIdentifierModel) TableName() string {
	return "amazon_product_identifiers"
}

// ToDomain converts the persistence model to a domain ProductIdentifier.
func (m *ProductIdentifierModel) ToDomain() *amazon.ProductIdentifier {
	return &amazon.ProductIdentifier{
		ID:        m.ID,
		ProductID: m.ProductID,
		Code:      m.Code,
		CodeType:  m.CodeType,
		CreatedAt: m.CreatedAt,
	}
}

// ProductIdentifierModelFromDomain creates a persistence model from a domain ProductIdentifier.
func ProductIdentifierModelFromDomain(i *amazon.ProductIdentifier) *ProductIdentifierModel {
	return &ProductIdentifierModel{
		ID:        i.ID,
		ProductID: i.ProductID,
		Code:      i.Code,
		CodeType:  i.CodeType,
		CreatedAt: i.CreatedAt,
	}
}

// ---------------------------------------------------------------------------
// AccountLinkModel
// ---------------------------------------------------------------------------

// AccountLinkModel is the persistence model for product/account links.
type AccountLinkModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_amazon_account_links_account_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_amazon_account_links_account_product,priority:2;index:idx_amazon_account_links_product"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AccountLinkModel) TableName() string {
	return "amazon_account_links"
}

// ToDomain converts the persistence model to a domain AccountLink.
func (m *AccountLinkModel) ToDomain() *amazon.AccountLink {
	return &amazon.AccountLink{
		ID:        m.ID,
		AccountID: m.AccountID,
		ProductID: m.ProductID,
		CreatedAt: m.CreatedAt,
	}
}

// AccountLinkModelFromDomain creates a persistence model from a domain AccountLink.
func AccountLinkModelFromDomain(l *amazon.AccountLink) AccountLinkModel {
	return AccountLinkModel{
		ID:        l.ID,
		AccountID: l.AccountID,
		ProductID: l.ProductID,
		CreatedAt: l.CreatedAt,
	}
}

// ---------------------------------------------------------------------------
// AccountModel
// ---------------------------------------------------------------------------

// AccountModel is the persistence model for MWS accounts.
type AccountModel struct {
	ID                    uuid.UUID `gorm:"type:uuid;primary_key"`
	Name                  string    `gorm:"type:varchar(100);not null"`
	AccessKey             string    `gorm:"type:varchar(128);not null"`
	SecretKey             string    `gorm:"type:varchar(256);not null"`
	MerchantID            string    `gorm:"type:varchar(64);not null"`
	MarketplaceID         string    `gorm:"type:varchar(64);not null"`
	DefaultUnit           string    `gorm:"type:varchar(20)"`
	DefaultExpenseAccount string    `gorm:"type:varchar(50)"`
	DefaultRevenueAccount string    `gorm:"type:varchar(50)"`
	CompanyName           string    `gorm:"type:varchar(200)"`
	CurrencyCode          string    `gorm:"type:varchar(3);not null"`
	Active                bool      `gorm:"not null;default:true"`
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "amazon_mws_accounts"
}

// ToDomain converts the persistence model to a domain Account.
func (m *AccountModel) ToDomain() *amazon.Account {
	return &amazon.Account{
		ID:                    m.ID,
		Name:                  m.Name,
		AccessKey:             m.AccessKey,
		SecretKey:             m.SecretKey,
		MerchantID:            m.MerchantID,
		MarketplaceID:         m.MarketplaceID,
		DefaultUnit:           m.DefaultUnit,
		DefaultExpenseAccount: m.DefaultExpenseAccount,
		DefaultRevenueAccount: m.DefaultRevenueAccount,
		CompanyName:           m.CompanyName,
		Currency:              valueobject.Currency(m.CurrencyCode),
		Active:                m.Active,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// AccountModelFromDomain creates a persistence model from a domain Account.
func AccountModelFromDomain(a *amazon.Account) *AccountModel {
	return &AccountModel{
		ID:                    a.ID,
		Name:                  a.Name,
		AccessKey:             a.AccessKey,
		SecretKey:             a.SecretKey,
		MerchantID:            a.MerchantID,
		MarketplaceID:         a.MarketplaceID,
		DefaultUnit:           a.DefaultUnit,
		DefaultExpenseAccount: a.DefaultExpenseAccount,
		DefaultRevenueAccount: a.DefaultRevenueAccount,
		CompanyName:           a.CompanyName,
		CurrencyCode:          string(a.Currency),
		Active:                a.Active,
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
}

// AllModels lists every model for AutoMigrate in tests and development
func AllModels() []any {
	return []any{
		&ProductModel{},
		&LocationModel{},
		&StockQuantityModel{},
		&AccountModel{},
		&ProductIdentifierModel{},
		&AccountLinkModel{},
	}
}
