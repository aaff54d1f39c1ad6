package amazon

import (
	"context"
	"strings"
	"time"

	"github.com/erp/mws-connector/internal/domain/shared"
	"github.com/erp/mws-connector/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Credentials are the keys used to sign MWS requests for one seller
type Credentials struct {
	AccessKey string
	SecretKey string
	SellerID  string
}

// Account is an MWS seller account together with the defaults used when
// products are imported from the marketplace. The export pipeline treats it
// as read-only configuration.
type Account struct {
	ID                    uuid.UUID
	Name                  string
	AccessKey             string
	SecretKey             string
	MerchantID            string
	MarketplaceID         string
	DefaultUnit           string
	DefaultExpenseAccount string
	DefaultRevenueAccount string
	CompanyName           string
	Currency              valueobject.Currency
	Active                bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// AccountParams holds the values required to register an account
type AccountParams struct {
	Name                  string
	AccessKey             string
	SecretKey             string
	MerchantID            string
	MarketplaceID         string
	DefaultUnit           string
	DefaultExpenseAccount string
	DefaultRevenueAccount string
	CompanyName           string
	CurrencyCode          string
}

// NewAccount creates a new active account
func NewAccount(p AccountParams) (*Account, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, shared.NewDomainErrorWithCause("INVALID_ACCOUNT", "Account name cannot be empty", ErrAccountInvalid)
	}
	if p.AccessKey == "" || p.SecretKey == "" || p.MerchantID == "" {
		return nil, shared.NewDomainErrorWithCause("INVALID_ACCOUNT", "Access key, secret key and merchant ID are required", ErrAccountInvalid)
	}
	if p.MarketplaceID == "" {
		return nil, shared.NewDomainErrorWithCause("INVALID_ACCOUNT", "Marketplace ID is required", ErrAccountInvalid)
	}
	currency, err := valueobject.ParseCurrency(p.CurrencyCode)
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("INVALID_CURRENCY", err.Error(), ErrInvalidCurrencyCode)
	}

	now := time.Now()
	return &Account{
		ID:                    uuid.New(),
		Name:                  strings.TrimSpace(p.Name),
		AccessKey:             p.AccessKey,
		SecretKey:             p.SecretKey,
		MerchantID:            p.MerchantID,
		MarketplaceID:         p.MarketplaceID,
		DefaultUnit:           p.DefaultUnit,
		DefaultExpenseAccount: p.DefaultExpenseAccount,
		DefaultRevenueAccount: p.DefaultRevenueAccount,
		CompanyName:           p.CompanyName,
		Currency:              currency,
		Active:                true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// Credentials returns the signing credentials of the account
func (a *Account) Credentials() Credentials {
	return Credentials{
		AccessKey: a.AccessKey,
		SecretKey: a.SecretKey,
		SellerID:  a.MerchantID,
	}
}

// MarketplaceIDs returns the marketplaces a feed for this account targets
func (a *Account) MarketplaceIDs() []string {
	return []string{a.MarketplaceID}
}

// AccountRepository persists MWS accounts
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Account, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, account *Account) error
}
