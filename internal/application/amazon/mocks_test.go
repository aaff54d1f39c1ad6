package amazon

import (
	"context"
	"time"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/domain/catalog"
	"github.com/erp/mws-connector/internal/domain/inventory"
	"github.com/erp/mws-connector/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of amazon.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*amazon.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*amazon.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]amazon.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]amazon.Account), args.Error(1)
}

func (m *MockAccountRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *amazon.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsByCodeExcluding(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockIdentifierRepository is a mock implementation of amazon.IdentifierRepository
type MockIdentifierRepository struct {
	mock.Mock
}

func (m *MockIdentifierRepository) FindByID(ctx context.Context, id uuid.UUID) (*amazon.ProductIdentifier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*amazon.ProductIdentifier), args.Error(1)
}

func (m *MockIdentifierRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]amazon.ProductIdentifier, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]amazon.ProductIdentifier), args.Error(1)
}

func (m *MockIdentifierRepository) FindByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]amazon.ProductIdentifier, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]amazon.ProductIdentifier), args.Error(1)
}

func (m *MockIdentifierRepository) ExistsByCode(ctx context.Context, code string, codeType amazon.CodeType) (bool, error) {
	args := m.Called(ctx, code, codeType)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdentifierRepository) Create(ctx context.Context, identifier *amazon.ProductIdentifier) error {
	args := m.Called(ctx, identifier)
	return args.Error(0)
}

func (m *MockIdentifierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAccountLinkRepository is a mock implementation of amazon.AccountLinkRepository
type MockAccountLinkRepository struct {
	mock.Mock
}

func (m *MockAccountLinkRepository) FindByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]amazon.AccountLink, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]amazon.AccountLink), args.Error(1)
}

func (m *MockAccountLinkRepository) CountByPair(ctx context.Context, accountID, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountLinkRepository) CreateIfAbsent(ctx context.Context, links []amazon.AccountLink) (int64, error) {
	args := m.Called(ctx, links)
	return args.Get(0).(int64), args.Error(1)
}

// MockQuantityReader is a mock implementation of inventory.QuantityReader
type MockQuantityReader struct {
	mock.Mock
}

func (m *MockQuantityReader) SumByLocationType(ctx context.Context, productIDs []uuid.UUID, locationType inventory.LocationType) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, productIDs, locationType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

// MockFeedSubmitter is a mock implementation of amazon.FeedSubmitter
type MockFeedSubmitter struct {
	mock.Mock
}

func (m *MockFeedSubmitter) SubmitFeed(ctx context.Context, creds amazon.Credentials, feed *amazon.Feed, marketplaceIDs []string) (*amazon.FeedSubmission, error) {
	args := m.Called(ctx, creds, feed, marketplaceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*amazon.FeedSubmission), args.Error(1)
}

// MockFeedArchive is a mock implementation of amazon.FeedArchive
type MockFeedArchive struct {
	mock.Mock
}

func (m *MockFeedArchive) Store(ctx context.Context, account *amazon.Account, feed *amazon.Feed, submission *amazon.FeedSubmission) error {
	args := m.Called(ctx, account, feed, submission)
	return args.Error(0)
}

// MockCatalogLookup is a mock implementation of amazon.CatalogLookup
type MockCatalogLookup struct {
	mock.Mock
}

func (m *MockCatalogLookup) GetMatchingProductForID(ctx context.Context, creds amazon.Credentials, marketplaceID, idType string, ids []string) ([]amazon.MatchedProduct, error) {
	args := m.Called(ctx, creds, marketplaceID, idType, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]amazon.MatchedProduct), args.Error(1)
}

// MockListingFinder is a mock implementation of amazon.ListingFinder
type MockListingFinder struct {
	mock.Mock
}

func (m *MockListingFinder) FindExportable(ctx context.Context, requireLink bool) ([]catalog.Product, error) {
	args := m.Called(ctx, requireLink)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

// MockWizardStore is a mock implementation of amazon.WizardStore
type MockWizardStore struct {
	mock.Mock
}

func (m *MockWizardStore) Save(ctx context.Context, session *amazon.WizardSession, ttl time.Duration) error {
	args := m.Called(ctx, session, ttl)
	return args.Error(0)
}

func (m *MockWizardStore) Get(ctx context.Context, id uuid.UUID) (*amazon.WizardSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*amazon.WizardSession), args.Error(1)
}

func (m *MockWizardStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockExporter is a mock implementation of Exporter
type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, kind amazon.WizardKind, accountID uuid.UUID, productIDs []uuid.UUID) (*amazon.FeedSubmission, error) {
	args := m.Called(ctx, kind, accountID, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*amazon.FeedSubmission), args.Error(1)
}

// MockMetricsRecorder is a mock implementation of MetricsRecorder
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) RecordExport(ctx context.Context, feedType, outcome string, messages, skipped int, elapsed time.Duration) {
	m.Called(ctx, feedType, outcome, messages, skipped, elapsed)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func newTestAccount() *amazon.Account {
	account, err := amazon.NewAccount(amazon.AccountParams{
		Name:                  "US Store",
		AccessKey:             "AKIDEXAMPLE",
		SecretKey:             "secret",
		MerchantID:            "A1MERCHANT",
		MarketplaceID:         "ATVPDKIKX0DER",
		DefaultUnit:           "pcs",
		DefaultExpenseAccount: "6000",
		DefaultRevenueAccount: "7000",
		CompanyName:           "Acme",
		CurrencyCode:          "USD",
	})
	if err != nil {
		panic(err)
	}
	return account
}

func newTestProduct(code, name, price string) catalog.Product {
	p, err := catalog.NewProduct(code, name, "pcs")
	if err != nil {
		panic(err)
	}
	if price != "" {
		_ = p.SetPrices(decimal.Zero, decimal.RequireFromString(price))
	}
	return *p
}

func identifiersOf(productID uuid.UUID, pairs ...string) []amazon.ProductIdentifier {
	var out []amazon.ProductIdentifier
	for i := 0; i+1 < len(pairs); i += 2 {
		id, err := amazon.NewProductIdentifier(productID, pairs[i+1], amazon.CodeType(pairs[i]))
		if err != nil {
			panic(err)
		}
		out = append(out, *id)
	}
	return out
}
