package amazon

import (
	"context"
	"testing"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/domain/catalog"
	"github.com/erp/mws-connector/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type resolverFixture struct {
	accounts    *MockAccountRepository
	products    *MockProductRepository
	identifiers *MockIdentifierRepository
	lookup      *MockCatalogLookup
	logs        *observer.ObservedLogs
	resolver    *ProductResolver
	account     *amazon.Account
}

func newResolverFixture() *resolverFixture {
	core, logs := observer.New(zapcore.DebugLevel)
	f := &resolverFixture{
		accounts:    new(MockAccountRepository),
		products:    new(MockProductRepository),
		identifiers: new(MockIdentifierRepository),
		lookup:      new(MockCatalogLookup),
		logs:        logs,
		account:     newTestAccount(),
	}
	txScope := NewNoOpTransactionScope(f.products, f.identifiers, new(MockAccountLinkRepository))
	f.resolver = NewProductResolver(f.accounts, f.products, f.lookup, txScope, zap.New(core))
	f.accounts.On("FindByID", mock.Anything, f.account.ID).Return(f.account, nil)
	return f
}

func TestProductResolver_ResolveBySKU(t *testing.T) {
	ctx := context.Background()

	t.Run("returns existing product without calling the marketplace", func(t *testing.T) {
		f := newResolverFixture()
		existing := newTestProduct("SKU-1", "Blue Mug", "9.99")
		f.products.On("FindByCode", mock.Anything, "SKU-1").Return(&existing, nil)

		product, err := f.resolver.ResolveBySKU(ctx, f.account.ID, "SKU-1")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, product.ID)
		f.lookup.AssertNotCalled(t, "GetMatchingProductForID", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("imports product with ASIN identifier and placeholder prices", func(t *testing.T) {
		f := newResolverFixture()
		f.products.On("FindByCode", mock.Anything, "SKU-NEW").Return(nil, shared.ErrNotFound)
		f.lookup.On("GetMatchingProductForID", mock.Anything, f.account.Credentials(), "ATVPDKIKX0DER", amazon.IDTypeSellerSKU, []string{"SKU-NEW"}).
			Return([]amazon.MatchedProduct{{
				RequestedID:   "SKU-NEW",
				ASIN:          "B00NEW0001",
				AttributeSets: []amazon.ItemAttributes{{Title: "Imported Mug"}, {Title: "Other"}},
				Shape:         amazon.AttributeShapeList,
			}}, nil)

		var saved *catalog.Product
		f.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*catalog.Product) }).
			Return(nil)
		f.identifiers.On("Create", mock.Anything, mock.MatchedBy(func(i *amazon.ProductIdentifier) bool {
			return i.Code == "B00NEW0001" && i.CodeType == amazon.CodeTypeASIN
		})).Return(nil)

		product, err := f.resolver.ResolveBySKU(ctx, f.account.ID, "SKU-NEW")
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, saved.ID, product.ID)
		assert.Equal(t, "SKU-NEW", product.Code)
		assert.Equal(t, "Imported Mug", product.Name)
		assert.Equal(t, "pcs", product.Unit)
		assert.True(t, product.ListPrice.Equal(decimal.RequireFromString("0.01")))
		assert.True(t, product.CostPrice.Equal(decimal.RequireFromString("0.01")))
		assert.Equal(t, "7000", product.RevenueAccount)
		assert.Equal(t, "6000", product.ExpenseAccount)
		f.identifiers.AssertExpectations(t)
		assert.Zero(t, f.logs.FilterMessage("Marketplace returned a single attribute set").Len())
	})

	t.Run("single attribute set is logged at warn level", func(t *testing.T) {
		f := newResolverFixture()
		f.products.On("FindByCode", mock.Anything, "SKU-ONE").Return(nil, shared.ErrNotFound)
		f.lookup.On("GetMatchingProductForID", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]amazon.MatchedProduct{{
				RequestedID:   "SKU-ONE",
				ASIN:          "B00ONE0001",
				AttributeSets: []amazon.ItemAttributes{{Title: "Single Mug"}},
				Shape:         amazon.AttributeShapeSingle,
			}}, nil)
		f.products.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.identifiers.On("Create", mock.Anything, mock.Anything).Return(nil)

		product, err := f.resolver.ResolveBySKU(ctx, f.account.ID, "SKU-ONE")
		require.NoError(t, err)
		assert.Equal(t, "Single Mug", product.Name)

		warnings := f.logs.FilterMessage("Marketplace returned a single attribute set")
		require.Equal(t, 1, warnings.Len())
		assert.Equal(t, zapcore.WarnLevel, warnings.All()[0].Level)
	})

	t.Run("not found on marketplace", func(t *testing.T) {
		f := newResolverFixture()
		f.products.On("FindByCode", mock.Anything, "SKU-GONE").Return(nil, shared.ErrNotFound)
		f.lookup.On("GetMatchingProductForID", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]amazon.MatchedProduct{}, nil)

		_, err := f.resolver.ResolveBySKU(ctx, f.account.ID, "SKU-GONE")
		require.Error(t, err)
		assert.ErrorIs(t, err, amazon.ErrProductNotFoundOnMarketplace)
		f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("identifier failure surfaces the error", func(t *testing.T) {
		f := newResolverFixture()
		f.products.On("FindByCode", mock.Anything, "SKU-DUP").Return(nil, shared.ErrNotFound)
		f.lookup.On("GetMatchingProductForID", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]amazon.MatchedProduct{{ASIN: "B00DUP0001", Shape: amazon.AttributeShapeList, AttributeSets: []amazon.ItemAttributes{{Title: "Dup"}}}}, nil)
		f.products.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.identifiers.On("Create", mock.Anything, mock.Anything).
			Return(amazon.DuplicateIdentifierError("B00DUP0001", amazon.CodeTypeASIN))

		_, err := f.resolver.ResolveBySKU(ctx, f.account.ID, "SKU-DUP")
		assert.ErrorIs(t, err, amazon.ErrDuplicateIdentifier)
	})

	t.Run("lookup errors are wrapped", func(t *testing.T) {
		f := newResolverFixture()
		f.products.On("FindByCode", mock.Anything, "SKU-ERR").Return(nil, shared.ErrNotFound)
		f.lookup.On("GetMatchingProductForID", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errMWSDown)

		_, err := f.resolver.ResolveBySKU(ctx, f.account.ID, "SKU-ERR")
		assert.ErrorIs(t, err, errMWSDown)
	})

	t.Run("empty sku", func(t *testing.T) {
		f := newResolverFixture()
		_, err := f.resolver.ResolveBySKU(ctx, f.account.ID, "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}
