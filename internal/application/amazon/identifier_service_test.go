package amazon

import (
	"context"
	"testing"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestIdentifierService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("adds identifier with normalized type", func(t *testing.T) {
		products := new(MockProductRepository)
		identifiers := new(MockIdentifierRepository)
		svc := NewIdentifierService(products, identifiers, zaptest.NewLogger(t))

		p := newTestProduct("SKU-1", "Blue Mug", "")
		products.On("FindByID", mock.Anything, p.ID).Return(&p, nil)
		identifiers.On("ExistsByCode", mock.Anything, "4006381333931", amazon.CodeTypeEAN).Return(false, nil)
		products.On("ExistsByCodeExcluding", mock.Anything, "SKU-1", p.ID).Return(false, nil)
		identifiers.On("Create", mock.Anything, mock.AnythingOfType("*amazon.ProductIdentifier")).Return(nil)

		resp, err := svc.Add(ctx, p.ID, AddIdentifierRequest{Code: " 4006381333931 ", CodeType: "ean"})
		require.NoError(t, err)
		assert.Equal(t, "EAN", resp.CodeType)
		assert.Equal(t, "4006381333931", resp.Code)
		assert.Equal(t, p.ID, resp.ProductID)
		identifiers.AssertExpectations(t)
	})

	t.Run("rejects unknown code type", func(t *testing.T) {
		svc := NewIdentifierService(new(MockProductRepository), new(MockIdentifierRepository), nil)

		_, err := svc.Add(ctx, uuid.New(), AddIdentifierRequest{Code: "123", CodeType: "SKU"})
		assert.ErrorIs(t, err, amazon.ErrInvalidCodeType)
	})

	t.Run("rejects duplicate code and type", func(t *testing.T) {
		products := new(MockProductRepository)
		identifiers := new(MockIdentifierRepository)
		svc := NewIdentifierService(products, identifiers, nil)

		p := newTestProduct("SKU-2", "Red Mug", "")
		products.On("FindByID", mock.Anything, p.ID).Return(&p, nil)
		identifiers.On("ExistsByCode", mock.Anything, "036000291452", amazon.CodeTypeUPC).Return(true, nil)

		_, err := svc.Add(ctx, p.ID, AddIdentifierRequest{Code: "036000291452", CodeType: "UPC"})
		require.Error(t, err)
		assert.ErrorIs(t, err, amazon.ErrDuplicateIdentifier)
		assert.Contains(t, err.Error(), "A product identifier must be unique by type")
		identifiers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects product whose code is shared", func(t *testing.T) {
		products := new(MockProductRepository)
		identifiers := new(MockIdentifierRepository)
		svc := NewIdentifierService(products, identifiers, nil)

		p := newTestProduct("SKU-3", "Green Mug", "")
		products.On("FindByID", mock.Anything, p.ID).Return(&p, nil)
		identifiers.On("ExistsByCode", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		products.On("ExistsByCodeExcluding", mock.Anything, "SKU-3", p.ID).Return(true, nil)

		_, err := svc.Add(ctx, p.ID, AddIdentifierRequest{Code: "B00TEST123", CodeType: "ASIN"})
		require.Error(t, err)
		assert.ErrorIs(t, err, amazon.ErrDuplicateProductCode)
		assert.Contains(t, err.Error(), `Product with Amazon Code/SKU "SKU-3" already exists`)
	})

	t.Run("product without code skips the shared code check", func(t *testing.T) {
		products := new(MockProductRepository)
		identifiers := new(MockIdentifierRepository)
		svc := NewIdentifierService(products, identifiers, nil)

		p := newTestProduct("", "Draft Mug", "")
		products.On("FindByID", mock.Anything, p.ID).Return(&p, nil)
		identifiers.On("ExistsByCode", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		identifiers.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.Add(ctx, p.ID, AddIdentifierRequest{Code: "9780306406157", CodeType: "ISBN"})
		require.NoError(t, err)
		products.AssertNotCalled(t, "ExistsByCodeExcluding", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		products := new(MockProductRepository)
		svc := NewIdentifierService(products, new(MockIdentifierRepository), nil)
		id := uuid.New()
		products.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Add(ctx, id, AddIdentifierRequest{Code: "1", CodeType: "EAN"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestIdentifierService_ListAndRemove(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	identifiers := new(MockIdentifierRepository)
	svc := NewIdentifierService(products, identifiers, nil)

	p := newTestProduct("SKU-4", "Mug", "")
	stored := identifiersOf(p.ID, "EAN", "4006381333931", "ASIN", "B00TEST123")
	products.On("FindByID", mock.Anything, p.ID).Return(&p, nil)
	identifiers.On("FindByProduct", mock.Anything, p.ID).Return(stored, nil)

	list, err := svc.List(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "EAN", list[0].CodeType)
	assert.Equal(t, "ASIN", list[1].CodeType)

	identifiers.On("Delete", mock.Anything, stored[0].ID).Return(nil)
	missing := uuid.New()
	identifiers.On("Delete", mock.Anything, missing).Return(amazon.ErrIdentifierNotFound)

	require.NoError(t, svc.Remove(ctx, stored[0].ID))
	assert.ErrorIs(t, svc.Remove(ctx, missing), amazon.ErrIdentifierNotFound)
}
