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
)

func validAccountRequest() CreateAccountRequest {
	return CreateAccountRequest{
		Name:          "EU Store",
		AccessKey:     "AKIDEXAMPLE",
		SecretKey:     "secret",
		MerchantID:    "A1MERCHANT",
		MarketplaceID: "A1PA6795UKMFR9",
		DefaultUnit:   "pcs",
		CurrencyCode:  "EUR",
	}
}

func TestAccountService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates active account without exposing keys", func(t *testing.T) {
		repo := new(MockAccountRepository)
		svc := NewAccountService(repo, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*amazon.Account")).Return(nil)

		resp, err := svc.Create(ctx, validAccountRequest())
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, resp.ID)
		assert.Equal(t, "EUR", resp.CurrencyCode)
		assert.True(t, resp.Active)
		repo.AssertExpectations(t)
	})

	tests := []struct {
		name    string
		mutate  func(r *CreateAccountRequest)
		wantErr error
	}{
		{"missing name", func(r *CreateAccountRequest) { r.Name = "" }, amazon.ErrAccountInvalid},
		{"missing secret key", func(r *CreateAccountRequest) { r.SecretKey = "" }, amazon.ErrAccountInvalid},
		{"currency code wrong length", func(r *CreateAccountRequest) { r.CurrencyCode = "EURO" }, amazon.ErrAccountInvalid},
		{"non-letter currency", func(r *CreateAccountRequest) { r.CurrencyCode = "U5D" }, amazon.ErrInvalidCurrencyCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAccountRepository)
			svc := NewAccountService(repo, nil)
			req := validAccountRequest()
			tt.mutate(&req)

			_, err := svc.Create(ctx, req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestAccountService_GetAndList(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil)
	account := newTestAccount()

	repo.On("FindByID", mock.Anything, account.ID).Return(account, nil)
	missing := uuid.New()
	repo.On("FindByID", mock.Anything, missing).Return(nil, amazon.ErrAccountNotFound)

	got, err := svc.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "US Store", got.Name)

	_, err = svc.Get(ctx, missing)
	assert.ErrorIs(t, err, amazon.ErrAccountNotFound)

	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 10 && f.OrderBy == "name"
	})).Return([]amazon.Account{*account}, nil)
	repo.On("Count", mock.Anything).Return(int64(11), nil)

	items, total, err := svc.List(ctx, AccountListFilter{Page: 2, PageSize: 10, OrderBy: "name"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(11), total)
}
