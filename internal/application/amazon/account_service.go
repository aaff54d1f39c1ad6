package amazon

import (
	"context"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService registers and reads MWS accounts
type AccountService struct {
	accountRepo amazon.AccountRepository
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo amazon.AccountRepository, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		accountRepo: accountRepo,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
	}
}

// Create registers a new account
func (s *AccountService) Create(ctx context.Context, req CreateAccountRequest) (*AccountResponse, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, shared.NewDomainErrorWithCause("INVALID_INPUT", err.Error(), amazon.ErrAccountInvalid)
	}

	account, err := amazon.NewAccount(amazon.AccountParams{
		Name:                  req.Name,
		AccessKey:             req.AccessKey,
		SecretKey:             req.SecretKey,
		MerchantID:            req.MerchantID,
		MarketplaceID:         req.MarketplaceID,
		DefaultUnit:           req.DefaultUnit,
		DefaultExpenseAccount: req.DefaultExpenseAccount,
		DefaultRevenueAccount: req.DefaultRevenueAccount,
		CompanyName:           req.CompanyName,
		CurrencyCode:          req.CurrencyCode,
	})
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("MWS account registered",
		zap.String("account_id", account.ID.String()),
		zap.String("marketplace_id", account.MarketplaceID),
	)
	resp := ToAccountResponse(account)
	return &resp, nil
}

// Get returns an account by ID
func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAccountResponse(account)
	return &resp, nil
}

// List returns a page of accounts and the total count
func (s *AccountService) List(ctx context.Context, filter AccountListFilter) ([]AccountResponse, int64, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}

	accounts, err := s.accountRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.accountRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses, total, nil
}
