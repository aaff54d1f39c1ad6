package amazon

import (
	"time"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Account DTOs
// ---------------------------------------------------------------------------

// CreateAccountRequest represents a request to register an MWS account
type CreateAccountRequest struct {
	Name                  string `json:"name" binding:"required,min=1,max=100" validate:"required,min=1,max=100"`
	AccessKey             string `json:"access_key" binding:"required" validate:"required"`
	SecretKey             string `json:"secret_key" binding:"required" validate:"required"`
	MerchantID            string `json:"merchant_id" binding:"required,max=50" validate:"required,max=50"`
	MarketplaceID         string `json:"marketplace_id" binding:"required,max=50" validate:"required,max=50"`
	DefaultUnit           string `json:"default_unit" binding:"required,max=20" validate:"required,max=20"`
	DefaultExpenseAccount string `json:"default_expense_account" binding:"max=50" validate:"max=50"`
	DefaultRevenueAccount string `json:"default_revenue_account" binding:"max=50" validate:"max=50"`
	CompanyName           string `json:"company_name" binding:"max=200" validate:"max=200"`
	CurrencyCode          string `json:"currency_code" binding:"required,len=3" validate:"required,len=3"`
}

// AccountResponse represents an MWS account in API responses. Keys are never returned.
type AccountResponse struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	MerchantID            string    `json:"merchant_id"`
	MarketplaceID         string    `json:"marketplace_id"`
	DefaultUnit           string    `json:"default_unit"`
	DefaultExpenseAccount string    `json:"default_expense_account"`
	DefaultRevenueAccount string    `json:"default_revenue_account"`
	CompanyName           string    `json:"company_name"`
	CurrencyCode          string    `json:"currency_code"`
	Active                bool      `json:"active"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ToAccountResponse converts a domain account to a response
func ToAccountResponse(a *amazon.Account) AccountResponse {
	return AccountResponse{
		ID:                    a.ID,
		Name:                  a.Name,
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

// AccountListFilter represents filter options for listing accounts
type AccountListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name created_at updated_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ---------------------------------------------------------------------------
// Identifier DTOs
// ---------------------------------------------------------------------------

// AddIdentifierRequest represents a request to attach an identifier to a product
type AddIdentifierRequest struct {
	Code     string `json:"code" binding:"required,min=1,max=50"`
	CodeType string `json:"code_type" binding:"required"`
}

// IdentifierResponse represents a product identifier in API responses
type IdentifierResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"code"`
	CodeType  string    `json:"code_type"`
	CreatedAt time.Time `json:"created_at"`
}

// ToIdentifierResponse converts a domain identifier to a response
func ToIdentifierResponse(i *amazon.ProductIdentifier) IdentifierResponse {
	return IdentifierResponse{
		ID:        i.ID,
		ProductID: i.ProductID,
		Code:      i.Code,
		CodeType:  i.CodeType.String(),
		CreatedAt: i.CreatedAt,
	}
}

// ToIdentifierResponses converts identifiers keeping their order
func ToIdentifierResponses(identifiers []amazon.ProductIdentifier) []IdentifierResponse {
	responses := make([]IdentifierResponse, len(identifiers))
	for i := range identifiers {
		responses[i] = ToIdentifierResponse(&identifiers[i])
	}
	return responses
}

// ---------------------------------------------------------------------------
// Product DTOs
// ---------------------------------------------------------------------------

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Unit           string          `json:"unit"`
	ListPrice      decimal.Decimal `json:"list_price"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	RevenueAccount string          `json:"revenue_account"`
	ExpenseAccount string          `json:"expense_account"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		Description:    p.Description,
		Unit:           p.Unit,
		ListPrice:      p.ListPrice,
		CostPrice:      p.CostPrice,
		RevenueAccount: p.RevenueAccount,
		ExpenseAccount: p.ExpenseAccount,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

// CandidateResponse is a product offered for selection in a wizard
type CandidateResponse struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	ListPrice decimal.Decimal `json:"list_price"`
}

// ToCandidateResponses converts candidate products keeping their order
func ToCandidateResponses(products []catalog.Product) []CandidateResponse {
	responses := make([]CandidateResponse, len(products))
	for i := range products {
		responses[i] = CandidateResponse{
			ID:        products[i].ID,
			Code:      products[i].Code,
			Name:      products[i].Name,
			ListPrice: products[i].ListPrice,
		}
	}
	return responses
}

// ResolveSKURequest represents a request to find or import a product by SKU
type ResolveSKURequest struct {
	SKU string `json:"sku" binding:"required,min=1,max=50"`
}

// ---------------------------------------------------------------------------
// Export DTOs
// ---------------------------------------------------------------------------

// ExportRequest represents a direct export of the given products
type ExportRequest struct {
	ProductIDs []uuid.UUID `json:"product_ids" binding:"required,min=1"`
}

// SubmissionResponse is the MWS acknowledgment of a submitted feed
type SubmissionResponse struct {
	SubmissionID     string    `json:"submission_id"`
	FeedType         string    `json:"feed_type"`
	ProcessingStatus string    `json:"processing_status"`
	SubmittedDate    time.Time `json:"submitted_date"`
}

// ToSubmissionResponse converts a feed submission to a response
func ToSubmissionResponse(s *amazon.FeedSubmission) *SubmissionResponse {
	if s == nil {
		return nil
	}
	return &SubmissionResponse{
		SubmissionID:     s.SubmissionID,
		FeedType:         string(s.FeedType),
		ProcessingStatus: s.ProcessingStatus,
		SubmittedDate:    s.SubmittedDate,
	}
}

// ---------------------------------------------------------------------------
// Wizard DTOs
// ---------------------------------------------------------------------------

// ContinueWizardRequest carries the products picked on the selection screen
type ContinueWizardRequest struct {
	ProductIDs []uuid.UUID `json:"product_ids"`
}

// WizardResponse represents a wizard session in API responses
type WizardResponse struct {
	ID         uuid.UUID           `json:"id"`
	Kind       string              `json:"kind"`
	AccountID  uuid.UUID           `json:"account_id"`
	State      string              `json:"state"`
	ProductIDs []uuid.UUID         `json:"product_ids,omitempty"`
	Result     *SubmissionResponse `json:"result,omitempty"`
	LastError  string              `json:"last_error,omitempty"`
	Candidates []CandidateResponse `json:"candidates,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// ToWizardResponse converts a wizard session to a response
func ToWizardResponse(s *amazon.WizardSession) *WizardResponse {
	return &WizardResponse{
		ID:         s.ID,
		Kind:       s.Kind.String(),
		AccountID:  s.AccountID,
		State:      string(s.State),
		ProductIDs: s.ProductIDs,
		Result:     ToSubmissionResponse(s.Result),
		LastError:  s.LastError,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}
