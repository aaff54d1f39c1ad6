package amazon

import (
	"context"
	"strings"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/domain/catalog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdentifierService maintains the marketplace identifiers of products
type IdentifierService struct {
	productRepo    catalog.ProductReader
	identifierRepo amazon.IdentifierRepository
	logger         *zap.Logger
}

// NewIdentifierService creates a new IdentifierService
func NewIdentifierService(
	productRepo catalog.ProductReader,
	identifierRepo amazon.IdentifierRepository,
	logger *zap.Logger,
) *IdentifierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentifierService{
		productRepo:    productRepo,
		identifierRepo: identifierRepo,
		logger:         logger,
	}
}

// Add attaches an identifier to a product.
// A product carrying identifiers must not share its code with another product.
func (s *IdentifierService) Add(ctx context.Context, productID uuid.UUID, req AddIdentifierRequest) (*IdentifierResponse, error) {
	codeType := amazon.CodeType(strings.ToUpper(strings.TrimSpace(req.CodeType)))
	if !codeType.IsValid() {
		return nil, amazon.ErrInvalidCodeType
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	identifier, err := amazon.NewProductIdentifier(product.ID, req.Code, codeType)
	if err != nil {
		return nil, err
	}

	exists, err := s.identifierRepo.ExistsByCode(ctx, identifier.Code, identifier.CodeType)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, amazon.DuplicateIdentifierError(identifier.Code, identifier.CodeType)
	}

	if product.HasCode() {
		taken, err := s.productRepo.ExistsByCodeExcluding(ctx, product.Code, product.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, amazon.DuplicateProductCodeError(product.Code)
		}
	}

	if err := s.identifierRepo.Create(ctx, identifier); err != nil {
		return nil, err
	}

	s.logger.Info("Identifier added",
		zap.String("product_id", product.ID.String()),
		zap.String("code_type", identifier.CodeType.String()),
		zap.String("code", identifier.Code),
	)
	resp := ToIdentifierResponse(identifier)
	return &resp, nil
}

// List returns a product's identifiers in insertion order
func (s *IdentifierService) List(ctx context.Context, productID uuid.UUID) ([]IdentifierResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	identifiers, err := s.identifierRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToIdentifierResponses(identifiers), nil
}

// Remove deletes an identifier
func (s *IdentifierService) Remove(ctx context.Context, identifierID uuid.UUID) error {
	if err := s.identifierRepo.Delete(ctx, identifierID); err != nil {
		return err
	}
	s.logger.Info("Identifier removed", zap.String("identifier_id", identifierID.String()))
	return nil
}
