package persistence

import (
	"context"
	"errors"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormIdentifierRepository implements IdentifierRepository using GORM
type GormIdentifierRepository struct {
	db *gorm.DB
}

// NewGormIdentifierRepository creates a new GormIdentifierRepository
func NewGormIdentifierRepository(db *gorm.DB) *GormIdentifierRepository {
	return &GormIdentifierRepository{db: db}
}

// identifierOrder keeps identifiers in insertion order
const identifierOrder = "created_at ASC, id ASC"

// ---------------------------------------------------------------------------
// IdentifierReader implementation
// ---------------------------------------------------------------------------

// FindByID finds an identifier by its ID
func (r *GormIdentifierRepository) FindByID(ctx context.Context, id uuid.UUID) (*amazon.ProductIdentifier, error) {
	var model models.ProductIdentifierModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, amazon.ErrIdentifierNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProduct returns the identifiers of a product in insertion order
func (r *GormIdentifierRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]amazon.ProductIdentifier, error) {
	var identifierModels []models.ProductIdentifierModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order(identifierOrder).
		Find(&identifierModels).Error; err != nil {
		return nil, err
	}

	identifiers := make([]amazon.ProductIdentifier, len(identifierModels))
	for i, model := range identifierModels {
		identifiers[i] = *model.ToDomain()
	}
	return identifiers, nil
}

// FindByProducts returns identifiers grouped by product, each group in insertion order
func (r *GormIdentifierRepository) FindByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]amazon.ProductIdentifier, error) {
	result := make(map[uuid.UUID][]amazon.ProductIdentifier, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var identifierModels []models.ProductIdentifierModel
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order(identifierOrder).
		Find(&identifierModels).Error; err != nil {
		return nil, err
	}

	for _, model := range identifierModels {
		result[model.ProductID] = append(result[model.ProductID], *model.ToDomain())
	}
	return result, nil
}

// ExistsByCode checks whether the (code, type) pair is already registered
func (r *GormIdentifierRepository) ExistsByCode(ctx context.Context, code string, codeType amazon.CodeType) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductIdentifierModel{}).
		Where("code = ? AND code_type = ?", code, codeType).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ---------------------------------------------------------------------------
// IdentifierWriter implementation
// ---------------------------------------------------------------------------

// Create inserts a new identifier.
// A unique violation on (code, code_type) is reported as a duplicate identifier.
func (r *GormIdentifierRepository) Create(ctx context.Context, identifier *amazon.ProductIdentifier) error {
	model := models.ProductIdentifierModelFromDomain(identifier)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return amazon.DuplicateIdentifierError(identifier.Code, identifier.CodeType)
		}
		return err
	}
	return nil
}

// Delete removes an identifier
func (r *GormIdentifierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductIdentifierModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return amazon.ErrIdentifierNotFound
	}
	return nil
}

// Ensure GormIdentifierRepository implements IdentifierRepository
var _ amazon.IdentifierRepository = (*GormIdentifierRepository)(nil)
