package persistence

import (
	"context"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountLinkRepository implements AccountLinkRepository using GORM
type GormAccountLinkRepository struct {
	db *gorm.DB
}

// NewGormAccountLinkRepository creates a new GormAccountLinkRepository
func NewGormAccountLinkRepository(db *gorm.DB) *GormAccountLinkRepository {
	return &GormAccountLinkRepository{db: db}
}

// FindByProducts returns the links of each product
func (r *GormAccountLinkRepository) FindByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]amazon.AccountLink, error) {
	result := make(map[uuid.UUID][]amazon.AccountLink, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var linkModels []models.AccountLinkModel
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("created_at ASC").
		Find(&linkModels).Error; err != nil {
		return nil, err
	}

	for _, model := range linkModels {
		result[model.ProductID] = append(result[model.ProductID], *model.ToDomain())
	}
	return result, nil
}

// CountByPair counts the links between an account and a product (0 or 1)
func (r *GormAccountLinkRepository) CountByPair(ctx context.Context, accountID, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AccountLinkModel{}).
		Where("account_id = ? AND product_id = ?", accountID, productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateIfAbsent inserts the links whose (account, product) pair does not exist yet
// and returns how many rows were actually inserted. Existing pairs are left untouched.
func (r *GormAccountLinkRepository) CreateIfAbsent(ctx context.Context, links []amazon.AccountLink) (int64, error) {
	if len(links) == 0 {
		return 0, nil
	}

	linkModels := make([]models.AccountLinkModel, len(links))
	for i := range links {
		linkModels[i] = models.AccountLinkModelFromDomain(&links[i])
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&linkModels)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Ensure GormAccountLinkRepository implements AccountLinkRepository
var _ amazon.AccountLinkRepository = (*GormAccountLinkRepository)(nil)
