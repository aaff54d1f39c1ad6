package persistence

import (
	"context"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/domain/catalog"
	"github.com/erp/mws-connector/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormListingFinder selects the products eligible for a marketplace export
type GormListingFinder struct {
	db *gorm.DB
}

// NewGormListingFinder creates a new GormListingFinder
func NewGormListingFinder(db *gorm.DB) *GormListingFinder {
	return &GormListingFinder{db: db}
}

// FindExportable returns active products that have a code and at least one identifier.
// With requireLink set, products must also be linked to some account.
func (r *GormListingFinder) FindExportable(ctx context.Context, requireLink bool) ([]catalog.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("products.code <> ''").
		Where("products.status = ?", catalog.ProductStatusActive).
		Where("EXISTS (SELECT 1 FROM amazon_product_identifiers i WHERE i.product_id = products.id)")
	if requireLink {
		query = query.Where("EXISTS (SELECT 1 FROM amazon_account_links l WHERE l.product_id = products.id)")
	}

	var productModels []models.ProductModel
	if err := query.Order("products.code ASC").Find(&productModels).Error; err != nil {
		return nil, err
	}

	products := make([]catalog.Product, len(productModels))
	for i, model := range productModels {
		products[i] = *model.ToDomain()
	}
	return products, nil
}

var _ amazon.ListingFinder = (*GormListingFinder)(nil)
