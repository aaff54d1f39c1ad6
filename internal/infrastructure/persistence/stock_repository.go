package persistence

import (
	"context"
	"errors"

	"github.com/erp/mws-connector/internal/domain/inventory"
	"github.com/erp/mws-connector/internal/domain/shared"
	"github.com/erp/mws-connector/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ---------------------------------------------------------------------------
// GormLocationRepository
// ---------------------------------------------------------------------------

// GormLocationRepository implements LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByID finds a location by its ID
func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Location, error) {
	var model models.LocationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByType lists the locations of one type
func (r *GormLocationRepository) FindByType(ctx context.Context, locationType inventory.LocationType) ([]inventory.Location, error) {
	var locationModels []models.LocationModel
	if err := r.db.WithContext(ctx).
		Where("type = ?", locationType).
		Order("code ASC").
		Find(&locationModels).Error; err != nil {
		return nil, err
	}

	locations := make([]inventory.Location, len(locationModels))
	for i, model := range locationModels {
		locations[i] = *model.ToDomain()
	}
	return locations, nil
}

// Save creates or updates a location
func (r *GormLocationRepository) Save(ctx context.Context, location *inventory.Location) error {
	model := &models.LocationModel{}
	model.FromDomain(location)
	return r.db.WithContext(ctx).Save(model).Error
}

// ---------------------------------------------------------------------------
// GormStockRepository
// ---------------------------------------------------------------------------

// GormStockRepository implements StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

type productQuantityRow struct {
	ProductID uuid.UUID
	Total     decimal.Decimal
}

// SumByLocationType sums the stock of each product over all locations of locationType
func (r *GormStockRepository) SumByLocationType(ctx context.Context, productIDs []uuid.UUID, locationType inventory.LocationType) (map[uuid.UUID]decimal.Decimal, error) {
	result := make(map[uuid.UUID]decimal.Decimal, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var rows []productQuantityRow
	if err := r.db.WithContext(ctx).
		Table("stock_quantities AS sq").
		Select("sq.product_id AS product_id, SUM(sq.quantity) AS total").
		Joins("JOIN stock_locations sl ON sl.id = sq.location_id").
		Where("sl.type = ? AND sq.product_id IN ?", locationType, productIDs).
		Group("sq.product_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ProductID] = row.Total
	}
	return result, nil
}

// Save upserts the quantity of a product at a location
func (r *GormStockRepository) Save(ctx context.Context, stock *inventory.StockQuantity) error {
	model := &models.StockQuantityModel{}
	model.FromDomain(stock)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "location_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(model).Error
}

// Ensure repositories implement their interfaces
var (
	_ inventory.LocationRepository = (*GormLocationRepository)(nil)
	_ inventory.StockRepository    = (*GormStockRepository)(nil)
)
