package persistence

import (
	"context"
	"errors"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/domain/shared"
	"github.com/erp/mws-connector/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*amazon.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, amazon.ErrAccountNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists accounts page by page
func (r *GormAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]amazon.Account, error) {
	query := r.db.WithContext(ctx).Model(&models.AccountModel{})
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	query = query.Order(accountSortColumns.orderBy(filter.OrderBy, filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var accountModels []models.AccountModel
	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]amazon.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// Count returns the number of accounts
func (r *GormAccountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AccountModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *amazon.Account) error {
	return r.db.WithContext(ctx).Save(models.AccountModelFromDomain(account)).Error
}

// Ensure GormAccountRepository implements AccountRepository
var _ amazon.AccountRepository = (*GormAccountRepository)(nil)
