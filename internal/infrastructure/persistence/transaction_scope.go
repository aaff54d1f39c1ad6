package persistence

import (
	"context"

	appamazon "github.com/erp/mws-connector/internal/application/amazon"
	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/domain/catalog"
	"gorm.io/gorm"
)

var (
	_ appamazon.TransactionScope          = (*GormTransactionScope)(nil)
	_ appamazon.TransactionalRepositories = txRepos{}
)

// GormTransactionScope commits the work of fn when it returns nil and rolls
// it back otherwise; a panic in fn also rolls back.
type GormTransactionScope struct {
	db *gorm.DB
}

func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

func (s *GormTransactionScope) Execute(ctx context.Context, fn func(appamazon.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txRepos{tx})
	})
}

// txRepos hands out repositories bound to one *gorm.DB transaction.
type txRepos struct{ tx *gorm.DB }

func (r txRepos) ProductRepo() catalog.ProductRepository     { return NewGormProductRepository(r.tx) }
func (r txRepos) IdentifierRepo() amazon.IdentifierRepository { return NewGormIdentifierRepository(r.tx) }
func (r txRepos) LinkRepo() amazon.AccountLinkRepository      { return NewGormAccountLinkRepository(r.tx) }
