package amazon

import (
	"context"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/domain/catalog"
)

// TransactionScope provides transactional access to the marketplace repositories.
// All repository operations inside fn are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories written by exports and
// product resolution. All of them share the same underlying transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// IdentifierRepo returns the identifier repository scoped to the current transaction
	IdentifierRepo() amazon.IdentifierRepository
	// LinkRepo returns the account link repository scoped to the current transaction
	LinkRepo() amazon.AccountLinkRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// Useful for tests and in-memory wiring.
type NoOpTransactionScope struct {
	productRepo    catalog.ProductRepository
	identifierRepo amazon.IdentifierRepository
	linkRepo       amazon.AccountLinkRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	identifierRepo amazon.IdentifierRepository,
	linkRepo amazon.AccountLinkRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:    productRepo,
		identifierRepo: identifierRepo,
		linkRepo:       linkRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

func (s *NoOpTransactionScope) IdentifierRepo() amazon.IdentifierRepository {
	return s.identifierRepo
}

func (s *NoOpTransactionScope) LinkRepo() amazon.AccountLinkRepository {
	return s.linkRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
