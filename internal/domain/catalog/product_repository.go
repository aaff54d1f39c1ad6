package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductReader defines read operations for products
type ProductReader interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products, preserving the order of ids.
	// Missing ids are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindByCode returns the first product carrying code
	FindByCode(ctx context.Context, code string) (*Product, error)

	// ExistsByCodeExcluding checks whether another product uses code
	ExistsByCodeExcluding(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)
}

// ProductWriter defines write operations for products
type ProductWriter interface {
	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}

// ProductRepository combines read and write operations
type ProductRepository interface {
	ProductReader
	ProductWriter
}
