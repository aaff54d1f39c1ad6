package inventory

import (
	"context"

	"github.com/erp/mws-connector/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockQuantity is the quantity of one product held at one location
type StockQuantity struct {
	shared.BaseEntity
	ProductID  uuid.UUID
	LocationID uuid.UUID
	Quantity   decimal.Decimal
}

// NewStockQuantity creates a stock record for a product at a location
func NewStockQuantity(productID, locationID uuid.UUID, quantity decimal.Decimal) (*StockQuantity, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	return &StockQuantity{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   quantity,
	}, nil
}

// QuantityReader computes on-hand quantities
type QuantityReader interface {
	// SumByLocationType sums quantities per product over locations of the given type.
	// Products without stock are absent from the result.
	SumByLocationType(ctx context.Context, productIDs []uuid.UUID, locationType LocationType) (map[uuid.UUID]decimal.Decimal, error)
}

// LocationRepository persists locations
type LocationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)
	FindByType(ctx context.Context, locationType LocationType) ([]Location, error)
	Save(ctx context.Context, location *Location) error
}

// StockRepository persists stock quantities
type StockRepository interface {
	QuantityReader
	Save(ctx context.Context, stock *StockQuantity) error
}
