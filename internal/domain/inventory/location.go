package inventory

import (
	"github.com/erp/mws-connector/internal/domain/shared"
)

// LocationType classifies stock locations
type LocationType string

const (
	LocationTypeStorage    LocationType = "storage"
	LocationTypeWarehouse  LocationType = "warehouse"
	LocationTypeView       LocationType = "view"
	LocationTypeSupplier   LocationType = "supplier"
	LocationTypeCustomer   LocationType = "customer"
	LocationTypeLostFound  LocationType = "lost_found"
	LocationTypeProduction LocationType = "production"
)

// IsValid checks if the location type is a known value
func (t LocationType) IsValid() bool {
	switch t {
	case LocationTypeStorage, LocationTypeWarehouse, LocationTypeView, LocationTypeSupplier,
		LocationTypeCustomer, LocationTypeLostFound, LocationTypeProduction:
		return true
	}
	return false
}

// String returns the string representation
func (t LocationType) String() string {
	return string(t)
}

// Location is a place stock can sit in. Only storage locations count as on hand.
type Location struct {
	shared.BaseEntity
	Code string
	Name string
	Type LocationType
}

// NewLocation creates a new location
func NewLocation(code, name string, locationType LocationType) (*Location, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Location code cannot be empty")
	}
	if !locationType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LOCATION_TYPE", "Invalid location type: "+string(locationType))
	}
	return &Location{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Type:       locationType,
	}, nil
}

// IsStorage returns true for locations whose stock is sellable
func (l *Location) IsStorage() bool {
	return l.Type == LocationTypeStorage
}
