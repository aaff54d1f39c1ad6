package amazon

import (
	"context"

	"github.com/erp/mws-connector/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listable is the capability a product needs to appear in an MWS feed
type Listable interface {
	ProductID() uuid.UUID
	SKU() string
	DisplayName() string
	Description() string
	ListPrice() decimal.Decimal
	Identifiers() []ProductIdentifier
	IsLinkedTo(accountID uuid.UUID) bool
}

// Listing composes a catalog product with its marketplace identifiers and account links
type Listing struct {
	product     *catalog.Product
	identifiers []ProductIdentifier
	links       []AccountLink
}

// NewListing creates a listing. identifiers must be in insertion order.
func NewListing(product *catalog.Product, identifiers []ProductIdentifier, links []AccountLink) *Listing {
	return &Listing{
		product:     product,
		identifiers: identifiers,
		links:       links,
	}
}

func (l *Listing) ProductID() uuid.UUID       { return l.product.ID }
func (l *Listing) SKU() string                { return l.product.Code }
func (l *Listing) DisplayName() string        { return l.product.Name }
func (l *Listing) Description() string        { return l.product.Description }
func (l *Listing) ListPrice() decimal.Decimal { return l.product.ListPrice }

// Identifiers returns the identifiers in insertion order
func (l *Listing) Identifiers() []ProductIdentifier {
	return l.identifiers
}

// IsLinkedTo reports whether the product has been exported to the account
func (l *Listing) IsLinkedTo(accountID uuid.UUID) bool {
	for _, link := range l.links {
		if link.AccountID == accountID {
			return true
		}
	}
	return false
}

// ListingsFromProducts composes products with grouped identifiers and links,
// keeping the product order.
func ListingsFromProducts(
	products []catalog.Product,
	identifiers map[uuid.UUID][]ProductIdentifier,
	links map[uuid.UUID][]AccountLink,
) []Listable {
	listings := make([]Listable, 0, len(products))
	for i := range products {
		p := &products[i]
		listings = append(listings, NewListing(p, identifiers[p.ID], links[p.ID]))
	}
	return listings
}

// ListingFinder finds products eligible for marketplace exports
type ListingFinder interface {
	// FindExportable returns products that have a code and at least one
	// identifier. With requireLink set, products must also be linked to at
	// least one account.
	FindExportable(ctx context.Context, requireLink bool) ([]catalog.Product, error)
}

var _ Listable = (*Listing)(nil)
