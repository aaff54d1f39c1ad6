package amazon

import "context"

// IDTypeSellerSKU asks the products API to match by seller SKU
const IDTypeSellerSKU = "SellerSKU"

// AttributeShape records how the marketplace returned a product's attribute sets.
// The products API returns either one attribute set or a list of them.
type AttributeShape string

const (
	AttributeShapeNone   AttributeShape = "none"
	AttributeShapeSingle AttributeShape = "single"
	AttributeShapeList   AttributeShape = "list"
)

// ItemAttributes is the subset of marketplace item attributes used locally
type ItemAttributes struct {
	Title        string
	Brand        string
	ProductGroup string
	ProductType  string
}

// MatchedProduct is one product returned by the marketplace for a requested ID
type MatchedProduct struct {
	// RequestedID is the ID the match was requested for (the seller SKU)
	RequestedID string
	ASIN        string
	// AttributeSets is always a slice; Shape says what the response carried
	AttributeSets []ItemAttributes
	Shape         AttributeShape
}

// Title returns the title of the first attribute set
func (m *MatchedProduct) Title() string {
	if len(m.AttributeSets) == 0 {
		return ""
	}
	return m.AttributeSets[0].Title
}

// CatalogLookup queries marketplace product data
type CatalogLookup interface {
	GetMatchingProductForID(ctx context.Context, creds Credentials, marketplaceID, idType string, ids []string) ([]MatchedProduct, error)
}
