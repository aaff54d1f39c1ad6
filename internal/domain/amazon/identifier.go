package amazon

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// CodeType
// ---------------------------------------------------------------------------

// CodeType is the kind of standard product ID a marketplace code represents
type CodeType string

const (
	CodeTypeEAN  CodeType = "EAN"
	CodeTypeUPC  CodeType = "UPC"
	CodeTypeISBN CodeType = "ISBN"
	CodeTypeASIN CodeType = "ASIN"
	CodeTypeGTIN CodeType = "GTIN"
)

// IsValid returns true if the code type is valid
func (t CodeType) IsValid() bool {
	switch t {
	case CodeTypeEAN, CodeTypeUPC, CodeTypeISBN, CodeTypeASIN, CodeTypeGTIN:
		return true
	default:
		return false
	}
}

// String returns the string representation of CodeType
func (t CodeType) String() string {
	return string(t)
}

// ---------------------------------------------------------------------------
// ProductIdentifier Entity
// ---------------------------------------------------------------------------

// ProductIdentifier is a marketplace product code attached to a local product.
// (Code, CodeType) is unique across all identifiers. Identifiers are never
// updated in place; corrections are delete + recreate.
type ProductIdentifier struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Code      string
	CodeType  CodeType
	CreatedAt time.Time
}

// NewProductIdentifier creates a new identifier for a product
func NewProductIdentifier(productID uuid.UUID, code string, codeType CodeType) (*ProductIdentifier, error) {
	if productID == uuid.Nil {
		return nil, ErrInvalidProductID
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrIdentifierCodeRequired
	}
	codeType = CodeType(strings.ToUpper(strings.TrimSpace(string(codeType))))
	if !codeType.IsValid() {
		return nil, ErrInvalidCodeType
	}

	return &ProductIdentifier{
		ID:        uuid.New(),
		ProductID: productID,
		Code:      code,
		CodeType:  codeType,
		CreatedAt: time.Now(),
	}, nil
}

// ---------------------------------------------------------------------------
// IdentifierRepository Interface
// ---------------------------------------------------------------------------

// IdentifierReader defines read operations for identifiers
type IdentifierReader interface {
	// FindByID finds an identifier by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductIdentifier, error)

	// FindByProduct returns a product's identifiers in insertion order
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductIdentifier, error)

	// FindByProducts returns identifiers grouped by product, each group in insertion order
	FindByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]ProductIdentifier, error)

	// ExistsByCode checks whether (code, codeType) is already registered
	ExistsByCode(ctx context.Context, code string, codeType CodeType) (bool, error)
}

// IdentifierWriter defines write operations for identifiers
type IdentifierWriter interface {
	// Create inserts a new identifier
	Create(ctx context.Context, identifier *ProductIdentifier) error

	// Delete removes an identifier
	Delete(ctx context.Context, id uuid.UUID) error
}

// IdentifierRepository combines read and write operations
type IdentifierRepository interface {
	IdentifierReader
	IdentifierWriter
}
