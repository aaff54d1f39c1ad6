package amazon

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountLink records that a product has been exported to an MWS account.
// There is at most one link per (account, product) pair.
type AccountLink struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	ProductID uuid.UUID
	CreatedAt time.Time
}

// NewAccountLink creates a link between an account and a product
func NewAccountLink(accountID, productID uuid.UUID) (*AccountLink, error) {
	if accountID == uuid.Nil {
		return nil, ErrInvalidAccountID
	}
	if productID == uuid.Nil {
		return nil, ErrInvalidProductID
	}
	return &AccountLink{
		ID:        uuid.New(),
		AccountID: accountID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}, nil
}

// NewAccountLinks creates one link per product, dropping repeated product IDs
func NewAccountLinks(accountID uuid.UUID, productIDs []uuid.UUID) ([]AccountLink, error) {
	seen := make(map[uuid.UUID]struct{}, len(productIDs))
	links := make([]AccountLink, 0, len(productIDs))
	for _, productID := range productIDs {
		if _, dup := seen[productID]; dup {
			continue
		}
		seen[productID] = struct{}{}
		link, err := NewAccountLink(accountID, productID)
		if err != nil {
			return nil, err
		}
		links = append(links, *link)
	}
	return links, nil
}

// AccountLinkRepository persists account links
type AccountLinkRepository interface {
	// FindByProducts returns links grouped by product
	FindByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]AccountLink, error)

	// CountByPair counts links for one (account, product) pair
	CountByPair(ctx context.Context, accountID, productID uuid.UUID) (int64, error)

	// CreateIfAbsent inserts the links whose (account, product) pair is not
	// linked yet and silently drops the rest. It returns the number inserted.
	CreateIfAbsent(ctx context.Context, links []AccountLink) (int64, error)
}
