package amazon

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// FeedType / MessageType
// ---------------------------------------------------------------------------

// FeedType is the MWS feed-type discriminator passed to SubmitFeed
type FeedType string

const (
	FeedTypeProduct   FeedType = "_POST_PRODUCT_DATA_"
	FeedTypePricing   FeedType = "_POST_PRODUCT_PRICING_DATA_"
	FeedTypeInventory FeedType = "_POST_INVENTORY_AVAILABILITY_DATA_"
)

// IsValid returns true if the feed type is one this connector submits
func (t FeedType) IsValid() bool {
	switch t {
	case FeedTypeProduct, FeedTypePricing, FeedTypeInventory:
		return true
	default:
		return false
	}
}

// String returns the string representation of FeedType
func (t FeedType) String() string {
	return string(t)
}

// MessageType returns the envelope message type carried by the feed
func (t FeedType) MessageType() MessageType {
	switch t {
	case FeedTypeProduct:
		return MessageTypeProduct
	case FeedTypePricing:
		return MessageTypePrice
	case FeedTypeInventory:
		return MessageTypeInventory
	default:
		return ""
	}
}

// MessageType is the AmazonEnvelope MessageType element value
type MessageType string

const (
	MessageTypeProduct   MessageType = "Product"
	MessageTypePrice     MessageType = "Price"
	MessageTypeInventory MessageType = "Inventory"
)

// ---------------------------------------------------------------------------
// Feed / FeedSubmission
// ---------------------------------------------------------------------------

// Feed is a rendered envelope ready for submission
type Feed struct {
	Type     FeedType
	Document []byte
	// ProductIDs lists the products that produced a message, in feed order
	ProductIDs []uuid.UUID
	// Skipped counts products left out by the price/inventory rules
	Skipped int
}

// MessageCount returns the number of messages in the envelope
func (f *Feed) MessageCount() int {
	return len(f.ProductIDs)
}

// FeedStatusSubmitted is the processing status of a freshly accepted feed
const FeedStatusSubmitted = "_SUBMITTED_"

// FeedSubmission is the acknowledgment MWS returns for a submitted feed
type FeedSubmission struct {
	SubmissionID     string    `json:"submission_id"`
	FeedType         FeedType  `json:"feed_type"`
	ProcessingStatus string    `json:"processing_status"`
	SubmittedDate    time.Time `json:"submitted_date"`
}

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// FeedSubmitter submits feeds to the marketplace
type FeedSubmitter interface {
	SubmitFeed(ctx context.Context, creds Credentials, feed *Feed, marketplaceIDs []string) (*FeedSubmission, error)
}

// FeedArchive keeps a copy of every submitted envelope
type FeedArchive interface {
	Store(ctx context.Context, account *Account, feed *Feed, submission *FeedSubmission) error
}
