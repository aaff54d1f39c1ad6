package amazon

import (
	"encoding/xml"
	"strconv"

	"github.com/erp/mws-connector/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

const (
	envelopeSchemaLocation = "amznenvelope.xsd"
	xmlSchemaInstanceNS    = "http://www.w3.org/2001/XMLSchema-instance"
	documentVersion        = "1.01"
	operationTypeUpdate    = "Update"

	// PlaceholderProductType files every product under a generic category
	PlaceholderProductType = "Misc_Other"

	// FulfillmentLatencyDays is the handling time sent with every inventory message
	FulfillmentLatencyDays = 7
)

// ---------------------------------------------------------------------------
// Envelope XML
// ---------------------------------------------------------------------------

type envelope struct {
	XMLName         xml.Name    `xml:"AmazonEnvelope"`
	XSI             string      `xml:"xmlns:xsi,attr"`
	SchemaLocation  string      `xml:"xsi:noNamespaceSchemaLocation,attr"`
	Header          header      `xml:"Header"`
	MessageType     MessageType `xml:"MessageType"`
	PurgeAndReplace bool        `xml:"PurgeAndReplace"`
	Messages        []message   `xml:"Message"`
}

type header struct {
	DocumentVersion    string `xml:"DocumentVersion"`
	MerchantIdentifier string `xml:"MerchantIdentifier"`
}

type message struct {
	MessageID     string         `xml:"MessageID"`
	OperationType string         `xml:"OperationType"`
	Product       *productBody   `xml:"Product,omitempty"`
	Price         *priceBody     `xml:"Price,omitempty"`
	Inventory     *inventoryBody `xml:"Inventory,omitempty"`
}

type productBody struct {
	SKU               string            `xml:"SKU"`
	StandardProductID standardProductID `xml:"StandardProductID"`
	DescriptionData   descriptionData   `xml:"DescriptionData"`
	ProductData       productData       `xml:"ProductData"`
}

type standardProductID struct {
	Type  CodeType `xml:"Type"`
	Value string   `xml:"Value"`
}

type descriptionData struct {
	Title       string `xml:"Title"`
	Description string `xml:"Description,omitempty"`
}

type productData struct {
	Miscellaneous struct {
		ProductType string `xml:"ProductType"`
	} `xml:"Miscellaneous"`
}

type priceBody struct {
	SKU           string        `xml:"SKU"`
	StandardPrice standardPrice `xml:"StandardPrice"`
}

type standardPrice struct {
	Currency valueobject.Currency `xml:"currency,attr"`
	Value    string               `xml:",chardata"`
}

type inventoryBody struct {
	SKU                string `xml:"SKU"`
	Quantity           int64  `xml:"Quantity"`
	FulfillmentLatency int    `xml:"FulfillmentLatency"`
}

// ---------------------------------------------------------------------------
// FeedBuilder
// ---------------------------------------------------------------------------

// FeedBuilder renders AmazonEnvelope documents. It holds no state and never
// talks to the network.
type FeedBuilder struct{}

// NewFeedBuilder creates a feed builder
func NewFeedBuilder() *FeedBuilder {
	return &FeedBuilder{}
}

// BuildProductFeed renders a Product feed. Every listing must have a SKU and
// at least one identifier; the first violation fails the whole feed.
func (b *FeedBuilder) BuildProductFeed(account *Account, listings []Listable) (*Feed, error) {
	if err := ValidateForCatalog(listings); err != nil {
		return nil, err
	}

	env := newEnvelope(account, MessageTypeProduct)
	ids := make([]uuid.UUID, 0, len(listings))
	for _, l := range listings {
		first := l.Identifiers()[0]
		body := &productBody{
			SKU: l.SKU(),
			StandardProductID: standardProductID{
				Type:  first.CodeType,
				Value: first.Code,
			},
			DescriptionData: descriptionData{
				Title:       norm.NFC.String(l.DisplayName()),
				Description: norm.NFC.String(l.Description()),
			},
		}
		body.ProductData.Miscellaneous.ProductType = PlaceholderProductType

		env.Messages = append(env.Messages, newMessage(len(ids)+1, func(m *message) { m.Product = body }))
		ids = append(ids, l.ProductID())
	}

	return render(FeedTypeProduct, env, ids, 0)
}

// BuildPriceFeed renders a Price feed for the listings linked to the account.
// Unlinked listings are skipped.
func (b *FeedBuilder) BuildPriceFeed(account *Account, listings []Listable) (*Feed, error) {
	env := newEnvelope(account, MessageTypePrice)
	ids := make([]uuid.UUID, 0, len(listings))
	skipped := 0
	for _, l := range listings {
		if !l.IsLinkedTo(account.ID) {
			skipped++
			continue
		}
		price, err := valueobject.NewMoney(l.ListPrice(), account.Currency)
		if err != nil {
			return nil, err
		}
		body := &priceBody{
			SKU: l.SKU(),
			StandardPrice: standardPrice{
				Currency: price.Currency(),
				Value:    price.Text(),
			},
		}
		env.Messages = append(env.Messages, newMessage(len(ids)+1, func(m *message) { m.Price = body }))
		ids = append(ids, l.ProductID())
	}

	return render(FeedTypePricing, env, ids, skipped)
}

// BuildInventoryFeed renders an Inventory feed. Listings not linked to the
// account, or with zero storage quantity, are skipped. Negative stock is sent
// as is.
func (b *FeedBuilder) BuildInventoryFeed(account *Account, listings []Listable, quantities map[uuid.UUID]decimal.Decimal) (*Feed, error) {
	env := newEnvelope(account, MessageTypeInventory)
	ids := make([]uuid.UUID, 0, len(listings))
	skipped := 0
	for _, l := range listings {
		qty := quantities[l.ProductID()]
		if qty.IsZero() || !l.IsLinkedTo(account.ID) {
			skipped++
			continue
		}
		body := &inventoryBody{
			SKU:                l.SKU(),
			Quantity:           qty.IntPart(),
			FulfillmentLatency: FulfillmentLatencyDays,
		}
		env.Messages = append(env.Messages, newMessage(len(ids)+1, func(m *message) { m.Inventory = body }))
		ids = append(ids, l.ProductID())
	}

	return render(FeedTypeInventory, env, ids, skipped)
}

// ValidateForCatalog checks, in order, that every listing has a SKU and an identifier
func ValidateForCatalog(listings []Listable) error {
	for _, l := range listings {
		if l.SKU() == "" {
			return MissingProductCodeError(l.DisplayName())
		}
		if len(l.Identifiers()) == 0 {
			return MissingIdentifiersError(l.DisplayName())
		}
	}
	return nil
}

func newEnvelope(account *Account, messageType MessageType) *envelope {
	return &envelope{
		XSI:            xmlSchemaInstanceNS,
		SchemaLocation: envelopeSchemaLocation,
		Header: header{
			DocumentVersion:    documentVersion,
			MerchantIdentifier: account.MerchantID,
		},
		MessageType:     messageType,
		PurgeAndReplace: false,
	}
}

// newMessage numbers messages from 1 in feed order; MWS requires numeric
// message IDs, and Feed.ProductIDs maps them back to products.
func newMessage(seq int, fill func(*message)) message {
	m := message{
		MessageID:     strconv.Itoa(seq),
		OperationType: operationTypeUpdate,
	}
	fill(&m)
	return m
}

func render(feedType FeedType, env *envelope, ids []uuid.UUID, skipped int) (*Feed, error) {
	body, err := xml.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, err
	}
	doc := make([]byte, 0, len(xml.Header)+len(body))
	doc = append(doc, xml.Header...)
	doc = append(doc, body...)

	return &Feed{
		Type:       feedType,
		Document:   doc,
		ProductIDs: ids,
		Skipped:    skipped,
	}, nil
}

