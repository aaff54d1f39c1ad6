package mws

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/mws-connector/internal/domain/amazon"
)

var testCreds = amazon.Credentials{
	AccessKey: "AKIDEXAMPLE",
	SecretKey: "secret",
	SellerID:  "A1MERCHANT",
}

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{Endpoint: server.URL, Timeout: 5 * time.Second}, nil)
	require.NoError(t, err)
	client.now = func() time.Time { return fixedNow }
	return client
}

// verifySignature checks the request was signed with testCreds
func verifySignature(t *testing.T, r *http.Request, params url.Values) {
	t.Helper()
	got := params.Get("Signature")
	rest := url.Values{}
	for k, v := range params {
		if k != "Signature" {
			rest[k] = v
		}
	}
	assert.Equal(t, Sign(testCreds.SecretKey, http.MethodPost, r.Host, r.URL.Path, rest), got)
}

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{"valid config", Config{Endpoint: "https://mws.amazonservices.co.uk"}, nil},
		{"missing endpoint", Config{}, ErrConfigMissingEndpoint},
		{"relative endpoint", Config{Endpoint: "mws.amazonservices.com"}, ErrConfigInvalidEndpoint},
		{"unsupported scheme", Config{Endpoint: "ftp://mws.amazonservices.com"}, ErrConfigInvalidEndpoint},
		{"negative rate", Config{Endpoint: ProductionEndpoint, RequestsPerSecond: -1}, ErrConfigNegativeRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 60*time.Second, tt.config.Timeout)
			assert.Equal(t, 1, tt.config.Burst)
			assert.Equal(t, DefaultUserAgent, tt.config.UserAgent)
		})
	}
}

func TestSign(t *testing.T) {
	params := url.Values{
		"AWSAccessKeyId":         {"AKIDEXAMPLE"},
		"Action":                 {"SubmitFeed"},
		"FeedType":               {"_POST_PRODUCT_DATA_"},
		"Merchant":               {"A1MERCHANT"},
		"MarketplaceIdList.Id.1": {"ATVPDKIKX0DER"},
		"SignatureMethod":        {"HmacSHA256"},
		"SignatureVersion":       {"2"},
		"Timestamp":              {"2026-10-18T12:00:00Z"},
		"Version":                {"2009-01-01"},
	}

	sig := Sign("secret", http.MethodPost, "MWS.amazonservices.com", "/", params)
	assert.Equal(t, "jAl1XlVPUfbxQo5snU1aB0a3rokMdrwBsPPhU5cDGmM=", sig)

	// Empty path signs as root
	assert.Equal(t, sig, Sign("secret", http.MethodPost, "mws.amazonservices.com", "", params))
}

func TestCanonicalQuery(t *testing.T) {
	params := url.Values{
		"b": {"a b*c~d/é"},
		"A": {"1"},
	}
	assert.Equal(t, "A=1&b=a%20b%2Ac~d%2F%C3%A9", canonicalQuery(params))
}

// ---------------------------------------------------------------------------
// SubmitFeed Tests
// ---------------------------------------------------------------------------

const submitFeedResponse = `<?xml version="1.0"?>
<SubmitFeedResponse xmlns="http://mws.amazonaws.com/doc/2009-01-01/">
  <SubmitFeedResult>
    <FeedSubmissionInfo>
      <FeedSubmissionId>50001018</FeedSubmissionId>
      <FeedType>_POST_PRODUCT_DATA_</FeedType>
      <SubmittedDate>2026-10-18T12:00:03+00:00</SubmittedDate>
      <FeedProcessingStatus>_SUBMITTED_</FeedProcessingStatus>
    </FeedSubmissionInfo>
  </SubmitFeedResult>
  <ResponseMetadata>
    <RequestId>75424a4a-1faf-4bd3-9fa4-0d3a6e2d6c3c</RequestId>
  </ResponseMetadata>
</SubmitFeedResponse>`

func TestClient_SubmitFeed(t *testing.T) {
	document := []byte(`<?xml version="1.0" encoding="utf-8"?><AmazonEnvelope/>`)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/", r.URL.Path)

		query := r.URL.Query()
		assert.Equal(t, "SubmitFeed", query.Get("Action"))
		assert.Equal(t, "A1MERCHANT", query.Get("Merchant"))
		assert.Equal(t, "_POST_PRODUCT_DATA_", query.Get("FeedType"))
		assert.Equal(t, "ATVPDKIKX0DER", query.Get("MarketplaceIdList.Id.1"))
		assert.Equal(t, "A2EUQ1WTGCTBG2", query.Get("MarketplaceIdList.Id.2"))
		assert.Equal(t, "2009-01-01", query.Get("Version"))
		assert.Equal(t, "2026-10-18T12:00:00Z", query.Get("Timestamp"))
		verifySignature(t, r, query)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, document, body)
		sum := md5.Sum(document)
		assert.Equal(t, base64.StdEncoding.EncodeToString(sum[:]), r.Header.Get("Content-MD5"))
		assert.Contains(t, r.Header.Get("Content-Type"), "text/xml")
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))

		_, _ = w.Write([]byte(submitFeedResponse))
	})

	feed := &amazon.Feed{Type: amazon.FeedTypeProduct, Document: document}
	sub, err := client.SubmitFeed(context.Background(), testCreds, feed, []string{"ATVPDKIKX0DER", "A2EUQ1WTGCTBG2"})
	require.NoError(t, err)
	assert.Equal(t, "50001018", sub.SubmissionID)
	assert.Equal(t, amazon.FeedTypeProduct, sub.FeedType)
	assert.Equal(t, amazon.FeedStatusSubmitted, sub.ProcessingStatus)
	assert.Equal(t, time.Date(2026, 10, 18, 12, 0, 3, 0, time.UTC), sub.SubmittedDate.UTC())
}

func TestClient_SubmitFeed_MissingStatusAndType(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<SubmitFeedResponse><SubmitFeedResult><FeedSubmissionInfo>
<FeedSubmissionId>50002</FeedSubmissionId></FeedSubmissionInfo></SubmitFeedResult></SubmitFeedResponse>`))
	})

	feed := &amazon.Feed{Type: amazon.FeedTypeInventory, Document: []byte("<AmazonEnvelope/>")}
	sub, err := client.SubmitFeed(context.Background(), testCreds, feed, []string{"ATVPDKIKX0DER"})
	require.NoError(t, err)
	assert.Equal(t, "50002", sub.SubmissionID)
	assert.Equal(t, amazon.FeedTypeInventory, sub.FeedType)
	assert.Equal(t, amazon.FeedStatusSubmitted, sub.ProcessingStatus)
	assert.False(t, sub.SubmittedDate.IsZero(), "falls back to the request time")
}

func TestClient_SubmitFeed_Errors(t *testing.T) {
	feed := &amazon.Feed{Type: amazon.FeedTypePricing, Document: []byte("<AmazonEnvelope/>")}

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		check   func(t *testing.T, err error)
	}{
		{
			name:   "error response",
			status: http.StatusBadRequest,
			body: `<ErrorResponse xmlns="https://mws.amazonservices.com/">
  <Error><Type>Sender</Type><Code>InvalidParameterValue</Code><Message>Invalid FeedType</Message></Error>
  <RequestID>req-1</RequestID>
</ErrorResponse>`,
			wantErr: ErrMWSRequestFailed,
			check: func(t *testing.T, err error) {
				var reqErr *RequestError
				require.ErrorAs(t, err, &reqErr)
				assert.Equal(t, "InvalidParameterValue", reqErr.Code)
				assert.Equal(t, "req-1", reqErr.RequestID)
				assert.Contains(t, err.Error(), "Invalid FeedType")
			},
		},
		{
			name:   "throttled",
			status: http.StatusServiceUnavailable,
			body: `<ErrorResponse><Error><Type>Sender</Type><Code>RequestThrottled</Code>
<Message>Request is throttled</Message></Error><RequestID>req-2</RequestID></ErrorResponse>`,
			wantErr: ErrMWSThrottled,
		},
		{
			name:    "non-xml failure",
			status:  http.StatusInternalServerError,
			body:    "internal error",
			wantErr: ErrMWSRequestFailed,
		},
		{
			name:    "unparseable success",
			status:  http.StatusOK,
			body:    "not xml",
			wantErr: ErrMWSInvalidResponse,
		},
		{
			name:    "missing submission id",
			status:  http.StatusOK,
			body:    `<SubmitFeedResponse><SubmitFeedResult><FeedSubmissionInfo/></SubmitFeedResult></SubmitFeedResponse>`,
			wantErr: ErrMWSInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.SubmitFeed(context.Background(), testCreds, feed, []string{"ATVPDKIKX0DER"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestClient_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client, err := NewClient(Config{Endpoint: endpoint, Timeout: time.Second}, nil)
	require.NoError(t, err)

	feed := &amazon.Feed{Type: amazon.FeedTypeInventory, Document: []byte("<AmazonEnvelope/>")}
	_, err = client.SubmitFeed(context.Background(), testCreds, feed, []string{"ATVPDKIKX0DER"})
	assert.ErrorIs(t, err, ErrMWSUnavailable)
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(submitFeedResponse))
	}))
	defer server.Close()

	client, err := NewClient(Config{Endpoint: server.URL, RequestsPerSecond: 0.001, Burst: 1}, nil)
	require.NoError(t, err)
	feed := &amazon.Feed{Type: amazon.FeedTypeProduct, Document: []byte("<AmazonEnvelope/>")}

	_, err = client.SubmitFeed(context.Background(), testCreds, feed, []string{"ATVPDKIKX0DER"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.SubmitFeed(ctx, testCreds, feed, []string{"ATVPDKIKX0DER"})
	assert.ErrorIs(t, err, ErrMWSUnavailable)
}

// ---------------------------------------------------------------------------
// GetMatchingProductForId Tests
// ---------------------------------------------------------------------------

const matchingProductResponse = `<?xml version="1.0"?>
<GetMatchingProductForIdResponse xmlns="http://mws.amazonservices.com/schema/Products/2011-10-01">
  <GetMatchingProductForIdResult Id="SKU-1" IdType="SellerSKU" status="Success">
    <Products xmlns:ns2="http://mws.amazonservices.com/schema/Products/2011-10-01/default.xsd">
      <Product>
        <Identifiers>
          <MarketplaceASIN>
            <MarketplaceId>ATVPDKIKX0DER</MarketplaceId>
            <ASIN>B00EXAMPLE</ASIN>
          </MarketplaceASIN>
        </Identifiers>
        <AttributeSets>
          <ns2:ItemAttributes xml:lang="en-US">
            <ns2:Brand>Acme</ns2:Brand>
            <ns2:ProductGroup>Kitchen</ns2:ProductGroup>
            <ns2:ProductTypeName>KITCHEN</ns2:ProductTypeName>
            <ns2:Title> Blue Mug </ns2:Title>
          </ns2:ItemAttributes>
        </AttributeSets>
      </Product>
      <Product>
        <Identifiers>
          <MarketplaceASIN>
            <MarketplaceId>ATVPDKIKX0DER</MarketplaceId>
            <ASIN>B00SECOND</ASIN>
          </MarketplaceASIN>
        </Identifiers>
        <AttributeSets>
          <ns2:ItemAttributes xml:lang="en-US"><ns2:Title>Mug Set</ns2:Title></ns2:ItemAttributes>
          <ns2:ItemAttributes xml:lang="de-DE"><ns2:Title>Tassenset</ns2:Title></ns2:ItemAttributes>
        </AttributeSets>
      </Product>
    </Products>
  </GetMatchingProductForIdResult>
  <GetMatchingProductForIdResult Id="BAD" IdType="SellerSKU" status="ClientError">
    <Error>
      <Type>Sender</Type>
      <Code>InvalidParameterValue</Code>
      <Message>Invalid SellerSKU identifier BAD for marketplace ATVPDKIKX0DER</Message>
    </Error>
  </GetMatchingProductForIdResult>
  <ResponseMetadata><RequestId>req-3</RequestId></ResponseMetadata>
</GetMatchingProductForIdResponse>`

func TestClient_GetMatchingProductForID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Products/2011-10-01", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form := r.PostForm
		assert.Equal(t, "GetMatchingProductForId", form.Get("Action"))
		assert.Equal(t, "A1MERCHANT", form.Get("SellerId"))
		assert.Equal(t, "ATVPDKIKX0DER", form.Get("MarketplaceId"))
		assert.Equal(t, amazon.IDTypeSellerSKU, form.Get("IdType"))
		assert.Equal(t, "SKU-1", form.Get("IdList.Id.1"))
		assert.Equal(t, "BAD", form.Get("IdList.Id.2"))
		assert.Equal(t, "2011-10-01", form.Get("Version"))
		verifySignature(t, r, form)

		_, _ = w.Write([]byte(matchingProductResponse))
	})

	matches, err := client.GetMatchingProductForID(context.Background(), testCreds, "ATVPDKIKX0DER", amazon.IDTypeSellerSKU, []string{"SKU-1", "BAD"})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	first := matches[0]
	assert.Equal(t, "SKU-1", first.RequestedID)
	assert.Equal(t, "B00EXAMPLE", first.ASIN)
	assert.Equal(t, amazon.AttributeShapeSingle, first.Shape)
	assert.Equal(t, "Blue Mug", first.Title())
	assert.Equal(t, "Acme", first.AttributeSets[0].Brand)
	assert.Equal(t, "KITCHEN", first.AttributeSets[0].ProductType)

	second := matches[1]
	assert.Equal(t, "B00SECOND", second.ASIN)
	assert.Equal(t, amazon.AttributeShapeList, second.Shape)
	assert.Len(t, second.AttributeSets, 2)
	assert.Equal(t, "Mug Set", second.Title())
}

func TestToMatchedProduct_NoAttributeSets(t *testing.T) {
	p := Product{Identifiers: ProductIdentifiers{MarketplaceASIN: MarketplaceASIN{ASIN: "B00BARE"}}}

	m := toMatchedProduct("SKU-9", p)
	assert.Equal(t, amazon.AttributeShapeNone, m.Shape)
	assert.Empty(t, m.AttributeSets)
	assert.Empty(t, m.Title())
}
