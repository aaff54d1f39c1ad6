package mws

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/infrastructure/telemetry"
)

// maxResponseSize is the maximum allowed response size from MWS (10MB)
const maxResponseSize = 10 * 1024 * 1024

// MWS section paths and versions
const (
	feedsPath       = "/"
	feedsVersion    = "2009-01-01"
	productsPath    = "/Products/2011-10-01"
	productsVersion = "2011-10-01"
)

// Errors returned by the MWS client
var (
	ErrMWSRequestFailed   = errors.New("mws: request failed")
	ErrMWSUnavailable     = errors.New("mws: service unavailable")
	ErrMWSInvalidResponse = errors.New("mws: invalid response")
	ErrMWSThrottled       = errors.New("mws: request throttled")
)

// Client calls the MWS Feeds and Products APIs on behalf of a seller account.
// Credentials are passed per call; the client itself holds only transport state.
type Client struct {
	config     Config
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	now        func() time.Time
}

// NewClient creates a new MWS client with the given configuration
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	baseURL, err := url.Parse(strings.TrimRight(config.Endpoint, "/"))
	if err != nil {
		return nil, ErrConfigInvalidEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}

	return &Client{
		config:  config,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(limit, config.Burst),
		logger:  logger,
		now:     time.Now,
	}, nil
}

// SubmitFeed uploads a feed document and returns the submission acknowledgment
func (c *Client) SubmitFeed(ctx context.Context, creds amazon.Credentials, feed *amazon.Feed, marketplaceIDs []string) (*amazon.FeedSubmission, error) {
	ctx, span := telemetry.StartSpan(ctx, "mws.SubmitFeed",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrMWSOperation, "SubmitFeed"),
		telemetry.WithAttribute(telemetry.SpanAttrFeedType, feed.Type.String()),
	)
	defer span.End()

	params := url.Values{}
	params.Set("Action", "SubmitFeed")
	params.Set("Merchant", creds.SellerID)
	params.Set("FeedType", feed.Type.String())
	for i, id := range marketplaceIDs {
		params.Set("MarketplaceIdList.Id."+strconv.Itoa(i+1), id)
	}

	body, err := c.doRequest(ctx, creds, feedsPath, feedsVersion, params, feed.Document)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var resp SubmitFeedResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		err = fmt.Errorf("%w: failed to parse response: %v", ErrMWSInvalidResponse, err)
		telemetry.RecordError(span, err)
		return nil, err
	}
	info := resp.Result.FeedSubmissionInfo
	if info.FeedSubmissionID == "" {
		telemetry.RecordError(span, ErrMWSInvalidResponse)
		return nil, fmt.Errorf("%w: missing FeedSubmissionId", ErrMWSInvalidResponse)
	}

	submission := &amazon.FeedSubmission{
		SubmissionID:     info.FeedSubmissionID,
		FeedType:         amazon.FeedType(info.FeedType),
		ProcessingStatus: info.FeedProcessingStatus,
	}
	if submission.FeedType == "" {
		submission.FeedType = feed.Type
	}
	if submission.ProcessingStatus == "" {
		submission.ProcessingStatus = amazon.FeedStatusSubmitted
	}
	if submitted, err := time.Parse(time.RFC3339, info.SubmittedDate); err == nil {
		submission.SubmittedDate = submitted
	} else {
		submission.SubmittedDate = c.now().UTC()
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrSubmissionID, submission.SubmissionID)
	c.logger.Debug("Feed accepted by MWS",
		zap.String("feed_type", feed.Type.String()),
		zap.String("submission_id", submission.SubmissionID),
		zap.String("request_id", resp.ResponseMetadata.RequestID),
	)
	return submission, nil
}

// GetMatchingProductForID looks up marketplace products by ID.
// IDs MWS reports as invalid or unmatched yield no entry.
func (c *Client) GetMatchingProductForID(ctx context.Context, creds amazon.Credentials, marketplaceID, idType string, ids []string) ([]amazon.MatchedProduct, error) {
	ctx, span := telemetry.StartSpan(ctx, "mws.GetMatchingProductForId",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrMWSOperation, "GetMatchingProductForId"),
		telemetry.WithAttribute(telemetry.SpanAttrMarketplaceID, marketplaceID),
	)
	defer span.End()

	params := url.Values{}
	params.Set("Action", "GetMatchingProductForId")
	params.Set("SellerId", creds.SellerID)
	params.Set("MarketplaceId", marketplaceID)
	params.Set("IdType", idType)
	for i, id := range ids {
		params.Set("IdList.Id."+strconv.Itoa(i+1), id)
	}

	body, err := c.doRequest(ctx, creds, productsPath, productsVersion, params, nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var resp GetMatchingProductForIDResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		err = fmt.Errorf("%w: failed to parse response: %v", ErrMWSInvalidResponse, err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	var matches []amazon.MatchedProduct
	for _, result := range resp.Results {
		if result.Error != nil {
			c.logger.Debug("MWS returned no match",
				zap.String("id", result.ID),
				zap.String("code", result.Error.Code),
				zap.String("message", result.Error.Message),
			)
			continue
		}
		for _, p := range result.Products {
			matches = append(matches, toMatchedProduct(result.ID, p))
		}
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrCount, len(matches))
	return matches, nil
}

// toMatchedProduct normalizes the attribute sets of a product, which MWS
// returns as zero, one or several ItemAttributes elements.
func toMatchedProduct(requestedID string, p Product) amazon.MatchedProduct {
	sets := make([]amazon.ItemAttributes, 0, len(p.AttributeSets.ItemAttributes))
	for _, a := range p.AttributeSets.ItemAttributes {
		sets = append(sets, amazon.ItemAttributes{
			Title:        strings.TrimSpace(a.Title),
			Brand:        a.Brand,
			ProductGroup: a.ProductGroup,
			ProductType:  a.ProductTypeName,
		})
	}

	shape := amazon.AttributeShapeList
	switch len(sets) {
	case 0:
		shape = amazon.AttributeShapeNone
	case 1:
		shape = amazon.AttributeShapeSingle
	}

	return amazon.MatchedProduct{
		RequestedID:   requestedID,
		ASIN:          p.Identifiers.MarketplaceASIN.ASIN,
		AttributeSets: sets,
		Shape:         shape,
	}
}

// doRequest signs and sends a request to an MWS section.
// With a payload, parameters travel in the query string and the payload is
// the body (Feeds API). Without one, parameters are form-encoded.
func (c *Client) doRequest(ctx context.Context, creds amazon.Credentials, path, version string, params url.Values, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMWSUnavailable, err)
	}

	endpoint := *c.baseURL
	endpoint.Path = strings.TrimRight(c.baseURL.Path, "/") + path

	params.Set("AWSAccessKeyId", creds.AccessKey)
	params.Set("SignatureMethod", signatureMethod)
	params.Set("SignatureVersion", signatureVersion)
	params.Set("Timestamp", c.now().UTC().Format(timestampLayout))
	params.Set("Version", version)
	params.Del("Signature")
	params.Set("Signature", Sign(creds.SecretKey, http.MethodPost, endpoint.Host, endpoint.Path, params))

	var (
		req *http.Request
		err error
	)
	if payload != nil {
		endpoint.RawQuery = params.Encode()
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		sum := md5.Sum(payload)
		req.Header.Set("Content-Type", "text/xml; charset=utf-8")
		req.Header.Set("Content-MD5", base64.StdEncoding.EncodeToString(sum[:]))
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), strings.NewReader(params.Encode()))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMWSUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, parseErrorResponse(resp.StatusCode, body)
	}
	return body, nil
}

// parseErrorResponse converts an MWS error body into a RequestError.
// Bodies that are not an ErrorResponse keep only the status code.
func parseErrorResponse(status int, body []byte) error {
	reqErr := &RequestError{StatusCode: status}
	var er ErrorResponse
	if err := xml.Unmarshal(body, &er); err == nil {
		reqErr.Type = er.Error.Type
		reqErr.Code = er.Error.Code
		reqErr.Message = er.Error.Message
		reqErr.RequestID = er.RequestID
	}
	return reqErr
}

// Interface assertions
var (
	_ amazon.FeedSubmitter = (*Client)(nil)
	_ amazon.CatalogLookup = (*Client)(nil)
)
