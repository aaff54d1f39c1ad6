package mws

import (
	"encoding/xml"
	"fmt"
)

// ---------------------------------------------------------------------------
// Feeds API (2009-01-01)
// ---------------------------------------------------------------------------

// SubmitFeedResponse is the response of the SubmitFeed action
type SubmitFeedResponse struct {
	XMLName          xml.Name         `xml:"SubmitFeedResponse"`
	Result           SubmitFeedResult `xml:"SubmitFeedResult"`
	ResponseMetadata ResponseMetadata `xml:"ResponseMetadata"`
}

// SubmitFeedResult wraps the submission info
type SubmitFeedResult struct {
	FeedSubmissionInfo FeedSubmissionInfo `xml:"FeedSubmissionInfo"`
}

// FeedSubmissionInfo describes one submitted feed
type FeedSubmissionInfo struct {
	FeedSubmissionID     string `xml:"FeedSubmissionId"`
	FeedType             string `xml:"FeedType"`
	SubmittedDate        string `xml:"SubmittedDate"`
	FeedProcessingStatus string `xml:"FeedProcessingStatus"`
}

// ---------------------------------------------------------------------------
// Products API (2011-10-01)
// ---------------------------------------------------------------------------

// GetMatchingProductForIDResponse is the response of GetMatchingProductForId.
// There is one result per requested ID.
type GetMatchingProductForIDResponse struct {
	XMLName          xml.Name                        `xml:"GetMatchingProductForIdResponse"`
	Results          []GetMatchingProductForIDResult `xml:"GetMatchingProductForIdResult"`
	ResponseMetadata ResponseMetadata                `xml:"ResponseMetadata"`
}

// GetMatchingProductForIDResult holds the products matched for one ID
type GetMatchingProductForIDResult struct {
	ID       string       `xml:"Id,attr"`
	IDType   string       `xml:"IdType,attr"`
	Status   string       `xml:"status,attr"`
	Products []Product    `xml:"Products>Product"`
	Error    *ErrorDetail `xml:"Error"`
}

// Product is a catalog item returned by the products API
type Product struct {
	Identifiers   ProductIdentifiers `xml:"Identifiers"`
	AttributeSets AttributeSets      `xml:"AttributeSets"`
}

// ProductIdentifiers holds the marketplace ASIN of a product
type ProductIdentifiers struct {
	MarketplaceASIN MarketplaceASIN `xml:"MarketplaceASIN"`
}

// MarketplaceASIN pairs an ASIN with its marketplace
type MarketplaceASIN struct {
	MarketplaceID string `xml:"MarketplaceId"`
	ASIN          string `xml:"ASIN"`
}

// AttributeSets carries one or more ItemAttributes elements
type AttributeSets struct {
	ItemAttributes []ItemAttributes `xml:"ItemAttributes"`
}

// ItemAttributes is the subset of item attributes the connector reads
type ItemAttributes struct {
	Lang            string `xml:"lang,attr"`
	Title           string `xml:"Title"`
	Brand           string `xml:"Brand"`
	ProductGroup    string `xml:"ProductGroup"`
	ProductTypeName string `xml:"ProductTypeName"`
}

// ---------------------------------------------------------------------------
// Common
// ---------------------------------------------------------------------------

// ResponseMetadata carries the MWS request ID
type ResponseMetadata struct {
	RequestID string `xml:"RequestId"`
}

// ErrorResponse is returned by MWS for rejected requests
type ErrorResponse struct {
	XMLName   xml.Name    `xml:"ErrorResponse"`
	Error     ErrorDetail `xml:"Error"`
	RequestID string      `xml:"RequestID"`
}

// ErrorDetail describes an MWS error
type ErrorDetail struct {
	Type    string `xml:"Type"`
	Code    string `xml:"Code"`
	Message string `xml:"Message"`
}

// RequestError is a rejected MWS call. It unwraps to ErrMWSThrottled for
// throttled calls and to ErrMWSRequestFailed otherwise.
type RequestError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
	RequestID  string
}

func (e *RequestError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("mws: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("mws: %s: %s (HTTP %d)", e.Code, e.Message, e.StatusCode)
}

// Unwrap returns the sentinel the error belongs to
func (e *RequestError) Unwrap() error {
	if e.IsThrottled() {
		return ErrMWSThrottled
	}
	return ErrMWSRequestFailed
}

// IsThrottled reports whether MWS rejected the call for exceeding its quota
func (e *RequestError) IsThrottled() bool {
	return e.Code == "RequestThrottled" || (e.StatusCode == 503 && e.Code == "")
}
