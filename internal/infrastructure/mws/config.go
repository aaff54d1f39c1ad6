package mws

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	// ProductionEndpoint is the North America MWS endpoint
	ProductionEndpoint = "https://mws.amazonservices.com"

	// DefaultUserAgent identifies the connector to MWS
	DefaultUserAgent = "mws-connector/1.0 (Language=Go)"

	signatureMethod  = "HmacSHA256"
	signatureVersion = "2"
	timestampLayout  = "2006-01-02T15:04:05Z"
)

// Errors for MWS configuration
var (
	ErrConfigMissingEndpoint = errors.New("mws: endpoint is required")
	ErrConfigInvalidEndpoint = errors.New("mws: endpoint must be an absolute http(s) URL")
	ErrConfigNegativeRate    = errors.New("mws: requests per second cannot be negative")
)

// Config holds the transport settings shared by every seller account
type Config struct {
	// Endpoint is the marketplace region endpoint, without a path
	Endpoint string
	// Timeout bounds a whole request, including reading the response
	Timeout time.Duration
	// RequestsPerSecond throttles outgoing calls; 0 disables throttling
	RequestsPerSecond float64
	// Burst is the number of calls allowed at once
	Burst int
	// UserAgent is sent on every request
	UserAgent string
}

// DefaultConfig returns a configuration for the production endpoint
func DefaultConfig() Config {
	return Config{
		Endpoint:          ProductionEndpoint,
		Timeout:           60 * time.Second,
		RequestsPerSecond: 1,
		Burst:             5,
		UserAgent:         DefaultUserAgent,
	}
}

// Validate validates the configuration and fills unset values
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrConfigMissingEndpoint
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrConfigInvalidEndpoint
	}
	if c.RequestsPerSecond < 0 {
		return ErrConfigNegativeRate
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return nil
}

// Sign computes the signature version 2 of a request.
// The string to sign is METHOD\nhost\npath\ncanonical-query.
func Sign(secretKey, method, host, path string, params url.Values) string {
	if path == "" {
		path = "/"
	}
	var builder strings.Builder
	builder.WriteString(method)
	builder.WriteByte('\n')
	builder.WriteString(strings.ToLower(host))
	builder.WriteByte('\n')
	builder.WriteString(path)
	builder.WriteByte('\n')
	builder.WriteString(canonicalQuery(params))

	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write([]byte(builder.String()))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// canonicalQuery sorts parameters by byte order and joins them with RFC 3986 escaping
func canonicalQuery(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range params[k] {
			parts = append(parts, escape(k)+"="+escape(v))
		}
	}
	return strings.Join(parts, "&")
}

// escape percent-encodes everything except the RFC 3986 unreserved set
func escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte("0123456789ABCDEF"[c>>4])
		b.WriteByte("0123456789ABCDEF"[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z') || ('0' <= c && c <= '9') ||
		c == '-' || c == '_' || c == '.' || c == '~'
}
