package middleware

import (
	"net/http"

	"github.com/erp/mws-connector/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts the server span for each request
func Tracing(serviceName string, opts ...otelgin.Option) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, opts...)
}

// SpanEnricher tags the server span with the request ID, the MWS account and
// the API client, and marks it failed on 5xx responses. It must run after
// Tracing, RequestID, the logger middleware and JWTAuth.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if id := GetRequestID(c); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if account := logger.GetAccountID(c.Request.Context()); account != "" {
			span.SetAttributes(attribute.String("mws.account_id", account))
		}
		if subject := GetJWTSubject(c); subject != "" {
			span.SetAttributes(attribute.String("enduser.id", subject))
		}

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
