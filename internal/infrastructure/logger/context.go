package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// AccountIDKey is the context key for the MWS account a request acts on
	AccountIDKey contextKey = "account_id"
	// SubjectKey is the context key for the authenticated API client
	SubjectKey contextKey = "subject"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// withField stores value under key and attaches the matching field to the logger
func withField(ctx context.Context, logger *zap.Logger, key contextKey, value string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, key, value)
	enriched := logger.With(zap.String(string(key), value))
	return WithContext(ctx, enriched), enriched
}

// WithRequestID adds request ID to context and returns enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return withField(ctx, logger, RequestIDKey, requestID)
}

// WithAccountID adds the MWS account ID to context and returns enriched logger
func WithAccountID(ctx context.Context, logger *zap.Logger, accountID string) (context.Context, *zap.Logger) {
	return withField(ctx, logger, AccountIDKey, accountID)
}

// WithSubject adds the authenticated client to context and returns enriched logger
func WithSubject(ctx context.Context, logger *zap.Logger, subject string) (context.Context, *zap.Logger) {
	return withField(ctx, logger, SubjectKey, subject)
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// GetAccountID retrieves the MWS account ID from context
func GetAccountID(ctx context.Context) string {
	return stringValue(ctx, AccountIDKey)
}

// GetSubject retrieves the authenticated client from context
func GetSubject(ctx context.Context) string {
	return stringValue(ctx, SubjectKey)
}

// =============================================================================
// Trace Correlation
// =============================================================================

// WithTraceContext adds trace_id and span_id from the context's span.
// Without a valid span the logger is returned unchanged.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}

// L returns the logger stored in ctx with trace fields added. Request,
// account and subject fields are already attached by WithRequestID and friends.
//
//	logger.L(ctx).Info("Feed submitted", zap.String("submission_id", id))
func L(ctx context.Context) *zap.Logger {
	return WithTraceContext(ctx, FromContext(ctx))
}

// Enrich adds the correlation fields found in ctx to a logger that did not
// come from ctx, such as one injected into a service.
func Enrich(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := WithTraceContext(ctx, logger)
	for _, key := range []contextKey{RequestIDKey, AccountIDKey, SubjectKey} {
		if v := stringValue(ctx, key); v != "" {
			l = l.With(zap.String(string(key), v))
		}
	}
	return l
}
