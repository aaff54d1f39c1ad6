package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/mws-connector/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpans installs an in-memory provider as the global one for the test
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(kvs []attribute.KeyValue) map[string]any {
	m := make(map[string]any, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value.AsInterface()
	}
	return m
}

func TestStartSpan(t *testing.T) {
	sr := recordSpans(t)

	_, internal := telemetry.StartSpan(context.Background(), "feed_builder.build")
	internal.End()
	_, client := telemetry.StartSpan(context.Background(), "mws.submit_feed",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrMWSOperation, "SubmitFeed"),
	)
	client.End()
	_, svc := telemetry.StartServiceSpan(context.Background(), "amazon_export", "catalog")
	svc.End()

	spans := sr.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
	assert.Equal(t, trace.SpanKindClient, spans[1].SpanKind())
	assert.Equal(t, "SubmitFeed", attrMap(spans[1].Attributes())["mws.operation"])
	assert.Equal(t, "amazon_export.catalog", spans[2].Name())
	assert.Equal(t, telemetry.TracerName, spans[2].InstrumentationScope().Name)
}

func TestSetAttributes(t *testing.T) {
	sr := recordSpans(t)
	accountID := uuid.New()

	_, span := telemetry.StartSpan(context.Background(), "amazon_export.pricing")
	telemetry.SetAttributes(span,
		telemetry.SpanAttrAccountID, accountID,
		telemetry.SpanAttrMessageCount, 3,
		telemetry.SpanAttrSkippedCount, int64(1),
		"ratio", 0.5,
		"linked", true,
		"codes", []string{"EAN", "ASIN"},
		42, "ignored",
		"dangling",
	)
	telemetry.SetAttribute(span, telemetry.SpanAttrSubmissionID, "50001")
	span.End()

	attrs := attrMap(sr.Ended()[0].Attributes())
	assert.Equal(t, accountID.String(), attrs["account_id"])
	assert.Equal(t, int64(3), attrs["messages"])
	assert.Equal(t, int64(1), attrs["skipped"])
	assert.Equal(t, 0.5, attrs["ratio"])
	assert.Equal(t, true, attrs["linked"])
	assert.Equal(t, []string{"EAN", "ASIN"}, attrs["codes"])
	assert.Equal(t, "50001", attrs["submission_id"])
	assert.NotContains(t, attrs, "dangling")
	assert.Len(t, attrs, 7)
}

func TestStatusAndEvents(t *testing.T) {
	sr := recordSpans(t)

	_, failed := telemetry.StartSpan(context.Background(), "failed")
	telemetry.RecordError(failed, errors.New("throttled"))
	failed.End()

	_, ok := telemetry.StartSpan(context.Background(), "ok")
	telemetry.RecordError(ok, nil)
	telemetry.AddEvent(ok, "links_created", telemetry.SpanAttrCount, 2)
	telemetry.SetOK(ok)
	ok.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "throttled", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)

	assert.Equal(t, codes.Ok, spans[1].Status().Code)
	require.Len(t, spans[1].Events(), 1)
	assert.Equal(t, "links_created", spans[1].Events()[0].Name)
	assert.Equal(t, int64(2), attrMap(spans[1].Events()[0].Attributes)["count"])
}

func TestNilSpanHelpers(t *testing.T) {
	assert.NotPanics(t, func() {
		telemetry.SetAttributes(nil, "k", "v")
		telemetry.SetAttribute(nil, "k", "v")
		telemetry.RecordError(nil, errors.New("x"))
		telemetry.SetOK(nil)
		telemetry.AddEvent(nil, "e")
	})
}

func TestContextIDs(t *testing.T) {
	recordSpans(t)

	assert.Empty(t, telemetry.GetTraceID(context.Background()))
	assert.Empty(t, telemetry.GetSpanID(context.Background()))

	ctx, parent := telemetry.StartSpan(context.Background(), "parent")
	defer parent.End()
	childCtx, child := telemetry.StartSpan(ctx, "child")
	defer child.End()

	assert.Len(t, telemetry.GetTraceID(ctx), 32)
	assert.Len(t, telemetry.GetSpanID(ctx), 16)
	assert.Equal(t, telemetry.GetTraceID(ctx), telemetry.GetTraceID(childCtx))
	assert.NotEqual(t, telemetry.GetSpanID(ctx), telemetry.GetSpanID(childCtx))
	assert.Equal(t, parent, telemetry.SpanFromContext(ctx))

	moved := telemetry.ContextWithSpan(context.Background(), child)
	assert.Equal(t, telemetry.GetSpanID(childCtx), telemetry.GetSpanID(moved))
}
