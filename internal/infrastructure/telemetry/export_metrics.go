package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics constructor receives no meter.
var ErrMeterNil = errors.New("telemetry: meter is nil")

// Export outcomes recorded on the submission counter.
const (
	OutcomeSubmitted = "submitted"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// ExportMetrics records marketplace feed submissions.
type ExportMetrics struct {
	submissions *Counter
	messages    *Counter
	skipped     *Counter
	duration    *Histogram
	logger      *zap.Logger
}

// NewExportMetrics creates the feed export instruments on meter.
func NewExportMetrics(meter metric.Meter, logger *zap.Logger) (*ExportMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	submissions, err := NewCounter(meter,
		"mws_feed_submissions_total",
		"Feed submissions by feed type and outcome",
		"{submissions}",
	)
	if err != nil {
		return nil, err
	}
	messages, err := NewCounter(meter,
		"mws_feed_messages_total",
		"Messages carried by submitted feeds",
		"{messages}",
	)
	if err != nil {
		return nil, err
	}
	skipped, err := NewCounter(meter,
		"mws_feed_skipped_products_total",
		"Products left out of a feed because they were unlinked or out of stock",
		"{products}",
	)
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "mws_feed_export_duration_seconds",
		Description: "Time spent building and submitting a feed",
		Unit:        "s",
		Boundaries:  MWSDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &ExportMetrics{
		submissions: submissions,
		messages:    messages,
		skipped:     skipped,
		duration:    duration,
		logger:      logger,
	}, nil
}

// RecordExport records one export attempt.
func (m *ExportMetrics) RecordExport(ctx context.Context, feedType, outcome string, messages, skipped int, elapsed time.Duration) {
	typeAttr := AttrFeedType.String(feedType)
	m.submissions.Inc(ctx, typeAttr, AttrOutcome.String(outcome))
	m.duration.RecordDuration(ctx, elapsed, typeAttr, AttrOutcome.String(outcome))
	if outcome != OutcomeSubmitted {
		return
	}
	m.messages.Add(ctx, int64(messages), typeAttr)
	if skipped > 0 {
		m.skipped.Add(ctx, int64(skipped), typeAttr)
	}
}
