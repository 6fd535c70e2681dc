package metrics

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("outcome", "accepted"),
		attribute.String("subscriber_no", "1001"),
		attribute.String("source", "import"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "outcome" && attrs[1].Key != "outcome" {
		t.Fatalf("expected outcome to be retained")
	}
	if attrs[0].Key != "source" && attrs[1].Key != "source" {
		t.Fatalf("expected source to be retained")
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordBillsCreated(ctx, "single", 1)
	m.RecordPayment(ctx, "partial")
	m.RecordImportRows(ctx, "rejected", 2)
	m.RecordRateLimitAllowed(ctx, "/api/v1/mobile/query-bill")
	m.RecordRateLimitDenied(ctx, "/api/v1/mobile/query-bill", "daily-limit")
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{ServiceName: "billhub-test"}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}
	m.RecordBillsCreated(context.Background(), "import", 3)
}
