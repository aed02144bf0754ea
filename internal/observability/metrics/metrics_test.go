package metrics

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("shop_id", "123"),
		attribute.String("customer_id", "456"),
		attribute.String("reason", "overpayment"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "shop_id" && attrs[1].Key != "shop_id" {
		t.Fatalf("expected shop_id to be retained")
	}
	if attrs[0].Key != "reason" && attrs[1].Key != "reason" {
		t.Fatalf("expected reason to be retained")
	}
}

func TestRecordersAreNilSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordPayment(ctx, "1", "cash", true)
	m.RecordPaymentRejected(ctx, "1", "overpayment")
	m.RecordReceivedLines(ctx, "1", 3)
	m.RecordPartsSearch(ctx, "1", "trigram")
	m.RecordWorkOrderSaved(ctx, "1", "create")
	m.RecordRateLimitDenied(ctx, "1", "/api/v1/payments")
}

func TestNewRegistersInstruments(t *testing.T) {
	m, err := New(Config{ServiceName: "shopcore"}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}
	m.RecordPayment(context.Background(), "1", "card", false)
}
