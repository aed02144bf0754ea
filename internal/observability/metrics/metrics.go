package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	receivedLines    metric.Int64Counter
	paymentsRecorded metric.Int64Counter
	paymentsRejected metric.Int64Counter
	partsSearch      metric.Int64Counter
	workOrdersSaved  metric.Int64Counter
	rateLimitDenied  metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "shopcore"
	}
	meter := provider.Meter(name)

	receivedLines, err := meter.Int64Counter("shopcore_po_received_lines_total")
	if err != nil {
		return nil, err
	}
	paymentsRecorded, err := meter.Int64Counter("shopcore_payments_recorded_total")
	if err != nil {
		return nil, err
	}
	paymentsRejected, err := meter.Int64Counter("shopcore_payments_rejected_total")
	if err != nil {
		return nil, err
	}
	partsSearch, err := meter.Int64Counter("shopcore_parts_search_total")
	if err != nil {
		return nil, err
	}
	workOrdersSaved, err := meter.Int64Counter("shopcore_work_orders_saved_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("shopcore_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		receivedLines:    receivedLines,
		paymentsRecorded: paymentsRecorded,
		paymentsRejected: paymentsRejected,
		partsSearch:      partsSearch,
		workOrdersSaved:  workOrdersSaved,
		rateLimitDenied:  rateLimitDenied,
	}, nil
}

// RecordReceivedLines counts purchase order lines applied to the ledger.
func (m *Metrics) RecordReceivedLines(ctx context.Context, shopID string, lines int) {
	if m == nil || lines <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("shop_id", strings.TrimSpace(shopID)))
	m.receivedLines.Add(ctx, int64(lines), metric.WithAttributes(attrs...))
}

// RecordPayment increments recorded payment counts.
func (m *Metrics) RecordPayment(ctx context.Context, shopID, method string, fullyPaid bool) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("shop_id", strings.TrimSpace(shopID)),
		attribute.String("payment_method", strings.TrimSpace(method)),
		attribute.Bool("fully_paid", fullyPaid),
	)
	m.paymentsRecorded.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPaymentRejected increments rejected payment counts.
func (m *Metrics) RecordPaymentRejected(ctx context.Context, shopID, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("shop_id", strings.TrimSpace(shopID)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.paymentsRejected.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPartsSearch increments parts search counts by matching strategy.
func (m *Metrics) RecordPartsSearch(ctx context.Context, shopID, strategy string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("shop_id", strings.TrimSpace(shopID)),
		attribute.String("strategy", strings.TrimSpace(strategy)),
	)
	m.partsSearch.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordWorkOrderSaved increments work order create/update counts.
func (m *Metrics) RecordWorkOrderSaved(ctx context.Context, shopID, operation string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("shop_id", strings.TrimSpace(shopID)),
		attribute.String("operation", strings.TrimSpace(operation)),
	)
	m.workOrdersSaved.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitDenied increments rate limit deny counts.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, shopID, endpoint string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("shop_id", strings.TrimSpace(shopID)),
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
	)
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"shop_id":        {},
	"endpoint":       {},
	"status_code":    {},
	"payment_method": {},
	"fully_paid":     {},
	"reason":         {},
	"strategy":       {},
	"operation":      {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
