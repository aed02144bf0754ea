package observability

import (
	"time"

	"github.com/smallbiznis/shopcore/internal/config"
	"github.com/smallbiznis/shopcore/internal/observability/logger"
	"github.com/smallbiznis/shopcore/internal/observability/metrics"
	"github.com/smallbiznis/shopcore/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	gormlogger "gorm.io/gorm/logger"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		loggerConfig,
		gormLoggerConfig,
		logger.New,
		tracingConfig,
		tracing.NewProvider,
		metricsConfig,
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
	),
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

func loggerConfig(cfg Config) logger.Config {
	return logger.Config{
		ServiceName:         cfg.ServiceName,
		Environment:         cfg.Environment,
		Version:             cfg.Version,
		Level:               cfg.LogLevel,
		Format:              cfg.LogFormat,
		Debug:               cfg.Debug(),
		IncludeCaller:       true,
		IncludeStackOnError: cfg.Debug(),
	}
}

// gormLoggerConfig logs every statement in debug mode and only slow or
// failing ones otherwise. Bound values stay out of the log unless asked for.
func gormLoggerConfig(cfg Config, app config.Config) *logger.GormLoggerConfig {
	gcfg := logger.DefaultGormLoggerConfig()
	if app.DBSlowQueryMs > 0 {
		gcfg.SlowThreshold = time.Duration(app.DBSlowQueryMs) * time.Millisecond
	}
	if cfg.Debug() {
		gcfg.Level = gormlogger.Info
	}
	gcfg.LogParams = app.DBLogParams && cfg.Debug()
	return &gcfg
}

func tracingConfig(cfg Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.OtelEnabled,
		ServiceName:      cfg.ServiceName,
		ServiceVersion:   cfg.Version,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.OtelExporterEndpoint,
		ExporterProtocol: cfg.OtelExporterProtocol,
		SamplingRatio:    cfg.OtelSamplingRatio,
	}
}

func metricsConfig(cfg Config) metrics.Config {
	return metrics.Config{
		Enabled:          cfg.OtelEnabled,
		ExporterEndpoint: cfg.OtelExporterEndpoint,
		ExporterProtocol: cfg.OtelExporterProtocol,
		ServiceName:      cfg.ServiceName,
		Environment:      cfg.Environment,
	}
}
