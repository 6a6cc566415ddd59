package main

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/internal/repositories/definition"
	"github.com/Ramsey-B/fern/internal/services/mapping"
	"github.com/Ramsey-B/fern/pkg/engine"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/modules/jsonmodule"
	"github.com/Ramsey-B/fern/pkg/modules/structmodule"
	"github.com/Ramsey-B/fern/pkg/processor"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/tracing/exporters"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds everything a command needs, built once from the configuration.
type app struct {
	config   *config.Config
	logger   ectologger.Logger
	zap      *zap.Logger
	service  *mapping.Service
	modules  *engine.ModuleRegistry
	exporter *metrics.Exporter
	registry *prometheus.Registry
	shutdown func(context.Context) error
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	zapLogger, err := newZapLogger(cfg)
	if err != nil {
		return nil, err
	}
	logger := zapadapter.NewZapEctoLogger(zapLogger, nil)

	a := &app{
		config:   cfg,
		logger:   logger,
		zap:      zapLogger,
		shutdown: func(context.Context) error { return nil },
	}

	if cfg.TracingEnabled {
		exporter, err := newSpanExporter(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		a.shutdown = tracing.Setup(cfg.AppName, exporter)
	}

	a.modules, err = engine.NewModuleRegistry(jsonmodule.Registration(), structmodule.Registration())
	if err != nil {
		return nil, err
	}
	factory := engine.NewFactory(logger,
		engine.WithModuleRegistry(a.modules),
		engine.WithStrictValidation(cfg.StrictValidation),
	)

	proc := processor.NewProcessor(processor.ProcessorConfig{
		WorkerCount:    cfg.ProcessorWorkerCount,
		ProcessTimeout: time.Duration(cfg.ProcessorTimeoutSeconds) * time.Second,
	}, logger)

	if cfg.MetricsEnabled {
		a.registry = prometheus.NewRegistry()
		a.exporter = metrics.NewExporter(cfg.MetricsNamespace, a.registry)
		proc.SetObserver(a.exporter)
	}

	repo := definition.NewRepository(cfg.DefinitionsDir, logger)
	a.service = mapping.NewService(logger, repo, factory, proc, time.Duration(cfg.DefinitionCacheTTLSeconds)*time.Second)
	return a, nil
}

func newZapLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid LOG_LEVEL %q", cfg.LogLevel)
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.OutputPaths = []string{"stderr"}
	return zapConfig.Build(zap.Fields(zap.String("app", cfg.AppName)))
}

func newSpanExporter(ctx context.Context, cfg *config.Config, logger ectologger.Logger) (sdktrace.SpanExporter, error) {
	switch cfg.TracingExporter {
	case "console", "":
		return exporters.NewConsoleExporter(logger), nil
	case "otlp":
		otlpConfig := exporters.DefaultOTLPConfig()
		otlpConfig.Endpoint = cfg.OTLPEndpoint
		otlpConfig.Protocol = cfg.OTLPProtocol
		otlpConfig.Insecure = cfg.OTLPInsecure
		return exporters.NewOTLPExporter(ctx, otlpConfig)
	default:
		return nil, errors.Errorf("unsupported TRACING_EXPORTER %q (use 'console' or 'otlp')", cfg.TracingExporter)
	}
}

// close flushes spans, metrics and logs.
func (a *app) close(ctx context.Context, metricsFile string) error {
	var result error
	if a.exporter != nil {
		a.exporter.Collect(a.modules)
		if metricsFile != "" {
			if err := prometheus.WriteToTextfile(metricsFile, a.registry); err != nil {
				result = errors.Wrap(err, "failed to write metrics")
			}
		}
	}
	if err := a.shutdown(ctx); err != nil && result == nil {
		result = errors.Wrap(err, "failed to shut down tracing")
	}
	_ = a.zap.Sync()
	return result
}
