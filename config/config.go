package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	AppName    string `env:"APP_NAME" env-default:"fern"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs bool   `env:"PRETTY_LOGS" env-default:"false"`

	// Metrics
	MetricsEnabled   bool   `env:"METRICS_ENABLED" env-default:"false"`
	MetricsNamespace string `env:"METRICS_NAMESPACE" env-default:"fern"`

	// Tracing exporter is "console" or "otlp"
	TracingEnabled  bool   `env:"TRACING_ENABLED" env-default:"false"`
	TracingExporter string `env:"TRACING_EXPORTER" env-default:"console"`
	OTLPEndpoint    string `env:"OTLP_ENDPOINT" env-default:"localhost:4317"`
	// OTLP protocol is "grpc" or "http"
	OTLPProtocol string `env:"OTLP_PROTOCOL" env-default:"grpc"`
	OTLPInsecure bool   `env:"OTLP_INSECURE" env-default:"true"`

	// Engine
	StrictValidation bool   `env:"STRICT_VALIDATION" env-default:"false"`
	DefinitionsDir   string `env:"DEFINITIONS_DIR" env-default:"."`

	// Processor
	ProcessorWorkerCount      int `env:"PROCESSOR_WORKER_COUNT" env-default:"4"`
	ProcessorTimeoutSeconds   int `env:"PROCESSOR_TIMEOUT_SECONDS" env-default:"30"`
	DefinitionCacheTTLSeconds int `env:"DEFINITION_CACHE_TTL_SECONDS" env-default:"300"`
}

// Load reads the environment, after merging a .env file when one is present.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	// a missing .env file is not an error
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to read config from environment")
	}
	return cfg, nil
}
