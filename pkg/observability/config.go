package observability

import "log/slog"

// defaultShutdownTimeoutSec bounds the telemetry flush on process exit.
const defaultShutdownTimeoutSec = 5

// Config controls logging and tracing for one process.
type Config struct {
	// ServiceName is attached to every span and log record.
	ServiceName string

	// ServiceVersion is attached to the OTel resource when set.
	ServiceVersion string

	// Environment names the deployment environment (dev, ci, prod).
	Environment string

	// LogLevel is the minimum level emitted by the logger.
	LogLevel slog.Level

	// LogJSON selects the JSON handler instead of the text handler.
	LogJSON bool

	// OTLPEndpoint is the host:port of an OTLP/gRPC collector. Empty
	// keeps tracing no-op.
	OTLPEndpoint string

	// OTLPInsecure disables TLS on the exporter connection.
	OTLPInsecure bool

	// OTLPHeaders are extra headers sent with every export request.
	OTLPHeaders map[string]string

	// SampleRatio samples that fraction of root traces when positive.
	SampleRatio float64

	// DebugTrace forces the always-on sampler.
	DebugTrace bool

	// ShutdownTimeoutSec bounds Providers.Shutdown.
	ShutdownTimeoutSec int
}

// DefaultConfig returns the configuration used when nothing is set:
// text logs at info level, no export.
func DefaultConfig() Config {
	return Config{
		ServiceName:        "astdiff",
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
