package config

// Matching defaults.
const (
	DefaultMatchMinPriority    = 1
	DefaultMatchPriorityMetric = "height"
	DefaultMatchFunctionType   = "function"
	DefaultMatchNameType       = "name"
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Telemetry defaults.
const (
	DefaultTelemetrySampleRatio = 0.0
)
