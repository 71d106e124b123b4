package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/astdiff/pkg/config"
	"github.com/Sumatoshi-tech/astdiff/pkg/diff"
	"github.com/Sumatoshi-tech/astdiff/pkg/matcher"
	"github.com/Sumatoshi-tech/astdiff/pkg/observability"
	"github.com/Sumatoshi-tech/astdiff/pkg/tree"
	"github.com/Sumatoshi-tech/astdiff/pkg/treeio"
	"github.com/Sumatoshi-tech/astdiff/pkg/version"
)

// commandRuntime bundles what every subcommand run needs: the resolved
// configuration and the telemetry providers built from it.
type commandRuntime struct {
	cfg       *config.Config
	providers observability.Providers
}

// newCommandRuntime loads the configuration and initializes logging and
// tracing. The returned cleanup flushes pending spans and must run before
// the process exits.
func newCommandRuntime() (*commandRuntime, func(), error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.LogLevel = parseLogLevel(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.Format == "json"
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.DebugTrace = cfg.Telemetry.DebugTrace

	if verbose {
		obsCfg.LogLevel = slog.LevelDebug
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init telemetry: %w", err)
	}

	cleanup := func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			fmt.Fprintf(os.Stderr, "telemetry shutdown: %v\n", shutdownErr)
		}
	}

	return &commandRuntime{cfg: cfg, providers: providers}, cleanup, nil
}

func parseLogLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// diffOptions derives pipeline options from the configuration. Non-zero
// flag values override the config file.
func (rt *commandRuntime) diffOptions(minPriority int, metricName string) diff.Options {
	opts := diff.DefaultOptions()
	opts.Tracer = rt.providers.Tracer
	opts.Matcher.Logger = rt.providers.Logger
	opts.Matcher.MinPriority = rt.cfg.Match.MinPriority

	if minPriority > 0 {
		opts.Matcher.MinPriority = minPriority
	}

	name := rt.cfg.Match.PriorityMetric
	if metricName != "" {
		name = metricName
	}

	metric, known := matcher.MetricFromString(name)
	if !known {
		rt.providers.Logger.Warn("unknown priority metric, using fallback",
			"metric", name, "fallback", metric.String())
	}

	opts.Matcher.Metric = metric
	opts.Tagger = matcher.NewScopeTagger(
		tree.TypeOf(rt.cfg.Match.FunctionType),
		tree.TypeOf(rt.cfg.Match.NameType),
	)

	return opts
}

// loadTreePair reads and decodes both input documents under one load span.
func loadTreePair(ctx context.Context, tracer trace.Tracer, srcPath, dstPath string) (*tree.Context, *tree.Context, error) {
	_, span := tracer.Start(ctx, "astdiff.load",
		trace.WithAttributes(
			attribute.String("load.src", srcPath),
			attribute.String("load.dst", dstPath),
		))
	defer span.End()

	src, err := loadTree(srcPath)
	if err != nil {
		return nil, nil, err
	}

	dst, err := loadTree(dstPath)
	if err != nil {
		return nil, nil, err
	}

	span.SetAttributes(
		attribute.Int("load.src_nodes", src.Root().Metrics().Size),
		attribute.Int("load.dst_nodes", dst.Root().Metrics().Size),
	)

	return src, dst, nil
}

func loadTree(path string) (*tree.Context, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	treeCtx, err := treeio.Load(file, treeio.DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return treeCtx, nil
}
