package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/astdiff/pkg/diff"
)

// matchArgCount is the number of arguments expected by the match command.
const matchArgCount = 2

func matchCmd() *cobra.Command {
	var stats bool

	var minPriority int

	var priorityMetric string

	cmd := &cobra.Command{
		Use:   "match <src> <dst>",
		Short: "Match two trees and print the node mapping",
		Long: `Match two serialized trees and print one "src -> dst" line per
mapped node pair.

Examples:
  astdiff match before.json after.json
  astdiff match --stats before.json after.json
  astdiff match --priority-metric size before.yaml after.yaml`,
		Args: cobra.ExactArgs(matchArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd.Context(), args[0], args[1], stats, minPriority, priorityMetric, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "append a match summary table")
	cmd.Flags().IntVar(&minPriority, "min-priority", 0, "minimum subtree priority entering the match queues")
	cmd.Flags().StringVar(&priorityMetric, "priority-metric", "", "priority metric (height, size)")

	return cmd
}

func runMatch(ctx context.Context, srcPath, dstPath string, stats bool, minPriority int, priorityMetric string, writer io.Writer) error {
	runtime, cleanup, err := newCommandRuntime()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, span := runtime.providers.Tracer.Start(ctx, "astdiff.run",
		trace.WithAttributes(attribute.String("command", "match")))
	defer span.End()

	src, dst, err := loadTreePair(ctx, runtime.providers.Tracer, srcPath, dstPath)
	if err != nil {
		return err
	}

	runtime.providers.Logger.Debug("trees loaded",
		"src_nodes", src.Root().Metrics().Size,
		"dst_nodes", dst.Root().Metrics().Size)

	opts := runtime.diffOptions(minPriority, priorityMetric)
	opts.OnlyMatch = true

	res, err := diff.Compute(ctx, src, dst, opts)
	if err != nil {
		return fmt.Errorf("match: %w", err)
	}

	renderMappings(writer, res.Mappings)

	if stats {
		renderMatchStats(writer, res)
	}

	return nil
}
