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

// diffArgCount is the number of arguments expected by the diff command.
const diffArgCount = 2

func diffCmd() *cobra.Command {
	var simplified, onlyMatch bool

	cmd := &cobra.Command{
		Use:   "diff <src> <dst>",
		Short: "Compute a structural edit script between two trees",
		Long: `Compute the edit script transforming the first tree into the second
and print it, one action per line. Inserts render green, deletes red,
moves cyan and updates yellow.

Examples:
  astdiff diff before.json after.json
  astdiff diff --simplified before.json after.json
  astdiff diff --only-match before.yaml after.yaml`,
		Args: cobra.ExactArgs(diffArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), args[0], args[1], diffFlags{
				simplified:    simplified,
				simplifiedSet: cmd.Flags().Changed("simplified"),
				onlyMatch:     onlyMatch,
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&simplified, "simplified", false, "aggregate wholly inserted or deleted subtrees")
	cmd.Flags().BoolVar(&onlyMatch, "only-match", false, "print the mapping instead of an edit script")

	return cmd
}

// diffFlags carries the diff command's flag values, tracking whether
// --simplified was given so the config default applies otherwise.
type diffFlags struct {
	simplified    bool
	simplifiedSet bool
	onlyMatch     bool
}

func runDiff(ctx context.Context, srcPath, dstPath string, flags diffFlags, writer io.Writer) error {
	runtime, cleanup, err := newCommandRuntime()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, span := runtime.providers.Tracer.Start(ctx, "astdiff.run",
		trace.WithAttributes(attribute.String("command", "diff")))
	defer span.End()

	src, dst, err := loadTreePair(ctx, runtime.providers.Tracer, srcPath, dstPath)
	if err != nil {
		return err
	}

	opts := runtime.diffOptions(0, "")
	opts.OnlyMatch = flags.onlyMatch
	opts.Simplified = runtime.cfg.Match.Simplified

	if flags.simplifiedSet {
		opts.Simplified = flags.simplified
	}

	res, err := diff.Compute(ctx, src, dst, opts)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}

	if flags.onlyMatch {
		renderMappings(writer, res.Mappings)

		return nil
	}

	runtime.providers.Logger.Debug("edit script computed",
		"actions", res.Script.Len(),
		"mappings", res.Mappings.Size())

	renderScript(writer, res.Script)

	return nil
}
