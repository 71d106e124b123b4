// Package diff is the front door of the engine: one call runs scope
// pre-tagging, subtree matching and edit-script synthesis on a pair of
// tree contexts.
package diff

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/astdiff/pkg/actions"
	"github.com/Sumatoshi-tech/astdiff/pkg/matcher"
	"github.com/Sumatoshi-tech/astdiff/pkg/tree"
)

// tracerName identifies spans emitted by the diff pipeline.
const tracerName = "astdiff"

// ErrNilTree is returned when a context or its root is missing.
var ErrNilTree = errors.New("diff: nil tree")

// Options configures one Compute call.
type Options struct {
	// Matcher is handed to the subtree matcher unchanged.
	Matcher matcher.Options

	// Tagger correlates function scopes before matching. Nil selects the
	// default tagger.
	Tagger *matcher.ScopeTagger

	// Tracer receives one span per pipeline phase. Nil falls back to the
	// globally registered tracer.
	Tracer trace.Tracer

	// Simplified aggregates wholly inserted or deleted subtrees into
	// tree-level actions.
	Simplified bool

	// OnlyMatch stops after matching and leaves Result.Script nil.
	OnlyMatch bool
}

// DefaultOptions returns the options used by the CLI when no flags are
// given.
func DefaultOptions() Options {
	return Options{Matcher: matcher.DefaultOptions()}
}

func (o Options) tracer() trace.Tracer {
	if o.Tracer != nil {
		return o.Tracer
	}

	return otel.Tracer(tracerName)
}

// Result bundles the outcome of a Compute call.
type Result struct {
	Src      *tree.Context
	Dst      *tree.Context
	Mappings *matcher.Store
	Script   *actions.EditScript
}

// AllNodesClassifier partitions every node touched by the script into
// highlight sets. The sets are empty when Compute ran with OnlyMatch.
func (r *Result) AllNodesClassifier() actions.Classified {
	if r.Script == nil {
		return actions.Classified{}
	}

	return actions.ClassifyAllNodes(r.Script, r.Mappings)
}

// RootsClassifier partitions only the root node of each action.
func (r *Result) RootsClassifier() actions.Classified {
	if r.Script == nil {
		return actions.Classified{}
	}

	return actions.ClassifyRoots(r.Script, r.Mappings)
}

// Compute diffs two tree contexts. Scope tagging annotates both trees in
// place; matching and script synthesis leave them untouched.
func Compute(ctx context.Context, src, dst *tree.Context, opts Options) (*Result, error) {
	if src == nil || src.Root() == nil || dst == nil || dst.Root() == nil {
		return nil, ErrNilTree
	}

	tracer := opts.tracer()

	tagger := opts.Tagger
	if tagger == nil {
		tagger = matcher.DefaultScopeTagger()
	}

	_, tagSpan := tracer.Start(ctx, "astdiff.preprocess",
		trace.WithAttributes(
			attribute.Int("tree.src_size", src.Root().Metrics().Size),
			attribute.Int("tree.dst_size", dst.Root().Metrics().Size),
		))
	tagger.Preprocess(src.Root(), dst.Root())
	tagSpan.End()

	_, matchSpan := tracer.Start(ctx, "astdiff.match")

	store, err := matcher.NewSubtreeMatcher(opts.Matcher).Match(src.Root(), dst.Root(), nil)
	if err != nil {
		matchSpan.End()

		return nil, err
	}

	matchSpan.SetAttributes(attribute.Int("match.mappings", store.Size()))
	matchSpan.End()

	res := &Result{Src: src, Dst: dst, Mappings: store}
	if opts.OnlyMatch {
		return res, nil
	}

	_, scriptSpan := tracer.Start(ctx, "astdiff.script",
		trace.WithAttributes(attribute.Bool("script.simplified", opts.Simplified)))

	res.Script, err = generate(src.Root(), dst.Root(), store, opts.Simplified)
	if err != nil {
		scriptSpan.End()

		return nil, err
	}

	scriptSpan.SetAttributes(attribute.Int("script.actions", res.Script.Len()))
	scriptSpan.End()

	return res, nil
}

func generate(src, dst *tree.Node, store *matcher.Store, simplified bool) (*actions.EditScript, error) {
	if simplified {
		return actions.NewSimplifiedGenerator().Generate(src, dst, store)
	}

	return actions.NewChawatheGenerator().Generate(src, dst, store)
}
