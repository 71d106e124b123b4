package matcher

import (
	"io"
	"log/slog"
)

// DefaultMinPriority is the minimum subtree priority eligible for top-down
// matching when none is configured. At the default height metric it admits
// every node down to single leaves.
const DefaultMinPriority = 1

// Options configures a subtree matcher.
type Options struct {
	// MinPriority is the smallest priority still entering the traversal
	// queues. Zero or negative selects DefaultMinPriority.
	MinPriority int

	// Metric selects the priority scalar. The zero value is MetricHeight.
	Metric Metric

	// Comparator builds the similarity comparator ranking one ambiguous
	// group against the mappings committed so far. When nil, NewFullComparator
	// is used.
	Comparator func(*Store) Comparator

	// Logger is the structured logger for matching decisions.
	// When nil, a discard logger is used.
	Logger *slog.Logger
}

// DefaultOptions returns the default matcher configuration.
func DefaultOptions() Options {
	return Options{
		MinPriority: DefaultMinPriority,
		Metric:      MetricHeight,
	}
}

// withDefaults fills unset fields with their defaults.
func (o Options) withDefaults() Options {
	if o.MinPriority <= 0 {
		o.MinPriority = DefaultMinPriority
	}

	if o.Comparator == nil {
		o.Comparator = func(s *Store) Comparator {
			return NewFullComparator(s)
		}
	}

	return o
}

// logger returns the configured logger, or a discard logger if nil.
func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
