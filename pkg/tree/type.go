package tree

import (
	"strconv"
	"sync"

	"github.com/Sumatoshi-tech/astdiff/pkg/safeconv"
)

// Type is an interned node type tag. Comparing two Type values is a single
// integer comparison, keeping type name strings out of matcher hot paths.
type Type int32

// NoType is the zero Type, interned for the empty type name.
const NoType Type = 0

// typeInterner is the process-wide, append-only type tag table.
// Entries are never removed or rewritten after interning.
//
//nolint:gochecknoglobals // Shared write-once interner for type tags.
var typeInterner = struct {
	mu    sync.RWMutex
	ids   map[string]Type
	names []string
}{
	ids:   map[string]Type{"": NoType},
	names: []string{""},
}

// TypeOf returns the interned Type for name, allocating a fresh tag on first
// use. The empty name maps to NoType.
func TypeOf(name string) Type {
	typeInterner.mu.RLock()
	t, ok := typeInterner.ids[name]
	typeInterner.mu.RUnlock()

	if ok {
		return t
	}

	typeInterner.mu.Lock()
	defer typeInterner.mu.Unlock()

	if t, ok = typeInterner.ids[name]; ok {
		return t
	}

	t = Type(safeconv.MustIntToInt32(len(typeInterner.names)))
	typeInterner.ids[name] = t
	typeInterner.names = append(typeInterner.names, name)

	return t
}

// String returns the name the tag was interned under.
func (t Type) String() string {
	typeInterner.mu.RLock()
	defer typeInterner.mu.RUnlock()

	if t < 0 || int(t) >= len(typeInterner.names) {
		return "type(" + strconv.Itoa(int(t)) + ")"
	}

	return typeInterner.names[t]
}
