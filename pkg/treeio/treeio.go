// Package treeio reads and writes serialized syntax trees. The wire
// format is a nested node object with a mandatory type and optional
// label, position, metadata and children, carried as JSON or YAML.
// Documents can be checked against the embedded JSON schema before
// loading.
package treeio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/astdiff/pkg/tree"
)

// ErrUnknownFormat is returned for a Format value this package does not
// implement.
var ErrUnknownFormat = errors.New("treeio: unknown format")

// ErrMissingType is returned when a node in the document has no type.
var ErrMissingType = errors.New("treeio: node missing type")

// ErrNilTree is returned when saving a context without a root.
var ErrNilTree = errors.New("treeio: nil tree")

// Format selects the serialization syntax.
type Format int

const (
	// FormatJSON is the default document format.
	FormatJSON Format = iota

	// FormatYAML accepts the same node structure in YAML syntax.
	FormatYAML
)

// String returns the lowercase format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// DetectFormat picks a format from a file extension. Unknown extensions
// fall back to JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// wireNode mirrors one node of the document.
type wireNode struct {
	Type     string            `json:"type"               yaml:"type"`
	Label    string            `json:"label,omitempty"    yaml:"label,omitempty"`
	Pos      int               `json:"pos,omitempty"      yaml:"pos,omitempty"`
	Length   int               `json:"length,omitempty"   yaml:"length,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Children []wireNode        `json:"children,omitempty" yaml:"children,omitempty"`
}

// Load reads one tree document and builds a fully annotated context:
// types are interned and metrics are computed on the way out.
func Load(r io.Reader, format Format) (*tree.Context, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("treeio: read: %w", err)
	}

	var root wireNode

	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &root)
	case FormatYAML:
		err = yaml.Unmarshal(data, &root)
	default:
		return nil, ErrUnknownFormat
	}

	if err != nil {
		return nil, fmt.Errorf("treeio: decode %s: %w", format, err)
	}

	node, err := decodeNode(root)
	if err != nil {
		return nil, err
	}

	ctx := tree.NewContext()
	ctx.SetRoot(node)

	return ctx, nil
}

// Save writes the context's tree as one document in the given format.
func Save(w io.Writer, ctx *tree.Context, format Format) error {
	if ctx == nil || ctx.Root() == nil {
		return ErrNilTree
	}

	root := encodeNode(ctx.Root())

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(root); err != nil {
			return fmt.Errorf("treeio: encode json: %w", err)
		}

		return nil
	case FormatYAML:
		data, err := yaml.Marshal(root)
		if err != nil {
			return fmt.Errorf("treeio: encode yaml: %w", err)
		}

		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("treeio: write: %w", err)
		}

		return nil
	default:
		return ErrUnknownFormat
	}
}

func decodeNode(w wireNode) (*tree.Node, error) {
	if w.Type == "" {
		return nil, ErrMissingType
	}

	n := tree.NewNode(tree.TypeOf(w.Type), w.Label)
	n.SetPos(w.Pos, w.Length)

	for key, value := range w.Metadata {
		n.SetMetadata(key, value)
	}

	for _, c := range w.Children {
		child, err := decodeNode(c)
		if err != nil {
			return nil, err
		}

		n.AddChild(child)
	}

	return n, nil
}

func encodeNode(n *tree.Node) wireNode {
	w := wireNode{
		Type:   n.Type().String(),
		Label:  n.Label(),
		Pos:    n.Pos(),
		Length: n.Length(),
	}

	if meta := n.MetadataMap(); len(meta) > 0 {
		w.Metadata = meta
	}

	for _, c := range n.Children() {
		w.Children = append(w.Children, encodeNode(c))
	}

	return w
}
