package matcher

import (
	"fmt"

	"github.com/Sumatoshi-tech/astdiff/pkg/tree"
)

// Mapping is an ordered correspondence between one source node and one
// destination node.
type Mapping struct {
	Src *tree.Node
	Dst *tree.Node
}

// String renders the mapping as "src -> dst" for diagnostics and CLI output.
func (m Mapping) String() string {
	return fmt.Sprintf("%s -> %s", m.Src, m.Dst)
}
