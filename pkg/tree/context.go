package tree

// Context owns one tree version (source or destination) and its
// context-level metadata. Nodes never outlive their context. Type names are
// resolved through the process-wide interner, so contexts stay cheap.
type Context struct {
	root     *Node
	metadata map[string]string
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{}
}

// Root returns the owned root node, or nil before SetRoot.
func (c *Context) Root() *Node {
	return c.root
}

// SetRoot installs root as the owned tree and computes structural metrics
// for every node, so consumers always observe fully-annotated trees.
func (c *Context) SetRoot(root *Node) {
	c.root = root
	ComputeMetrics(root)
}

// CreateNode creates a detached node owned by this context.
func (c *Context) CreateNode(typ Type, label string) *Node {
	return NewNode(typ, label)
}

// TypeName resolves typ to its registered name.
func (c *Context) TypeName(typ Type) string {
	return typ.String()
}

// Metadata returns the context-level value for key, or the empty string.
func (c *Context) Metadata(key string) string {
	return c.metadata[key]
}

// SetMetadata associates a context-level value with key.
func (c *Context) SetMetadata(key, value string) {
	if c.metadata == nil {
		c.metadata = make(map[string]string)
	}

	c.metadata[key] = value
}
