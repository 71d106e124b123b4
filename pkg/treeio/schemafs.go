package treeio

import "embed"

// SchemaFS contains the embedded tree document JSON schema.
//
//go:embed tree-schema.json
var SchemaFS embed.FS
