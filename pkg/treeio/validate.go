package treeio

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaError describes one schema violation in a tree document.
type SchemaError struct {
	Field       string
	Description string
}

// String renders the violation as "field: description".
func (e SchemaError) String() string {
	return e.Field + ": " + e.Description
}

// Validate checks a JSON tree document against the embedded schema and
// returns one SchemaError per violation. A nil slice means the document
// is valid. The error return covers unreadable documents, not
// violations.
func Validate(data []byte) ([]SchemaError, error) {
	schemaBytes, err := SchemaFS.ReadFile("tree-schema.json")
	if err != nil {
		return nil, fmt.Errorf("treeio: read embedded schema: %w", err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("treeio: validate: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	out := make([]SchemaError, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		out = append(out, SchemaError{Field: verr.Field(), Description: verr.Description()})
	}

	return out, nil
}
