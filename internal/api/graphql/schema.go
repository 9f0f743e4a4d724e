// Package graphql serves the user lookup and user creation operations over
// GraphQL. Documents are parsed and validated by gqlparser; root fields are
// resolved by hand against the user service.
package graphql

import (
	_ "embed"
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphql
var schemaSource string

// LoadSchema parses the embedded schema.
func LoadSchema() (*ast.Schema, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSource})
	if err != nil {
		return nil, fmt.Errorf("load graphql schema: %w", err)
	}
	return schema, nil
}
