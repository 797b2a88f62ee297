// Package graphql serves the bidding API over GraphQL next to the REST
// surface. The schema is parsed and every request validated with gqlparser;
// the root fields are executed on gqlgen's runtime types and resolved by the
// resolver package, with per-request dataloaders batching item reads.
package graphql

import (
	_ "embed"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphql
var schemaSDL string

// Schema returns the parsed schema. It panics if the embedded SDL is invalid.
func Schema() *ast.Schema {
	return gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSDL})
}
