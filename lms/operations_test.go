package lms_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/infiotinc/lmsgql/client/transport"
	"github.com/infiotinc/lmsgql/lms"
)

func TestDocumentsMatchSchema(t *testing.T) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: lms.Schema})
	require.NoError(t, err)

	require.Equal(t, 14, lms.Operations.Len())

	for _, d := range lms.Operations.Descriptors() {
		t.Run(d.Name, func(t *testing.T) {
			doc, errs := gqlparser.LoadQuery(schema, d.Document)
			require.Empty(t, errs)

			require.Len(t, doc.Operations, 1)
			op := doc.Operations[0]

			assert.Equal(t, d.Name, op.Name)
			assert.Equal(t, d.Kind, transport.Operation(op.Operation))
		})
	}
}
