package handlers

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportedHandlersCarryRouteDocs(t *testing.T) {
	files, err := filepath.Glob("*_handler.go")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	fset := token.NewFileSet()
	checked := 0
	for _, path := range files {
		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		require.NoError(t, err)

		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || !fn.Name.IsExported() {
				continue
			}
			checked++
			require.NotNil(t, fn.Doc, "%s: %s has no doc comment", path, fn.Name.Name)
			doc := fn.Doc.Text()
			assert.True(t, strings.HasPrefix(doc, fn.Name.Name+" godoc"), "%s: %s doc must start with the handler name", path, fn.Name.Name)
			assert.Contains(t, doc, "@Summary", "%s: %s", path, fn.Name.Name)
			assert.Contains(t, doc, "@Router", "%s: %s", path, fn.Name.Name)
		}
	}
	assert.Equal(t, 12, checked)
}
