package domain

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/require"

	"retype.dev/pkg/retype/internal/adapter"
	m "retype.dev/pkg/retype/internal/model"
)

func declarationUnit(module, content string) m.DeclarationUnit {
	return m.DeclarationUnit{
		Module: module,
		File:   m.File{Path: m.Path(module + declarationExt), Content: []byte(content)},
	}
}

func loadTable(t *testing.T, units ...m.DeclarationUnit) *m.SymbolTable {
	t.Helper()

	loader := NewLoader(adapter.NewLocalSourceFSAdapter(), adapter.NewTreeSitterAdapter(), DefaultCorpusConfig())

	table, err := loader.Load(context.Background(), units)
	require.NoError(t, err)

	return table
}

func parseProgram(t *testing.T, src string) *sitter.Tree {
	t.Helper()

	tree, err := adapter.NewTreeSitterAdapter().Parse(context.Background(), m.LanguageJavaScript, []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	return tree
}

type annotateCase struct {
	units    []m.DeclarationUnit
	src      string
	generate bool
}

func runAnnotate(t *testing.T, tc annotateCase) (*m.SymbolTable, Annotation, error) {
	t.Helper()

	table := loadTable(t, tc.units...)

	styles, err := Profiles(context.Background(), tc.units)
	require.NoError(t, err)

	resolver, err := NewResolver(table, DefaultResolverConfig())
	require.NoError(t, err)

	config := DefaultAnnotatorConfig()
	config.GenerateEdits = tc.generate

	tree := parseProgram(t, tc.src)

	annotation, err := NewAnnotator(resolver, config, styles).Annotate(context.Background(), tree.RootNode(), []byte(tc.src))

	return table, annotation, err
}

// annotateAndApply runs the walk with edits and returns the patched program.
func annotateAndApply(t *testing.T, src string, units ...m.DeclarationUnit) (string, Annotation) {
	t.Helper()

	_, annotation, err := runAnnotate(t, annotateCase{units: units, src: src, generate: true})
	require.NoError(t, err)

	out, err := Apply([]byte(src), annotation.Edits)
	require.NoError(t, err)

	return string(out), annotation
}

func findFirst(node *sitter.Node, typ string) *sitter.Node {
	var found *sitter.Node

	walkTree(node, nil, func(n *sitter.Node, ns namespace, _ int) (namespace, bool) {
		if found != nil {
			return ns, false
		}

		if n.Type() == typ {
			found = n
			return ns, false
		}

		return ns, true
	})

	return found
}
