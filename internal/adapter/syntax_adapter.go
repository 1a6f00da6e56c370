package adapter

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	m "retype.dev/pkg/retype/internal/model"
)

// ErrUnsupportedLanguage is returned when no grammar is registered for a language.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// SyntaxAdapter encapsulates grammar selection and parsing so the domain layer
// only deals with syntax trees and byte offsets.
type SyntaxAdapter interface {
	// Parse builds a concrete syntax tree for src. The caller owns the tree and
	// must Close it.
	Parse(ctx context.Context, lang m.Language, src []byte) (*sitter.Tree, error)
}

// TreeSitterAdapter provides a SyntaxAdapter backed by tree-sitter grammars.
// Each Parse call creates its own parser, so the adapter is safe for
// concurrent use.
type TreeSitterAdapter struct{}

// NewTreeSitterAdapter constructs a TreeSitterAdapter.
func NewTreeSitterAdapter() *TreeSitterAdapter {
	return &TreeSitterAdapter{}
}

// Parse parses src with the grammar registered for lang.
func (a *TreeSitterAdapter) Parse(ctx context.Context, lang m.Language, src []byte) (*sitter.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s parse canceled before start: %w", lang, err)
	}

	grammar, err := grammarFor(lang)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}

	return tree, nil
}

func grammarFor(lang m.Language) (*sitter.Language, error) {
	switch lang {
	case m.LanguageJavaScript:
		return javascript.GetLanguage(), nil
	case m.LanguageTypeScript:
		return typescript.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
}
