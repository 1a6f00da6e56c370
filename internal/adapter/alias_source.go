package adapter

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	m "retype.dev/pkg/retype/internal/model"
)

//go:embed aliases.yaml
var defaultAliases []byte

// AliasSource provides the alias table applied to the symbol table.
type AliasSource interface {
	Aliases(ctx context.Context) ([]m.AliasGroup, error)
}

// YAMLAliasSource reads the alias table from a YAML file, or from the
// built-in table when no file is configured.
type YAMLAliasSource struct {
	fs   SourceFSAdapter
	path m.Path
}

// NewYAMLAliasSource constructs a YAMLAliasSource. An empty path selects the
// built-in table.
func NewYAMLAliasSource(fsAdapter SourceFSAdapter, path m.Path) *YAMLAliasSource {
	return &YAMLAliasSource{fs: fsAdapter, path: path}
}

// Aliases loads and parses the alias table.
func (s *YAMLAliasSource) Aliases(ctx context.Context) ([]m.AliasGroup, error) {
	data := defaultAliases

	if s.path != "" {
		content, err := s.fs.ReadFile(ctx, s.path)
		if err != nil {
			return nil, fmt.Errorf("read alias table %s: %w", s.path, err)
		}

		data = content
	}

	return ParseAliases(data)
}

// ParseAliases decodes a YAML alias table.
func ParseAliases(data []byte) ([]m.AliasGroup, error) {
	var groups []m.AliasGroup
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("decode alias table: %w", err)
	}

	for i, group := range groups {
		if group.Module == "" {
			return nil, fmt.Errorf("decode alias table: entry %d has no module", i+1)
		}
	}

	return groups, nil
}

// DefaultAliases returns the built-in alias table source text.
func DefaultAliases() []byte {
	return defaultAliases
}
