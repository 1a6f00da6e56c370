package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	m "retype.dev/pkg/retype/internal/model"
)

// ErrNoSymbolCache is returned by Load when no cache file exists yet.
var ErrNoSymbolCache = errors.New("symbol cache not found")

// SymbolStore persists the symbol table between runs.
type SymbolStore interface {
	SaveSymbols(ctx context.Context, path m.Path, table *m.SymbolTable) error
	LoadSymbols(ctx context.Context, path m.Path) (*m.SymbolTable, error)
}

// JSONSymbolStore keeps the symbol table as an indented JSON document.
type JSONSymbolStore struct {
	fs SourceFSAdapter
}

// NewJSONSymbolStore constructs a JSONSymbolStore writing through fsAdapter.
func NewJSONSymbolStore(fsAdapter SourceFSAdapter) *JSONSymbolStore {
	return &JSONSymbolStore{fs: fsAdapter}
}

// SaveSymbols writes table to path, replacing any previous cache.
func (s *JSONSymbolStore) SaveSymbols(ctx context.Context, path m.Path, table *m.SymbolTable) error {
	data, err := EncodeSymbols(table)
	if err != nil {
		return err
	}

	if err := s.fs.WriteFile(ctx, path, data, 0o644); err != nil {
		return fmt.Errorf("write symbol cache %s: %w", path, err)
	}

	return nil
}

// LoadSymbols reads the table stored at path. It returns ErrNoSymbolCache
// when the file does not exist.
func (s *JSONSymbolStore) LoadSymbols(ctx context.Context, path m.Path) (*m.SymbolTable, error) {
	data, err := s.fs.ReadFile(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSymbolCache
	}

	if err != nil {
		return nil, fmt.Errorf("read symbol cache %s: %w", path, err)
	}

	return DecodeSymbols(data)
}

// EncodeSymbols renders table in the cache format. Map keys come out sorted,
// so equal tables always encode to equal bytes.
func EncodeSymbols(table *m.SymbolTable) ([]byte, error) {
	data, err := json.MarshalIndent(table, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode symbol cache: %w", err)
	}

	return append(data, '\n'), nil
}

// DecodeSymbols parses a cache document and fills in empty collections that
// the document left out.
func DecodeSymbols(data []byte) (*m.SymbolTable, error) {
	table := m.NewSymbolTable()
	if err := json.Unmarshal(data, table); err != nil {
		return nil, fmt.Errorf("decode symbol cache: %w", err)
	}

	if table.Modules == nil {
		table.Modules = map[string]map[string]*m.VarList{}
	}

	if table.ClassPathToModule == nil {
		table.ClassPathToModule = map[string]string{}
	}

	for module, entries := range table.Modules {
		if entries == nil {
			table.Modules[module] = map[string]*m.VarList{}
			continue
		}

		for path, varList := range entries {
			entries[path] = normalizeVarList(varList)
		}
	}

	return table, nil
}

func normalizeVarList(varList *m.VarList) *m.VarList {
	if varList == nil {
		return m.NewVarList()
	}

	if varList.Fields == nil {
		varList.Fields = map[string]*m.Field{}
	}

	if varList.Functions == nil {
		varList.Functions = map[string]*m.Function{}
	}

	if varList.Parents == nil {
		varList.Parents = []string{}
	}

	for name, fn := range varList.Functions {
		if fn == nil {
			delete(varList.Functions, name)
			continue
		}

		if fn.Args == nil {
			fn.Args = []m.Arg{}
		}
	}

	for name, field := range varList.Fields {
		if field == nil {
			delete(varList.Fields, name)
		}
	}

	return varList
}
