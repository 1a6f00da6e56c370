// Package model defines the data structures shared by the annotation pipeline.
package model

import (
	"fmt"
	"strings"
)

// TypeExpression is type text copied verbatim from the declaration corpus.
type TypeExpression = string

// UnknownType is the type recorded for arguments declared without a type.
const UnknownType TypeExpression = "unknown"

// Field describes a typed field of a namespace.
type Field struct {
	Type       TypeExpression `json:"type"`
	IsOptional bool           `json:"isOptional"`
}

// Arg is one positional argument of a Function.
type Arg struct {
	Name       string         `json:"name"`
	Type       TypeExpression `json:"type"`
	IsOptional bool           `json:"isOptional"`
}

// Function describes a method, function or constructor signature.
type Function struct {
	ReturnType TypeExpression `json:"returnType"`
	Args       []Arg          `json:"args"`
	RenameTo   string         `json:"renameTo,omitempty"`
}

// VarList holds the members declared for one namespace path.
type VarList struct {
	Fields    map[string]*Field    `json:"fields"`
	Functions map[string]*Function `json:"functions"`
	Parents   []string             `json:"parents"`
}

// NewVarList returns an empty VarList with all collections allocated.
func NewVarList() *VarList {
	return &VarList{
		Fields:    map[string]*Field{},
		Functions: map[string]*Function{},
		Parents:   []string{},
	}
}

// enumElementType reports the shared field type when the VarList looks like an
// enum: no functions, at least two fields, every field of the same type.
func (v *VarList) enumElementType() (TypeExpression, bool) {
	if v == nil || len(v.Functions) != 0 || len(v.Fields) < 2 {
		return "", false
	}

	first := ""
	seen := false

	for _, field := range v.Fields {
		if !seen {
			first = field.Type
			seen = true

			continue
		}

		if field.Type != first {
			return "", false
		}
	}

	return first, true
}

// SymbolTable maps declaration modules to their namespaces, plus the global
// namespace-path → owning-module index used to cross module boundaries.
type SymbolTable struct {
	Modules           map[string]map[string]*VarList `json:"modules"`
	ClassPathToModule map[string]string              `json:"classPathToModule"`

	generation uint64
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Modules:           map[string]map[string]*VarList{},
		ClassPathToModule: map[string]string{},
	}
}

// Generation increases every time an operation changes lookup results.
func (t *SymbolTable) Generation() uint64 {
	return t.generation
}

// AddModule registers an empty module if it is not known yet.
func (t *SymbolTable) AddModule(module string) {
	if _, ok := t.Modules[module]; !ok {
		t.Modules[module] = map[string]*VarList{}
		t.generation++
	}
}

// HasModule reports whether module is part of the table.
func (t *SymbolTable) HasModule(module string) bool {
	_, ok := t.Modules[module]
	return ok
}

// Lookup returns the VarList registered for path in module.
func (t *SymbolTable) Lookup(module, path string) (*VarList, bool) {
	entries, ok := t.Modules[module]
	if !ok {
		return nil, false
	}

	varList, ok := entries[path]
	if !ok || varList == nil {
		return nil, false
	}

	return varList, true
}

// Ensure returns the VarList for path in module, creating it when missing.
func (t *SymbolTable) Ensure(module, path string) *VarList {
	t.AddModule(module)

	varList, ok := t.Modules[module][path]
	if !ok || varList == nil {
		varList = NewVarList()
		t.Modules[module][path] = varList
		t.generation++
	}

	return varList
}

// Share registers alias as another name for the VarList at target. The entry
// is shared, not copied. It returns false when target has no entry.
func (t *SymbolTable) Share(module, alias, target string) bool {
	varList, ok := t.Lookup(module, target)
	if !ok {
		return false
	}

	t.Modules[module][alias] = varList
	t.generation++

	return true
}

// Owner returns the module owning a namespace path.
func (t *SymbolTable) Owner(path string) (string, bool) {
	module, ok := t.ClassPathToModule[path]
	return module, ok && module != ""
}

// SetOwner records module as the owner of path.
func (t *SymbolTable) SetOwner(path, module string) {
	t.ClassPathToModule[path] = module
	t.generation++
}

// ClaimOwner records module as the owner of path unless path already has one.
func (t *SymbolTable) ClaimOwner(path, module string) bool {
	if _, taken := t.Owner(path); taken {
		return false
	}

	t.SetOwner(path, module)

	return true
}

// ReplaceWithSummary collapses an enum-like namespace into a single indexed
// mapping type. The namespace entry is removed from the module, so it is no
// longer resolvable on its own. ok is false when the entry is missing or not
// enum-like, in which case the table is left untouched.
func (t *SymbolTable) ReplaceWithSummary(module, path string) (TypeExpression, bool) {
	varList, ok := t.Lookup(module, path)
	if !ok {
		return "", false
	}

	elem, ok := varList.enumElementType()
	if !ok {
		return "", false
	}

	delete(t.Modules[module], path)
	t.generation++

	return fmt.Sprintf("Record<K, %s>", elem), true
}

// RetypeField overwrites the type of a field owned by the namespace at path.
func (t *SymbolTable) RetypeField(module, path, name string, typ TypeExpression) bool {
	varList, ok := t.Lookup(module, path)
	if !ok {
		return false
	}

	field, ok := varList.Fields[name]
	if !ok {
		return false
	}

	field.Type = typ
	t.generation++

	return true
}

// ParentPath returns everything before the last dot of a namespace path.
func ParentPath(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return ""
	}

	return path[:idx]
}

// JoinPath appends segment to a namespace path.
func JoinPath(path, segment string) string {
	if path == "" {
		return segment
	}

	if segment == "" {
		return path
	}

	return path + "." + segment
}
