package domain

import (
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	m "retype.dev/pkg/retype/internal/model"
)

// MemberKind selects the member collection a lookup searches.
type MemberKind int

const (
	// MemberField searches VarList.Fields.
	MemberField MemberKind = iota
	// MemberFunction searches VarList.Functions.
	MemberFunction
)

func (k MemberKind) String() string {
	if k == MemberFunction {
		return "function"
	}

	return "field"
}

// Resolution is the outcome of one member lookup.
type Resolution struct {
	Outcome m.Outcome
	// Module and Path locate the VarList that declared the member.
	Module   string
	Path     string
	Field    *m.Field
	Function *m.Function
}

// Found reports whether a declaration was located.
func (r Resolution) Found() bool {
	return r.Outcome != m.NoDeclaration
}

// ResolverConfig holds the corpus conventions the resolver depends on.
type ResolverConfig struct {
	// BaseClasses end an inheritance walk without a match.
	BaseClasses []string
	// QualifiedRoots are the namespace roots that mark a parent name as
	// already qualified.
	QualifiedRoots []string
	MaxDepth       int
	CacheSize      int
}

// DefaultResolverConfig returns the conventions of the Impact corpus.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		BaseClasses:    []string{"ig.Class", "ig.Config", "<root-class>", "<config-base>"},
		QualifiedRoots: []string{"ig", "sc"},
		MaxDepth:       100,
		CacheSize:      4096,
	}
}

type resolveKey struct {
	module     string
	path       string
	kind       MemberKind
	name       string
	generation uint64
}

// Resolver looks members up in a SymbolTable, following inheritance parents.
// Results are memoised per table generation, so any table mutation
// invalidates earlier answers.
type Resolver struct {
	table  *m.SymbolTable
	config ResolverConfig
	base   map[string]bool
	cache  *lru.Cache[resolveKey, Resolution]
}

// NewResolver constructs a Resolver over table.
func NewResolver(table *m.SymbolTable, config ResolverConfig) (*Resolver, error) {
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultResolverConfig().MaxDepth
	}

	if config.CacheSize <= 0 {
		config.CacheSize = DefaultResolverConfig().CacheSize
	}

	cache, err := lru.New[resolveKey, Resolution](config.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create resolver cache: %w", err)
	}

	base := make(map[string]bool, len(config.BaseClasses))
	for _, name := range config.BaseClasses {
		base[name] = true
	}

	return &Resolver{table: table, config: config, base: base, cache: cache}, nil
}

// Table returns the table the resolver reads.
func (r *Resolver) Table() *m.SymbolTable {
	return r.table
}

// Scope returns the VarList registered for path in module.
func (r *Resolver) Scope(module, path string) (*m.VarList, bool) {
	return r.table.Lookup(module, path)
}

// Resolve finds member name of kind starting at the VarList for path in
// module. The first parent that declares the member wins.
func (r *Resolver) Resolve(module, path string, kind MemberKind, name string) (Resolution, error) {
	key := resolveKey{module: module, path: path, kind: kind, name: name, generation: r.table.Generation()}
	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}

	varList, ok := r.table.Lookup(module, path)
	if !ok {
		return Resolution{Outcome: m.NoDeclaration}, nil
	}

	res, err := r.resolve(module, path, varList, kind, name, 0)
	if err != nil {
		slog.Error("member resolution failed", "module", module, "path", path, "member", name, "error", err)
		return Resolution{}, err
	}

	r.cache.Add(key, res)

	return res, nil
}

func (r *Resolver) resolve(module, path string, varList *m.VarList, kind MemberKind, name string, depth int) (Resolution, error) {
	if depth >= r.config.MaxDepth {
		return Resolution{}, fmt.Errorf("%w: %s.%s at %s", ErrInheritanceDepth, path, name, module)
	}

	if res, ok := local(module, path, varList, kind, name); ok {
		return res, nil
	}

	for _, parent := range varList.Parents {
		if parent == "" || r.base[parent] {
			continue
		}

		parentModule, ok := r.table.Owner(parent)
		if !ok && !r.qualified(parent) {
			parent = m.JoinPath(m.ParentPath(path), parent)
			parentModule, ok = r.table.Owner(parent)
		}

		if !ok {
			continue
		}

		parentList, ok := r.table.Lookup(parentModule, parent)
		if !ok {
			continue
		}

		res, err := r.resolve(parentModule, parent, parentList, kind, name, depth+1)
		if err != nil {
			return Resolution{}, err
		}

		if res.Found() {
			return res, nil
		}
	}

	return Resolution{Outcome: m.NoDeclaration}, nil
}

func (r *Resolver) qualified(path string) bool {
	for _, root := range r.config.QualifiedRoots {
		if strings.HasPrefix(path, root+".") {
			return true
		}
	}

	return false
}

func local(module, path string, varList *m.VarList, kind MemberKind, name string) (Resolution, bool) {
	switch kind {
	case MemberFunction:
		if fn, ok := varList.Functions[name]; ok && fn != nil {
			return Resolution{Outcome: m.Matched, Module: module, Path: path, Function: fn}, true
		}
	default:
		if f, ok := varList.Fields[name]; ok && f != nil {
			return Resolution{Outcome: m.Matched, Module: module, Path: path, Field: f}, true
		}
	}

	return Resolution{}, false
}

// CollapseEnum replaces the namespace at path in module with its summary type
// when it is enum-like. When owner locates the field that refers to the
// namespace, that field is retyped too.
func (r *Resolver) CollapseEnum(module, path string, owner *Resolution, fieldName string) (m.TypeExpression, bool) {
	summary, ok := r.table.ReplaceWithSummary(module, path)
	if !ok {
		return "", false
	}

	slog.Debug("collapsed enum namespace", "module", module, "path", path, "type", summary)

	if owner != nil && owner.Found() {
		r.table.RetypeField(owner.Module, owner.Path, fieldName, summary)
	}

	return summary, true
}
