package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/errgroup"

	"retype.dev/pkg/retype/internal/adapter"
	"retype.dev/pkg/retype/internal/domain/indent"
	m "retype.dev/pkg/retype/internal/model"
)

const (
	declarationExt = ".d.ts"
	renameTag      = "/** RENAME: "
)

// CorpusConfig describes where the declaration corpus lives and the
// conventions it follows.
type CorpusConfig struct {
	// ModulesDir holds one declaration file per module, relative to the
	// corpus root.
	ModulesDir string
	// CoreFile is always loaded in addition to the modules, relative to the
	// corpus root.
	CoreFile string
	// RootClassMarker prefixes supertypes that are not recorded as parents.
	RootClassMarker string
	// QualifiedRoots mark constructed type names that are already full paths.
	QualifiedRoots []string
	// NameSuffixes are stripped from interface names.
	NameSuffixes []string
	// Threads limits concurrent file reads. Zero means unlimited.
	Threads int
}

// DefaultCorpusConfig returns the layout of the Impact declaration corpus.
func DefaultCorpusConfig() CorpusConfig {
	return CorpusConfig{
		ModulesDir:      "modules",
		CoreFile:        "impact-core.d.ts",
		RootClassMarker: "ImpactClass",
		QualifiedRoots:  []string{"ig", "sc"},
		NameSuffixes:    []string{"Constructor", "_CONSTRUCTOR"},
	}
}

// ModuleID derives a declaration-module identifier from a file path.
func ModuleID(path m.Path) string {
	return strings.TrimSuffix(filepath.Base(string(path)), declarationExt)
}

// Loader builds a SymbolTable from the declaration corpus.
type Loader struct {
	fs     adapter.SourceFSAdapter
	syntax adapter.SyntaxAdapter
	config CorpusConfig
}

// NewLoader constructs a Loader.
func NewLoader(fsAdapter adapter.SourceFSAdapter, syntax adapter.SyntaxAdapter, config CorpusConfig) *Loader {
	return &Loader{fs: fsAdapter, syntax: syntax, config: config}
}

// Units lists and reads the declaration files under root: every module file
// in sorted order, then the core file.
func (l *Loader) Units(ctx context.Context, root m.Path) ([]m.DeclarationUnit, error) {
	modulesDir := l.fs.JoinPath(ctx, string(root), l.config.ModulesDir)

	paths, err := l.fs.ListFiles(ctx, modulesDir, declarationExt)
	if err != nil {
		slog.Error("Failed to list declaration modules", "dir", modulesDir, "error", err)
		return nil, fmt.Errorf("list declaration modules: %w", err)
	}

	if l.config.CoreFile != "" {
		corePath := l.fs.JoinPath(ctx, string(root), l.config.CoreFile)
		if _, statErr := l.fs.FileInfo(ctx, corePath); statErr == nil {
			paths = append(paths, corePath)
		} else if !errors.Is(statErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat core declarations: %w", statErr)
		} else {
			slog.Warn("core declaration file not found", "path", corePath)
		}
	}

	units := make([]m.DeclarationUnit, len(paths))

	group, groupCtx := errgroup.WithContext(ctx)
	if l.config.Threads > 0 {
		group.SetLimit(l.config.Threads)
	}

	for i, path := range paths {
		group.Go(func() error {
			content, readErr := l.fs.ReadFile(groupCtx, path)
			if readErr != nil {
				return fmt.Errorf("read %s: %w", path, readErr)
			}

			units[i] = m.DeclarationUnit{
				Module: ModuleID(path),
				File:   m.File{Path: path, Content: content},
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		slog.Error("Failed to read declaration files", "error", err)
		return nil, err
	}

	return units, nil
}

// Load parses every unit into a fresh table. Declarations without a usable
// type are skipped.
func (l *Loader) Load(ctx context.Context, units []m.DeclarationUnit) (*m.SymbolTable, error) {
	table := m.NewSymbolTable()

	for _, unit := range units {
		table.AddModule(unit.Module)
	}

	for _, unit := range units {
		if err := l.LoadUnit(ctx, table, unit); err != nil {
			return nil, err
		}
	}

	slog.Debug("declaration corpus loaded", "modules", len(table.Modules), "classes", len(table.ClassPathToModule))

	return table, nil
}

// LoadUnit adds the declarations of one unit to table.
func (l *Loader) LoadUnit(ctx context.Context, table *m.SymbolTable, unit m.DeclarationUnit) error {
	tree, err := l.syntax.Parse(ctx, m.LanguageTypeScript, unit.File.Content)
	if err != nil {
		slog.Error("Failed to parse declaration file", "path", unit.File.Path, "error", err)
		return fmt.Errorf("parse %s: %w", unit.File.Path, err)
	}
	defer tree.Close()

	table.AddModule(unit.Module)

	v := &declarationVisitor{
		config: l.config,
		table:  table,
		module: unit.Module,
		src:    unit.File.Content,
	}
	walkTree(tree.RootNode(), nil, v.visit)

	return nil
}

// Profiles detects the indentation style of every unit concurrently.
func Profiles(ctx context.Context, units []m.DeclarationUnit) (map[string]indent.Style, error) {
	var mu sync.Mutex

	styles := make(map[string]indent.Style, len(units))

	group, _ := errgroup.WithContext(ctx)

	for _, unit := range units {
		group.Go(func() error {
			style, err := indent.DetectText(string(unit.File.Content))
			if err != nil {
				return fmt.Errorf("%s: %w", unit.File.Path, err)
			}

			mu.Lock()
			styles[unit.Module] = style
			mu.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		slog.Error("Failed to profile indentation", "error", err)
		return nil, err
	}

	return styles, nil
}

type declarationVisitor struct {
	config CorpusConfig
	table  *m.SymbolTable
	module string
	src    []byte
}

func (v *declarationVisitor) visit(node *sitter.Node, ns namespace, _ int) (namespace, bool) {
	switch node.Type() {
	case "internal_module", "module":
		name := unquote(text(field(node, "name"), v.src))
		if name != "" && name != "global" {
			ns = ns.push(name)
		}

		return ns, true

	case "enum_declaration", "type_alias_declaration":
		return ns, false

	case "variable_declarator":
		v.variable(node, ns)
		return ns, false

	case "property_signature":
		return v.property(node, ns)

	case "interface_declaration":
		return v.iface(node, ns), true

	case "method_signature", "function_signature", "function_declaration":
		v.function(node, ns)
		return ns, false

	case "construct_signature":
		v.constructor(node, ns)
		return ns, false

	default:
		return ns, true
	}
}

func (v *declarationVisitor) variable(node *sitter.Node, ns namespace) {
	name := text(field(node, "name"), v.src)

	typ, ok := typeText(field(node, "type"), v.src)
	if name == "" || !ok {
		return
	}

	v.table.Ensure(v.module, ns.path()).Fields[name] = &m.Field{Type: typ}
}

func (v *declarationVisitor) property(node *sitter.Node, ns namespace) (namespace, bool) {
	name := unquote(text(field(node, "name"), v.src))
	annotation := field(node, "type")

	typ, ok := typeText(annotation, v.src)
	if name == "" || !ok {
		return ns, false
	}

	path := ns.path()
	v.table.Ensure(v.module, path).Fields[name] = &m.Field{Type: typ, IsOptional: hasChildOfType(node, "?")}

	sibling := m.JoinPath(ns.parent().path(), typ)
	if _, exists := v.table.Lookup(v.module, sibling); exists {
		v.table.Share(v.module, m.JoinPath(path, name), sibling)
	}

	if inner := annotationValue(annotation); inner != nil && inner.Type() == "object_type" {
		return ns.push(name), true
	}

	return ns, false
}

func (v *declarationVisitor) iface(node *sitter.Node, ns namespace) namespace {
	name := text(field(node, "name"), v.src)
	for _, suffix := range v.config.NameSuffixes {
		name = strings.TrimSuffix(name, suffix)
	}

	ns = ns.push(name)
	path := ns.path()
	v.table.SetOwner(path, v.module)

	for i := 0; i < int(node.NamedChildCount()); i++ {
		clause := node.NamedChild(i)
		if clause == nil || clause.Type() != "extends_type_clause" {
			continue
		}

		for _, super := range namedChildren(clause) {
			varList := v.table.Ensure(v.module, path)

			parent := text(super, v.src)
			if v.config.RootClassMarker != "" && strings.HasPrefix(parent, v.config.RootClassMarker) {
				continue
			}

			varList.Parents = append(varList.Parents, parent)
		}
	}

	return ns
}

func (v *declarationVisitor) function(node *sitter.Node, ns namespace) {
	name := text(field(node, "name"), v.src)

	returnType, ok := typeText(field(node, "return_type"), v.src)
	if name == "" || !ok {
		return
	}

	fn := &m.Function{
		ReturnType: returnType,
		Args:       v.args(field(node, "parameters")),
		RenameTo:   v.renameTag(node),
	}

	v.table.Ensure(v.module, ns.path()).Functions[name] = fn
}

func (v *declarationVisitor) constructor(node *sitter.Node, ns namespace) {
	returnType, ok := typeText(field(node, "type"), v.src)
	if !ok {
		return
	}

	path := m.JoinPath(ns.parent().path(), returnType)
	if v.qualified(returnType) {
		path = returnType
	}

	v.table.Ensure(v.module, path).Functions["init"] = &m.Function{
		ReturnType: returnType,
		Args:       v.args(field(node, "parameters")),
	}
}

func (v *declarationVisitor) args(params *sitter.Node) []m.Arg {
	args := []m.Arg{}

	for _, param := range namedChildren(params) {
		if param.Type() != "required_parameter" && param.Type() != "optional_parameter" {
			continue
		}

		pattern := field(param, "pattern")
		if pattern == nil {
			pattern = param.NamedChild(0)
		}

		name := strings.TrimPrefix(text(pattern, v.src), "...")
		if len(name) == 1 {
			name += "_"
		}

		typ, ok := typeText(field(param, "type"), v.src)
		if !ok {
			typ = m.UnknownType
		}

		args = append(args, m.Arg{
			Name:       name,
			Type:       typ,
			IsOptional: param.Type() == "optional_parameter",
		})
	}

	if len(args) > 0 && args[0].Name == "this" {
		args = args[1:]
	}

	return args
}

func (v *declarationVisitor) renameTag(node *sitter.Node) string {
	for prev := node.PrevSibling(); prev != nil && prev.Type() == "comment"; prev = prev.PrevSibling() {
		comment := text(prev, v.src)
		if strings.HasPrefix(comment, renameTag) {
			return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(comment, renameTag), "*/"))
		}
	}

	return ""
}

func (v *declarationVisitor) qualified(path string) bool {
	for _, root := range v.config.QualifiedRoots {
		if strings.HasPrefix(path, root+".") {
			return true
		}
	}

	return false
}

// annotationValue unwraps a type_annotation to the type it carries.
func annotationValue(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}

	if node.Type() == "type_annotation" {
		return node.NamedChild(0)
	}

	return node
}

func typeText(node *sitter.Node, src []byte) (m.TypeExpression, bool) {
	value := annotationValue(node)
	if value == nil {
		return "", false
	}

	typ := strings.TrimSpace(text(value, src))

	return typ, typ != ""
}
