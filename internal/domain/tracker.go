package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"retype.dev/pkg/retype/internal/domain/indent"
	m "retype.dev/pkg/retype/internal/model"
)

// AnnotatorConfig describes the module registration convention of the
// compiled program and what the walk produces.
type AnnotatorConfig struct {
	// Declarator is the callee that opens a registration chain, ig.module.
	Declarator string
	// Defines is the method whose function argument holds the module body.
	Defines string
	// RootDepth bounds how deep registrations are searched for.
	RootDepth int
	// GenerateEdits disables edit generation when false; coverage is still
	// collected.
	GenerateEdits bool
}

// DefaultAnnotatorConfig returns the Impact registration convention.
func DefaultAnnotatorConfig() AnnotatorConfig {
	return AnnotatorConfig{
		Declarator:    "ig.module",
		Defines:       "defines",
		RootDepth:     6,
		GenerateEdits: true,
	}
}

// Annotation is the result of walking the compiled program.
type Annotation struct {
	Edits    []m.Edit
	Coverage m.Coverage
	// Modules lists the registered module ids in document order.
	Modules []string
}

// Annotator walks the compiled program and builds the edit queue.
type Annotator struct {
	resolver *Resolver
	config   AnnotatorConfig
	styles   map[string]indent.Style
}

// NewAnnotator constructs an Annotator. styles maps declaration modules to
// their indentation style and may be nil when edits are not generated.
func NewAnnotator(resolver *Resolver, config AnnotatorConfig, styles map[string]indent.Style) *Annotator {
	if config.RootDepth <= 0 {
		config.RootDepth = DefaultAnnotatorConfig().RootDepth
	}

	return &Annotator{resolver: resolver, config: config, styles: styles}
}

type registration struct {
	module string
	body   *sitter.Node
}

// pass holds the state of one walk over one program.
type pass struct {
	*Annotator

	src    []byte
	lines  []string
	style  indent.Style
	module string
	result Annotation
	err    error
}

// Annotate walks root, the syntax tree of src.
func (a *Annotator) Annotate(ctx context.Context, root *sitter.Node, src []byte) (Annotation, error) {
	p := &pass{Annotator: a, src: src, style: indent.FourSpace}

	if a.config.GenerateEdits {
		style, err := indent.DetectText(string(src))
		if err != nil {
			slog.Error("Failed to detect program indentation", "error", err)
			return Annotation{}, fmt.Errorf("compiled program: %w", err)
		}

		p.style = style
		p.lines = strings.Split(string(src), "\n")
	}

	registrations, err := p.registrations(root)
	if err != nil {
		return Annotation{}, err
	}

	for _, reg := range registrations {
		if err := ctx.Err(); err != nil {
			return Annotation{}, err
		}

		p.module = reg.module
		p.result.Modules = append(p.result.Modules, reg.module)

		for _, statement := range namedChildren(reg.body) {
			walkTree(statement, nil, p.visit)
		}

		if p.err != nil {
			return Annotation{}, p.err
		}
	}

	slog.Debug("program walk finished", "modules", len(p.result.Modules), "edits", len(p.result.Edits))

	return p.result, nil
}

// registrations finds the module registration calls near the top of the
// program.
func (p *pass) registrations(root *sitter.Node) ([]registration, error) {
	var found []registration

	walkTree(root, nil, func(node *sitter.Node, ns namespace, depth int) (namespace, bool) {
		if p.err != nil {
			return ns, false
		}

		if node.Type() == "call_expression" && p.isRegistration(node) {
			reg, err := p.registration(node)
			if err != nil {
				p.err = err
				return ns, false
			}

			found = append(found, reg)

			return ns, false
		}

		return ns, depth <= p.config.RootDepth
	})

	if p.err != nil {
		slog.Error("Failed to read module registration", "error", p.err)
		return nil, p.err
	}

	if len(found) == 0 {
		slog.Error("No module registration found", "declarator", p.config.Declarator)
		return nil, fmt.Errorf("%w: no %s(...).%s(...) call", ErrNoRegistration, p.config.Declarator, p.config.Defines)
	}

	return found, nil
}

func (p *pass) isRegistration(call *sitter.Node) bool {
	callee := text(field(call, "function"), p.src)

	return strings.HasPrefix(callee, p.config.Declarator+"(") && strings.Contains(callee, p.config.Defines)
}

func (p *pass) registration(call *sitter.Node) (registration, error) {
	declarator := field(call, "function")

	for declarator != nil {
		if declarator.Type() == "call_expression" && text(field(declarator, "function"), p.src) == p.config.Declarator {
			break
		}

		switch declarator.Type() {
		case "member_expression":
			declarator = field(declarator, "object")
		case "call_expression":
			declarator = field(declarator, "function")
		default:
			declarator = nil
		}
	}

	line := call.StartPoint().Row + 1

	if declarator == nil {
		return registration{}, fmt.Errorf("%w: line %d: no %s call in chain", ErrMalformedRegistration, line, p.config.Declarator)
	}

	idArgs := namedChildren(field(declarator, "arguments"))
	if len(idArgs) == 0 || idArgs[0].Type() != "string" {
		return registration{}, fmt.Errorf("%w: line %d: module id is not a string", ErrMalformedRegistration, line)
	}

	module := unquote(text(idArgs[0], p.src))

	args := namedChildren(field(call, "arguments"))
	if len(args) == 0 || !isFunctionLiteral(args[len(args)-1]) {
		return registration{}, fmt.Errorf("%w: line %d: %s of %q takes no function literal", ErrMalformedRegistration, line, p.config.Defines, module)
	}

	body := field(args[len(args)-1], "body")
	if body == nil || body.Type() != "statement_block" {
		return registration{}, fmt.Errorf("%w: line %d: body of %q is not a block", ErrMalformedRegistration, line, module)
	}

	return registration{module: module, body: body}, nil
}

// visit tracks the namespace path through one module body.
func (p *pass) visit(node *sitter.Node, ns namespace, _ int) (namespace, bool) {
	if p.err != nil {
		return ns, false
	}

	switch node.Type() {
	case "assignment_expression":
		return p.assignment(field(node, "left"), field(node, "right"), ns)

	case "variable_declarator":
		if value := field(node, "value"); value != nil {
			return p.assignment(field(node, "name"), value, ns)
		}

	case "pair", "method_definition", "shorthand_property_identifier":
		if parent := node.Parent(); parent != nil && parent.Type() == "object" {
			return p.member(node, ns)
		}

	case "function_expression", "function", "arrow_function":
		return ns, false
	}

	return ns, true
}

func (p *pass) assignment(left, right *sitter.Node, ns namespace) (namespace, bool) {
	name := text(left, p.src)

	switch Classify(right, p.src) {
	case ShapeClassExtension:
		ns = ns.push(name)

		outcome := m.NoDeclaration
		if _, ok := p.resolver.Scope(p.module, ns.path()); ok {
			outcome = m.Matched
		}

		p.result.Coverage.Record(m.SiteClass, outcome)

		return ns, true

	case ShapeNamespaceObject:
		ns = ns.push(name)

		summary, collapsed := p.resolver.CollapseEnum(p.module, ns.path(), nil, "")
		if collapsed && p.config.GenerateEdits {
			p.emit(m.Inject(anchorBefore(p.src, int(right.StartByte())), summary, false))
		}

		return ns, true

	case ShapeFunction:
		p.function(m.ParentPath(name), name[strings.LastIndex(name, ".")+1:], right)
		return ns, false

	default:
		return ns, true
	}
}

func (p *pass) emit(edit m.Edit) {
	p.result.Edits = append(p.result.Edits, edit)
}

func (p *pass) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}
