package domain

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"retype.dev/pkg/retype/internal/domain/indent"
	m "retype.dev/pkg/retype/internal/model"
)

const constructorName = "init"

// member handles one entry of an object literal.
func (p *pass) member(node *sitter.Node, ns namespace) (namespace, bool) {
	var (
		name    string
		value   *sitter.Node
		nameEnd int
	)

	switch node.Type() {
	case "pair":
		key := field(node, "key")
		name = unquote(text(key, p.src))
		value = field(node, "value")
		nameEnd = int(key.EndByte())
	case "method_definition":
		name = text(field(node, "name"), p.src)
		value = node
	default:
		name = text(node, p.src)
		nameEnd = int(node.EndByte())
	}

	path := ns.path()

	if node.Type() == "method_definition" || isFunctionLiteral(value) {
		p.function(path, name, value)
		return ns, false
	}

	underClass := isUnderClass(node, p.src)

	if _, ok := p.resolver.Scope(p.module, path); !ok {
		if underClass {
			p.result.Coverage.Record(m.SiteField, m.NoDeclaration)
		}

		return ns, true
	}

	isObject := value != nil && value.Type() == "object"

	childNS := ns
	if isObject {
		childNS = ns.push(name)
	}

	res, err := p.resolver.Resolve(p.module, path, MemberField, name)
	if err != nil {
		p.fail(err)
		return ns, false
	}

	if underClass {
		outcome := m.NoDeclaration
		if res.Found() && res.Field.Type != m.UnknownType {
			outcome = m.Matched
		}

		p.result.Coverage.Record(m.SiteField, outcome)
	}

	if !res.Found() {
		return childNS, true
	}

	typ := res.Field.Type

	if isObject {
		if summary, ok := p.resolver.CollapseEnum(p.module, m.JoinPath(path, name), &res, name); ok {
			typ = summary
		}
	}

	if p.config.GenerateEdits && (!isObject || !strings.Contains(typ, "{")) {
		p.emit(m.Inject(nameEnd, p.reindent(res.Module, typ, node), res.Field.IsOptional))
	}

	return childNS, true
}

// function matches a function literal or method against the declaration of
// name in the namespace at path.
func (p *pass) function(path, name string, fn *sitter.Node) {
	if _, ok := p.resolver.Scope(p.module, path); !ok {
		p.result.Coverage.Record(m.SiteFunction, m.NoDeclaration)
		return
	}

	res, err := p.resolver.Resolve(p.module, path, MemberFunction, name)
	if err != nil {
		p.fail(err)
		return
	}

	if !res.Found() {
		p.result.Coverage.Record(m.SiteFunction, m.NoDeclaration)
		return
	}

	params := parameters(fn)
	args := res.Function.Args

	if name == constructorName && len(params) != len(args) {
		p.result.Coverage.Record(m.SiteFunction, m.Skipped)
		return
	}

	p.result.Coverage.Record(m.SiteFunction, m.Matched)

	if !p.config.GenerateEdits {
		return
	}

	renames := map[string]string{}

	for i := 0; i < min(len(params), len(args)); i++ {
		if ident := paramIdentifier(params[i]); ident != nil {
			from := text(ident, p.src)
			renames[from] = args[i].Name

			if from != args[i].Name {
				p.emit(m.Rename(int(ident.StartByte()), from, args[i].Name))
			}
		}

		p.emit(m.Inject(int(params[i].EndByte()), args[i].Type, args[i].IsOptional))
	}

	body := field(fn, "body")
	if body == nil {
		return
	}

	p.emit(m.Inject(anchorBefore(p.src, int(body.StartByte())), res.Function.ReturnType, false))
	p.propagate(body, renames)
}

// propagate renames every reference to a renamed parameter inside body.
// Property names are a different node type from references, so x in obj.x is
// never touched.
func (p *pass) propagate(body *sitter.Node, renames map[string]string) {
	if len(renames) == 0 {
		return
	}

	walkTree(body, nil, func(node *sitter.Node, ns namespace, _ int) (namespace, bool) {
		switch node.Type() {
		case "identifier":
			from := text(node, p.src)
			if to, ok := renames[from]; ok && to != from {
				p.emit(m.Rename(int(node.StartByte()), from, to))
			}

		case "shorthand_property_identifier":
			from := text(node, p.src)
			if to, ok := renames[from]; ok && to != from {
				p.emit(m.Rename(int(node.StartByte()), from, from+": "+to))
			}
		}

		return ns, true
	})
}

// reindent moves multi-line type text from the indentation style of the
// declaring module to the program's, anchored at node's line.
func (p *pass) reindent(module string, typ m.TypeExpression, node *sitter.Node) m.TypeExpression {
	if !strings.Contains(typ, "\n") {
		return typ
	}

	from, ok := p.styles[module]
	if !ok {
		from = indent.FourSpace
	}

	base := 0
	if row := int(node.StartPoint().Row); row < len(p.lines) {
		base = indent.Level(p.style, p.lines[row])
	}

	return indent.Reindent(typ, from, p.style, base)
}

// isUnderClass reports whether an object literal entry sits directly in the
// object passed to an extend call.
func isUnderClass(node *sitter.Node, src []byte) bool {
	object := node.Parent()
	if object == nil || object.Type() != "object" {
		return false
	}

	args := object.Parent()
	if args == nil || args.Type() != "arguments" {
		return false
	}

	call := args.Parent()
	if call == nil || call.Type() != "call_expression" {
		return false
	}

	return strings.Contains(text(field(call, "function"), src), "extend")
}

func parameters(fn *sitter.Node) []*sitter.Node {
	if single := field(fn, "parameter"); single != nil {
		return []*sitter.Node{single}
	}

	return namedChildren(field(fn, "parameters"))
}

// paramIdentifier returns the identifier a parameter binds, or nil for
// destructuring patterns.
func paramIdentifier(param *sitter.Node) *sitter.Node {
	switch param.Type() {
	case "identifier":
		return param
	case "assignment_pattern":
		if left := field(param, "left"); left != nil && left.Type() == "identifier" {
			return left
		}
	case "rest_pattern":
		if inner := param.NamedChild(0); inner != nil && inner.Type() == "identifier" {
			return inner
		}
	}

	return nil
}
