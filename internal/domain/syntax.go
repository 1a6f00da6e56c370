package domain

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// namespace is a dotted path kept as segments. push never modifies the
// receiver, so sibling branches of a walk cannot see each other's segments.
type namespace []string

func (n namespace) push(segment string) namespace {
	out := make(namespace, len(n), len(n)+1)
	copy(out, n)

	return append(out, segment)
}

func (n namespace) path() string {
	return strings.Join(n, ".")
}

// parent drops the last segment.
func (n namespace) parent() namespace {
	if len(n) == 0 {
		return n
	}

	return n[:len(n)-1:len(n)-1]
}

type frame struct {
	node  *sitter.Node
	ns    namespace
	depth int
}

// visitFunc handles one node and returns the namespace its children are
// walked with, and whether to walk them at all.
type visitFunc func(node *sitter.Node, ns namespace, depth int) (namespace, bool)

// walkTree visits root and its descendants in document order without
// recursion.
func walkTree(root *sitter.Node, ns namespace, visit visitFunc) {
	if root == nil {
		return
	}

	stack := []frame{{node: root, ns: ns}}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		childNS, descend := visit(current.node, current.ns, current.depth)
		if !descend {
			continue
		}

		for i := int(current.node.ChildCount()) - 1; i >= 0; i-- {
			child := current.node.Child(i)
			if child == nil {
				continue
			}

			stack = append(stack, frame{node: child, ns: childNS, depth: current.depth + 1})
		}
	}
}

func text(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}

	return node.Content(src)
}

func field(node *sitter.Node, name string) *sitter.Node {
	if node == nil {
		return nil
	}

	return node.ChildByFieldName(name)
}

func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}

	count := int(node.NamedChildCount())
	out := make([]*sitter.Node, 0, count)

	for i := 0; i < count; i++ {
		if child := node.NamedChild(i); child != nil && child.Type() != "comment" {
			out = append(out, child)
		}
	}

	return out
}

func hasChildOfType(node *sitter.Node, typ string) bool {
	if node == nil {
		return false
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child != nil && child.Type() == typ {
			return true
		}
	}

	return false
}

func isFunctionLiteral(node *sitter.Node) bool {
	if node == nil {
		return false
	}

	switch node.Type() {
	case "function_expression", "function", "arrow_function":
		return true
	default:
		return false
	}
}

func unquote(s string) string {
	if len(s) >= 2 {
		switch s[0] {
		case '"', '\'', '`':
			if s[len(s)-1] == s[0] {
				return s[1 : len(s)-1]
			}
		}
	}

	return s
}

// anchorBefore returns the offset a type annotation for the construct starting
// at start is inserted at: right before the whitespace separating it from what
// precedes it, or at start when nothing separates them.
func anchorBefore(src []byte, start int) int {
	if start > 0 && start <= len(src) {
		switch src[start-1] {
		case ' ', '\t', '\n', '\r':
			return start - 1
		}
	}

	return start
}
