package domain

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Shape classifies the right-hand side of an assignment in the compiled
// program.
type Shape int

const (
	// ShapeOther is anything the namespace walk does not treat specially.
	ShapeOther Shape = iota
	// ShapeClassExtension is a call of an extend method, X.extend({...}).
	ShapeClassExtension
	// ShapeNamespaceObject is a braced object literal that opens a namespace.
	ShapeNamespaceObject
	// ShapeFunction is a function or arrow-function literal.
	ShapeFunction
)

func (s Shape) String() string {
	switch s {
	case ShapeClassExtension:
		return "class-extension"
	case ShapeNamespaceObject:
		return "namespace-object"
	case ShapeFunction:
		return "function"
	default:
		return "other"
	}
}

// Classify returns the shape of rhs.
func Classify(rhs *sitter.Node, src []byte) Shape {
	if rhs == nil {
		return ShapeOther
	}

	switch rhs.Type() {
	case "call_expression":
		if strings.Contains(text(field(rhs, "function"), src), "extend") {
			return ShapeClassExtension
		}
	case "object":
		return ShapeNamespaceObject
	case "function_expression", "function", "arrow_function":
		return ShapeFunction
	}

	return ShapeOther
}
