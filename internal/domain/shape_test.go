package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Shape
	}{
		{"class extension", "x = ig.Entity.extend({});", ShapeClassExtension},
		{"namespace object", "x = { A: 1 };", ShapeNamespaceObject},
		{"function expression", "x = function(a) {};", ShapeFunction},
		{"arrow function", "x = (a) => a;", ShapeFunction},
		{"plain call", "x = make({});", ShapeOther},
		{"number", "x = 5;", ShapeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parseProgram(t, tt.src)

			assignment := findFirst(tree.RootNode(), "assignment_expression")
			require.NotNil(t, assignment)

			assert.Equal(t, tt.want, Classify(field(assignment, "right"), []byte(tt.src)))
		})
	}

	assert.Equal(t, ShapeOther, Classify(nil, nil))
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "class-extension", ShapeClassExtension.String())
	assert.Equal(t, "namespace-object", ShapeNamespaceObject.String())
	assert.Equal(t, "function", ShapeFunction.String())
	assert.Equal(t, "other", ShapeOther.String())
}
