package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "retype.dev/pkg/retype/internal/model"
)

func TestSortEdits_StableAtSamePosition(t *testing.T) {
	edits := []m.Edit{
		m.Inject(5, "B", false),
		m.Rename(1, "x", "hp"),
		m.Inject(5, "A", false),
	}

	sorted := SortEdits(edits)

	assert.Equal(t, []m.Edit{
		m.Rename(1, "x", "hp"),
		m.Inject(5, "B", false),
		m.Inject(5, "A", false),
	}, sorted)
	assert.Equal(t, m.Inject(5, "B", false), edits[0], "input is left untouched")
}

func TestApply(t *testing.T) {
	src := []byte("function(x) { return x; }")

	out, err := Apply(src, []m.Edit{
		m.Rename(21, "x", "hp"),
		m.Inject(10, "number", false),
		m.Rename(9, "x", "hp"),
		m.Inject(11, "A", false),
	})
	require.NoError(t, err)
	assert.Equal(t, "function(hp/*: number*/)/*: A*/ { return hp; }", string(out))
}

func TestApply_Empty(t *testing.T) {
	out, err := Apply([]byte("a = 1;"), nil)
	require.NoError(t, err)
	assert.Equal(t, "a = 1;", string(out))
}

func TestValidateQueue(t *testing.T) {
	src := []byte("abcdef")

	tests := []struct {
		name    string
		edits   []m.Edit
		wantErr error
	}{
		{"valid", []m.Edit{m.Rename(0, "ab", "x"), m.Inject(2, "T", false)}, nil},
		{"rename text differs", []m.Edit{m.Rename(0, "zz", "x")}, ErrEditMismatch},
		{"rename past end", []m.Edit{m.Rename(5, "fg", "x")}, ErrEditMismatch},
		{"negative position", []m.Edit{m.Inject(-1, "T", false)}, ErrEditMismatch},
		{"inject inside rename", []m.Edit{m.Rename(0, "abc", "x"), m.Inject(1, "T", false)}, ErrEditOverlap},
		{"overlapping renames", []m.Edit{m.Rename(0, "abc", "x"), m.Rename(2, "cd", "y")}, ErrEditOverlap},
		{"unknown operation", []m.Edit{{Pos: 0, Op: m.EditOp(9)}}, ErrUnknownEdit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQueue(src, tt.edits)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApply_RejectsInvalidQueue(t *testing.T) {
	_, err := Apply([]byte("abc"), []m.Edit{m.Rename(0, "b", "x")})
	require.ErrorIs(t, err, ErrEditMismatch)
}

func TestFormatAnnotation(t *testing.T) {
	assert.Equal(t, "/*: number*/", FormatAnnotation("number", false))
	assert.Equal(t, "/*?: string*/", FormatAnnotation("string", true))
	assert.Equal(t, `/*: { a: "*\/" }*/`, FormatAnnotation(`{ a: "*/" }`, false))
}
