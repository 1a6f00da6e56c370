package domain

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	m "retype.dev/pkg/retype/internal/model"
)

// SortEdits returns the edits ordered by position. Edits at the same position
// keep their discovery order.
func SortEdits(edits []m.Edit) []m.Edit {
	sorted := append([]m.Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pos < sorted[j].Pos
	})

	return sorted
}

// ValidateQueue checks an ordered queue against src: every operation is
// known, every rename replaces the text it expects, and no edit starts inside
// the span a previous rename consumes.
func ValidateQueue(src []byte, edits []m.Edit) error {
	cursor := 0

	for i, edit := range edits {
		if edit.Pos < 0 || edit.End() > len(src) {
			return fmt.Errorf("%w: edit %d (%s) at %d is outside the source", ErrEditMismatch, i, edit.Op, edit.Pos)
		}

		switch edit.Op {
		case m.OpInject:
		case m.OpRename:
			if current := string(src[edit.Pos:edit.End()]); current != edit.From {
				return fmt.Errorf("%w: at %d expected %q, found %q", ErrEditMismatch, edit.Pos, edit.From, current)
			}
		default:
			return fmt.Errorf("%w: %s at %d", ErrUnknownEdit, edit.Op, edit.Pos)
		}

		if edit.Pos < cursor {
			return fmt.Errorf("%w: %s at %d starts inside a rename ending at %d", ErrEditOverlap, edit.Op, edit.Pos, cursor)
		}

		cursor = max(cursor, edit.End())
	}

	return nil
}

// Apply splices the edits into src in one pass.
func Apply(src []byte, edits []m.Edit) ([]byte, error) {
	queue := SortEdits(edits)
	if err := ValidateQueue(src, queue); err != nil {
		return nil, err
	}

	var out bytes.Buffer

	out.Grow(len(src) + 16*len(queue))

	cursor := 0

	for _, edit := range queue {
		out.Write(src[cursor:edit.Pos])
		cursor = edit.Pos

		switch edit.Op {
		case m.OpInject:
			out.WriteString(FormatAnnotation(edit.Type, edit.IsOptional))
		case m.OpRename:
			out.WriteString(edit.To)
			cursor += len(edit.From)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownEdit, edit.Op)
		}
	}

	out.Write(src[cursor:])

	return out.Bytes(), nil
}

// FormatAnnotation renders an injected type as a block comment. A comment
// terminator inside the type text is escaped so the annotation stays one
// comment.
func FormatAnnotation(typ m.TypeExpression, optional bool) string {
	marker := ""
	if optional {
		marker = "?"
	}

	return "/*" + marker + ": " + strings.ReplaceAll(typ, "*/", `*\/`) + "*/"
}
