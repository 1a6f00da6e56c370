package model

import "fmt"

// EditOp tags the operation carried by an Edit.
type EditOp int

const (
	// OpInject inserts a type annotation at Pos without consuming text.
	OpInject EditOp = iota + 1
	// OpRename replaces From, which starts at Pos, with To.
	OpRename
)

func (op EditOp) String() string {
	switch op {
	case OpInject:
		return "inject"
	case OpRename:
		return "rename"
	default:
		return fmt.Sprintf("EditOp(%d)", int(op))
	}
}

// Edit is a single change against the compiled program text.
type Edit struct {
	Pos int
	Op  EditOp

	// Inject
	Type       TypeExpression
	IsOptional bool

	// Rename
	From string
	To   string
}

// Inject builds an insertion edit.
func Inject(pos int, typ TypeExpression, optional bool) Edit {
	return Edit{Pos: pos, Op: OpInject, Type: typ, IsOptional: optional}
}

// Rename builds a replacement edit.
func Rename(pos int, from, to string) Edit {
	return Edit{Pos: pos, Op: OpRename, From: from, To: to}
}

// End is the first offset after the text consumed by the edit.
func (e Edit) End() int {
	if e.Op == OpRename {
		return e.Pos + len(e.From)
	}

	return e.Pos
}
