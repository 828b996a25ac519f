package ir

// InstKind enumerates the operand shapes of instructions.
type InstKind uint8

const (
	InstInvalid InstKind = iota
	// InstUnary has one value operand (isplit, vsplit).
	InstUnary
	// InstUnaryImm has one immediate operand (iconst).
	InstUnaryImm
	// InstBinary has exactly two value operands (iconcat, bxor, ...).
	InstBinary
	// InstBranch has a destination EBB and a variable argument list. The
	// list starts with the opcode's fixed operands (the condition for
	// brz/brnz), followed by one argument per destination parameter.
	InstBranch
	// InstMultiAry has a variable number of plain value operands (return).
	InstMultiAry
)

// InstData describes one instruction: an opcode, a controlling type, and
// operands in the shape selected by Kind.
type InstData struct {
	Opcode Opcode
	Kind   InstKind

	// Ctrl is the controlling type the instruction operates on.
	Ctrl Type

	Unary    UnaryData
	UnaryImm UnaryImmData
	Binary   BinaryData
	Branch   BranchData
	MultiAry MultiAryData
}

// UnaryData holds a single value operand.
type UnaryData struct {
	Arg Value
}

// UnaryImmData holds a single immediate operand.
type UnaryImmData struct {
	Imm int64
}

// BinaryData holds exactly two value operands.
type BinaryData struct {
	Args [2]Value
}

// BranchData holds a branch destination and its argument list. Args is nil
// while the list is detached for exclusive mutation.
type BranchData struct {
	Dest Ebb
	Args *ValueList
}

// MultiAryData holds a variable number of value operands.
type MultiAryData struct {
	Args []Value
}

// Arguments returns the instruction's value operands as a slice. Branch
// arguments include the fixed prefix. The slice aliases the instruction's
// storage for Branch and MultiAry shapes.
func (d *InstData) Arguments() []Value {
	switch d.Kind {
	case InstUnary:
		return []Value{d.Unary.Arg}
	case InstBinary:
		return d.Binary.Args[:]
	case InstBranch:
		if d.Branch.Args == nil {
			return nil
		}
		return d.Branch.Args.Slice()
	case InstMultiAry:
		return d.MultiAry.Args
	}
	return nil
}
