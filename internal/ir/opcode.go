package ir

import "fmt"

// Opcode enumerates instruction operations.
type Opcode uint8

const (
	OpInvalid Opcode = iota
	// OpJump transfers control to another EBB unconditionally.
	OpJump
	// OpBrz branches if its condition is zero.
	OpBrz
	// OpBrnz branches if its condition is non-zero.
	OpBrnz
	// OpIconst materializes an integer constant.
	OpIconst
	// OpIadd adds two integers.
	OpIadd
	// OpIsub subtracts two integers.
	OpIsub
	// OpBand computes a bitwise and.
	OpBand
	// OpBor computes a bitwise or.
	OpBor
	// OpBxor computes a bitwise xor.
	OpBxor
	// OpIconcat concatenates two integers into one twice as wide. The first
	// operand is the low half.
	OpIconcat
	// OpIsplit splits an integer into low and high halves.
	OpIsplit
	// OpVconcat concatenates two vectors into one with twice the lanes.
	OpVconcat
	// OpVsplit splits a vector into low and high halves.
	OpVsplit
	// OpReturn returns from the function.
	OpReturn
)

var opcodeNames = [...]string{
	OpInvalid: "invalid",
	OpJump:    "jump",
	OpBrz:     "brz",
	OpBrnz:    "brnz",
	OpIconst:  "iconst",
	OpIadd:    "iadd",
	OpIsub:    "isub",
	OpBand:    "band",
	OpBor:     "bor",
	OpBxor:    "bxor",
	OpIconcat: "iconcat",
	OpIsplit:  "isplit",
	OpVconcat: "vconcat",
	OpVsplit:  "vsplit",
	OpReturn:  "return",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) && opcodeNames[o] != "" {
		return opcodeNames[o]
	}
	return fmt.Sprintf("Opcode(%d)", o)
}

// OpcodeByName resolves a textual opcode name.
func OpcodeByName(name string) (Opcode, bool) {
	for op, n := range opcodeNames {
		if n == name && Opcode(op) != OpInvalid {
			return Opcode(op), true
		}
	}
	return OpInvalid, false
}

// IsBranch reports whether o transfers control to a destination EBB and
// carries a variable argument list bound to that EBB's parameters.
func (o Opcode) IsBranch() bool {
	switch o {
	case OpJump, OpBrz, OpBrnz:
		return true
	}
	return false
}

// IsTerminator reports whether o ends its EBB.
func (o Opcode) IsTerminator() bool {
	switch o {
	case OpJump, OpReturn:
		return true
	}
	return false
}

// FixedValueArguments returns the number of value operands at the front of a
// branch's argument list that are not passed to the destination's parameters.
func (o Opcode) FixedValueArguments() int {
	switch o {
	case OpBrz, OpBrnz:
		return 1
	}
	return 0
}

// SplitFor returns the split opcode matching a concat opcode. The
// association is closed: only the two concat/split pairs participate.
func SplitFor(concat Opcode) (Opcode, bool) {
	switch concat {
	case OpIconcat:
		return OpIsplit, true
	case OpVconcat:
		return OpVsplit, true
	}
	return OpInvalid, false
}

// ConcatFor returns the concat opcode matching a split opcode.
func ConcatFor(split Opcode) (Opcode, bool) {
	switch split {
	case OpIsplit:
		return OpIconcat, true
	case OpVsplit:
		return OpVconcat, true
	}
	return OpInvalid, false
}
