package ir

import "fmt"

// Value is a reference to an SSA value in a function's data flow graph.
// Values are created by instructions (as results) or by EBB parameter lists.
type Value uint32

// NoValue marks the absence of a value.
const NoValue Value = 0

func (v Value) String() string {
	if v == NoValue {
		return "v?"
	}
	return fmt.Sprintf("v%d", uint32(v))
}

// Inst is a reference to an instruction in a function's data flow graph.
type Inst uint32

// NoInst marks the absence of an instruction.
const NoInst Inst = 0

func (i Inst) String() string {
	if i == NoInst {
		return "inst?"
	}
	return fmt.Sprintf("inst%d", uint32(i))
}

// Ebb is a reference to an extended basic block.
type Ebb uint32

// NoEbb marks the absence of a block.
const NoEbb Ebb = 0

func (e Ebb) String() string {
	if e == NoEbb {
		return "ebb?"
	}
	return fmt.Sprintf("ebb%d", uint32(e))
}
