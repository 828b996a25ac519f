package ir

import "fmt"

// Builder creates instructions in a data flow graph and places them at a
// cursor's insertion point.
type Builder struct {
	dfg *DataFlowGraph
	cur *Cursor
}

// NewBuilder returns a builder inserting at cur.
func NewBuilder(dfg *DataFlowGraph, cur *Cursor) *Builder {
	return &Builder{dfg: dfg, cur: cur}
}

func (b *Builder) insert(data InstData) Inst {
	inst := b.dfg.MakeInst(data)
	b.cur.InsertInst(inst)
	return inst
}

// Unary inserts a one-operand instruction with a single result of type ty.
func (b *Builder) Unary(op Opcode, ty Type, arg Value) (Inst, Value) {
	inst := b.insert(InstData{Opcode: op, Kind: InstUnary, Ctrl: ty, Unary: UnaryData{Arg: arg}})
	return inst, b.dfg.AppendResult(inst, ty)
}

// Binary inserts a two-operand instruction with a single result of type ty.
func (b *Builder) Binary(op Opcode, ty Type, x, y Value) (Inst, Value) {
	inst := b.insert(InstData{Opcode: op, Kind: InstBinary, Ctrl: ty, Binary: BinaryData{Args: [2]Value{x, y}}})
	return inst, b.dfg.AppendResult(inst, ty)
}

// Iconst inserts an integer constant of type ty.
func (b *Builder) Iconst(ty Type, imm int64) Value {
	inst := b.insert(InstData{Opcode: OpIconst, Kind: InstUnaryImm, Ctrl: ty, UnaryImm: UnaryImmData{Imm: imm}})
	return b.dfg.AppendResult(inst, ty)
}

// Isplit inserts an isplit of x and returns its low and high results. The
// type of x must support halving.
func (b *Builder) Isplit(x Value) (Value, Value) {
	return b.split(OpIsplit, x)
}

// Vsplit inserts a vsplit of x and returns its low and high halves.
func (b *Builder) Vsplit(x Value) (Value, Value) {
	return b.split(OpVsplit, x)
}

func (b *Builder) split(op Opcode, x Value) (Value, Value) {
	ty := b.dfg.ValueType(x)
	var half Type
	var ok bool
	switch op {
	case OpIsplit:
		half, ok = ty.HalfWidth()
	case OpVsplit:
		half, ok = ty.HalfVector()
	}
	if !ok {
		panic(fmt.Sprintf("invalid type %s for %s", ty, op))
	}
	inst := b.insert(InstData{Opcode: op, Kind: InstUnary, Ctrl: ty, Unary: UnaryData{Arg: x}})
	lo := b.dfg.AppendResult(inst, half)
	hi := b.dfg.AppendResult(inst, half)
	return lo, hi
}

// Jump inserts an unconditional branch to dest passing args to its
// parameters.
func (b *Builder) Jump(dest Ebb, args []Value) Inst {
	return b.insert(InstData{
		Opcode: OpJump,
		Kind:   InstBranch,
		Branch: BranchData{Dest: dest, Args: NewValueList(args...)},
	})
}

// Branch inserts a conditional branch (brz or brnz) on cond to dest passing
// args to its parameters.
func (b *Builder) Branch(op Opcode, cond Value, dest Ebb, args []Value) Inst {
	if op.FixedValueArguments() != 1 {
		panic(fmt.Sprintf("%s is not a conditional branch", op))
	}
	list := NewValueList(cond)
	for _, a := range args {
		list.Append(a)
	}
	return b.insert(InstData{
		Opcode: op,
		Kind:   InstBranch,
		Ctrl:   b.dfg.ValueType(cond),
		Branch: BranchData{Dest: dest, Args: list},
	})
}

// Return inserts a return passing args back to the caller.
func (b *Builder) Return(args []Value) Inst {
	return b.insert(InstData{
		Opcode:   OpReturn,
		Kind:     InstMultiAry,
		MultiAry: MultiAryData{Args: append([]Value(nil), args...)},
	})
}
