// Package legalizer rewrites functions until they only use operations and
// types the target supports natively.
//
// Value splitting is the core mechanism: a value wider than the target's
// registers is decomposed into a low and a high half with the isplit/iconcat
// instruction pair (vsplit/vconcat for vectors). Splitting an EBB parameter
// forces every predecessor branch to pass split arguments too, which can
// cascade through the whole control flow graph; those fixups run on an
// explicit worklist rather than native recursion.
//
// Floating point values are never split here. An earlier lowering stage
// bit-casts oversized floats to integers before this pass runs.
package legalizer

import (
	"fmt"

	"github.com/DarkDrek/cretonne/internal/flowgraph"
	"github.com/DarkDrek/cretonne/internal/ir"
)

// Isplit splits value into two integer halves, reusing existing values where
// possible. New instructions are inserted at pos; the cursor position is
// restored before returning.
func Isplit(dfg *ir.DataFlowGraph, cfg *flowgraph.ControlFlowGraph, pos *ir.Cursor, value ir.Value) (ir.Value, ir.Value) {
	return splitAny(dfg, cfg, pos, value, iconcat)
}

// Vsplit splits value into two vector halves, reusing existing values where
// possible.
func Vsplit(dfg *ir.DataFlowGraph, cfg *flowgraph.ControlFlowGraph, pos *ir.Cursor, value ir.Value) (ir.Value, ir.Value) {
	return splitAny(dfg, cfg, pos, value, vconcat)
}

// concatPair describes one concat/split opcode pair. The pair is resolved
// once per top-level call and threaded through all the splitting below.
type concatPair struct {
	concat ir.Opcode
	halve  func(ir.Type) (ir.Type, bool)
}

var (
	iconcat = concatPair{concat: ir.OpIconcat, halve: ir.Type.HalfWidth}
	vconcat = concatPair{concat: ir.OpVconcat, halve: ir.Type.HalfVector}
)

// repair records that a block's parameter at index num was replaced by its
// low half and a new parameter for the high half was appended at index
// hiNum. Every predecessor branch into ebb must be revisited.
//
// Splitting a parameter of a predecessor's argument can schedule further
// repairs, so the pending repairs form a stack instead of a call chain. That
// keeps memory bounded for deep or cyclic graphs.
type repair struct {
	pair      concatPair
	splitType ir.Type
	ebb       ir.Ebb
	num       int
	hiNum     int
}

// splitAny is the generic form of Isplit and Vsplit. It splits the requested
// value and then drains the repair worklist, so the graph is consistent
// again when it returns: every branch passes one argument per destination
// parameter.
func splitAny(dfg *ir.DataFlowGraph, cfg *flowgraph.ControlFlowGraph, pos *ir.Cursor, value ir.Value, pair concatPair) (ir.Value, ir.Value) {
	saved := pos.Position()
	var repairs []repair
	lo, hi := splitValue(dfg, pos, value, pair, &repairs)

	for len(repairs) > 0 {
		r := repairs[len(repairs)-1]
		repairs = repairs[:len(repairs)-1]

		for _, pred := range cfg.Predecessors(r.ebb) {
			inst := pred.Inst
			opc := dfg.Inst(inst).Opcode
			if !opc.IsBranch() {
				panic(fmt.Sprintf("predecessor not a branch: %s", dfg.DisplayInst(inst)))
			}
			fixed := opc.FixedValueArguments()

			// The argument list is detached while we splice it, so a
			// nested split can never observe it half mutated.
			args := dfg.TakeValueList(inst)
			numArgs := args.Len()
			oldArg, ok := args.Get(fixed + r.num)
			if !ok {
				panic(fmt.Sprintf("too few branch arguments: %s", dfg.DisplayInst(inst)))
			}

			// The predecessor list can contain duplicate edges. If the
			// argument already has the split type, an equal repair got
			// here first.
			if dfg.ValueType(oldArg) == r.splitType {
				dfg.PutValueList(inst, args)
				continue
			}

			// Split the old argument, possibly scheduling more repairs.
			pos.GotoInst(inst)
			lo, hi := splitValue(dfg, pos, oldArg, r.pair, &repairs)

			// The low half replaces the original argument.
			args.Set(fixed+r.num, lo)

			// The high half goes at hiNum. Several repairs can be pending
			// against the same block, so the list may already be long
			// enough, or may be missing more than one argument. Padding
			// positions belong to other pending repairs and will be
			// overwritten when they run.
			if numArgs > fixed+r.hiNum {
				args.Set(fixed+r.hiNum, hi)
			} else {
				args.Extend(1+fixed+r.hiNum-numArgs, hi)
			}

			dfg.PutValueList(inst, args)
		}
	}

	pos.SetPosition(saved)
	return lo, hi
}

// splitValue splits a single value using the semantics selected by pair.
//
// If the value is defined by the matching concat instruction, its two
// operands are reused directly and nothing is inserted. If it is a parameter
// of a non-entry block, the parameter itself is split and repairs are
// scheduled for the predecessors. Otherwise an explicit split instruction is
// inserted at pos.
func splitValue(dfg *ir.DataFlowGraph, pos *ir.Cursor, value ir.Value, pair concatPair, repairs *[]repair) (ir.Value, ir.Value) {
	value = dfg.ResolveAliases(value)
	var reuse [2]ir.Value
	haveReuse := false

	switch def := dfg.ValueDef(value); def.Kind {
	case ir.ValueDefResult:
		// An instruction result. Reuse the operands of the concat that
		// created it, if there is one.
		data := dfg.Inst(def.Inst)
		if data.Kind == ir.InstBinary {
			if def.Num != 0 {
				panic(fmt.Sprintf("unexpected result %d of binary instruction: %s", def.Num, dfg.DisplayInst(def.Inst)))
			}
			if data.Opcode == pair.concat {
				reuse = data.Binary.Args
				haveReuse = true
			}
		}
	case ir.ValueDefParam:
		// An EBB parameter. It can be split unless it belongs to the entry
		// block, which has no predecessors to repair.
		entry, hasEntry := pos.Layout().EntryBlock()
		if !hasEntry || entry != def.Ebb {
			ebb, num := def.Ebb, def.Num
			ty := dfg.ValueType(value)
			splitType, ok := pair.halve(ty)
			if !ok {
				panic(fmt.Sprintf("cannot split type %s of %s", ty, value))
			}

			// Pending repairs may hold other parameter indexes for this
			// block, so slots are never shifted or renumbered: the low
			// half takes over the existing slot and the high half is
			// appended at the end.
			lo := dfg.ReplaceEbbParam(value, splitType)
			hiNum := dfg.NumEbbParams(ebb)
			hi := dfg.AppendEbbParam(ebb, splitType)
			reuse = [2]ir.Value{lo, hi}
			haveReuse = true

			// The original value is dangling now. Anchor it to a concat
			// of the two new parameters at the top of the block. That
			// keeps every captured reference to it correct, and a future
			// split of the same value hits the reuse path above instead
			// of redoing the work.
			pos.GotoTop(ebb)
			b := ir.NewBuilder(dfg, pos)
			_, concatVal := b.Binary(pair.concat, ty, lo, hi)
			dfg.ChangeToAlias(value, concatVal)

			// Splitting the parameter is not enough. Every predecessor
			// branching here has to pass split arguments too.
			*repairs = append(*repairs, repair{pair: pair, splitType: splitType, ebb: ebb, num: num, hiNum: hiNum})
		}
	}

	if haveReuse {
		return reuse[0], reuse[1]
	}

	// Nothing to reuse. Insert the requested split instruction at pos,
	// which has not moved unless reuse was found above.
	b := ir.NewBuilder(dfg, pos)
	switch pair.concat {
	case ir.OpIconcat:
		return b.Isplit(value)
	case ir.OpVconcat:
		return b.Vsplit(value)
	default:
		panic(fmt.Sprintf("unhandled concat opcode: %s", pair.concat))
	}
}

// resolveSplits returns a simpler way of computing value: the result of a
// split whose operand comes from the matching concat resolves to the
// corresponding concat operand.
func resolveSplits(dfg *ir.DataFlowGraph, value ir.Value) ir.Value {
	value = dfg.ResolveAliases(value)

	def := dfg.ValueDef(value)
	if def.Kind != ir.ValueDefResult {
		return value
	}
	data := dfg.Inst(def.Inst)
	concatOpc, ok := ir.ConcatFor(data.Opcode)
	if !ok {
		return value
	}
	splitRes := def.Num
	splitArg := dfg.ResolveAliases(data.Unary.Arg)

	if argDef := dfg.ValueDef(splitArg); argDef.Kind == ir.ValueDefResult {
		argData := dfg.Inst(argDef.Inst)
		if argData.Opcode == concatOpc {
			return argData.Binary.Args[splitRes]
		}
	}
	return value
}

// SimplifyBranchArguments rewrites the arguments of branch in place,
// stripping concat-split chains.
//
// The repairs performed by splitAny can run on branches whose argument
// definitions have not been legalized yet, so those arguments may still be
// defined by actual split instructions. Once the defining instructions have
// been legalized, the split's operand usually comes straight from a concat
// and the split can be bypassed.
func SimplifyBranchArguments(dfg *ir.DataFlowGraph, branch ir.Inst) {
	args := dfg.TakeValueList(branch)
	for i := 0; i < args.Len(); i++ {
		arg, _ := args.Get(i)
		args.Set(i, resolveSplits(dfg, arg))
	}
	dfg.PutValueList(branch, args)
}
