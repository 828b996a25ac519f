package legalizer

import (
	"github.com/DarkDrek/cretonne/internal/flowgraph"
	"github.com/DarkDrek/cretonne/internal/ir"
	"github.com/DarkDrek/cretonne/internal/target"
)

// LegalizeFunction narrows fn until no instruction operates on an integer
// type wider than the target's registers, then simplifies branch arguments
// and sweeps trivially dead instructions.
//
// Narrowing covers the bitwise binary operations (band, bor, bxor): each
// oversized instruction becomes a pair of half-width instructions over split
// operands, with a concat reassembling the original result. Splitting the
// operands may in turn split EBB parameters across the graph.
func LegalizeFunction(fn *ir.Function, cfg *flowgraph.ControlFlowGraph, spec target.Spec) {
	dfg := fn.Dfg
	pos := ir.NewCursor(fn.Layout)

	// Each narrowing round halves the widest offending type, so the round
	// count is bounded by how often a type can be halved.
	for narrowRound(fn, cfg, pos, spec) {
	}

	for e, ok := fn.Layout.FirstEbb(); ok; e, ok = fn.Layout.NextEbb(e) {
		for i, ok := fn.Layout.FirstInst(e); ok; i, ok = fn.Layout.NextInst(i) {
			if dfg.Inst(i).Opcode.IsBranch() {
				SimplifyBranchArguments(dfg, i)
			}
		}
	}

	sweepDeadCode(fn)
}

// narrowRound rewrites every currently placed oversized bitwise instruction
// once. It reports whether it changed anything; newly inserted instructions
// are picked up by the next round.
func narrowRound(fn *ir.Function, cfg *flowgraph.ControlFlowGraph, pos *ir.Cursor, spec target.Spec) bool {
	dfg := fn.Dfg
	changed := false

	// Inserting while walking the lists is fine, but rewritten
	// instructions are unlinked, so collect the round's worklist first.
	var work []ir.Inst
	for e, ok := fn.Layout.FirstEbb(); ok; e, ok = fn.Layout.NextEbb(e) {
		for i, ok := fn.Layout.FirstInst(e); ok; i, ok = fn.Layout.NextInst(i) {
			data := dfg.Inst(i)
			if isNarrowable(data.Opcode) && !spec.IsLegal(data.Ctrl) && data.Ctrl.IsInt() && !data.Ctrl.IsVector() {
				work = append(work, i)
			}
		}
	}

	for _, inst := range work {
		narrowBinary(fn, cfg, pos, inst)
		changed = true
	}
	return changed
}

func isNarrowable(op ir.Opcode) bool {
	switch op {
	case ir.OpBand, ir.OpBor, ir.OpBxor:
		return true
	}
	return false
}

// narrowBinary replaces one oversized bitwise instruction with a half-width
// pair and a concat, then removes it. The original result value survives as
// an alias of the concat.
func narrowBinary(fn *ir.Function, cfg *flowgraph.ControlFlowGraph, pos *ir.Cursor, inst ir.Inst) {
	dfg := fn.Dfg
	data := dfg.Inst(inst)
	op := data.Opcode
	ty := data.Ctrl
	x, y := data.Binary.Args[0], data.Binary.Args[1]
	result := dfg.FirstResult(inst)

	pos.GotoInst(inst)
	xl, xh := Isplit(dfg, cfg, pos, x)
	yl, yh := Isplit(dfg, cfg, pos, y)

	half, ok := ty.HalfWidth()
	if !ok {
		panic("narrowing a type that cannot be halved: " + ty.String())
	}
	b := ir.NewBuilder(dfg, pos)
	_, lo := b.Binary(op, half, xl, yl)
	_, hi := b.Binary(op, half, xh, yh)
	_, whole := b.Binary(ir.OpIconcat, ty, lo, hi)

	dfg.ChangeToAlias(result, whole)
	fn.Layout.RemoveInst(inst)
}

// sweepDeadCode removes pure instructions none of whose results are used.
// The splitting above deliberately leaves unused concat/split chains behind;
// this is the pass that cleans them up.
func sweepDeadCode(fn *ir.Function) {
	dfg := fn.Dfg
	for {
		used := make(map[ir.Value]bool)
		// Uses are counted on resolved values, so a reference to an
		// aliased-away value keeps its replacement's definition alive.
		for e, ok := fn.Layout.FirstEbb(); ok; e, ok = fn.Layout.NextEbb(e) {
			for i, ok := fn.Layout.FirstInst(e); ok; i, ok = fn.Layout.NextInst(i) {
				for _, arg := range dfg.Inst(i).Arguments() {
					used[dfg.ResolveAliases(arg)] = true
				}
			}
		}

		changed := false
		for e, ok := fn.Layout.FirstEbb(); ok; e, ok = fn.Layout.NextEbb(e) {
			i, ok := fn.Layout.FirstInst(e)
			for ok {
				next, nextOK := fn.Layout.NextInst(i)
				if isPure(dfg.Inst(i).Opcode) && !anyUsed(dfg, used, i) {
					fn.Layout.RemoveInst(i)
					changed = true
				}
				i, ok = next, nextOK
			}
		}
		if !changed {
			return
		}
	}
}

func isPure(op ir.Opcode) bool {
	switch op {
	case ir.OpIconst, ir.OpIadd, ir.OpIsub, ir.OpBand, ir.OpBor, ir.OpBxor,
		ir.OpIconcat, ir.OpIsplit, ir.OpVconcat, ir.OpVsplit:
		return true
	}
	return false
}

func anyUsed(dfg *ir.DataFlowGraph, used map[ir.Value]bool, inst ir.Inst) bool {
	for _, res := range dfg.InstResults(inst) {
		if used[dfg.ResolveAliases(res)] {
			return true
		}
	}
	return false
}
