// Package flowgraph indexes the control flow of a function: for every EBB,
// the branch instructions that can transfer control to it.
package flowgraph

import "github.com/DarkDrek/cretonne/internal/ir"

// PredEdge is one control flow edge into a block: the predecessor block and
// the branch instruction inside it. A block branching twice to the same
// destination contributes two edges.
type PredEdge struct {
	Ebb  ir.Ebb
	Inst ir.Inst
}

// ControlFlowGraph holds the predecessor index of one function.
type ControlFlowGraph struct {
	preds map[ir.Ebb][]PredEdge
}

// Compute builds the predecessor index for fn in layout order.
func Compute(fn *ir.Function) *ControlFlowGraph {
	cfg := &ControlFlowGraph{}
	cfg.Recompute(fn)
	return cfg
}

// Recompute rebuilds the index after structural edits to fn.
func (c *ControlFlowGraph) Recompute(fn *ir.Function) {
	c.preds = make(map[ir.Ebb][]PredEdge)
	for e, ok := fn.Layout.FirstEbb(); ok; e, ok = fn.Layout.NextEbb(e) {
		for i, ok := fn.Layout.FirstInst(e); ok; i, ok = fn.Layout.NextInst(i) {
			data := fn.Dfg.Inst(i)
			if data.Opcode.IsBranch() {
				dest := data.Branch.Dest
				c.preds[dest] = append(c.preds[dest], PredEdge{Ebb: e, Inst: i})
			}
		}
	}
}

// Predecessors returns the edges into ebb. A block with several branches to
// ebb contributes one edge per branch. Callers must not mutate the list.
func (c *ControlFlowGraph) Predecessors(ebb ir.Ebb) []PredEdge {
	return c.preds[ebb]
}
