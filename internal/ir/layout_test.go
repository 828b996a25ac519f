package ir_test

import (
	"testing"

	"github.com/DarkDrek/cretonne/internal/ir"
)

func instOrder(fn *ir.Function, ebb ir.Ebb) []ir.Inst {
	var order []ir.Inst
	for i, ok := fn.Layout.FirstInst(ebb); ok; i, ok = fn.Layout.NextInst(i) {
		order = append(order, i)
	}
	return order
}

func sameOrder(a, b []ir.Inst) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLayout_EntryIsFirstEbb(t *testing.T) {
	fn := ir.NewFunction("entry")
	dfg := fn.Dfg
	a := dfg.MakeEbb()
	b := dfg.MakeEbb()
	fn.Layout.AppendEbb(a)
	fn.Layout.AppendEbb(b)

	entry, ok := fn.Layout.EntryBlock()
	if !ok || entry != a {
		t.Errorf("EntryBlock() = %s (%v), want %s", entry, ok, a)
	}
	next, ok := fn.Layout.NextEbb(a)
	if !ok || next != b {
		t.Errorf("NextEbb(%s) = %s (%v), want %s", a, next, ok, b)
	}
}

func TestCursor_InsertionOrder(t *testing.T) {
	fn := ir.NewFunction("order")
	dfg := fn.Dfg
	ebb := dfg.MakeEbb()
	fn.Layout.AppendEbb(ebb)

	cur := ir.NewCursor(fn.Layout)
	cur.GotoBottom(ebb)
	b := ir.NewBuilder(dfg, cur)
	i1 := dfg.ValueDef(b.Iconst(ir.I32, 1)).Inst
	i2 := dfg.ValueDef(b.Iconst(ir.I32, 2)).Inst
	ret := b.Return(nil)

	// Insert two instructions before ret; they must appear in program
	// order between i2 and ret.
	cur.GotoInst(ret)
	b = ir.NewBuilder(dfg, cur)
	i3 := dfg.ValueDef(b.Iconst(ir.I32, 3)).Inst
	i4 := dfg.ValueDef(b.Iconst(ir.I32, 4)).Inst

	want := []ir.Inst{i1, i2, i3, i4, ret}
	if got := instOrder(fn, ebb); !sameOrder(got, want) {
		t.Errorf("instruction order = %v, want %v", got, want)
	}
}

func TestCursor_TopInsertion(t *testing.T) {
	fn := ir.NewFunction("top")
	dfg := fn.Dfg
	ebb := dfg.MakeEbb()
	fn.Layout.AppendEbb(ebb)

	cur := ir.NewCursor(fn.Layout)
	cur.GotoBottom(ebb)
	b := ir.NewBuilder(dfg, cur)
	first := dfg.ValueDef(b.Iconst(ir.I32, 1)).Inst
	ret := b.Return(nil)

	cur.GotoTop(ebb)
	b = ir.NewBuilder(dfg, cur)
	top := dfg.ValueDef(b.Iconst(ir.I32, 2)).Inst

	want := []ir.Inst{top, first, ret}
	if got := instOrder(fn, ebb); !sameOrder(got, want) {
		t.Errorf("instruction order = %v, want %v", got, want)
	}
}

func TestCursor_PositionSurvivesInsertions(t *testing.T) {
	fn := ir.NewFunction("positions")
	dfg := fn.Dfg
	ebb := dfg.MakeEbb()
	fn.Layout.AppendEbb(ebb)

	cur := ir.NewCursor(fn.Layout)
	cur.GotoBottom(ebb)
	b := ir.NewBuilder(dfg, cur)
	anchor := dfg.ValueDef(b.Iconst(ir.I32, 1)).Inst
	ret := b.Return(nil)

	cur.GotoInst(ret)
	saved := cur.Position()

	// Insert at the top of the block while the position is saved.
	cur.GotoTop(ebb)
	b = ir.NewBuilder(dfg, cur)
	top := dfg.ValueDef(b.Iconst(ir.I32, 2)).Inst

	// Restoring still inserts right before ret.
	cur.SetPosition(saved)
	b = ir.NewBuilder(dfg, cur)
	mid := dfg.ValueDef(b.Iconst(ir.I32, 3)).Inst

	want := []ir.Inst{top, anchor, mid, ret}
	if got := instOrder(fn, ebb); !sameOrder(got, want) {
		t.Errorf("instruction order = %v, want %v", got, want)
	}
}

func TestLayout_RemoveInst(t *testing.T) {
	fn := ir.NewFunction("remove")
	dfg := fn.Dfg
	ebb := dfg.MakeEbb()
	fn.Layout.AppendEbb(ebb)

	cur := ir.NewCursor(fn.Layout)
	cur.GotoBottom(ebb)
	b := ir.NewBuilder(dfg, cur)
	i1 := dfg.ValueDef(b.Iconst(ir.I32, 1)).Inst
	i2 := dfg.ValueDef(b.Iconst(ir.I32, 2)).Inst
	ret := b.Return(nil)

	fn.Layout.RemoveInst(i2)
	want := []ir.Inst{i1, ret}
	if got := instOrder(fn, ebb); !sameOrder(got, want) {
		t.Errorf("after middle removal: %v, want %v", got, want)
	}

	fn.Layout.RemoveInst(i1)
	want = []ir.Inst{ret}
	if got := instOrder(fn, ebb); !sameOrder(got, want) {
		t.Errorf("after head removal: %v, want %v", got, want)
	}
}
