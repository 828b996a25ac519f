package ir

import "fmt"

type ebbNode struct {
	prev, next  Ebb
	first, last Inst
	inserted    bool
}

type instNode struct {
	ebb        Ebb
	prev, next Inst
}

// Layout determines the order of EBBs in a function and of instructions
// within each EBB. Both sequences are doubly linked so that references held
// across insertions stay valid.
type Layout struct {
	firstEbb, lastEbb Ebb
	ebbs              []ebbNode
	insts             []instNode
}

// NewLayout returns an empty layout.
func NewLayout() *Layout {
	return &Layout{}
}

func (l *Layout) ebbNode(e Ebb) *ebbNode {
	for int(e) >= len(l.ebbs) {
		l.ebbs = append(l.ebbs, ebbNode{})
	}
	return &l.ebbs[e]
}

func (l *Layout) instNode(i Inst) *instNode {
	for int(i) >= len(l.insts) {
		l.insts = append(l.insts, instNode{})
	}
	return &l.insts[i]
}

// AppendEbb places e at the end of the block order.
func (l *Layout) AppendEbb(e Ebb) {
	n := l.ebbNode(e)
	if n.inserted {
		panic(fmt.Sprintf("%s is already in the layout", e))
	}
	n.inserted = true
	n.prev = l.lastEbb
	n.next = NoEbb
	if l.lastEbb != NoEbb {
		l.ebbNode(l.lastEbb).next = e
	} else {
		l.firstEbb = e
	}
	l.lastEbb = e
}

// EntryBlock returns the function's entry block, the first in block order.
func (l *Layout) EntryBlock() (Ebb, bool) {
	return l.firstEbb, l.firstEbb != NoEbb
}

// FirstEbb returns the first block in layout order.
func (l *Layout) FirstEbb() (Ebb, bool) {
	return l.firstEbb, l.firstEbb != NoEbb
}

// NextEbb returns the block after e in layout order.
func (l *Layout) NextEbb(e Ebb) (Ebb, bool) {
	next := l.ebbNode(e).next
	return next, next != NoEbb
}

// FirstInst returns the first instruction of e.
func (l *Layout) FirstInst(e Ebb) (Inst, bool) {
	first := l.ebbNode(e).first
	return first, first != NoInst
}

// LastInst returns the last instruction of e.
func (l *Layout) LastInst(e Ebb) (Inst, bool) {
	last := l.ebbNode(e).last
	return last, last != NoInst
}

// NextInst returns the instruction after i within its EBB.
func (l *Layout) NextInst(i Inst) (Inst, bool) {
	next := l.instNode(i).next
	return next, next != NoInst
}

// InstEbb returns the EBB containing i, or NoEbb if i is not placed.
func (l *Layout) InstEbb(i Inst) Ebb {
	if int(i) >= len(l.insts) {
		return NoEbb
	}
	return l.insts[i].ebb
}

// AppendInst places i at the end of e.
func (l *Layout) AppendInst(i Inst, e Ebb) {
	en := l.ebbNode(e)
	in := l.instNode(i)
	if in.ebb != NoEbb {
		panic(fmt.Sprintf("%s is already placed", i))
	}
	in.ebb = e
	in.prev = en.last
	in.next = NoInst
	if en.last != NoInst {
		l.instNode(en.last).next = i
	} else {
		en.first = i
	}
	en.last = i
}

// InsertInst places i immediately before the placed instruction before.
func (l *Layout) InsertInst(i, before Inst) {
	bn := l.instNode(before)
	e := bn.ebb
	if e == NoEbb {
		panic(fmt.Sprintf("cannot insert before unplaced %s", before))
	}
	in := l.instNode(i)
	if in.ebb != NoEbb {
		panic(fmt.Sprintf("%s is already placed", i))
	}
	bn = l.instNode(before)
	in.ebb = e
	in.next = before
	in.prev = bn.prev
	if bn.prev != NoInst {
		l.instNode(bn.prev).next = i
	} else {
		l.ebbNode(e).first = i
	}
	bn.prev = i
}

// RemoveInst unlinks i from its EBB. The instruction itself stays in the
// data flow graph and may not be referenced by the layout afterwards.
func (l *Layout) RemoveInst(i Inst) {
	in := l.instNode(i)
	e := in.ebb
	if e == NoEbb {
		panic(fmt.Sprintf("%s is not placed", i))
	}
	en := l.ebbNode(e)
	if in.prev != NoInst {
		l.instNode(in.prev).next = in.next
	} else {
		en.first = in.next
	}
	if in.next != NoInst {
		l.instNode(in.next).prev = in.prev
	} else {
		en.last = in.prev
	}
	*in = instNode{}
}
