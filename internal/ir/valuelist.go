package ir

// ValueList is a growable list of value operands attached to a branch
// instruction. Mutation follows a detach/reattach discipline: callers take
// the list from the instruction, splice it, and put it back before anything
// else may observe the instruction (see DataFlowGraph.TakeValueList).
type ValueList struct {
	vals []Value
}

// NewValueList builds a list from the given values.
func NewValueList(vals ...Value) *ValueList {
	return &ValueList{vals: append([]Value(nil), vals...)}
}

// Len returns the number of values in the list.
func (l *ValueList) Len() int {
	return len(l.vals)
}

// Get returns the value at index i.
func (l *ValueList) Get(i int) (Value, bool) {
	if i < 0 || i >= len(l.vals) {
		return NoValue, false
	}
	return l.vals[i], true
}

// Set overwrites the value at index i, which must be in range.
func (l *ValueList) Set(i int, v Value) {
	l.vals[i] = v
}

// Append adds one value at the end of the list.
func (l *ValueList) Append(v Value) {
	l.vals = append(l.vals, v)
}

// Extend appends n copies of fill at the end of the list.
func (l *ValueList) Extend(n int, fill Value) {
	for i := 0; i < n; i++ {
		l.vals = append(l.vals, fill)
	}
}

// Slice exposes the underlying storage.
func (l *ValueList) Slice() []Value {
	return l.vals
}
