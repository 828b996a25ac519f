package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// ValueDefKind classifies where a value comes from.
type ValueDefKind uint8

const (
	ValueDefInvalid ValueDefKind = iota
	// ValueDefResult marks a value defined as an instruction result.
	ValueDefResult
	// ValueDefParam marks a value defined as an EBB parameter.
	ValueDefParam
	// valueDefAlias marks a value forwarded to another value. Aliases are
	// invisible outside the graph: lookups resolve them first.
	valueDefAlias
)

// ValueDef describes a value's origin: the result number Num of instruction
// Inst, or parameter number Num of block Ebb.
type ValueDef struct {
	Kind ValueDefKind
	Inst Inst
	Ebb  Ebb
	Num  int
}

type valueData struct {
	kind  ValueDefKind
	typ   Type
	inst  Inst
	ebb   Ebb
	num   int
	alias Value
}

// DataFlowGraph owns the values, instructions, and EBB parameter lists of a
// function. Ordering of EBBs and instructions lives in Layout.
type DataFlowGraph struct {
	values  []valueData
	insts   []InstData
	results [][]Value
	params  [][]Value
}

// NewDataFlowGraph returns an empty graph. Slot 0 of every entity table is
// reserved as the invalid sentinel.
func NewDataFlowGraph() *DataFlowGraph {
	return &DataFlowGraph{
		values:  make([]valueData, 1),
		insts:   make([]InstData, 1),
		results: make([][]Value, 1),
		params:  make([][]Value, 1),
	}
}

func (d *DataFlowGraph) makeValue(data valueData) Value {
	raw, err := safecast.Conv[uint32](len(d.values))
	if err != nil {
		panic(fmt.Errorf("value table overflow: %w", err))
	}
	d.values = append(d.values, data)
	return Value(raw)
}

// NumValues returns the number of value slots allocated so far.
func (d *DataFlowGraph) NumValues() int {
	return len(d.values) - 1
}

// ValidValue reports whether v refers to an allocated value.
func (d *DataFlowGraph) ValidValue(v Value) bool {
	return v != NoValue && int(v) < len(d.values)
}

// MakeEbb allocates a new EBB with no parameters. The block is not placed in
// any layout order until Layout.AppendEbb is called.
func (d *DataFlowGraph) MakeEbb() Ebb {
	raw, err := safecast.Conv[uint32](len(d.params))
	if err != nil {
		panic(fmt.Errorf("ebb table overflow: %w", err))
	}
	d.params = append(d.params, nil)
	return Ebb(raw)
}

// NumEbbs returns the number of EBBs allocated so far.
func (d *DataFlowGraph) NumEbbs() int {
	return len(d.params) - 1
}

// ValidEbb reports whether e refers to an allocated EBB.
func (d *DataFlowGraph) ValidEbb(e Ebb) bool {
	return e != NoEbb && int(e) < len(d.params)
}

// MakeInst allocates an instruction with the given data and no results.
// Results are attached with AppendResult, placement with Layout/Cursor.
func (d *DataFlowGraph) MakeInst(data InstData) Inst {
	raw, err := safecast.Conv[uint32](len(d.insts))
	if err != nil {
		panic(fmt.Errorf("instruction table overflow: %w", err))
	}
	d.insts = append(d.insts, data)
	d.results = append(d.results, nil)
	return Inst(raw)
}

// NumInsts returns the number of instructions allocated so far.
func (d *DataFlowGraph) NumInsts() int {
	return len(d.insts) - 1
}

// Inst returns the data of an instruction for inspection or mutation.
func (d *DataFlowGraph) Inst(i Inst) *InstData {
	return &d.insts[i]
}

// AppendResult attaches one more result value of type ty to inst.
func (d *DataFlowGraph) AppendResult(inst Inst, ty Type) Value {
	num := len(d.results[inst])
	v := d.makeValue(valueData{kind: ValueDefResult, typ: ty, inst: inst, num: num})
	d.results[inst] = append(d.results[inst], v)
	return v
}

// InstResults returns the result values of an instruction.
func (d *DataFlowGraph) InstResults(inst Inst) []Value {
	return d.results[inst]
}

// FirstResult returns the first result value of an instruction.
func (d *DataFlowGraph) FirstResult(inst Inst) Value {
	res := d.results[inst]
	if len(res) == 0 {
		panic(fmt.Sprintf("instruction has no results: %s", d.DisplayInst(inst)))
	}
	return res[0]
}

// AppendEbbParam adds a parameter of type ty at the end of ebb's parameter
// list and returns its value.
func (d *DataFlowGraph) AppendEbbParam(ebb Ebb, ty Type) Value {
	num := len(d.params[ebb])
	v := d.makeValue(valueData{kind: ValueDefParam, typ: ty, ebb: ebb, num: num})
	d.params[ebb] = append(d.params[ebb], v)
	return v
}

// ReplaceEbbParam rebinds the parameter slot currently holding param to a
// fresh value of type ty, preserving the slot's index. The old value is left
// dangling; callers are expected to alias it to a replacement definition.
func (d *DataFlowGraph) ReplaceEbbParam(param Value, ty Type) Value {
	old := d.values[param]
	if old.kind != ValueDefParam {
		panic(fmt.Sprintf("%s is not an EBB parameter", param))
	}
	v := d.makeValue(valueData{kind: ValueDefParam, typ: ty, ebb: old.ebb, num: old.num})
	d.params[old.ebb][old.num] = v
	return v
}

// NumEbbParams returns the current number of parameters of ebb.
func (d *DataFlowGraph) NumEbbParams(ebb Ebb) int {
	return len(d.params[ebb])
}

// EbbParams returns the parameter values of ebb in slot order.
func (d *DataFlowGraph) EbbParams(ebb Ebb) []Value {
	return d.params[ebb]
}

// ResolveAliases follows value forwarding until it reaches a value defined
// by an instruction or parameter slot. All value lookups must go through
// here first; aliased-away values are never treated as distinct identities.
func (d *DataFlowGraph) ResolveAliases(v Value) Value {
	for limit := len(d.values); limit > 0; limit-- {
		if d.values[v].kind != valueDefAlias {
			return v
		}
		v = d.values[v].alias
	}
	panic(fmt.Sprintf("alias cycle at %s", v))
}

// ChangeToAlias makes v an alias of dest. Any existing reference to v now
// resolves to dest's definition.
func (d *DataFlowGraph) ChangeToAlias(v, dest Value) {
	root := d.ResolveAliases(dest)
	if root == v {
		panic(fmt.Sprintf("cannot alias %s to itself via %s", v, dest))
	}
	d.values[v] = valueData{kind: valueDefAlias, typ: d.values[root].typ, alias: root}
}

// ValueType returns the type of v, resolving aliases first.
func (d *DataFlowGraph) ValueType(v Value) Type {
	return d.values[d.ResolveAliases(v)].typ
}

// ValueDef classifies the definition of v, resolving aliases first.
func (d *DataFlowGraph) ValueDef(v Value) ValueDef {
	data := d.values[d.ResolveAliases(v)]
	return ValueDef{Kind: data.kind, Inst: data.inst, Ebb: data.ebb, Num: data.num}
}

// TakeValueList detaches a branch's argument list for exclusive mutation.
// The instruction must be a branch and must currently own its list; both
// failures indicate a bug in an earlier stage.
func (d *DataFlowGraph) TakeValueList(inst Inst) *ValueList {
	data := &d.insts[inst]
	if data.Kind != InstBranch {
		panic(fmt.Sprintf("not a branch: %s", d.DisplayInst(inst)))
	}
	list := data.Branch.Args
	if list == nil {
		panic(fmt.Sprintf("branch without value list: %s", d.DisplayInst(inst)))
	}
	data.Branch.Args = nil
	return list
}

// PutValueList reattaches a previously taken argument list.
func (d *DataFlowGraph) PutValueList(inst Inst, list *ValueList) {
	data := &d.insts[inst]
	if data.Kind != InstBranch || data.Branch.Args != nil {
		panic(fmt.Sprintf("cannot reattach value list to %s", d.DisplayInst(inst)))
	}
	data.Branch.Args = list
}
