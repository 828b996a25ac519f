package ir

// Function is a single function: its data flow graph plus the layout that
// orders blocks and instructions.
type Function struct {
	Name   string
	Dfg    *DataFlowGraph
	Layout *Layout
}

// NewFunction returns an empty function.
func NewFunction(name string) *Function {
	return &Function{
		Name:   name,
		Dfg:    NewDataFlowGraph(),
		Layout: NewLayout(),
	}
}
