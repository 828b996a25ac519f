package ir

import (
	"fmt"
	"io"
	"strings"
)

// DumpFunction writes a human-readable representation of fn. The output is
// accepted back by the irparse package.
func DumpFunction(w io.Writer, fn *Function) error {
	if w == nil || fn == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "function %s {\n", fn.Name); err != nil {
		return err
	}
	for e, ok := fn.Layout.FirstEbb(); ok; e, ok = fn.Layout.NextEbb(e) {
		if err := dumpEbb(w, fn, e); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

func dumpEbb(w io.Writer, fn *Function, e Ebb) error {
	dfg := fn.Dfg
	var header strings.Builder
	header.WriteString(e.String())
	if params := dfg.EbbParams(e); len(params) > 0 {
		header.WriteByte('(')
		for i, p := range params {
			if i > 0 {
				header.WriteString(", ")
			}
			fmt.Fprintf(&header, "%s: %s", p, dfg.ValueType(p))
		}
		header.WriteByte(')')
	}
	if _, err := fmt.Fprintf(w, "%s:\n", header.String()); err != nil {
		return err
	}
	for i, ok := fn.Layout.FirstInst(e); ok; i, ok = fn.Layout.NextInst(i) {
		if _, err := fmt.Fprintf(w, "    %s\n", dfg.DisplayInst(i)); err != nil {
			return err
		}
	}
	return nil
}

// DisplayInst formats one instruction on a single line, for dumps and for
// fatal diagnostics.
func (d *DataFlowGraph) DisplayInst(inst Inst) string {
	data := &d.insts[inst]
	var sb strings.Builder

	if res := d.results[inst]; len(res) > 0 {
		for i, v := range res {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(v.String())
		}
		sb.WriteString(" = ")
	}
	sb.WriteString(data.Opcode.String())

	// Operands are printed through alias resolution so the text only names
	// values that a parameter list or result binding defines. Rewrites leave
	// uses of aliased-away values behind; their textual form is the
	// replacement value.
	switch data.Kind {
	case InstUnary:
		fmt.Fprintf(&sb, ".%s %s", data.Ctrl, d.ResolveAliases(data.Unary.Arg))
	case InstUnaryImm:
		fmt.Fprintf(&sb, ".%s %d", data.Ctrl, data.UnaryImm.Imm)
	case InstBinary:
		fmt.Fprintf(&sb, ".%s %s, %s", data.Ctrl,
			d.ResolveAliases(data.Binary.Args[0]), d.ResolveAliases(data.Binary.Args[1]))
	case InstBranch:
		sb.WriteString(" ")
		args := []Value(nil)
		if data.Branch.Args != nil {
			args = data.Branch.Args.Slice()
		}
		fixed := data.Opcode.FixedValueArguments()
		for i := 0; i < fixed && i < len(args); i++ {
			fmt.Fprintf(&sb, "%s, ", d.ResolveAliases(args[i]))
		}
		sb.WriteString(data.Branch.Dest.String())
		if len(args) > fixed {
			sb.WriteString("(")
			for i, v := range args[fixed:] {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(d.ResolveAliases(v).String())
			}
			sb.WriteString(")")
		}
	case InstMultiAry:
		for i, v := range data.MultiAry.Args {
			if i > 0 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, " %s", d.ResolveAliases(v))
		}
	}
	return sb.String()
}
