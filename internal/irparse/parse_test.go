package irparse_test

import (
	"strings"
	"testing"

	"github.com/DarkDrek/cretonne/internal/ir"
	"github.com/DarkDrek/cretonne/internal/irparse"
)

const loopSrc = `
; a small loop passing one value around
function loop {
ebb1(v1: i64, v2: b1):
    jump ebb2(v1)
ebb2(v3: i64):
    v4 = bxor.i64 v3, v3
    brz v2, ebb2(v4)
    return v4
}
`

func TestParse_BuildsStructure(t *testing.T) {
	fn, err := irparse.ParseFunction(loopSrc)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if fn.Name != "loop" {
		t.Errorf("function name = %q, want \"loop\"", fn.Name)
	}
	if err := ir.ValidateFunction(fn); err != nil {
		t.Fatalf("parsed function fails validation: %v", err)
	}

	entry, ok := fn.Layout.EntryBlock()
	if !ok {
		t.Fatal("no entry block")
	}
	if n := fn.Dfg.NumEbbParams(entry); n != 2 {
		t.Errorf("entry has %d parameters, want 2", n)
	}
	params := fn.Dfg.EbbParams(entry)
	if got := fn.Dfg.ValueType(params[0]); got != ir.I64 {
		t.Errorf("first parameter type = %s, want i64", got)
	}
	if got := fn.Dfg.ValueType(params[1]); got != ir.B1 {
		t.Errorf("second parameter type = %s, want b1", got)
	}

	second, ok := fn.Layout.NextEbb(entry)
	if !ok {
		t.Fatal("missing second block")
	}
	// ebb2: bxor, brz, return.
	var ops []ir.Opcode
	for i, ok := fn.Layout.FirstInst(second); ok; i, ok = fn.Layout.NextInst(i) {
		ops = append(ops, fn.Dfg.Inst(i).Opcode)
	}
	want := []ir.Opcode{ir.OpBxor, ir.OpBrz, ir.OpReturn}
	if len(ops) != len(want) {
		t.Fatalf("second block has opcodes %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("second block has opcodes %v, want %v", ops, want)
		}
	}
}

func TestParse_DumpRoundTrip(t *testing.T) {
	fn, err := irparse.ParseFunction(loopSrc)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var first strings.Builder
	if err := ir.DumpFunction(&first, fn); err != nil {
		t.Fatalf("dump failed: %v", err)
	}

	// The dump must parse back to a function that dumps identically.
	fn2, err := irparse.ParseFunction(first.String())
	if err != nil {
		t.Fatalf("reparse failed: %v\ninput:\n%s", err, first.String())
	}
	var second strings.Builder
	if err := ir.DumpFunction(&second, fn2); err != nil {
		t.Fatalf("second dump failed: %v", err)
	}
	if first.String() != second.String() {
		t.Errorf("round trip drifted:\nfirst:\n%s\nsecond:\n%s", first.String(), second.String())
	}
}

func TestParse_MultipleFunctions(t *testing.T) {
	src := `
function one {
ebb1:
    return
}
function two {
ebb1(v1: i32):
    return v1
}
`
	fns, err := irparse.Parse(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(fns) != 2 {
		t.Fatalf("parsed %d functions, want 2", len(fns))
	}
	if fns[0].Name != "one" || fns[1].Name != "two" {
		t.Errorf("function names = %q, %q", fns[0].Name, fns[1].Name)
	}
}

func TestParse_SplitInstructions(t *testing.T) {
	src := `
function split {
ebb1(v1: i64):
    v2, v3 = isplit.i64 v1
    v4 = iconcat.i64 v2, v3
    return v4
}
`
	fn, err := irparse.ParseFunction(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if err := ir.ValidateFunction(fn); err != nil {
		t.Fatalf("validation failed: %v", err)
	}
	entry, _ := fn.Layout.EntryBlock()
	first, _ := fn.Layout.FirstInst(entry)
	res := fn.Dfg.InstResults(first)
	if len(res) != 2 {
		t.Fatalf("isplit has %d results, want 2", len(res))
	}
	if got := fn.Dfg.ValueType(res[0]); got != ir.I32 {
		t.Errorf("isplit low result type = %s, want i32", got)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "undefined value",
			src:  "function f {\nebb1:\n    return v9\n}",
			want: "undefined value",
		},
		{
			name: "unknown opcode",
			src:  "function f {\nebb1:\n    v1 = frobnicate.i32 v2\n}",
			want: "unknown opcode",
		},
		{
			name: "unknown block",
			src:  "function f {\nebb1:\n    jump ebb9\n}",
			want: "unknown block",
		},
		{
			name: "missing brace",
			src:  "function f {\nebb1:\n    return",
			want: "closing brace",
		},
		{
			name: "oversized vector",
			src:  "function f {\nebb1(v1: i8x65536):\n    return\n}",
			want: "bad vector type",
		},
		{
			name: "result count mismatch",
			src:  "function f {\nebb1(v1: i64):\n    v2 = isplit.i64 v1\n}",
			want: "2 values",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := irparse.Parse(c.src)
			if err == nil {
				t.Fatalf("expected an error containing %q", c.want)
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Errorf("error %q does not contain %q", err, c.want)
			}
		})
	}
}
