// Package irparse reads the textual form of functions produced by
// ir.DumpFunction.
//
// The format is line oriented: a "function <name> {" header, EBB headers
// with typed parameter lists, one instruction per line, and a closing "}".
// Comments start with ';' and run to the end of the line. Values must be
// defined textually before they are used; EBB labels may be referenced
// before their header.
package irparse

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/DarkDrek/cretonne/internal/ir"
)

// Parse reads every function in src.
func Parse(src string) ([]*ir.Function, error) {
	p := &parser{lines: strings.Split(src, "\n")}
	var fns []*ir.Function
	for {
		fn, err := p.nextFunction()
		if err != nil {
			return nil, err
		}
		if fn == nil {
			return fns, nil
		}
		fns = append(fns, fn)
	}
}

// ParseFunction reads a single function from src.
func ParseFunction(src string) (*ir.Function, error) {
	fns, err := Parse(src)
	if err != nil {
		return nil, err
	}
	if len(fns) != 1 {
		return nil, fmt.Errorf("expected exactly one function, found %d", len(fns))
	}
	return fns[0], nil
}

type parser struct {
	lines []string
	next  int

	fn     *ir.Function
	ebbs   map[string]ir.Ebb
	values map[string]ir.Value
	cur    *ir.Cursor
}

func (p *parser) errf(line int, format string, args ...any) error {
	return fmt.Errorf("line %d: %s", line+1, fmt.Sprintf(format, args...))
}

// nextFunction parses the next "function ... { ... }" block, or returns nil
// when the input is exhausted.
func (p *parser) nextFunction() (*ir.Function, error) {
	start := -1
	var name string
	for ; p.next < len(p.lines); p.next++ {
		line := cleanLine(p.lines[p.next])
		if line == "" {
			continue
		}
		rest, ok := strings.CutPrefix(line, "function ")
		if !ok || !strings.HasSuffix(rest, "{") {
			return nil, p.errf(p.next, "expected 'function <name> {', got %q", line)
		}
		name = strings.TrimSpace(strings.TrimSuffix(rest, "{"))
		if name == "" {
			return nil, p.errf(p.next, "missing function name")
		}
		start = p.next
		p.next++
		break
	}
	if start < 0 {
		return nil, nil
	}

	// Collect the body up to the closing brace.
	var body []int
	end := -1
	for ; p.next < len(p.lines); p.next++ {
		line := cleanLine(p.lines[p.next])
		if line == "}" {
			end = p.next
			p.next++
			break
		}
		if line != "" {
			body = append(body, p.next)
		}
	}
	if end < 0 {
		return nil, p.errf(start, "function %s has no closing brace", name)
	}

	return p.parseBody(name, body)
}

func (p *parser) parseBody(name string, body []int) (*ir.Function, error) {
	p.fn = ir.NewFunction(name)
	p.ebbs = make(map[string]ir.Ebb)
	p.values = make(map[string]ir.Value)
	p.cur = ir.NewCursor(p.fn.Layout)

	// EBB labels may be forward referenced by branches, so allocate every
	// block first.
	for _, ln := range body {
		line := cleanLine(p.lines[ln])
		if label, _, ok := splitEbbHeader(line); ok {
			if _, dup := p.ebbs[label]; dup {
				return nil, p.errf(ln, "duplicate block %s", label)
			}
			ebb := p.fn.Dfg.MakeEbb()
			p.fn.Layout.AppendEbb(ebb)
			p.ebbs[label] = ebb
		}
	}

	currentSet := false
	for _, ln := range body {
		line := cleanLine(p.lines[ln])
		if label, params, ok := splitEbbHeader(line); ok {
			ebb := p.ebbs[label]
			if err := p.parseParams(ln, ebb, params); err != nil {
				return nil, err
			}
			p.cur.GotoBottom(ebb)
			currentSet = true
			continue
		}
		if !currentSet {
			return nil, p.errf(ln, "instruction before any block header")
		}
		if err := p.parseInst(ln, line); err != nil {
			return nil, err
		}
	}
	return p.fn, nil
}

// splitEbbHeader recognizes "ebbN:" and "ebbN(v1: i32, ...):" lines.
func splitEbbHeader(line string) (label, params string, ok bool) {
	if !strings.HasPrefix(line, "ebb") || !strings.HasSuffix(line, ":") {
		return "", "", false
	}
	head := strings.TrimSuffix(line, ":")
	if open := strings.IndexByte(head, '('); open >= 0 {
		if !strings.HasSuffix(head, ")") {
			return "", "", false
		}
		return head[:open], head[open+1 : len(head)-1], true
	}
	if strings.ContainsAny(head, " =,") {
		return "", "", false
	}
	return head, "", true
}

func (p *parser) parseParams(ln int, ebb ir.Ebb, params string) error {
	params = strings.TrimSpace(params)
	if params == "" {
		return nil
	}
	for _, field := range strings.Split(params, ",") {
		name, tyStr, ok := strings.Cut(strings.TrimSpace(field), ":")
		if !ok {
			return p.errf(ln, "malformed parameter %q", field)
		}
		ty, err := parseType(strings.TrimSpace(tyStr))
		if err != nil {
			return p.errf(ln, "%v", err)
		}
		v := p.fn.Dfg.AppendEbbParam(ebb, ty)
		if err := p.defineValue(ln, strings.TrimSpace(name), v); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) defineValue(ln int, name string, v ir.Value) error {
	if !strings.HasPrefix(name, "v") {
		return p.errf(ln, "value names start with 'v', got %q", name)
	}
	if _, dup := p.values[name]; dup {
		return p.errf(ln, "redefinition of %s", name)
	}
	p.values[name] = v
	return nil
}

func (p *parser) useValue(ln int, name string) (ir.Value, error) {
	v, ok := p.values[strings.TrimSpace(name)]
	if !ok {
		return ir.NoValue, p.errf(ln, "use of undefined value %q", strings.TrimSpace(name))
	}
	return v, nil
}

func (p *parser) useValues(ln int, list string) ([]ir.Value, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil, nil
	}
	var vals []ir.Value
	for _, name := range strings.Split(list, ",") {
		v, err := p.useValue(ln, name)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func (p *parser) parseInst(ln int, line string) error {
	var results []string
	rhs := line
	if lhs, rest, ok := strings.Cut(line, "="); ok {
		for _, r := range strings.Split(lhs, ",") {
			results = append(results, strings.TrimSpace(r))
		}
		rhs = strings.TrimSpace(rest)
	}

	opToken, operands, _ := strings.Cut(rhs, " ")
	opName, tyStr, hasType := strings.Cut(opToken, ".")
	op, ok := ir.OpcodeByName(opName)
	if !ok {
		return p.errf(ln, "unknown opcode %q", opName)
	}
	var ty ir.Type
	if hasType {
		var err error
		if ty, err = parseType(tyStr); err != nil {
			return p.errf(ln, "%v", err)
		}
	}
	operands = strings.TrimSpace(operands)
	b := ir.NewBuilder(p.fn.Dfg, p.cur)

	switch op {
	case ir.OpJump:
		dest, args, err := p.parseDest(ln, operands)
		if err != nil {
			return err
		}
		b.Jump(dest, args)
		return p.bindResults(ln, results, nil)

	case ir.OpBrz, ir.OpBrnz:
		condStr, destStr, ok := strings.Cut(operands, ",")
		if !ok {
			return p.errf(ln, "%s needs a condition and a destination", op)
		}
		cond, err := p.useValue(ln, condStr)
		if err != nil {
			return err
		}
		dest, args, err := p.parseDest(ln, strings.TrimSpace(destStr))
		if err != nil {
			return err
		}
		b.Branch(op, cond, dest, args)
		return p.bindResults(ln, results, nil)

	case ir.OpReturn:
		args, err := p.useValues(ln, operands)
		if err != nil {
			return err
		}
		b.Return(args)
		return p.bindResults(ln, results, nil)

	case ir.OpIconst:
		if !hasType {
			return p.errf(ln, "iconst needs a type annotation")
		}
		imm, err := strconv.ParseInt(operands, 0, 64)
		if err != nil {
			return p.errf(ln, "bad immediate %q: %v", operands, err)
		}
		v := b.Iconst(ty, imm)
		return p.bindResults(ln, results, []ir.Value{v})

	case ir.OpIsplit, ir.OpVsplit:
		if !hasType {
			return p.errf(ln, "%s needs a type annotation", op)
		}
		arg, err := p.useValue(ln, operands)
		if err != nil {
			return err
		}
		var lo, hi ir.Value
		if op == ir.OpIsplit {
			lo, hi = b.Isplit(arg)
		} else {
			lo, hi = b.Vsplit(arg)
		}
		return p.bindResults(ln, results, []ir.Value{lo, hi})

	default:
		// Remaining opcodes are the two-operand arithmetic and concat
		// instructions.
		if !hasType {
			return p.errf(ln, "%s needs a type annotation", op)
		}
		args, err := p.useValues(ln, operands)
		if err != nil {
			return err
		}
		if len(args) != 2 {
			return p.errf(ln, "%s needs exactly two operands", op)
		}
		_, v := b.Binary(op, ty, args[0], args[1])
		return p.bindResults(ln, results, []ir.Value{v})
	}
}

// parseDest recognizes "ebbN" and "ebbN(v1, v2)" destinations.
func (p *parser) parseDest(ln int, text string) (ir.Ebb, []ir.Value, error) {
	label := text
	var args []ir.Value
	if open := strings.IndexByte(text, '('); open >= 0 {
		if !strings.HasSuffix(text, ")") {
			return ir.NoEbb, nil, p.errf(ln, "malformed destination %q", text)
		}
		label = text[:open]
		var err error
		if args, err = p.useValues(ln, text[open+1:len(text)-1]); err != nil {
			return ir.NoEbb, nil, err
		}
	}
	ebb, ok := p.ebbs[strings.TrimSpace(label)]
	if !ok {
		return ir.NoEbb, nil, p.errf(ln, "branch to unknown block %q", label)
	}
	return ebb, args, nil
}

func (p *parser) bindResults(ln int, names []string, vals []ir.Value) error {
	if len(names) != len(vals) {
		return p.errf(ln, "instruction defines %d values, %d names given", len(vals), len(names))
	}
	for i, name := range names {
		if err := p.defineValue(ln, name, vals[i]); err != nil {
			return err
		}
	}
	return nil
}

// parseType reads "i32", "b1", "f64", or a vector form like "i32x4".
func parseType(s string) (ir.Type, error) {
	lane := s
	lanes := 1
	if x := strings.LastIndexByte(s, 'x'); x > 0 {
		n, err := strconv.Atoi(s[x+1:])
		if err != nil {
			return ir.Type{}, fmt.Errorf("bad lane count in type %q", s)
		}
		lane, lanes = s[:x], n
	}
	if len(lane) < 2 {
		return ir.Type{}, fmt.Errorf("bad type %q", s)
	}
	var kind ir.TypeKind
	switch lane[0] {
	case 'b':
		kind = ir.KindBool
	case 'i':
		kind = ir.KindInt
	case 'f':
		kind = ir.KindFloat
	default:
		return ir.Type{}, fmt.Errorf("bad type %q", s)
	}
	bits, err := strconv.Atoi(lane[1:])
	if err != nil {
		return ir.Type{}, fmt.Errorf("bad lane width in type %q", s)
	}
	laneBits, err := safecast.Conv[uint16](bits)
	if err != nil {
		return ir.Type{}, fmt.Errorf("lane width out of range in type %q", s)
	}
	ty := ir.Type{Kind: kind, LaneBits: laneBits, Lanes: 1}
	if lanes > 1 {
		var ok bool
		if ty, ok = ir.VectorOf(ty, lanes); !ok {
			return ir.Type{}, fmt.Errorf("bad vector type %q", s)
		}
	}
	return ty, nil
}

// cleanLine strips a trailing comment and surrounding whitespace.
func cleanLine(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
