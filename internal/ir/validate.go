package ir

import (
	"errors"
	"fmt"
)

// ValidateFunction checks structural invariants of a function.
// Returns an error if any invariant is violated.
func ValidateFunction(fn *Function) error {
	if fn == nil {
		return nil
	}
	var errs []error

	// 1. Parameter slots point back at their block and index.
	if err := validateParamSlots(fn); err != nil {
		errs = append(errs, err)
	}

	// 2. Blocks end in a terminator; terminators appear only at the end.
	if err := validateTerminators(fn); err != nil {
		errs = append(errs, err)
	}

	// 3. Branch argument lists are attached and match their destination's
	// parameter count.
	if err := validateBranches(fn); err != nil {
		errs = append(errs, err)
	}

	// 4. All operands reference allocated values and resolve to a
	// definition.
	if err := validateOperands(fn); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateParamSlots(fn *Function) error {
	dfg := fn.Dfg
	var errs []error
	for e, ok := fn.Layout.FirstEbb(); ok; e, ok = fn.Layout.NextEbb(e) {
		for i, p := range dfg.EbbParams(e) {
			if !dfg.ValidValue(p) {
				errs = append(errs, fmt.Errorf("%s parameter %d is invalid", e, i))
				continue
			}
			def := dfg.ValueDef(p)
			if def.Kind != ValueDefParam || def.Ebb != e || def.Num != i {
				errs = append(errs, fmt.Errorf("%s parameter %d (%s) has mismatched definition", e, i, p))
			}
		}
	}
	return errors.Join(errs...)
}

func validateTerminators(fn *Function) error {
	var errs []error
	for e, ok := fn.Layout.FirstEbb(); ok; e, ok = fn.Layout.NextEbb(e) {
		last, ok := fn.Layout.LastInst(e)
		if !ok {
			errs = append(errs, fmt.Errorf("%s is empty", e))
			continue
		}
		for i, ok := fn.Layout.FirstInst(e); ok; i, ok = fn.Layout.NextInst(i) {
			op := fn.Dfg.Inst(i).Opcode
			if i == last {
				if !op.IsTerminator() {
					errs = append(errs, fmt.Errorf("%s does not end in a terminator: %s", e, fn.Dfg.DisplayInst(i)))
				}
			} else if op.IsTerminator() {
				errs = append(errs, fmt.Errorf("terminator in the middle of %s: %s", e, fn.Dfg.DisplayInst(i)))
			}
		}
	}
	return errors.Join(errs...)
}

func validateBranches(fn *Function) error {
	dfg := fn.Dfg
	var errs []error
	for e, ok := fn.Layout.FirstEbb(); ok; e, ok = fn.Layout.NextEbb(e) {
		for i, ok := fn.Layout.FirstInst(e); ok; i, ok = fn.Layout.NextInst(i) {
			data := dfg.Inst(i)
			if data.Kind != InstBranch {
				continue
			}
			if !data.Opcode.IsBranch() {
				errs = append(errs, fmt.Errorf("branch shape with non-branch opcode: %s", dfg.DisplayInst(i)))
				continue
			}
			if data.Branch.Args == nil {
				errs = append(errs, fmt.Errorf("branch without value list: %s", dfg.DisplayInst(i)))
				continue
			}
			if !dfg.ValidEbb(data.Branch.Dest) {
				errs = append(errs, fmt.Errorf("branch to invalid block: %s", dfg.DisplayInst(i)))
				continue
			}
			fixed := data.Opcode.FixedValueArguments()
			want := fixed + dfg.NumEbbParams(data.Branch.Dest)
			if got := data.Branch.Args.Len(); got != want {
				errs = append(errs, fmt.Errorf("branch has %d arguments, destination %s expects %d: %s",
					got, data.Branch.Dest, want, dfg.DisplayInst(i)))
			}
		}
	}
	return errors.Join(errs...)
}

func validateOperands(fn *Function) error {
	dfg := fn.Dfg
	var errs []error
	for e, ok := fn.Layout.FirstEbb(); ok; e, ok = fn.Layout.NextEbb(e) {
		for i, ok := fn.Layout.FirstInst(e); ok; i, ok = fn.Layout.NextInst(i) {
			for _, arg := range dfg.Inst(i).Arguments() {
				if !dfg.ValidValue(arg) {
					errs = append(errs, fmt.Errorf("invalid operand %s: %s", arg, dfg.DisplayInst(i)))
					continue
				}
				if def := dfg.ValueDef(arg); def.Kind == ValueDefInvalid {
					errs = append(errs, fmt.Errorf("operand %s has no definition: %s", arg, dfg.DisplayInst(i)))
				}
			}
		}
	}
	return errors.Join(errs...)
}
