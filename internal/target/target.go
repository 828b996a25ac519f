// Package target describes the value-type capabilities of a compilation
// target: the native register width and, optionally, a vector register
// width. Specs come from built-in presets or from TOML files.
package target

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/DarkDrek/cretonne/internal/ir"
)

// Spec describes one target.
type Spec struct {
	// Name identifies the target in diagnostics.
	Name string `toml:"name"`
	// RegBits is the native integer register width in bits.
	RegBits int `toml:"reg_bits"`
	// VecBits is the vector register width in bits; zero means no vector
	// support.
	VecBits int `toml:"vec_bits"`
}

type specFile struct {
	Target Spec `toml:"target"`
}

// Preset returns a built-in target spec by name.
func Preset(name string) (Spec, bool) {
	switch name {
	case "rv32":
		return Spec{Name: "rv32", RegBits: 32}, true
	case "rv64":
		return Spec{Name: "rv64", RegBits: 64, VecBits: 128}, true
	}
	return Spec{}, false
}

// Load reads a spec from a TOML file with a [target] table.
func Load(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("failed to read target spec: %w", err)
	}
	var file specFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return Spec{}, fmt.Errorf("failed to parse target spec %q: %w", path, err)
	}
	if file.Target.Name == "" {
		file.Target.Name = path
	}
	if err := file.Target.Validate(); err != nil {
		return Spec{}, fmt.Errorf("invalid target spec %q: %w", path, err)
	}
	return file.Target, nil
}

// Resolve interprets nameOrPath as a preset name first, then as a TOML file
// path.
func Resolve(nameOrPath string) (Spec, error) {
	if spec, ok := Preset(nameOrPath); ok {
		return spec, nil
	}
	return Load(nameOrPath)
}

// Validate checks the spec for impossible widths.
func (s Spec) Validate() error {
	if s.RegBits < 8 || s.RegBits&(s.RegBits-1) != 0 {
		return fmt.Errorf("reg_bits must be a power of two >= 8, got %d", s.RegBits)
	}
	if s.VecBits != 0 && (s.VecBits < s.RegBits || s.VecBits&(s.VecBits-1) != 0) {
		return fmt.Errorf("vec_bits must be zero or a power of two >= reg_bits, got %d", s.VecBits)
	}
	return nil
}

// IsLegal reports whether the target can hold a value of type t natively.
// Floats are always considered legal here: oversized floats are bit-cast to
// integers by ABI lowering before legalization asks.
func (s Spec) IsLegal(t ir.Type) bool {
	switch {
	case !t.IsValid():
		return false
	case t.IsFloat():
		return true
	case t.IsVector():
		return t.Bits() <= s.VecBits
	default:
		return t.Bits() <= s.RegBits
	}
}
