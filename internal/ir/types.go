package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// TypeKind enumerates the lane kinds of value types.
type TypeKind uint8

const (
	KindInvalid TypeKind = iota
	// KindBool represents a boolean truth value.
	KindBool
	// KindInt represents a two's complement integer.
	KindInt
	// KindFloat represents an IEEE 754 floating point number.
	KindFloat
)

func (k TypeKind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("TypeKind(%d)", k)
	}
}

// Type describes the type of an SSA value: a scalar, or a SIMD vector of
// identical scalar lanes. The zero value is the invalid type.
type Type struct {
	Kind     TypeKind
	LaneBits uint16
	Lanes    uint16
}

// Common scalar types.
var (
	B1  = Type{Kind: KindBool, LaneBits: 1, Lanes: 1}
	I8  = Type{Kind: KindInt, LaneBits: 8, Lanes: 1}
	I16 = Type{Kind: KindInt, LaneBits: 16, Lanes: 1}
	I32 = Type{Kind: KindInt, LaneBits: 32, Lanes: 1}
	I64 = Type{Kind: KindInt, LaneBits: 64, Lanes: 1}
	F32 = Type{Kind: KindFloat, LaneBits: 32, Lanes: 1}
	F64 = Type{Kind: KindFloat, LaneBits: 64, Lanes: 1}
)

// IntBits returns the scalar integer type with the given width.
func IntBits(bits int) (Type, bool) {
	switch bits {
	case 8, 16, 32, 64:
		return Type{Kind: KindInt, LaneBits: uint16(bits), Lanes: 1}, true
	}
	return Type{}, false
}

// VectorOf returns a vector type with the given scalar lane type and lane
// count. The lane count must be a power of two greater than one.
func VectorOf(lane Type, lanes int) (Type, bool) {
	if lane.Lanes != 1 || lanes < 2 || lanes&(lanes-1) != 0 {
		return Type{}, false
	}
	count, err := safecast.Conv[uint16](lanes)
	if err != nil {
		return Type{}, false
	}
	t := lane
	t.Lanes = count
	return t, true
}

// IsValid reports whether t describes a real type.
func (t Type) IsValid() bool {
	return t.Kind != KindInvalid
}

// IsVector reports whether t has more than one lane.
func (t Type) IsVector() bool {
	return t.Lanes > 1
}

// IsInt reports whether t's lanes are integers.
func (t Type) IsInt() bool {
	return t.Kind == KindInt
}

// IsFloat reports whether t's lanes are floating point numbers.
func (t Type) IsFloat() bool {
	return t.Kind == KindFloat
}

// LaneType returns the scalar type of one lane of t.
func (t Type) LaneType() Type {
	t.Lanes = 1
	return t
}

// LaneCount returns the number of lanes in t. Scalars have one lane.
func (t Type) LaneCount() int {
	return int(t.Lanes)
}

// Bits returns the total width of t in bits.
func (t Type) Bits() int {
	return int(t.LaneBits) * int(t.Lanes)
}

// HalfWidth returns the type with lanes half as wide as t's. It fails for
// non-integer types and for types whose lanes cannot be narrowed further.
func (t Type) HalfWidth() (Type, bool) {
	if t.Kind != KindInt || t.LaneBits < 16 {
		return Type{}, false
	}
	t.LaneBits /= 2
	return t, true
}

// HalfVector returns the vector type with half as many lanes as t. It fails
// for scalars.
func (t Type) HalfVector() (Type, bool) {
	if t.Lanes < 2 {
		return Type{}, false
	}
	t.Lanes /= 2
	return t, true
}

func (t Type) String() string {
	var lane string
	switch t.Kind {
	case KindBool:
		lane = fmt.Sprintf("b%d", t.LaneBits)
	case KindInt:
		lane = fmt.Sprintf("i%d", t.LaneBits)
	case KindFloat:
		lane = fmt.Sprintf("f%d", t.LaneBits)
	default:
		return "invalid"
	}
	if t.Lanes > 1 {
		return fmt.Sprintf("%sx%d", lane, t.Lanes)
	}
	return lane
}
