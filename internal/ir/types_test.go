package ir_test

import (
	"testing"

	"github.com/DarkDrek/cretonne/internal/ir"
)

func TestType_HalfWidth(t *testing.T) {
	ty := ir.I64
	for _, want := range []ir.Type{ir.I32, ir.I16, ir.I8} {
		half, ok := ty.HalfWidth()
		if !ok {
			t.Fatalf("%s.HalfWidth() failed", ty)
		}
		if half != want {
			t.Fatalf("%s.HalfWidth() = %s, want %s", ty, half, want)
		}
		ty = half
	}
	if _, ok := ir.I8.HalfWidth(); ok {
		t.Error("i8.HalfWidth() should fail")
	}
	if _, ok := ir.F64.HalfWidth(); ok {
		t.Error("f64.HalfWidth() should fail: floats are never split")
	}
	if _, ok := ir.B1.HalfWidth(); ok {
		t.Error("b1.HalfWidth() should fail")
	}
}

func TestType_HalfWidthKeepsLanes(t *testing.T) {
	i64x2, _ := ir.VectorOf(ir.I64, 2)
	half, ok := i64x2.HalfWidth()
	if !ok {
		t.Fatal("i64x2.HalfWidth() failed")
	}
	want, _ := ir.VectorOf(ir.I32, 2)
	if half != want {
		t.Errorf("i64x2.HalfWidth() = %s, want %s", half, want)
	}
}

func TestType_HalfVector(t *testing.T) {
	i32x4, _ := ir.VectorOf(ir.I32, 4)
	i32x2, _ := ir.VectorOf(ir.I32, 2)

	half, ok := i32x4.HalfVector()
	if !ok || half != i32x2 {
		t.Errorf("i32x4.HalfVector() = %s (%v), want %s", half, ok, i32x2)
	}
	half, ok = i32x2.HalfVector()
	if !ok || half != ir.I32 {
		t.Errorf("i32x2.HalfVector() = %s (%v), want i32", half, ok)
	}
	if _, ok := ir.I32.HalfVector(); ok {
		t.Error("scalar HalfVector() should fail")
	}
}

func TestType_String(t *testing.T) {
	cases := []struct {
		ty   ir.Type
		want string
	}{
		{ir.B1, "b1"},
		{ir.I8, "i8"},
		{ir.I64, "i64"},
		{ir.F32, "f32"},
	}
	if v, ok := ir.VectorOf(ir.I32, 4); ok {
		cases = append(cases, struct {
			ty   ir.Type
			want string
		}{v, "i32x4"})
	}
	for _, c := range cases {
		if got := c.ty.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
	if got := (ir.Type{}).String(); got != "invalid" {
		t.Errorf("zero type prints %q, want \"invalid\"", got)
	}
}

func TestVectorOf_RejectsBadShapes(t *testing.T) {
	if _, ok := ir.VectorOf(ir.I32, 3); ok {
		t.Error("lane count 3 should be rejected")
	}
	if _, ok := ir.VectorOf(ir.I32, 1); ok {
		t.Error("lane count 1 should be rejected")
	}
	i32x2, _ := ir.VectorOf(ir.I32, 2)
	if _, ok := ir.VectorOf(i32x2, 2); ok {
		t.Error("vector lane type should be rejected")
	}
	// Lane counts beyond the storage range must fail instead of truncating.
	if v, ok := ir.VectorOf(ir.I8, 0x10000); ok {
		t.Errorf("lane count 65536 should be rejected, got %s (lanes=%d)", v, v.LaneCount())
	}
	if _, ok := ir.VectorOf(ir.I8, 0x20000); ok {
		t.Error("lane count 131072 should be rejected")
	}
	if v, ok := ir.VectorOf(ir.I8, 0x8000); !ok || v.LaneCount() != 0x8000 {
		t.Errorf("lane count 32768 should be accepted, got %s (%v)", v, ok)
	}
}

func TestType_Bits(t *testing.T) {
	if got := ir.I64.Bits(); got != 64 {
		t.Errorf("i64.Bits() = %d, want 64", got)
	}
	i32x4, _ := ir.VectorOf(ir.I32, 4)
	if got := i32x4.Bits(); got != 128 {
		t.Errorf("i32x4.Bits() = %d, want 128", got)
	}
	if got := i32x4.LaneType(); got != ir.I32 {
		t.Errorf("i32x4.LaneType() = %s, want i32", got)
	}
}
