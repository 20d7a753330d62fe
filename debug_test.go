package inbf

import (
	"math"
	"testing"
)

func TestDump(t *testing.T) {
	a := NewArena()
	c := a.NewCompound()
	ensure(a.SetCompound(c, "a", a.NewFloat32(24)))
	ensure(a.SetCompound(c, "b", a.NewString("uwu?")))
	arr := must(a.NewArray(a.NewInt8(1)))
	ensure(a.Append(arr, a.NewInt8(-2)))
	ensure(a.SetCompound(c, "c", arr))
	ensure(a.SetCompound(c, "d", must(a.NewArrayOf(TagUint16))))
	ensure(a.SetCompound(c, "hello world", a.NewUint64(math.MaxUint64)))
	ensure(a.SetCompound(c, "", a.NewFloat64(1.5)))
	ensure(a.SetCompound(c, "e", a.NewCompound()))

	eq(t, a.Dump(c), `{a: 24f32, b: "uwu?", c: [1i8, -2i8], d: []u16, "hello world": 18446744073709551615u64, "": 1.5f64, e: {}}`)
}

func TestDump_Multiline(t *testing.T) {
	a := NewArena()
	c := a.NewCompound()
	ensure(a.SetCompound(c, "a", a.NewFloat32(24)))
	arr := must(a.NewArray(a.NewInt8(1)))
	ensure(a.Append(arr, a.NewInt8(2)))
	ensure(a.SetCompound(c, "c", arr))
	ensure(a.SetCompound(c, "e", a.NewCompound()))

	eq(t, a.DumpWith(c, DumpMultiline), "{\n  a: 24f32,\n  c: [\n    1i8,\n    2i8\n  ],\n  e: {}\n}")
}

func TestDump_Handles(t *testing.T) {
	a := NewArena()
	c := a.NewCompound()
	ensure(a.SetCompound(c, "a", a.NewInt8(1)))
	eq(t, a.DumpWith(c, DumpHandles), "#0.1 {a: 1i8}")
	eq(t, DumpFlags(DumpHandles|DumpMultiline).Contains(DumpHandles), true)
	eq(t, DumpFlags(DumpMultiline).Contains(DumpHandles), false)
}

func TestDump_Invalid(t *testing.T) {
	a := NewArena()
	eq(t, a.Dump(Handle{}), "<invalid #nil>")
}

func TestFormatScalar(t *testing.T) {
	a := NewArena()
	eq(t, must(a.FormatScalar(a.NewInt16(-5))), "-5")
	eq(t, must(a.FormatScalar(a.NewFloat32(0.1))), "0.1")
	eq(t, must(a.FormatScalar(a.NewFloat64(math.Inf(1)))), "+Inf")
	eq(t, must(a.FormatScalar(a.NewString("raw \"text\""))), `raw "text"`)
	_, err := a.FormatScalar(a.NewCompound())
	isKind(t, err, ErrTypeMismatch)
}
