package inbf

import (
	"math"
	"testing"
)

func TestJSON_Encode(t *testing.T) {
	a := NewArena()
	c := a.NewCompound()
	ensure(a.SetCompound(c, "z", a.NewFloat32(24)))
	ensure(a.SetCompound(c, "b", a.NewString("uwu? \"q\"")))
	arr := must(a.NewArray(a.NewInt8(-1)))
	ensure(a.Append(arr, a.NewInt8(2)))
	ensure(a.SetCompound(c, "arr", arr))
	ensure(a.SetCompound(c, "empty", must(a.NewArrayOf(TagUint8))))
	ensure(a.SetCompound(c, "obj", a.NewCompound()))
	ensure(a.SetCompound(c, "f", a.NewFloat32(0.1)))
	ensure(a.SetCompound(c, "big", a.NewUint64(math.MaxUint64)))

	eq(t, string(must(a.EncodeJSON(c))), `{"z":24,"b":"uwu? \"q\"","arr":[-1,2],"empty":[],"obj":{},"f":0.1,"big":18446744073709551615}`)
}

func TestJSON_EncodeNonFinite(t *testing.T) {
	a := NewArena()
	for _, h := range []Handle{a.NewFloat64(math.NaN()), a.NewFloat32(float32(math.Inf(1))), must(a.NewArray(a.NewFloat64(math.Inf(-1))))} {
		_, err := a.EncodeJSON(h)
		isKind(t, err, ErrTypeMismatch)
	}
}

func TestJSON_Decode(t *testing.T) {
	a := NewArena()
	h := must(a.DecodeJSON([]byte(`{"name": "uwu?", "n": 5, "neg": -7, "f": 1.5, "e": 1e3, "big": 18446744073709551615, "list": [1, 2, 3], "nested": {"x": [{"y": "z"}]}}`)))
	deepEqual(t, must(a.Keys(h)), []string{"name", "n", "neg", "f", "e", "big", "list", "nested"})
	eq(t, must(a.String(must(a.Lookup(h, "name")))), "uwu?")
	eq(t, must(a.Int64(must(a.Lookup(h, "n")))), int64(5))
	eq(t, must(a.Int64(must(a.Lookup(h, "neg")))), int64(-7))
	eq(t, must(a.Float64(must(a.Lookup(h, "f")))), 1.5)
	eq(t, must(a.Float64(must(a.Lookup(h, "e")))), 1000.0)
	eq(t, must(a.Uint64(must(a.Lookup(h, "big")))), uint64(math.MaxUint64))
	eq(t, must(a.ElemTag(must(a.Lookup(h, "list")))), TagInt64)
	eq(t, must(a.String(must(a.Lookup(h, "nested.x[0].y")))), "z")
}

func TestJSON_DecodeFailures(t *testing.T) {
	o := func(data string, kind ErrorKind) {
		t.Run(data, func(t *testing.T) {
			a := NewArena()
			_, err := a.DecodeJSON([]byte(data))
			isKind(t, err, kind)
			eq(t, a.Live(), 0)
		})
	}
	o(``, ErrMalformed)
	o(`null`, ErrMalformed)
	o(`true`, ErrMalformed)
	o(`[]`, ErrMalformed)
	o(`{"a": []}`, ErrMalformed)
	o(`{"a": 1, "a": 2}`, ErrMalformed)
	o(`{"a": 1} x`, ErrMalformed)
	o(`{"a": 1} {}`, ErrMalformed)
	o(`{"a":`, ErrMalformed)
	o(`[1, 2`, ErrMalformed)
	o(`{"a": [1, null]}`, ErrMalformed)
	o(`[1, "x"]`, ErrTypeMismatch)
	o(`[1, 1.5]`, ErrTypeMismatch)
	o(`{"a": {"b": [{"c": 1}, 2]}}`, ErrTypeMismatch)
	o(`1e400`, ErrMalformed)
}

func TestJSON_RoundTrip(t *testing.T) {
	a := NewArena()
	src := `{"a":[{"b":"c"},{"b":"d"}],"n":-3,"f":2.5,"s":"é"}`
	h := must(a.DecodeJSON([]byte(src)))
	eq(t, string(must(a.Marshal(h, JSON))), `{"a":[{"b":"c"},{"b":"d"}],"n":-3,"f":2.5,"s":"é"}`)
}

func TestEncodeJSON_InvalidUTF8(t *testing.T) {
	a := NewArena()
	_, err := a.EncodeJSON(a.NewStringBytes([]byte{'a', 0xff}))
	isKind(t, err, ErrTypeMismatch)

	c := a.NewCompound()
	ensure(a.SetCompound(c, "ok", a.NewString("ü")))
	eq(t, string(must(a.EncodeJSON(c))), `{"ok":"ü"}`)
	ensure(a.SetCompound(c, "\xfe", a.NewInt8(1)))
	_, err = a.EncodeJSON(c)
	isKind(t, err, ErrTypeMismatch)

	// the native and msgpack encodings carry the bytes unchanged
	h := must(a.DecodeMsgPack(must(a.EncodeMsgPack(c))))
	eq(t, Equal(a, c, a, h), true)
}
