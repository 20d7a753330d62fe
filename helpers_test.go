package inbf

import (
	"encoding/hex"
	"math"
	"math/rand/v2"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func eq[T comparable](t testing.TB, a, e T) {
	if a != e {
		t.Helper()
		t.Fatalf("** got %v, wanted %v", a, e)
	}
}

func deepEqual[T any](t testing.TB, a, e T) {
	if !reflect.DeepEqual(a, e) {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
	}
}

func isKind(t testing.TB, err error, e ErrorKind) {
	if k := KindOf(err); k != e {
		t.Helper()
		t.Fatalf("** got error %v (kind %v), wanted kind %v", err, k, e)
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func ensure(err error) {
	if err != nil {
		panic(err)
	}
}

func x(data string) []byte {
	data = strings.ReplaceAll(data, " ", "")
	return must(hex.DecodeString(data))
}

var scalarTags = []Tag{TagInt8, TagInt16, TagInt32, TagInt64, TagUint8, TagUint16, TagUint32, TagUint64, TagFloat32, TagFloat64}

// genTree builds a random caller-owned tree. Floats are finite, infinite or
// negative zero, never NaN.
func genTree(a *Arena, r *rand.Rand, depth int) Handle {
	return genValue(a, r, genTag(r, depth), depth)
}

func genTag(r *rand.Rand, depth int) Tag {
	if depth >= 3 {
		if r.IntN(4) == 0 {
			return TagString
		}
		return scalarTags[r.IntN(len(scalarTags))]
	}
	return Tag(1 + r.IntN(int(tagCount)-1))
}

func genFloat(r *rand.Rand) float64 {
	switch r.IntN(8) {
	case 0:
		return math.Inf(1)
	case 1:
		return math.Copysign(0, -1)
	case 2:
		return float64(r.IntN(1000))
	default:
		return r.NormFloat64() * 1e6
	}
}

func genValue(a *Arena, r *rand.Rand, tag Tag, depth int) Handle {
	switch tag {
	case TagInt8:
		return a.NewInt8(int8(r.Uint32()))
	case TagInt16:
		return a.NewInt16(int16(r.Uint32()))
	case TagInt32:
		return a.NewInt32(int32(r.Uint32()))
	case TagInt64:
		return a.NewInt64(int64(r.Uint64()))
	case TagUint8:
		return a.NewUint8(uint8(r.Uint32()))
	case TagUint16:
		return a.NewUint16(uint16(r.Uint32()))
	case TagUint32:
		return a.NewUint32(r.Uint32())
	case TagUint64:
		return a.NewUint64(r.Uint64())
	case TagFloat32:
		return a.NewFloat32(float32(genFloat(r)))
	case TagFloat64:
		return a.NewFloat64(genFloat(r))
	case TagString:
		b := make([]byte, r.IntN(10))
		for i := range b {
			b[i] = byte(r.Uint32())
		}
		return a.NewStringBytes(b)
	case TagCompound:
		c := a.NewCompound()
		for i := range r.IntN(5) {
			ensure(a.SetCompound(c, "k"+strconv.Itoa(i), genTree(a, r, depth+1)))
		}
		return c
	case TagArray:
		elem := genTag(r, depth+1)
		arr := must(a.NewArrayOf(elem))
		for range r.IntN(4) {
			ensure(a.Append(arr, genValue(a, r, elem, depth+1)))
		}
		return arr
	default:
		panic("unreachable")
	}
}
