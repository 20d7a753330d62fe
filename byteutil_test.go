package inbf

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

func TestByteUtil_AppendHelpers(t *testing.T) {
	buf := appendUvarint(nil, 300)
	deepEqual(t, buf, []byte{0xac, 0x02})

	buf = appendVarstring(buf, "hi")
	deepEqual(t, buf, []byte{0xac, 0x02, 0x02, 'h', 'i'})

	deepEqual(t, appendFixed(nil, 0xff, 1), []byte{0xff})
	deepEqual(t, appendFixed(nil, 0x0102, 2), []byte{0x02, 0x01})
	deepEqual(t, appendFixed(nil, 0x01020304, 4), []byte{0x04, 0x03, 0x02, 0x01})
	deepEqual(t, appendFixed(nil, 0x0102030405060708, 8), []byte{8, 7, 6, 5, 4, 3, 2, 1})

	// only the low bytes are written
	deepEqual(t, appendFixed(nil, math.MaxUint64, 2), []byte{0xff, 0xff})
}

func TestBytesBuilder(t *testing.T) {
	var bb bytesBuilder
	_, _ = bb.Write([]byte{9, 8})
	_ = bb.WriteByte(7)
	deepEqual(t, bb.Buf, []byte{9, 8, 7})
}

func TestByteDecoder(t *testing.T) {
	data := binary.AppendUvarint(nil, 1000)
	data = append(data, 0x34, 0x12)
	data = appendVarstring(data, "abc")
	d := makeByteDecoder(data)

	eq(t, must(d.Uvarinti()), 1000)
	eq(t, must(d.Fixed(2)), uint64(0x1234))
	eq(t, string(must(d.VarBytes())), "abc")
	eq(t, d.Remaining(), 0)
	eq(t, d.Off(), len(data))

	_, err := d.Byte()
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("Byte at end = %v, wanted io.ErrUnexpectedEOF", err)
	}
}

func TestByteDecoder_Errors(t *testing.T) {
	d := makeByteDecoder([]byte{0x80})
	_, err := d.Uvarint()
	var de *DataError
	if !errors.As(err, &de) {
		t.Fatalf("err = %T, wanted *DataError", err)
	}

	d = makeByteDecoder(binary.AppendUvarint(nil, math.MaxUint64))
	_, err = d.Uvarinti()
	if err == nil {
		t.Fatal("Uvarinti accepted a value beyond MaxInt")
	}

	d = makeByteDecoder([]byte{1, 2, 3})
	_, err = d.Fixed(4)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("Fixed(4) = %v, wanted io.ErrUnexpectedEOF", err)
	}
	eq(t, d.Off(), 0)

	d = makeByteDecoder([]byte{0x05, 'a'})
	_, err = d.VarBytes()
	eq(t, KindOf(err), ErrMalformed)
}
