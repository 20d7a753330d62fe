package inbf

import (
	"encoding/binary"
	"io"
	"math"
)

func appendUvarint(buf []byte, v uint64) []byte {
	return binary.AppendUvarint(buf, v)
}

func appendVarstring(buf []byte, v string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(v)))
	return append(buf, v...)
}

// appendFixed appends the low width bytes of v, little-endian.
func appendFixed(buf []byte, v uint64, width int) []byte {
	switch width {
	case 1:
		return append(buf, byte(v))
	case 2:
		return binary.LittleEndian.AppendUint16(buf, uint16(v))
	case 4:
		return binary.LittleEndian.AppendUint32(buf, uint32(v))
	case 8:
		return binary.LittleEndian.AppendUint64(buf, v)
	default:
		panic("unreachable")
	}
}

// bytesBuilder adapts an append-style buffer to io.Writer.
type bytesBuilder struct {
	Buf []byte
}

var _ io.ByteWriter = (*bytesBuilder)(nil)

func (bb *bytesBuilder) Write(b []byte) (int, error) {
	bb.Buf = append(bb.Buf, b...)
	return len(b), nil
}

func (bb *bytesBuilder) WriteByte(v byte) error {
	bb.Buf = append(bb.Buf, v)
	return nil
}

// byteDecoder consumes data from the front. Errors are *DataError values
// pointing at the offset of the failed read.
type byteDecoder struct {
	data []byte
	rest []byte
}

func makeByteDecoder(data []byte) byteDecoder {
	return byteDecoder{data: data, rest: data}
}

func (d *byteDecoder) Off() int       { return len(d.data) - len(d.rest) }
func (d *byteDecoder) Remaining() int { return len(d.rest) }

func (d *byteDecoder) short(n int) error {
	return dataErrf(d.data, d.Off(), io.ErrUnexpectedEOF, "not enough data: %d bytes remaining, %d wanted", len(d.rest), n)
}

func (d *byteDecoder) Byte() (byte, error) {
	if len(d.rest) == 0 {
		return 0, d.short(1)
	}
	v := d.rest[0]
	d.rest = d.rest[1:]
	return v, nil
}

func (d *byteDecoder) Uvarint() (uint64, error) {
	v, n := binary.Uvarint(d.rest)
	if n <= 0 {
		return 0, dataErrf(d.data, d.Off(), nil, "invalid uvarint")
	}
	d.rest = d.rest[n:]
	return v, nil
}

// Uvarinti reads a uvarint that must fit into int.
func (d *byteDecoder) Uvarinti() (int, error) {
	off := d.Off()
	v, err := d.Uvarint()
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt {
		return 0, dataErrf(d.data, off, nil, "value does not fit into int: %d", v)
	}
	return int(v), nil
}

// Raw returns the next n bytes without copying.
func (d *byteDecoder) Raw(n int) ([]byte, error) {
	if n > len(d.rest) {
		return nil, d.short(n)
	}
	v := d.rest[:n:n]
	d.rest = d.rest[n:]
	return v, nil
}

func (d *byteDecoder) VarBytes() ([]byte, error) {
	n, err := d.Uvarinti()
	if err != nil {
		return nil, err
	}
	return d.Raw(n)
}

// Fixed reads a little-endian unsigned integer of the given width.
func (d *byteDecoder) Fixed(width int) (uint64, error) {
	b, err := d.Raw(width)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := width - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}
