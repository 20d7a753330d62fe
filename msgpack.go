package inbf

import (
	"bytes"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// msgpackEmptyArrayExt is the msgpack extension type carrying the element tag
// of an empty array, which a plain msgpack array cannot express.
const msgpackEmptyArrayExt int8 = 1

// EncodeMsgPack renders the tree at h as MessagePack. Scalars use the
// fixed-width codes of their tag (int8 as 0xd0, float32 as 0xca and so on),
// so DecodeMsgPack restores the same tags. Trees deeper than MaxDepth fail
// with ErrTooDeep.
func (a *Arena) EncodeMsgPack(h Handle) ([]byte, error) {
	if _, err := a.lookup("EncodeMsgPack", h); err != nil {
		return nil, err
	}
	if err := a.checkDepth("EncodeMsgPack", h.idx); err != nil {
		return nil, err
	}
	var bb bytesBuilder
	enc := msgpack.GetEncoder()
	enc.Reset(&bb)
	err := a.encodeMsgPack(enc, h.idx)
	msgpack.PutEncoder(enc)
	if err != nil {
		return nil, &Error{Op: "EncodeMsgPack", Kind: ErrMalformed, Err: err}
	}
	return bb.Buf, nil
}

func (a *Arena) encodeMsgPack(enc *msgpack.Encoder, i uint32) error {
	s := &a.slots[i]
	switch s.tag {
	case TagInt8:
		return enc.EncodeInt8(int8(s.bits))
	case TagInt16:
		return enc.EncodeInt16(int16(s.bits))
	case TagInt32:
		return enc.EncodeInt32(int32(s.bits))
	case TagInt64:
		return enc.EncodeInt64(int64(s.bits))
	case TagUint8:
		return enc.EncodeUint8(uint8(s.bits))
	case TagUint16:
		return enc.EncodeUint16(uint16(s.bits))
	case TagUint32:
		return enc.EncodeUint32(uint32(s.bits))
	case TagUint64:
		return enc.EncodeUint64(s.bits)
	case TagFloat32:
		return enc.EncodeFloat32(math.Float32frombits(uint32(s.bits)))
	case TagFloat64:
		return enc.EncodeFloat64(math.Float64frombits(s.bits))
	case TagString:
		return enc.EncodeString(s.str)
	case TagCompound:
		if err := enc.EncodeMapLen(len(s.kids)); err != nil {
			return err
		}
		for j, ci := range s.kids {
			if err := enc.EncodeString(s.keys[j]); err != nil {
				return err
			}
			if err := a.encodeMsgPack(enc, ci); err != nil {
				return err
			}
		}
		return nil
	case TagArray:
		if len(s.kids) == 0 {
			if err := enc.EncodeExtHeader(msgpackEmptyArrayExt, 1); err != nil {
				return err
			}
			_, err := enc.Writer().Write([]byte{byte(s.elem)})
			return err
		}
		if err := enc.EncodeArrayLen(len(s.kids)); err != nil {
			return err
		}
		for _, ei := range s.kids {
			if err := a.encodeMsgPack(enc, ei); err != nil {
				return err
			}
		}
		return nil
	default:
		panic("unreachable")
	}
}

// DecodeMsgPack builds a new caller-owned tree from MessagePack data.
// Width-specific integer and float codes map to their tags, fixnums become
// i64, maps must have string keys, and arrays must be homogeneous. nil,
// booleans, binary and foreign extensions are rejected as ErrMalformed.
func (a *Arena) DecodeMsgPack(data []byte) (Handle, error) {
	const op = "DecodeMsgPack"
	var r bytes.Reader
	r.Reset(data)
	dec := msgpack.GetDecoder()
	dec.Reset(&r)
	md := msgpackDecoder{a: a, dec: dec, r: &r, data: data}
	i, err := md.value(0)
	msgpack.PutDecoder(dec)
	if err != nil {
		return Handle{}, md.wrap(op, err)
	}
	if n := r.Len(); n > 0 {
		a.destroyTree(i)
		return Handle{}, md.wrap(op, dataErrf(data, md.off(), nil, "%d trailing bytes", n))
	}
	return a.handleAt(i), nil
}

type msgpackDecoder struct {
	a    *Arena
	dec  *msgpack.Decoder
	r    *bytes.Reader
	data []byte
}

func (md *msgpackDecoder) off() int {
	return len(md.data) - md.r.Len()
}

func (md *msgpackDecoder) wrap(op string, err error) error {
	if e, ok := err.(*Error); ok {
		return e
	}
	if _, ok := err.(*DataError); !ok {
		err = dataErrf(md.data, md.off(), err, "invalid msgpack")
	}
	return &Error{Op: op, Kind: ErrMalformed, Err: err}
}

func (md *msgpackDecoder) newScalar(tag Tag, bits uint64) uint32 {
	i := md.a.alloc(tag)
	md.a.slots[i].bits = bits
	return i
}

func isMsgPackMap(c byte) bool {
	return msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32
}

func isMsgPackArray(c byte) bool {
	return msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32
}

func isMsgPackExt(c byte) bool {
	return (c >= msgpcode.FixExt1 && c <= msgpcode.FixExt16) || c == msgpcode.Ext8 || c == msgpcode.Ext16 || c == msgpcode.Ext32
}

func msgpackIntTag(c byte) Tag {
	switch c {
	case msgpcode.Int8:
		return TagInt8
	case msgpcode.Int16:
		return TagInt16
	case msgpcode.Int32:
		return TagInt32
	case msgpcode.Int64:
		return TagInt64
	case msgpcode.Uint8:
		return TagUint8
	case msgpcode.Uint16:
		return TagUint16
	case msgpcode.Uint32:
		return TagUint32
	case msgpcode.Uint64:
		return TagUint64
	default:
		return TagInvalid
	}
}

func (md *msgpackDecoder) value(depth int) (uint32, error) {
	off := md.off()
	c, err := md.dec.PeekCode()
	if err != nil {
		return 0, err
	}
	switch {
	case msgpcode.IsFixedNum(c):
		v, err := md.dec.DecodeInt64()
		if err != nil {
			return 0, err
		}
		return md.newScalar(TagInt64, uint64(v)), nil
	case msgpackIntTag(c) != TagInvalid:
		tag := msgpackIntTag(c)
		if tag <= TagInt64 {
			v, err := md.dec.DecodeInt64()
			if err != nil {
				return 0, err
			}
			return md.newScalar(tag, uint64(v)), nil
		}
		v, err := md.dec.DecodeUint64()
		if err != nil {
			return 0, err
		}
		return md.newScalar(tag, v), nil
	case c == msgpcode.Float:
		v, err := md.dec.DecodeFloat32()
		if err != nil {
			return 0, err
		}
		return md.newScalar(TagFloat32, uint64(math.Float32bits(v))), nil
	case c == msgpcode.Double:
		v, err := md.dec.DecodeFloat64()
		if err != nil {
			return 0, err
		}
		return md.newScalar(TagFloat64, math.Float64bits(v)), nil
	case msgpcode.IsString(c):
		v, err := md.dec.DecodeString()
		if err != nil {
			return 0, err
		}
		i := md.a.alloc(TagString)
		md.a.slots[i].str = v
		return i, nil
	case isMsgPackMap(c):
		return md.compound(depth + 1)
	case isMsgPackArray(c):
		return md.array(depth + 1)
	case isMsgPackExt(c):
		return md.emptyArray(depth + 1)
	default:
		return 0, dataErrf(md.data, off, nil, "unsupported msgpack code 0x%02x", c)
	}
}

func (md *msgpackDecoder) compound(depth int) (uint32, error) {
	if depth > MaxDepth {
		return 0, dataErrf(md.data, md.off(), nil, "nesting deeper than %d", MaxDepth)
	}
	n, err := md.dec.DecodeMapLen()
	if err != nil {
		return 0, err
	}
	ci := md.a.alloc(TagCompound)
	md.a.slots[ci].index = make(map[string]int, min(n, md.r.Len()))
	fail := func(err error) (uint32, error) {
		md.a.destroyTree(ci)
		return 0, err
	}
	for j := 0; j < n; j++ {
		keyOff := md.off()
		c, err := md.dec.PeekCode()
		if err != nil {
			return fail(err)
		}
		if !msgpcode.IsString(c) {
			return fail(dataErrf(md.data, keyOff, nil, "map key has code 0x%02x, wanted a string", c))
		}
		key, err := md.dec.DecodeString()
		if err != nil {
			return fail(err)
		}
		if _, dup := md.a.slots[ci].index[key]; dup {
			return fail(dataErrf(md.data, keyOff, nil, "duplicate key %q", key))
		}
		vi, err := md.value(depth)
		if err != nil {
			return fail(err)
		}
		s := &md.a.slots[ci]
		s.index[key] = len(s.kids)
		s.keys = append(s.keys, key)
		s.kids = append(s.kids, vi)
		md.a.slots[vi].parent = ci + 1
	}
	return ci, nil
}

func (md *msgpackDecoder) array(depth int) (uint32, error) {
	if depth > MaxDepth {
		return 0, dataErrf(md.data, md.off(), nil, "nesting deeper than %d", MaxDepth)
	}
	off := md.off()
	n, err := md.dec.DecodeArrayLen()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, dataErrf(md.data, off, nil, "cannot infer the element tag of an empty array")
	}
	var ai uint32
	for j := 0; j < n; j++ {
		vi, err := md.value(depth)
		if err != nil {
			if j > 0 {
				md.a.destroyTree(ai)
			}
			return 0, err
		}
		if j == 0 {
			ai = md.a.alloc(TagArray)
			md.a.slots[ai].elem = md.a.slots[vi].tag
		} else if tag, elem := md.a.slots[vi].tag, md.a.slots[ai].elem; tag != elem {
			md.a.destroyTree(vi)
			md.a.destroyTree(ai)
			return 0, errf("DecodeMsgPack", ErrTypeMismatch, "array of %v has a %v element at index %d", elem, tag, j)
		}
		s := &md.a.slots[ai]
		s.kids = append(s.kids, vi)
		md.a.slots[vi].parent = ai + 1
	}
	return ai, nil
}

func (md *msgpackDecoder) emptyArray(depth int) (uint32, error) {
	off := md.off()
	if depth > MaxDepth {
		return 0, dataErrf(md.data, off, nil, "nesting deeper than %d", MaxDepth)
	}
	id, n, err := md.dec.DecodeExtHeader()
	if err != nil {
		return 0, err
	}
	if id != msgpackEmptyArrayExt || n != 1 {
		return 0, dataErrf(md.data, off, nil, "unsupported msgpack extension %d of length %d", id, n)
	}
	var b [1]byte
	if err := md.dec.ReadFull(b[:]); err != nil {
		return 0, err
	}
	elem := Tag(b[0])
	if !elem.Valid() {
		return 0, dataErrf(md.data, off, nil, "invalid element tag byte 0x%02x", b[0])
	}
	ai := md.a.alloc(TagArray)
	md.a.slots[ai].elem = elem
	return ai, nil
}
