package inbf

import "math"

func (a *Arena) newScalar(tag Tag, bits uint64) Handle {
	i := a.alloc(tag)
	a.slots[i].bits = bits
	return a.handleAt(i)
}

func (a *Arena) NewInt8(v int8) Handle     { return a.newScalar(TagInt8, uint64(v)) }
func (a *Arena) NewInt16(v int16) Handle   { return a.newScalar(TagInt16, uint64(v)) }
func (a *Arena) NewInt32(v int32) Handle   { return a.newScalar(TagInt32, uint64(v)) }
func (a *Arena) NewInt64(v int64) Handle   { return a.newScalar(TagInt64, uint64(v)) }
func (a *Arena) NewUint8(v uint8) Handle   { return a.newScalar(TagUint8, uint64(v)) }
func (a *Arena) NewUint16(v uint16) Handle { return a.newScalar(TagUint16, uint64(v)) }
func (a *Arena) NewUint32(v uint32) Handle { return a.newScalar(TagUint32, uint64(v)) }
func (a *Arena) NewUint64(v uint64) Handle { return a.newScalar(TagUint64, v) }

func (a *Arena) NewFloat32(v float32) Handle {
	return a.newScalar(TagFloat32, uint64(math.Float32bits(v)))
}

func (a *Arena) NewFloat64(v float64) Handle {
	return a.newScalar(TagFloat64, math.Float64bits(v))
}

// NewString creates a string Value. Go strings are immutable, so the Value
// never aliases memory the caller can still modify.
func (a *Arena) NewString(v string) Handle {
	i := a.alloc(TagString)
	a.slots[i].str = v
	return a.handleAt(i)
}

// NewStringBytes creates a string Value from a copy of b.
func (a *Arena) NewStringBytes(b []byte) Handle {
	return a.NewString(string(b))
}

// NewCompound creates an empty compound.
func (a *Arena) NewCompound() Handle {
	i := a.alloc(TagCompound)
	a.slots[i].index = make(map[string]int)
	return a.handleAt(i)
}

// NewArray creates an array whose element tag is the tag of first, and moves
// first into it as element 0. It fails only if first does not resolve or is
// already owned by a container.
func (a *Arena) NewArray(first Handle) (Handle, error) {
	const op = "NewArray"
	fs, err := a.lookup(op, first)
	if err != nil {
		return Handle{}, err
	}
	if fs.parent != 0 {
		return Handle{}, errf(op, ErrOwned, "%v is already owned by %v", first, a.handleAt(fs.parent-1))
	}
	elem := fs.tag
	i := a.alloc(TagArray)
	s := &a.slots[i]
	s.elem = elem
	s.kids = []uint32{first.idx}
	a.slots[first.idx].parent = i + 1
	return a.handleAt(i), nil
}

// NewArrayOf creates an empty array of the given element tag.
func (a *Arena) NewArrayOf(elem Tag) (Handle, error) {
	if !elem.Valid() {
		return Handle{}, errf("NewArrayOf", ErrTypeMismatch, "invalid element tag %v", elem)
	}
	i := a.alloc(TagArray)
	a.slots[i].elem = elem
	return a.handleAt(i), nil
}

func (a *Arena) scalar(op string, h Handle, want Tag) (uint64, error) {
	s, err := a.lookupTag(op, h, want)
	if err != nil {
		return 0, err
	}
	return s.bits, nil
}

func (a *Arena) Int8(h Handle) (int8, error) {
	v, err := a.scalar("Int8", h, TagInt8)
	return int8(v), err
}

func (a *Arena) Int16(h Handle) (int16, error) {
	v, err := a.scalar("Int16", h, TagInt16)
	return int16(v), err
}

func (a *Arena) Int32(h Handle) (int32, error) {
	v, err := a.scalar("Int32", h, TagInt32)
	return int32(v), err
}

func (a *Arena) Int64(h Handle) (int64, error) {
	v, err := a.scalar("Int64", h, TagInt64)
	return int64(v), err
}

func (a *Arena) Uint8(h Handle) (uint8, error) {
	v, err := a.scalar("Uint8", h, TagUint8)
	return uint8(v), err
}

func (a *Arena) Uint16(h Handle) (uint16, error) {
	v, err := a.scalar("Uint16", h, TagUint16)
	return uint16(v), err
}

func (a *Arena) Uint32(h Handle) (uint32, error) {
	v, err := a.scalar("Uint32", h, TagUint32)
	return uint32(v), err
}

func (a *Arena) Uint64(h Handle) (uint64, error) {
	return a.scalar("Uint64", h, TagUint64)
}

func (a *Arena) Float32(h Handle) (float32, error) {
	v, err := a.scalar("Float32", h, TagFloat32)
	return math.Float32frombits(uint32(v)), err
}

func (a *Arena) Float64(h Handle) (float64, error) {
	v, err := a.scalar("Float64", h, TagFloat64)
	return math.Float64frombits(v), err
}

// String returns the contents of a string Value. The result is a copy in the
// sense that matters: it stays valid after the Value is destroyed and needs no
// release.
func (a *Arena) String(h Handle) (string, error) {
	s, err := a.lookupTag("String", h, TagString)
	if err != nil {
		return "", err
	}
	return s.str, nil
}
