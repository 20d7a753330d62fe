package inbf

// MaxDepth limits container nesting. The outermost container is level 1.
// Decoders reject deeper input as ErrMalformed, and encoders refuse deeper
// trees with ErrTooDeep, so everything they produce decodes again.
const MaxDepth = 512

// checkDepth fails with ErrTooDeep if containers below i, counting i itself,
// nest deeper than MaxDepth.
func (a *Arena) checkDepth(op string, i uint32) error {
	type level struct {
		i     uint32
		depth int
	}
	if !a.slots[i].tag.IsContainer() {
		return nil
	}
	stack := []level{{i, 1}}
	for len(stack) > 0 {
		l := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if l.depth > MaxDepth {
			return errf(op, ErrTooDeep, "more than %d levels", MaxDepth)
		}
		for _, k := range a.slots[l.i].kids {
			if a.slots[k].tag.IsContainer() {
				stack = append(stack, level{k, l.depth + 1})
			}
		}
	}
	return nil
}

// Encode appends the wire encoding of the tree rooted at h to buf. h may be a
// root or a borrowed child; only its subtree is encoded. A tree nested deeper
// than MaxDepth fails with ErrTooDeep.
func (a *Arena) Encode(buf []byte, h Handle) ([]byte, error) {
	if _, err := a.lookup("Encode", h); err != nil {
		return buf, err
	}
	if err := a.checkDepth("Encode", h.idx); err != nil {
		return buf, err
	}
	s := &a.slots[h.idx]
	buf = append(buf, byte(s.tag))
	return a.appendPayload(buf, h.idx), nil
}

func (a *Arena) appendPayload(buf []byte, i uint32) []byte {
	s := &a.slots[i]
	switch s.tag {
	case TagString:
		return appendVarstring(buf, s.str)
	case TagCompound:
		buf = appendUvarint(buf, uint64(len(s.kids)))
		for j, ci := range s.kids {
			buf = appendVarstring(buf, s.keys[j])
			buf = append(buf, byte(a.slots[ci].tag))
			buf = a.appendPayload(buf, ci)
		}
		return buf
	case TagArray:
		buf = append(buf, byte(s.elem))
		buf = appendUvarint(buf, uint64(len(s.kids)))
		for _, ei := range s.kids {
			buf = a.appendPayload(buf, ei)
		}
		return buf
	default:
		return appendFixed(buf, s.bits, s.tag.width())
	}
}

// Decode parses one encoded Value and returns a new caller-owned tree. The
// tree does not alias data. On failure nothing is left allocated in the arena
// and the error wraps a *DataError of kind ErrMalformed.
func (a *Arena) Decode(data []byte) (Handle, error) {
	d := treeDecoder{a: a, bd: makeByteDecoder(data)}
	tag, err := d.tag()
	if err != nil {
		return Handle{}, decodeErr(err)
	}
	i, err := d.value(tag, 0)
	if err != nil {
		return Handle{}, decodeErr(err)
	}
	if n := d.bd.Remaining(); n > 0 {
		a.destroyTree(i)
		return Handle{}, decodeErr(dataErrf(data, d.bd.Off(), nil, "%d trailing bytes", n))
	}
	return a.handleAt(i), nil
}

func decodeErr(err error) error {
	return &Error{Op: "Decode", Kind: ErrMalformed, Err: err}
}

type treeDecoder struct {
	a  *Arena
	bd byteDecoder
}

func (d *treeDecoder) tag() (Tag, error) {
	off := d.bd.Off()
	b, err := d.bd.Byte()
	if err != nil {
		return TagInvalid, err
	}
	tag := Tag(b)
	if !tag.Valid() {
		return TagInvalid, dataErrf(d.bd.data, off, nil, "invalid tag byte 0x%02x", b)
	}
	return tag, nil
}

// signExtend converts a raw little-endian payload to the in-memory scalar
// representation, which keeps signed values sign-extended to 64 bits.
func signExtend(tag Tag, raw uint64) uint64 {
	switch tag {
	case TagInt8:
		return uint64(int8(raw))
	case TagInt16:
		return uint64(int16(raw))
	case TagInt32:
		return uint64(int32(raw))
	default:
		return raw
	}
}

// value decodes the payload of a tag and returns the index of the new
// subtree. On error, everything it allocated has been released.
func (d *treeDecoder) value(tag Tag, depth int) (uint32, error) {
	switch tag {
	case TagString:
		b, err := d.bd.VarBytes()
		if err != nil {
			return 0, err
		}
		i := d.a.alloc(TagString)
		d.a.slots[i].str = string(b)
		return i, nil
	case TagCompound:
		return d.compound(depth + 1)
	case TagArray:
		return d.array(depth + 1)
	default:
		raw, err := d.bd.Fixed(tag.width())
		if err != nil {
			return 0, err
		}
		i := d.a.alloc(tag)
		d.a.slots[i].bits = signExtend(tag, raw)
		return i, nil
	}
}

func (d *treeDecoder) checkDepth(depth int) error {
	if depth > MaxDepth {
		return dataErrf(d.bd.data, d.bd.Off(), nil, "nesting deeper than %d", MaxDepth)
	}
	return nil
}

func (d *treeDecoder) count(minSize int) (int, error) {
	off := d.bd.Off()
	n, err := d.bd.Uvarinti()
	if err != nil {
		return 0, err
	}
	if n > d.bd.Remaining()/minSize {
		return 0, dataErrf(d.bd.data, off, nil, "count %d exceeds remaining %d bytes", n, d.bd.Remaining())
	}
	return n, nil
}

func (d *treeDecoder) compound(depth int) (uint32, error) {
	if err := d.checkDepth(depth); err != nil {
		return 0, err
	}
	// an entry is at least a key length, a tag and a one-byte payload
	n, err := d.count(3)
	if err != nil {
		return 0, err
	}
	ci := d.a.alloc(TagCompound)
	d.a.slots[ci].index = make(map[string]int, n)
	fail := func(err error) (uint32, error) {
		d.a.destroyTree(ci)
		return 0, err
	}
	for j := 0; j < n; j++ {
		keyOff := d.bd.Off()
		kb, err := d.bd.VarBytes()
		if err != nil {
			return fail(err)
		}
		key := string(kb)
		if _, dup := d.a.slots[ci].index[key]; dup {
			return fail(dataErrf(d.bd.data, keyOff, nil, "duplicate key %q", key))
		}
		tag, err := d.tag()
		if err != nil {
			return fail(err)
		}
		vi, err := d.value(tag, depth)
		if err != nil {
			return fail(err)
		}
		s := &d.a.slots[ci]
		s.index[key] = len(s.kids)
		s.keys = append(s.keys, key)
		s.kids = append(s.kids, vi)
		d.a.slots[vi].parent = ci + 1
	}
	return ci, nil
}

func (d *treeDecoder) array(depth int) (uint32, error) {
	if err := d.checkDepth(depth); err != nil {
		return 0, err
	}
	elem, err := d.tag()
	if err != nil {
		return 0, err
	}
	n, err := d.count(1)
	if err != nil {
		return 0, err
	}
	ai := d.a.alloc(TagArray)
	d.a.slots[ai].elem = elem
	d.a.slots[ai].kids = make([]uint32, 0, n)
	for j := 0; j < n; j++ {
		vi, err := d.value(elem, depth)
		if err != nil {
			d.a.destroyTree(ai)
			return 0, err
		}
		s := &d.a.slots[ai]
		s.kids = append(s.kids, vi)
		d.a.slots[vi].parent = ai + 1
	}
	return ai, nil
}
