package inbf

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// EncodeJSON renders the tree at h as JSON. Compounds become objects with keys
// in insertion order, arrays become arrays and numbers keep their decimal
// value. Tags are not preserved. NaN and infinite floats have no JSON form and
// fail with ErrTypeMismatch, and trees deeper than MaxDepth fail with
// ErrTooDeep. Strings that are not valid UTF-8 fail with ErrTypeMismatch
// rather than being altered.
func (a *Arena) EncodeJSON(h Handle) ([]byte, error) {
	if _, err := a.lookup("EncodeJSON", h); err != nil {
		return nil, err
	}
	if err := a.checkDepth("EncodeJSON", h.idx); err != nil {
		return nil, err
	}
	return a.appendJSON(nil, h.idx)
}

func (a *Arena) appendJSON(buf []byte, i uint32) ([]byte, error) {
	s := &a.slots[i]
	switch s.tag {
	case TagString:
		return appendJSONString(buf, s.str)
	case TagCompound:
		buf = append(buf, '{')
		for j, ci := range s.kids {
			if j > 0 {
				buf = append(buf, ',')
			}
			var err error
			buf, err = appendJSONString(buf, s.keys[j])
			if err != nil {
				return nil, err
			}
			buf = append(buf, ':')
			buf, err = a.appendJSON(buf, ci)
			if err != nil {
				return nil, err
			}
		}
		return append(buf, '}'), nil
	case TagArray:
		buf = append(buf, '[')
		for j, ei := range s.kids {
			if j > 0 {
				buf = append(buf, ',')
			}
			var err error
			buf, err = a.appendJSON(buf, ei)
			if err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	default:
		if !isFinite(s.tag, s.bits) {
			return nil, errf("EncodeJSON", ErrTypeMismatch, "%s%v has no JSON representation", formatScalar(s.tag, s.bits), s.tag)
		}
		return append(buf, formatScalar(s.tag, s.bits)...), nil
	}
}

// appendJSONString refuses invalid UTF-8, which json.Marshal would silently
// replace with U+FFFD.
func appendJSONString(buf []byte, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, errf("EncodeJSON", ErrTypeMismatch, "string %q is not valid UTF-8", s)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		panic(err) // valid strings always marshal
	}
	return append(buf, raw...), nil
}

// DecodeJSON builds a new caller-owned tree from JSON. Integers become i64
// (or u64 when they only fit unsigned), other numbers f64, objects compounds
// in document order and arrays homogeneous arrays typed by their first
// element. null, booleans, empty arrays and duplicate keys are ErrMalformed;
// mixed arrays are ErrTypeMismatch.
func (a *Arena) DecodeJSON(data []byte) (Handle, error) {
	const op = "DecodeJSON"
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	jd := jsonDecoder{a: a, dec: dec, data: data}
	i, err := jd.next(0)
	if err != nil {
		return Handle{}, jd.wrap(op, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		a.destroyTree(i)
		return Handle{}, jd.wrap(op, dataErrf(data, int(dec.InputOffset()), err, "trailing data"))
	}
	return a.handleAt(i), nil
}

type jsonDecoder struct {
	a    *Arena
	dec  *json.Decoder
	data []byte
}

func (jd *jsonDecoder) wrap(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var de *DataError
	if !errors.As(err, &de) {
		err = dataErrf(jd.data, int(jd.dec.InputOffset()), err, "invalid JSON")
	}
	return &Error{Op: op, Kind: ErrMalformed, Err: err}
}

func (jd *jsonDecoder) next(depth int) (uint32, error) {
	off := int(jd.dec.InputOffset())
	tok, err := jd.dec.Token()
	if err != nil {
		return 0, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return jd.compound(depth + 1)
		case '[':
			return jd.array(off, depth+1)
		}
		return 0, dataErrf(jd.data, off, nil, "unexpected %v", t)
	case json.Number:
		return jd.number(off, t)
	case string:
		i := jd.a.alloc(TagString)
		jd.a.slots[i].str = t
		return i, nil
	default:
		return 0, dataErrf(jd.data, off, nil, "%T values are not supported", tok)
	}
}

func (jd *jsonDecoder) number(off int, n json.Number) (uint32, error) {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			i := jd.a.alloc(TagInt64)
			jd.a.slots[i].bits = uint64(v)
			return i, nil
		}
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			i := jd.a.alloc(TagUint64)
			jd.a.slots[i].bits = v
			return i, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, dataErrf(jd.data, off, err, "number %s out of range", s)
	}
	i := jd.a.alloc(TagFloat64)
	jd.a.slots[i].bits = math.Float64bits(f)
	return i, nil
}

func (jd *jsonDecoder) compound(depth int) (uint32, error) {
	if depth > MaxDepth {
		return 0, dataErrf(jd.data, int(jd.dec.InputOffset()), nil, "nesting deeper than %d", MaxDepth)
	}
	ci := jd.a.alloc(TagCompound)
	jd.a.slots[ci].index = make(map[string]int)
	fail := func(err error) (uint32, error) {
		jd.a.destroyTree(ci)
		return 0, err
	}
	for jd.dec.More() {
		keyOff := int(jd.dec.InputOffset())
		tok, err := jd.dec.Token()
		if err != nil {
			return fail(err)
		}
		key, ok := tok.(string)
		if !ok {
			return fail(dataErrf(jd.data, keyOff, nil, "object key is %T", tok))
		}
		if _, dup := jd.a.slots[ci].index[key]; dup {
			return fail(dataErrf(jd.data, keyOff, nil, "duplicate key %q", key))
		}
		vi, err := jd.next(depth)
		if err != nil {
			return fail(err)
		}
		s := &jd.a.slots[ci]
		s.index[key] = len(s.kids)
		s.keys = append(s.keys, key)
		s.kids = append(s.kids, vi)
		jd.a.slots[vi].parent = ci + 1
	}
	if _, err := jd.dec.Token(); err != nil {
		return fail(err)
	}
	return ci, nil
}

func (jd *jsonDecoder) array(off int, depth int) (uint32, error) {
	if depth > MaxDepth {
		return 0, dataErrf(jd.data, off, nil, "nesting deeper than %d", MaxDepth)
	}
	if !jd.dec.More() {
		return 0, dataErrf(jd.data, off, nil, "cannot infer the element tag of an empty array")
	}
	var ai uint32
	for j := 0; jd.dec.More(); j++ {
		vi, err := jd.next(depth)
		if err != nil {
			if j > 0 {
				jd.a.destroyTree(ai)
			}
			return 0, err
		}
		if j == 0 {
			ai = jd.a.alloc(TagArray)
			jd.a.slots[ai].elem = jd.a.slots[vi].tag
		} else if tag, elem := jd.a.slots[vi].tag, jd.a.slots[ai].elem; tag != elem {
			jd.a.destroyTree(vi)
			jd.a.destroyTree(ai)
			return 0, errf("DecodeJSON", ErrTypeMismatch, "array of %v has a %v element at index %d", elem, tag, j)
		}
		s := &jd.a.slots[ai]
		s.kids = append(s.kids, vi)
		jd.a.slots[vi].parent = ai + 1
	}
	if _, err := jd.dec.Token(); err != nil {
		jd.a.destroyTree(ai)
		return 0, err
	}
	return ai, nil
}
