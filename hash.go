package inbf

import (
	"github.com/cespare/xxhash/v2"
)

// Hash returns the xxhash64 of the wire encoding of h. Compound insertion
// order is part of the encoding and therefore of the hash. Like Encode, it
// fails with ErrTooDeep for trees nested deeper than MaxDepth.
func (a *Arena) Hash(h Handle) (uint64, error) {
	buf, err := a.Encode(nil, h)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(buf), nil
}

// Equal reports whether the tree at x in a and the tree at y in b hold the
// same tags and values. Floats compare by bits, so NaNs with equal payloads
// are equal and 0 differs from -0. Compounds must list their keys in the same
// order. Handles that do not resolve are never equal.
func Equal(a *Arena, x Handle, b *Arena, y Handle) bool {
	if a.resolve(x) == nil || b.resolve(y) == nil {
		return false
	}
	return equalAt(a, x.idx, b, y.idx)
}

func equalAt(a *Arena, i uint32, b *Arena, j uint32) bool {
	s, t := &a.slots[i], &b.slots[j]
	if s.tag != t.tag {
		return false
	}
	switch s.tag {
	case TagString:
		return s.str == t.str
	case TagCompound:
		if len(s.kids) != len(t.kids) {
			return false
		}
		for k := range s.kids {
			if s.keys[k] != t.keys[k] || !equalAt(a, s.kids[k], b, t.kids[k]) {
				return false
			}
		}
		return true
	case TagArray:
		if s.elem != t.elem || len(s.kids) != len(t.kids) {
			return false
		}
		for k := range s.kids {
			if !equalAt(a, s.kids[k], b, t.kids[k]) {
				return false
			}
		}
		return true
	default:
		return s.bits == t.bits
	}
}

// Clone deep-copies the tree at h in src into dst and returns the new,
// caller-owned root. dst and src may be the same arena.
func Clone(dst, src *Arena, h Handle) (Handle, error) {
	if _, err := src.lookup("Clone", h); err != nil {
		return Handle{}, err
	}
	return dst.handleAt(cloneAt(dst, src, h.idx)), nil
}

func cloneAt(dst, src *Arena, i uint32) uint32 {
	s := src.slots[i] // copied: dst.alloc may move src.slots when dst == src
	ni := dst.alloc(s.tag)
	switch s.tag {
	case TagCompound:
		dst.slots[ni].index = make(map[string]int, len(s.kids))
		for k, ci := range s.kids {
			nc := cloneAt(dst, src, ci)
			d := &dst.slots[ni]
			d.index[s.keys[k]] = k
			d.keys = append(d.keys, s.keys[k])
			d.kids = append(d.kids, nc)
			dst.slots[nc].parent = ni + 1
		}
	case TagArray:
		dst.slots[ni].elem = s.elem
		for _, ei := range s.kids {
			nc := cloneAt(dst, src, ei)
			d := &dst.slots[ni]
			d.kids = append(d.kids, nc)
			dst.slots[nc].parent = ni + 1
		}
	default:
		d := &dst.slots[ni]
		d.bits = s.bits
		d.str = s.str
	}
	return ni
}
