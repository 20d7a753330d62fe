package inbf

import (
	"fmt"
	"strconv"
	"strings"
)

// Lookup follows path from h and returns a borrowed handle to the Value it
// names. A path is a sequence of compound keys separated by dots, with array
// indices in brackets:
//
//	players[0].inventory.items[3]
//
// Keys containing '.', '[' or ']' cannot be addressed. The empty path names h
// itself. Failures carry the kind of the failing step; a syntactically
// invalid path is ErrMalformed.
func (a *Arena) Lookup(h Handle, path string) (Handle, error) {
	const op = "Lookup"
	if _, err := a.lookup(op, h); err != nil {
		return Handle{}, err
	}
	cur := h
	rest := path
	first := true
	for rest != "" {
		var err error
		switch {
		case rest[0] == '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return Handle{}, errf(op, ErrMalformed, "unterminated index in %q", path)
			}
			i, perr := strconv.Atoi(rest[1:end])
			if perr != nil {
				return Handle{}, errf(op, ErrMalformed, "bad index %q in %q", rest[1:end], path)
			}
			cur, err = a.ArrayElem(cur, i)
			rest = rest[end+1:]
		default:
			if !first {
				if rest[0] != '.' {
					return Handle{}, errf(op, ErrMalformed, "expected '.' or '[' at %q in %q", rest, path)
				}
				rest = rest[1:]
			}
			end := strings.IndexAny(rest, ".[]")
			if end < 0 {
				end = len(rest)
			}
			if end == 0 {
				return Handle{}, errf(op, ErrMalformed, "empty key in %q", path)
			}
			cur, err = a.Compound(cur, rest[:end])
			rest = rest[end:]
		}
		if err != nil {
			consumed := path[:len(path)-len(rest)]
			return Handle{}, fmt.Errorf("%s: %w", consumed, err)
		}
		first = false
	}
	return cur, nil
}
