package inbf

import (
	"strconv"
	"strings"
)

type DumpFlags uint64

const (
	// DumpMultiline puts every compound entry and array element on its own line.
	DumpMultiline = DumpFlags(1 << iota)
	// DumpHandles annotates containers with their handles.
	DumpHandles

	indentStep = "  "
)

func (f DumpFlags) Contains(v DumpFlags) bool {
	return (f & v) == v
}

// Dump renders the tree at h in a compact human-readable form, e.g.
//
//	{a: 24f32, b: "uwu?", c: [1i8, 2i8], d: []u16}
//
// Scalars carry their tag as a suffix; empty arrays show their element tag.
func (a *Arena) Dump(h Handle) string {
	return a.DumpWith(h, 0)
}

func (a *Arena) DumpWith(h Handle, f DumpFlags) string {
	if a.resolve(h) == nil {
		return "<invalid " + h.String() + ">"
	}
	var buf strings.Builder
	a.dump(&buf, f, "", h.idx)
	return buf.String()
}

func (a *Arena) dump(w *strings.Builder, f DumpFlags, indent string, i uint32) {
	s := &a.slots[i]
	switch s.tag {
	case TagString:
		w.WriteString(strconv.Quote(s.str))
	case TagCompound:
		a.dumpHandle(w, f, i)
		w.WriteByte('{')
		for j, ci := range s.kids {
			a.dumpSep(w, f, indent, j)
			w.WriteString(dumpKey(s.keys[j]))
			w.WriteString(": ")
			a.dump(w, f, indent+indentStep, ci)
		}
		a.dumpClose(w, f, indent, len(s.kids))
		w.WriteByte('}')
	case TagArray:
		a.dumpHandle(w, f, i)
		w.WriteByte('[')
		for j, ei := range s.kids {
			a.dumpSep(w, f, indent, j)
			a.dump(w, f, indent+indentStep, ei)
		}
		a.dumpClose(w, f, indent, len(s.kids))
		w.WriteByte(']')
		if len(s.kids) == 0 {
			w.WriteString(s.elem.String())
		}
	default:
		w.WriteString(formatScalar(s.tag, s.bits))
		w.WriteString(s.tag.String())
	}
}

func (a *Arena) dumpHandle(w *strings.Builder, f DumpFlags, i uint32) {
	if f.Contains(DumpHandles) {
		w.WriteString(a.handleAt(i).String())
		w.WriteByte(' ')
	}
}

func (a *Arena) dumpSep(w *strings.Builder, f DumpFlags, indent string, j int) {
	if f.Contains(DumpMultiline) {
		if j > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('\n')
		w.WriteString(indent)
		w.WriteString(indentStep)
	} else if j > 0 {
		w.WriteString(", ")
	}
}

func (a *Arena) dumpClose(w *strings.Builder, f DumpFlags, indent string, n int) {
	if f.Contains(DumpMultiline) && n > 0 {
		w.WriteByte('\n')
		w.WriteString(indent)
	}
}

func dumpKey(k string) string {
	if k == "" {
		return `""`
	}
	for _, c := range k {
		if !(c == '_' || c == '-' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return strconv.Quote(k)
		}
	}
	return k
}
