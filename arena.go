package inbf

import (
	"math"
	"strconv"
)

// Handle addresses a Value inside an Arena. A handle is a slot index paired
// with the slot's generation; once the Value is destroyed the generation moves
// on and the handle stops resolving. The zero Handle never resolves.
//
// Handles obtained from container getters are borrows: the container stays
// the owner, and the handle goes stale when the child is removed, replaced or
// destroyed along with its container.
//
// A handle does not record its arena. Passing it to a different Arena is a
// caller error: it may fail with ErrInvalidHandle or resolve to an unrelated
// Value that happens to occupy the same slot and generation there. Use Clone
// to move trees between arenas.
type Handle struct {
	idx uint32
	gen uint32
}

func (h Handle) IsZero() bool { return h.gen == 0 }

func (h Handle) String() string {
	if h.gen == 0 {
		return "#nil"
	}
	return "#" + strconv.FormatUint(uint64(h.idx), 10) + "." + strconv.FormatUint(uint64(h.gen), 10)
}

// slot holds one Value. A free slot has tag == TagInvalid.
type slot struct {
	gen    uint32
	tag    Tag
	elem   Tag    // arrays only
	parent uint32 // owning container's index + 1; 0 when owned by the caller
	bits   uint64 // scalar payload; floats are stored as IEEE bits of their own width
	str    string
	kids   []uint32
	keys   []string       // compounds only, parallel to kids
	index  map[string]int // compounds only, key -> position in kids
}

// Arena owns a forest of Values. Every Value has exactly one owner: either
// the caller (a root) or one container within the same arena.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	slots []slot
	free  []uint32
	live  int
}

func NewArena() *Arena {
	return &Arena{}
}

// Live returns the number of Values currently allocated in the arena.
func (a *Arena) Live() int {
	return a.live
}

func (a *Arena) alloc(tag Tag) uint32 {
	var i uint32
	if n := len(a.free); n > 0 {
		i = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		if len(a.slots) >= math.MaxUint32 {
			panic("inbf: arena is full")
		}
		i = uint32(len(a.slots))
		a.slots = append(a.slots, slot{gen: 1})
	}
	a.slots[i].tag = tag
	a.live++
	return i
}

func (a *Arena) release(i uint32) {
	s := &a.slots[i]
	gen := s.gen + 1
	if gen == 0 {
		gen = 1
	}
	*s = slot{gen: gen}
	a.free = append(a.free, i)
	a.live--
}

func (a *Arena) handleAt(i uint32) Handle {
	return Handle{i, a.slots[i].gen}
}

func (a *Arena) resolve(h Handle) *slot {
	if h.gen == 0 || int(h.idx) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.idx]
	if s.gen != h.gen || s.tag == TagInvalid {
		return nil
	}
	return s
}

// lookup resolves h or returns ErrInvalidHandle. The returned pointer is only
// valid until the next allocation.
func (a *Arena) lookup(op string, h Handle) (*slot, error) {
	s := a.resolve(h)
	if s == nil {
		if h.IsZero() {
			return nil, errf(op, ErrInvalidHandle, "zero handle")
		}
		return nil, errf(op, ErrInvalidHandle, "%v is stale or was never allocated", h)
	}
	return s, nil
}

func (a *Arena) lookupTag(op string, h Handle, want Tag) (*slot, error) {
	s, err := a.lookup(op, h)
	if err != nil {
		return nil, err
	}
	if s.tag != want {
		return nil, errf(op, ErrTypeMismatch, "value is %v, wanted %v", s.tag, want)
	}
	return s, nil
}

// Valid reports whether h currently resolves to a live Value.
func (a *Arena) Valid(h Handle) bool {
	return a.resolve(h) != nil
}

// Tag returns the tag of the Value h refers to.
func (a *Arena) Tag(h Handle) (Tag, error) {
	s, err := a.lookup("Tag", h)
	if err != nil {
		return TagInvalid, err
	}
	return s.tag, nil
}

// Len returns the number of entries of a compound, elements of an array,
// or bytes of a string.
func (a *Arena) Len(h Handle) (int, error) {
	s, err := a.lookup("Len", h)
	if err != nil {
		return 0, err
	}
	switch s.tag {
	case TagCompound, TagArray:
		return len(s.kids), nil
	case TagString:
		return len(s.str), nil
	default:
		return 0, errf("Len", ErrTypeMismatch, "%v has no length", s.tag)
	}
}

// IsOwned reports whether h is a child of some container. Owned Values
// cannot be destroyed or inserted elsewhere.
func (a *Arena) IsOwned(h Handle) bool {
	s := a.resolve(h)
	return s != nil && s.parent != 0
}

// Destroy frees h and, for containers, everything below it. Only
// caller-owned Values can be destroyed; children go away with their container
// or through RemoveCompound/RemoveAt.
func (a *Arena) Destroy(h Handle) error {
	const op = "Destroy"
	s, err := a.lookup(op, h)
	if err != nil {
		return err
	}
	if s.parent != 0 {
		return errf(op, ErrOwned, "%v is owned by %v", h, a.handleAt(s.parent-1))
	}
	a.destroyTree(h.idx)
	return nil
}

// destroyTree releases the subtree rooted at slot i, children before parents.
func (a *Arena) destroyTree(root uint32) {
	order := []uint32{root}
	for j := 0; j < len(order); j++ {
		order = append(order, a.slots[order[j]].kids...)
	}
	for j := len(order) - 1; j >= 0; j-- {
		a.release(order[j])
	}
}

// adopt validates that child can become a child of the container at slot
// parent and links it. The caller is responsible for storing the returned
// index in the container.
func (a *Arena) adopt(op string, parent uint32, child Handle) (uint32, error) {
	cs, err := a.lookup(op, child)
	if err != nil {
		return 0, err
	}
	if cs.parent != 0 {
		return 0, errf(op, ErrOwned, "%v is already owned by %v", child, a.handleAt(cs.parent-1))
	}
	for p := parent; ; {
		if p == child.idx {
			return 0, errf(op, ErrCycle, "%v is the container or one of its ancestors", child)
		}
		up := a.slots[p].parent
		if up == 0 {
			break
		}
		p = up - 1
	}
	cs.parent = parent + 1
	return child.idx, nil
}
