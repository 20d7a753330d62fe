package inbf

import "iter"

// SetCompound stores child under key, taking ownership of child. If key is
// already present, the previous child is destroyed and child takes its place
// (and its position in iteration order). On error child remains owned by the
// caller.
func (a *Arena) SetCompound(target Handle, key string, child Handle) error {
	const op = "SetCompound"
	if _, err := a.lookupTag(op, target, TagCompound); err != nil {
		return err
	}
	ci, err := a.adopt(op, target.idx, child)
	if err != nil {
		return err
	}
	t := &a.slots[target.idx]
	if pos, ok := t.index[key]; ok {
		old := t.kids[pos]
		t.kids[pos] = ci
		a.slots[old].parent = 0
		a.destroyTree(old)
		return nil
	}
	t.index[key] = len(t.kids)
	t.keys = append(t.keys, key)
	t.kids = append(t.kids, ci)
	return nil
}

// Compound returns a borrowed handle to the child stored under key.
func (a *Arena) Compound(target Handle, key string) (Handle, error) {
	const op = "Compound"
	t, err := a.lookupTag(op, target, TagCompound)
	if err != nil {
		return Handle{}, err
	}
	pos, ok := t.index[key]
	if !ok {
		return Handle{}, errf(op, ErrKeyNotFound, "%q", key)
	}
	return a.handleAt(t.kids[pos]), nil
}

// HasKey reports whether target is a compound containing key.
func (a *Arena) HasKey(target Handle, key string) bool {
	t := a.resolve(target)
	if t == nil || t.tag != TagCompound {
		return false
	}
	_, ok := t.index[key]
	return ok
}

// RemoveCompound removes key from target and destroys its child.
func (a *Arena) RemoveCompound(target Handle, key string) error {
	ci, err := a.unlinkEntry("RemoveCompound", target, key)
	if err != nil {
		return err
	}
	a.destroyTree(ci)
	return nil
}

// DetachCompound removes key from target and hands its child back to the
// caller, who becomes responsible for inserting or destroying it.
func (a *Arena) DetachCompound(target Handle, key string) (Handle, error) {
	ci, err := a.unlinkEntry("DetachCompound", target, key)
	if err != nil {
		return Handle{}, err
	}
	return a.handleAt(ci), nil
}

func (a *Arena) unlinkEntry(op string, target Handle, key string) (uint32, error) {
	t, err := a.lookupTag(op, target, TagCompound)
	if err != nil {
		return 0, err
	}
	pos, ok := t.index[key]
	if !ok {
		return 0, errf(op, ErrKeyNotFound, "%q", key)
	}
	ci := t.kids[pos]
	delete(t.index, key)
	t.keys = append(t.keys[:pos], t.keys[pos+1:]...)
	t.kids = append(t.kids[:pos], t.kids[pos+1:]...)
	for j := pos; j < len(t.keys); j++ {
		t.index[t.keys[j]] = j
	}
	a.slots[ci].parent = 0
	return ci, nil
}

// Keys returns the keys of a compound in insertion order.
func (a *Arena) Keys(target Handle) ([]string, error) {
	t, err := a.lookupTag("Keys", target, TagCompound)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), t.keys...), nil
}

// Entries iterates over a compound in insertion order. It yields nothing if
// target is not a live compound. The compound must not be modified during
// iteration.
func (a *Arena) Entries(target Handle) iter.Seq2[string, Handle] {
	return func(yield func(string, Handle) bool) {
		t := a.resolve(target)
		if t == nil || t.tag != TagCompound {
			return
		}
		for i, k := range t.keys {
			if !yield(k, a.handleAt(t.kids[i])) {
				return
			}
		}
	}
}
