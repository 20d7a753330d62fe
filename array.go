package inbf

import "iter"

// ElemTag returns the element tag fixed when the array was created.
func (a *Arena) ElemTag(arr Handle) (Tag, error) {
	s, err := a.lookupTag("ElemTag", arr, TagArray)
	if err != nil {
		return TagInvalid, err
	}
	return s.elem, nil
}

// ArrayElem returns a borrowed handle to element i.
func (a *Arena) ArrayElem(arr Handle, i int) (Handle, error) {
	const op = "ArrayElem"
	s, err := a.lookupTag(op, arr, TagArray)
	if err != nil {
		return Handle{}, err
	}
	if i < 0 || i >= len(s.kids) {
		return Handle{}, errf(op, ErrIndexOutOfRange, "index %d, length %d", i, len(s.kids))
	}
	return a.handleAt(s.kids[i]), nil
}

// Append moves elem to the end of arr. elem must carry the array's element tag.
func (a *Arena) Append(arr Handle, elem Handle) error {
	const op = "Append"
	s, err := a.lookupTag(op, arr, TagArray)
	if err != nil {
		return err
	}
	es, err := a.lookup(op, elem)
	if err != nil {
		return err
	}
	if es.tag != s.elem {
		return errf(op, ErrTypeMismatch, "array of %v cannot hold %v", s.elem, es.tag)
	}
	ei, err := a.adopt(op, arr.idx, elem)
	if err != nil {
		return err
	}
	s.kids = append(s.kids, ei)
	return nil
}

// RemoveAt removes element i from arr and destroys it.
func (a *Arena) RemoveAt(arr Handle, i int) error {
	const op = "RemoveAt"
	s, err := a.lookupTag(op, arr, TagArray)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(s.kids) {
		return errf(op, ErrIndexOutOfRange, "index %d, length %d", i, len(s.kids))
	}
	ei := s.kids[i]
	s.kids = append(s.kids[:i], s.kids[i+1:]...)
	a.slots[ei].parent = 0
	a.destroyTree(ei)
	return nil
}

// Elems iterates over the elements of arr. It yields nothing if arr is not a
// live array.
func (a *Arena) Elems(arr Handle) iter.Seq2[int, Handle] {
	return func(yield func(int, Handle) bool) {
		s := a.resolve(arr)
		if s == nil || s.tag != TagArray {
			return
		}
		for i, ei := range s.kids {
			if !yield(i, a.handleAt(ei)) {
				return
			}
		}
	}
}
