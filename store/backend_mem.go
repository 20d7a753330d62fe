package store

import (
	"errors"
	"maps"
	"slices"
	"sort"
	"sync"
)

var (
	errBackendClosed = errors.New("backend closed")
	errReadOnlyTx    = errors.New("tx not writable")
)

// memBackend keeps each bucket as a map. A transaction works on a shallow copy
// of the committed bucket set and clones a bucket the first time it writes to
// it; Commit publishes the copy. Stored values are never modified in place,
// so snapshots can share them. Writers are serialized by wmu.
type memBackend struct {
	wmu     sync.Mutex
	mu      sync.Mutex
	buckets map[string]map[string][]byte
	closed  bool
}

func newMemBackend() *memBackend {
	return &memBackend{buckets: make(map[string]map[string][]byte)}
}

func (s *memBackend) BeginTx(writable bool) (kvTx, error) {
	if writable {
		s.wmu.Lock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		if writable {
			s.wmu.Unlock()
		}
		return nil, errBackendClosed
	}
	return &memTx{
		s:        s,
		writable: writable,
		buckets:  maps.Clone(s.buckets),
		owned:    make(map[string]bool),
	}, nil
}

func (s *memBackend) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.buckets = nil
	return nil
}

type memTx struct {
	s        *memBackend
	writable bool
	done     bool
	buckets  map[string]map[string][]byte
	owned    map[string]bool
}

func (tx *memTx) finish() {
	tx.done = true
	if tx.writable {
		tx.s.wmu.Unlock()
	}
}

// own returns a bucket this transaction may modify.
func (tx *memTx) own(name string) map[string][]byte {
	if !tx.owned[name] {
		tx.buckets[name] = maps.Clone(tx.buckets[name])
		tx.owned[name] = true
	}
	return tx.buckets[name]
}

func (tx *memTx) Bucket(name string) kvBucket {
	if tx.done {
		panic("tx is closed")
	}
	if _, ok := tx.buckets[name]; !ok {
		return nil
	}
	return memBucket{tx, name}
}

func (tx *memTx) CreateBucket(name string) (kvBucket, error) {
	if tx.done {
		panic("tx is closed")
	}
	if !tx.writable {
		return nil, errReadOnlyTx
	}
	if _, ok := tx.buckets[name]; !ok {
		tx.buckets[name] = make(map[string][]byte)
		tx.owned[name] = true
	}
	return memBucket{tx, name}, nil
}

func (tx *memTx) Commit() error {
	if tx.done {
		return nil
	}
	if !tx.writable {
		return errReadOnlyTx
	}
	defer tx.finish()
	tx.s.mu.Lock()
	defer tx.s.mu.Unlock()
	if tx.s.closed {
		return errBackendClosed
	}
	tx.s.buckets = tx.buckets
	return nil
}

func (tx *memTx) Rollback() error {
	if !tx.done {
		tx.finish()
	}
	return nil
}

type memBucket struct {
	tx   *memTx
	name string
}

func (b memBucket) Get(key []byte) []byte {
	return b.tx.buckets[b.name][string(key)]
}

func (b memBucket) Put(key, value []byte) error {
	if !b.tx.writable {
		return errReadOnlyTx
	}
	b.tx.own(b.name)[string(key)] = slices.Clone(value)
	return nil
}

func (b memBucket) Delete(key []byte) error {
	if !b.tx.writable {
		return errReadOnlyTx
	}
	delete(b.tx.own(b.name), string(key))
	return nil
}

func (b memBucket) Cursor() kvCursor {
	m := b.tx.buckets[b.name]
	return &memCursor{m: m, keys: slices.Sorted(maps.Keys(m))}
}

func (b memBucket) KeyCount() int { return len(b.tx.buckets[b.name]) }

type memCursor struct {
	m    map[string][]byte
	keys []string
	pos  int
}

func (c *memCursor) at() ([]byte, []byte) {
	if c.pos >= len(c.keys) {
		return nil, nil
	}
	k := c.keys[c.pos]
	return []byte(k), c.m[k]
}

func (c *memCursor) Seek(seek []byte) ([]byte, []byte) {
	c.pos = sort.SearchStrings(c.keys, string(seek))
	return c.at()
}

func (c *memCursor) Next() ([]byte, []byte) {
	c.pos++
	return c.at()
}
