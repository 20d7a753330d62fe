// Package store keeps named INBF documents in a Bolt database.
//
// Each document is stored under its name as a record holding the native
// encoding and its xxhash64, so corruption is caught on read instead of
// surfacing as a strange tree.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/andreyvit/inbf"
	"go.etcd.io/bbolt"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrEmptyName = errors.New("empty document name")
)

const DefaultBucket = "docs"

type Options struct {
	// Bucket holds the documents; defaults to DefaultBucket.
	Bucket string
	Logger *slog.Logger

	// Timeout bounds waiting for the file lock of a Bolt database held by
	// another process.
	Timeout   time.Duration
	IsTesting bool
}

// Store is safe for concurrent use.
type Store struct {
	st     kvBackend
	bucket string
	logger *slog.Logger
}

// Info describes a stored document without decoding it.
type Info struct {
	Name string
	Tag  inbf.Tag // tag of the root value
	Size int      // encoded size in bytes
	Hash uint64   // xxhash64 of the encoding
}

// Open opens or creates a Bolt-backed store at path.
func Open(path string, opt Options) (*Store, error) {
	bopt := &bbolt.Options{}
	*bopt = *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if opt.Timeout != 0 {
		bopt.Timeout = opt.Timeout
	}
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
	} else {
		bopt.FreelistType = bbolt.FreelistMapType
	}

	bdb, err := bbolt.Open(path, 0666, bopt)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return newStore(boltBackend{bdb}, opt), nil
}

// OpenMemory returns a transient store that lives in memory.
func OpenMemory(opt Options) *Store {
	return newStore(newMemBackend(), opt)
}

func newStore(st kvBackend, opt Options) *Store {
	if opt.Bucket == "" {
		opt.Bucket = DefaultBucket
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return &Store{
		st:     st,
		bucket: opt.Bucket,
		logger: opt.Logger,
	}
}

func (s *Store) Close() error {
	return s.st.Close()
}

func (s *Store) read(f func(b kvBucket) error) error {
	tx, err := s.st.BeginTx(false)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer tx.Rollback()
	b := tx.Bucket(s.bucket)
	if b == nil {
		return f(nil)
	}
	return f(b)
}

func (s *Store) write(f func(b kvBucket) error) error {
	tx, err := s.st.BeginTx(true)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer tx.Rollback()
	b, err := tx.CreateBucket(s.bucket)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	err = f(b)
	if err != nil {
		return err
	}
	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// Put encodes the tree at h and stores it under name. It reports whether
// anything was written; storing a document byte-identical to the current one
// is a no-op. Trees nested deeper than inbf.MaxDepth are refused with
// inbf.ErrTooDeep, since Get could not decode them.
func (s *Store) Put(name string, a *inbf.Arena, h inbf.Handle) (bool, error) {
	if name == "" {
		return false, ErrEmptyName
	}
	data, err := a.Encode(nil, h)
	if err != nil {
		return false, fmt.Errorf("store: %s: %w", name, err)
	}
	raw := appendRecord(nil, data)

	var written bool
	err = s.write(func(b kvBucket) error {
		key := []byte(name)
		if old := b.Get(key); old != nil {
			var rec record
			if rec.decode(old) == nil && bytes.Equal(rec.Data, data) {
				s.logger.LogAttrs(context.Background(), slog.LevelDebug, "store: unchanged", slog.String("doc", name), slog.Int("size", len(data)))
				return nil
			}
		}
		if err := b.Put(key, raw); err != nil {
			return fmt.Errorf("store: %s: %w", name, err)
		}
		written = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if written {
		s.logger.LogAttrs(context.Background(), slog.LevelDebug, "store: put", slog.String("doc", name), slog.Int("size", len(data)))
	}
	return written, nil
}

// Get decodes the document stored under name into a and returns its new,
// caller-owned root. A damaged record fails with an error of kind
// inbf.ErrMalformed.
func (s *Store) Get(name string, a *inbf.Arena) (inbf.Handle, error) {
	var h inbf.Handle
	err := s.read(func(b kvBucket) error {
		rec, err := s.load(b, name)
		if err != nil {
			return err
		}
		h, err = a.Decode(rec.Data)
		if err != nil {
			s.corrupted(name, err)
			return fmt.Errorf("store: %s: %w", name, err)
		}
		return nil
	})
	return h, err
}

// Stat returns the size and hash of a document without decoding it.
func (s *Store) Stat(name string) (Info, error) {
	var info Info
	err := s.read(func(b kvBucket) error {
		rec, err := s.load(b, name)
		if err != nil {
			return err
		}
		info = Info{
			Name: name,
			Tag:  inbf.Tag(rec.Data[0]),
			Size: len(rec.Data),
			Hash: rec.Hash,
		}
		return nil
	})
	return info, err
}

func (s *Store) load(b kvBucket, name string) (record, error) {
	var rec record
	var raw []byte
	if b != nil && name != "" {
		raw = b.Get([]byte(name))
	}
	if raw == nil {
		return rec, fmt.Errorf("store: %q: %w", name, ErrNotFound)
	}
	if err := rec.decode(raw); err != nil {
		s.corrupted(name, err)
		return rec, fmt.Errorf("store: %s: %w", name, err)
	}
	return rec, nil
}

func (s *Store) corrupted(name string, err error) {
	s.logger.LogAttrs(context.Background(), slog.LevelWarn, "store: corrupted document", slog.String("doc", name), slog.Any("err", err))
}

// Delete removes the document stored under name.
func (s *Store) Delete(name string) error {
	return s.write(func(b kvBucket) error {
		key := []byte(name)
		if name == "" || b.Get(key) == nil {
			return fmt.Errorf("store: %q: %w", name, ErrNotFound)
		}
		if err := b.Delete(key); err != nil {
			return fmt.Errorf("store: %s: %w", name, err)
		}
		s.logger.LogAttrs(context.Background(), slog.LevelDebug, "store: deleted", slog.String("doc", name))
		return nil
	})
}

// Names lists stored document names starting with prefix, in byte order.
func (s *Store) Names(prefix string) ([]string, error) {
	var names []string
	err := s.read(func(b kvBucket) error {
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.Seek([]byte(prefix)); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			names = append(names, string(k))
		}
		return nil
	})
	return names, err
}

// Len returns the number of stored documents.
func (s *Store) Len() (int, error) {
	var n int
	err := s.read(func(b kvBucket) error {
		if b != nil {
			n = b.KeyCount()
		}
		return nil
	})
	return n, err
}
