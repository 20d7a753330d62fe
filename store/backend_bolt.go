package store

import (
	"errors"
	"unsafe"

	"go.etcd.io/bbolt"
)

type boltBackend struct {
	bdb *bbolt.DB
}

func (s boltBackend) BeginTx(writable bool) (kvTx, error) {
	btx, err := s.bdb.Begin(writable)
	if err != nil {
		return nil, err
	}
	return boltTx{btx}, nil
}

func (s boltBackend) Close() error {
	return s.bdb.Close()
}

type boltTx struct {
	*bbolt.Tx
}

func (tx boltTx) Bucket(name string) kvBucket {
	if b := tx.Tx.Bucket(unsafeBytesFromString(name)); b != nil {
		return boltBucket{b}
	}
	return nil
}

func (tx boltTx) CreateBucket(name string) (kvBucket, error) {
	b, err := tx.CreateBucketIfNotExists([]byte(name))
	if err != nil {
		return nil, err
	}
	return boltBucket{b}, nil
}

func (tx boltTx) Rollback() error {
	if err := tx.Tx.Rollback(); !errors.Is(err, bbolt.ErrTxClosed) {
		return err
	}
	return nil
}

type boltBucket struct {
	*bbolt.Bucket
}

func (b boltBucket) Cursor() kvCursor { return b.Bucket.Cursor() }
func (b boltBucket) KeyCount() int    { return b.Stats().KeyN }

// unsafeBytesFromString avoids a copy for read-only bbolt lookups.
func unsafeBytesFromString(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
