package store

// kvBackend is the transactional key-value layer under Store: Bolt on disk,
// or maps in memory for tests.
type kvBackend interface {
	BeginTx(writable bool) (kvTx, error)
	Close() error
}

type kvTx interface {
	// Bucket returns nil if the bucket doesn't exist.
	Bucket(name string) kvBucket

	// CreateBucket returns the named bucket, creating it if needed. Only valid
	// in writable transactions.
	CreateBucket(name string) (kvBucket, error)

	Commit() error

	// Rollback is a no-op after Commit or a previous Rollback.
	Rollback() error
}

// kvBucket holds keys in byte order. Slices returned by Get and cursors stay
// valid until the end of the transaction and must not be modified.
type kvBucket interface {
	Get(key []byte) []byte
	Put(key, value []byte) error
	Delete(key []byte) error
	Cursor() kvCursor
	KeyCount() int
}

type kvCursor interface {
	// Seek moves to the first key >= seek and returns nil key past the end.
	Seek(seek []byte) (key, value []byte)
	Next() (key, value []byte)
}
