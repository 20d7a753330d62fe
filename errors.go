package inbf

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures. Every kind is itself an error, so callers can
// test for it with errors.Is(err, inbf.ErrKeyNotFound).
type ErrorKind uint8

const (
	ErrTypeMismatch ErrorKind = iota + 1
	ErrKeyNotFound
	ErrIndexOutOfRange
	ErrInvalidHandle
	ErrMalformed
	ErrOwned
	ErrCycle
	ErrTooDeep
)

func (k ErrorKind) Error() string {
	switch k {
	case ErrTypeMismatch:
		return "type mismatch"
	case ErrKeyNotFound:
		return "key not found"
	case ErrIndexOutOfRange:
		return "index out of range"
	case ErrInvalidHandle:
		return "invalid handle"
	case ErrMalformed:
		return "malformed data"
	case ErrOwned:
		return "value is owned by a container"
	case ErrCycle:
		return "value would contain itself"
	case ErrTooDeep:
		return "containers nested too deeply"
	default:
		return fmt.Sprintf("error kind %d", uint8(k))
	}
}

func (k ErrorKind) String() string { return k.Error() }

// Error is returned by all fallible Arena operations.
type Error struct {
	Op   string
	Kind ErrorKind
	Msg  string
	Err  error
}

func errf(op string, kind ErrorKind, format string, args ...any) error {
	return &Error{Op: op, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func (e *Error) Error() string {
	s := "inbf: " + e.Op + ": " + e.Kind.Error()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// KindOf returns the ErrorKind carried by err, or 0 if err is nil or did not
// originate from this package.
func KindOf(err error) ErrorKind {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var de *DataError
	if errors.As(err, &de) {
		return ErrMalformed
	}
	var k ErrorKind
	if errors.As(err, &k) {
		return k
	}
	return 0
}

// DataError describes malformed encoded input. Off is the offset at which
// decoding gave up.
type DataError struct {
	Data []byte
	Off  int
	Err  error
	Msg  string
}

func dataErrf(data []byte, off int, err error, format string, args ...any) error {
	return &DataError{data, off, err, fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Is(target error) bool {
	return target == ErrMalformed
}

func (e *DataError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		if e.Err != nil {
			return fmt.Sprintf("%s at offset %d: %v: (%d) %x", e.Msg, e.Off, e.Err, n, e.Data)
		} else {
			return fmt.Sprintf("%s at offset %d: (%d) %x", e.Msg, e.Off, n, e.Data)
		}
	} else {
		p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
		if e.Err != nil {
			return fmt.Sprintf("%s at offset %d: %v: (%d) %x...%x", e.Msg, e.Off, e.Err, n, p, s)
		} else {
			return fmt.Sprintf("%s at offset %d: (%d) %x...%x", e.Msg, e.Off, n, p, s)
		}
	}
}
