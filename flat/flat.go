// Package flat exposes the INBF value model through a result-code call
// surface: every fallible call returns Success or Error, results go into
// out-pointers, and the message of the latest failure is kept in the session
// for ErrorGet. It is the shape a C binding would export.
package flat

import (
	"github.com/andreyvit/inbf"
)

// Result is the status code returned by fallible Session calls.
type Result int32

const (
	Error   Result = 0
	Success Result = 1
)

func (r Result) String() string {
	if r == Success {
		return "SUCCESS"
	}
	return "ERROR"
}

// Session owns an arena and the last-error slot. A Session must only be used
// from one goroutine at a time; use one Session per thread to get the
// per-thread error slot of the C API.
type Session struct {
	arena    *inbf.Arena
	lastErr  string
	lastKind inbf.ErrorKind
}

func New() *Session {
	return &Session{arena: inbf.NewArena()}
}

// Arena gives access to the underlying arena, e.g. to use utilities that the
// flat surface does not expose.
func (s *Session) Arena() *inbf.Arena {
	return s.arena
}

// Live returns the number of Values allocated in the session.
func (s *Session) Live() int {
	return s.arena.Live()
}

// ErrorGet returns the message of the most recent failure, or "" if no call
// has failed yet. Successful calls do not clear it.
func (s *Session) ErrorGet() string {
	return s.lastErr
}

// LastKind returns the kind of the most recent failure.
func (s *Session) LastKind() inbf.ErrorKind {
	return s.lastKind
}

func (s *Session) result(err error) Result {
	if err == nil {
		return Success
	}
	s.lastErr = err.Error()
	s.lastKind = inbf.KindOf(err)
	return Error
}

func (s *Session) CreateI8(v int8) inbf.Handle     { return s.arena.NewInt8(v) }
func (s *Session) CreateI16(v int16) inbf.Handle   { return s.arena.NewInt16(v) }
func (s *Session) CreateI32(v int32) inbf.Handle   { return s.arena.NewInt32(v) }
func (s *Session) CreateI64(v int64) inbf.Handle   { return s.arena.NewInt64(v) }
func (s *Session) CreateU8(v uint8) inbf.Handle    { return s.arena.NewUint8(v) }
func (s *Session) CreateU16(v uint16) inbf.Handle  { return s.arena.NewUint16(v) }
func (s *Session) CreateU32(v uint32) inbf.Handle  { return s.arena.NewUint32(v) }
func (s *Session) CreateU64(v uint64) inbf.Handle  { return s.arena.NewUint64(v) }
func (s *Session) CreateF32(v float32) inbf.Handle { return s.arena.NewFloat32(v) }
func (s *Session) CreateF64(v float64) inbf.Handle { return s.arena.NewFloat64(v) }

func (s *Session) CreateString(v string) inbf.Handle { return s.arena.NewString(v) }
func (s *Session) CreateCompound() inbf.Handle       { return s.arena.NewCompound() }

// CreateArray makes an array whose element tag is the tag of first and moves
// first into it. On failure it returns the zero handle and records the error.
func (s *Session) CreateArray(first inbf.Handle) inbf.Handle {
	h, err := s.arena.NewArray(first)
	s.result(err)
	return h
}

func (s *Session) Destroy(h inbf.Handle) Result {
	return s.result(s.arena.Destroy(h))
}

// get writes to target only if read succeeds.
func get[T any](s *Session, target *T, read func(inbf.Handle) (T, error), h inbf.Handle) Result {
	v, err := read(h)
	if err != nil {
		return s.result(err)
	}
	*target = v
	return Success
}

func (s *Session) GetI8(h inbf.Handle, target *int8) Result {
	return get(s, target, s.arena.Int8, h)
}

func (s *Session) GetI16(h inbf.Handle, target *int16) Result {
	return get(s, target, s.arena.Int16, h)
}

func (s *Session) GetI32(h inbf.Handle, target *int32) Result {
	return get(s, target, s.arena.Int32, h)
}

func (s *Session) GetI64(h inbf.Handle, target *int64) Result {
	return get(s, target, s.arena.Int64, h)
}

func (s *Session) GetU8(h inbf.Handle, target *uint8) Result {
	return get(s, target, s.arena.Uint8, h)
}

func (s *Session) GetU16(h inbf.Handle, target *uint16) Result {
	return get(s, target, s.arena.Uint16, h)
}

func (s *Session) GetU32(h inbf.Handle, target *uint32) Result {
	return get(s, target, s.arena.Uint32, h)
}

func (s *Session) GetU64(h inbf.Handle, target *uint64) Result {
	return get(s, target, s.arena.Uint64, h)
}

func (s *Session) GetF32(h inbf.Handle, target *float32) Result {
	return get(s, target, s.arena.Float32, h)
}

func (s *Session) GetF64(h inbf.Handle, target *float64) Result {
	return get(s, target, s.arena.Float64, h)
}

// GetString copies the string out; the result stays valid after h is
// destroyed.
func (s *Session) GetString(h inbf.Handle, target *string) Result {
	return get(s, target, s.arena.String, h)
}

// GetCompoundV stores a borrowed handle to the child under key.
func (s *Session) GetCompoundV(h inbf.Handle, key string, target *inbf.Handle) Result {
	v, err := s.arena.Compound(h, key)
	if err != nil {
		return s.result(err)
	}
	*target = v
	return Success
}

// SetCompoundV moves value into the compound under key. On Error the caller
// still owns value.
func (s *Session) SetCompoundV(target inbf.Handle, key string, value inbf.Handle) Result {
	return s.result(s.arena.SetCompound(target, key, value))
}

func (s *Session) RemoveCompoundV(target inbf.Handle, key string) Result {
	return s.result(s.arena.RemoveCompound(target, key))
}

// GetArrayV stores a borrowed handle to element i.
func (s *Session) GetArrayV(h inbf.Handle, i int, target *inbf.Handle) Result {
	v, err := s.arena.ArrayElem(h, i)
	if err != nil {
		return s.result(err)
	}
	*target = v
	return Success
}

// AppendArrayV moves value to the end of the array. On Error the caller still
// owns value.
func (s *Session) AppendArrayV(target inbf.Handle, value inbf.Handle) Result {
	return s.result(s.arena.Append(target, value))
}

// Encode stores the wire encoding of h in target.
func (s *Session) Encode(h inbf.Handle, target *[]byte) Result {
	buf, err := s.arena.Encode(nil, h)
	if err != nil {
		return s.result(err)
	}
	*target = buf
	return Success
}

// Decode parses data and stores the new caller-owned root in target.
func (s *Session) Decode(data []byte, target *inbf.Handle) Result {
	h, err := s.arena.Decode(data)
	if err != nil {
		return s.result(err)
	}
	*target = h
	return Success
}
