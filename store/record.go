package store

import (
	"encoding/binary"
	"fmt"

	"github.com/andreyvit/inbf"
	"github.com/cespare/xxhash/v2"
)

type recordFlags uint64

const (
	rfVerBit0 = recordFlags(1 << iota)
	rfVerBit1
	rfVerBit2
	rfVerBit3

	rfVerMask       = (rfVerBit0 | rfVerBit1 | rfVerBit2 | rfVerBit3)
	rfVer1          = rfVerBit0
	rfSupportedMask = rfVerMask
	rfDefault       = rfVer1

	hashSize      = 8
	minRecordSize = 1 + 1 + hashSize + 2 // flags, size, hash, smallest document
)

func (rf recordFlags) ver() recordFlags {
	return rf & rfVerMask
}

// record is a stored document:
//
//	flags:uvarint size:uvarint hash:u64le data[size]
//
// where data is the native encoding and hash is its xxhash64.
type record struct {
	Flags recordFlags
	Hash  uint64
	Data  []byte
}

func appendRecord(buf []byte, data []byte) []byte {
	buf = binary.AppendUvarint(buf, uint64(rfDefault))
	buf = binary.AppendUvarint(buf, uint64(len(data)))
	buf = binary.LittleEndian.AppendUint64(buf, xxhash.Sum64(data))
	return append(buf, data...)
}

// decode validates the header and checksum. Data aliases raw.
func (rec *record) decode(raw []byte) error {
	data := raw
	off := func() int { return len(raw) - len(data) }
	if len(raw) < minRecordSize {
		return &inbf.DataError{Data: raw, Off: 0, Msg: "invalid record: too short"}
	}

	v, n := binary.Uvarint(data)
	if n <= 0 {
		return &inbf.DataError{Data: raw, Off: off(), Msg: "invalid record: bad flags"}
	}
	if (v &^ uint64(rfSupportedMask)) != 0 {
		return &inbf.DataError{Data: raw, Off: off(), Msg: fmt.Sprintf("invalid record: unsupported flags %x", v)}
	}
	if recordFlags(v).ver() != rfVer1 {
		return &inbf.DataError{Data: raw, Off: off(), Msg: "invalid record: unsupported version"}
	}
	rec.Flags, data = recordFlags(v), data[n:]

	size, n := binary.Uvarint(data)
	if n <= 0 || size == 0 {
		return &inbf.DataError{Data: raw, Off: off(), Msg: "invalid record: bad data size"}
	}
	data = data[n:]

	if len(data) < hashSize {
		return &inbf.DataError{Data: raw, Off: off(), Msg: "invalid record: truncated hash"}
	}
	rec.Hash, data = binary.LittleEndian.Uint64(data), data[hashSize:]

	if uint64(len(data)) != size {
		return &inbf.DataError{Data: raw, Off: off(), Msg: fmt.Sprintf("invalid record: got %d data bytes, expected %d", len(data), size)}
	}
	if xxhash.Sum64(data) != rec.Hash {
		return &inbf.DataError{Data: raw, Off: off(), Msg: "invalid record: checksum mismatch"}
	}
	rec.Data = data
	return nil
}
