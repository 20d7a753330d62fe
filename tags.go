package inbf

import (
	"fmt"
	"strings"
)

// Tag identifies which variant a Value holds. Tag values double as the
// type bytes of the wire format, so they must never be renumbered.
type Tag uint8

const (
	TagInvalid Tag = iota
	TagInt8
	TagInt16
	TagInt32
	TagInt64
	TagUint8
	TagUint16
	TagUint32
	TagUint64
	TagFloat32
	TagFloat64
	TagString
	TagCompound
	TagArray

	tagCount
)

var tagNames = [tagCount]string{
	TagInvalid:  "invalid",
	TagInt8:     "i8",
	TagInt16:    "i16",
	TagInt32:    "i32",
	TagInt64:    "i64",
	TagUint8:    "u8",
	TagUint16:   "u16",
	TagUint32:   "u32",
	TagUint64:   "u64",
	TagFloat32:  "f32",
	TagFloat64:  "f64",
	TagString:   "string",
	TagCompound: "compound",
	TagArray:    "array",
}

func (tag Tag) String() string {
	if tag < tagCount {
		return tagNames[tag]
	}
	return fmt.Sprintf("tag(0x%02x)", uint8(tag))
}

// Valid reports whether tag is one of the thirteen value tags.
func (tag Tag) Valid() bool {
	return tag > TagInvalid && tag < tagCount
}

func (tag Tag) IsScalar() bool {
	return tag >= TagInt8 && tag <= TagFloat64
}

func (tag Tag) IsContainer() bool {
	return tag == TagCompound || tag == TagArray
}

// width returns the payload size in bytes of a scalar tag, or 0 for
// variable-size tags.
func (tag Tag) width() int {
	switch tag {
	case TagInt8, TagUint8:
		return 1
	case TagInt16, TagUint16:
		return 2
	case TagInt32, TagUint32, TagFloat32:
		return 4
	case TagInt64, TagUint64, TagFloat64:
		return 8
	default:
		return 0
	}
}

// ParseTag accepts the names returned by Tag.String, case-insensitively.
func ParseTag(name string) (Tag, error) {
	name = strings.ToLower(name)
	for i := TagInt8; i < tagCount; i++ {
		if tagNames[i] == name {
			return i, nil
		}
	}
	return TagInvalid, fmt.Errorf("unknown tag %q", name)
}
