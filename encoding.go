package inbf

import (
	"fmt"
	"strings"
)

// Format selects an encoding for Marshal and Unmarshal.
type Format int

const (
	Native Format = iota
	MsgPack
	JSON
)

func (f Format) String() string {
	switch f {
	case Native:
		return "inbf"
	case MsgPack:
		return "msgpack"
	case JSON:
		return "json"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat accepts "inbf" (or "native"), "msgpack" and "json".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "inbf", "native":
		return Native, nil
	case "msgpack", "mp":
		return MsgPack, nil
	case "json":
		return JSON, nil
	default:
		return 0, fmt.Errorf("unknown format %q", name)
	}
}

// Marshal encodes the tree at h using the given format.
func (a *Arena) Marshal(h Handle, f Format) ([]byte, error) {
	switch f {
	case Native:
		return a.Encode(nil, h)
	case MsgPack:
		return a.EncodeMsgPack(h)
	case JSON:
		return a.EncodeJSON(h)
	default:
		panic("unsupported encoding")
	}
}

// Unmarshal decodes data in the given format into a new caller-owned tree.
func (a *Arena) Unmarshal(data []byte, f Format) (Handle, error) {
	switch f {
	case Native:
		return a.Decode(data)
	case MsgPack:
		return a.DecodeMsgPack(data)
	case JSON:
		return a.DecodeJSON(data)
	default:
		panic("unsupported encoding")
	}
}
