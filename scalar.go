package inbf

import (
	"math"
	"strconv"
)

// formatScalar renders the in-memory scalar representation without a tag suffix.
func formatScalar(tag Tag, bits uint64) string {
	switch tag {
	case TagInt8, TagInt16, TagInt32, TagInt64:
		return strconv.FormatInt(int64(bits), 10)
	case TagUint8, TagUint16, TagUint32, TagUint64:
		return strconv.FormatUint(bits, 10)
	case TagFloat32:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(bits))), 'g', -1, 32)
	case TagFloat64:
		return strconv.FormatFloat(math.Float64frombits(bits), 'g', -1, 64)
	default:
		panic("unreachable")
	}
}

// FormatScalar renders a scalar or string Value the way the CLI prints it:
// numbers in Go syntax, strings unquoted.
func (a *Arena) FormatScalar(h Handle) (string, error) {
	s, err := a.lookup("FormatScalar", h)
	if err != nil {
		return "", err
	}
	switch {
	case s.tag == TagString:
		return s.str, nil
	case s.tag.IsScalar():
		return formatScalar(s.tag, s.bits), nil
	default:
		return "", errf("FormatScalar", ErrTypeMismatch, "%v is not a scalar", s.tag)
	}
}

// isFinite reports whether a float scalar holds a finite number. Integers are
// always finite.
func isFinite(tag Tag, bits uint64) bool {
	var f float64
	switch tag {
	case TagFloat32:
		f = float64(math.Float32frombits(uint32(bits)))
	case TagFloat64:
		f = math.Float64frombits(bits)
	default:
		return true
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
