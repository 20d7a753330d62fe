package inbf

import (
	"testing"
)

func TestTags(t *testing.T) {
	for tag := TagInt8; tag < tagCount; tag++ {
		eq(t, tag.Valid(), true)
		eq(t, must(ParseTag(tag.String())), tag)
		eq(t, tag.IsScalar(), tag.width() > 0)
	}
	eq(t, TagInvalid.Valid(), false)
	eq(t, tagCount.Valid(), false)
	eq(t, Tag(0xff).String(), "tag(0xff)")
	eq(t, TagCompound.IsContainer(), true)
	eq(t, TagString.IsContainer(), false)
	eq(t, TagString.IsScalar(), false)
	eq(t, must(ParseTag("F32")), TagFloat32)

	_, err := ParseTag("invalid")
	if err == nil {
		t.Fatal("** ParseTag(invalid) succeeded")
	}
}

func TestTags_WireValues(t *testing.T) {
	// tag values are the wire type bytes
	eq(t, byte(TagInt8), 0x01)
	eq(t, byte(TagUint8), 0x05)
	eq(t, byte(TagFloat64), 0x0a)
	eq(t, byte(TagString), 0x0b)
	eq(t, byte(TagCompound), 0x0c)
	eq(t, byte(TagArray), 0x0d)
}
