/*
Package inbf implements INBF, a typed self-describing binary value format in
the spirit of NBT.

A Value is one of:

1. A fixed-width scalar: i8, i16, i32, i64, u8, u16, u32, u64, f32 or f64.

2. A string (immutable bytes, usually UTF-8).

3. A compound, an insertion-ordered map from string keys to Values.

4. An array, an ordered list of Values that all carry the same tag, fixed when
the array is created.

# Ownership

Values live in an Arena and are addressed by Handles. Every Value has exactly
one owner. A freshly constructed Value belongs to the caller; inserting it into
a compound or array moves it into the container, and destroying a container
destroys everything below it. Getters for container children return borrowed
handles. A handle carries the generation of its slot, so once its Value is
gone (removed, replaced or destroyed) it fails with ErrInvalidHandle instead
of pointing at unrelated data.

# Wire format

A document is the encoding of one root value:

	value    = tag:u8 payload
	i8, u8   = 1 byte
	i16, u16 = 2 bytes little-endian
	i32, u32 = 4 bytes little-endian
	i64, u64 = 8 bytes little-endian
	f32, f64 = IEEE-754 bits, 4 or 8 bytes little-endian
	string   = len:uvarint bytes[len]
	compound = count:uvarint (keylen:uvarint key[keylen] value)*
	array    = elemtag:u8 count:uvarint payload*

Tag bytes run from 0x01 (i8) to 0x0D (array) in the order listed by Tag.
Array elements are written without their own tag byte. Compound entries are
written in insertion order, so encoding is deterministic and Hash is stable.

Decode treats its input as untrusted: it never panics, bounds every count by
the bytes remaining, limits nesting to MaxDepth and leaves nothing allocated
when it fails.

# Interchange

Marshal and Unmarshal also speak MessagePack, which preserves every tag, and
JSON, which keeps the structure but collapses numbers to i64/u64/f64.
*/
package inbf
