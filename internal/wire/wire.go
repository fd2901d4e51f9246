// Package wire defines the binary layout contracts of spec.md §4.4: the
// message header, table/text/bytes/list/union wire shapes, and the
// per-slot byte widths the annotator (internal/sema) assigns and that
// every generated reader/writer must reproduce identically. Nothing here
// reads or writes an actual message — that is the generated runtime's
// job (spec.md §6, "external collaborator") — this package only pins
// down the arithmetic so internal/sema and internal/ir agree with it.
package wire

// Message header layout: [magic u32 LE][size u32 LE][fixed-part].
const (
	HeaderMagicOffset = 0
	HeaderSizeOffset  = 4
	HeaderLen         = 8
)

// Slot widths in a record's fixed part, per spec.md §4.3's type-to-slot
// table. A bit-packed bool occupies BoolSlotBytes (0); its presence/value
// live in a shared byte elsewhere in the fixed part instead.
const (
	BoolSlotBytes    = 0
	Int8Bytes        = 1
	Int16Bytes       = 2
	Int32Bytes       = 4
	Int64Bytes       = 8
	EnumSlotBytes    = 1
	PointerBytes     = 4 // table/text/bytes/list pointer, and inplace length
	UnionSlotBytes   = 6 // 2-byte tag + 4-byte offset/length
	UnionTagBytes    = 2
	UnionPayloadSize = 4
)

// EnumAbsent is the sentinel byte marking an unset optional (or
// default-less) enum member, per spec.md §3: "the sentinel byte 0xFF
// marks 'absent'".
const EnumAbsent byte = 0xFF

// MaxEnumValues is the largest number of values an enum may declare: the
// sentinel 0xFF is reserved, so ordinal values must fit in [0, 254].
const MaxEnumValues = 255

// UnionTagNone is the union tag value meaning "no arm set".
const UnionTagNone uint16 = 0

// BoolListBitOrder resolves spec.md §9 open question (iv): bits within a
// packed bool list byte are LSB-first. This is the implementer's fixed
// choice, recorded once here for generated runtimes; the compiler itself
// never packs a bool list, so nothing in this repository reads it.
const BoolListBitOrder = "lsb-first"

// BoolListByteLen returns the number of bytes needed to pack n bool list
// elements, one bit each, LSB-first, padded to a byte boundary.
func BoolListByteLen(n int) int {
	return (n + 7) / 8
}

// MaxMagic is the largest legal 32-bit table magic (spec.md §3: "32-bit
// value in [1, 2^32)").
const MaxMagic uint32 = 0xFFFFFFFF

// Int64Min and Int64Max resolve spec.md §9 open question (ii): the
// source's documented range (`min = -2^64`) is almost certainly meant to
// be the signed 64-bit range.
const (
	Int64Min = -(int64(1) << 63)
	Int64Max = int64(1)<<63 - 1
)
