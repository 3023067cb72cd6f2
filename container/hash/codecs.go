package hash

import (
	"encoding/binary"

	"github.com/coredb-io/coredb/storage/page"
	"github.com/coredb-io/coredb/types"
)

// Int32Codec encodes int32 keys as 4 little-endian bytes, the same width
// BusTub's GenericKey<4> int index key uses.
type Int32Codec struct{}

func (Int32Codec) Size() uint32 { return 4 }

func (Int32Codec) Encode(v int32, dst []byte) {
	binary.LittleEndian.PutUint32(dst, uint32(v))
}

func (Int32Codec) Decode(src []byte) int32 {
	return int32(binary.LittleEndian.Uint32(src))
}

// RIDCodec encodes a page.RID as its 4-byte page id followed by its 4-byte
// slot number.
type RIDCodec struct{}

func (RIDCodec) Size() uint32 { return 8 }

func (RIDCodec) Encode(v page.RID, dst []byte) {
	binary.LittleEndian.PutUint32(dst[0:4], uint32(v.GetPageId()))
	binary.LittleEndian.PutUint32(dst[4:8], v.GetSlot())
}

func (RIDCodec) Decode(src []byte) page.RID {
	pageId := types.PageID(binary.LittleEndian.Uint32(src[0:4]))
	slot := binary.LittleEndian.Uint32(src[4:8])
	return page.NewRID(pageId, slot)
}

// Int32Comparator orders int32 keys numerically.
func Int32Comparator(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// HashInt32 hashes an int32 key via murmur3 over its little-endian bytes.
func HashInt32(key int32) uint32 {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(key))
	return GenHashMurMur(buf)
}
