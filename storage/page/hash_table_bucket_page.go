package page

import (
	"github.com/coredb-io/coredb/common"
)

// Codec encodes/decodes a fixed-width value of type T to/from bytes. The
// bucket page layout depends only on these widths, not on T's identity —
// this is the "generic parameterization over (key bytes, value bytes,
// comparator function)" the directory/bucket split calls for: Go forbids an
// array length that depends on a type parameter, so a bucket page cannot be
// a fixed generic struct the way HashTableDirectoryPage is a fixed
// non-generic one. Instead it indexes directly into the page's raw byte
// slice at codec-supplied offsets.
type Codec[T any] interface {
	Size() uint32
	Encode(v T, dst []byte)
	Decode(src []byte) T
}

// KeyComparator orders two keys the way the C++ original's template
// comparator does: <0, 0, >0.
type KeyComparator[K any] func(a, b K) int

// BucketPage is a fixed-capacity slotted bucket: two occupied/readable
// bitmaps of ceil(capacity/8) bytes each, followed by capacity (key,value)
// slots, all laid out directly over a page's raw bytes.
type BucketPage[K any, V comparable] struct {
	data     []byte
	capacity uint32
	keySize  uint32
	valSize  uint32
	keyCodec Codec[K]
	valCodec Codec[V]
}

// NewBucketPage wraps a page's raw bytes as a bucket of the given capacity.
// capacity*  (keyCodec.Size()+valCodec.Size()) + 2*ceil(capacity/8) must fit
// within PageSize; callers size capacity accordingly (common.BucketSize is
// the default used unless a wider key/value pair forces a smaller one).
func NewBucketPage[K any, V comparable](data *[PageSize]byte, capacity uint32, keyCodec Codec[K], valCodec Codec[V]) *BucketPage[K, V] {
	b := &BucketPage[K, V]{
		data:     data[:],
		capacity: capacity,
		keySize:  keyCodec.Size(),
		valSize:  valCodec.Size(),
		keyCodec: keyCodec,
		valCodec: valCodec,
	}
	common.SH_Assert(b.slotsOffset()+capacity*b.slotSize() <= PageSize, "bucket page layout exceeds PageSize")
	return b
}

func (b *BucketPage[K, V]) bitmapBytes() uint32   { return (b.capacity + 7) / 8 }
func (b *BucketPage[K, V]) readableOffset() uint32 { return b.bitmapBytes() }
func (b *BucketPage[K, V]) slotsOffset() uint32    { return 2 * b.bitmapBytes() }
func (b *BucketPage[K, V]) slotSize() uint32       { return b.keySize + b.valSize }

// Capacity returns BUCKET_ARRAY_SIZE for this bucket.
func (b *BucketPage[K, V]) Capacity() uint32 { return b.capacity }

// KeyAt returns the key stored at bucket_idx, or the zero value if the slot
// is not readable.
func (b *BucketPage[K, V]) KeyAt(bucketIdx uint32) K {
	var zero K
	if !b.IsReadable(bucketIdx) {
		return zero
	}
	off := b.slotsOffset() + bucketIdx*b.slotSize()
	return b.keyCodec.Decode(b.data[off : off+b.keySize])
}

// ValueAt returns the value stored at bucket_idx, or the zero value if the
// slot is not readable.
func (b *BucketPage[K, V]) ValueAt(bucketIdx uint32) V {
	var zero V
	if !b.IsReadable(bucketIdx) {
		return zero
	}
	off := b.slotsOffset() + bucketIdx*b.slotSize() + b.keySize
	return b.valCodec.Decode(b.data[off : off+b.valSize])
}

func (b *BucketPage[K, V]) setSlot(bucketIdx uint32, key K, value V) {
	off := b.slotsOffset() + bucketIdx*b.slotSize()
	b.keyCodec.Encode(key, b.data[off:off+b.keySize])
	b.valCodec.Encode(value, b.data[off+b.keySize:off+b.slotSize()])
}

// RemoveAt clears only the readable bit, leaving occupied set so scans
// still terminate at the first never-used slot (the probe-terminator
// optimization).
func (b *BucketPage[K, V]) RemoveAt(bucketIdx uint32) {
	idx := bucketIdx >> 3
	offset := bucketIdx & 7
	b.data[b.readableOffset()+idx] &= ^(byte(1) << offset)
}

// IsOccupied reports whether bucket_idx has ever held a value.
func (b *BucketPage[K, V]) IsOccupied(bucketIdx uint32) bool {
	idx := bucketIdx >> 3
	offset := bucketIdx & 7
	return b.data[idx]&(1<<offset) != 0
}

func (b *BucketPage[K, V]) SetOccupied(bucketIdx uint32) {
	idx := bucketIdx >> 3
	offset := bucketIdx & 7
	b.data[idx] |= 1 << offset
}

// IsReadable reports whether bucket_idx currently holds a live value.
func (b *BucketPage[K, V]) IsReadable(bucketIdx uint32) bool {
	idx := bucketIdx >> 3
	offset := bucketIdx & 7
	return b.data[b.readableOffset()+idx]&(1<<offset) != 0
}

func (b *BucketPage[K, V]) SetReadable(bucketIdx uint32) {
	idx := bucketIdx >> 3
	offset := bucketIdx & 7
	b.data[b.readableOffset()+idx] |= 1 << offset
}

// IsFull reports whether every readable bit is set.
func (b *BucketPage[K, V]) IsFull() bool {
	size := b.capacity / 8
	for i := uint32(0); i < size; i++ {
		if b.data[b.readableOffset()+i] != 0xff {
			return false
		}
	}
	remainder := b.capacity - size*8
	return remainder == 0 || b.data[b.readableOffset()+size] == byte((1<<remainder)-1)
}

// NumReadable is the population count of the readable bitmap (Brian
// Kernighan's algorithm, one byte at a time).
func (b *BucketPage[K, V]) NumReadable() uint32 {
	count := uint32(0)
	size := (b.capacity-1)/8 + 1
	for i := uint32(0); i < size; i++ {
		n := b.data[b.readableOffset()+i]
		for n != 0 {
			n &= n - 1
			count++
		}
	}
	return count
}

// IsEmpty reports whether no readable bit is set.
func (b *BucketPage[K, V]) IsEmpty() bool {
	size := (b.capacity-1)/8 + 1
	for i := uint32(0); i < size; i++ {
		if b.data[b.readableOffset()+i] != 0 {
			return false
		}
	}
	return true
}

// GetValue returns every value stored under key (nil when there is no
// match). The scan stops at the first never-occupied slot.
func (b *BucketPage[K, V]) GetValue(key K, cmp KeyComparator[K]) []V {
	var result []V
	for i := uint32(0); i < b.capacity; i++ {
		if b.IsReadable(i) && cmp(b.KeyAt(i), key) == 0 {
			result = append(result, b.ValueAt(i))
		}
		if !b.IsOccupied(i) {
			break
		}
	}
	return result
}

// Insert places (key, value) into the lowest-index non-readable slot.
// Duplicate (key, value) pairs are rejected. Returns false if the bucket is
// full.
func (b *BucketPage[K, V]) Insert(key K, value V, cmp KeyComparator[K]) bool {
	idx := b.capacity
	for i := uint32(0); i < b.capacity; i++ {
		if b.IsReadable(i) {
			if cmp(b.KeyAt(i), key) == 0 && b.ValueAt(i) == value {
				return false
			}
		} else {
			if idx == b.capacity {
				idx = i
			}
			if !b.IsOccupied(i) {
				break
			}
		}
	}
	if idx == b.capacity {
		return false
	}
	b.setSlot(idx, key, value)
	b.SetOccupied(idx)
	b.SetReadable(idx)
	return true
}

// Remove deletes the (key, value) pair if present, returning true on
// success.
func (b *BucketPage[K, V]) Remove(key K, value V, cmp KeyComparator[K]) bool {
	for i := uint32(0); i < b.capacity; i++ {
		if b.IsReadable(i) && cmp(b.KeyAt(i), key) == 0 && b.ValueAt(i) == value {
			b.RemoveAt(i)
			return true
		}
		if !b.IsOccupied(i) {
			break
		}
	}
	return false
}

// DebugString reports capacity/size/taken/free, grounded on the original's
// PrintBucket debug helper.
func (b *BucketPage[K, V]) DebugString() {
	size, taken, free := uint32(0), uint32(0), uint32(0)
	for i := uint32(0); i < b.capacity; i++ {
		if !b.IsOccupied(i) {
			break
		}
		size++
		if b.IsReadable(i) {
			taken++
		} else {
			free++
		}
	}
	common.ShPrintf(common.DEBUG_INFO, "Bucket Capacity: %d, Size: %d, Taken: %d, Free: %d\n", b.capacity, size, taken, free)
}
