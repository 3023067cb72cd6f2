package hash

import (
	"github.com/coredb-io/coredb/common"
	"github.com/coredb-io/coredb/storage/buffer"
	"github.com/coredb-io/coredb/storage/page"
	"github.com/coredb-io/coredb/types"
)

// HashFunction hashes a key down to a uint32, the granularity the directory
// page indexes with. KeyComparator and the bucket page's codecs are
// supplied separately so a table's key/value shapes are fixed at
// construction, not at compile time.
type HashFunction[K any] func(key K) uint32

// ExtendibleHashTable is a persistent, disk-backed extendible hash index:
// one directory page routes each key to one of up to 1<<common.MaxDepth
// bucket pages, growing (splitting) or shrinking (merging) bucket pages on
// demand as they fill up or empty out.
//
// Every public method follows the same two-level latching discipline: the
// table_latch orders directory mutations relative to readers, and each
// page's own RWLatch orders access to that page's bytes. table_latch is
// always acquired before any page latch and released only after every page
// latch taken under it has been released.
type ExtendibleHashTable[K any, V comparable] struct {
	bpm              *buffer.BufferPoolManager
	directoryPageId  types.PageID
	tableLatch       common.ReaderWriterLatch
	comparator       page.KeyComparator[K]
	hashFn           HashFunction[K]
	keyCodec         page.Codec[K]
	valCodec         page.Codec[V]
	bucketArraySize  uint32
}

// NewExtendibleHashTable allocates a fresh directory page and a single
// bucket page, and points directory slot 0 at it.
func NewExtendibleHashTable[K any, V comparable](
	bpm *buffer.BufferPoolManager,
	comparator page.KeyComparator[K],
	hashFn HashFunction[K],
	keyCodec page.Codec[K],
	valCodec page.Codec[V],
) *ExtendibleHashTable[K, V] {
	bucketArraySize := bucketArraySizeFor(keyCodec, valCodec)

	dirPg := bpm.NewPage()
	common.SH_Assert(dirPg != nil, "failed to allocate directory page")
	dirPage := page.CastToDirectoryPage(dirPg.Data())
	dirPage.SetPageId(dirPg.GetPageId())

	bucketPg := bpm.NewPage()
	common.SH_Assert(bucketPg != nil, "failed to allocate initial bucket page")
	dirPage.SetBucketPageId(0, bucketPg.GetPageId())
	dirPage.SetLocalDepth(0, 0)

	bpm.UnpinPage(bucketPg.GetPageId(), false)
	bpm.UnpinPage(dirPg.GetPageId(), true)

	return &ExtendibleHashTable[K, V]{
		bpm:             bpm,
		directoryPageId: dirPg.GetPageId(),
		tableLatch:      common.NewRWLatch(),
		comparator:      comparator,
		hashFn:          hashFn,
		keyCodec:        keyCodec,
		valCodec:        valCodec,
		bucketArraySize: bucketArraySize,
	}
}

// bucketArraySizeFor picks the largest bucket capacity that fits a page,
// defaulting no higher than common.BucketSize (the slot count BusTub's own
// fixed-width buckets use).
func bucketArraySizeFor[K any, V comparable](keyCodec page.Codec[K], valCodec page.Codec[V]) uint32 {
	slot := keyCodec.Size() + valCodec.Size()
	if slot == 0 {
		return common.BucketSize
	}
	// usable = PageSize - 2*ceil(capacity/8); solve approximately then adjust down.
	capacity := (page.PageSize * 8) / (8*slot + 2)
	if capacity == 0 {
		capacity = 1
	}
	for capacity > 1 && 2*((capacity+7)/8)+capacity*slot > page.PageSize {
		capacity--
	}
	if capacity > common.BucketSize {
		capacity = common.BucketSize
	}
	return capacity
}

// Hash downcasts the configured hash function's output for directory use.
func (ht *ExtendibleHashTable[K, V]) Hash(key K) uint32 {
	return ht.hashFn(key)
}

func (ht *ExtendibleHashTable[K, V]) keyToDirectoryIndex(key K, dirPage *page.HashTableDirectoryPage) uint32 {
	return ht.Hash(key) & dirPage.GetGlobalDepthMask()
}

func (ht *ExtendibleHashTable[K, V]) keyToPageId(key K, dirPage *page.HashTableDirectoryPage) types.PageID {
	return dirPage.GetBucketPageId(ht.keyToDirectoryIndex(key, dirPage))
}

func (ht *ExtendibleHashTable[K, V]) fetchDirectoryPage() *page.HashTableDirectoryPage {
	pg := ht.bpm.FetchPage(ht.directoryPageId)
	common.SH_Assert(pg != nil, "directory page missing from buffer pool")
	return page.CastToDirectoryPage(pg.Data())
}

func (ht *ExtendibleHashTable[K, V]) fetchBucketPage(bucketPageId types.PageID) (*buffer.BufferPoolManager, *page.BucketPage[K, V]) {
	pg := ht.bpm.FetchPage(bucketPageId)
	common.SH_Assert(pg != nil, "bucket page missing from buffer pool")
	bucket := page.NewBucketPage[K, V](pg.Data(), ht.bucketArraySize, ht.keyCodec, ht.valCodec)
	return ht.bpm, bucket
}

// GetValue returns every value stored under key.
func (ht *ExtendibleHashTable[K, V]) GetValue(key K) []V {
	ht.tableLatch.RLock()
	defer ht.tableLatch.RUnlock()

	dirPage := ht.fetchDirectoryPage()
	bucketPageId := ht.keyToPageId(key, dirPage)
	bucketPg := ht.bpm.FetchPage(bucketPageId)
	bucket := page.NewBucketPage[K, V](bucketPg.Data(), ht.bucketArraySize, ht.keyCodec, ht.valCodec)

	bucketPg.RLatch()
	result := bucket.GetValue(key, ht.comparator)
	bucketPg.RUnlatch()

	ht.bpm.UnpinPage(bucketPageId, false)
	ht.bpm.UnpinPage(ht.directoryPageId, false)
	return result
}

// Insert adds (key, value) to the table, splitting its bucket first if it
// is already full.
func (ht *ExtendibleHashTable[K, V]) Insert(key K, value V) bool {
	ht.tableLatch.RLock()
	dirPage := ht.fetchDirectoryPage()
	bucketPageId := ht.keyToPageId(key, dirPage)
	bucketPg := ht.bpm.FetchPage(bucketPageId)
	bucket := page.NewBucketPage[K, V](bucketPg.Data(), ht.bucketArraySize, ht.keyCodec, ht.valCodec)

	bucketPg.WLatch()
	full := bucket.IsFull()
	done := false
	if !full {
		done = bucket.Insert(key, value, ht.comparator)
	}
	bucketPg.WUnlatch()

	ht.bpm.UnpinPage(ht.directoryPageId, false)
	ht.bpm.UnpinPage(bucketPageId, true)
	ht.tableLatch.RUnlock()

	if full {
		return ht.splitInsert(key, value, 0)
	}
	return done
}

// splitInsert grows the directory (if needed) and splits the target bucket,
// rehashing its readable entries between the original and the new sibling
// bucket, then retries the insert. depth bounds recursion: a pathological
// input whose hash never separates from its siblings at common.MaxDepth
// stops retrying and reports failure rather than looping forever.
func (ht *ExtendibleHashTable[K, V]) splitInsert(key K, value V, depth int) bool {
	if depth >= common.MaxDepth {
		return false
	}

	ht.tableLatch.WLock()
	dirPage := ht.fetchDirectoryPage()
	bucketIdx := ht.keyToDirectoryIndex(key, dirPage)
	bucketPageId := dirPage.GetBucketPageId(bucketIdx)
	bucketPg := ht.bpm.FetchPage(bucketPageId)
	bucket := page.NewBucketPage[K, V](bucketPg.Data(), ht.bucketArraySize, ht.keyCodec, ht.valCodec)

	bucketPg.WLatch()
	if !bucket.IsFull() {
		done := bucket.Insert(key, value, ht.comparator)
		bucketPg.WUnlatch()
		ht.bpm.UnpinPage(bucketPageId, true)
		ht.bpm.UnpinPage(ht.directoryPageId, false)
		ht.tableLatch.WUnlock()
		return done
	}

	if dirPage.GetLocalDepth(bucketIdx) == dirPage.GetGlobalDepth() {
		if dirPage.GetGlobalDepth() >= common.MaxDepth {
			bucketPg.WUnlatch()
			ht.bpm.UnpinPage(bucketPageId, false)
			ht.bpm.UnpinPage(ht.directoryPageId, false)
			ht.tableLatch.WUnlock()
			return false
		}
		dirPage.IncrGlobalDepth()
	}

	newBucketPg := ht.bpm.NewPage()
	common.SH_Assert(newBucketPg != nil, "failed to allocate sibling bucket page during split")
	newBucketPageId := newBucketPg.GetPageId()
	newBucketPg.WLatch()
	newBucket := page.NewBucketPage[K, V](newBucketPg.Data(), ht.bucketArraySize, ht.keyCodec, ht.valCodec)

	dirPage.IncrLocalDepth(bucketIdx)
	newBucketIdx := dirPage.GetSplitImageIndex(bucketIdx)
	newLocalDepth := dirPage.GetLocalDepth(bucketIdx)
	newLocalMask := dirPage.GetLocalDepthMask(bucketIdx)
	for i := uint32(0); i < dirPage.Size(); i++ {
		if dirPage.GetBucketPageId(i) == bucketPageId {
			dirPage.SetLocalDepth(i, newLocalDepth)
			if (i & newLocalMask) != (bucketIdx & newLocalMask) {
				dirPage.SetBucketPageId(i, newBucketPageId)
			}
		}
	}

	for i := uint32(0); i < ht.bucketArraySize; i++ {
		if !bucket.IsReadable(i) {
			continue
		}
		bucketKey := bucket.KeyAt(i)
		bucketValue := bucket.ValueAt(i)
		if ht.keyToDirectoryIndex(bucketKey, dirPage)&newLocalMask == newBucketIdx&newLocalMask {
			bucket.RemoveAt(i)
			newBucket.Insert(bucketKey, bucketValue, ht.comparator)
		}
	}

	destPageId := ht.keyToPageId(key, dirPage)
	var done bool
	if destPageId == bucketPageId {
		done = bucket.Insert(key, value, ht.comparator)
	} else {
		done = newBucket.Insert(key, value, ht.comparator)
	}

	bucketPg.WUnlatch()
	newBucketPg.WUnlatch()

	ht.bpm.UnpinPage(ht.directoryPageId, true)
	ht.bpm.UnpinPage(bucketPageId, true)
	ht.bpm.UnpinPage(newBucketPageId, true)
	ht.tableLatch.WUnlock()

	if !done {
		return ht.splitInsert(key, value, depth+1)
	}
	return done
}

// Remove deletes (key, value) and, if it leaves the bucket empty, attempts
// to merge it with its split sibling.
func (ht *ExtendibleHashTable[K, V]) Remove(key K, value V) bool {
	ht.tableLatch.RLock()
	dirPage := ht.fetchDirectoryPage()
	bucketIdx := ht.keyToDirectoryIndex(key, dirPage)
	bucketPageId := dirPage.GetBucketPageId(bucketIdx)
	bucketPg := ht.bpm.FetchPage(bucketPageId)
	bucket := page.NewBucketPage[K, V](bucketPg.Data(), ht.bucketArraySize, ht.keyCodec, ht.valCodec)

	bucketPg.WLatch()
	done := bucket.Remove(key, value, ht.comparator)
	bucketSize := bucket.NumReadable()
	bucketPg.WUnlatch()

	ht.bpm.UnpinPage(ht.directoryPageId, false)
	ht.bpm.UnpinPage(bucketPageId, true)
	ht.tableLatch.RUnlock()

	if bucketSize == 0 {
		ht.Merge(key)
	}
	return done
}

// Merge folds an empty bucket back into its split sibling when both sides
// have the same local depth, then shrinks the directory as far as it can.
// A no-op if the bucket's local depth is already 0, if the sibling is at a
// different local depth, or if the bucket is no longer empty.
func (ht *ExtendibleHashTable[K, V]) Merge(key K) {
	ht.tableLatch.WLock()
	defer ht.tableLatch.WUnlock()

	dirPage := ht.fetchDirectoryPage()
	bucketIdx := ht.keyToDirectoryIndex(key, dirPage)
	bucketLocalDepth := dirPage.GetLocalDepth(bucketIdx)

	if bucketLocalDepth == 0 {
		ht.bpm.UnpinPage(ht.directoryPageId, false)
		return
	}

	splitIdx := dirPage.GetSplitImageIndex(bucketIdx)
	imageLocalDepth := dirPage.GetLocalDepth(splitIdx)
	if imageLocalDepth != bucketLocalDepth {
		ht.bpm.UnpinPage(ht.directoryPageId, false)
		return
	}

	bucketPageId := dirPage.GetBucketPageId(bucketIdx)
	bucketPg := ht.bpm.FetchPage(bucketPageId)
	bucket := page.NewBucketPage[K, V](bucketPg.Data(), ht.bucketArraySize, ht.keyCodec, ht.valCodec)
	if !bucket.IsEmpty() {
		ht.bpm.UnpinPage(ht.directoryPageId, false)
		ht.bpm.UnpinPage(bucketPageId, false)
		return
	}

	imagePageId := dirPage.GetBucketPageId(splitIdx)
	for i := uint32(0); i < dirPage.Size(); i++ {
		pid := dirPage.GetBucketPageId(i)
		if pid == bucketPageId || pid == imagePageId {
			dirPage.SetBucketPageId(i, imagePageId)
			dirPage.DecrLocalDepth(i)
		}
	}

	ht.bpm.UnpinPage(bucketPageId, false)
	ht.bpm.DeletePage(bucketPageId)

	for dirPage.CanShrink() {
		dirPage.DecrGlobalDepth()
	}
	ht.bpm.UnpinPage(ht.directoryPageId, true)
}

// GetGlobalDepth returns the directory's current global depth.
func (ht *ExtendibleHashTable[K, V]) GetGlobalDepth() uint32 {
	ht.tableLatch.RLock()
	defer ht.tableLatch.RUnlock()

	dirPage := ht.fetchDirectoryPage()
	depth := dirPage.GetGlobalDepth()
	ht.bpm.UnpinPage(ht.directoryPageId, false)
	return depth
}

// VerifyIntegrity checks the directory's internal consistency invariants
// and returns every violation found.
func (ht *ExtendibleHashTable[K, V]) VerifyIntegrity() []string {
	ht.tableLatch.RLock()
	defer ht.tableLatch.RUnlock()

	dirPage := ht.fetchDirectoryPage()
	violations := dirPage.VerifyIntegrity()
	ht.bpm.UnpinPage(ht.directoryPageId, false)
	return violations
}
