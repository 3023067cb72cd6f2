package page

import (
	"fmt"
	"unsafe"

	"github.com/coredb-io/coredb/common"
	"github.com/coredb-io/coredb/types"
)

// MaxDepth bounds how many low-order hash bits the directory can index with:
// a directory never grows past 1<<MaxDepth slots.
const MaxDepth = common.MaxDepth

// DirectoryArraySize is 1<<MaxDepth, the fixed capacity of the directory's
// bucket_page_ids/local_depths arrays regardless of the current global depth.
const DirectoryArraySize = common.DirectorySize

// HashTableDirectoryPage is the fixed-layout directory page of an extendible
// hash table: a page id, a global depth, and parallel arrays of bucket page
// ids and local depths, one entry per directory slot.
//
// Because this page carries no key/value-typed fields, it is cast directly
// onto the page's raw bytes via unsafe.Pointer (mirroring the C++ original's
// reinterpret_cast), rather than the slice-offset layout the generic bucket
// page needs.
type HashTableDirectoryPage struct {
	pageId        types.PageID
	lsn           int32
	globalDepth   uint32
	localDepths   [DirectoryArraySize]uint8
	bucketPageIds [DirectoryArraySize]types.PageID
}

// CastToDirectoryPage reinterprets raw page bytes as a directory page.
func CastToDirectoryPage(data *[PageSize]byte) *HashTableDirectoryPage {
	return (*HashTableDirectoryPage)(unsafe.Pointer(data))
}

func (d *HashTableDirectoryPage) GetPageId() types.PageID { return d.pageId }
func (d *HashTableDirectoryPage) SetPageId(id types.PageID) { d.pageId = id }

func (d *HashTableDirectoryPage) GetLSN() int32   { return d.lsn }
func (d *HashTableDirectoryPage) SetLSN(lsn int32) { d.lsn = lsn }

// GetGlobalDepth returns the current global depth.
func (d *HashTableDirectoryPage) GetGlobalDepth() uint32 { return d.globalDepth }

// IncrGlobalDepth doubles the directory: every slot index i in [0, Size())
// gains a mirror at i + Size() with the same bucket page id and local depth.
func (d *HashTableDirectoryPage) IncrGlobalDepth() {
	common.SH_Assert(d.globalDepth < MaxDepth, "directory already at MaxDepth")
	size := d.Size()
	for i := uint32(0); i < size; i++ {
		d.bucketPageIds[i+size] = d.bucketPageIds[i]
		d.localDepths[i+size] = d.localDepths[i]
	}
	d.globalDepth++
}

// DecrGlobalDepth shrinks the directory by one bit.
func (d *HashTableDirectoryPage) DecrGlobalDepth() {
	common.SH_Assert(d.globalDepth > 0, "directory already at depth 0")
	d.globalDepth--
}

// GetGlobalDepthMask returns (1<<global_depth)-1.
func (d *HashTableDirectoryPage) GetGlobalDepthMask() uint32 {
	return (uint32(1) << d.globalDepth) - 1
}

// GetLocalDepth returns the local depth of directory slot idx.
func (d *HashTableDirectoryPage) GetLocalDepth(idx uint32) uint32 {
	return uint32(d.localDepths[idx])
}

// SetLocalDepth sets the local depth of directory slot idx.
func (d *HashTableDirectoryPage) SetLocalDepth(idx uint32, depth uint32) {
	d.localDepths[idx] = uint8(depth)
}

// IncrLocalDepth increments the local depth of directory slot idx.
func (d *HashTableDirectoryPage) IncrLocalDepth(idx uint32) {
	d.localDepths[idx]++
}

// DecrLocalDepth decrements the local depth of directory slot idx.
func (d *HashTableDirectoryPage) DecrLocalDepth(idx uint32) {
	common.SH_Assert(d.localDepths[idx] > 0, "local depth already 0")
	d.localDepths[idx]--
}

// GetLocalDepthMask returns (1<<local_depths[idx])-1.
func (d *HashTableDirectoryPage) GetLocalDepthMask(idx uint32) uint32 {
	return (uint32(1) << d.localDepths[idx]) - 1
}

// GetBucketPageId returns the bucket page id stored at directory slot idx.
func (d *HashTableDirectoryPage) GetBucketPageId(idx uint32) types.PageID {
	return d.bucketPageIds[idx]
}

// SetBucketPageId sets the bucket page id at directory slot idx.
func (d *HashTableDirectoryPage) SetBucketPageId(idx uint32, pageId types.PageID) {
	d.bucketPageIds[idx] = pageId
}

// Size returns 1<<global_depth, the number of active directory slots.
func (d *HashTableDirectoryPage) Size() uint32 {
	return uint32(1) << d.globalDepth
}

// GetSplitImageIndex returns the directory index that differs from idx in
// exactly the bit newly added by local_depths[idx]'s increase. Undefined
// when local_depths[idx] == 0.
func (d *HashTableDirectoryPage) GetSplitImageIndex(idx uint32) uint32 {
	localDepth := d.GetLocalDepth(idx)
	common.SH_Assert(localDepth > 0, "GetSplitImageIndex called with local depth 0")
	return idx ^ (uint32(1) << (localDepth - 1))
}

// CanShrink reports whether every active slot's local depth is strictly
// less than the global depth, i.e. global_depth can safely decrement.
func (d *HashTableDirectoryPage) CanShrink() bool {
	size := d.Size()
	for i := uint32(0); i < size; i++ {
		if d.GetLocalDepth(i) >= d.globalDepth {
			return false
		}
	}
	return true
}

// VerifyIntegrity re-derives, for every active slot, the bucket page id its
// local depth implies and checks it against the directory's recorded value.
// It returns every violation found rather than aborting on the first one;
// callers that want BusTub's original fatal behavior can feed the result
// into common.SH_Assert themselves.
func (d *HashTableDirectoryPage) VerifyIntegrity() []string {
	violations := []string{}
	size := d.Size()

	counts := make(map[types.PageID]uint32)
	depths := make(map[types.PageID]uint32)

	for i := uint32(0); i < size; i++ {
		localDepth := d.GetLocalDepth(i)
		if localDepth > d.globalDepth {
			violations = append(violations, fmt.Sprintf("slot %d: local depth %d exceeds global depth %d", i, localDepth, d.globalDepth))
			continue
		}
		bucketId := d.GetBucketPageId(i)
		expected := i & ((uint32(1) << localDepth) - 1)
		if localDepth > 0 && d.GetBucketPageId(expected) != bucketId {
			violations = append(violations, fmt.Sprintf("slot %d: bucket %d does not match canonical slot %d's bucket %d", i, bucketId, expected, d.GetBucketPageId(expected)))
		}
		counts[bucketId]++
		if prev, ok := depths[bucketId]; ok && prev != localDepth {
			violations = append(violations, fmt.Sprintf("bucket %d: inconsistent local depth (%d vs %d) across directory slots", bucketId, prev, localDepth))
		}
		depths[bucketId] = localDepth
	}

	for bucketId, count := range counts {
		depth := depths[bucketId]
		if count != uint32(1)<<(d.globalDepth-depth) {
			violations = append(violations, fmt.Sprintf("bucket %d: expected %d directory entries at local depth %d, found %d", bucketId, uint32(1)<<(d.globalDepth-depth), depth, count))
		}
	}

	return violations
}
