// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"testing"

	"github.com/coredb-io/coredb/common"
	"github.com/coredb-io/coredb/internal/testutil"
	"github.com/coredb-io/coredb/storage/disk"
	"github.com/coredb-io/coredb/types"
)

// TestBufferPoolManagerNewPage fills a 3-frame pool, evicts one unpinned
// page to make room for a fourth, then confirms the next allocation fails
// while every frame remains pinned.
func TestBufferPoolManagerNewPage(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(3, dm)

	p0 := bpm.NewPage()
	testutil.Equals(t, types.PageID(0), p0.GetPageId())
	p1 := bpm.NewPage()
	p2 := bpm.NewPage()

	testutil.Equals(t, true, bpm.UnpinPage(p0.GetPageId(), false))

	p3 := bpm.NewPage()
	testutil.Nok(t, p3 != nil)

	testutil.Equals(t, true, bpm.DeletePage(p0.GetPageId()))

	testutil.Nok(t, bpm.NewPage() == nil)

	bpm.UnpinPage(p1.GetPageId(), false)
	bpm.UnpinPage(p2.GetPageId(), false)
	bpm.UnpinPage(p3.GetPageId(), false)
}

// TestBufferPoolManagerBinaryData exercises the dirty write-back path:
// fetching an evicted page returns the bytes written before eviction.
func TestBufferPoolManagerBinaryData(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(2, dm)

	p0 := bpm.NewPage()
	var data [common.PageSize]byte
	for i := range data {
		data[i] = byte(i % 256)
	}
	p0.Copy(0, data[:])

	testutil.Equals(t, true, bpm.UnpinPage(p0.GetPageId(), true))

	p1 := bpm.NewPage()
	testutil.Nok(t, p1 != nil)
	p2 := bpm.NewPage()
	testutil.Nok(t, p2 != nil)
	bpm.UnpinPage(p2.GetPageId(), false)

	got := bpm.FetchPage(p0.GetPageId())
	testutil.Nok(t, got != nil)
	testutil.Equals(t, data[:], got.Data()[:])

	bpm.UnpinPage(p0.GetPageId(), false)
	bpm.UnpinPage(p1.GetPageId(), false)
}

func TestBufferPoolManagerUnpin(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(2, dm)

	p0 := bpm.NewPage()
	p0.Copy(0, []byte("Hello"))
	testutil.Equals(t, true, bpm.UnpinPage(p0.GetPageId(), true))
	testutil.Equals(t, false, bpm.UnpinPage(p0.GetPageId(), true))
}

// TestBufferPoolManagerFetchPageDoesNotDirtyOnHit checks the fixed anomaly:
// a clean page fetched from cache stays clean until UnpinPage marks it
// dirty.
func TestBufferPoolManagerFetchPageDoesNotDirtyOnHit(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(2, dm)

	p0 := bpm.NewPage()
	testutil.Equals(t, true, bpm.UnpinPage(p0.GetPageId(), false))

	got := bpm.FetchPage(p0.GetPageId())
	testutil.Equals(t, false, got.IsDirty())
	bpm.UnpinPage(p0.GetPageId(), false)
}

// TestBufferPoolManagerUnpinDoesNotFlush checks the fixed anomaly: reaching
// pin_count 0 does not flush a dirty page, only eviction or an explicit
// FlushPage call does.
func TestBufferPoolManagerUnpinDoesNotFlush(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(2, dm)

	p0 := bpm.NewPage()
	p0.Copy(0, []byte("Hello"))
	before := dm.GetNumWrites()
	bpm.UnpinPage(p0.GetPageId(), true)
	testutil.Equals(t, before, dm.GetNumWrites())

	bpm.FlushPage(p0.GetPageId())
	testutil.Nok(t, dm.GetNumWrites() > before)
}

func TestBufferPoolManagerDeletePinnedFails(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(2, dm)

	p0 := bpm.NewPage()
	testutil.Equals(t, false, bpm.DeletePage(p0.GetPageId()))
	bpm.UnpinPage(p0.GetPageId(), false)
	testutil.Equals(t, true, bpm.DeletePage(p0.GetPageId()))
}
