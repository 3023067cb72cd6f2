package buffer

import (
	"testing"

	"github.com/coredb-io/coredb/internal/testutil"
	"github.com/coredb-io/coredb/storage/disk"
	"github.com/coredb-io/coredb/types"
)

func TestParallelBufferPoolManagerShardsByPageId(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	pbpm := NewParallelBufferPoolManager(4, 2, dm)

	testutil.Equals(t, uint32(8), pbpm.GetPoolSize())

	seen := make(map[types.PageID]bool)
	for i := 0; i < 4; i++ {
		pg := pbpm.NewPage()
		testutil.Nok(t, pg != nil)
		testutil.Nok(t, !seen[pg.GetPageId()])
		seen[pg.GetPageId()] = true
		testutil.Equals(t, uint32(i), uint32(pg.GetPageId())%4)
	}
}

func TestParallelBufferPoolManagerFetchRoutesToOwningShard(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	pbpm := NewParallelBufferPoolManager(2, 2, dm)

	pg := pbpm.NewPage()
	pg.Copy(0, []byte("hi"))
	testutil.Equals(t, true, pbpm.UnpinPage(pg.GetPageId(), true))

	got := pbpm.FetchPage(pg.GetPageId())
	testutil.Nok(t, got != nil)
	testutil.Equals(t, pg.GetPageId(), got.GetPageId())
	pbpm.UnpinPage(pg.GetPageId(), false)
}

// TestParallelBufferPoolManagerNewPageAllFullAdvancesCursor exercises the
// preserved quirk: when every shard is full, NewPage still advances the
// round-robin cursor by one before returning nil.
func TestParallelBufferPoolManagerNewPageAllFullAdvancesCursor(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	pbpm := NewParallelBufferPoolManager(2, 1, dm)

	testutil.Nok(t, pbpm.NewPage() != nil)
	testutil.Nok(t, pbpm.NewPage() != nil)

	before := pbpm.lastAllocIndex
	got := pbpm.NewPage()
	testutil.Equals(t, true, got == nil)
	after := pbpm.lastAllocIndex
	testutil.Equals(t, (before+1)%uint32(len(pbpm.instances)), after)
}

func TestParallelBufferPoolManagerFlushAllPages(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	pbpm := NewParallelBufferPoolManager(2, 2, dm)

	pg := pbpm.NewPage()
	pg.Copy(0, []byte("x"))
	pbpm.UnpinPage(pg.GetPageId(), true)

	before := dm.GetNumWrites()
	pbpm.FlushAllPages()
	testutil.Nok(t, dm.GetNumWrites() > before)
}
