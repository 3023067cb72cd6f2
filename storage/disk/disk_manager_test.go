package disk

import (
	"testing"

	"github.com/coredb-io/coredb/common"
	"github.com/coredb-io/coredb/internal/testutil"
	"github.com/coredb-io/coredb/types"
)

func TestDiskManagerImplReadWritePage(t *testing.T) {
	dm := NewDiskManagerTest()
	defer dm.ShutDown()

	data := make([]byte, common.PageSize)
	buffer := make([]byte, common.PageSize)

	copy(data, "A test string.")

	dm.ReadPage(0, buffer) // tolerate empty read
	testutil.Ok(t, dm.WritePage(0, data))
	testutil.Ok(t, dm.ReadPage(0, buffer))
	testutil.Equals(t, data, buffer)

	memset(buffer)
	copy(data, "Another test string.")

	testutil.Ok(t, dm.WritePage(5, data))
	testutil.Ok(t, dm.ReadPage(5, buffer))
	testutil.Equals(t, data, buffer)
}

func TestVirtualDiskManagerReadWritePage(t *testing.T) {
	dm := NewVirtualDiskManagerTest()
	defer dm.ShutDown()

	data := make([]byte, common.PageSize)
	buffer := make([]byte, common.PageSize)
	copy(data, "virtual disk manager")

	testutil.Ok(t, dm.WritePage(0, data))
	testutil.Ok(t, dm.ReadPage(0, buffer))
	testutil.Equals(t, data, buffer)
}

func TestVirtualDiskManagerDeallocateReuse(t *testing.T) {
	dm := NewVirtualDiskManagerTest()
	defer dm.ShutDown()

	p1 := dm.AllocatePage()
	dm.DeallocatePage(p1)

	buffer := make([]byte, common.PageSize)
	if err := dm.ReadPage(p1, buffer); err != types.DeallocatedPageErr {
		t.Fatalf("expected DeallocatedPageErr, got %v", err)
	}

	p2 := dm.AllocatePage()
	data := make([]byte, common.PageSize)
	copy(data, "reused space")
	testutil.Ok(t, dm.WritePage(p2, data))
}

func memset(buffer []byte) {
	for i := range buffer {
		buffer[i] = 0
	}
}
