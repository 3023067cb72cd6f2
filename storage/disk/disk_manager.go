package disk

import (
	"github.com/coredb-io/coredb/types"
)

// DiskManager is responsible for interacting with disk. Pages are fixed
// PAGE_SIZE-byte blocks addressed by PageID; INVALID_PAGE_ID is never a
// legal argument.
type DiskManager interface {
	ReadPage(types.PageID, []byte) error
	WritePage(types.PageID, []byte) error
	AllocatePage() types.PageID
	DeallocatePage(types.PageID)
	GetNumWrites() uint64
	ShutDown()
	Size() int64
}
