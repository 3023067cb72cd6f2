package disk

import (
	"errors"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dsnet/golib/memfile"
	deadlock "github.com/sasha-s/go-deadlock"

	"github.com/coredb-io/coredb/common"
	"github.com/coredb-io/coredb/types"
)

// VirtualDiskManagerImpl is an in-memory DiskManager, used by the buffer
// pool and hash table test suites so they never touch the filesystem.
type VirtualDiskManagerImpl struct {
	db              *memfile.File
	fileName        string
	nextPageID      types.PageID
	numWrites       uint64
	size            int64
	fileMutex       *deadlock.Mutex
	reusableSpceIDs []types.PageID
	spaceIDConvMap  map[types.PageID]types.PageID
	deallocedIDs    mapset.Set[types.PageID]
}

// NewVirtualDiskManagerImpl returns an in-memory DiskManager instance.
// dbFilename is retained only for parity with the file-backed constructor's
// signature and diagnostic messages; nothing is written to disk.
func NewVirtualDiskManagerImpl(dbFilename string) DiskManager {
	file := memfile.New(make([]byte, 0))

	return &VirtualDiskManagerImpl{
		db:              file,
		fileName:        dbFilename,
		nextPageID:      types.PageID(0),
		numWrites:       0,
		size:            0,
		fileMutex:       new(deadlock.Mutex),
		reusableSpceIDs: make([]types.PageID, 0),
		spaceIDConvMap:  make(map[types.PageID]types.PageID),
		deallocedIDs:    mapset.NewSet[types.PageID](),
	}
}

// ShutDown is a no-op: there is no backing file to close.
func (d *VirtualDiskManagerImpl) ShutDown() {
}

// convToSpaceID maps a page id onto the backing-file offset reused from a
// previously deallocated page, if any.
func (d *VirtualDiskManagerImpl) convToSpaceID(pageID types.PageID) (spaceID types.PageID) {
	if convedID, exist := d.spaceIDConvMap[pageID]; exist {
		return convedID
	}
	return pageID
}

// WritePage writes a page into the in-memory file.
func (d *VirtualDiskManagerImpl) WritePage(pageId types.PageID, pageData []byte) error {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()

	offset := int64(d.convToSpaceID(pageId)) * int64(common.PageSize)
	if _, err := d.db.WriteAt(pageData, offset); err != nil {
		return err
	}

	if offset >= d.size {
		d.size = offset + int64(len(pageData))
	}
	d.numWrites++

	return nil
}

// ReadPage reads a page from the in-memory file.
func (d *VirtualDiskManagerImpl) ReadPage(pageID types.PageID, pageData []byte) error {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()

	if d.deallocedIDs.Contains(pageID) {
		return types.DeallocatedPageErr
	}

	offset := int64(d.convToSpaceID(pageID)) * int64(common.PageSize)
	if offset > d.size || offset+int64(len(pageData)) > d.size {
		return errors.New("I/O error past end of file")
	}

	_, err := d.db.ReadAt(pageData, offset)
	return err
}

// AllocatePage allocates a new page id, reusing the backing space of a
// previously deallocated page when one is available.
func (d *VirtualDiskManagerImpl) AllocatePage() types.PageID {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()

	ret := d.nextPageID
	if len(d.reusableSpceIDs) > 0 {
		reuseID := d.reusableSpceIDs[0]
		d.reusableSpceIDs = d.reusableSpceIDs[1:]
		d.spaceIDConvMap[ret] = reuseID
	}
	d.nextPageID++

	return ret
}

// DeallocatePage marks pageID deallocated and returns its backing space to
// the reuse pool. Bytes are left in place until reused.
func (d *VirtualDiskManagerImpl) DeallocatePage(pageID types.PageID) {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()

	d.deallocedIDs.Add(pageID)
	if convedID, exist := d.spaceIDConvMap[pageID]; exist {
		d.reusableSpceIDs = append(d.reusableSpceIDs, convedID)
		delete(d.spaceIDConvMap, pageID)
	} else {
		d.reusableSpceIDs = append(d.reusableSpceIDs, pageID)
	}
}

// GetNumWrites returns the number of successful writes.
func (d *VirtualDiskManagerImpl) GetNumWrites() uint64 {
	return d.numWrites
}

// Size returns the logical size of the in-memory file in bytes.
func (d *VirtualDiskManagerImpl) Size() int64 {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()
	return d.size
}

// RemoveDBFile is a no-op: there is no backing file.
func (d *VirtualDiskManagerImpl) RemoveDBFile() {
}
