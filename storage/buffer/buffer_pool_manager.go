// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	deadlock "github.com/sasha-s/go-deadlock"

	"github.com/coredb-io/coredb/common"
	"github.com/coredb-io/coredb/storage/disk"
	"github.com/coredb-io/coredb/storage/page"
	"github.com/coredb-io/coredb/types"
)

// BufferPoolManager is a fixed-size, page-granular cache over a DiskManager.
// One coarse latch guards all of its metadata; disk I/O happens while that
// latch is held, trading throughput for a simple, obviously correct
// implementation.
type BufferPoolManager struct {
	latch         deadlock.Mutex
	poolSize      uint32
	numInstances  uint32
	instanceIndex uint32
	nextPageID    int64

	diskManager disk.DiskManager
	pages       []*page.Page
	pageTable   map[types.PageID]FrameID
	freeList    []FrameID
	replacer    *LRUReplacer
}

// NewBufferPoolManager builds a standalone (non-sharded) instance. Page ids
// it allocates are unconstrained (numInstances=1, instanceIndex=0).
func NewBufferPoolManager(poolSize uint32, diskManager disk.DiskManager) *BufferPoolManager {
	return newBufferPoolManagerInstance(poolSize, 1, 0, diskManager)
}

// newBufferPoolManagerInstance builds the instanceIndex'th of numInstances
// shards, each responsible for page ids congruent to instanceIndex modulo
// numInstances.
func newBufferPoolManagerInstance(poolSize, numInstances, instanceIndex uint32, diskManager disk.DiskManager) *BufferPoolManager {
	freeList := make([]FrameID, poolSize)
	pages := make([]*page.Page, poolSize)
	for i := uint32(0); i < poolSize; i++ {
		freeList[i] = FrameID(i)
	}

	return &BufferPoolManager{
		poolSize:      poolSize,
		numInstances:  numInstances,
		instanceIndex: instanceIndex,
		nextPageID:    int64(instanceIndex),
		diskManager:   diskManager,
		pages:         pages,
		pageTable:     make(map[types.PageID]FrameID),
		freeList:      freeList,
		replacer:      NewLRUReplacer(poolSize),
	}
}

// AllocatePage returns the next page id owned by this instance and advances
// the counter by numInstances, so instance k only ever allocates ids ≡ k
// (mod numInstances).
func (b *BufferPoolManager) AllocatePage() types.PageID {
	id := b.nextPageID
	b.nextPageID += int64(b.numInstances)
	common.SH_Assert(id%int64(b.numInstances) == int64(b.instanceIndex), "page id does not belong to this instance's shard")
	return types.PageID(id)
}

// GetPoolSize returns the number of frames this instance owns.
func (b *BufferPoolManager) GetPoolSize() uint32 {
	return b.poolSize
}

// getVictimFrame implements victim acquisition (§4.2.1): free list first,
// then the replacer; a replacer victim whose current page is dirty is
// flushed before its frame is reused. Caller must hold b.latch.
func (b *BufferPoolManager) getVictimFrame() (FrameID, bool) {
	if len(b.freeList) > 0 {
		frameID := b.freeList[0]
		b.freeList = b.freeList[1:]
		return frameID, true
	}

	frameID, ok := b.replacer.Victim()
	if !ok {
		return 0, false
	}

	current := b.pages[frameID]
	if current != nil {
		if current.IsDirty() {
			data := current.Data()
			b.diskManager.WritePage(current.GetPageId(), data[:])
		}
		delete(b.pageTable, current.GetPageId())
	}
	return frameID, true
}

// NewPage allocates a fresh page, pins it, and returns its frame. Returns
// nil if every frame is pinned.
func (b *BufferPoolManager) NewPage() *page.Page {
	b.latch.Lock()
	defer b.latch.Unlock()

	frameID, ok := b.getVictimFrame()
	if !ok {
		return nil
	}

	pageID := b.AllocatePage()
	pg := page.NewEmpty(pageID)

	b.pageTable[pageID] = frameID
	b.pages[frameID] = pg
	return pg
}

// FetchPage returns the frame holding pageID, reading it from disk on a
// miss. A cache hit does not mark the page dirty — only UnpinPage's isDirty
// argument can do that (see DESIGN.md, "FetchPage dirty-on-hit anomaly").
func (b *BufferPoolManager) FetchPage(pageID types.PageID) *page.Page {
	b.latch.Lock()
	defer b.latch.Unlock()

	if frameID, ok := b.pageTable[pageID]; ok {
		pg := b.pages[frameID]
		pg.IncPinCount()
		b.replacer.Pin(frameID)
		return pg
	}

	frameID, ok := b.getVictimFrame()
	if !ok {
		return nil
	}

	data := make([]byte, common.PageSize)
	if err := b.diskManager.ReadPage(pageID, data); err != nil {
		return nil
	}
	var pageData [common.PageSize]byte
	copy(pageData[:], data)

	pg := page.New(pageID, false, &pageData)
	b.pageTable[pageID] = frameID
	b.pages[frameID] = pg
	b.replacer.Pin(frameID)
	return pg
}

// UnpinPage decrements pageID's pin count, marking it dirty if isDirty is
// set. It never flushes: flushing happens only on eviction or an explicit
// FlushPage/FlushAllPages call (see DESIGN.md, "UnpinPage synchronous flush
// anomaly").
func (b *BufferPoolManager) UnpinPage(pageID types.PageID, isDirty bool) bool {
	b.latch.Lock()
	defer b.latch.Unlock()

	frameID, ok := b.pageTable[pageID]
	if !ok {
		return false
	}
	pg := b.pages[frameID]
	if pg.PinCount() <= 0 {
		return false
	}

	if isDirty {
		pg.SetIsDirty(true)
	}
	pg.DecPinCount()
	if pg.PinCount() == 0 {
		b.replacer.Unpin(frameID)
	}
	return true
}

// FlushPage writes pageID to disk if dirty. Pin state is unchanged.
func (b *BufferPoolManager) FlushPage(pageID types.PageID) bool {
	b.latch.Lock()
	defer b.latch.Unlock()
	return b.flushPageLocked(pageID)
}

func (b *BufferPoolManager) flushPageLocked(pageID types.PageID) bool {
	frameID, ok := b.pageTable[pageID]
	if !ok {
		return false
	}
	pg := b.pages[frameID]
	if pg.IsDirty() {
		data := pg.Data()
		b.diskManager.WritePage(pageID, data[:])
		pg.SetIsDirty(false)
	}
	return true
}

// FlushAllPages flushes every resident page.
func (b *BufferPoolManager) FlushAllPages() {
	b.latch.Lock()
	defer b.latch.Unlock()

	for pageID := range b.pageTable {
		b.flushPageLocked(pageID)
	}
}

// DeletePage removes pageID from the pool and returns its frame to the free
// list. Returns false if the page is pinned; true (a no-op) if the page is
// not resident.
func (b *BufferPoolManager) DeletePage(pageID types.PageID) bool {
	b.latch.Lock()
	defer b.latch.Unlock()

	frameID, ok := b.pageTable[pageID]
	if !ok {
		return true
	}

	pg := b.pages[frameID]
	if pg.PinCount() > 0 {
		return false
	}

	delete(b.pageTable, pageID)
	b.replacer.Pin(frameID)
	pg.SetPageId(types.InvalidPageID)
	pg.SetIsDirty(false)
	pg.ResetMemory()
	b.pages[frameID] = nil
	b.freeList = append(b.freeList, frameID)

	b.diskManager.DeallocatePage(pageID)
	return true
}
