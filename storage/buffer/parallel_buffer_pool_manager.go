package buffer

import (
	deadlock "github.com/sasha-s/go-deadlock"

	"github.com/coredb-io/coredb/storage/disk"
	"github.com/coredb-io/coredb/storage/page"
	"github.com/coredb-io/coredb/types"
)

// ParallelBufferPoolManager shards page ids across numInstances independent
// BufferPoolManager instances by page_id mod numInstances, so lock
// contention on any one instance's latch is divided among shards.
type ParallelBufferPoolManager struct {
	instances      []*BufferPoolManager
	poolSize       uint32
	allocLatch     deadlock.Mutex
	lastAllocIndex uint32
}

// NewParallelBufferPoolManager builds numInstances shards of poolSize frames
// each, all backed by the same DiskManager.
func NewParallelBufferPoolManager(numInstances, poolSize uint32, diskManager disk.DiskManager) *ParallelBufferPoolManager {
	instances := make([]*BufferPoolManager, numInstances)
	for i := uint32(0); i < numInstances; i++ {
		instances[i] = newBufferPoolManagerInstance(poolSize, numInstances, i, diskManager)
	}
	return &ParallelBufferPoolManager{
		instances: instances,
		poolSize:  poolSize,
	}
}

// GetPoolSize returns the combined capacity of every shard.
func (p *ParallelBufferPoolManager) GetPoolSize() uint32 {
	return uint32(len(p.instances)) * p.poolSize
}

// getInstance returns the shard responsible for pageID.
func (p *ParallelBufferPoolManager) getInstance(pageID types.PageID) *BufferPoolManager {
	n := uint32(len(p.instances))
	idx := uint32(pageID) % n
	return p.instances[idx]
}

func (p *ParallelBufferPoolManager) FetchPage(pageID types.PageID) *page.Page {
	return p.getInstance(pageID).FetchPage(pageID)
}

func (p *ParallelBufferPoolManager) UnpinPage(pageID types.PageID, isDirty bool) bool {
	return p.getInstance(pageID).UnpinPage(pageID, isDirty)
}

func (p *ParallelBufferPoolManager) FlushPage(pageID types.PageID) bool {
	return p.getInstance(pageID).FlushPage(pageID)
}

// NewPage requests a new page in round-robin order across shards, starting
// at the cursor and trying each shard in turn. After a successful
// allocation the cursor advances by one from where this call started,
// whichever shard actually served it. If every shard is full it returns nil.
//
// The starting index still advances by one even when the whole round trip
// fails: a caller that retries after freeing frames is handed a different
// starting shard than the one that just failed, rather than immediately
// re-trying the shard most likely still full. Preserved from the original's
// NewPgImp exactly as written, including on the all-shards-full path.
func (p *ParallelBufferPoolManager) NewPage() *page.Page {
	p.allocLatch.Lock()
	defer p.allocLatch.Unlock()

	n := uint32(len(p.instances))
	startIndex := p.lastAllocIndex
	for {
		pg := p.instances[startIndex%n].NewPage()
		if pg != nil {
			p.lastAllocIndex = (p.lastAllocIndex + 1) % n
			return pg
		}
		startIndex = (startIndex + 1) % n
		if startIndex == p.lastAllocIndex {
			break
		}
	}
	p.lastAllocIndex = (p.lastAllocIndex + 1) % n
	return nil
}

func (p *ParallelBufferPoolManager) DeletePage(pageID types.PageID) bool {
	return p.getInstance(pageID).DeletePage(pageID)
}

// FlushAllPages flushes every shard.
func (p *ParallelBufferPoolManager) FlushAllPages() {
	for _, instance := range p.instances {
		instance.FlushAllPages()
	}
}
