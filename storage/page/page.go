// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"sync/atomic"

	"github.com/coredb-io/coredb/common"
	"github.com/coredb-io/coredb/types"
)

// PageSize is the size of a page on disk.
const PageSize = common.PageSize

// Page is the basic unit of storage within the buffer pool. It wraps a
// PageSize-byte block plus the book-keeping the buffer pool manager needs:
// pin count, dirty flag, page id, and a per-page reader/writer latch.
type Page struct {
	id       types.PageID
	pinCount int32
	isDirty  bool
	data     *[PageSize]byte
	rwlatch  common.ReaderWriterLatch
}

// IncPinCount increments the pin count.
func (p *Page) IncPinCount() {
	atomic.AddInt32(&p.pinCount, 1)
}

// DecPinCount decrements the pin count. It never goes below zero.
func (p *Page) DecPinCount() {
	for {
		cur := atomic.LoadInt32(&p.pinCount)
		if cur <= 0 {
			return
		}
		if atomic.CompareAndSwapInt32(&p.pinCount, cur, cur-1) {
			return
		}
	}
}

// PinCount returns the pin count.
func (p *Page) PinCount() int32 {
	return atomic.LoadInt32(&p.pinCount)
}

// GetPageId returns the page id.
func (p *Page) GetPageId() types.PageID {
	return p.id
}

// SetPageId reassigns the page id; the buffer pool manager uses it to mark
// a deleted page invalid.
func (p *Page) SetPageId(id types.PageID) {
	p.id = id
}

// Data returns the raw page bytes.
func (p *Page) Data() *[PageSize]byte {
	return p.data
}

// SetIsDirty sets the dirty bit.
func (p *Page) SetIsDirty(isDirty bool) {
	p.isDirty = isDirty
}

// IsDirty reports whether the page's bytes differ from the on-disk copy.
func (p *Page) IsDirty() bool {
	return p.isDirty
}

// Copy overwrites data starting at offset.
func (p *Page) Copy(offset uint32, data []byte) {
	copy(p.data[offset:], data)
}

// ResetMemory zeroes the page bytes, used when the buffer pool manager
// deletes a page.
func (p *Page) ResetMemory() {
	*p.data = [PageSize]byte{}
}

// WLatch acquires the page's write latch.
func (p *Page) WLatch() { p.rwlatch.WLock() }

// WUnlatch releases the page's write latch.
func (p *Page) WUnlatch() { p.rwlatch.WUnlock() }

// RLatch acquires the page's read latch.
func (p *Page) RLatch() { p.rwlatch.RLock() }

// RUnlatch releases the page's read latch.
func (p *Page) RUnlatch() { p.rwlatch.RUnlock() }

// New creates a page carrying id and data, with a pin count of 1.
func New(id types.PageID, isDirty bool, data *[PageSize]byte) *Page {
	return &Page{id: id, pinCount: 1, isDirty: isDirty, data: data, rwlatch: common.NewRWLatch()}
}

// NewEmpty creates a zeroed page carrying id, with a pin count of 1.
func NewEmpty(id types.PageID) *Page {
	return &Page{id: id, pinCount: 1, isDirty: false, data: &[PageSize]byte{}, rwlatch: common.NewRWLatch()}
}
