// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"container/list"

	deadlock "github.com/sasha-s/go-deadlock"
)

// FrameID is the type for a buffer pool frame index.
type FrameID int32

// LRUReplacer tracks the eviction order of unpinned frames: most-recently
// unpinned at the front, least-recently unpinned at the back. It owns only
// eviction order, never page data — the buffer pool manager notifies it of
// every pin/unpin transition.
type LRUReplacer struct {
	latch   deadlock.Mutex
	order   *list.List
	entries map[FrameID]*list.Element
}

// NewLRUReplacer builds an empty replacer. numPages is retained only for
// parity with the constructor signature the pool size implies; the
// replacer itself has no fixed capacity, it just tracks whichever frames
// are currently unpinned.
func NewLRUReplacer(numPages uint32) *LRUReplacer {
	return &LRUReplacer{
		order:   list.New(),
		entries: make(map[FrameID]*list.Element),
	}
}

// Victim pops the least-recently-unpinned frame, if any.
func (r *LRUReplacer) Victim() (FrameID, bool) {
	r.latch.Lock()
	defer r.latch.Unlock()

	back := r.order.Back()
	if back == nil {
		return 0, false
	}
	frameID := back.Value.(FrameID)
	r.order.Remove(back)
	delete(r.entries, frameID)
	return frameID, true
}

// Pin removes frame from eviction candidacy. No-op if it wasn't present.
func (r *LRUReplacer) Pin(frameID FrameID) {
	r.latch.Lock()
	defer r.latch.Unlock()

	elem, ok := r.entries[frameID]
	if !ok {
		return
	}
	r.order.Remove(elem)
	delete(r.entries, frameID)
}

// Unpin makes frame eligible for eviction. No-op if already present.
func (r *LRUReplacer) Unpin(frameID FrameID) {
	r.latch.Lock()
	defer r.latch.Unlock()

	if _, ok := r.entries[frameID]; ok {
		return
	}
	r.entries[frameID] = r.order.PushFront(frameID)
}

// Size returns the number of frames currently eligible for eviction.
func (r *LRUReplacer) Size() int {
	r.latch.Lock()
	defer r.latch.Unlock()
	return r.order.Len()
}
