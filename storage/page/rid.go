package page

import "github.com/coredb-io/coredb/types"

// RID is the record identifier for a given page identifier and slot number;
// it is the value type the extendible hash table's tests key against.
type RID struct {
	pageId  types.PageID
	slotNum uint32
}

// NewRID builds an RID directly.
func NewRID(pageId types.PageID, slot uint32) RID {
	return RID{pageId, slot}
}

// Set sets the record identifier.
func (r *RID) Set(pageId types.PageID, slot uint32) {
	r.pageId = pageId
	r.slotNum = slot
}

// GetPageId gets the page id.
func (r *RID) GetPageId() types.PageID {
	return r.pageId
}

// GetSlot gets the slot number.
func (r *RID) GetSlot() uint32 {
	return r.slotNum
}
