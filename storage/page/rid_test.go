package page

import (
	"testing"

	"github.com/coredb-io/coredb/internal/testutil"
	"github.com/coredb-io/coredb/types"
)

func TestRID(t *testing.T) {
	rid := RID{}
	rid.Set(types.PageID(0), uint32(0))
	testutil.Equals(t, types.PageID(0), rid.GetPageId())
	testutil.Equals(t, uint32(0), rid.GetSlot())

	rid2 := NewRID(types.PageID(7), uint32(3))
	testutil.Equals(t, types.PageID(7), rid2.GetPageId())
	testutil.Equals(t, uint32(3), rid2.GetSlot())
}
