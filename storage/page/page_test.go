// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"testing"

	"github.com/coredb-io/coredb/common"
	"github.com/coredb-io/coredb/internal/testutil"
	"github.com/coredb-io/coredb/types"
)

func TestNewPage(t *testing.T) {
	p := New(types.PageID(0), false, &[common.PageSize]byte{})

	testutil.Equals(t, types.PageID(0), p.GetPageId())
	testutil.Equals(t, int32(1), p.PinCount())
	p.IncPinCount()
	testutil.Equals(t, int32(2), p.PinCount())
	p.DecPinCount()
	p.DecPinCount()
	testutil.Equals(t, int32(0), p.PinCount())
	testutil.Equals(t, false, p.IsDirty())
	p.SetIsDirty(true)
	testutil.Equals(t, true, p.IsDirty())
	p.Copy(0, []byte{'H', 'E', 'L', 'L', 'O'})
	testutil.Equals(t, [common.PageSize]byte{'H', 'E', 'L', 'L', 'O'}, *p.Data())
}

func TestEmptyPage(t *testing.T) {
	p := NewEmpty(types.PageID(0))

	testutil.Equals(t, types.PageID(0), p.GetPageId())
	testutil.Equals(t, int32(1), p.PinCount())
	testutil.Equals(t, false, p.IsDirty())
	testutil.Equals(t, [common.PageSize]byte{}, *p.Data())
}

func TestPageLatch(t *testing.T) {
	p := NewEmpty(types.PageID(0))

	done := make(chan struct{})
	p.WLatch()
	go func() {
		p.RLatch()
		p.RUnlatch()
		close(done)
	}()
	p.WUnlatch()
	<-done
}
