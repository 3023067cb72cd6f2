// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package disk

import (
	"os"
)

// DiskManagerTest is the disk implementation of DiskManager for testing purposes
type DiskManagerTest struct {
	path string
	DiskManager
}

// NewDiskManagerTest returns a file-backed DiskManager instance rooted at a
// fresh temporary path, removed on ShutDown.
func NewDiskManagerTest() DiskManager {
	f, err := os.CreateTemp("", "coredb-disk-*.db")
	if err != nil {
		panic(err)
	}
	path := f.Name()
	f.Close()
	os.Remove(path)

	diskManager := NewDiskManagerImpl(path)
	return &DiskManagerTest{path, diskManager}
}

// ShutDown closes the database file and removes it.
func (d *DiskManagerTest) ShutDown() {
	defer os.Remove(d.path)
	d.DiskManager.ShutDown()
}

// NewVirtualDiskManagerTest returns an in-memory DiskManager instance for
// tests that don't need to exercise the file-backed implementation.
func NewVirtualDiskManagerTest() DiskManager {
	return NewVirtualDiskManagerImpl("coredb-virtual-test.db")
}
