// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

import (
	"errors"
)

// PageID is the type of the page identifier
type PageID int32

// DeallocatedPageErr is returned when an operation is attempted against a
// page id that has already been deallocated.
var DeallocatedPageErr = errors.New("deallocated page id was passed")

// InvalidPageID represents an invalid page GetPageId
const InvalidPageID = PageID(-1)
