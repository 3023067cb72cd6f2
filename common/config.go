// this code is from https://github.com/pzhzqt/goostub
// there is license and copyright notice in licenses/goostub dir

package common

import (
	"time"
)

var CycleDetectionInterval time.Duration
var EnableLogging bool = false
var LogTimeout time.Duration
var EnableDebug bool = false

const (
	// invalid page id
	InvalidPageID = -1
	// invalid transaction id
	InvalidTxnID = -1
	// invalid log sequence number
	InvalidLSN = -1
	// the header page id
	HeaderPageID = 0
	// size of a data page in byte
	PageSize = 4096
	// size of buffer pool
	LogBufferPoolSize = 32
	// size of a log buffer in byte
	LogBufferSize = ((LogBufferPoolSize + 1) * PageSize)
	// size of extendible hash bucket when no explicit capacity is given
	BucketSize = 50
	// default capacity of a generic hash table bucket page
	DefaultBucketArraySize = BucketSize
	// max global/local depth of the extendible hash table directory
	MaxDepth = 9
	// number of directory slots at MaxDepth: 1 << MaxDepth
	DirectorySize = 1 << MaxDepth
	// probability used for determin node level on SkipList
	SkipListProb = 0.25
)

type TxnID int32 // transaction id type
type SlotOffset uintptr // slot offset type
