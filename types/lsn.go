package types

// LSN is a log sequence number, opaque to the storage core and retained for
// future WAL integration (see recovery.LogManager).
type LSN int32

// InvalidLSN marks a page or transaction that has never been touched by a
// logged operation.
const InvalidLSN = LSN(-1)
