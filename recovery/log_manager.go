package recovery

import (
	"github.com/coredb-io/coredb/types"
)

// LogManager is the seam the buffer pool manager would call into before
// evicting a dirty page (write-ahead logging's "flush the log record before
// the page it describes" rule). Its AppendLogRecord/Flush machinery, which
// depends on a tuple/log-record layer, is out of scope here; only the LSN
// bookkeeping a future WAL implementation would build on is kept.
type LogManager struct {
	nextLSN       types.LSN
	persistentLSN types.LSN
}

// NewLogManager starts a log manager with no persisted records.
func NewLogManager() *LogManager {
	return &LogManager{
		nextLSN:       0,
		persistentLSN: types.InvalidLSN,
	}
}

// GetNextLSN returns the LSN the next appended record would receive.
func (lm *LogManager) GetNextLSN() types.LSN { return lm.nextLSN }

// GetPersistentLSN returns the highest LSN known to be durable on disk.
func (lm *LogManager) GetPersistentLSN() types.LSN { return lm.persistentLSN }
