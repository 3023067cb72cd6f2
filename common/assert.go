package common

import (
	"runtime"
	"sync"

	"github.com/devlights/gomy/output"
)

// SH_Assert panics with msg when condition is false, first dumping every
// goroutine's stack so a failed invariant check is diagnosable from test
// output.
func SH_Assert(condition bool, msg string) {
	if !condition {
		runtimeStack()
		panic(msg)
	}
}

type SH_Mutex struct {
	mutex    *sync.Mutex
	isLocked bool
}

func NewSH_Mutex() *SH_Mutex {
	return &SH_Mutex{new(sync.Mutex), false}
}
func (m *SH_Mutex) Lock() {
	SH_Assert(!m.isLocked, "Mutex is already locked")
	m.mutex.Lock()
	m.isLocked = true
}

func (m *SH_Mutex) Unlock() {
	SH_Assert(m.isLocked, "Mutex is not locked")
	m.mutex.Unlock()
	m.isLocked = false
}

// runtimeStack prints every goroutine's stack to stdout.
//
// REFERENCES
//   - https://pkg.go.dev/runtime#Stack
//   - https://stackoverflow.com/questions/19094099/how-to-dump-goroutine-stacktraces
func runtimeStack() {
	getStack := func(all bool) []byte {
		buf := make([]byte, 1024)
		for {
			n := runtime.Stack(buf, all)
			if n < len(buf) {
				return buf[:n]
			}
			buf = make([]byte, 2*len(buf))
		}
	}

	output.Stdoutl("=== stack-all   ", string(getStack(true)))
}
