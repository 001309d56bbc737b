package registry

import (
	"sync"

	"github.com/lcalzada-xor/geotrack/internal/core/ports"
)

// SerialExecutor runs submitted callbacks one at a time in FIFO order.
// Submit never blocks the caller; work is drained by a single goroutine
// that exits when the queue is empty.
type SerialExecutor struct {
	mu      sync.Mutex
	queue   []func()
	running bool
}

// NewSerialExecutor creates an empty serial executor.
func NewSerialExecutor() *SerialExecutor {
	return &SerialExecutor{}
}

// Submit enqueues fn for execution after all previously submitted work.
func (e *SerialExecutor) Submit(fn func()) {
	e.mu.Lock()
	e.queue = append(e.queue, fn)
	if !e.running {
		e.running = true
		go e.drain()
	}
	e.mu.Unlock()
}

func (e *SerialExecutor) drain() {
	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.running = false
			e.mu.Unlock()
			return
		}
		fn := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()

		fn()
	}
}

var (
	mainExec     *SerialExecutor
	mainExecOnce sync.Once
)

// Main returns the process-wide default executor. Observers that do not
// declare their own execution context are notified here.
func Main() ports.Executor {
	mainExecOnce.Do(func() {
		mainExec = NewSerialExecutor()
	})
	return mainExec
}
