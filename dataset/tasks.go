package dataset

import (
	"runtime/debug"
	"sync"

	"databind/internal/debuglog"
)

// workerCount is the size of the shared pool used for asynchronous
// load/save tasks. Provider work is I/O bound; a small pool suffices.
const workerCount = 4

var (
	taskOnce sync.Once
	taskCh   chan namedTask
)

type namedTask struct {
	name string
	fn   func()
}

// submit queues fn on the shared worker pool, starting the pool lazily.
// Panics inside a task are recovered and logged so one bad provider
// cannot take down the pool.
func submit(name string, fn func()) {
	taskOnce.Do(func() {
		taskCh = make(chan namedTask, 16)
		for i := 0; i < workerCount; i++ {
			go taskLoop()
		}
	})
	taskCh <- namedTask{name: name, fn: fn}
}

func taskLoop() {
	for t := range taskCh {
		run(t)
	}
}

func debugLogf(format string, args ...interface{}) {
	debuglog.Log(logPrefix, debuglog.LevelError, debuglog.UseGlobal, format, args...)
}

func run(t namedTask) {
	defer func() {
		if p := recover(); p != nil {
			debuglog.Log(logPrefix, debuglog.LevelError, debuglog.UseGlobal,
				"task %q panicked: %v", t.name, p)
			if debuglog.ShouldLog(debuglog.LevelVerbose, debuglog.UseGlobal) {
				debuglog.Log(logPrefix, debuglog.LevelVerbose, debuglog.UseGlobal,
					"task %q stack:\n%s", t.name, debug.Stack())
			}
		}
	}()
	t.fn()
}
