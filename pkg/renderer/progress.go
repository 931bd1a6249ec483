package renderer

import (
	"log"
	"os"
	"sync/atomic"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// NewDefaultLogger creates a logger writing to stderr, keeping stdout free
// for image data
func NewDefaultLogger() core.Logger {
	return log.New(os.Stderr, "", log.LstdFlags)
}

// progressBuffer bounds how many scanline notifications may queue up before
// new ones are dropped
const progressBuffer = 64

// ScanlineProgress reports that one more row of the image is finished
type ScanlineProgress struct {
	Row       int // Row that just completed
	Completed int // Rows completed so far, across all workers
	Total     int // Rows in the image
}

// Remaining returns how many rows are still being rendered
func (p ScanlineProgress) Remaining() int {
	return p.Total - p.Completed
}

// ProgressReporter fans scanline completions from workers into a single
// goroutine running the callback. Workers never wait on the callback.
type ProgressReporter struct {
	updates   chan ScanlineProgress
	done      chan struct{}
	completed atomic.Int64
	total     int
}

// NewProgressReporter starts delivering updates to callback. A nil callback
// yields a nil reporter, whose methods do nothing.
func NewProgressReporter(total int, callback func(ScanlineProgress)) *ProgressReporter {
	if callback == nil {
		return nil
	}

	pr := &ProgressReporter{
		updates: make(chan ScanlineProgress, progressBuffer),
		done:    make(chan struct{}),
		total:   total,
	}

	go func() {
		defer close(pr.done)
		last := ScanlineProgress{Row: -1, Total: total}
		for update := range pr.updates {
			if update.Completed > last.Completed {
				last = update
				callback(update)
			}
		}
		// The final notification may have been dropped; always report completion
		if final := int(pr.completed.Load()); final > last.Completed {
			callback(ScanlineProgress{Row: -1, Completed: final, Total: total})
		}
	}()

	return pr
}

// ScanlineDone records that row is finished. Safe for concurrent use.
func (pr *ProgressReporter) ScanlineDone(row int) {
	if pr == nil {
		return
	}

	completed := int(pr.completed.Add(1))
	select {
	case pr.updates <- ScanlineProgress{Row: row, Completed: completed, Total: pr.total}:
	default:
		// Consumer is behind, drop this update rather than stall the worker
	}
}

// Close waits for pending notifications to be delivered. Call it once,
// after every worker has returned.
func (pr *ProgressReporter) Close() {
	if pr == nil {
		return
	}
	close(pr.updates)
	<-pr.done
}

// NewProgressLogger returns a callback logging every tenth of the image
func NewProgressLogger(logger core.Logger) func(ScanlineProgress) {
	lastDecile := -1
	return func(p ScanlineProgress) {
		if p.Total <= 0 {
			return
		}
		decile := p.Completed * 10 / p.Total
		if decile == lastDecile {
			return
		}
		lastDecile = decile
		logger.Printf("Scanlines remaining: %d / %d\n", p.Remaining(), p.Total)
	}
}
