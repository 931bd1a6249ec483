package renderer

import (
	"runtime"
	"sync"
)

// ScanlineFunc renders one owned row. It must only write through the view.
type ScanlineFunc func(line Scanline)

// WorkerPool splits a framebuffer into interleaved row stripes and renders
// them in parallel
type WorkerPool struct {
	workers    []*Worker
	numWorkers int
	wg         sync.WaitGroup
}

// Worker renders every row in its stripe, top to bottom
type Worker struct {
	ID    int
	lines []Scanline
}

// NewWorkerPool creates a pool of numWorkers, or one per CPU when numWorkers <= 0
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run hands worker k every row y with y % n == k and blocks until all rows
// are written. Workers share nothing but read-only inputs captured by render.
func (wp *WorkerPool) Run(fb *Framebuffer, render ScanlineFunc) {
	wp.workers = wp.workers[:0]
	for i := 0; i < wp.numWorkers; i++ {
		lines := fb.Stripe(i, wp.numWorkers)
		if len(lines) == 0 {
			// More workers than rows
			continue
		}
		wp.workers = append(wp.workers, &Worker{ID: i, lines: lines})
	}

	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg, render)
	}
	wp.wg.Wait()
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup, render ScanlineFunc) {
	defer wg.Done()

	for _, line := range w.lines {
		render(line)
	}
}
