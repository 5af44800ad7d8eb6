package rix

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// drainTask runs the background stream-out of one generation.
// At most one run is outstanding; Run must only be called after Wait.
type drainTask struct {
	g       *errgroup.Group
	done    atomic.Bool
	running bool
}

// Run starts fn in the background.
func (d *drainTask) Run(fn func() error) {
	d.g = new(errgroup.Group)
	d.done.Store(false)
	d.running = true
	d.g.Go(func() error {
		defer d.done.Store(true)
		return fn()
	})
}

// Wait blocks until the outstanding run finished and returns its error.
// It returns nil if nothing runs.
func (d *drainTask) Wait() error {
	if !d.running {
		return nil
	}
	d.running = false
	return d.g.Wait()
}

// IsDone reports whether no run is in progress.
func (d *drainTask) IsDone() bool {
	return !d.running || d.done.Load()
}
