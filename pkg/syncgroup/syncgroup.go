// Package syncgroup wraps sync.WaitGroup so long-lived goroutines are
// always accounted for and shutdown can wait on all of them.
package syncgroup

import "sync"

type SyncGroup struct {
	wg sync.WaitGroup
}

func New() *SyncGroup {
	return &SyncGroup{}
}

// Go runs fn in its own goroutine, tracked by the group.
func (g *SyncGroup) Go(fn func()) {
	if fn == nil {
		return
	}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		fn()
	}()
}

// Wait blocks until every tracked goroutine has returned.
func (g *SyncGroup) Wait() {
	g.wg.Wait()
}
