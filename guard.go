// Package vcsup guards the background change tracker across a chain.
package vcsup

import "sync"

// trackerGuard pairs one ChangeTracker suspension with exactly one resume
// for the whole chain, on every exit path. It is only engaged for operation
// modes that may mutate file status; a dry-run "status" chain never suspends
// tracking.
type trackerGuard struct {
	tracker ChangeTracker
	engaged bool
	once    sync.Once
}

// newTrackerGuard suspends the tracker when engage is true and the tracker
// is present. The caller must arrange for Release on every exit path,
// typically with a defer taken immediately after construction.
func newTrackerGuard(tracker ChangeTracker, engage bool) *trackerGuard {
	g := &trackerGuard{tracker: tracker, engaged: engage && tracker != nil}
	if g.engaged {
		g.tracker.Suspend()
	}
	return g
}

// Release resumes the tracker. Calling Release more than once is safe; only
// the first call resumes, keeping suspend and resume strictly 1:1.
func (g *trackerGuard) Release() {
	if !g.engaged {
		return
	}
	g.once.Do(g.tracker.Resume)
}
