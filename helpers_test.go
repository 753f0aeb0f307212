package vcsup

import (
	"context"
	"sync"
)

// fakeProvider is a scripted Provider: each Update call consumes the next
// scripted session. Calls beyond the script return a clean, terminating
// session.
type fakeProvider struct {
	name     string
	validate error
	minimal  func(paths []string) []string
	script   []Session
	onUpdate func(ctx context.Context)

	calls    int
	gotRoots [][]string
	gotConts []Continuation
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) ValidateOptions(roots []string) error { return p.validate }

func (p *fakeProvider) MinimalRoots(paths []string) []string {
	if p.minimal != nil {
		return p.minimal(paths)
	}
	return paths
}

func (p *fakeProvider) Update(ctx context.Context, roots []string, cont Continuation, progress ProgressSink) Session {
	p.gotRoots = append(p.gotRoots, roots)
	p.gotConts = append(p.gotConts, cont)
	if p.onUpdate != nil {
		p.onUpdate(ctx)
	}
	i := p.calls
	p.calls++
	if i < len(p.script) {
		return p.script[i]
	}
	return Session{Continuation: NoMoreWork()}
}

// sessionWith builds a session with files recorded under the given kinds.
func sessionWith(files map[Kind][]string, errs []error, cont Continuation) Session {
	set := NewFileSet()
	for kind, paths := range files {
		for _, path := range paths {
			set.Add(kind, path)
		}
	}
	return Session{Errors: errs, Continuation: cont, Files: set}
}

// fakeLocator maps exact paths to providers.
type fakeLocator struct {
	providers map[string]Provider
	tracked   map[string]bool
	roots     []string
}

func (l *fakeLocator) ProviderFor(path string) Provider { return l.providers[path] }
func (l *fakeLocator) Tracked(path string) bool         { return l.tracked[path] }
func (l *fakeLocator) Roots() []string                  { return l.roots }

// ownAll is a locator that assigns every path to one provider and reports
// it tracked.
type ownAll struct {
	provider Provider
}

func (l ownAll) ProviderFor(path string) Provider { return l.provider }
func (l ownAll) Tracked(path string) bool         { return true }
func (l ownAll) Roots() []string                  { return nil }

// fakeTracker counts suspend/resume pairs.
type fakeTracker struct {
	mu       sync.Mutex
	suspends int
	resumes  int
}

func (t *fakeTracker) Suspend() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.suspends++
}

func (t *fakeTracker) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resumes++
}

// fakeSnapshots hands out sequential checkpoint tokens.
type fakeSnapshots struct {
	calls int
}

func (s *fakeSnapshots) Checkpoint() string {
	s.calls++
	switch s.calls {
	case 1:
		return "before"
	case 2:
		return "after"
	default:
		return "extra"
	}
}

// fakeNotifier records the reports it was handed.
type fakeNotifier struct {
	reports []*Report
}

func (n *fakeNotifier) UpdateFinished(report *Report) {
	n.reports = append(n.reports, report)
}

// fakeDirty records marked paths.
type fakeDirty struct {
	marked [][]string
}

func (d *fakeDirty) MarkDirty(paths []string) {
	d.marked = append(d.marked, paths)
}

// recordingProgress captures fractions and texts.
type recordingProgress struct {
	fractions []float64
	texts     []string
}

func (p *recordingProgress) SetFraction(fraction float64) {
	p.fractions = append(p.fractions, fraction)
}

func (p *recordingProgress) SetText(text string) {
	p.texts = append(p.texts, text)
}
