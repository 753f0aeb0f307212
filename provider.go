// Package vcsup defines the contracts between the orchestration engine and
// its collaborators: version-control providers, the path-to-provider locator,
// and the services bracketing a chain (snapshots, change tracking,
// notification, dirty-path marking).
package vcsup

import "context"

// Provider is the update capability of one version-control backend.
//
// Providers are invoked strictly sequentially, one at a time on the chain's
// single worker; implementations may therefore rely on exclusive access to
// their own mutable state for the duration of an Update call.
type Provider interface {
	// Name identifies the provider. Continuation state within a chain is
	// keyed by it, so it must be stable and unique across the dispatch table.
	Name() string

	// ValidateOptions is the pre-flight check, called once per chain before
	// any round runs. A non-nil error vetoes the whole chain; any user-facing
	// detail is expected to have been surfaced by the provider already.
	ValidateOptions(roots []string) error

	// MinimalRoots collapses the paths assigned to this provider into its own
	// minimal covering set. Granularity is provider-specific: a provider that
	// treats a repository boundary as atomic may collapse several paths into
	// one containing root.
	MinimalRoots(paths []string) []string

	// Update brings roots up to date. cont is the continuation the provider
	// returned from its previous call in this chain, or the zero value on
	// round one. It must be safe to call Update again with the continuation
	// carried in the returned session.
	//
	// Expected failures are reported as data inside the session, never as a
	// panic; cancellation of ctx should be observed cooperatively and
	// reported via the session's Cancelled flag.
	Update(ctx context.Context, roots []string, cont Continuation, progress ProgressSink) Session
}

// Session is the result of one provider's update call within one round.
type Session struct {
	// Provider is the name of the provider that produced this session.
	// Filled in by the round executor.
	Provider string

	// Errors are the failures raised during the update. They are isolated to
	// this provider and never stop siblings in the same round.
	Errors []error

	// Cancelled reports that the provider observed a cancellation request.
	Cancelled bool

	// Continuation carries the provider's pending work into the next round,
	// or NoMoreWork() when the provider is done.
	Continuation Continuation

	// Files holds the changed-file records produced by this call, grouped by
	// change kind. May be nil when nothing changed.
	Files *FileSet
}

// Locator resolves filesystem paths to their owning update-capable provider.
// A path for which ProviderFor returns nil is simply not updatable.
type Locator interface {
	// ProviderFor returns the provider owning path, or nil when the path has
	// no provider or its provider offers no update capability.
	ProviderFor(path string) Provider

	// Tracked reports whether the path's on-disk status indicates it is
	// actually tracked by its provider.
	Tracked(path string) bool

	// Roots returns all registered provider roots. Used by the
	// root-membership scope mode to keep directories that contain a deeper
	// provider root.
	Roots() []string
}

// ChangeTracker is the background file-status tracker the chain suspends
// while a mutating update is in flight.
type ChangeTracker interface {
	Suspend()
	Resume()
}

// Snapshots is the history-snapshot service. The chain takes one checkpoint
// before round one and one after termination, bracketing the whole chain.
type Snapshots interface {
	// Checkpoint records a snapshot and returns its opaque token.
	Checkpoint() string
}

// Notifier receives the terminal report of a chain. It runs on the chain
// worker after the chain has fully terminated.
type Notifier interface {
	UpdateFinished(report *Report)
}

// DirtyMarker is told which paths changed after a successful, non-cancelled
// chain so external dependency and caching layers can invalidate them.
type DirtyMarker interface {
	MarkDirty(paths []string)
}
