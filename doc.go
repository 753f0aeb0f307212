// Package vcsup provides a multi-provider update orchestration engine for
// version-controlled working copies.
//
// Given a set of filesystem roots belonging to possibly different
// version-control providers, the engine runs each provider's "bring up to
// date" operation, aggregates per-provider results, and automatically repeats
// the whole chain while any provider signals pending continuation work
// (e.g. partial history replay).
//
// # Design Principles
//
// The package follows these core principles:
//   - Expected failures are data, not control flow - provider errors are
//     collected per round and never abort sibling providers
//   - One worker, no intra-round parallelism - providers may share mutable
//     VCS state, so a chain runs strictly sequentially
//   - Minimal surface area - providers implement one small interface,
//     collaborators are optional
//
// # Basic Usage
//
// Wire providers through a Locator and run a chain:
//
//	import "github.com/fluviusStan/vcsup"
//
//	engine := vcsup.New(locator,
//	    vcsup.WithTracker(tracker),
//	    vcsup.WithNotifier(notifier),
//	)
//
//	report, err := engine.Run(ctx, vcsup.Request{
//	    Paths:             []string{"/work/app", "/work/lib"},
//	    Scope:             vcsup.ScopeStrict,
//	    ChangesFileStatus: true,
//	})
//	if err != nil {
//	    // validation rejection or re-entry, nothing ran
//	}
//	if report == nil {
//	    // nothing under the requested paths was updatable
//	}
//
// # Outcomes
//
// A terminated chain classifies as one of:
//
//	vcsup.OutcomeAllUpToDate         // nothing changed, no errors
//	vcsup.OutcomeCompleted           // files changed, no errors
//	vcsup.OutcomeCompletedWithErrors // provider errors or interrupted work
//	vcsup.OutcomeCancelled           // caller cancelled; not an error
//
// When the chain stops while providers still hold continuation work, the
// report carries a warning-class *PendingWorkError enumerating each
// provider's pending-work message.
//
// # Continuation Protocol
//
// A provider that cannot finish in one pass returns a pending continuation:
//
//	func (p *myProvider) Update(ctx context.Context, roots []string,
//	    cont vcsup.Continuation, progress vcsup.ProgressSink) vcsup.Session {
//	    ...
//	    if moreBranches {
//	        return vcsup.Session{
//	            Files:        files,
//	            Continuation: vcsup.ContinueWith(state, "branch replay pending"),
//	        }
//	    }
//	    return vcsup.Session{Files: files, Continuation: vcsup.NoMoreWork()}
//	}
//
// The engine feeds the continuation back into the provider's next Update
// call and repeats the chain until every provider returns NoMoreWork. A
// misbehaving provider that never finishes makes the loop unbounded; callers
// own cancellation through the context, which is observed at every round
// boundary and between providers within a round.
//
// # Changed Files
//
// Sessions report changed files grouped by change kind (updated, created,
// merged, merged-with-conflict, removed, restored). Within a chain the
// accumulated set resets at every round; the final report carries the last
// round's set, while errors accumulate across all rounds.
//
// Any record in the merged-with-conflict group stops the chain even when
// every provider could continue: conflicts need a human before more history
// is replayed on top of them.
//
// # Thread Safety
//
// An Engine rejects overlapping chains with ErrChainBusy. All chain state is
// owned by the goroutine calling Run; the Report is handed over only after
// the chain has fully terminated.
package vcsup
