// Package vcsup runs multi-provider update chains.
// This file contains the engine: root resolution, the round loop driven by
// the continuation controller, and the terminal handoff to collaborators.
package vcsup

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Request describes one update chain invocation.
type Request struct {
	// Paths are the candidate filesystem roots. They may be files or
	// directories and may overlap; resolution dedupes them.
	Paths []string

	// Scope selects the path filtering strategy, see ScopeMode.
	Scope ScopeMode

	// ChangesFileStatus marks operation modes that may mutate on-disk file
	// status. Only such modes suspend the background change tracker and mark
	// changed paths dirty afterwards; a dry-run "status" mode leaves both
	// alone.
	ChangesFileStatus bool
}

// Engine orchestrates update chains across providers. A single Engine runs
// at most one chain at a time; concurrent Run calls beyond the first fail
// with ErrChainBusy.
type Engine struct {
	locator   Locator
	tracker   ChangeTracker
	snapshots Snapshots
	notifier  Notifier
	dirty     DirtyMarker
	progress  ProgressSink
	log       zerolog.Logger
	busy      atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithTracker wires the background change tracker suspended around mutating
// chains.
func WithTracker(tracker ChangeTracker) Option {
	return func(e *Engine) { e.tracker = tracker }
}

// WithSnapshots wires the history-snapshot service bracketing each chain.
func WithSnapshots(snapshots Snapshots) Option {
	return func(e *Engine) { e.snapshots = snapshots }
}

// WithNotifier wires the collaborator receiving each chain's final report.
func WithNotifier(notifier Notifier) Option {
	return func(e *Engine) { e.notifier = notifier }
}

// WithDirtyMarker wires the collaborator told which paths changed.
func WithDirtyMarker(dirty DirtyMarker) Option {
	return func(e *Engine) { e.dirty = dirty }
}

// WithProgress sets the progress sink shared by the chain and its providers.
func WithProgress(progress ProgressSink) Option {
	return func(e *Engine) { e.progress = progress }
}

// WithLogger sets the engine logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates an Engine resolving paths through loc. All collaborators are
// optional; an engine with none of them still runs chains and returns
// reports.
func New(loc Locator, opts ...Option) *Engine {
	e := &Engine{
		locator:  loc,
		progress: NopProgress(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes a whole update chain for req on the calling goroutine and
// returns the terminal report. The chain repeats automatically while any
// provider holds pending continuation work; the loop is bounded only by
// providers eventually finishing, so callers that cannot trust their
// providers must arrange ctx cancellation.
//
// A nil report with a nil error means nothing under req.Paths was updatable:
// a no-op, not a failure.
func (e *Engine) Run(ctx context.Context, req Request) (*Report, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrChainBusy
	}
	defer e.busy.Store(false)

	roots := Resolve(req.Paths, req.Scope, e.locator)
	if len(roots) == 0 {
		e.log.Debug().Strs("paths", req.Paths).Msg("no updatable roots")
		return nil, nil
	}

	plans := BuildPlans(roots)
	if err := ValidatePlans(plans); err != nil {
		return nil, err
	}

	log := e.log.With().Str("chain", uuid.NewString()).Logger()
	log.Info().Int("providers", len(plans)).Msg("update chain starting")

	guard := newTrackerGuard(e.tracker, req.ChangesFileStatus)
	defer guard.Release()

	report := e.runChain(ctx, log, plans)
	guard.Release()

	if req.ChangesFileStatus && report.Outcome != OutcomeCancelled && e.dirty != nil {
		if paths := report.Files.Paths(); len(paths) > 0 {
			e.dirty.MarkDirty(paths)
		}
	}
	if e.notifier != nil {
		e.notifier.UpdateFinished(report)
	}

	log.Info().
		Stringer("outcome", report.Outcome).
		Int("rounds", report.Rounds).
		Int("changed", report.Files.Len()).
		Int("errors", len(report.Errors)).
		Msg("update chain finished")
	return report, nil
}

// runChain drives the round loop until the continuation controller reaches a
// terminal outcome. All chain state (registry, accumulators) is owned by this
// single call; nothing escapes until the loop has stopped.
func (e *Engine) runChain(ctx context.Context, log zerolog.Logger, plans []Plan) *Report {
	before := e.checkpoint()

	reg := make(registry)
	files := NewFileSet()
	var errs []error
	number := 1
	rounds := 0
	changed := false
	var outcome Outcome

	for {
		// Cancellation is honored at chain start and at every round
		// boundary; it suppresses any continuation.
		if ctx.Err() != nil {
			outcome = OutcomeCancelled
			break
		}

		round := runRound(ctx, number, plans, reg, e.progress, log)
		rounds = number
		files = round.Files
		errs = append(errs, round.Errors...)
		if !round.Files.Empty() {
			changed = true
		}

		if round.Cancelled {
			outcome = OutcomeCancelled
			break
		}

		// Conflicts stop the chain no matter how much continuation work is
		// still pending; the pending work surfaces as a warning.
		if round.Files.HasConflicts() {
			if pw := pendingWork(reg, plans); pw != nil {
				log.Warn().Int("round", number).Msg(pw.Error())
				errs = append(errs, pw)
				outcome = OutcomeCompletedWithErrors
			} else {
				outcome = classify(errs, changed)
			}
			break
		}

		// Errors stop the chain too, even if some providers could continue.
		if len(round.Errors) > 0 {
			if pw := pendingWork(reg, plans); pw != nil {
				log.Warn().Int("round", number).Msg(pw.Error())
				errs = append(errs, pw)
			}
			outcome = OutcomeCompletedWithErrors
			break
		}

		if reg.anyPending() {
			// Cancellation at the round boundary suppresses the continuation
			// without counting a round that never started.
			if ctx.Err() != nil {
				outcome = OutcomeCancelled
				break
			}
			number++
			log.Info().Int("round", number).Msg("continuation pending, starting next round")
			continue
		}

		outcome = classify(errs, changed)
		break
	}

	// Registry entries only live while the chain repeats.
	reg.discard()

	e.progress.SetText("synchronizing files")
	after := e.checkpoint()

	return &Report{
		Outcome: outcome,
		Files:   files,
		Errors:  errs,
		Rounds:  rounds,
		Before:  before,
		After:   after,
	}
}

// pendingWork synthesizes the warning-class error enumerating each
// provider's pending-work message, or nil when nothing is pending.
func pendingWork(reg registry, plans []Plan) *PendingWorkError {
	msgs := reg.pendingMessages(plans)
	if len(msgs) == 0 {
		return nil
	}
	return &PendingWorkError{Messages: msgs}
}

func (e *Engine) checkpoint() string {
	if e.snapshots == nil {
		return ""
	}
	return e.snapshots.Checkpoint()
}
