// Package vcsup executes update rounds.
// This file contains the round executor: one sequential pass over the
// dispatch table with isolated per-provider failure domains.
package vcsup

import (
	"context"

	"github.com/rs/zerolog"
)

// Round owns the state of one pass over the dispatch table: exactly one
// session per provider, the accumulated changed-file set, and the errors
// raised during the pass. A Round is created fresh for every pass and folded
// into the terminal report when the chain stops.
type Round struct {
	// Number is the 1-based ordinal of this round within its chain.
	Number int

	// Sessions holds one entry per provider that ran, in dispatch order.
	Sessions []Session

	// Files accumulates the changed-file records of every session.
	Files *FileSet

	// Errors collects every session's errors. A provider failure never stops
	// its siblings; it only lands here.
	Errors []error

	// Cancelled is set when cancellation was observed between providers or
	// any session reported it. Remaining providers are skipped.
	Cancelled bool
}

// runRound invokes each plan's provider once, in dispatch order, feeding it
// the continuation it returned last round (zero value on round one) and
// storing the continuation it hands back. Fractional progress is reported
// after each provider as processed/total.
//
// Cancellation is observed between providers, never preemptively inside one;
// a provider already in flight is expected to watch ctx cooperatively.
func runRound(ctx context.Context, number int, plans []Plan, reg registry, progress ProgressSink, log zerolog.Logger) *Round {
	round := &Round{Number: number, Files: NewFileSet()}
	total := len(plans)

	for i, plan := range plans {
		if ctx.Err() != nil {
			log.Info().Int("round", number).Msg("cancellation observed, skipping remaining providers")
			round.Cancelled = true
			break
		}

		name := plan.Provider.Name()
		log.Debug().Int("round", number).Str("provider", name).Strs("roots", plan.Roots).Msg("updating")

		session := plan.Provider.Update(ctx, plan.Roots, reg[name], progress)
		session.Provider = name
		reg[name] = session.Continuation

		round.Sessions = append(round.Sessions, session)
		round.Errors = append(round.Errors, session.Errors...)
		round.Files.Merge(session.Files)
		progress.SetFraction(float64(i+1) / float64(total))

		if session.Cancelled {
			log.Info().Int("round", number).Str("provider", name).Msg("provider reported cancellation")
			round.Cancelled = true
			break
		}
	}
	return round
}
