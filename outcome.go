// Package vcsup classifies terminated chains.
// This file contains the outcome taxonomy and the terminal report handed to
// callers and notification front-ends.
package vcsup

import "strconv"

// Outcome is the terminal classification of an update chain.
type Outcome int8

const (
	// OutcomeAllUpToDate: no round changed anything and no errors were
	// raised across the whole chain.
	OutcomeAllUpToDate Outcome = iota

	// OutcomeCompleted: the chain finished with changed files and no errors.
	OutcomeCompleted

	// OutcomeCompletedWithErrors: at least one provider raised errors, or the
	// chain stopped on conflicts while continuation work was still pending.
	OutcomeCompletedWithErrors

	// OutcomeCancelled: cancellation was observed before the chain could
	// terminate on its own. Never presented as an error.
	OutcomeCancelled

	// OutcomeInterruptedWithPendingWork is reserved: a chain that stops while
	// providers still hold continuation work reports it through a
	// warning-class PendingWorkError on a CompletedWithErrors report rather
	// than as a distinct terminal outcome.
	OutcomeInterruptedWithPendingWork
)

// String returns a human-readable string representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeAllUpToDate:
		return "all-up-to-date"
	case OutcomeCompleted:
		return "completed"
	case OutcomeCompletedWithErrors:
		return "completed-with-errors"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeInterruptedWithPendingWork:
		return "interrupted-with-pending-work"
	default:
		return "unknown"
	}
}

// Report is the caller-visible result of one chain invocation. It is only
// produced after the chain worker has fully terminated; no accumulator it
// references is shared with a running chain.
type Report struct {
	// Outcome is the terminal classification.
	Outcome Outcome

	// Files holds the final round's changed-file records. Earlier rounds'
	// sets are discarded on continuation; only the last round is reported.
	Files *FileSet

	// Errors is the cumulative error list across all rounds of the chain,
	// including any synthesized warning-class PendingWorkError.
	Errors []error

	// Rounds is the number of rounds that actually ran. A chain with zero
	// continuations ends at 1; a chain cancelled before its first round
	// reports 0.
	Rounds int

	// Before and After are the snapshot tokens taken around the whole chain,
	// empty when no snapshot service is wired.
	Before string
	After  string
}

// RoundLabel returns the display suffix for repeated chains, such as "#2"
// when a chain ran twice. Empty for single-round chains.
func (r *Report) RoundLabel() string {
	if r.Rounds > 1 {
		return "#" + strconv.Itoa(r.Rounds)
	}
	return ""
}

// PendingWork returns the warning-class pending-work error carried in the
// report, or nil if every provider consumed its continuation.
func (r *Report) PendingWork() *PendingWorkError {
	for _, err := range r.Errors {
		if pw, ok := err.(*PendingWorkError); ok {
			return pw
		}
	}
	return nil
}

// HardErrors returns the report's errors with warning-class entries removed.
func (r *Report) HardErrors() []error {
	var hard []error
	for _, err := range r.Errors {
		if !IsWarning(err) {
			hard = append(hard, err)
		}
	}
	return hard
}

// classify folds the cumulative error list and whether any round of the
// chain changed files into the terminal outcome for a chain that was neither
// cancelled nor stopped early by the continuation controller. A repeated
// chain whose final round changed nothing still completed work in an earlier
// round, so "all up to date" requires the whole chain to have been quiet.
func classify(errs []error, changed bool) Outcome {
	if len(errs) > 0 {
		return OutcomeCompletedWithErrors
	}
	if !changed {
		return OutcomeAllUpToDate
	}
	return OutcomeCompleted
}
