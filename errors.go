// Package vcsup provides sentinel errors for update-chain orchestration.
// All errors can be checked using errors.Is() for programmatic handling.
package vcsup

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors that can be checked with errors.Is().

// ErrValidationFailed is returned when a provider rejects its update options
// during pre-flight validation. The whole chain aborts and no provider runs.
var ErrValidationFailed = errors.New("update options rejected")

// ErrChainBusy is returned when a chain is requested while another chain is
// still running on the same engine.
var ErrChainBusy = errors.New("update chain already running")

// PendingWorkError reports providers whose continuation work was still
// pending when the chain stopped. It is warning-class: downstream consumers
// should display it, not treat the chain as failed because of it.
type PendingWorkError struct {
	// Messages holds one human-readable "not completed" line per provider,
	// in dispatch order.
	Messages []string
}

// Error implements the error interface.
func (e *PendingWorkError) Error() string {
	return "update operation not completed: " + strings.Join(e.Messages, "; ")
}

// Warning marks this error as warning-class.
func (e *PendingWorkError) Warning() bool { return true }

// IsWarning reports whether err is a warning-class error rather than a
// genuine failure.
func IsWarning(err error) bool {
	var w interface{ Warning() bool }
	return errors.As(err, &w) && w.Warning()
}

// WrapError wraps an error with additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
