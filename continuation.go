// Package vcsup models the per-provider continuation protocol.
// This file contains the continuation token and the per-chain registry.
package vcsup

// Continuation is the carry-over a provider hands back when a single update
// pass could not finish its work (e.g. partial history replay). It is a
// tagged value: either "no more work" (the zero value) or pending work with
// provider-owned opaque data and a human-readable "not completed" message.
//
// The orchestrator never inspects the data; it only distinguishes pending
// from done and feeds the data back into the provider's next Update call.
type Continuation struct {
	pending bool
	data    any
	message string
}

// NoMoreWork returns the continuation that terminates a provider's chain.
func NoMoreWork() Continuation { return Continuation{} }

// ContinueWith returns a pending continuation carrying provider-owned data
// and a message describing the work that remains. The message is shown to
// users when the chain stops before the work could run.
func ContinueWith(data any, message string) Continuation {
	return Continuation{pending: true, data: data, message: message}
}

// Pending reports whether the provider still has work to do.
func (c Continuation) Pending() bool { return c.pending }

// Data returns the provider-owned opaque payload. Nil when not pending.
func (c Continuation) Data() any { return c.data }

// Message returns the human-readable description of the pending work.
// Empty when not pending.
func (c Continuation) Message() string { return c.message }

// registry maps provider name to the last continuation it returned.
// Entries live only while the chain is actively repeating; the chain clears
// the registry the moment it reaches a terminal outcome.
type registry map[string]Continuation

// anyPending reports whether at least one provider still holds pending work.
func (r registry) anyPending() bool {
	for _, c := range r {
		if c.Pending() {
			return true
		}
	}
	return false
}

// pendingMessages collects the pending-work messages in dispatch order.
func (r registry) pendingMessages(plans []Plan) []string {
	var msgs []string
	for _, plan := range plans {
		if c, ok := r[plan.Provider.Name()]; ok && c.Pending() {
			msgs = append(msgs, c.Message())
		}
	}
	return msgs
}

// discard drops all entries.
func (r registry) discard() {
	for name := range r {
		delete(r, name)
	}
}
