// Package vcsup reports coarse progress from a running chain.
package vcsup

import "github.com/rs/zerolog"

// ProgressSink receives progress from the chain and from the providers it
// runs. All providers in a chain share a single sink.
type ProgressSink interface {
	// SetFraction reports overall completion in [0, 1].
	SetFraction(fraction float64)

	// SetText reports the current phase as display text.
	SetText(text string)
}

// NopProgress returns a sink that discards everything.
func NopProgress() ProgressSink { return nopProgress{} }

type nopProgress struct{}

func (nopProgress) SetFraction(float64) {}
func (nopProgress) SetText(string)      {}

// LogProgress returns a sink that writes progress to log at debug level.
func LogProgress(log zerolog.Logger) ProgressSink {
	return logProgress{log: log}
}

type logProgress struct {
	log zerolog.Logger
}

func (p logProgress) SetFraction(fraction float64) {
	p.log.Debug().Float64("fraction", fraction).Msg("progress")
}

func (p logProgress) SetText(text string) {
	p.log.Debug().Str("phase", text).Msg("progress")
}
