package cli

import (
	"github.com/rs/zerolog"

	"github.com/fluviusStan/vcsup"
)

// consoleNotifier renders a chain's terminal report to the console log:
// outcome, per-kind file counts, and any pending-work warning.
type consoleNotifier struct {
	log zerolog.Logger
}

func (n *consoleNotifier) UpdateFinished(report *vcsup.Report) {
	switch report.Outcome {
	case vcsup.OutcomeAllUpToDate:
		n.log.Info().Msg("all files are up to date")
	case vcsup.OutcomeCancelled:
		n.log.Info().Msg("update cancelled")
	default:
		event := n.log.Info().Stringer("outcome", report.Outcome)
		if label := report.RoundLabel(); label != "" {
			event = event.Str("round", label)
		}
		event.Msg("update finished")

		for _, group := range report.Files.Summary() {
			n.log.Info().
				Str("kind", string(group.Kind)).
				Int("files", group.Count).
				Msg("changed files")
		}
	}

	if pw := report.PendingWork(); pw != nil {
		for _, msg := range pw.Messages {
			n.log.Warn().Msg(msg)
		}
	}
	for _, err := range report.HardErrors() {
		n.log.Error().Err(err).Msg("update error")
	}
}
