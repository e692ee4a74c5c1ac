package notifier

import (
	"reviewrot/pkg/models"
)

// Notifier delivers an ordered set of reviews to one sink.
type Notifier interface {
	Notify(reviews []models.Review) error
}

// Sink identifies the one destination a run delivers to.
type Sink int

const (
	SinkReport Sink = iota
	SinkEmail
	SinkIRC
)

// String returns the sink name for logging.
func (s Sink) String() string {
	switch s {
	case SinkEmail:
		return "email"
	case SinkIRC:
		return "irc"
	default:
		return "report"
	}
}

// SelectSink decides where a run's results go. Email wins when any
// recipient is configured, then IRC when channels are configured and there
// is something to announce, otherwise the terminal report.
func SelectSink(emailRecipients, ircChannels []string, resultCount int) Sink {
	if len(emailRecipients) > 0 {
		return SinkEmail
	}
	if len(ircChannels) > 0 && resultCount > 0 {
		return SinkIRC
	}
	return SinkReport
}
