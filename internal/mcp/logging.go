package mcp

import (
	"time"

	"github.com/rs/zerolog"
)

// EventLogger records the invocation and outcome of every tool call. It is a
// side interface: handlers call it, business logic never depends on it.
type EventLogger interface {
	ToolInvoked(tool, requestID string)
	ToolSucceeded(tool, requestID string, elapsed time.Duration)
	ToolFailed(tool, requestID string, elapsed time.Duration, reason string)
}

type zerologEvents struct {
	logger zerolog.Logger
}

// NewEventLogger returns an EventLogger writing structured events through
// the given zerolog logger. All output goes wherever the logger points
// (stderr in production; stdout belongs to the stdio transport).
func NewEventLogger(logger zerolog.Logger) EventLogger {
	return &zerologEvents{logger: logger}
}

func (l *zerologEvents) ToolInvoked(tool, requestID string) {
	l.logger.Info().
		Str("tool", tool).
		Str("request_id", requestID).
		Msg("tool invoked")
}

func (l *zerologEvents) ToolSucceeded(tool, requestID string, elapsed time.Duration) {
	l.logger.Info().
		Str("tool", tool).
		Str("request_id", requestID).
		Dur("elapsed", elapsed).
		Msg("tool succeeded")
}

func (l *zerologEvents) ToolFailed(tool, requestID string, elapsed time.Duration, reason string) {
	l.logger.Info().
		Str("tool", tool).
		Str("request_id", requestID).
		Dur("elapsed", elapsed).
		Str("reason", reason).
		Msg("tool returned error")
}
