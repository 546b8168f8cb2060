// Package audit is the structured event sink every webhook call is
// reported to, success or failure. The default sink writes through
// zerolog; deployments can swap in anything that satisfies Sink.
package audit

import (
	"context"

	"github.com/rs/zerolog"
)

type Event struct {
	Action      string
	SenderPhone string
	Status      int
	Success     bool
	ErrorCode   string
	Summary     string
}

type Sink interface {
	Emit(ctx context.Context, e Event)
}

type logSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) Sink {
	return &logSink{log: log.With().Str("component", "audit").Logger()}
}

func (s *logSink) Emit(ctx context.Context, e Event) {
	evt := s.log.Info()
	if !e.Success {
		evt = s.log.Warn()
	}
	evt.
		Str("action", e.Action).
		Str("sender_phone", e.SenderPhone).
		Int("status", e.Status).
		Bool("success", e.Success).
		Str("error_code", e.ErrorCode).
		Str("summary", e.Summary).
		Msg("accounting action")
}
