package postgres

import (
	"context"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// TraceLogAdapter routes pgx trace logging to zerolog
type TraceLogAdapter struct {
}

// NewTraceLogAdapter creates new adapter
func NewTraceLogAdapter() *TraceLogAdapter {
	return &TraceLogAdapter{}
}

// Log implements tracelog.Logger
func (l *TraceLogAdapter) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	var le *zerolog.Event
	switch level {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
		le = goapp.Log.Debug()
	case tracelog.LogLevelInfo:
		le = goapp.Log.Info()
	case tracelog.LogLevelWarn:
		le = goapp.Log.Warn()
	default:
		le = goapp.Log.Error()
	}
	for k, v := range data {
		le = le.Interface(k, v)
	}
	le.Msg(msg)
}
