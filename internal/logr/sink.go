package logr

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-logr/logr"
)

var _ logr.LogSink = (*logSink)(nil)

// logSink is a logr sink that writes to a slog handler, mapping logr
// verbosity levels onto slog levels below info.
type logSink struct {
	handler slog.Handler
}

func newLogSink(h slog.Handler) *logSink {
	return &logSink{handler: h}
}

func (s *logSink) Init(logr.RuntimeInfo) {}

func (s *logSink) Enabled(level int) bool {
	return s.handler.Enabled(context.Background(), toSlogLevel(level))
}

func (s *logSink) Info(level int, msg string, keysAndValues ...any) {
	s.log(nil, msg, toSlogLevel(level), keysAndValues...)
}

func (s *logSink) Error(err error, msg string, keysAndValues ...any) {
	s.log(err, msg, slog.LevelError, keysAndValues...)
}

func (s *logSink) log(err error, msg string, level slog.Level, keysAndValues ...any) {
	record := slog.NewRecord(time.Now(), level, msg, 0)
	if err != nil {
		record.AddAttrs(slog.Any("error", err))
	}
	record.Add(keysAndValues...)
	_ = s.handler.Handle(context.Background(), record)
}

func (s *logSink) WithValues(keysAndValues ...any) logr.LogSink {
	return &logSink{handler: slog.New(s.handler).With(keysAndValues...).Handler()}
}

func (s *logSink) WithName(name string) logr.LogSink {
	return &logSink{handler: s.handler.WithAttrs([]slog.Attr{slog.String("logger", name)})}
}
