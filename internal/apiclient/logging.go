package apiclient

import (
	"fmt"
	"log/slog"
)

// restyLogger routes resty's internal messages to slog.
type restyLogger struct {
	logger *slog.Logger
}

func newRestyLogger(logger *slog.Logger) *restyLogger {
	return &restyLogger{logger: logger.With(slog.String("component", "resty"))}
}

func (l *restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l *restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l *restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}
