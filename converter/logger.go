package converter

import "log/slog"

// Logger is the structured logging interface used by the converter.
//
// It matches the shape of log/slog: attrs are alternating key-value pairs.
//
//	logger.Debug("generator applied", "generator", "paths", "fragments", 42)
//
// Use [NewSlogAdapter] to log through a *slog.Logger.
type Logger interface {
	// Debug logs at debug level.
	Debug(msg string, attrs ...any)
	// Info logs at info level.
	Info(msg string, attrs ...any)
	// Warn logs at warn level.
	Warn(msg string, attrs ...any)
	// Error logs at error level.
	Error(msg string, attrs ...any)
	// With returns a Logger that prepends attrs to every entry.
	With(attrs ...any) Logger
}

// NopLogger discards all output. It is the default.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(_ string, _ ...any) {}

// Info implements Logger.
func (NopLogger) Info(_ string, _ ...any) {}

// Warn implements Logger.
func (NopLogger) Warn(_ string, _ ...any) {}

// Error implements Logger.
func (NopLogger) Error(_ string, _ ...any) {}

// With implements Logger.
func (n NopLogger) With(_ ...any) Logger { return n }

var _ Logger = NopLogger{}

// SlogAdapter wraps a *slog.Logger to implement Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter. A nil logger uses slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Debug implements Logger.
func (s *SlogAdapter) Debug(msg string, attrs ...any) { s.logger.Debug(msg, attrs...) }

// Info implements Logger.
func (s *SlogAdapter) Info(msg string, attrs ...any) { s.logger.Info(msg, attrs...) }

// Warn implements Logger.
func (s *SlogAdapter) Warn(msg string, attrs ...any) { s.logger.Warn(msg, attrs...) }

// Error implements Logger.
func (s *SlogAdapter) Error(msg string, attrs ...any) { s.logger.Error(msg, attrs...) }

// With implements Logger.
func (s *SlogAdapter) With(attrs ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(attrs...)}
}

var _ Logger = (*SlogAdapter)(nil)
