package logger

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	echo_log "github.com/labstack/gommon/log"
)

// EchoLoggerAdapter adapts Logger to the echo.Logger interface so Echo's
// own messages go through the central logger.
//
//	e := echo.New()
//	e.Logger = logger.NewEchoLoggerAdapter(appLogger.Module("echo"))
type EchoLoggerAdapter struct {
	logger Logger
	level  atomic.Uint32
}

// NewEchoLoggerAdapter creates a new Echo logger adapter. Messages below
// the adapter level are dropped before reaching logger.
func NewEchoLoggerAdapter(logger Logger) *EchoLoggerAdapter {
	if logger == nil {
		logger = NewSlogLogger(io.Discard, LogLevelInfo, time.UTC)
	}
	a := &EchoLoggerAdapter{logger: logger}
	a.level.Store(uint32(echo_log.INFO))
	return a
}

// Output returns io.Discard; output is managed by the wrapped logger.
func (a *EchoLoggerAdapter) Output() io.Writer {
	return io.Discard
}

// SetOutput is a no-op.
func (a *EchoLoggerAdapter) SetOutput(_ io.Writer) {}

// Prefix returns the log prefix (not used, module scoping provides context)
func (a *EchoLoggerAdapter) Prefix() string {
	return ""
}

// SetPrefix is a no-op.
func (a *EchoLoggerAdapter) SetPrefix(_ string) {}

// Level returns the current log level
func (a *EchoLoggerAdapter) Level() echo_log.Lvl {
	return echo_log.Lvl(a.level.Load())
}

// SetLevel sets the minimum level passed on to the wrapped logger.
func (a *EchoLoggerAdapter) SetLevel(v echo_log.Lvl) {
	a.level.Store(uint32(v))
}

// SetHeader is a no-op.
func (a *EchoLoggerAdapter) SetHeader(_ string) {}

func (a *EchoLoggerAdapter) enabled(v echo_log.Lvl) bool {
	return v >= a.Level()
}

// Print logs a message at INFO level
func (a *EchoLoggerAdapter) Print(i ...any) {
	a.Info(i...)
}

// Printf logs a formatted message at INFO level
func (a *EchoLoggerAdapter) Printf(format string, args ...any) {
	a.Infof(format, args...)
}

// Printj logs a JSON object at INFO level
func (a *EchoLoggerAdapter) Printj(j echo_log.JSON) {
	a.Infoj(j)
}

// Debug logs a message at DEBUG level
func (a *EchoLoggerAdapter) Debug(i ...any) {
	if a.enabled(echo_log.DEBUG) {
		a.logger.Debug(fmt.Sprint(i...))
	}
}

// Debugf logs a formatted message at DEBUG level
func (a *EchoLoggerAdapter) Debugf(format string, args ...any) {
	if a.enabled(echo_log.DEBUG) {
		a.logger.Debug(fmt.Sprintf(format, args...))
	}
}

// Debugj logs a JSON object at DEBUG level
func (a *EchoLoggerAdapter) Debugj(j echo_log.JSON) {
	if a.enabled(echo_log.DEBUG) {
		a.logger.Debug("echo", Any("data", j))
	}
}

// Info logs a message at INFO level
func (a *EchoLoggerAdapter) Info(i ...any) {
	if a.enabled(echo_log.INFO) {
		a.logger.Info(fmt.Sprint(i...))
	}
}

// Infof logs a formatted message at INFO level
func (a *EchoLoggerAdapter) Infof(format string, args ...any) {
	if a.enabled(echo_log.INFO) {
		a.logger.Info(fmt.Sprintf(format, args...))
	}
}

// Infoj logs a JSON object at INFO level
func (a *EchoLoggerAdapter) Infoj(j echo_log.JSON) {
	if a.enabled(echo_log.INFO) {
		a.logger.Info("echo", Any("data", j))
	}
}

// Warn logs a message at WARN level
func (a *EchoLoggerAdapter) Warn(i ...any) {
	if a.enabled(echo_log.WARN) {
		a.logger.Warn(fmt.Sprint(i...))
	}
}

// Warnf logs a formatted message at WARN level
func (a *EchoLoggerAdapter) Warnf(format string, args ...any) {
	if a.enabled(echo_log.WARN) {
		a.logger.Warn(fmt.Sprintf(format, args...))
	}
}

// Warnj logs a JSON object at WARN level
func (a *EchoLoggerAdapter) Warnj(j echo_log.JSON) {
	if a.enabled(echo_log.WARN) {
		a.logger.Warn("echo", Any("data", j))
	}
}

// Error logs a message at ERROR level
func (a *EchoLoggerAdapter) Error(i ...any) {
	if a.enabled(echo_log.ERROR) {
		a.logger.Error(fmt.Sprint(i...))
	}
}

// Errorf logs a formatted message at ERROR level
func (a *EchoLoggerAdapter) Errorf(format string, args ...any) {
	if a.enabled(echo_log.ERROR) {
		a.logger.Error(fmt.Sprintf(format, args...))
	}
}

// Errorj logs a JSON object at ERROR level
func (a *EchoLoggerAdapter) Errorj(j echo_log.JSON) {
	if a.enabled(echo_log.ERROR) {
		a.logger.Error("echo", Any("data", j))
	}
}

// Fatal logs at ERROR level and panics; the server's recover middleware
// turns it into a 500 instead of exiting the process.
func (a *EchoLoggerAdapter) Fatal(i ...any) {
	msg := fmt.Sprint(i...)
	a.logger.Error(msg)
	panic("echo fatal error: " + msg)
}

// Fatalf logs a formatted message at ERROR level and panics
func (a *EchoLoggerAdapter) Fatalf(format string, args ...any) {
	a.Fatal(fmt.Sprintf(format, args...))
}

// Fatalj logs a JSON object at ERROR level and panics
func (a *EchoLoggerAdapter) Fatalj(j echo_log.JSON) {
	a.logger.Error("echo fatal", Any("data", j))
	panic(fmt.Sprintf("echo fatal error: %v", j))
}

// Panic logs a message at ERROR level and panics
func (a *EchoLoggerAdapter) Panic(i ...any) {
	msg := fmt.Sprint(i...)
	a.logger.Error(msg)
	panic(msg)
}

// Panicf logs a formatted message at ERROR level and panics
func (a *EchoLoggerAdapter) Panicf(format string, args ...any) {
	a.Panic(fmt.Sprintf(format, args...))
}

// Panicj logs a JSON object at ERROR level and panics
func (a *EchoLoggerAdapter) Panicj(j echo_log.JSON) {
	a.logger.Error("echo panic", Any("data", j))
	panic(j)
}
