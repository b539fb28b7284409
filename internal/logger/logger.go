package logger

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// logEntry is a single formatted line queued for writing on a Backend's
// writeChan.
type logEntry struct {
	level Level
	log   []byte
}

// Logger writes leveled, subsystem-tagged lines to a Backend. The zero
// value is not usable; construct one with Backend.Logger or, for the
// common case of a single process-wide backend, with RegisterSubSystem.
type Logger struct {
	level        Level
	subsystemTag string
	backend      *Backend
	writeChan    chan logEntry
}

// Level returns the current minimum logged level for l.
func (l *Logger) Level() Level {
	return l.level
}

// SetLevel changes the minimum level that will be written to l's backend.
func (l *Logger) SetLevel(level Level) {
	l.level = level
}

// Backend returns the Backend that l writes to, as used by internal/panics
// to flush and close the backend during a fatal exit.
func (l *Logger) Backend() *Backend {
	return l.backend
}

func (l *Logger) write(level Level, format string, args ...interface{}) {
	if level < l.Level() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("%s [%s] %s %s\n",
		time.Now().UTC().Format("2006-01-02 15:04:05.000"), level, l.subsystemTag, msg)
	select {
	case l.writeChan <- logEntry{level: level, log: []byte(line)}:
	default:
		// The backend isn't running (e.g. in tests that never call Run);
		// fall back to stderr so log lines are never silently dropped.
		_, _ = fmt.Fprint(os.Stderr, line)
	}
}

// Tracef formats and logs a message at the trace level.
func (l *Logger) Tracef(format string, args ...interface{}) { l.write(LevelTrace, format, args...) }

// Debugf formats and logs a message at the debug level.
func (l *Logger) Debugf(format string, args ...interface{}) { l.write(LevelDebug, format, args...) }

// Infof formats and logs a message at the info level.
func (l *Logger) Infof(format string, args ...interface{}) { l.write(LevelInfo, format, args...) }

// Warnf formats and logs a message at the warn level.
func (l *Logger) Warnf(format string, args ...interface{}) { l.write(LevelWarn, format, args...) }

// Errorf formats and logs a message at the error level.
func (l *Logger) Errorf(format string, args ...interface{}) { l.write(LevelError, format, args...) }

// Criticalf formats and logs a message at the critical level.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.write(LevelCritical, format, args...)
}

var (
	defaultBackendOnce sync.Once
	defaultBackend     *Backend
)

func getDefaultBackend() *Backend {
	defaultBackendOnce.Do(func() {
		defaultBackend = NewBackend()
		_ = defaultBackend.AddLogWriter(nopCloser{os.Stdout}, LevelInfo)
		_ = defaultBackend.Run()
	})
	return defaultBackend
}

// RegisterSubSystem returns a Logger for subsystemTag backed by the
// package's default, lazily-started Backend. Packages in this module
// follow the teacher's convention of a package-scoped log.go:
//
//	var log = logger.RegisterSubSystem("TAG")
func RegisterSubSystem(subsystemTag string) *Logger {
	l := getDefaultBackend().Logger(subsystemTag)
	l.SetLevel(LevelInfo)
	return l
}

type nopCloser struct {
	*os.File
}

func (nopCloser) Close() error { return nil }
