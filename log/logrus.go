package log

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// entryLogger writes through a logrus entry that already carries the fields
// of every Sub call leading to it.
type entryLogger struct {
	entry *logrus.Entry
}

var _ Logger = (*entryLogger)(nil)

func newEntryLogger(l *logrus.Logger) *entryLogger {
	return &entryLogger{entry: logrus.NewEntry(l)}
}

func (l *entryLogger) Trace(msg string, kv ...interface{}) { l.emit(LevelTrace, msg, kv) }
func (l *entryLogger) Debug(msg string, kv ...interface{}) { l.emit(LevelDebug, msg, kv) }
func (l *entryLogger) Info(msg string, kv ...interface{})  { l.emit(LevelInfo, msg, kv) }
func (l *entryLogger) Warn(msg string, kv ...interface{})  { l.emit(LevelWarn, msg, kv) }
func (l *entryLogger) Error(msg string, kv ...interface{}) { l.emit(LevelError, msg, kv) }

// Fatal logs and exits the process with status 1.
func (l *entryLogger) Fatal(msg string, kv ...interface{}) {
	l.emit(LevelFatal, msg, kv)
	l.entry.Logger.Exit(1)
}

func (l *entryLogger) Sub(kv ...interface{}) Logger {
	return &entryLogger{entry: l.entry.WithFields(fieldsOf(kv))}
}

func (l *entryLogger) emit(level Level, msg string, kv []interface{}) {
	if level < currLevel {
		return
	}
	e := l.entry
	if len(kv) > 0 {
		e = e.WithFields(fieldsOf(kv))
	}
	e.Log(level.backendLevel(), msg)
}

// fieldsOf pairs up alternating keys and values. Errors are stored as their
// message.
func fieldsOf(kv []interface{}) logrus.Fields {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("log fields come in key/value pairs, got %d values", len(kv)))
	}
	fields := make(logrus.Fields, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("log field key %v is a %T, not a string", kv[i], kv[i]))
		}
		if err, isErr := kv[i+1].(error); isErr {
			fields[key] = err.Error()
			continue
		}
		fields[key] = kv[i+1]
	}
	return fields
}

func (l Level) backendLevel() logrus.Level {
	switch l {
	case LevelTrace:
		return logrus.TraceLevel
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	case LevelFatal:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}
