package log

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelTrace: "trace",
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelFatal: "fatal",
}

var ErrInvalidLevel = errors.New("invalid log level")

func NewLevel(l string) (Level, error) {
	for level, name := range levelNames {
		if name == strings.ToLower(l) {
			return level, nil
		}
	}
	return LevelTrace, errors.Wrapf(ErrInvalidLevel, "%q", l)
}

func (l Level) String() string {
	name, ok := levelNames[l]
	if !ok {
		panic("invalid level")
	}
	return name
}

var currLevel = LevelInfo

var backend = logrus.New()

var rootLogger = newEntryLogger(backend)

type Logger interface {
	Trace(string, ...interface{})
	Debug(string, ...interface{})
	Info(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Fatal(string, ...interface{})
	Sub(...interface{}) Logger
}

func SetLevel(level Level) {
	currLevel = level
	backend.SetLevel(level.backendLevel())
}

// SetOutput redirects every module logger. The CLI points this at stderr so
// that encoded output on stdout stays clean.
func SetOutput(w io.Writer) {
	backend.SetOutput(w)
}

func SetJSON(enabled bool) {
	if enabled {
		backend.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	backend.SetFormatter(&logrus.TextFormatter{})
}

func WithModule(name string) Logger {
	return rootLogger.Sub("module", name)
}

func init() {
	backend.SetOutput(os.Stderr)
	// set log level to trace by default in test
	if strings.HasSuffix(os.Args[0], ".test") {
		SetLevel(LevelTrace)
	}
}
