package log

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func captureJSON(t *testing.T) *bytes.Buffer {
	buf := new(bytes.Buffer)
	SetOutput(buf)
	SetJSON(true)
	prev := currLevel
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetJSON(false)
		SetLevel(prev)
	})
	return buf
}

func TestNewLevel(t *testing.T) {
	for level, name := range levelNames {
		parsed, err := NewLevel(name)
		require.NoError(t, err)
		require.Equal(t, level, parsed)
		require.Equal(t, name, parsed.String())
	}

	parsed, err := NewLevel("WARN")
	require.NoError(t, err)
	require.Equal(t, LevelWarn, parsed)

	_, err = NewLevel("loud")
	require.Error(t, err)
	require.Equal(t, ErrInvalidLevel, errors.Cause(err))
}

func TestLogger_Fields(t *testing.T) {
	buf := captureJSON(t)
	SetLevel(LevelTrace)

	WithModule("codec").Sub("file", "a.bin").Info("decoded", "bytes", 12, "err", errors.New("boom"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "decoded", line["msg"])
	require.Equal(t, "info", line["level"])
	require.Equal(t, "codec", line["module"])
	require.Equal(t, "a.bin", line["file"])
	require.EqualValues(t, 12, line["bytes"])
	require.Equal(t, "boom", line["err"])
}

func TestLogger_Level(t *testing.T) {
	buf := captureJSON(t)
	SetLevel(LevelWarn)

	logger := WithModule("store")
	logger.Debug("hidden")
	logger.Info("hidden")
	require.Zero(t, buf.Len())

	logger.Warn("shown")
	require.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestLogger_BadFields(t *testing.T) {
	logger := WithModule("test")
	require.Panics(t, func() {
		logger.Sub("odd")
	})
	require.Panics(t, func() {
		logger.Sub(1, 2)
	})
}

func TestLogger_Fatal(t *testing.T) {
	buf := captureJSON(t)
	SetLevel(LevelFatal)
	exitCode := -1
	backend.ExitFunc = func(code int) { exitCode = code }
	defer func() { backend.ExitFunc = nil }()

	logger := WithModule("cli")
	logger.Error("hidden")
	require.Zero(t, buf.Len())

	logger.Fatal("giving up", "reason", "test")
	require.Equal(t, 1, exitCode)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "fatal", line["level"])
	require.Equal(t, "test", line["reason"])
}
