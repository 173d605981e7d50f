package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type logEntry map[string]any

func TestLoggerInfoWithFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf, Component: "gateway"})
	require.NoError(t, err)

	log = log.WithFields(map[string]any{"student_id": "42", "op": "update"})
	log.Info("updating student")

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "updating student", entry["message"])
	require.Equal(t, "42", entry["student_id"])
	require.Equal(t, "update", entry["op"])
	require.Equal(t, "gateway", entry["component"])
	require.Equal(t, "info", entry["level"])
}

func TestLoggerDebugRespectsLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf})
	require.NoError(t, err)

	log.Debug("this should not appear")
	log.Request("GET", "/api/v1/students", 200, time.Millisecond, "id")
	require.Equal(t, "", strings.TrimSpace(buf.String()))
}

func TestLoggerErrorIncludesContext(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", Writer: buf})
	require.NoError(t, err)

	log = log.With("phase", "failed")
	log.Error(errors.New("boom"), "list failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry logEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "list failed", entry["message"])
	require.Equal(t, "failed", entry["phase"])
	require.Equal(t, "boom", entry["error"])
}

func TestLoggerRequestFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", Writer: buf})
	require.NoError(t, err)

	log.Request("DELETE", "/api/v1/students/7", 204, 3*time.Millisecond, "req-1")

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "DELETE", entry["method"])
	require.Equal(t, float64(204), entry["status"])
	require.Equal(t, "req-1", entry["request_id"])
}

func TestInvalidLevelRejected(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestNilAndNopLoggersAreSafe(t *testing.T) {
	t.Parallel()

	var nilLog *Logger
	nilLog.Info("ignored")
	nilLog.Error(errors.New("x"), "ignored")
	require.Nil(t, nilLog.With("k", "v"))

	Nop().Warn("ignored")
}

func TestNewFileAppends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "roster.log")
	log, closer, err := NewFile(path, Options{Level: "info"})
	require.NoError(t, err)
	log.Info("first")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"message":"first"`)
}
