package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestNewLoggerWritesPrefixedLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("k8dnz-test", "info", &buf, false)
	logger.Info("hello")

	if !strings.Contains(buf.String(), "k8dnz-test: ") {
		t.Fatalf("expected prefixed output, got %q", buf.String())
	}
}

func TestNewLoggerJSONFormatSkipsPrefixWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("k8dnz-test", "info", &buf, true)
	logger.Info("hello")

	if strings.Contains(buf.String(), "k8dnz-test: ") {
		t.Fatalf("expected JSON output with no line prefix, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"@message":"hello"`) {
		t.Fatalf("expected structured JSON output, got %q", buf.String())
	}
}

func TestGetLogLevelDefaultsToWarn(t *testing.T) {
	os.Unsetenv("K8DNZ_LOG_LEVEL")
	if got := GetLogLevel(); got != "warn" {
		t.Fatalf("got %q, want %q", got, "warn")
	}
}

func TestGetLogLevelReadsEnv(t *testing.T) {
	os.Setenv("K8DNZ_LOG_LEVEL", "debug")
	defer os.Unsetenv("K8DNZ_LOG_LEVEL")
	if got := GetLogLevel(); got != "debug" {
		t.Fatalf("got %q, want %q", got, "debug")
	}
}

func TestPrefixWriterBuffersIncompleteLines(t *testing.T) {
	var buf bytes.Buffer
	pw := NewPrefixWriter(">> ", &buf)

	pw.Write([]byte("partial"))
	if buf.Len() != 0 {
		t.Fatalf("expected no output before newline, got %q", buf.String())
	}
	pw.Write([]byte(" line\n"))
	if buf.String() != ">> partial line\n" {
		t.Fatalf("got %q", buf.String())
	}
}
