package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// NewLogger creates an hclog logger with K8DNZ's standard settings.
// level takes precedence over K8DNZ_LOG_LEVEL when non-empty, which
// takes precedence over the "warn" default. jsonFormat selects
// structured JSON output over PrefixWriter's line-prefixed human
// format; callers typically resolve it from an explicit --json-log
// flag, falling back to JSONLogEnabled() when the flag wasn't set.
func NewLogger(name string, level string, output io.Writer, jsonFormat bool) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	if level == "" {
		level = GetLogLevel()
	}

	if !jsonFormat {
		output = NewPrefixWriter(name+": ", output)
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// GetLogLevel returns the configured log level from K8DNZ_LOG_LEVEL,
// defaulting to "warn" for production safety.
func GetLogLevel() string {
	level := os.Getenv("K8DNZ_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	return level
}

// JSONLogEnabled reports whether K8DNZ_JSON_LOG requests structured
// output, for callers that don't have an explicit --json-log flag to
// consult.
func JSONLogEnabled() bool {
	return os.Getenv("K8DNZ_JSON_LOG") == "1"
}
