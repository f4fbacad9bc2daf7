package logging

import (
	"bytes"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// PrefixWriter wraps an io.Writer and tags every complete line with a
// run label, bolding the label when the underlying writer is a real
// terminal. The isatty gating mirrors internal/scoreboard's coloring so
// a log stream and a scoreboard table read consistently side by side.
type PrefixWriter struct {
	prefix string
	label  *color.Color
	writer io.Writer
	buffer bytes.Buffer
}

// NewPrefixWriter wraps w, prefixing each output line with prefix.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	label := color.New(color.Bold)
	if f, ok := w.(*os.File); !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		label.DisableColor()
	}
	return &PrefixWriter{
		prefix: prefix,
		label:  label,
		writer: w,
	}
}

// Write implements io.Writer. It buffers data until a newline is
// encountered, then writes the prefixed line to the underlying writer.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	n := len(p)
	if _, err := pw.buffer.Write(p); err != nil {
		return 0, err
	}

	for {
		line, err := pw.buffer.ReadBytes('\n')
		if err != nil {
			if len(line) > 0 {
				// Incomplete line: put it back and wait for the rest.
				if _, wErr := pw.buffer.Write(line); wErr != nil {
					return 0, wErr
				}
			}
			break
		}

		if _, err := pw.label.Fprint(pw.writer, pw.prefix); err != nil {
			return 0, err
		}
		if _, err := pw.writer.Write(line); err != nil {
			return 0, err
		}
	}

	return n, nil
}
