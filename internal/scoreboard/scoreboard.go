// Package scoreboard prints a human-readable summary of a fit run:
// objective value, chunk count, residual size, and a tick count (the
// cmd/k8dnz callers pass the run's max-ticks budget, not the ticks
// actually elapsed). Colors are only emitted when stdout is a real
// terminal.
package scoreboard

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Row is one fit run's summary line.
type Row struct {
	Label        string
	Objective    int64
	Chunks       int
	ResidualSize int
	ElapsedTicks uint64
	Degraded     bool
}

// Print writes rows as an aligned table to w, coloring the "degraded"
// column when w is a terminal.
func Print(w io.Writer, rows []Row) {
	colorEnabled := false
	if f, ok := w.(*os.File); ok {
		colorEnabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	bold := color.New(color.Bold)
	warn := color.New(color.FgYellow)
	ok := color.New(color.FgGreen)
	if !colorEnabled {
		bold.DisableColor()
		warn.DisableColor()
		ok.DisableColor()
	}

	bold.Fprintf(w, "%-24s %12s %8s %14s %14s %9s\n",
		"run", "objective", "chunks", "residual_bytes", "ticks", "status")

	for _, r := range rows {
		status := ok.Sprint("ok")
		if r.Degraded {
			status = warn.Sprint("degraded")
		}
		fmt.Fprintf(w, "%-24s %12d %8d %14d %14d %9s\n",
			r.Label, r.Objective, r.Chunks, r.ResidualSize, r.ElapsedTicks, status)
	}
}
