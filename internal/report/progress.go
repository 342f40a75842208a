// Package report renders progress and results for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/skoirala/nepse-agent/internal/types"
)

// barWidth is the progress bar cell count.
const barWidth = 30

// Bar renders a fill bar for a 0-100 percent value.
func Bar(percent float64) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * barWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// ConsoleReporter writes one progress line per event. Safe for concurrent
// workflows; lines from different members interleave but never tear.
type ConsoleReporter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleReporter writes progress to out.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// Report renders the event as a bar line.
func (r *ConsoleReporter) Report(e types.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	marker := " "
	if e.Done {
		marker = "✓"
	}
	_, _ = fmt.Fprintf(r.out, "%s %-14s %s %3.0f%%  %s\n", marker, e.Member, Bar(e.Percent), e.Percent, e.Message)
}
