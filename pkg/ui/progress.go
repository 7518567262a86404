package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/term"

	"ccscraper/pkg/models"
)

// ProgressLine renders the transient "Downloading model X photo i of n"
// status line, overwriting it in place with a carriage return. The line is
// only drawn on an interactive terminal.
type ProgressLine struct {
	mu          sync.Mutex
	out         io.Writer
	interactive bool
	lastWidth   int
	startTime   time.Time
}

// NewProgressLine creates a progress line on f, drawn only when f is a
// terminal and quiet mode is off
func NewProgressLine(f *os.File) *ProgressLine {
	interactive := term.IsTerminal(int(f.Fd())) && !IsQuietMode()
	return NewProgressLineWriter(f, interactive)
}

// NewProgressLineWriter creates a progress line on w
func NewProgressLineWriter(w io.Writer, interactive bool) *ProgressLine {
	return &ProgressLine{
		out:         w,
		interactive: interactive,
		startTime:   time.Now(),
	}
}

// Update redraws the line for photo current (1-based) of total
func (p *ProgressLine) Update(model string, current, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.interactive {
		return
	}

	format := "Downloading model %s photo %d of %d"
	plain := fmt.Sprintf(format, model, current, total)
	p.redraw(fmt.Sprintf(format, Cyan(model), current, total), utf8.RuneCountInString(plain))
}

// Clear erases the status line so the next output starts on a clean line
func (p *ProgressLine) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clear()
}

func (p *ProgressLine) clear() {
	if !p.interactive || p.lastWidth == 0 {
		return
	}
	fmt.Fprintf(p.out, "\r%s\r", strings.Repeat(" ", p.lastWidth))
	p.lastWidth = 0
}

// Complete clears the status line and prints the completion notice
func (p *ProgressLine) Complete(summary models.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clear()

	if IsQuietMode() {
		return
	}

	fmt.Fprintf(p.out, "%s Done: %d saved, %d already present across %d models on %d archive pages\n",
		Green("✓"),
		summary.Saved,
		summary.Skipped,
		summary.Models,
		summary.Pages,
	)
	fmt.Fprintf(p.out, "  %s %s in %s\n",
		Dim("•"),
		formatBytes(summary.Bytes),
		formatDuration(time.Since(p.startTime)),
	)
	if summary.Invalid > 0 || summary.Failed > 0 {
		fmt.Fprintf(p.out, "  %s %s\n",
			Dim("•"),
			Yellow(fmt.Sprintf("%d rejected, %d failed", summary.Invalid, summary.Failed)),
		)
	}
}

// redraw overwrites the current line, padding to erase a longer previous
// one. width is the visible width of line, excluding color sequences.
func (p *ProgressLine) redraw(line string, width int) {
	pad := ""
	if p.lastWidth > width {
		pad = strings.Repeat(" ", p.lastWidth-width)
	}
	fmt.Fprintf(p.out, "\r%s%s", line, pad)
	p.lastWidth = width
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}

// formatBytes formats bytes in a human-readable way
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
