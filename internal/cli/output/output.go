// Package output renders CLI messages and tables with lipgloss.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")
)

// Printer writes styled output to w. Colors are dropped automatically when w
// is not a terminal.
type Printer struct {
	w io.Writer

	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	info    lipgloss.Style
	muted   lipgloss.Style
	primary lipgloss.Style
	header  lipgloss.Style
}

func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		success: r.NewStyle().Foreground(colorSuccess).Bold(true),
		warning: r.NewStyle().Foreground(colorWarning).Bold(true),
		err:     r.NewStyle().Foreground(colorError).Bold(true),
		info:    r.NewStyle().Foreground(colorInfo),
		muted:   r.NewStyle().Foreground(colorMuted),
		primary: r.NewStyle().Foreground(colorPrimary).Bold(true),
		header:  r.NewStyle().Foreground(colorPrimary).Bold(true).Underline(true),
	}
}

func (p *Printer) Success(format string, args ...interface{}) {
	fmt.Fprintln(p.w, p.success.Render("✓ ")+fmt.Sprintf(format, args...))
}

func (p *Printer) Warning(format string, args ...interface{}) {
	fmt.Fprintln(p.w, p.warning.Render("⚠ ")+fmt.Sprintf(format, args...))
}

func (p *Printer) Error(format string, args ...interface{}) {
	fmt.Fprintln(p.w, p.err.Render("✗ ")+fmt.Sprintf(format, args...))
}

func (p *Printer) Info(format string, args ...interface{}) {
	fmt.Fprintln(p.w, p.info.Render("ℹ ")+fmt.Sprintf(format, args...))
}

func (p *Printer) Muted(format string, args ...interface{}) {
	fmt.Fprintln(p.w, p.muted.Render(fmt.Sprintf(format, args...)))
}

// Plain writes an unstyled line, e.g. a token meant for scripts.
func (p *Printer) Plain(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) Section(title string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.primary.Render(title))
	fmt.Fprintln(p.w, p.muted.Render(strings.Repeat("═", lipgloss.Width(title))))
}

// Table renders rows as left-aligned columns. Column widths come from the
// widest cell.
func (p *Printer) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = p.header.Render(pad(h, widths[i]))
	}
	fmt.Fprintln(p.w, strings.TrimRight(strings.Join(cells, "  "), " "))
	for _, row := range rows {
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = pad(cell, widths[i])
		}
		fmt.Fprintln(p.w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

// Bar renders a completion bar of width cells for pct in [0,100].
func (p *Printer) Bar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(pct / 100 * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return p.success.Render(strings.Repeat("█", filled)) + p.muted.Render(strings.Repeat("░", width-filled))
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
