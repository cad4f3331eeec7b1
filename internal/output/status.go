// Package output renders operator feedback: timestamped status lines, section
// banners, and the final run report in text or JSON.
package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// headerWidth is the banner rule width.
const headerWidth = 60

// Severity classifies a status line and selects its color.
type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// StatusPrinter emits one timestamped progress line per call. Implementations
// must be safe for use from concurrent workers.
type StatusPrinter interface {
	Status(sev Severity, format string, args ...any)
}

// HeaderPrinter emits a section banner.
type HeaderPrinter interface {
	Header(title string)
}

// Printer writes colored status lines and banners to a single writer.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	color  bool
	styles map[Severity]lipgloss.Style
	banner lipgloss.Style
}

// NewPrinter returns a Printer writing to w. When color is false every line is
// plain text.
func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{
		w:     w,
		color: color,
		styles: map[Severity]lipgloss.Style{
			Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		},
		banner: lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	}
}

// Status writes one "[HH:MM:SS] message" line.
func (p *Printer) Status(sev Severity, format string, args ...any) {
	line := p.format(sev, fmt.Sprintf(format, args...))
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, line)
}

func (p *Printer) format(sev Severity, msg string) string {
	line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), msg)
	if !p.color {
		return line
	}
	return p.styles[sev].Render(line)
}

// Header writes the section banner: a rule, the centered title, a rule.
func (p *Printer) Header(title string) {
	rule := strings.Repeat("=", headerWidth)
	centered := centerText(title, headerWidth)
	if p.color {
		rule = p.banner.Render(rule)
		centered = p.banner.Render(centered)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "\n%s\n%s\n%s\n\n", rule, centered, rule)
}

func centerText(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}

type nopPrinter struct{}

func (nopPrinter) Status(Severity, string, ...any) {}
func (nopPrinter) Header(string)                   {}

// Nop discards all status output. Used where feedback is unwanted, such as
// JSON-only runs and tests.
var Nop nopPrinter
