// Package report renders ledger snapshots and aggregations as terminal text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
)

const (
	colorRed    = lipgloss.Color("#f38ba8")
	colorGreen  = lipgloss.Color("#a6e3a1")
	colorYellow = lipgloss.Color("#f9e2af")
	colorOrange = lipgloss.Color("#fab387")
	colorBlue   = lipgloss.Color("#89b4fa")
	colorMuted  = lipgloss.Color("#7f849c")
)

// BarWidth is the number of cells a full progress or chart bar spans.
const BarWidth = 30

// Report writes styled output to w. Colors are only emitted when w is a
// terminal that supports them.
type Report struct {
	w io.Writer

	title   lipgloss.Style
	muted   lipgloss.Style
	income  lipgloss.Style
	expense lipgloss.Style
	accent  lipgloss.Style
	status  map[string]lipgloss.Style
}

func New(w io.Writer) *Report {
	r := lipgloss.NewRenderer(w)
	return &Report{
		w:       w,
		title:   r.NewStyle().Bold(true).Foreground(colorBlue),
		muted:   r.NewStyle().Foreground(colorMuted),
		income:  r.NewStyle().Foreground(colorGreen),
		expense: r.NewStyle().Foreground(colorRed),
		accent:  r.NewStyle().Bold(true),
		status: map[string]lipgloss.Style{
			string(aggregate.Nominal):    r.NewStyle().Foreground(colorGreen),
			string(aggregate.Caution):    r.NewStyle().Foreground(colorYellow),
			string(aggregate.Warning):    r.NewStyle().Foreground(colorOrange),
			string(aggregate.Reached):    r.NewStyle().Foreground(colorRed),
			string(aggregate.Exceeded):   r.NewStyle().Foreground(colorRed).Bold(true),
			string(aggregate.InProgress): r.NewStyle().Foreground(colorBlue),
			string(aggregate.Achieved):   r.NewStyle().Foreground(colorGreen).Bold(true),
		},
	}
}

// FormatMoney renders m as $1,234.56.
func FormatMoney(m core.Money) string {
	cents := m.Cents()
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(cents/100), cents%100)
}

// Name truncates a label to the form limit.
func Name(s string) string {
	return ansi.Truncate(s, core.MaxNameLength, "…")
}

// pad right-pads s to width cells, ignoring escape sequences.
func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

func (r *Report) line(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

func (r *Report) heading(s string) {
	r.line("%s", r.title.Render(s))
}

func (r *Report) empty(s string) {
	r.line("%s", r.muted.Render(s))
}

func (r *Report) signed(m core.Money, typ core.TransactionType) string {
	if typ == core.Income {
		return r.income.Render("+" + FormatMoney(m))
	}
	return r.expense.Render("-" + FormatMoney(m))
}

func (r *Report) net(m core.Money) string {
	if m.IsNegative() {
		return r.expense.Render(FormatMoney(m))
	}
	return r.income.Render(FormatMoney(m))
}
