// Package render draws intake data as terminal tables for the CLI.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	primary = lipgloss.Color("#101F38")
	accent  = lipgloss.Color("#2196F3")
	muted   = lipgloss.Color("#8A94A6")
	warning = lipgloss.Color("#FFC107")
)

// Styles are bound to one output so colour is only emitted on terminals
// that support it.
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
	Border lipgloss.Style
	Note   lipgloss.Style
}

func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:  r.NewStyle().Bold(true).Foreground(accent).MarginTop(1),
		Header: r.NewStyle().Bold(true).Foreground(primary).Padding(0, 1),
		Cell:   r.NewStyle().Padding(0, 1),
		Border: r.NewStyle().Foreground(muted),
		Note:   r.NewStyle().Foreground(warning),
	}
}

// Printer writes styled blocks to w.
type Printer struct {
	w      io.Writer
	styles Styles
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, styles: NewStyles(lipgloss.NewRenderer(w))}
}

// Table renders headers and rows with a normal border. An empty title is
// skipped; rows with no data still print the header.
func (p *Printer) Table(title string, headers []string, rows [][]string) error {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(p.styles.Title.Render(title))
		sb.WriteString("\n")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.styles.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.styles.Header
			}
			return p.styles.Cell
		})
	sb.WriteString(t.String())
	sb.WriteString("\n")

	_, err := io.WriteString(p.w, sb.String())
	return err
}

// Notes renders a numbered list.
func (p *Printer) Notes(title string, notes []string) error {
	var sb strings.Builder
	sb.WriteString(p.styles.Title.Render(title))
	sb.WriteString("\n")
	for i, n := range notes {
		sb.WriteString(p.styles.Note.Render(fmt.Sprintf("%d. %s", i+1, n)))
		sb.WriteString("\n")
	}
	_, err := io.WriteString(p.w, sb.String())
	return err
}

// Line writes a single unstyled line.
func (p *Printer) Line(format string, args ...any) error {
	_, err := fmt.Fprintf(p.w, format+"\n", args...)
	return err
}
