package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Danondso/micselect/internal/device"
)

// Printer renders resolver results with a theme.
type Printer struct {
	theme Theme
}

// NewPrinter creates a Printer for the given theme.
func NewPrinter(t Theme) *Printer {
	return &Printer{theme: t}
}

// Devices renders the input device menu. The entry whose ID equals preferred
// is marked.
func (p *Printer) Devices(devices []device.InputDevice, preferred string) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(p.theme.Primary).Render("Input devices")
	if len(devices) == 0 {
		hint := lipgloss.NewStyle().Foreground(p.theme.Dimmed).Render("no usable input devices found")
		return title + "\n" + hint
	}

	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		mark := ""
		if d.ID == preferred {
			mark = "*"
		}
		rows = append(rows, []string{mark, d.Label, d.ID})
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(p.theme.Secondary).Padding(0, 1)
	marker := lipgloss.NewStyle().Bold(true).Foreground(p.theme.Primary).Padding(0, 1)
	label := lipgloss.NewStyle().Foreground(p.theme.Text).Padding(0, 1)
	id := lipgloss.NewStyle().Foreground(p.theme.Accent).Padding(0, 1)

	t := table.New().
		Border(p.theme.Frame).
		BorderStyle(lipgloss.NewStyle().Foreground(p.theme.Border)).
		Headers("", "LABEL", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 0:
				return marker
			case col == 1:
				return label
			default:
				return id
			}
		})

	return title + "\n" + t.Render()
}

// Resolved renders the outcome of opening a capture handle. A nil handle
// means no matching device.
func (p *Printer) Resolved(requested string, h device.CaptureHandle) string {
	if h == nil {
		what := "default input"
		if requested != "" {
			what = fmt.Sprintf("%q", requested)
		}
		return lipgloss.NewStyle().Foreground(p.theme.Warning).Bold(true).
			Render("NOT FOUND") + " no device matches " + what
	}
	dev := h.Device()
	return lipgloss.NewStyle().Foreground(p.theme.Success).Bold(true).Render("OK") + " " +
		lipgloss.NewStyle().Foreground(p.theme.Text).Render(dev.Name) + " " +
		lipgloss.NewStyle().Foreground(p.theme.Accent).Render(dev.UniqueID)
}

// NativeID renders the result of an identifier lookup.
func (p *Printer) NativeID(query string, id device.NativeID, ok bool) string {
	if !ok {
		return lipgloss.NewStyle().Foreground(p.theme.Warning).Bold(true).
			Render("NOT FOUND") + " " + query
	}
	return strings.Join([]string{
		lipgloss.NewStyle().Foreground(p.theme.Text).Render(query),
		lipgloss.NewStyle().Foreground(p.theme.Dimmed).Render("->"),
		lipgloss.NewStyle().Foreground(p.theme.Accent).Bold(true).Render(id.String()),
	}, " ")
}

// Error renders an error line.
func (p *Printer) Error(err error) string {
	return lipgloss.NewStyle().Foreground(p.theme.Error).Bold(true).Render("ERROR") + " " + err.Error()
}
