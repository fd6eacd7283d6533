package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/organizador/pkg/report"
)

var (
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	headerStyle   = lipgloss.NewStyle().Bold(true)
)

func styleOf(intent report.Style) lipgloss.Style {
	switch intent {
	case report.StyleNegative:
		return negativeStyle
	case report.StylePositive:
		return positiveStyle
	case report.StyleNeutral:
		return neutralStyle
	}
	return lipgloss.NewStyle()
}

// Metrics prints the headline totals.
func Metrics(w io.Writer, m *report.Model) {
	fmt.Fprintf(w, "%s %s   %s %s   %s %s\n",
		headerStyle.Render("Entradas:"), positiveStyle.Render(FormatBRL(m.Totals.Inflow)),
		headerStyle.Render("Saídas:"), negativeStyle.Render(FormatBRL(m.Totals.Outflow)),
		headerStyle.Render("Saldo:"), FormatBRL(m.Totals.Net))
}

// Terminal prints a coloured preview of both tables.
func Terminal(w io.Writer, m *report.Model) {
	fmt.Fprintln(w, headerStyle.Render(m.Detail.Sheet))
	for _, r := range m.Detail.Rows {
		line := fmt.Sprintf("%s | %-40.40s | %-22.22s | %16s | %-7s | %s",
			r.Date.Format("02/01/2006"), r.Description, r.Category, FormatBRL(r.Amount), r.FlowKind, r.Source)
		fmt.Fprintln(w, styleOf(r.AmountStyle).Render(line))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(m.Summary.Sheet))
	for _, r := range m.Summary.Rows {
		fmt.Fprintf(w, "%-24s %16s %4d\n", r.Category, FormatBRL(r.Total), r.Count)
	}
	fmt.Fprintln(w)
	Metrics(w, m)
}
