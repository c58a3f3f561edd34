package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/gradtape/internal/selfcheck"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// renderReport draws failed checks (every check with all set) followed by a
// summary line.
func renderReport(rep selfcheck.Report, all bool) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("STATUS", "OP", "POINT", "REVERSE", "FINITE DIFF", "MAX ERROR").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	rows := 0
	for _, res := range rep.Results {
		if res.Err == nil && !all {
			continue
		}
		status := passStyle.Render("PASS")
		if res.Err != nil {
			status = failStyle.Render("FAIL")
		}
		t.Row(status, res.Op, formatFloats(res.Point), formatFloats(res.Gradient),
			formatFloats(res.FiniteDiff), strconv.FormatFloat(res.MaxError, 'e', 2, 64))
		rows++
	}

	summary := passStyle.Render(fmt.Sprintf("%d checks passed", len(rep.Results)))
	if !rep.OK() {
		summary = failStyle.Render(fmt.Sprintf("%d of %d checks failed", rep.Failed, len(rep.Results)))
	}
	if rows == 0 {
		return summary
	}
	return t.Render() + "\n" + summary
}

func formatFloats(xs []float64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.FormatFloat(x, 'g', 6, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
