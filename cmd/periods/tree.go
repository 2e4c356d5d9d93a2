package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/warp/period-engine/period"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	rangeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

const treeDate = "2006-01-02"

// renderTree draws the interval and its children as an indented tree:
//
//	Jan 2024..Mar 2024  month x3, 91 days
//	2024-01-01 -> 2024-03-31
//	├── Jan 2024  2024-01-01 -> 2024-01-31  31d
//	├── Feb 2024  2024-02-01 -> 2024-02-29  29d
//	└── Mar 2024  2024-03-01 -> 2024-03-31  31d
func renderTree(iv *period.Interval) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(iv.Label()))
	sb.WriteString("  ")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("%s x%d, %d days", iv.Precision(), iv.PeriodLength(), iv.Days())))
	sb.WriteString("\n")
	sb.WriteString(rangeStyle.Render(dateRange(iv)))

	children := iv.Children()
	for i, c := range children {
		branch := "├── "
		if i == len(children)-1 {
			branch = "└── "
		}
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render(branch))
		sb.WriteString(labelStyle.Render(c.Label()))
		sb.WriteString("  ")
		sb.WriteString(rangeStyle.Render(dateRange(c)))
		sb.WriteString("  ")
		sb.WriteString(dimStyle.Render(fmt.Sprintf("%dd", c.Days())))
	}

	return sb.String()
}

func dateRange(iv *period.Interval) string {
	return iv.Start().Format(treeDate) + " -> " + iv.End().Format(treeDate)
}
