// SPDX-License-Identifier: EPL-2.0

// Package cli holds the terminal styling of the audshout command.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ik5/audshout/shout"
)

var (
	primaryColor = lipgloss.Color("#D7263D")
	quietColor   = lipgloss.Color("#2E9E5B")
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	// ShoutStyle marks files with a detected shout.
	ShoutStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// CalmStyle marks files without one.
	CalmStyle = lipgloss.NewStyle().
			Foreground(quietColor)
)

// PrintVersion writes the program name and version.
func PrintVersion(w io.Writer, version string) {
	fmt.Fprintln(w, TitleStyle.Render("audshout"))
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
}

// PrintError writes a styled error line.
func PrintError(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// FormatResult renders the detection for one file as a short block.
func FormatResult(name string, res shout.Result) string {
	var sb strings.Builder

	sb.WriteString(ValueStyle.Render(name))
	sb.WriteString("\n")

	if !res.Present {
		sb.WriteString("  ")
		sb.WriteString(CalmStyle.Render("no shout"))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString("  ")
	sb.WriteString(ShoutStyle.Render("SHOUT"))
	sb.WriteString("\n")

	row := func(key, value string) {
		sb.WriteString("  ")
		sb.WriteString(KeyStyle.Render(fmt.Sprintf("%-11s", key)))
		sb.WriteString(" ")
		sb.WriteString(value)
		sb.WriteString("\n")
	}
	row("span", fmt.Sprintf("%d-%d ms", *res.StartMs, *res.EndMs))
	row("duration", fmt.Sprintf("%.2f s", *res.DurationSeconds))
	row("peak", fmt.Sprintf("%.2f dBFS", *res.PeakDBFS))
	row("confidence", fmt.Sprintf("%.2f", *res.Confidence))

	return sb.String()
}
