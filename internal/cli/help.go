// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFA500")).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00")).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAAA")).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true)
)

// StyledHelpPrinter renders help for the selected command, or the command
// list when none is selected.
func StyledHelpPrinter(description string) kong.HelpPrinter {
	return func(_ kong.HelpOptions, ctx *kong.Context) error {
		node := ctx.Selected()
		if node == nil {
			node = ctx.Model.Node
		}

		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render("audshout"))
		sb.WriteString("\n")
		sb.WriteString(helpDescStyle.Render(description))
		sb.WriteString("\n")

		sb.WriteString(helpSectionStyle.Render("Usage:"))
		sb.WriteString("\n  ")
		sb.WriteString(node.Summary())
		sb.WriteString("\n")

		if node.Help != "" && node != ctx.Model.Node {
			sb.WriteString("\n  ")
			sb.WriteString(node.Help)
			sb.WriteString("\n")
		}

		if cmds := commands(node); len(cmds) > 0 {
			sb.WriteString("\n")
			sb.WriteString(helpSectionStyle.Render("Commands:"))
			sb.WriteString("\n")
			for _, c := range cmds {
				writeEntry(&sb, helpArgStyle.Render(c.name), c.help, "")
			}
		}

		if len(node.Positional) > 0 {
			sb.WriteString("\n")
			sb.WriteString(helpSectionStyle.Render("Arguments:"))
			sb.WriteString("\n")
			for _, arg := range node.Positional {
				writeEntry(&sb, helpArgStyle.Render(arg.Summary()), arg.Help, "")
			}
		}

		sb.WriteString("\n")
		sb.WriteString(helpSectionStyle.Render("Flags:"))
		sb.WriteString("\n")
		for _, f := range flags(node) {
			writeEntry(&sb, helpFlagStyle.Render(f.flags), f.help, f.defaultVal)
		}

		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	}
}

type entry struct {
	name string
	help string
}

type flag struct {
	flags      string
	help       string
	defaultVal string
}

func writeEntry(sb *strings.Builder, name, help, def string) {
	sb.WriteString("  ")
	sb.WriteString(name)
	if help != "" {
		sb.WriteString("  ")
		sb.WriteString(help)
	}
	if def != "" {
		sb.WriteString(" ")
		sb.WriteString(helpDefaultStyle.Render("(default: " + def + ")"))
	}
	sb.WriteString("\n")
}

func commands(node *kong.Node) []entry {
	var out []entry
	for _, c := range node.Children {
		if c.Hidden || c.Type != kong.CommandNode {
			continue
		}
		out = append(out, entry{name: c.Name, help: c.Help})
	}
	return out
}

// flags lists the flags of node and its ancestors, help first.
func flags(node *kong.Node) []flag {
	out := []flag{{flags: "-h, --help", help: "Show context-sensitive help."}}

	for _, group := range node.AllFlags(true) {
		for _, f := range group {
			if f.Name == "help" {
				continue
			}

			s := "--" + f.Name
			if f.Short != 0 {
				s = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
			}
			if !f.IsBool() {
				s += "=" + strings.ToUpper(f.FormatPlaceHolder())
			}

			var def string
			if f.HasDefault {
				def = f.Default
			}
			out = append(out, flag{flags: s, help: f.Help, defaultVal: def})
		}
	}

	return out
}
