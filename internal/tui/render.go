package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/della/internal/domain"
)

// TreeStyle controls how RenderTree lays out a subtree.
// Fields are ordered to minimize memory padding.
type TreeStyle struct {
	Colors []lipgloss.Color // Cycled per depth
	Format domain.FormatOptions
	Today  domain.Date
	Indent int // Spaces per level
}

// NewTreeStyle builds a TreeStyle from the [display] section.
func NewTreeStyle(cfg *domain.Config, today domain.Date) TreeStyle {
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}
	names := cfg.Display.Colors
	if len(names) == 0 {
		names = domain.DefaultColors
	}
	colors := make([]lipgloss.Color, len(names))
	for i, n := range names {
		colors[i] = lipgloss.Color(n)
	}
	indent := cfg.Display.Indent
	if indent <= 0 {
		indent = domain.DefaultIndent
	}
	return TreeStyle{
		Colors: colors,
		Format: cfg.FormatOptions(),
		Today:  today,
		Indent: indent,
	}
}

// depthStyle returns the style for tasks at depth (children of the rendered root are depth 1).
func (s TreeStyle) depthStyle(depth int) lipgloss.Style {
	if len(s.Colors) == 0 {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(s.Colors[(depth-1)%len(s.Colors)])
}

// RenderTree renders root on the first line followed by its numbered descendants:
//
//	All Tasks | 2 subtasks
//	  1. buy milk  Fri, Jan 05 (tomorrow)
//	  2. work | 1 subtask
//	    1. report
func RenderTree(root *domain.Task, style TreeStyle) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(domain.FormatTask(root, style.Format, style.Today)))
	if root.NumChildren() == 0 {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", style.Indent))
		b.WriteString("(no subtasks)")
		return b.String()
	}
	renderChildren(&b, root, 1, style)
	return b.String()
}

func renderChildren(b *strings.Builder, parent *domain.Task, depth int, style TreeStyle) {
	st := style.depthStyle(depth)
	for i, child := range parent.Children() {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", style.Indent*depth))
		line := fmt.Sprintf("%d. %s", i+1, domain.FormatTask(child, style.Format, style.Today))
		if id := child.UniqueID(); id != "" {
			line += " " + domain.IDMarker + domain.IDMarker + id
		}
		b.WriteString(st.Render(line))
		renderChildren(b, child, depth+1, style)
	}
}

// RenderMatches renders search results as numbered absolute paths.
func RenderMatches(matches []*domain.Task, style TreeStyle) string {
	lines := make([]string, 0, len(matches))
	for i, t := range matches {
		line := fmt.Sprintf("%d. /%s", i+1, t.Path())
		if !t.Due().IsZero() {
			line += "  " + domain.Decompose(t, style.Format, style.Today).Due
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// RenderCommands renders the command table for @help.
func RenderCommands(specs []domain.CommandSpec) string {
	width := 0
	for _, s := range specs {
		if len(s.Usage) > width {
			width = len(s.Usage)
		}
	}
	lines := make([]string, 0, len(specs))
	for _, s := range specs {
		line := fmt.Sprintf("%-*s  %s", width, s.Usage, s.Description)
		if len(s.Aliases) > 0 {
			line += " (" + domain.CommandMarker + strings.Join(s.Aliases, ", "+domain.CommandMarker) + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
