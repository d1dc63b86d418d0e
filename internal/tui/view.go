package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	parts := []string{m.viewOutput()}
	switch m.mode {
	case ModeChoose:
		parts = append(parts, m.viewChooser())
	case ModeConfirm:
		parts = append(parts, m.viewConfirmDialog())
	case ModeHelp:
		parts = append(parts, m.help.FullHelpView(m.keys.FullHelp()))
	case ModeInput, ModeBusy:
		if c := m.viewCandidates(); c != "" {
			parts = append(parts, c)
		}
	}
	parts = append(parts, m.viewInput(), m.viewFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// viewOutput renders the scrollback. Before the first WindowSizeMsg only the tail is shown.
func (m *Model) viewOutput() string {
	if m.ready {
		return m.viewport.View()
	}
	lines := m.output
	if len(lines) > 20 {
		lines = lines[len(lines)-20:]
	}
	return strings.Join(lines, "\n")
}

// viewInput renders the prompt and the line being edited.
func (m *Model) viewInput() string {
	prompt := m.styles.Prompt.Render(m.promptText())
	if m.mode == ModeBusy {
		return prompt + m.styles.Muted.Render("…")
	}
	return prompt + m.input.View()
}

// viewCandidates renders the completion menu on one line.
func (m *Model) viewCandidates() string {
	if len(m.candidates) < 2 {
		return ""
	}
	const maxShown = 8
	var b strings.Builder
	for i, c := range m.candidates {
		if i == maxShown {
			b.WriteString(m.styles.Muted.Render(fmt.Sprintf("+%d", len(m.candidates)-maxShown)))
			break
		}
		style := m.styles.Candidate
		if i == m.candidateIdx {
			style = m.styles.CandidateSelected
		}
		b.WriteString(style.Render(c.Display))
	}
	return b.String()
}

// viewChooser renders the list of matching tasks.
func (m *Model) viewChooser() string {
	title := m.styles.DialogTitle.Foreground(Colors.Warning).Render("Multiple matches!")
	hint := m.styles.Muted.Render("Input the number of the target, or anything else to cancel")
	lines := []string{title, hint, ""}
	for i, t := range m.request.Candidates {
		style := m.styles.ChoiceNormal
		cursor := "  "
		if i == m.chooseCursor {
			style = m.styles.ChoiceSelected
			cursor = "> "
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s%d. /%s", cursor, i+1, t.Path())))
	}
	return m.styles.Dialog.BorderForeground(Colors.Warning).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// viewConfirmDialog renders the delete confirmation dialog.
func (m *Model) viewConfirmDialog() string {
	req := m.request
	title := m.styles.DialogTitle.Foreground(Colors.Error).Render(fmt.Sprintf("Delete '/%s'?", req.Task.Path()))
	lines := []string{title}
	if req.Descendants > 0 {
		lines = append(lines, m.styles.Warning.Render(fmt.Sprintf("It has %d subtasks that will also be deleted.", req.Descendants)))
	}
	yes := m.styles.HelpKey.Render("[ y ] Delete")
	no := m.styles.Footer.Render("[ n ] Keep")
	lines = append(lines, "", lipgloss.JoinHorizontal(lipgloss.Left, yes, "  ", no))
	return m.styles.Dialog.BorderForeground(Colors.Error).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// viewFooter renders the short key help and the session source.
func (m *Model) viewFooter() string {
	source := m.session.Source
	if m.dirty {
		source += " *"
	}
	return m.help.ShortHelpView(m.keys.ShortHelp()) + m.styles.Footer.Render("  "+source)
}
