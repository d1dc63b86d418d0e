package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/della/internal/domain"
)

// Colors defines the fixed color palette of the TUI.
var Colors = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Text    lipgloss.Color
}{
	Primary: lipgloss.Color("#6C5CE7"), // Purple
	Muted:   lipgloss.Color("#636E72"), // Gray
	Error:   lipgloss.Color("#D63031"), // Red
	Success: lipgloss.Color("#00B894"), // Green
	Warning: lipgloss.Color("#FDCB6E"), // Yellow
	Text:    lipgloss.Color("#DFE6E9"), // Light gray
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	// Input line
	Prompt lipgloss.Style
	Echo   lipgloss.Style

	// Output
	Message lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style

	// Completion menu
	Candidate         lipgloss.Style
	CandidateSelected lipgloss.Style

	// Chooser and confirm dialog
	Dialog         lipgloss.Style
	DialogTitle    lipgloss.Style
	ChoiceNormal   lipgloss.Style
	ChoiceSelected lipgloss.Style
	HelpKey        lipgloss.Style

	// Footer
	Footer lipgloss.Style
}

// DefaultStyles returns the default styles with the prompt color from cfg.
func DefaultStyles(cfg *domain.Config) Styles {
	promptColor := lipgloss.Color(domain.DefaultPromptColor)
	if cfg != nil && cfg.Prompt.Color != "" {
		promptColor = lipgloss.Color(cfg.Prompt.Color)
	}
	return Styles{
		Prompt: lipgloss.NewStyle().Foreground(promptColor).Bold(true),
		Echo:   lipgloss.NewStyle().Foreground(Colors.Muted),

		Message: lipgloss.NewStyle().Foreground(Colors.Success),
		Error:   lipgloss.NewStyle().Foreground(Colors.Error),
		Warning: lipgloss.NewStyle().Foreground(Colors.Warning),
		Muted:   lipgloss.NewStyle().Foreground(Colors.Muted),

		Candidate:         lipgloss.NewStyle().Foreground(Colors.Muted).PaddingRight(2),
		CandidateSelected: lipgloss.NewStyle().Foreground(Colors.Primary).Bold(true).PaddingRight(2),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		DialogTitle:    lipgloss.NewStyle().Bold(true),
		ChoiceNormal:   lipgloss.NewStyle().Foreground(Colors.Text),
		ChoiceSelected: lipgloss.NewStyle().Foreground(Colors.Primary).Bold(true),
		HelpKey:        lipgloss.NewStyle().Foreground(Colors.Primary).Bold(true),

		Footer: lipgloss.NewStyle().Foreground(Colors.Muted),
	}
}
