// Package tui provides the interactive terminal session for della.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeInput   Mode = iota // Line editing
	ModeBusy                // A line is executing; input is ignored
	ModeChoose              // Picking one of several matching tasks
	ModeConfirm             // Confirming a delete
	ModeHelp                // Key help overlay
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeInput:
		return "input"
	case ModeBusy:
		return "busy"
	case ModeChoose:
		return "choose"
	case ModeConfirm:
		return "confirm"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if the mode accepts text input.
func (m Mode) IsInputMode() bool {
	switch m {
	case ModeInput:
		return true
	case ModeBusy, ModeChoose, ModeConfirm, ModeHelp:
		return false
	}
	return false
}
