package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/della/internal/completion"
	"github.com/runoshun/della/internal/usecase"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayoutSizes()
		return m, nil

	case MsgNotice:
		style := m.styles.Muted
		if msg.Warn {
			style = m.styles.Warning
		}
		for _, l := range msg.Lines {
			m.appendOutput(style.Render(l))
		}
		return m, nil

	case MsgPrompt:
		m.request = msg.Request
		m.chooseCursor = 0
		if msg.Request.Kind == PromptConfirm {
			m.mode = ModeConfirm
		} else {
			m.mode = ModeChoose
		}
		return m, nil

	case MsgLineDone:
		m.pending = nil
		m.request = nil
		m.mode = ModeInput
		m.contextPath = m.session.Tree.Context().Path()
		m.dirty = m.session.Dirty
		if msg.Err != nil {
			m.appendOutput(m.styles.Error.Render("error: " + msg.Err.Error()))
			return m, nil
		}
		m.showOutput(msg.Output)
		if msg.Output != nil && msg.Output.Quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.mode.IsInputMode() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// showOutput renders a finished line into the scrollback.
func (m *Model) showOutput(out *usecase.RunLineOutput) {
	if out == nil {
		return
	}
	for _, msg := range out.Messages {
		m.appendOutput(m.styles.Message.Render(msg))
	}
	if out.Listed != nil {
		m.appendOutput(RenderTree(out.Listed, m.tree))
	}
	if len(out.Matches) > 0 {
		m.appendOutput(RenderMatches(out.Matches, m.tree))
	}
	if len(out.Commands) > 0 {
		m.appendOutput(RenderCommands(out.Commands))
	}
}

// handleKeyMsg dispatches keys by mode.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && m.mode != ModeBusy {
		if m.request != nil {
			m.answerCancel()
		}
		m.quitting = true
		return m, tea.Quit
	}

	switch m.mode {
	case ModeInput:
		return m.handleInputMode(msg)
	case ModeChoose:
		return m.handleChooseMode(msg)
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Escape) {
			m.mode = ModeInput
		}
		return m, nil
	case ModeBusy:
		return m, nil
	}
	return m, nil
}

// handleInputMode handles keys while editing the line.
func (m *Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		line := m.input.Value()
		m.resetCompletion()
		m.input.Reset()
		m.appendOutput(m.styles.Echo.Render(m.promptText() + line))
		if strings.TrimSpace(line) == "" {
			return m, nil
		}
		m.history = append(m.history, line)
		m.historyIdx = len(m.history)
		return m, m.startLine(line)

	case key.Matches(msg, m.keys.Complete):
		m.cycleCompletion(1)
		return m, nil

	case key.Matches(msg, m.keys.CompletePrev):
		m.cycleCompletion(-1)
		return m, nil

	case key.Matches(msg, m.keys.HistoryPrev):
		m.browseHistory(-1)
		return m, nil

	case key.Matches(msg, m.keys.HistoryNext):
		m.browseHistory(1)
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.resetCompletion()
		return m, nil
	}

	m.resetCompletion()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// cycleCompletion replaces the last token with the next candidate.
// The first Tab computes candidates from the current line.
func (m *Model) cycleCompletion(step int) {
	if m.candidates == nil {
		m.completionBase = m.input.Value()
		p := completion.New(m.session.Tree.Names(), m.contextPath)
		m.candidates = p.Complete(m.completionBase)
		if len(m.candidates) == 0 {
			m.candidates = nil
			return
		}
		m.candidateIdx = 0
		if step < 0 {
			m.candidateIdx = len(m.candidates) - 1
		}
	} else {
		n := len(m.candidates)
		m.candidateIdx = ((m.candidateIdx+step)%n + n) % n
	}
	m.input.SetValue(completion.Apply(m.completionBase, m.candidates[m.candidateIdx]))
	m.input.CursorEnd()
}

func (m *Model) resetCompletion() {
	m.candidates = nil
	m.candidateIdx = 0
	m.completionBase = ""
}

// browseHistory recalls earlier input lines.
func (m *Model) browseHistory(step int) {
	if len(m.history) == 0 {
		return
	}
	m.historyIdx += step
	switch {
	case m.historyIdx < 0:
		m.historyIdx = 0
	case m.historyIdx >= len(m.history):
		m.historyIdx = len(m.history)
		m.input.Reset()
		return
	}
	m.input.SetValue(m.history[m.historyIdx])
	m.input.CursorEnd()
}

// handleChooseMode handles keys while picking among matching tasks.
func (m *Model) handleChooseMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.request.Candidates)
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.chooseCursor > 0 {
			m.chooseCursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.chooseCursor < n-1 {
			m.chooseCursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Choose):
		return m.answerChoose(m.chooseCursor)
	case key.Matches(msg, m.keys.Escape):
		m.answerCancel()
		return m, m.awaitLine()
	}

	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		if i := int(s[0] - '1'); i < n {
			return m.answerChoose(i)
		}
	}
	// Anything else cancels, as in the line shell.
	m.answerCancel()
	return m, m.awaitLine()
}

func (m *Model) answerChoose(i int) (tea.Model, tea.Cmd) {
	req := m.request
	m.appendOutput(m.styles.Muted.Render(fmt.Sprintf("chose /%s", req.Candidates[i].Path())))
	m.request = nil
	m.mode = ModeBusy
	req.Choose(i)
	return m, m.awaitLine()
}

func (m *Model) answerCancel() {
	req := m.request
	m.request = nil
	m.mode = ModeBusy
	if req.Kind == PromptConfirm {
		req.Confirm(false)
		return
	}
	req.Cancel()
}

// handleConfirmMode handles keys in the delete confirmation dialog.
func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		req := m.request
		m.request = nil
		m.mode = ModeBusy
		req.Confirm(true)
		return m, m.awaitLine()
	case key.Matches(msg, m.keys.No):
		m.answerCancel()
		return m, m.awaitLine()
	}
	return m, nil
}
