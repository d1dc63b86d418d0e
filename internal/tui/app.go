package tui

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/della/internal/app"
	"github.com/runoshun/della/internal/completion"
	"github.com/runoshun/della/internal/domain"
	"github.com/runoshun/della/internal/usecase"
)

// maxOutputLines bounds the scrollback kept in memory.
const maxOutputLines = 2000

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	session   *usecase.Session
	runLine   *usecase.RunLine
	prompter  *Prompter
	request   *PromptRequest
	pending   chan MsgLineDone

	// State (slices - contain pointers)
	output     []string
	history    []string
	candidates []completion.Candidate
	notices    []string

	// Components (structs with pointers)
	keys     KeyMap
	styles   Styles
	tree     TreeStyle
	help     help.Model
	viewport viewport.Model
	input    textinput.Model

	running sync.WaitGroup

	// Input state
	completionBase string // Line before the first Tab of a completion cycle
	contextPath    string // Cached context path; the tree is not read while a line runs

	// Numeric state (smaller types last)
	mode         Mode
	candidateIdx int
	chooseCursor int
	historyIdx   int
	width        int
	height       int
	ready        bool
	dirty        bool
	quitting     bool
}

// New creates a new TUI Model over an open session.
func New(c *app.Container, session *usecase.Session, notices []string) *Model {
	prompter := NewPrompter()

	ti := textinput.New()
	ti.Placeholder = "task content, #target, @command or a date"
	ti.CharLimit = 1000
	ti.Prompt = ""
	ti.Focus()

	return &Model{
		container:   c,
		session:     session,
		runLine:     c.RunLineUseCase(prompter),
		prompter:    prompter,
		keys:        DefaultKeyMap(),
		styles:      DefaultStyles(c.Config),
		tree:        NewTreeStyle(c.Config, domain.DateOf(c.Clock.Now())),
		help:        help.New(),
		input:       ti,
		notices:     notices,
		contextPath: session.Tree.Context().Path(),
		dirty:       session.Dirty,
		mode:        ModeInput,
	}
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if len(m.notices) > 0 {
		notices := m.notices
		cmds = append(cmds, func() tea.Msg { return MsgNotice{Lines: notices, Warn: true} })
	}
	return tea.Batch(cmds...)
}

// Session returns the session the model edits.
func (m *Model) Session() *usecase.Session {
	return m.session
}

// Quitting reports whether the user asked to leave.
func (m *Model) Quitting() bool {
	return m.quitting
}

// Wait blocks until a line that was still running at quit has finished.
// Questions the line asks after the UI is gone are answered with "no".
func (m *Model) Wait() {
	m.prompter.Close()
	m.running.Wait()
}

// Output returns the scrollback lines, oldest first.
func (m *Model) Output() []string {
	return m.output
}

// promptText returns the prompt shown before the input line, e.g. "/work> ".
func (m *Model) promptText() string {
	text := domain.DefaultPromptText
	if m.container.Config != nil && m.container.Config.Prompt.Text != "" {
		text = m.container.Config.Prompt.Text
	}
	return domain.AbsoluteMarker + m.contextPath + text
}

// startLine runs line off the UI goroutine.
func (m *Model) startLine(line string) tea.Cmd {
	done := make(chan MsgLineDone, 1)
	m.pending = done
	m.mode = ModeBusy
	uc, session := m.runLine, m.session
	m.running.Add(1)
	go func() {
		defer m.running.Done()
		out, err := uc.Execute(context.Background(), usecase.RunLineInput{Session: session, Line: line})
		done <- MsgLineDone{Output: out, Err: err}
	}()
	return m.awaitLine()
}

// awaitLine waits for the running line to finish or to ask a question.
func (m *Model) awaitLine() tea.Cmd {
	done, requests := m.pending, m.prompter.Requests()
	return func() tea.Msg {
		select {
		case msg := <-done:
			return msg
		case req := <-requests:
			return MsgPrompt{Request: req}
		}
	}
}

// appendOutput adds rendered lines to the scrollback.
func (m *Model) appendOutput(text string) {
	if text == "" {
		return
	}
	m.output = append(m.output, strings.Split(text, "\n")...)
	if over := len(m.output) - maxOutputLines; over > 0 {
		m.output = m.output[over:]
	}
	if m.ready {
		m.viewport.SetContent(strings.Join(m.output, "\n"))
		m.viewport.GotoBottom()
	}
}

// updateLayoutSizes resizes the output viewport to the window.
func (m *Model) updateLayoutSizes() {
	h := m.height - 4
	if h < 3 {
		h = 3
	}
	if !m.ready {
		m.viewport = viewport.New(m.width, h)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = h
	}
	m.input.Width = m.width - len(m.promptText()) - 1
	m.viewport.SetContent(strings.Join(m.output, "\n"))
	m.viewport.GotoBottom()
}
