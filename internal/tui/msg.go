package tui

import "github.com/runoshun/della/internal/usecase"

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgLineDone is sent when a submitted line has finished executing.
type MsgLineDone struct {
	Output *usecase.RunLineOutput
	Err    error
}

func (MsgLineDone) sealed() {}

// MsgPrompt is sent when the running line asks a question.
type MsgPrompt struct {
	Request *PromptRequest
}

func (MsgPrompt) sealed() {}

// MsgNotice adds informational lines (such as session warnings) to the output.
type MsgNotice struct {
	Lines []string
	Warn  bool
}

func (MsgNotice) sealed() {}

// Ensure all message types implement Msg.
var (
	_ Msg = MsgLineDone{}
	_ Msg = MsgPrompt{}
	_ Msg = MsgNotice{}
)
