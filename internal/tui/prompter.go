package tui

import (
	"sync"

	"github.com/runoshun/della/internal/domain"
)

// Ensure Prompter implements domain.Prompter.
var _ domain.Prompter = (*Prompter)(nil)

// PromptKind distinguishes the questions a running line can ask.
type PromptKind int

// Prompt kinds.
const (
	PromptChoose PromptKind = iota
	PromptConfirm
)

// PromptRequest is a question from a running line to the UI.
// Exactly one of Choose, Cancel or Confirm must be called to answer it.
// Fields are ordered to minimize memory padding.
type PromptRequest struct {
	Candidates  []*domain.Task // PromptChoose
	Task        *domain.Task   // PromptConfirm
	reply       chan promptReply
	Descendants int // PromptConfirm
	Kind        PromptKind
}

type promptReply struct {
	index int
	ok    bool
}

// Choose answers a PromptChoose request with the candidate at index.
func (r *PromptRequest) Choose(index int) {
	r.reply <- promptReply{index: index, ok: index >= 0 && index < len(r.Candidates)}
}

// Cancel answers a PromptChoose request with no choice.
func (r *PromptRequest) Cancel() {
	r.reply <- promptReply{index: -1}
}

// Confirm answers a PromptConfirm request.
func (r *PromptRequest) Confirm(ok bool) {
	r.reply <- promptReply{ok: ok}
}

// Prompter forwards questions from the line executor to the UI goroutine.
// The executor blocks until the UI answers.
type Prompter struct {
	requests chan *PromptRequest
	closed   chan struct{}
	once     sync.Once
}

// NewPrompter creates a Prompter.
func NewPrompter() *Prompter {
	return &Prompter{
		requests: make(chan *PromptRequest),
		closed:   make(chan struct{}),
	}
}

// Close answers every pending and future question with "no" once the UI is gone.
func (p *Prompter) Close() {
	p.once.Do(func() { close(p.closed) })
}

// Requests returns the channel the UI reads questions from.
func (p *Prompter) Requests() <-chan *PromptRequest {
	return p.requests
}

// ChooseTask asks the UI to pick one of candidates.
func (p *Prompter) ChooseTask(candidates []*domain.Task) (*domain.Task, error) {
	r := p.ask(&PromptRequest{Kind: PromptChoose, Candidates: candidates})
	if !r.ok {
		return nil, domain.ErrNoChoice
	}
	return candidates[r.index], nil
}

// ConfirmDelete asks the UI whether task may be deleted.
func (p *Prompter) ConfirmDelete(task *domain.Task, descendants int) (bool, error) {
	r := p.ask(&PromptRequest{Kind: PromptConfirm, Task: task, Descendants: descendants})
	return r.ok, nil
}

func (p *Prompter) ask(req *PromptRequest) promptReply {
	req.reply = make(chan promptReply, 1)
	select {
	case p.requests <- req:
	case <-p.closed:
		return promptReply{index: -1}
	}
	select {
	case r := <-req.reply:
		return r
	case <-p.closed:
		return promptReply{index: -1}
	}
}
