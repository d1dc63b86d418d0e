package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/della/internal/domain"
	"github.com/runoshun/della/internal/tui"
)

// Ensure linePrompter implements domain.Prompter.
var _ domain.Prompter = (*linePrompter)(nil)

// linePrompter asks questions on a plain line-oriented terminal or pipe.
type linePrompter struct {
	in        *bufio.Reader
	out       io.Writer
	warn      lipgloss.Style
	assumeYes bool // Confirm deletes without asking
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	r, ok := in.(*bufio.Reader)
	if !ok {
		r = bufio.NewReader(in)
	}
	return &linePrompter{
		in:   r,
		out:  out,
		warn: lipgloss.NewStyle().Foreground(tui.Colors.Error),
	}
}

func (p *linePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ChooseTask prints the candidates and reads a 1-based number.
func (p *linePrompter) ChooseTask(candidates []*domain.Task) (*domain.Task, error) {
	_, _ = fmt.Fprintln(p.out, p.warn.Render("Multiple matches! Input the number of the target, or anything else to cancel"))
	for i, t := range candidates {
		_, _ = fmt.Fprintf(p.out, "%d. /%s\n", i+1, t.Path())
	}
	answer, err := p.readLine()
	if err != nil {
		return nil, domain.ErrNoChoice
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(candidates) {
		return nil, domain.ErrNoChoice
	}
	return candidates[n-1], nil
}

// ConfirmDelete asks a y/n question. Anything but an answer starting with "y" keeps the task.
func (p *linePrompter) ConfirmDelete(task *domain.Task, descendants int) (bool, error) {
	if p.assumeYes {
		return true, nil
	}
	question := fmt.Sprintf("Are you sure you want to delete '/%s'?", task.Path())
	if descendants > 0 {
		question += fmt.Sprintf("\nIt has %d subtasks that will also be deleted.", descendants)
	}
	_, _ = fmt.Fprint(p.out, p.warn.Render(question)+" (y/n) ")
	answer, err := p.readLine()
	if err != nil {
		return false, nil
	}
	return strings.HasPrefix(strings.ToLower(answer), "y"), nil
}
