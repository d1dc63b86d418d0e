package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/runoshun/della/internal/app"
	"github.com/runoshun/della/internal/tui"
	"github.com/runoshun/della/internal/usecase"
)

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// newShellCommand creates the shell command.
func newShellCommand(c *app.Container) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Long: `Start an interactive session. Each line is parsed like a one-shot
invocation: free text adds a task, #path picks a target, @command runs a
command and a trailing date expression sets the due date.

The full-screen interface is used when stdin is a terminal; otherwise (or
with --plain) lines are read one by one, which is suitable for pipes.
The task file is saved when the session ends, including on Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return startShell(cmd, c, plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Use the line-oriented shell even on a terminal")
	return cmd
}

// startShell picks the TUI or the line shell.
func startShell(cmd *cobra.Command, c *app.Container, plain bool) error {
	if !plain && isTerminal(cmd.InOrStdin()) && isTerminal(cmd.OutOrStdout()) {
		return launchTUIFunc(cmd.Context(), c)
	}
	return runLineShell(cmd.Context(), c, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// launchTUI runs the full-screen session and saves it afterwards.
func launchTUI(ctx context.Context, c *app.Container) error {
	session, warnings, err := openSession(ctx, c, true)
	if err != nil {
		return err
	}

	model := tui.New(c, session, warnings)
	p := tea.NewProgram(model, tea.WithContext(ctx))
	_, runErr := p.Run()
	model.Wait()

	if err := closeSession(c, session, io.Discard, ""); err != nil {
		return err
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return runErr
	}
	return nil
}

// runLineShell reads lines from in until EOF, @q or cancellation of ctx.
// The session is saved in every case.
func runLineShell(ctx context.Context, c *app.Container, in io.Reader, w, errW io.Writer) (err error) {
	session, warnings, err := openSession(ctx, c, true)
	if err != nil {
		return err
	}
	writeWarnings(errW, warnings)
	defer func() {
		if cerr := closeSession(c, session, errW, ""); cerr != nil && err == nil {
			err = cerr
		}
	}()

	reader := bufio.NewReader(in)
	prompter := newLinePrompter(reader, w)
	runLine := c.RunLineUseCase(prompter)
	promptStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Config.Prompt.Color))
	errStyle := lipgloss.NewStyle().Foreground(tui.Colors.Error)

	lines := make(chan string, 1)
	readErr := make(chan error, 1)
	next := make(chan struct{})
	go func() {
		for range next {
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				readErr <- err
				return
			}
			lines <- strings.TrimRight(line, "\r\n")
		}
	}()
	defer close(next)

	for {
		_, _ = fmt.Fprint(w, promptStyle.Render(usecase.DisplayPath(session.Tree.Context())+c.Config.Prompt.Text))
		next <- struct{}{}

		var line string
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(w)
			return nil
		case rerr := <-readErr:
			_, _ = fmt.Fprintln(w)
			if errors.Is(rerr, io.EOF) {
				return nil
			}
			return rerr
		case line = <-lines:
		}

		out, err := runLine.Execute(ctx, usecase.RunLineInput{Session: session, Line: line})
		if err != nil {
			_, _ = fmt.Fprintln(w, errStyle.Render("error: "+err.Error()))
			continue
		}
		printOutput(w, c, out)
		if out.Quit {
			return nil
		}
	}
}
