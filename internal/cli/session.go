package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/runoshun/della/internal/app"
	"github.com/runoshun/della/internal/domain"
	"github.com/runoshun/della/internal/tui"
	"github.com/runoshun/della/internal/usecase"
)

// openSession loads the task file and returns the remote warnings.
func openSession(ctx context.Context, c *app.Container, lock bool) (*usecase.Session, []string, error) {
	out, err := c.OpenSessionUseCase().Execute(ctx, usecase.OpenSessionInput{
		DeletePolicy: c.DeletePolicy(),
		Lock:         lock,
	})
	if err != nil {
		return nil, nil, err
	}
	if out.Pulled {
		out.Warnings = append(out.Warnings, "loaded newer copy from "+out.Session.Source)
	}
	return out.Session, out.Warnings, nil
}

// closeSession saves a dirty session and reports what happened.
// It uses a fresh context so that an interrupted session still saves.
func closeSession(c *app.Container, session *usecase.Session, errW io.Writer, message string) error {
	out, err := c.CloseSessionUseCase().Execute(context.Background(), usecase.CloseSessionInput{
		Session: session,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	writeWarnings(errW, out.Warnings)
	return nil
}

// runOneShot executes a single line against a fresh session and saves it.
func runOneShot(ctx context.Context, c *app.Container, w, errW io.Writer, prompter domain.Prompter, line string) error {
	session, warnings, err := openSession(ctx, c, true)
	if err != nil {
		return err
	}
	writeWarnings(errW, warnings)

	out, runErr := c.RunLineUseCase(prompter).Execute(ctx, usecase.RunLineInput{Session: session, Line: line})
	if runErr == nil {
		printOutput(w, c, out)
	}
	if err := closeSession(c, session, errW, line); err != nil {
		return err
	}
	return runErr
}

// printOutput writes a finished line as plain text.
func printOutput(w io.Writer, c *app.Container, out *usecase.RunLineOutput) {
	style := tui.NewTreeStyle(c.Config, domain.DateOf(c.Clock.Now()))
	for _, msg := range out.Messages {
		_, _ = fmt.Fprintln(w, msg)
	}
	if out.Listed != nil {
		_, _ = fmt.Fprintln(w, tui.RenderTree(out.Listed, style))
	}
	if len(out.Matches) > 0 {
		_, _ = fmt.Fprintln(w, tui.RenderMatches(out.Matches, style))
	}
	if len(out.Commands) > 0 {
		_, _ = fmt.Fprintln(w, tui.RenderCommands(out.Commands))
	}
}

func writeWarnings(w io.Writer, warnings []string) {
	for _, warning := range warnings {
		_, _ = fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}

// isTerminal reports whether v is a terminal file.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
