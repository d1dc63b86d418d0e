package cli

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

//go:embed guide.md
var guideContent string

// guideWrap is the word wrap used when the terminal width is unknown.
const guideWrap = 80

// newGuideCommand creates the guide command.
func newGuideCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "guide",
		Short: "Show the input syntax guide",
		Long: `Show the guide to task lines, addressing and commands.

The guide is rendered as styled markdown on a terminal and printed raw otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if raw || !isTerminal(w) {
				_, _ = fmt.Fprint(w, guideContent)
				return nil
			}

			out, err := renderGuide(terminalWidth(w))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(w, out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without styling")

	return cmd
}

// renderGuide renders the guide for a terminal of the given width.
func renderGuide(width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(guideContent)
	if err != nil {
		return "", fmt.Errorf("render guide: %w", err)
	}
	return out, nil
}

func terminalWidth(v any) int {
	f, ok := v.(*os.File)
	if !ok {
		return guideWrap
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return guideWrap
	}
	return width
}
