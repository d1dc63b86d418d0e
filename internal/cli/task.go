package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/della/internal/app"
	"github.com/runoshun/della/internal/domain"
)

// targetToken turns a command-line target into a '#' address token.
func targetToken(arg string) string {
	if strings.HasPrefix(arg, domain.IDMarker) {
		return arg
	}
	return domain.IDMarker + arg
}

// runLineCmd runs line as a one-shot session for cmd.
func runLineCmd(cmd *cobra.Command, c *app.Container, line string, assumeYes bool) error {
	prompter := newLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	prompter.assumeYes = assumeYes
	return runOneShot(cmd.Context(), c, cmd.OutOrStdout(), cmd.ErrOrStderr(), prompter, line)
}

func joinLine(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// newAddCommand creates the add command.
func newAddCommand(c *app.Container) *cobra.Command {
	var under, due string

	cmd := &cobra.Command{
		Use:   "add <content...>",
		Short: "Add a task",
		Long: `Add a task under the root, or under --under.

A date expression anywhere in the content sets the due date; --due is
appended to the content and therefore wins over earlier expressions.`,
		Example: `  della add buy milk tomorrow
  della add --under work write report --due "next friday"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target string
			if under != "" {
				target = targetToken(under)
			}
			content := strings.Join(args, " ")
			if strings.HasPrefix(content, domain.CommandMarker) {
				return fmt.Errorf("%w: content cannot start with %q", domain.ErrValidation, domain.CommandMarker)
			}
			return runLineCmd(cmd, c, joinLine(target, content, due), false)
		},
	}

	cmd.Flags().StringVarP(&under, "under", "u", "", "Parent task address")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date expression")
	return cmd
}

// newLsCommand creates the ls command.
func newLsCommand(c *app.Container) *cobra.Command {
	var ids bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List task paths",
		Long:  `List the absolute path of every task, one per line, in display order.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, warnings, err := openSession(cmd.Context(), c, false)
			if err != nil {
				return err
			}
			writeWarnings(cmd.ErrOrStderr(), warnings)

			w := cmd.OutOrStdout()
			session.Tree.Walk(func(task *domain.Task, _ int) bool {
				if task.IsRoot() {
					return true
				}
				line := "/" + task.Path()
				if ids && task.UniqueID() != "" {
					line += "\t" + domain.IDMarker + domain.IDMarker + task.UniqueID()
				}
				_, _ = fmt.Fprintln(w, line)
				return true
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&ids, "ids", false, "Show unique ids")
	return cmd
}

// newTreeCommand creates the tree command.
func newTreeCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [task]",
		Short: "Show a subtree",
		Long:  `Show a task and its descendants, numbered and indented. Without an argument the whole tree is shown.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := "@ls"
			if len(args) == 1 {
				line = joinLine(line, targetToken(args[0]))
			}
			return runLineCmd(cmd, c, line, false)
		},
	}
}

// newRmCommand creates the rm command.
func newRmCommand(c *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <task>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Long: `Delete a task after confirmation. Its descendants are deleted too, or lifted
to its parent when [tasks] delete_policy is "reparent".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLineCmd(cmd, c, joinLine("@rm", targetToken(args[0])), yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// newMvCommand creates the mv command.
func newMvCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <task> [destination]",
		Short: "Move a task under another task",
		Long:  `Move a task (with its subtree) under destination, or under the root when destination is omitted.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := domain.AbsoluteMarker
			if len(args) == 2 {
				dest = args[1]
			}
			return runLineCmd(cmd, c, joinLine("@mv", targetToken(args[0]), dest), false)
		},
	}
}

// newEditCommand creates the edit command.
func newEditCommand(c *app.Container) *cobra.Command {
	var due string

	cmd := &cobra.Command{
		Use:   "edit <task> [content...]",
		Short: "Change the content or due date of a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLineCmd(cmd, c, joinLine("@edit", targetToken(args[0]), strings.Join(args[1:], " "), due), false)
		},
	}

	cmd.Flags().StringVarP(&due, "due", "d", "", "New due date expression")
	return cmd
}

// newIDCommand creates the id command.
func newIDCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "id <task> [id]",
		Short: "Assign a unique id to a task",
		Long: `Assign a unique id so the task can be addressed as ##id from anywhere.
Without an id a short random one is generated.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := joinLine("@id", targetToken(args[0]))
			if len(args) == 2 {
				line = joinLine(line, args[1])
			}
			return runLineCmd(cmd, c, line, false)
		},
	}
}

// newFindCommand creates the find command.
func newFindCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "find <keyword...>",
		Aliases: []string{"search"},
		Short:   "Find tasks whose path ends with keyword",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLineCmd(cmd, c, joinLine("@find", strings.Join(args, " ")), false)
		},
	}
}
