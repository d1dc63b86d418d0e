// Package cli provides the command-line interface for della.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/della/internal/app"
)

// Command group IDs.
const (
	groupTask    = "task"
	groupSession = "session"
	groupSetup   = "setup"
)

// ConfigFlag is the persistent flag selecting the config file.
// main reads it before the container is built.
const ConfigFlag = "config"

// NewRootCommand creates the root command for della.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var plain bool

	root := &cobra.Command{
		Use:   "della [line...]",
		Short: "Hierarchical task manager for the terminal",
		Long: `della keeps a tree of tasks in a single file.

With arguments, the arguments are run as one input line and the file is saved:

  della buy milk tomorrow          add a task due tomorrow
  della '#work' write report       add a subtask under work
  della @ls '#work'                show a subtree
  della @rm '#work/report'         delete after confirmation

Without arguments, an interactive session is started (see "della shell").
Run "della guide" for the full input syntax.`,
		Version: version,
		Args:    cobra.ArbitraryArgs,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}
			writeWarnings(cmd.ErrOrStderr(), c.Config.Warnings)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if c == nil {
				return fmt.Errorf("della is not configured")
			}
			if len(args) == 0 {
				return startShell(cmd, c, plain)
			}
			prompter := newLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			return runOneShot(cmd.Context(), c, cmd.OutOrStdout(), cmd.ErrOrStderr(), prompter, strings.Join(args, " "))
		},
	}

	root.PersistentFlags().String(ConfigFlag, "", "Config file (default $XDG_CONFIG_HOME/della/config.toml)")
	root.Flags().BoolVar(&plain, "plain", false, "Use the line-oriented shell even on a terminal")
	// Words after the first argument belong to the line, even if they look like flags
	root.Flags().SetInterspersed(false)

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
		&cobra.Group{ID: groupSession, Title: "Session Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	// Task commands
	addCmd := newAddCommand(c)
	addCmd.GroupID = groupTask

	lsCmd := newLsCommand(c)
	lsCmd.GroupID = groupTask

	treeCmd := newTreeCommand(c)
	treeCmd.GroupID = groupTask

	rmCmd := newRmCommand(c)
	rmCmd.GroupID = groupTask

	mvCmd := newMvCommand(c)
	mvCmd.GroupID = groupTask

	editCmd := newEditCommand(c)
	editCmd.GroupID = groupTask

	idCmd := newIDCommand(c)
	idCmd.GroupID = groupTask

	findCmd := newFindCommand(c)
	findCmd.GroupID = groupTask

	// Session commands
	shellCmd := newShellCommand(c)
	shellCmd.GroupID = groupSession

	syncCmd := newSyncCommand(c)
	syncCmd.GroupID = groupSession

	historyCmd := newHistoryCommand(c)
	historyCmd.GroupID = groupSession

	// Setup commands
	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	guideCmd := newGuideCommand()
	guideCmd.GroupID = groupSetup

	root.AddCommand(
		addCmd,
		lsCmd,
		treeCmd,
		rmCmd,
		mvCmd,
		editCmd,
		idCmd,
		findCmd,
		shellCmd,
		syncCmd,
		historyCmd,
		configCmd,
		guideCmd,
	)

	return root
}
