package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/della/internal/app"
	"github.com/runoshun/della/internal/usecase"
)

// shortHashLen is the number of hash characters shown in listings.
const shortHashLen = 7

// newHistoryCommand creates the history command.
func newHistoryCommand(c *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved snapshots of the task file",
		Long: `List the snapshots recorded each time the task file is saved, newest first.
History is kept in a git repository when [history] enabled is true.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListHistoryUseCase().Execute(cmd.Context(), usecase.ListHistoryInput{Limit: limit})
			if err != nil {
				return err
			}
			if len(out.Snapshots) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No snapshots found.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range out.Snapshots {
				hash := s.Hash
				if len(hash) > shortHashLen {
					hash = hash[:shortHashLen]
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", hash, s.Time.Local().Format("2006-01-02 15:04:05"), s.Message)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of snapshots (0 = all)")
	cmd.AddCommand(newRestoreCommand(c))
	return cmd
}

// newRestoreCommand creates the history restore subcommand.
func newRestoreCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <rev>",
		Short: "Replace the task file with a snapshot",
		Long: `Replace the task file with the snapshot at rev (a hash, a hash prefix or HEAD~N).
The restore itself is recorded as a new snapshot, so it can be undone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.RestoreHistoryUseCase().Execute(cmd.Context(), usecase.RestoreHistoryInput{Rev: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Restored %s (%d tasks)\n", args[0], out.Tasks)
			return nil
		},
	}
}
