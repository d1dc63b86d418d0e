package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/della/internal/app"
	"github.com/runoshun/della/internal/usecase"
)

// newSyncCommand creates the sync command.
func newSyncCommand(c *app.Container) *cobra.Command {
	var pull, push bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize the task file with the remote copy",
		Long: `Synchronize the task file with the copy configured in [remote].

By default the copy with the newer save timestamp wins. --pull and --push
force a direction, overwriting whichever side is newer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pull && push {
				return errors.New("cannot use --pull and --push together")
			}
			direction := usecase.SyncAuto
			switch {
			case pull:
				direction = usecase.SyncPull
			case push:
				direction = usecase.SyncPush
			}

			out, err := c.SyncTasksUseCase().Execute(cmd.Context(), usecase.SyncTasksInput{Direction: direction})
			if err != nil {
				return err
			}
			if out.Action == usecase.SyncUpToDate {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", out.Remote)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", out.Action, out.Remote)
			return nil
		},
	}

	cmd.Flags().BoolVar(&pull, "pull", false, "Replace the local file with the remote copy")
	cmd.Flags().BoolVar(&push, "push", false, "Replace the remote copy with the local file")
	return cmd
}
