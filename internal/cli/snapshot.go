package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewSnapshotCommand writes a compressed snapshot of the document.
func NewSnapshotCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot FILE",
		Short: "Write a zstd-compressed snapshot to FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			out, err := os.Create(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "snapshot", err)
			}
			if err := db.Snapshot(out); err != nil {
				out.Close()
				return WrapExitError(ExitCommandError, "snapshot", err)
			}
			if err := out.Close(); err != nil {
				return WrapExitError(ExitCommandError, "snapshot", err)
			}
			return nil
		},
	}
}
