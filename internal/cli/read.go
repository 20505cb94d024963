package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jpl-au/docfile"
)

// NewGetCommand prints the value stored under a key.
func NewGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the value stored under KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			v, err := db.Find(args[0])
			if errors.Is(err, docfile.ErrNotFound) {
				return WrapExitError(ExitFailure, "get", err)
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "get", err)
			}
			return opts.formatter(cmd).Print(v)
		},
	}
}

// NewHasCommand reports whether a key is present. It exits with
// ExitFailure when the key is absent.
func NewHasCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "has KEY",
		Short: "Report whether KEY exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			ok, err := db.Contains(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "has", err)
			}
			if err := opts.formatter(cmd).Print(ok); err != nil {
				return err
			}
			if !ok {
				return NewExitError(ExitFailure, "key "+args[0]+" does not exist")
			}
			return nil
		},
	}
}

// NewLenCommand prints the number of top-level entries.
func NewLenCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "len",
		Short: "Print the number of top-level entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := db.Len()
			if err != nil {
				return WrapExitError(ExitCommandError, "len", err)
			}
			return opts.formatter(cmd).Print(n)
		},
	}
}

// NewDumpCommand prints the whole document.
func NewDumpCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the whole document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			t, err := db.Tree()
			if err != nil {
				return WrapExitError(ExitCommandError, "dump", err)
			}
			return opts.formatter(cmd).Print(t)
		},
	}
}

// NewFingerprintCommand prints the content hash of the document.
func NewFingerprintCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print a content hash of the document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			fp, err := db.Fingerprint()
			if err != nil {
				return WrapExitError(ExitCommandError, "fingerprint", err)
			}
			return opts.formatter(cmd).Print(fp)
		},
	}
}
