package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jpl-au/docfile"
)

// mutation opens the database, applies fn and closes it again. Every
// docfile mutation commits on its own, so there is nothing to flush.
func mutation(opts *RootOptions, name string, args cobra.PositionalArgs, fn func(db *docfile.Database, args []string) error) *cobra.Command {
	return &cobra.Command{
		Args: args,
		RunE: func(cmd *cobra.Command, argv []string) error {
			db, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := fn(db, argv); err != nil {
				return WrapExitError(ExitCommandError, name, err)
			}
			return nil
		},
	}
}

// NewSetCommand stores a string.
func NewSetCommand(opts *RootOptions) *cobra.Command {
	cmd := mutation(opts, "set", cobra.ExactArgs(2), func(db *docfile.Database, args []string) error {
		return db.Insert(args[0], args[1])
	})
	cmd.Use = "set KEY VALUE"
	cmd.Short = "Store a string under KEY"
	return cmd
}

// NewSetNumberCommand stores an unsigned integer.
func NewSetNumberCommand(opts *RootOptions) *cobra.Command {
	cmd := mutation(opts, "set-number", cobra.ExactArgs(2), func(db *docfile.Database, args []string) error {
		n, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return err
		}
		return db.InsertNumber(args[0], n)
	})
	cmd.Use = "set-number KEY N"
	cmd.Short = "Store an unsigned integer under KEY"
	return cmd
}

// NewSetBoolCommand stores a boolean.
func NewSetBoolCommand(opts *RootOptions) *cobra.Command {
	cmd := mutation(opts, "set-bool", cobra.ExactArgs(2), func(db *docfile.Database, args []string) error {
		b, err := strconv.ParseBool(args[1])
		if err != nil {
			return err
		}
		return db.InsertBool(args[0], b)
	})
	cmd.Use = "set-bool KEY true|false"
	cmd.Short = "Store a boolean under KEY"
	return cmd
}

// NewSetArrayCommand stores the remaining arguments as a string array.
func NewSetArrayCommand(opts *RootOptions) *cobra.Command {
	cmd := mutation(opts, "set-array", cobra.MinimumNArgs(1), func(db *docfile.Database, args []string) error {
		return db.InsertArray(args[0], args[1:])
	})
	cmd.Use = "set-array KEY [ITEM...]"
	cmd.Short = "Store a string array under KEY"
	return cmd
}

// NewSetTreeCommand parses a JSON object and stores it as a sub-document.
func NewSetTreeCommand(opts *RootOptions) *cobra.Command {
	cmd := mutation(opts, "set-tree", cobra.ExactArgs(2), func(db *docfile.Database, args []string) error {
		t, err := docfile.ParseTree([]byte(args[1]))
		if err != nil {
			return err
		}
		return db.InsertTree(args[0], t)
	})
	cmd.Use = "set-tree KEY JSON"
	cmd.Short = "Store a JSON object under KEY"
	return cmd
}

// NewRemoveCommand deletes a key. Removing an absent key succeeds.
func NewRemoveCommand(opts *RootOptions) *cobra.Command {
	cmd := mutation(opts, "rm", cobra.ExactArgs(1), func(db *docfile.Database, args []string) error {
		return db.Remove(args[0])
	})
	cmd.Use = "rm KEY"
	cmd.Short = "Remove KEY"
	return cmd
}
