package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jpl-au/docfile"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DB      string
	Format  string // "text" | "json" | "yaml"
	Verbose bool
	Atomic  bool
	Sync    bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the docfile CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "docfile",
		Short:         "Inspect and edit a docfile database",
		Long:          "Read and write keys in a single-file JSON document store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown command %q for %q", args[0], cmd.CommandPath()))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "path to the database file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log commits to stderr")
	cmd.PersistentFlags().BoolVar(&opts.Atomic, "atomic", false, "commit through a staging file")
	cmd.PersistentFlags().BoolVar(&opts.Sync, "sync", false, "fsync after every commit")

	// Add subcommands
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewHasCommand(opts))
	cmd.AddCommand(NewLenCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewFingerprintCommand(opts))
	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewSetNumberCommand(opts))
	cmd.AddCommand(NewSetBoolCommand(opts))
	cmd.AddCommand(NewSetArrayCommand(opts))
	cmd.AddCommand(NewSetTreeCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))

	// Usage mistakes exit with ExitCommandError, never with the
	// not-found code.
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, c.CommandPath(), err)
	})
	for _, sub := range cmd.Commands() {
		if sub.Args != nil {
			sub.Args = usageArgs(sub.Args)
		}
	}

	return cmd
}

// usageArgs reports argument validation failures as command errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, cmd.CommandPath(), err)
		}
		return nil
	}
}

// open loads the database named by --db.
func (o *RootOptions) open(cmd *cobra.Command) (*docfile.Database, error) {
	if o.DB == "" {
		return nil, NewExitError(ExitCommandError, "--db is required")
	}

	logger := slog.New(slog.DiscardHandler)
	if o.Verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	db, err := docfile.Open(o.DB, docfile.Config{
		Logger:       logger,
		AtomicWrites: o.Atomic,
		SyncWrites:   o.Sync,
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return db, nil
}

// formatter returns an OutputFormatter bound to the command's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format: o.Format,
		Writer: cmd.OutOrStdout(),
	}
}
