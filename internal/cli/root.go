package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/serress/internal/catalog"
	"github.com/roach88/serress/internal/config"
)

// RootOptions holds global flags and state shared by all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Config is the loaded configuration; Default() until PersistentPreRunE runs.
	Config config.Config

	// Logger is set up by PersistentPreRunE. Commands built on their own
	// (as in tests) fall back to a discarding logger.
	Logger *slog.Logger

	// RunIDs overrides the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs RunIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the serress CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{Config: config.Default()})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serress",
		Short: "serress - spectral sequence constraint solver",
		Long: `Propagate partial knowledge through the pages of a first-quadrant
cohomological spectral sequence.

Seed the fiber column, the base row and the total-space cohomology; serress
fills in every entry it can prove and reports contradictions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a TOML config file")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewSolveCommand(opts))
	cmd.AddCommand(NewComputeCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// setup loads the config file, applies it under explicit flags, and
// installs the logger.
func (opts *RootOptions) setup(cmd *cobra.Command) error {
	if opts.ConfigPath != "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
		opts.Config = cfg
		opts.formatter(cmd).VerboseLog("Loaded config %s", opts.ConfigPath)
	}

	if !cmd.Flags().Changed("format") && opts.Config.Format != "" {
		opts.Format = opts.Config.Format
	}
	if !isValidFormat(opts.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

func (opts *RootOptions) logger() *slog.Logger {
	if opts.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return opts.Logger
}

func (opts *RootOptions) runIDs() RunIDGenerator {
	if opts.RunIDs == nil {
		return UUIDv7Generator{}
	}
	return opts.RunIDs
}

func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// loadCatalog returns the built-in examples merged with dir, or with the
// configured catalog_dir when dir is empty.
func (opts *RootOptions) loadCatalog(formatter *OutputFormatter, dir string) (*catalog.Catalog, error) {
	cat, err := catalog.Builtin()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = opts.Config.CatalogDir
	}
	if dir == "" {
		formatter.VerboseLog("Using %d built-in example(s)", cat.Len())
		return cat, nil
	}
	formatter.VerboseLog("Loading examples from %s", dir)
	extra, err := catalog.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	opts.logger().Debug("loaded example directory", "dir", dir, "examples", extra.Len())
	return cat.Merge(extra), nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// Execute runs the root command with args and returns the process exit code.
// Errors not already written by a command are printed to stderr.
func Execute(cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	if !isReported(err) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// cobra argument and flag errors
		err = WrapExitError(ExitCommandError, err.Error(), err)
	}
	return GetExitCode(err)
}
