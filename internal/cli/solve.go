package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/serress/internal/config"
	"github.com/roach88/serress/internal/engine"
	"github.com/roach88/serress/internal/render"
)

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	CatalogDir string
	Pages      string // "all" | "terminal"; empty means the configured value
	Trace      bool
	MaxSteps   int
}

// SolveResult is the JSON payload of solve and compute.
type SolveResult struct {
	render.SequenceSnapshot
	Trace []TraceEntry `json:"trace,omitempty"`
}

// TraceEntry is one deduction in JSON output.
type TraceEntry struct {
	Seq   int64  `json:"seq"`
	Cell  string `json:"cell"`
	Label string `json:"label"`
	Rule  string `json:"rule"`
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solve <example>",
		Short: "Propagate a named example and print its pages",
		Long: `Build a catalog example, propagate its seeds to a fixpoint and print
every page (or only E_∞ with --pages terminal).

The example is matched by key or by display name, ignoring case.

Exit codes:
  0 - Propagation finished
  1 - The seeds contradict each other
  2 - Command error (unknown example, bad catalog, etc.)

Examples:
  serress solve hopf
  serress solve cp2 --pages terminal --trace
  serress solve "S^1 → S^3 → S^2" --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, args[0], cmd)
		},
	}

	addOutputFlags(cmd, &opts.Pages, &opts.Trace, &opts.MaxSteps)
	cmd.Flags().StringVar(&opts.CatalogDir, "catalog", "", "directory of extra CUE examples")

	return cmd
}

func addOutputFlags(cmd *cobra.Command, pages *string, trace *bool, maxSteps *int) {
	cmd.Flags().StringVar(pages, "pages", "", "pages to print (all|terminal); defaults to the config value")
	cmd.Flags().BoolVar(trace, "trace", false, "print the deduction log")
	cmd.Flags().IntVar(maxSteps, "max-steps", 0, "propagation step budget (0 = engine default)")
}

func runSolve(opts *SolveOptions, name string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	pages, err := opts.pageSelection(opts.Pages)
	if err != nil {
		return formatter.Fail(err, nil)
	}

	cat, err := opts.loadCatalog(formatter, opts.CatalogDir)
	if err != nil {
		return formatter.Fail(err, nil)
	}
	ex, err := cat.Lookup(name)
	if err != nil {
		return formatter.Fail(err, map[string]any{"available": exampleKeys(summarize(cat))})
	}

	runID := opts.runIDs().Generate()
	formatter.RunID = runID
	logger := opts.logger().With("run_id", runID)
	logger.Info("solving example", "example", ex.Key, "width", ex.Width, "height", ex.Height)

	s, err := ex.Build(
		engine.WithLogger(logger),
		engine.WithMaxSteps(opts.maxSteps(opts.MaxSteps)),
	)
	if s == nil {
		return formatter.Fail(err, nil)
	}
	return present(formatter, cmd.OutOrStdout(), s, pages, opts.Trace, err)
}

func exampleKeys(summaries []ExampleSummary) []string {
	keys := make([]string, len(summaries))
	for i, s := range summaries {
		keys[i] = s.Key
	}
	return keys
}

// pageSelection resolves the --pages flag against the config.
func (opts *RootOptions) pageSelection(flag string) (string, error) {
	pages := flag
	if pages == "" {
		pages = opts.Config.Pages
	}
	switch pages {
	case "", config.PagesAll:
		return config.PagesAll, nil
	case config.PagesTerminal:
		return pages, nil
	default:
		return "", NewExitError(ExitCommandError,
			fmt.Sprintf("invalid --pages %q: must be %s or %s", pages, config.PagesAll, config.PagesTerminal))
	}
}

func (opts *RootOptions) maxSteps(flag int) int {
	if flag > 0 {
		return flag
	}
	return opts.Config.MaxSteps
}

// present writes the propagated sequence. runErr is the error propagation
// stopped on, if any; a Conflict still prints the pages reached so far.
func present(formatter *OutputFormatter, w io.Writer, s *engine.Sequence, pages string, trace bool, runErr error) error {
	terminalOnly := pages == config.PagesTerminal

	if formatter.Format == "json" {
		result := SolveResult{SequenceSnapshot: render.Snapshot(s, terminalOnly)}
		if trace {
			result.Trace = traceEntries(s.Deductions())
		}
		if runErr != nil {
			return formatter.Fail(runErr, result)
		}
		return formatter.Success(result)
	}

	if terminalOnly {
		fmt.Fprint(w, render.Terminal(s))
	} else {
		fmt.Fprint(w, render.Sequence(s))
	}
	if trace {
		fmt.Fprintf(w, "\nDeductions\n%s", render.Deductions(s.Deductions()))
	}
	if runErr != nil {
		fmt.Fprintln(w)
		return formatter.Fail(runErr, nil)
	}
	if open := undetermined(s); open > 0 {
		fmt.Fprintf(w, "\n%d cell(s) remain undetermined\n", open)
	}
	return nil
}

func traceEntries(log []engine.Deduction) []TraceEntry {
	out := make([]TraceEntry, len(log))
	for i, d := range log {
		out[i] = TraceEntry{
			Seq:   d.Seq,
			Cell:  d.Coord.String(),
			Label: d.Label.Display(),
			Rule:  string(d.Rule),
		}
	}
	return out
}

func undetermined(s *engine.Sequence) int {
	n := 0
	for _, pg := range s.Pages() {
		n += pg.Width()*pg.Height() - pg.Determined()
	}
	return n
}
