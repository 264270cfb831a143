package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/serress/internal/engine"
	"github.com/roach88/serress/internal/label"
)

// ComputeOptions holds flags for the compute command.
type ComputeOptions struct {
	*RootOptions
	Width        int
	Height       int
	Fiber        string
	Base         string
	Total        string
	Name         string
	RightBounded bool
	UpperBounded bool
	Pages        string
	Trace        bool
	MaxSteps     int
}

// NewComputeCommand creates the compute command.
func NewComputeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ComputeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Propagate an ad-hoc sequence given on the command line",
		Long: `Create a width x height sequence, seed it from comma-separated label
lists and print the propagated pages.

Labels are Z, 0, ? (unknown), Z^n or a rank n. fiber[q] seeds E_2(0,q),
base[p] seeds E_2(p,0) and a 0 at total[k] zeroes every E_∞ cell with
p+q = k.

Examples:
  serress compute --width 3 --height 2 --fiber Z,Z --total Z,0,0,Z
  serress compute --width 4 --height 5 --base Z,0,0,Z --total Z,0,0,0,0,0,0,0 --upper-bounded=false`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Width, "width", 0, "number of columns (p = 0..width-1)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "number of rows (q = 0..height-1)")
	cmd.Flags().StringVar(&opts.Fiber, "fiber", "", "fiber column labels, e.g. Z,0,Z")
	cmd.Flags().StringVar(&opts.Base, "base", "", "base row labels")
	cmd.Flags().StringVar(&opts.Total, "total", "", "total-space labels by degree")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")
	cmd.Flags().BoolVar(&opts.RightBounded, "right-bounded", true, "cells right of the grid are zero (default from config)")
	cmd.Flags().BoolVar(&opts.UpperBounded, "upper-bounded", true, "cells above the grid are zero (default from config)")
	addOutputFlags(cmd, &opts.Pages, &opts.Trace, &opts.MaxSteps)
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")

	return cmd
}

func runCompute(opts *ComputeOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	pages, err := opts.pageSelection(opts.Pages)
	if err != nil {
		return formatter.Fail(err, nil)
	}

	var fiber, base, total []label.Label
	for _, in := range []struct {
		flag string
		text string
		dst  *[]label.Label
	}{
		{"fiber", opts.Fiber, &fiber},
		{"base", opts.Base, &base},
		{"total", opts.Total, &total},
	} {
		parsed, err := label.ParseList(in.text)
		if err != nil {
			return formatter.Fail(fmt.Errorf("--%s: %w", in.flag, err), nil)
		}
		*in.dst = parsed
	}

	bounds := engine.BoundaryPolicy{
		RightBounded: opts.Config.Bounds.Right,
		UpperBounded: opts.Config.Bounds.Upper,
	}
	if cmd.Flags().Changed("right-bounded") {
		bounds.RightBounded = opts.RightBounded
	}
	if cmd.Flags().Changed("upper-bounded") {
		bounds.UpperBounded = opts.UpperBounded
	}

	runID := opts.runIDs().Generate()
	formatter.RunID = runID
	logger := opts.logger().With("run_id", runID)
	logger.Info("computing", "width", opts.Width, "height", opts.Height,
		"right_bounded", bounds.RightBounded, "upper_bounded", bounds.UpperBounded)

	s, err := engine.NewSequence(opts.Width, opts.Height,
		engine.WithName(opts.Name),
		engine.WithBoundaryPolicy(bounds),
		engine.WithLogger(logger),
		engine.WithMaxSteps(opts.maxSteps(opts.MaxSteps)),
	)
	if err != nil {
		return formatter.Fail(err, nil)
	}

	err = s.SetFiber(fiber)
	if err == nil {
		err = s.SetBase(base)
	}
	if err == nil {
		err = s.SetTotal(total)
	}
	return present(formatter, cmd.OutOrStdout(), s, pages, opts.Trace, err)
}
