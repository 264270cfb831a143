package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/serress/internal/catalog"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	CatalogDir string
}

// ExampleSummary is one catalog entry in list output.
type ExampleSummary struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	RightBound  bool   `json:"right_bounded"`
	UpperBound  bool   `json:"upper_bounded"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List named examples",
		Long: `List the built-in examples, plus those of --catalog (or catalog_dir
in the config file). Entries of the extra directory replace built-ins
with the same key.

Examples:
  serress list
  serress list --catalog ./examples --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.CatalogDir, "catalog", "", "directory of extra CUE examples")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cat, err := opts.loadCatalog(formatter, opts.CatalogDir)
	if err != nil {
		return formatter.Fail(err, nil)
	}

	summaries := summarize(cat)
	if opts.Format == "json" {
		return formatter.Success(summaries)
	}

	w := cmd.OutOrStdout()
	keyWidth := 0
	for _, s := range summaries {
		keyWidth = max(keyWidth, len(s.Key))
	}
	for _, s := range summaries {
		fmt.Fprintf(w, "%-*s  %-5s  %s\n", keyWidth, s.Key, fmt.Sprintf("%dx%d", s.Width, s.Height), s.Name)
		if opts.Verbose && s.Description != "" {
			fmt.Fprintf(w, "%s  %s\n", strings.Repeat(" ", keyWidth+7), s.Description)
		}
	}
	return nil
}

func summarize(cat *catalog.Catalog) []ExampleSummary {
	examples := cat.Examples()
	out := make([]ExampleSummary, len(examples))
	for i, ex := range examples {
		out[i] = ExampleSummary{
			Key:         ex.Key,
			Name:        ex.Name,
			Description: ex.Description,
			Width:       ex.Width,
			Height:      ex.Height,
			RightBound:  ex.Bounds.Right,
			UpperBound:  ex.Bounds.Upper,
		}
	}
	return out
}
