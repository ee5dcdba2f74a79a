package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storyflow/storyflow/pkg/flow"
	"github.com/storyflow/storyflow/pkg/pipeline"
)

// layoutCommand creates the layout command for computing flow layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		selects []string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout <flow-id | flow.json>",
		Short: "Compute canvas positions for a dialog flow",
		Long: `Compute canvas positions for a dialog flow.

The layout command takes a flow id (resolved through the configured store)
or a path to a flow JSON file, arranges its modules on the canvas, and
writes the laid-out document as JSON. Manual anchors recorded on edges
override the grid placement.

Use --select to rearrange only part of the flow; everything outside the
selection keeps its position and is routed around.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, selects, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if a cached result exists")

	cmd.Flags().StringVar(&opts.RootHint, "root", "", "module id to place first")
	cmd.Flags().StringSliceVar(&selects, "select", nil, "module ids to rearrange (repeatable; others stay in place)")
	cmd.Flags().Float64Var(&opts.XSpacing, "x-spacing", 0, "horizontal spacing between columns (default 320)")
	cmd.Flags().Float64Var(&opts.YSpacing, "y-spacing", 0, "vertical spacing between rows (default 160)")
	cmd.Flags().Float64Var(&opts.OffsetX, "offset-x", 0, "canvas origin x offset (default 80)")
	cmd.Flags().Float64Var(&opts.OffsetY, "offset-y", 0, "canvas origin y offset (default 80)")

	return cmd
}

// runLayout resolves the input, runs the pipeline, and writes the result.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, selects []string, output string, noCache bool) error {
	if err := resolveFlowInput(input, &opts); err != nil {
		return err
	}
	opts.Selection = selects
	opts.Formats = []string{pipeline.FormatJSON}
	opts.Logger = loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = inputBase(input) + ".layout.json"
	}
	if err := os.WriteFile(outputPath, result.Artifacts[pipeline.FormatJSON], 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(result.Laid.Modules()), result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Render", "storyflow render "+outputPath)

	return nil
}

// resolveFlowInput fills opts with an inline flow read from a JSON file, or
// a flow id to be loaded from the store.
func resolveFlowInput(arg string, opts *pipeline.Options) error {
	if strings.HasSuffix(arg, ".json") {
		f, err := flow.ReadFlowFile(arg)
		if err != nil {
			return fmt.Errorf("load flow %s: %w", arg, err)
		}
		opts.Flow = f
		return nil
	}
	opts.FlowID = arg
	return nil
}

// inputBase returns the output filename stem for an input argument: the
// path without extension for files, the id itself otherwise.
func inputBase(arg string) string {
	if strings.HasSuffix(arg, ".json") {
		return strings.TrimSuffix(arg, filepath.Ext(arg))
	}
	return arg
}
