package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/storyflow/storyflow/pkg/pipeline"
)

// renderCommand creates the render command for producing image artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render <flow-id | flow.json>",
		Short: "Render a dialog flow as SVG, PNG, or DOT",
		Long: `Render a dialog flow as SVG, PNG, or DOT.

The render command lays out the flow (reusing cached layouts when
available) and produces one output file per requested format. Output
slots are drawn collapsed into their parent module, with the slot label
on the outgoing edge.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formats, pipeline.FormatSVG)
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file stem (default: input name)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "comma-separated formats: svg (default), png, dot, json")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render even if a cached artifact exists")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "annotate modules with their canvas coordinates")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "coordinate scale factor (default 1.0)")

	cmd.Flags().StringVar(&opts.RootHint, "root", "", "module id to place first")
	cmd.Flags().Float64Var(&opts.XSpacing, "x-spacing", 0, "horizontal spacing between columns (default 320)")
	cmd.Flags().Float64Var(&opts.YSpacing, "y-spacing", 0, "vertical spacing between rows (default 160)")

	return cmd
}

// runRender runs the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	if err := resolveFlowInput(input, &opts); err != nil {
		return err
	}
	opts.Logger = loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d format(s)...", len(opts.Formats)))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := output
	if base == "" {
		base = inputBase(input)
	}

	printSuccess("Render complete")
	for _, format := range opts.Formats {
		path := base + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(len(result.Laid.Modules()), result.Stats.EdgeCount, result.CacheInfo.RenderHit)

	return nil
}
