package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/maplabel/pkg/pipeline"
)

// placeOpts holds the flags of the place command.
type placeOpts struct {
	output    string
	formats   string
	scale     float64
	geometry  bool
	obstacles bool
	noCache   bool
	refresh   bool
	inspect   bool
}

// placeCommand creates the place command.
func (c *CLI) placeCommand() *cobra.Command {
	opts := &placeOpts{}

	cmd := &cobra.Command{
		Use:   "place <scene>",
		Short: "Place the labels of a scene",
		Long: `Place reads a JSON or YAML scene, labels every layer in order and writes
the results next to the scene (or to --output) in each requested format.

Formats:
  svg   diagnostic drawing of every label box
  png   the same drawing as a raster image
  json  the placement document`,
		Example: `  maplabel place city.yaml
  maplabel place city.json -f svg,json -o out/city --geometry
  maplabel place city.json -f json -o -`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlace(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path without extension, or - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "comma-separated output formats (svg, png, json)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "png pixel scale")
	cmd.Flags().BoolVar(&opts.geometry, "geometry", false, "draw the scene geometry under the labels")
	cmd.Flags().BoolVar(&opts.obstacles, "obstacles", false, "draw obstacle boxes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.inspect, "inspect", false, "browse the placements interactively afterwards")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// pipelineOptions merges flags over the config file.
func (c *CLI) pipelineOptions(scenePath string, opts *placeOpts) (pipeline.Options, error) {
	ttl, err := c.Config.ttl()
	if err != nil {
		return pipeline.Options{}, err
	}
	scale := opts.scale
	if scale <= 0 {
		scale = c.Config.Scale
	}
	return pipeline.Options{
		ScenePath: scenePath,
		Formats:   c.parseFormats(opts.formats),
		Scale:     scale,
		Geometry:  opts.geometry,
		Obstacles: opts.obstacles,
		Refresh:   opts.refresh,
		TTL:       ttl,
		Logger:    c.Logger,
	}, nil
}

func (c *CLI) runPlace(ctx context.Context, scenePath string, opts *placeOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	popts, err := c.pipelineOptions(scenePath, opts)
	if err != nil {
		return err
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	toStdout := opts.output == stdoutPath
	var spinner *Spinner
	if !toStdout {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Placing %s...", scenePath))
		spinner.Start()
	}

	result, err := runner.Execute(ctx, popts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	base := basePath(opts.output, scenePath)
	paths, err := writeArtifacts(result.Artifacts, popts.Formats, base)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Placed %s", scenePath))
	if toStdout {
		return nil
	}

	stats := result.Document.Stats
	printSuccess("Placed %s", scenePath)
	printStats(stats.Placed, stats.Unplaced, result.CacheInfo.PlaceHit)
	printLayerTable(result.Layers)
	for _, p := range paths {
		printFile(p)
	}
	if stats.CapHits > 0 {
		printWarning("%d searches hit the tolerance cap", stats.CapHits)
	}

	if opts.inspect {
		return runInspector(result.Document, result.Layers)
	}
	if len(result.Document.Placements) > 0 {
		printNextStep("Browse placements", fmt.Sprintf("%s inspect %s", appName, inspectTarget(paths, base)))
	}
	return nil
}

// inspectTarget picks the JSON artifact to suggest for inspect.
func inspectTarget(paths []string, base string) string {
	for _, p := range paths {
		if p == base+".json" {
			return p
		}
	}
	return base + ".json"
}
