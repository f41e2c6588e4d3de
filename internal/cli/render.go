package cli

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reflow/pkg/httputil"
	"github.com/matzehuels/reflow/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple formats)
	formats  []string // output formats: "dot", "svg", "pdf", "png", "json", "text"
	detailed bool     // show slot renames and locations in node labels
	raw      bool     // keep the stored node numbering
	refresh  bool     // re-render even when artifacts are cached
	noCache  bool     // disable the artifact cache entirely
}

// renderCommand creates the render command for generating visualizations.
//
// Default settings:
//   - format: svg (overridable via the config file)
//   - canonicalize: on (disable with --raw)
//   - artifact cache: on (bypass with --refresh, disable with --no-cache)
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a dependency graph to SVG(s)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = c.parseFormats(formatsStr)
			opts.detailed = opts.detailed || c.Config.Render.Detailed
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png, json, text (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show slot renames and locations in node labels")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "keep the stored node numbering")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when artifacts are cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Rendering %s", input))
	spinner.Start()

	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Input:            input,
		Formats:          opts.formats,
		Detailed:         opts.detailed,
		SkipCanonicalize: opts.raw,
		Refresh:          opts.refresh,
		Logger:           loggerFromContext(cmd.Context()),
	})
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Render failed: %v", err))
		if spinner.Cancelled() {
			return cmd.Context().Err()
		}
		return err
	}
	spinner.Stop()

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := opts.output
		if path == "" || len(opts.formats) > 1 {
			path = base + "." + format
		}
		if err := writeArtifact(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}

	printSuccess("Rendered %s", input)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input; URL inputs keep
// only their last path segment so artifacts land in the working directory.
// If output has a format extension (.svg, .dot, etc.), it strips that extension.
// This is used when generating multiple files (e.g., graph.svg, graph.dot).
func basePath(output, input string) string {
	if output == "" {
		if httputil.IsURL(input) {
			input = path.Base(input)
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	// Strip known format extensions from output path
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeArtifact(path string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("no artifact for %s", path)
	}
	return os.WriteFile(path, data, 0644)
}
