package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reflow/pkg/pipeline"
)

// dumpOpts holds the command-line flags for the dump command.
type dumpOpts struct {
	output string // output file path ("" writes to stdout)
	format string // "text" or "json"
	raw    bool   // keep the stored node numbering
}

// dumpCommand creates the dump command for printing graphs in canonical form.
func (c *CLI) dumpCommand() *cobra.Command {
	var opts dumpOpts

	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Print a graph in canonical text or JSON form",
		Long: `Dump loads a serialized graph (local file or http(s) URL), rederives its
output edges, renumbers it into canonical order, and writes the result as
readable text or as JSON suitable for feeding back into reflow.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != pipeline.FormatText && opts.format != pipeline.FormatJSON {
				return fmt.Errorf("invalid format: %q (must be 'text' or 'json')", opts.format)
			}
			return c.runDump(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatText, "output format: text (default), json")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "keep the stored node numbering")

	return cmd
}

func (c *CLI) runDump(cmd *cobra.Command, input string, opts dumpOpts) error {
	logger := loggerFromContext(cmd.Context())

	// Dump output goes to stdout, so the cache adds nothing here.
	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()

	if opts.raw {
		printWarning("Keeping stored numbering; output is not canonical")
	}

	prog := newProgress(logger)
	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Input:            input,
		Formats:          []string{opts.format},
		SkipCanonicalize: opts.raw,
		Logger:           logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Processed %d nodes", result.Stats.NodeCount))

	data := result.Artifacts[opts.format]
	if opts.output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(opts.output, data, 0644); err != nil {
		return err
	}
	printSuccess("Wrote %s", opts.output)
	return nil
}
