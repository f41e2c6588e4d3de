package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reflow/pkg/ir"
	"github.com/matzehuels/reflow/pkg/pipeline"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	raw         bool // keep the stored node numbering
	interactive bool // open the interactive node browser
	noCache     bool // disable the artifact cache
}

// inspectCommand creates the inspect command for summarizing graphs.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Summarize a dependency graph",
		Long: `Inspect loads a serialized graph (local file or http(s) URL), rederives
its output edges, renumbers it into canonical order, and prints function
metadata and node statistics.

With --interactive, an in-terminal browser lists every node with its
dependencies and consumers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.raw, "raw", false, "keep the stored node numbering")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse nodes interactively")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, input string, opts inspectOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Input:            input,
		Formats:          []string{pipeline.FormatText},
		SkipCanonicalize: opts.raw,
		Logger:           loggerFromContext(cmd.Context()),
	})
	if err != nil {
		return err
	}
	g := result.Graph

	if opts.interactive {
		model := NewNodeListModel(g)
		final, err := tea.NewProgram(model).Run()
		if err != nil {
			return fmt.Errorf("interactive browser: %w", err)
		}
		if m, ok := final.(NodeListModel); ok && m.Selected != nil {
			printNodeDetail(g, m.Selected)
		}
		return nil
	}

	printFunctionInfo(g)
	printNewline()
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	printKindBreakdown(g)
	printNewline()
	printNextStep("Render it", fmt.Sprintf("reflow render %s", input))

	return nil
}

// printFunctionInfo prints the function header key-values.
func printFunctionInfo(g *ir.Graph) {
	name := g.Fn.Name
	if name == "" {
		name = "<anonymous>"
	}
	printKeyValue("function", name)

	if g.Fn.Kind != "" {
		printKeyValue("kind", g.Fn.Kind)
	}

	var quals []string
	if g.Fn.Async {
		quals = append(quals, "async")
	}
	if g.Fn.Generator {
		quals = append(quals, "generator")
	}
	if len(quals) > 0 {
		printKeyValue("qualifiers", strings.Join(quals, ", "))
	}

	params := make([]string, len(g.Fn.Params))
	for i, p := range g.Fn.Params {
		params[i] = p.String()
	}
	printKeyValue("params", "("+strings.Join(params, ", ")+")")
	printKeyValue("entry", g.Entry().String())
	printKeyValue("exit", g.Exit().String())

	for _, d := range g.Fn.Directives {
		printKeyValue("directive", fmt.Sprintf("%q", d))
	}
}

// printKindBreakdown prints a per-kind node count, most frequent first.
func printKindBreakdown(g *ir.Graph) {
	counts := make(map[ir.Kind]int)
	for _, n := range g.Nodes() {
		counts[n.Kind()]++
	}

	kinds := make([]ir.Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if counts[kinds[i]] != counts[kinds[j]] {
			return counts[kinds[i]] > counts[kinds[j]]
		}
		return kinds[i] < kinds[j]
	})

	for _, k := range kinds {
		printDetail("%-14s %d", k, counts[k])
	}
}

// printNodeDetail prints one node with its edges after the browser exits.
func printNodeDetail(g *ir.Graph, n ir.Node) {
	printKeyValue("node", n.ID().String())
	printKeyValue("kind", n.Kind().String())
	if v, ok := n.(*ir.Value); ok && v.Op != nil {
		printKeyValue("op", v.Op.String())
	}
	if loc := n.Loc(); loc.Line > 0 {
		printKeyValue("location", loc.String())
	}

	printKeyValue("deps", idListString(ir.Dependencies(n)))
	if refs := ir.References(n); len(refs) > 0 {
		parts := make([]string, len(refs))
		for i, r := range refs {
			parts[i] = r.String()
		}
		printKeyValue("refs", strings.Join(parts, " "))
	}
	printKeyValue("outputs", idListString(n.Outputs()))
}

func idListString(ids []ir.NodeID) string {
	if len(ids) == 0 {
		return "(none)"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, " ")
}
