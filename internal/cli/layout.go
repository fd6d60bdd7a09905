package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/projection"
)

// layoutCommand creates the layout command for computing layout documents.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		vizType string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [records file]",
		Short: "Compute a tiered or radial layout document",
		Long: `Compute a layout document from a records file.

Tiered layouts (-t tiered) place every generation on its own row. Radial
layouts (-t radial) place generations on concentric rings with depth, scale
and opacity for a 3D view. The output is JSON and can be turned into a
diagram with 'kintree render'.

Results are cached by tree content, so an unchanged tree is not laid out
again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viz, err := projection.ParseVizType(vizType)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], viz, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<type>.json)")
	cmd.Flags().StringVarP(&vizType, "type", "t", string(projection.VizTiered), "layout type: tiered, radial")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout loads the records, computes the document, and writes it.
func (c *CLI) runLayout(ctx context.Context, input string, viz projection.VizType, output string, noCache bool) error {
	s, err := c.openStore(input, false)
	if err != nil {
		return err
	}
	svc, closeFn, err := c.newService(ctx, s, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer closeFn()

	prog := newProgress(c.Logger)
	doc, cacheHit, err := svc.DocumentWithCacheInfo(ctx, viz)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	prog.done(fmt.Sprintf("Computed %s layout", viz))

	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	outputPath := output
	if outputPath == "" {
		outputPath = derivedPath(input, "."+string(viz)+".json")
	}
	if err := writeFile(outputPath, data); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	view, err := svc.View(ctx)
	if err != nil {
		return err
	}
	c.printSuccess("Layout complete")
	c.printFile(outputPath)
	c.printStats(view.Len(), len(view.Edges()), cacheHit)
	c.printNewline()
	c.printNextStep("Render", appName+" render -t "+string(viz)+" "+input)
	return nil
}

// derivedPath replaces the extension of input with suffix.
func derivedPath(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
