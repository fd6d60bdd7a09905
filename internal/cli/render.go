package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/projection"
	"github.com/matzehuels/kintree/pkg/render/nodelink"
)

const (
	formatSVG = "svg"
	formatDOT = "dot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file; its extension picks the format
	vizType   string // tiered or radial
	format    string // svg or dot, when no output file is given
	detailed  bool   // add generation and id to labels
	noSpouses bool   // omit spouse links
	noCache   bool
}

// renderCommand creates the render command for Graphviz diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{vizType: string(projection.VizTiered), format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render [records file]",
		Short: "Render a family tree diagram to SVG or DOT",
		Long: `Render a records file as a node-link diagram with Graphviz.

Tiered diagrams keep each generation on one rank; radial diagrams pin every
person at its ring position. Writing to a .dot file exports the Graphviz
source instead of SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", opts.vizType, "layout type: tiered, radial")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format when -o is not set: svg, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show generation and id in labels")
	cmd.Flags().BoolVar(&opts.noSpouses, "no-spouses", false, "omit spouse links")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// outputFormat resolves the file format from the output path or the flag.
func (o renderOpts) outputFormat() (string, error) {
	format := o.format
	if o.output != "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(o.output)), ".")
	}
	switch format {
	case formatSVG, formatDOT:
		return format, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unsupported render format %q (want svg or dot)", format)
	}
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	viz, err := projection.ParseVizType(opts.vizType)
	if err != nil {
		return err
	}
	format, err := opts.outputFormat()
	if err != nil {
		return err
	}

	s, err := c.openStore(input, false)
	if err != nil {
		return err
	}
	svc, closeFn, err := c.newService(ctx, s, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer closeFn()

	doc, err := svc.Document(ctx, viz)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	keyOpts := cache.ArtifactKeyOpts{Format: format, Detailed: opts.detailed, NoSpouses: opts.noSpouses}
	data, cacheHit, err := svc.Artifact(ctx, doc, keyOpts, func(ctx context.Context) ([]byte, error) {
		dot := nodelink.ToDOT(doc, nodelink.Options{Detailed: opts.detailed, NoSpouses: opts.noSpouses})
		if format == formatDOT {
			return []byte(dot), nil
		}
		prog := newProgress(c.Logger)
		svg, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		prog.done("Rendered SVG")
		return svg, nil
	})
	if err != nil {
		return err
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = derivedPath(input, "."+format)
	}
	if err := writeFile(outputPath, data); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	c.printSuccess("Rendered %s diagram", viz)
	c.printFile(outputPath)
	c.printStats(len(doc.Persons), len(doc.Connectors)+len(doc.Lines), cacheHit)
	return nil
}
