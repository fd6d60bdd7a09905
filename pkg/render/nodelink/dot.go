package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kintree/pkg/projection"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the generation and the person id to node labels.
	Detailed bool
	// NoSpouses omits the dashed spouse links.
	NoSpouses bool
}

// pointsPerInch converts radial coordinates to Graphviz positions.
const pointsPerInch = 72.0

// ToDOT converts a layout document to Graphviz DOT.
//
// Tiered documents keep every row on one rank, in row order. Radial documents
// pin each person at its projected point and use the neato engine, so
// Graphviz only routes the edges.
func ToDOT(doc *projection.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	if doc.VizType == projection.VizRadial {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  splines=line;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
		buf.WriteString("  ordering=out;\n")
		buf.WriteString("  ranksep=0.5;\n")
		buf.WriteString("  nodesep=0.3;\n")
	}
	buf.WriteString("\n")

	for _, p := range doc.Persons {
		attrs := fmtAttrs(p, opts)
		if pt, ok := doc.Points[p.ID]; ok && doc.VizType == projection.VizRadial {
			// Graphviz y grows upwards.
			attrs = append(attrs, fmt.Sprintf("pos=\"%.3f,%.3f!\"", pt.X/pointsPerInch, -pt.Y/pointsPerInch))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(attrs, ", "))
	}

	if doc.VizType == projection.VizTiered {
		buf.WriteString("\n")
		for _, row := range doc.Rows {
			quoted := make([]string, len(row))
			for i, id := range row {
				quoted[i] = strconv.Quote(id)
			}
			fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(quoted, "; "))
		}
	}

	buf.WriteString("\n")
	for _, e := range edges(doc) {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e[0], e[1])
	}

	if !opts.NoSpouses {
		for _, p := range doc.Persons {
			// One line per couple.
			if p.Spouse != "" && p.ID < p.Spouse {
				fmt.Fprintf(&buf, "  %q -> %q [dir=none, style=dashed, constraint=false];\n", p.ID, p.Spouse)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edges(doc *projection.Document) [][2]string {
	var out [][2]string
	switch doc.VizType {
	case projection.VizTiered:
		for _, c := range doc.Connectors {
			out = append(out, [2]string{c.Parent, c.Child})
		}
	case projection.VizRadial:
		for _, l := range doc.Lines {
			out = append(out, [2]string{l.Parent, l.Child})
		}
	}
	return out
}

func fmtLabel(p projection.DocPerson, detailed bool) string {
	label := p.Name
	if p.LocalizedName != "" {
		label += "\n" + p.LocalizedName
	}
	if detailed {
		label += fmt.Sprintf("\ngeneration: %d\nid: %s", p.Generation, p.ID)
	}
	return label
}

func fmtAttrs(p projection.DocPerson, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(p, opts.Detailed))}
	switch p.Gender {
	case "male":
		attrs = append(attrs, "shape=box")
	case "female":
		attrs = append(attrs, "shape=ellipse")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg tag with one whose viewBox
// starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
