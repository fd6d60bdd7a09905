// Package nodelink renders family layouts as node-link diagrams with Graphviz.
//
// # Usage
//
// Build a layout document with the projection service, convert it to DOT,
// then render it to SVG:
//
//	doc, err := svc.Document(ctx, projection.VizTiered)
//	dot := nodelink.ToDOT(doc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Tiered documents produce one Graphviz rank per generation row, keeping the
// row order of the layout. Radial documents pin every person at its projected
// position and let the neato engine draw the edges. Men are drawn as boxes,
// women as ellipses, and spouses are joined by a dashed undirected line.
//
// The DOT text can also be saved and processed with external Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
