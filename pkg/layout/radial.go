package layout

import (
	"math"

	"github.com/matzehuels/kintree/pkg/family"
)

// Radial layout defaults.
const (
	DefaultBaseRadius = 150.0
	DefaultRadiusStep = 50.0
	DefaultDepthStep  = 100.0
	DefaultFlatten    = 0.5
	DefaultDecay      = 0.1
)

// RadialOptions tunes the radial layout. Zero fields take the defaults above.
type RadialOptions struct {
	BaseRadius float64 // ring radius of generation 0
	RadiusStep float64 // radius added per generation
	DepthStep  float64 // z offset per generation
	Flatten    float64 // vertical squash applied to y
	Decay      float64 // scale and opacity lost per generation
}

// WithDefaults returns o with every zero field set to its default.
func (o RadialOptions) WithDefaults() RadialOptions {
	if o.BaseRadius == 0 {
		o.BaseRadius = DefaultBaseRadius
	}
	if o.RadiusStep == 0 {
		o.RadiusStep = DefaultRadiusStep
	}
	if o.DepthStep == 0 {
		o.DepthStep = DefaultDepthStep
	}
	if o.Flatten == 0 {
		o.Flatten = DefaultFlatten
	}
	if o.Decay == 0 {
		o.Decay = DefaultDecay
	}
	return o
}

// Radius returns the ring radius of generation g.
func (o RadialOptions) Radius(g int) float64 {
	o = o.WithDefaults()
	return o.BaseRadius + float64(g)*o.RadiusStep
}

// Point is a radial position with its visual weight.
type Point struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Scale   float64 `json:"scale"`
	Opacity float64 `json:"opacity"`
}

// Line is a 2D segment between a parent's and a child's radial projection.
type Line struct {
	Parent string  `json:"parent"`
	Child  string  `json:"child"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

// Radial places generation g on a ring of radius [RadialOptions.Radius]. The
// n persons of the ring are spaced 2π/n apart in [Rows] order, starting at
// angle 0. Scale and opacity both drop by Decay per generation, floored at 0.
func Radial(v *family.View, levels map[string]int, opts RadialOptions) map[string]Point {
	opts = opts.WithDefaults()
	points := make(map[string]Point, len(levels))

	for g, row := range Rows(v, levels) {
		step := 2 * math.Pi / float64(max(1, len(row)))
		radius := opts.Radius(g)
		fade := max(0, 1-float64(g)*opts.Decay)
		for i, id := range row {
			angle := float64(i) * step
			points[id] = Point{
				X:       math.Cos(angle) * radius,
				Y:       math.Sin(angle) * radius * opts.Flatten,
				Z:       float64(g) * opts.DepthStep,
				Scale:   fade,
				Opacity: fade,
			}
		}
	}
	return points
}

// RadialLines returns a line for every parent to child edge of v whose ends
// both have points. Depth is ignored; lines connect the x, y projections.
func RadialLines(v *family.View, points map[string]Point) []Line {
	var out []Line
	for _, e := range v.Edges() {
		from, ok1 := points[e.Parent]
		to, ok2 := points[e.Child]
		if !ok1 || !ok2 {
			continue
		}
		out = append(out, Line{Parent: e.Parent, Child: e.Child, X1: from.X, Y1: from.Y, X2: to.X, Y2: to.Y})
	}
	return out
}
