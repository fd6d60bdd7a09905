package cache

// LayoutKeyOpts are the options that shape a cached layout document.
type LayoutKeyOpts struct {
	VizType string `json:"viz_type"`

	// Radial parameters; zero for tiered layouts.
	BaseRadius float64 `json:"base_radius,omitempty"`
	RadiusStep float64 `json:"radius_step,omitempty"`
	DepthStep  float64 `json:"depth_step,omitempty"`
	Flatten    float64 `json:"flatten,omitempty"`
	Decay      float64 `json:"decay,omitempty"`
}

// ArtifactKeyOpts are the options that shape a rendered export.
type ArtifactKeyOpts struct {
	Format    string `json:"format"` // "dot" or "svg"
	Detailed  bool   `json:"detailed,omitempty"`
	NoSpouses bool   `json:"no_spouses,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout of the view with hash viewHash.
	LayoutKey(viewHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key for an export of the layout with hash layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the inputs into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(viewHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", viewHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
