package cache

// Key prefixes, also used as the keyType label of cache hooks.
const (
	KindScene    = "scene"
	KindArtifact = "artifact"
)

// SceneKeyOpts lists the compose options that change a scene.
type SceneKeyOpts struct {
	Theme       string  `json:"theme"`
	BoxWidth    float64 `json:"box_width"`
	BoxHeight   float64 `json:"box_height"`
	LabelBudget int     `json:"label_budget"`
	LineHeight  float64 `json:"line_height"`
	LaneMargin  float64 `json:"lane_margin"`
	Legend      bool    `json:"legend"`
	LegendTitle string  `json:"legend_title,omitempty"`
}

// ArtifactKeyOpts lists the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format        string  `json:"format"`
	PixelsPerUnit float64 `json:"pixels_per_unit,omitempty"`
	Padding       float64 `json:"padding,omitempty"`
	Scale         float64 `json:"scale,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// SceneKey keys a composed scene by model hash and compose options.
	SceneKey(modelHash string, opts SceneKeyOpts) string

	// ArtifactKey keys a rendered artifact by scene hash and render options.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SceneKey implements Keyer.
func (DefaultKeyer) SceneKey(modelHash string, opts SceneKeyOpts) string {
	return hashKey(KindScene, modelHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, sceneHash, opts)
}
