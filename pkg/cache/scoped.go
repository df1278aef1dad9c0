package cache

// ScopedKeyer wraps a Keyer with a prefix so that tenants or
// environments sharing one backend get separate namespaces.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "team:docs:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SceneKey implements Keyer.
func (k *ScopedKeyer) SceneKey(modelHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(modelHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}
