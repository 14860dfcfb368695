package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments or
// tenants can share one Redis without colliding.
//
// Example usage:
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PassKey generates a prefixed pass key.
func (k *ScopedKeyer) PassKey(opts PassKeyOpts) string {
	return k.prefix + k.inner.PassKey(opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(passHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(passHash, opts)
}
