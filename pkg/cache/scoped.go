package cache

import "strings"

// ScopedKeyer namespaces every key with a booth id, so booths sharing one
// Redis server never read each other's thumbnails or collages.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer scopes inner to booth. The booth id is joined to the inner
// key with a colon: booth "lobby" turns "thumb:<hash>:160" into
// "lobby:thumb:<hash>:160". A nil inner uses the [DefaultKeyer].
func NewScopedKeyer(inner Keyer, booth string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: strings.TrimSuffix(booth, ":") + ":"}
}

// ThumbKey returns the scoped thumbnail key.
func (k *ScopedKeyer) ThumbKey(photoHash string, maxSide int) string {
	return k.prefix + k.inner.ThumbKey(photoHash, maxSide)
}

// ArtifactKey returns the scoped collage key.
func (k *ScopedKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(opts)
}
