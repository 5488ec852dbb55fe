package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis instance without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "snapshare:prod:")
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

// PhotoKey generates a prefixed normalized-photo key.
func (k *ScopedKeyer) PhotoKey(storageKey string, opts PhotoKeyOpts) string {
	return k.prefix + k.inner.PhotoKey(storageKey, opts)
}

// UploadKey generates a prefixed upload token key.
func (k *ScopedKeyer) UploadKey(token string) string {
	return k.prefix + k.inner.UploadKey(token)
}

// NewDirKeyer scopes keys to one local photo directory, so a.jpg in two
// directories never shares a cache entry.
func NewDirKeyer(dir string) Keyer {
	return NewScopedKeyer(NewDefaultKeyer(), "dir:"+digest([]byte(dir))[:12]+":")
}
