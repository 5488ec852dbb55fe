package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer builds cache keys.
type Keyer interface {
	// PhotoKey identifies a photo normalized with the given options.
	PhotoKey(storageKey string, opts PhotoKeyOpts) string

	// UploadKey identifies a pending guest upload.
	UploadKey(token string) string
}

// PhotoKeyOpts are the normalization settings that change the cached bytes.
type PhotoKeyOpts struct {
	Quality   int `json:"quality"`
	MaxPixels int `json:"max_px"`
	// Version is the source's object version, empty when the source
	// cannot report one.
	Version string `json:"ver,omitempty"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PhotoKey returns "photo:" and the digest of the storage key and options.
func (DefaultKeyer) PhotoKey(storageKey string, opts PhotoKeyOpts) string {
	data, _ := json.Marshal(struct {
		Key string `json:"key"`
		PhotoKeyOpts
	}{storageKey, opts})
	return "photo:" + digest(data)
}

func (DefaultKeyer) UploadKey(token string) string {
	return "upload:" + token
}

// digest returns the hex SHA-256 of data.
func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
