package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer generates cache keys.
type Keyer interface {
	// ThumbKey identifies a thumbnail of the photo with the given content hash.
	ThumbKey(photoHash string, maxSide int) string

	// ArtifactKey identifies an exported collage.
	ArtifactKey(opts ArtifactKeyOpts) string
}

// SlotKey is the cache-relevant state of one filled slot.
type SlotKey struct {
	Photo string  `json:"p"` // content hash, empty for a placeholder
	Zoom  float64 `json:"z"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// ArtifactKeyOpts holds everything that determines an artifact's bytes.
type ArtifactKeyOpts struct {
	FrameID int       `json:"frame"`
	Width   int       `json:"w"`
	Height  int       `json:"h"`
	Slots   []SlotKey `json:"slots"`
	Format  string    `json:"format"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ThumbKey returns "thumb:<hash>:<size>".
func (DefaultKeyer) ThumbKey(photoHash string, maxSide int) string {
	return fmt.Sprintf("thumb:%s:%d", photoHash, maxSide)
}

// ArtifactKey returns "artifact:<format>:<sha256 of opts>". Slot order is
// part of the digest, so swapping two photos yields a new artifact.
func (DefaultKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	data, _ := json.Marshal(opts)
	sum := sha256.Sum256(data)
	return "artifact:" + opts.Format + ":" + hex.EncodeToString(sum[:])
}
