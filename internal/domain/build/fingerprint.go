package build

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint identifies one build input state: the content store bytes,
// the theme templates, and the effective config. Two builds with the same
// RenderHash produce identical output, so a matching stored fingerprint
// lets the builder skip the whole render pass.
type Fingerprint struct {
	ContentHash string
	ThemeHash   string
	ConfigHash  string
	RenderHash  string
}

func (f *Fingerprint) ComputeRenderHash() {
	h := sha256.New()
	h.Write([]byte(f.ContentHash))
	h.Write([]byte(f.ThemeHash))
	h.Write([]byte(f.ConfigHash))
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}

func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
