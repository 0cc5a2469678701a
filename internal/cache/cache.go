package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/ppiankov/factlens/internal/model"
)

// VerdictCache stores successful verdicts per platform and claim
type VerdictCache interface {
	Get(platform, claim string) (model.Verdict, bool)
	Set(platform, claim string, verdict model.Verdict)
	Len() int
	Clear()
}

// CacheKey generates a cache key from a platform id and a claim
func CacheKey(platform, claim string) string {
	hash := sha256.Sum256([]byte(platform + "\x00" + claim))
	return "factlens:v1:" + hex.EncodeToString(hash[:])
}
