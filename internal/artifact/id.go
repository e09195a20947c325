package artifact

import (
	"crypto/sha256"
	"encoding/hex"
)

// Deterministic artifact ids: a type prefix plus the first 8 hex chars of
// the SHA-256 digest of the stable key. Same key, same id, always — which
// makes artifact writes idempotent and lets repeated generation for the
// same day overwrite rather than accumulate.

func hashPrefix(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:8]
}

// GroundingMapID derives the id for the grounding map of an exposition.
func GroundingMapID(expositionID string) string {
	return "gm_" + hashPrefix(expositionID)
}

// PrayerTraceMapID derives the id for the trace map of a prayer.
func PrayerTraceMapID(prayerID string) string {
	return "ptm_" + hashPrefix(prayerID)
}
