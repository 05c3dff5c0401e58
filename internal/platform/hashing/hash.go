package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/bytedance/sonic"
)

// canonical marshals with map keys sorted so the digest depends only on
// logical content, never on insertion order.
var canonical = sonic.Config{
	SortMapKeys: true,
}.Froze()

// Hash fingerprints a structured record for change detection. It is not a
// security boundary; collisions matter only at cryptographic improbability.
func Hash(v any) (string, error) {
	raw, err := canonical.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal record for hashing: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// HashJSON fingerprints a raw JSON document. The payload is decoded
// first so two documents with the same content but different key order
// produce the same digest.
func HashJSON(raw []byte) (string, error) {
	var v any
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("decode payload for hashing: %w", err)
	}
	return Hash(v)
}
