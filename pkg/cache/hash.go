package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex-encoded SHA-256 of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v. It is used to derive content
// hashes of views and option structs, which always marshal.
func HashJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Only channel, func and cyclic values fail, none of which are hashed.
		panic("cache: HashJSON: " + err.Error())
	}
	return Hash(data)
}

// hashKey builds "prefix:" followed by the hash of parts.
func hashKey(prefix string, parts ...any) string {
	return prefix + ":" + HashJSON(parts)
}
