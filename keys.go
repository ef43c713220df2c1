package agrilingo

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CacheKey generates the cache key for a text in a target language.
// The format is "<text>_<lang>", matching caches persisted by earlier releases.
func CacheKey(text, targetLang string) string {
	return text + "_" + targetLang
}

// SplitCacheKey splits a key built by CacheKey. The language is taken after
// the last underscore, so source texts may contain underscores.
func SplitCacheKey(key string) (text, lang string, ok bool) {
	i := strings.LastIndexByte(key, '_')
	if i < 0 || i == len(key)-1 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}
