package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"
)

// BuildObjectKey builds a collision-resistant object key from the owner id,
// the current time and a random suffix, preserving the original extension.
func BuildObjectKey(ownerID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))

	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)

	return fmt.Sprintf("%s/%d-%s%s", sanitizeKeySegment(ownerID), time.Now().UnixNano(), hex.EncodeToString(suffix), ext)
}

func sanitizeKeySegment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\\", "/")
	s = strings.ReplaceAll(s, "/", "-")
	if s == "" {
		return "anonymous"
	}
	return s
}

func normalizeObjectKey(key string) string {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	key = strings.TrimPrefix(key, "/")
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", "/")
	}
	return key
}
