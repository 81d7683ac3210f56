package cache

import (
	"crypto/sha256"
	"fmt"
)

// FeedKey derives a stable cache key from a feed URL. The key depends on the
// URL only: cached entries hold parsed but unfiltered events, so one entry
// serves every month window and offset.
func FeedKey(feedURL string) string {
	hash := sha256.Sum256([]byte(feedURL))
	return fmt.Sprintf("feed:%x", hash[:8])
}
