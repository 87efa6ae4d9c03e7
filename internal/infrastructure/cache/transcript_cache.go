package cache

import (
	"context"
	"time"
)

// TranscriptCache defines the interface for caching caption documents by
// video identifier. An entry is servable only while its TTL has not elapsed;
// expired entries are reported as misses.
type TranscriptCache interface {
	// Get retrieves the caption document for videoID.
	// The second return value is false on cache miss, including entries
	// whose TTL has elapsed.
	Get(ctx context.Context, videoID string) (string, bool, error)

	// Set stores the caption document for videoID with the specified TTL,
	// overwriting any existing entry.
	Set(ctx context.Context, videoID string, captions string, ttl time.Duration) error
}
