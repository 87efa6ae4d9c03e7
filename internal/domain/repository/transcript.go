package repository

import "context"

// TranscriptFetcher retrieves the raw caption document for a video from the
// upstream provider. Implementations live in the infrastructure layer
// (e.g., the YouTube Data API client).
type TranscriptFetcher interface {
	// FetchTranscript returns the caption document for videoID.
	// Returns ErrNoCaptions when the provider has no caption track for the
	// video; other errors indicate transport failures.
	FetchTranscript(ctx context.Context, videoID string) (string, error)
}
