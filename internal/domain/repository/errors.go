package repository

import "errors"

var (
	// ErrQuotaExhausted is returned when a user has no search slots left for
	// the current day.
	ErrQuotaExhausted = errors.New("daily search quota exhausted")

	// ErrUsageNotFound is returned when a usage record that should exist is
	// missing (Commit without a prior Reserve).
	ErrUsageNotFound = errors.New("usage record not found")

	// ErrNoCaptions is returned by the transcript fetcher when the upstream
	// provider has no caption track for the video.
	ErrNoCaptions = errors.New("no captions available for this video")

	// ErrInvalidToken is returned when a bearer credential fails verification.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrBucketNotFound is returned when the configured bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")
)
