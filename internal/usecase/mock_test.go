package usecase

import (
	"context"
	"io"
	"time"

	"github.com/hmori-dev/capsearch/internal/domain/repository"
)

// mockUsageRepository provides a configurable mock for UsageRepository.
type mockUsageRepository struct {
	reserveFn func(ctx context.Context, userID, day string) (int, error)
	commitFn  func(ctx context.Context, userID, day string, max int) error
}

func (m *mockUsageRepository) Reserve(ctx context.Context, userID, day string) (int, error) {
	if m.reserveFn != nil {
		return m.reserveFn(ctx, userID, day)
	}
	return 0, nil
}

func (m *mockUsageRepository) Commit(ctx context.Context, userID, day string, max int) error {
	if m.commitFn != nil {
		return m.commitFn(ctx, userID, day, max)
	}
	return nil
}

// mockTranscriptCache provides a configurable mock for TranscriptCache.
type mockTranscriptCache struct {
	getFn func(ctx context.Context, videoID string) (string, bool, error)
	setFn func(ctx context.Context, videoID, captions string, ttl time.Duration) error
}

func (m *mockTranscriptCache) Get(ctx context.Context, videoID string) (string, bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, videoID)
	}
	return "", false, nil
}

func (m *mockTranscriptCache) Set(ctx context.Context, videoID, captions string, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, videoID, captions, ttl)
	}
	return nil
}

// mockTranscriptFetcher provides a configurable mock for TranscriptFetcher.
type mockTranscriptFetcher struct {
	fetchFn func(ctx context.Context, videoID string) (string, error)
}

func (m *mockTranscriptFetcher) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, videoID)
	}
	return "", nil
}

// mockMessageQueue provides a configurable mock for MessageQueue.
type mockMessageQueue struct {
	publishFn func(ctx context.Context, task repository.ArchiveTask) error
	consumeFn func(ctx context.Context, handler func(task repository.ArchiveTask) error) error
}

func (m *mockMessageQueue) PublishArchiveTask(ctx context.Context, task repository.ArchiveTask) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, task)
	}
	return nil
}

func (m *mockMessageQueue) ConsumeArchiveTasks(ctx context.Context, handler func(task repository.ArchiveTask) error) error {
	if m.consumeFn != nil {
		return m.consumeFn(ctx, handler)
	}
	return nil
}

func (m *mockMessageQueue) Close() error {
	return nil
}

// mockObjectStorage provides a configurable mock for ObjectStorage.
type mockObjectStorage struct {
	uploadFn func(ctx context.Context, key string, reader io.Reader, contentType string) error
	existsFn func(ctx context.Context, key string) (bool, error)
}

func (m *mockObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, reader, contentType)
	}
	return nil
}

func (m *mockObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}
