package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/hmori-dev/capsearch/internal/domain/repository"
)

const archiveContentType = "application/x-subrip"

// ArchiveService stores fetched caption documents in the cold archive.
// It is driven by the worker process consuming archive tasks.
type ArchiveService struct {
	storage repository.ObjectStorage
}

// NewArchiveService creates a new ArchiveService instance.
func NewArchiveService(storage repository.ObjectStorage) *ArchiveService {
	return &ArchiveService{storage: storage}
}

// Archive uploads the task's caption document unless it is already stored.
// Idempotency matters here: a republished retry or a second fetch of the
// same video must not duplicate work.
func (s *ArchiveService) Archive(ctx context.Context, task repository.ArchiveTask) error {
	key := archiveKey(task.VideoID)

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check archive: %w", err)
	}
	if exists {
		slog.Info("transcript already archived, skipping",
			"video_id", task.VideoID,
		)
		return nil
	}

	reader := strings.NewReader(task.Captions)
	if err := s.storage.Upload(ctx, key, reader, archiveContentType); err != nil {
		return fmt.Errorf("archive transcript: %w", err)
	}

	slog.Info("transcript archived",
		"video_id", task.VideoID,
		"key", key,
	)
	return nil
}

// archiveKey builds the object key for a video's archived transcript.
// Format: transcripts/{video_id}.srt
func archiveKey(videoID string) string {
	return path.Join("transcripts", videoID+".srt")
}
