package repository

import "context"

// ArchiveTask carries a freshly fetched caption document to the archive
// worker for cold storage.
type ArchiveTask struct {
	VideoID    string `json:"video_id"`
	Captions   string `json:"captions"`
	RetryCount int    `json:"retry_count"`
}

// MessageQueue defines the interface for message queue operations.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type MessageQueue interface {
	// PublishArchiveTask sends an archive task to the queue.
	// Used by the API server after a fresh upstream fetch.
	PublishArchiveTask(ctx context.Context, task ArchiveTask) error

	// ConsumeArchiveTasks starts consuming archive tasks from the queue.
	// The handler function is called for each received task.
	// Returns when the context is cancelled or the channel closes.
	// Used by the worker service.
	ConsumeArchiveTasks(ctx context.Context, handler func(task ArchiveTask) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
