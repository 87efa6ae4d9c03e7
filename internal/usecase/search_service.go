package usecase

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/hmori-dev/capsearch/internal/domain/model"
	"github.com/hmori-dev/capsearch/internal/domain/repository"
	"github.com/hmori-dev/capsearch/internal/infrastructure/cache"
	"github.com/hmori-dev/capsearch/internal/infrastructure/metrics"
)

var (
	// ErrUpstreamUnavailable is returned when the caption provider cannot be
	// reached or answers with a transport-level failure.
	ErrUpstreamUnavailable = errors.New("caption provider unavailable")
)

// SearchInput contains the input parameters for a caption search.
type SearchInput struct {
	UserID   string
	VideoURL string
	Keyword  string
}

// SearchService defines the caption search business logic.
type SearchService interface {
	// Search runs one quota-limited keyword lookup and returns the matching
	// caption timestamps in document order.
	Search(ctx context.Context, input SearchInput) ([]model.KeywordHit, error)
}

// SearchServiceConfig holds configuration for SearchService.
type SearchServiceConfig struct {
	// DailyLimit is the maximum number of successful searches per user per day.
	DailyLimit int
	// CacheTTL is how long a fetched caption document stays servable from cache.
	CacheTTL time.Duration
	// ParseCacheSize bounds the in-process memo of parsed caption blocks.
	ParseCacheSize int
}

// DefaultSearchServiceConfig returns the default configuration.
func DefaultSearchServiceConfig() SearchServiceConfig {
	return SearchServiceConfig{
		DailyLimit:     3,
		CacheTTL:       24 * time.Hour,
		ParseCacheSize: 256,
	}
}

type searchService struct {
	usage   repository.UsageRepository
	cache   cache.TranscriptCache
	fetcher repository.TranscriptFetcher
	queue   repository.MessageQueue
	sfGroup singleflight.Group

	// parsed memoizes ParseBlocks results keyed by a hash of the caption
	// document itself, so a refetched document can never be served a stale
	// parse.
	parsed *expirable.LRU[string, []model.CaptionBlock]

	dailyLimit int
	cacheTTL   time.Duration

	// now is injectable for tests that cross the daily reset boundary.
	now func() time.Time
}

// NewSearchService creates a new SearchService instance.
func NewSearchService(
	usage repository.UsageRepository,
	transcriptCache cache.TranscriptCache,
	fetcher repository.TranscriptFetcher,
	queue repository.MessageQueue,
	cfg SearchServiceConfig,
) SearchService {
	return &searchService{
		usage:      usage,
		cache:      transcriptCache,
		fetcher:    fetcher,
		queue:      queue,
		parsed:     expirable.NewLRU[string, []model.CaptionBlock](cfg.ParseCacheSize, nil, 0),
		dailyLimit: cfg.DailyLimit,
		cacheTTL:   cfg.CacheTTL,
		now:        time.Now,
	}
}

// Search runs the request pipeline: quota reservation, input validation,
// cached transcript resolution, keyword matching, and finally the quota
// commit. Every stage either advances or short-circuits with a typed error;
// the quota is charged only when all of them succeeded, so failed fetches
// never count against the daily limit.
func (s *searchService) Search(ctx context.Context, input SearchInput) ([]model.KeywordHit, error) {
	today := model.Today(s.now())

	count, err := s.usage.Reserve(ctx, input.UserID, today)
	if err != nil {
		return nil, fmt.Errorf("reserve quota: %w", err)
	}
	if count >= s.dailyLimit {
		return nil, repository.ErrQuotaExhausted
	}

	videoID, err := model.ExtractVideoID(input.VideoURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Keyword) == "" {
		return nil, model.ErrEmptyKeyword
	}

	captions, err := s.getTranscript(ctx, videoID)
	if err != nil {
		return nil, err
	}

	hits := model.FindKeyword(s.parseBlocks(captions), input.Keyword)

	if err := s.usage.Commit(ctx, input.UserID, today, s.dailyLimit); err != nil {
		return nil, fmt.Errorf("commit quota: %w", err)
	}

	return hits, nil
}

// getTranscript implements the cache-aside pattern with singleflight
// coalescing: concurrent misses for the same video share one upstream fetch.
func (s *searchService) getTranscript(ctx context.Context, videoID string) (string, error) {
	captions, ok, err := s.cache.Get(ctx, videoID)
	if err != nil {
		// Cache failure degrades to an upstream fetch rather than failing
		// the request.
		slog.Warn("cache get failed, falling back to upstream",
			"video_id", videoID,
			"error", err,
		)
	}
	if ok {
		return captions, nil
	}

	result, err, shared := s.sfGroup.Do(videoID, func() (any, error) {
		return s.fetchAndCache(ctx, videoID)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// fetchAndCache pulls the caption document from the upstream provider,
// populates the cache, and hands the document to the archive pipeline.
func (s *searchService) fetchAndCache(ctx context.Context, videoID string) (string, error) {
	captions, err := s.fetcher.FetchTranscript(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrNoCaptions) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	if err := s.cache.Set(ctx, videoID, captions, s.cacheTTL); err != nil {
		// A failed cache write costs one extra upstream fetch later, not
		// this request.
		slog.Warn("failed to cache transcript",
			"video_id", videoID,
			"error", err,
		)
	}

	task := repository.ArchiveTask{VideoID: videoID, Captions: captions}
	if err := s.queue.PublishArchiveTask(ctx, task); err != nil {
		slog.Warn("failed to publish archive task",
			"video_id", videoID,
			"error", err,
		)
	}

	return captions, nil
}

// parseBlocks memoizes ParseBlocks per caption document. Parsing is pure, so
// content-addressed entries are always valid.
func (s *searchService) parseBlocks(captions string) []model.CaptionBlock {
	key := contentKey(captions)
	if blocks, ok := s.parsed.Get(key); ok {
		return blocks
	}

	blocks := model.ParseBlocks(captions)
	s.parsed.Add(key, blocks)
	return blocks
}

// contentKey derives the memo key from the document content.
func contentKey(captions string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(captions))
	return strconv.FormatUint(h.Sum64(), 16)
}
