// Package youtube implements the upstream transcript collaborator against
// the YouTube Data API: list the video's caption tracks, then download the
// first one in SRT format.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hmori-dev/capsearch/internal/domain/repository"
	"github.com/hmori-dev/capsearch/internal/infrastructure/metrics"
)

// ClientConfig holds configuration for the YouTube captions client.
type ClientConfig struct {
	APIKey  string
	BaseURL string // e.g. https://www.googleapis.com/youtube/v3
	Timeout time.Duration
}

// Client fetches caption documents from the YouTube Data API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a new YouTube captions client.
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
	}
}

// captionList is the subset of the captions.list response we consume.
type captionList struct {
	Items []struct {
		ID string `json:"id"`
	} `json:"items"`
}

// FetchTranscript returns the SRT caption document for videoID.
// Returns repository.ErrNoCaptions when the video has no caption track.
func (c *Client) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	captionID, err := c.listFirstCaptionID(ctx, videoID)
	if err != nil {
		return "", err
	}

	captions, err := c.downloadCaption(ctx, captionID)
	if err != nil {
		metrics.UpstreamFetchesTotal.WithLabelValues(metrics.UpstreamStatusError).Inc()
		return "", err
	}

	metrics.UpstreamFetchesTotal.WithLabelValues(metrics.UpstreamStatusSuccess).Inc()
	return captions, nil
}

// listFirstCaptionID resolves the video's first caption track.
func (c *Client) listFirstCaptionID(ctx context.Context, videoID string) (string, error) {
	listURL := fmt.Sprintf("%s/captions?part=snippet&videoId=%s&key=%s",
		c.baseURL, url.QueryEscape(videoID), url.QueryEscape(c.apiKey))

	body, err := c.get(ctx, listURL)
	if err != nil {
		metrics.UpstreamFetchesTotal.WithLabelValues(metrics.UpstreamStatusError).Inc()
		return "", fmt.Errorf("list captions: %w", err)
	}

	var list captionList
	if err := json.Unmarshal(body, &list); err != nil {
		metrics.UpstreamFetchesTotal.WithLabelValues(metrics.UpstreamStatusError).Inc()
		return "", fmt.Errorf("decode caption list: %w", err)
	}

	if len(list.Items) == 0 {
		metrics.UpstreamFetchesTotal.WithLabelValues(metrics.UpstreamStatusNoCaptions).Inc()
		return "", repository.ErrNoCaptions
	}

	return list.Items[0].ID, nil
}

// downloadCaption fetches one caption track in SRT format.
func (c *Client) downloadCaption(ctx context.Context, captionID string) (string, error) {
	downloadURL := fmt.Sprintf("%s/captions/%s?key=%s&tfmt=srt",
		c.baseURL, url.PathEscape(captionID), url.QueryEscape(c.apiKey))

	body, err := c.get(ctx, downloadURL)
	if err != nil {
		return "", fmt.Errorf("download caption: %w", err)
	}

	return string(body), nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}

// Compile-time verification that Client implements repository.TranscriptFetcher.
var _ repository.TranscriptFetcher = (*Client)(nil)
