package model

import (
	"errors"
	"regexp"
	"strings"
)

// CaptionBlock is one timed unit of a caption document: the start of its
// time range plus its text lines joined and lower-cased.
type CaptionBlock struct {
	StartTime string
	Text      string
}

// KeywordHit marks a caption block whose text contains the searched keyword.
type KeywordHit struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

var (
	ErrInvalidVideoURL = errors.New("invalid video URL")
	ErrEmptyKeyword    = errors.New("keyword cannot be empty")
)

// videoIDPattern matches the video identifier in both watch URLs (?v=...)
// and short youtu.be links.
var videoIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/)([a-zA-Z0-9_-]+)`)

const timeSeparator = " --> "

// ParseBlocks splits a raw SRT-style caption document into timed blocks.
// Blocks are separated by a blank line; within a block the first line is the
// ordinal (ignored), the second the time range, and the rest the caption
// text. Blocks without a time range or without text lines are skipped, since
// real caption exports routinely contain malformed or trailing fragments.
func ParseBlocks(doc string) []CaptionBlock {
	rawBlocks := strings.Split(doc, "\n\n")
	blocks := make([]CaptionBlock, 0, len(rawBlocks))

	for _, raw := range rawBlocks {
		lines := strings.Split(raw, "\n")
		if len(lines) < 3 {
			continue
		}

		timeRange := lines[1]
		if !strings.Contains(timeRange, timeSeparator) {
			continue
		}

		text := strings.ToLower(strings.Join(lines[2:], " "))
		if strings.TrimSpace(text) == "" {
			continue
		}

		blocks = append(blocks, CaptionBlock{
			StartTime: strings.SplitN(timeRange, timeSeparator, 2)[0],
			Text:      text,
		})
	}

	return blocks
}

// FindKeyword returns one hit per block whose text contains keyword,
// case-insensitively, preserving document order. An empty keyword matches
// every block; callers that consider that invalid must reject it themselves.
func FindKeyword(blocks []CaptionBlock, keyword string) []KeywordHit {
	needle := strings.ToLower(keyword)

	var hits []KeywordHit
	for _, block := range blocks {
		if strings.Contains(block.Text, needle) {
			hits = append(hits, KeywordHit{
				Timestamp: block.StartTime,
				Text:      block.Text,
			})
		}
	}

	return hits
}

// ExtractVideoID pulls the video identifier out of a watch or short-link URL.
func ExtractVideoID(videoURL string) (string, error) {
	m := videoIDPattern.FindStringSubmatch(videoURL)
	if m == nil {
		return "", ErrInvalidVideoURL
	}
	return m[1], nil
}
