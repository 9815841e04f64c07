// Package resolver turns a free-form query (URL or search text) into a
// playable track: title, uploader and a time-limited stream URL.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/ppalone/ytsearch"
)

var (
	ErrNotFound    = errors.New("no playable result found")
	ErrNetwork     = errors.New("media backend unreachable")
	ErrBadMetadata = errors.New("malformed track metadata")
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// Track describes one resolved audio source. StreamURL is ephemeral and
// must not be stored or reused across plays.
type Track struct {
	Title     string
	Uploader  string
	StreamURL string
	SourceURL string
	Duration  time.Duration
}

type Options struct {
	YtdlpPath   string
	CookiesFile string
}

// searchHit is one video returned by the search backend, best match first.
type searchHit struct {
	VideoID string
	Title   string
}

// searcher maps free-form search text to ranked video hits. ytSearcher is
// the production implementation.
type searcher interface {
	Search(ctx context.Context, query string) ([]searchHit, error)
}

// ytSearcher backs searcher with the public YouTube result page.
type ytSearcher struct {
	c *ytsearch.Client
}

func (s ytSearcher) Search(ctx context.Context, query string) ([]searchHit, error) {
	res, err := s.c.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	hits := make([]searchHit, 0, len(res.Results))
	for _, v := range res.Results {
		hits = append(hits, searchHit{VideoID: v.VideoID, Title: v.Title})
	}
	return hits, nil
}

// Resolver is stateless across calls aside from backend configuration;
// every Resolve re-extracts, since stream URLs expire.
type Resolver struct {
	opts   Options
	search searcher
	yt     *youtube.Client
}

func New(opts Options) *Resolver {
	if opts.YtdlpPath == "" {
		opts.YtdlpPath = "yt-dlp"
	}
	return &Resolver{
		opts:   opts,
		search: ytSearcher{c: ytsearch.NewClient(nil)},
		yt:     &youtube.Client{},
	}
}

// Resolve extracts a playable track for the query. Search text is mapped to
// the first search result; collections are never expanded past their first
// entry. Failures are one of ErrNotFound, ErrNetwork or ErrBadMetadata.
func (r *Resolver) Resolve(ctx context.Context, query string) (*Track, error) {
	pageURL := query
	if !IsURL(query) {
		found, err := r.searchFirst(ctx, query)
		if err != nil {
			return nil, err
		}
		pageURL = found
	}

	track, err := r.ytdlpExtract(ctx, pageURL)
	if err == nil {
		return track, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	log.Printf("[WARN] yt-dlp extraction failed for %s, trying native client: %v", pageURL, err)
	track, nativeErr := r.nativeExtract(ctx, pageURL)
	if nativeErr != nil {
		// Report the primary extractor's failure, it is the more precise one.
		return nil, err
	}
	return track, nil
}

// searchFirst maps search text to the URL of the first matching video.
func (r *Resolver) searchFirst(ctx context.Context, query string) (string, error) {
	hits, err := r.search.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("%w: search: %v", ErrNetwork, err)
	}
	if len(hits) == 0 {
		return "", fmt.Errorf("%w: no matches for %q", ErrNotFound, query)
	}
	return watchURLPrefix + hits[0].VideoID, nil
}

// IsURL reports whether s parses as an absolute http(s) URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
