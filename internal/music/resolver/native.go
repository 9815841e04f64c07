package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// nativeExtract resolves a YouTube page URL with the in-process client.
// Used as a fallback when the yt-dlp binary is unavailable or fails.
func (r *Resolver) nativeExtract(ctx context.Context, pageURL string) (*Track, error) {
	videoID, err := extractYouTubeID(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	video, err := r.yt.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, classifyNativeError(err)
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: no audio formats found for video", ErrBadMetadata)
	}

	link, err := r.yt.GetStreamURLContext(ctx, video, &formats[0])
	if err != nil {
		return nil, classifyNativeError(err)
	}
	if video.Title == "" || link == "" {
		return nil, fmt.Errorf("%w: incomplete video data", ErrBadMetadata)
	}

	return &Track{
		Title:     video.Title,
		Uploader:  video.Author,
		StreamURL: link,
		SourceURL: pageURL,
		Duration:  video.Duration,
	}, nil
}

func classifyNativeError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return fmt.Errorf("%w: %v", ErrNotFound, err)
}

func extractYouTubeID(pageURL string) (string, error) {
	switch {
	case strings.Contains(pageURL, "youtu.be/"):
		parts := strings.Split(pageURL, "youtu.be/")
		if len(parts) != 2 {
			return "", errors.New("invalid YouTube URL format")
		}
		return strings.Split(parts[1], "?")[0], nil

	case strings.Contains(pageURL, "youtube.com/watch?v="):
		parts := strings.Split(pageURL, "v=")
		if len(parts) != 2 {
			return "", errors.New("invalid YouTube URL format")
		}
		return strings.Split(parts[1], "&")[0], nil

	default:
		return "", errors.New("unsupported URL format")
	}
}
