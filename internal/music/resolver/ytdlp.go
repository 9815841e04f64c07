package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ytdlpExtract shells out to yt-dlp for a metadata-only JSON dump and picks
// the best audio stream URL out of it.
func (r *Resolver) ytdlpExtract(ctx context.Context, pageURL string) (*Track, error) {
	args := []string{
		"-j",
		"-f", "bestaudio/best",
		"--no-playlist",
		"--no-check-certificates",
		"--default-search", "auto",
		"--source-address", "0.0.0.0",
		"--quiet",
		"--no-warnings",
	}
	if r.opts.CookiesFile != "" {
		args = append(args, "--cookies", r.opts.CookiesFile)
	}
	args = append(args, pageURL)

	cmd := exec.CommandContext(ctx, r.opts.YtdlpPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, classifyExtractError(stderr.String(), err)
	}

	track, err := parseExtractOutput(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	if track.SourceURL == "" {
		track.SourceURL = pageURL
	}
	return track, nil
}

// parseExtractOutput decodes the first JSON object of a yt-dlp -j dump.
// Playlist and search dumps emit one object per line; only the first entry
// is ever used.
func parseExtractOutput(out []byte) (*Track, error) {
	type fragment struct {
		Duration float64 `json:"duration"`
	}
	type format struct {
		URL       string     `json:"url"`
		Fragments []fragment `json:"fragments,omitempty"`
	}
	type ytdlpInfo struct {
		Title      string   `json:"title"`
		Uploader   string   `json:"uploader"`
		WebpageURL string   `json:"webpage_url"`
		Duration   float64  `json:"duration"`
		Formats    []format `json:"formats"`
		URL        string   `json:"url"`
	}

	var info ytdlpInfo
	if err := json.NewDecoder(bytes.NewReader(out)).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMetadata, err)
	}

	// If the root duration is empty, try the first fragment of the first format
	if info.Duration == 0 && len(info.Formats) > 0 {
		if len(info.Formats[0].Fragments) > 0 {
			info.Duration = info.Formats[0].Fragments[0].Duration
		}
	}

	link := strings.TrimSpace(info.URL)
	if link == "" && len(info.Formats) > 0 {
		link = strings.TrimSpace(info.Formats[0].URL)
	}
	if link == "" {
		return nil, fmt.Errorf("%w: empty stream URL", ErrBadMetadata)
	}
	if info.Title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrBadMetadata)
	}

	return &Track{
		Title:     info.Title,
		Uploader:  info.Uploader,
		StreamURL: link,
		SourceURL: info.WebpageURL,
		Duration:  time.Duration(info.Duration * float64(time.Second)),
	}, nil
}

// classifyExtractError maps a failed yt-dlp run to an error kind based on
// its stderr. Auth-required and geo-blocked content counts as not found;
// there is nothing a retry would fix.
func classifyExtractError(stderr string, err error) error {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		// Binary missing or not startable, no extraction was attempted.
		return fmt.Errorf("%w: %v", ErrNetwork, execErr)
	}

	detail := firstStderrLine(stderr)
	if detail == "" {
		detail = err.Error()
	}
	lower := strings.ToLower(stderr)

	notFound := []string{
		"sign in to confirm",
		"age-restricted",
		"age restricted",
		"private video",
		"video unavailable",
		"this video is unavailable",
		"available in your country",
		"unsupported url",
		"no video results",
		"this live event will begin",
		"members-only",
	}
	for _, marker := range notFound {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("%w: %s", ErrNotFound, detail)
		}
	}

	network := []string{
		"unable to download",
		"connection refused",
		"connection reset",
		"timed out",
		"temporary failure",
		"getaddrinfo",
		"network is unreachable",
		"http error 5",
	}
	for _, marker := range network {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("%w: %s", ErrNetwork, detail)
		}
	}

	return fmt.Errorf("%w: %s", ErrNotFound, detail)
}

func firstStderrLine(stderr string) string {
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
