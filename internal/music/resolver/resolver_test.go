package resolver

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSearch struct {
	hits []searchHit
	err  error
}

func (f fakeSearch) Search(ctx context.Context, query string) ([]searchHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

func TestParseExtractOutput(t *testing.T) {
	out := []byte(`{"title":"Test Song","uploader":"Test Channel","webpage_url":"https://www.youtube.com/watch?v=abc","duration":215.5,"url":"https://cdn.example/audio"}`)

	track, err := parseExtractOutput(out)
	if err != nil {
		t.Fatalf("parseExtractOutput() returned error: %v", err)
	}
	if track.Title != "Test Song" {
		t.Errorf("Title = %q, want Test Song", track.Title)
	}
	if track.Uploader != "Test Channel" {
		t.Errorf("Uploader = %q, want Test Channel", track.Uploader)
	}
	if track.StreamURL != "https://cdn.example/audio" {
		t.Errorf("StreamURL = %q", track.StreamURL)
	}
	if track.Duration != time.Duration(215.5*float64(time.Second)) {
		t.Errorf("Duration = %v, want 215.5s", track.Duration)
	}
}

func TestParseExtractOutputFirstEntryOnly(t *testing.T) {
	// Playlist dumps emit one JSON object per line. Only the first entry
	// may ever be used.
	out := []byte(`{"title":"First","url":"https://cdn.example/first"}
{"title":"Second","url":"https://cdn.example/second"}
`)

	track, err := parseExtractOutput(out)
	if err != nil {
		t.Fatalf("parseExtractOutput() returned error: %v", err)
	}
	if track.Title != "First" {
		t.Errorf("Title = %q, want First", track.Title)
	}
	if track.StreamURL != "https://cdn.example/first" {
		t.Errorf("StreamURL = %q, want first entry's URL", track.StreamURL)
	}
}

func TestParseExtractOutputFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		wantErr error
	}{
		{
			name:    "missing title",
			out:     `{"url":"https://cdn.example/audio"}`,
			wantErr: ErrBadMetadata,
		},
		{
			name:    "missing stream url",
			out:     `{"title":"Song"}`,
			wantErr: ErrBadMetadata,
		},
		{
			name:    "not json",
			out:     `ERROR: something broke`,
			wantErr: ErrBadMetadata,
		},
		{
			name: "url from first format",
			out:  `{"title":"Song","formats":[{"url":"https://cdn.example/fmt0"},{"url":"https://cdn.example/fmt1"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track, err := parseExtractOutput([]byte(tt.out))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseExtractOutput() returned error: %v", err)
			}
			if track.StreamURL != "https://cdn.example/fmt0" {
				t.Errorf("StreamURL = %q, want first format's URL", track.StreamURL)
			}
		})
	}
}

func TestParseExtractOutputFragmentDuration(t *testing.T) {
	out := []byte(`{"title":"Live","url":"https://cdn.example/live","formats":[{"url":"https://cdn.example/frag","fragments":[{"duration":4.5}]}]}`)

	track, err := parseExtractOutput(out)
	if err != nil {
		t.Fatalf("parseExtractOutput() returned error: %v", err)
	}
	if track.Duration != time.Duration(4.5*float64(time.Second)) {
		t.Errorf("Duration = %v, want fragment duration", track.Duration)
	}
}

func TestClassifyExtractError(t *testing.T) {
	base := errors.New("exit status 1")

	tests := []struct {
		name   string
		stderr string
		want   error
	}{
		{"sign in required", "ERROR: Sign in to confirm your age", ErrNotFound},
		{"geo blocked", "ERROR: The uploader has not made this video available in your country", ErrNotFound},
		{"unavailable", "ERROR: Video unavailable", ErrNotFound},
		{"unsupported", "ERROR: Unsupported URL: https://example.com", ErrNotFound},
		{"live not started", "ERROR: This live event will begin in a few moments", ErrNotFound},
		{"download failure", "ERROR: unable to download video data", ErrNetwork},
		{"dns failure", "ERROR: Temporary failure in name resolution", ErrNetwork},
		{"timeout", "ERROR: Connection timed out", ErrNetwork},
		{"unknown", "ERROR: some novel failure", ErrNotFound},
		{"empty stderr", "", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyExtractError(tt.stderr, base)
			if !errors.Is(err, tt.want) {
				t.Errorf("classifyExtractError(%q) = %v, want %v", tt.stderr, err, tt.want)
			}
		})
	}
}

func TestResolveNoSearchMatches(t *testing.T) {
	r := New(Options{})
	r.search = fakeSearch{}

	_, err := r.Resolve(context.Background(), "some query nobody ever uploaded")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrNotFound", err)
	}
}

func TestSearchFirstPicksFirstHit(t *testing.T) {
	r := New(Options{})
	r.search = fakeSearch{hits: []searchHit{{VideoID: "aaa111"}, {VideoID: "bbb222"}}}

	got, err := r.searchFirst(context.Background(), "two hits")
	if err != nil {
		t.Fatalf("searchFirst() returned error: %v", err)
	}
	if want := watchURLPrefix + "aaa111"; got != want {
		t.Errorf("searchFirst() = %q, want %q", got, want)
	}
}

func TestSearchFirstBackendDown(t *testing.T) {
	r := New(Options{})
	r.search = fakeSearch{err: errors.New("connection refused")}

	_, err := r.searchFirst(context.Background(), "anything")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("searchFirst() error = %v, want ErrNetwork", err)
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://www.youtube.com/watch?v=abc123", true},
		{"http://example.com/audio", true},
		{"youtube.com/watch?v=abc123", false},
		{"never gonna give you up", false},
		{"ftp://example.com/file", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExtractYouTubeID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10s", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ?t=10", "dQw4w9WgXcQ", false},
		{"https://example.com/song", "", true},
	}

	for _, tt := range tests {
		got, err := extractYouTubeID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("extractYouTubeID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("extractYouTubeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
