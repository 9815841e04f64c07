package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"groovebot/internal/music/resolver"
	"groovebot/pkg/retry"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz
)

const bytesPerSecond = sampleRate * channels * 2

var errStreamClosed = errors.New("stream closed")

// Options tunes how PCM streams are opened and recovered.
type Options struct {
	FfmpegPath        string
	Gain              float64
	Retries           int
	ReconnectDelayMax time.Duration
}

// pcmSource is one running ffmpeg process decoding the remote audio to raw
// 48kHz stereo s16le on stdout.
type pcmSource struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	once   sync.Once
}

func openPCM(opts Options, link string, seekSec float64) (*pcmSource, error) {
	delayMax := int(opts.ReconnectDelayMax / time.Second)
	if delayMax < 1 {
		delayMax = 1
	}

	cmd := exec.Command(opts.FfmpegPath,
		"-ss", fmt.Sprintf("%.3f", seekSec),
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", strconv.Itoa(delayMax),
		"-i", link,
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("command start error: %w", err)
	}

	return &pcmSource{cmd: cmd, stdout: stdout}, nil
}

func (p *pcmSource) Read(b []byte) (int, error) {
	return p.stdout.Read(b)
}

func (p *pcmSource) Close() error {
	p.once.Do(func() {
		p.stdout.Close()
		if p.cmd.Process != nil {
			p.cmd.Process.Kill()
		}
		p.cmd.Wait()
	})
	return nil
}

// pcmStream reads decoded PCM and tracks the playback position. When the
// decoder exits well before the track's announced duration, the source is
// reopened at the last position instead of surfacing a premature EOF.
type pcmStream struct {
	opts  Options
	track *resolver.Track
	ctx   context.Context

	mu     sync.Mutex
	src    *pcmSource
	closed bool

	// Reader-goroutine state, no locking needed.
	seekSec    float64
	recoveries int
	reopen     *retry.Limiter
}

func newPCMStream(ctx context.Context, opts Options, track *resolver.Track) (*pcmStream, error) {
	src, err := openPCM(opts, track.StreamURL, 0)
	if err != nil {
		return nil, err
	}
	return &pcmStream{
		opts:   opts,
		track:  track,
		ctx:    ctx,
		src:    src,
		reopen: retry.New(time.Second, 2, 500*time.Millisecond, 2*time.Second),
	}, nil
}

func (s *pcmStream) Read(b []byte) (int, error) {
	for {
		s.mu.Lock()
		src, closed := s.src, s.closed
		s.mu.Unlock()
		if closed {
			return 0, errStreamClosed
		}

		n, err := src.Read(b)
		if n > 0 {
			s.seekSec += float64(n) / bytesPerSecond
			return n, nil
		}
		if err == nil {
			continue
		}
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, err
		}

		// A deliberate Close kills ffmpeg, which can surface here as EOF.
		// That must not look like a recoverable dropout.
		s.mu.Lock()
		closed = s.closed
		s.mu.Unlock()
		if closed {
			return 0, errStreamClosed
		}

		if !s.endedEarly() {
			return 0, io.EOF
		}
		if rerr := s.reopenAtSeek(); rerr != nil {
			log.Printf("[WARN] Stream recovery gave up for %q: %v", s.track.Title, rerr)
			return 0, io.EOF
		}
	}
}

// endedEarly reports whether the decoder died before the track should have
// finished. Sources without a known duration never recover; an exit within
// a couple of seconds of the end counts as a clean finish.
func (s *pcmStream) endedEarly() bool {
	if s.track.Duration <= 0 {
		return false
	}
	return s.seekSec+2 < s.track.Duration.Seconds()
}

func (s *pcmStream) reopenAtSeek() error {
	if s.recoveries >= s.opts.Retries {
		return fmt.Errorf("no recoveries left after %d attempts", s.recoveries)
	}
	s.recoveries++
	log.Printf("[WARN] Stream for %q ended early at %.1fs, reopening (attempt %d/%d)",
		s.track.Title, s.seekSec, s.recoveries, s.opts.Retries)

	s.mu.Lock()
	if s.src != nil {
		s.src.Close()
	}
	s.mu.Unlock()

	return s.reopen.Do(s.ctx, func() error {
		src, err := openPCM(s.opts, s.track.StreamURL, s.seekSec)
		if err != nil {
			return err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			src.Close()
			return errStreamClosed
		}
		s.src = src
		return nil
	})
}

// Close tears down the current ffmpeg process. Safe to call concurrently
// with Read; a blocked Read returns once its pipe is closed.
func (s *pcmStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.src != nil {
		s.src.Close()
	}
	return nil
}

// scaleSample applies the configured gain to one sample, clamping at the
// int16 range.
func scaleSample(sample int16, gain float64) int16 {
	if gain == 1 || gain <= 0 {
		return sample
	}
	v := float64(sample) * gain
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
