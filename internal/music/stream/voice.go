// Package stream moves audio into Discord voice channels: ffmpeg decodes
// the resolved source to raw PCM, gopus packs it into Opus frames and a
// send loop feeds them to the voice connection.
package stream

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"
	"layeh.com/gopus"

	"groovebot/internal/music/resolver"
)

// Voice is the playback transport for one guild. It owns the guild's voice
// connection and at most one active stream at a time.
type Voice struct {
	mu      sync.Mutex
	dg      *discordgo.Session
	guildID string
	opts    Options

	vc     *discordgo.VoiceConnection
	stream *activeStream
}

func NewVoice(dg *discordgo.Session, guildID string, opts Options) *Voice {
	return &Voice{dg: dg, guildID: guildID, opts: opts}
}

// activeStream is the control surface of one running send loop.
type activeStream struct {
	ctx    context.Context
	cancel context.CancelFunc
	// finished is closed once the send loop has fully wound down and the
	// done callback has returned.
	finished chan struct{}

	mu     sync.Mutex
	paused bool
	resume chan struct{}
}

func (a *activeStream) pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.paused {
		a.paused = true
		a.resume = make(chan struct{})
	}
}

func (a *activeStream) unpause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.paused {
		a.paused = false
		close(a.resume)
	}
}

func (a *activeStream) isPaused() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.paused
}

// gate blocks while the stream is paused. It reports false once the stream
// has been cancelled.
func (a *activeStream) gate() bool {
	for {
		a.mu.Lock()
		paused, resume := a.paused, a.resume
		a.mu.Unlock()

		if !paused {
			select {
			case <-a.ctx.Done():
				return false
			default:
				return true
			}
		}
		select {
		case <-resume:
		case <-a.ctx.Done():
			return false
		}
	}
}

// Join connects to the given voice channel. If the connection is already up
// in another channel of the guild it is moved.
func (v *Voice) Join(channelID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.vc != nil && v.vc.ChannelID == channelID {
		return nil
	}
	vc, err := v.dg.ChannelVoiceJoin(v.guildID, channelID, false, true)
	if err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}
	v.vc = vc
	log.Printf("[INFO] Joined voice channel %s on guild %s", channelID, v.guildID)
	return nil
}

// Leave disconnects from the voice channel. Any active stream should be
// stopped first.
func (v *Voice) Leave() error {
	v.mu.Lock()
	vc := v.vc
	v.vc = nil
	v.mu.Unlock()

	if vc == nil {
		return nil
	}
	if err := vc.Disconnect(); err != nil {
		return fmt.Errorf("voice disconnect error: %w", err)
	}
	log.Printf("[INFO] Left voice channel on guild %s", v.guildID)
	return nil
}

// Play spawns ffmpeg for the track and starts the send loop. done fires
// exactly once from the loop's goroutine when the stream ends.
func (v *Voice) Play(track *resolver.Track, done func(error)) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.vc == nil {
		return errors.New("not connected to a voice channel")
	}
	if v.stream != nil {
		return errors.New("a stream is already active")
	}

	ctx, cancel := context.WithCancel(context.Background())
	src, err := newPCMStream(ctx, v.opts, track)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to open stream for %q: %w", track.Title, err)
	}

	st := &activeStream{ctx: ctx, cancel: cancel, finished: make(chan struct{})}
	v.stream = st

	// Unblock a Read stuck on the pipe when the stream is cancelled.
	go func() {
		<-ctx.Done()
		src.Close()
	}()

	log.Printf("[INFO] Streaming %q to channel %s on guild %s", track.Title, v.vc.ChannelID, v.guildID)
	go v.sendLoop(st, src, v.vc, done)
	return nil
}

// Stop cancels the active stream and waits for its send loop to wind down,
// so a follow-up Play never races the old stream.
func (v *Voice) Stop() {
	v.mu.Lock()
	st := v.stream
	v.mu.Unlock()

	if st == nil {
		return
	}
	st.cancel()
	<-st.finished
}

func (v *Voice) Pause() {
	v.mu.Lock()
	st, vc := v.stream, v.vc
	v.mu.Unlock()

	if st == nil {
		return
	}
	st.pause()
	if vc != nil {
		vc.Speaking(false)
	}
}

func (v *Voice) Resume() {
	v.mu.Lock()
	st, vc := v.stream, v.vc
	v.mu.Unlock()

	if st == nil {
		return
	}
	if vc != nil {
		vc.Speaking(true)
	}
	st.unpause()
}

func (v *Voice) Playing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stream != nil && !v.stream.isPaused()
}

func (v *Voice) Paused() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stream != nil && v.stream.isPaused()
}

func (v *Voice) ChannelID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.vc == nil {
		return ""
	}
	return v.vc.ChannelID
}

func (v *Voice) sendLoop(st *activeStream, src io.ReadCloser, vc *discordgo.VoiceConnection, done func(error)) {
	err := v.encodeAndSend(st, src, vc)
	src.Close()

	v.mu.Lock()
	if v.stream == st {
		v.stream = nil
	}
	v.mu.Unlock()

	done(err)
	close(st.finished)
}

func (v *Voice) encodeAndSend(st *activeStream, src io.Reader, vc *discordgo.VoiceConnection) error {
	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return fmt.Errorf("encoder error: %w", err)
	}

	vc.Speaking(true)
	defer vc.Speaking(false)

	pcmBuf := make([]byte, frameSize*channels*2)
	intBuf := make([]int16, frameSize*channels)

	for {
		if !st.gate() {
			return nil
		}

		if _, err := io.ReadFull(src, pcmBuf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			if st.ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}

		for i := range intBuf {
			intBuf[i] = scaleSample(int16(binary.LittleEndian.Uint16(pcmBuf[i*2:i*2+2])), v.opts.Gain)
		}

		opus, err := encoder.Encode(intBuf, frameSize, len(pcmBuf))
		if err != nil {
			return fmt.Errorf("encode error: %w", err)
		}

		select {
		case vc.OpusSend <- opus:
		case <-st.ctx.Done():
			return nil
		}
	}
}
