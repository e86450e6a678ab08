package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/deadside-ru/hub/pkg/api"
)

const (
	// RecordSampleRate is the capture rate for voice messages.
	RecordSampleRate = 48000
	// RecordFrameSize is 20ms of audio at RecordSampleRate.
	RecordFrameSize = 960

	voiceFilename = "voice_message.wav"
)

var ErrAlreadyRecording = errors.New("audio: already recording")
var ErrNotRecording = errors.New("audio: not recording")

// DispatchFunc receives the finalized recording as an attachment.
type DispatchFunc func(att *api.Attachment) error

// Recorder buffers captured audio into a single attachment per
// recording session. States: idle, recording, idle again after Stop.
type Recorder struct {
	mu         sync.Mutex
	openSource func() (Source, error)
	dispatch   DispatchFunc
	sampleRate int

	source Source
	frames []int16
	stop   chan struct{}
	done   chan struct{}
}

// NewRecorder creates a recorder. openSource acquires the input device;
// dispatch is invoked with the finished attachment on Stop.
func NewRecorder(openSource func() (Source, error), dispatch DispatchFunc) *Recorder {
	return &Recorder{
		openSource: openSource,
		dispatch:   dispatch,
		sampleRate: RecordSampleRate,
	}
}

// Recording reports whether a recording session is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source != nil
}

// Start acquires the input device and begins buffering. A denied or
// unavailable device leaves the recorder idle.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.source != nil {
		return ErrAlreadyRecording
	}

	source, err := r.openSource()
	if err != nil {
		slog.Error("failed to open audio input", "err", err)
		return fmt.Errorf("audio: open input: %w", err)
	}
	if err := source.Start(); err != nil {
		slog.Error("failed to start audio input", "err", err)
		return fmt.Errorf("audio: start input: %w", err)
	}

	r.source = source
	r.frames = nil
	r.stop = make(chan struct{})
	r.done = make(chan struct{})

	go r.captureLoop(source, r.stop, r.done)
	return nil
}

func (r *Recorder) captureLoop(source Source, stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}

		frame, err := source.ReadFrame()
		if err != nil {
			slog.Debug("capture read error", "err", err)
			return
		}

		r.mu.Lock()
		r.frames = append(r.frames, frame...)
		r.mu.Unlock()
	}
}

// Stop finalizes the buffered audio into one WAV attachment, releases
// the device, and hands the attachment to dispatch. A recording with
// zero captured frames still dispatches an empty attachment.
func (r *Recorder) Stop() (*api.Attachment, error) {
	r.mu.Lock()
	source := r.source
	stop := r.stop
	done := r.done
	r.mu.Unlock()

	if source == nil {
		return nil, ErrNotRecording
	}

	close(stop)
	<-done
	_ = source.Stop()

	r.mu.Lock()
	pcm := r.frames
	r.source = nil
	r.frames = nil
	r.stop = nil
	r.done = nil
	r.mu.Unlock()

	att := &api.Attachment{
		Filename:    voiceFilename,
		ContentType: "audio/wav",
		Data:        EncodeWAV(pcm, r.sampleRate),
	}

	if r.dispatch != nil {
		if err := r.dispatch(att); err != nil {
			slog.Error("failed to dispatch voice message", "err", err)
			return att, err
		}
	}
	return att, nil
}
