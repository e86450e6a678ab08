package audio

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/deadside-ru/hub/pkg/api"
)

// fakeSource yields a fixed set of frames, then blocks briefly between
// reads so the capture loop can be stopped deterministically.
type fakeSource struct {
	frames  [][]int16
	next    int
	started bool
	stopped bool
}

func (f *fakeSource) Start() error { f.started = true; return nil }
func (f *fakeSource) Stop() error  { f.stopped = true; return nil }
func (f *fakeSource) ReadFrame() ([]int16, error) {
	if f.next >= len(f.frames) {
		time.Sleep(5 * time.Millisecond)
		return []int16{}, nil
	}
	frame := f.frames[f.next]
	f.next++
	return frame, nil
}

func TestRecorderLifecycle(t *testing.T) {
	src := &fakeSource{frames: [][]int16{{1, 2}, {3, 4}}}
	var dispatched *api.Attachment
	rec := NewRecorder(
		func() (Source, error) { return src, nil },
		func(att *api.Attachment) error { dispatched = att; return nil },
	)

	if rec.Recording() {
		t.Fatal("fresh recorder must be idle")
	}
	if err := rec.Start(); err != nil {
		t.Fatalf("Start: unexpected error: %v", err)
	}
	if !rec.Recording() {
		t.Fatal("recorder should be recording after Start")
	}
	if err := rec.Start(); err != ErrAlreadyRecording {
		t.Errorf("second Start = %v, want ErrAlreadyRecording", err)
	}

	// Give the capture loop a moment to drain the fake frames.
	time.Sleep(30 * time.Millisecond)

	att, err := rec.Stop()
	if err != nil {
		t.Fatalf("Stop: unexpected error: %v", err)
	}
	if rec.Recording() {
		t.Error("recorder must return to idle after Stop")
	}
	if !src.stopped {
		t.Error("the input device must be released on Stop")
	}
	if dispatched != att {
		t.Error("Stop must hand the attachment to dispatch")
	}
	if att.Filename != "voice_message.wav" || att.ContentType != "audio/wav" {
		t.Errorf("attachment = %+v", att)
	}

	// 44-byte header plus four samples.
	if len(att.Data) < 44+8 {
		t.Fatalf("len(Data) = %d, want at least %d", len(att.Data), 44+8)
	}
	if _, err := rec.Stop(); err != ErrNotRecording {
		t.Errorf("Stop while idle = %v, want ErrNotRecording", err)
	}
}

func TestRecorderStartFailureStaysIdle(t *testing.T) {
	rec := NewRecorder(
		func() (Source, error) { return nil, errors.New("access denied") },
		nil,
	)

	if err := rec.Start(); err == nil {
		t.Fatal("Start: expected error")
	}
	if rec.Recording() {
		t.Error("failed Start must not transition to recording")
	}
}

func TestRecorderEmptyRecordingStillDispatches(t *testing.T) {
	src := &fakeSource{}
	var dispatched *api.Attachment
	rec := NewRecorder(
		func() (Source, error) { return src, nil },
		func(att *api.Attachment) error { dispatched = att; return nil },
	)

	if err := rec.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	att, err := rec.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if dispatched == nil {
		t.Fatal("zero captured frames must still dispatch")
	}
	if len(att.Data) != 44 {
		t.Errorf("empty recording payload = %d bytes, want WAV header only (44)", len(att.Data))
	}
}

func TestEncodeWAV(t *testing.T) {
	pcm := []int16{0, 100, -100, 32767}
	data := EncodeWAV(pcm, RecordSampleRate)

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("bad container magic: %q %q", data[0:4], data[8:12])
	}
	if string(data[12:16]) != "fmt " || string(data[36:40]) != "data" {
		t.Fatalf("bad chunk ids: %q %q", data[12:16], data[36:40])
	}
	if got := binary.LittleEndian.Uint32(data[24:28]); got != RecordSampleRate {
		t.Errorf("sample rate = %d, want %d", got, RecordSampleRate)
	}
	if got := binary.LittleEndian.Uint32(data[40:44]); got != uint32(len(pcm)*2) {
		t.Errorf("data length = %d, want %d", got, len(pcm)*2)
	}
	if got := int16(binary.LittleEndian.Uint16(data[46:48])); got != 100 {
		t.Errorf("second sample = %d, want 100", got)
	}
	if len(data) != 44+len(pcm)*2 {
		t.Errorf("total length = %d, want %d", len(data), 44+len(pcm)*2)
	}
}
