package replay

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/younwookim/supercat/internal/domain/entity"
)

// ErrNoFrames is returned when saving a replay with nothing recorded
var ErrNoFrames = errors.New("no frames to save")

// Recorder handles input recording for replay
type Recorder struct {
	data      ReplayData
	recording bool
	frame     int
}

// NewRecorder creates a recorder for a stage stepped at tps
func NewRecorder(stage string, tps int) *Recorder {
	return &Recorder{
		data: ReplayData{
			Version:   FormatVersion,
			Stage:     stage,
			TPS:       tps,
			StartTime: time.Now().Format(time.RFC3339),
			Frames:    make([]FrameInput, 0, 3600), // Pre-allocate for ~1 minute at 60fps
		},
		recording: true,
		frame:     0,
	}
}

// RecordFrame records a single frame's input
func (r *Recorder) RecordFrame(in entity.InputSnapshot) {
	if !r.recording {
		return
	}

	r.data.Frames = append(r.data.Frames, NewFrameInput(r.frame, in))
	r.frame++
}

// Bytes encodes the recorded replay
func (r *Recorder) Bytes() ([]byte, error) {
	if len(r.data.Frames) == 0 {
		return nil, ErrNoFrames
	}

	var buf bytes.Buffer
	if err := Encode(&buf, &r.data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the replay data to a file
func (r *Recorder) Save(filename string) error {
	data, err := r.Bytes()
	if err != nil {
		return err
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	return nil
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return len(r.data.Frames)
}

// Data returns the replay data recorded so far
func (r *Recorder) Data() ReplayData {
	return r.data
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}
