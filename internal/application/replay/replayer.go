package replay

import (
	"fmt"
	"os"
	"time"

	"github.com/younwookim/supercat/internal/domain/entity"
)

// Replayer handles input playback from recorded data
type Replayer struct {
	data  ReplayData
	frame int
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{
		data:  data,
		frame: 0,
	}
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Decode(file)
}

// Next returns the input for the current frame and advances.
// It returns false once every frame has been played.
func (r *Replayer) Next() (entity.InputSnapshot, bool) {
	if r.frame >= len(r.data.Frames) {
		return entity.InputSnapshot{}, false
	}

	fi := r.data.Frames[r.frame]
	r.frame++
	return fi.Snapshot(), true
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Stage returns the stage the replay was recorded on
func (r *Replayer) Stage() string {
	return r.data.Stage
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
}

// CreateTestReplayData creates replay data for testing, holding dir every frame
func CreateTestReplayData(frames int, dir int) ReplayData {
	data := ReplayData{
		Version:   FormatVersion,
		Stage:     "test",
		TPS:       60,
		StartTime: time.Now().Format(time.RFC3339),
		Frames:    make([]FrameInput, frames),
	}

	for i := 0; i < frames; i++ {
		data.Frames[i] = FrameInput{F: i, Dir: dir}
	}

	return data
}
