package replay

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/younwookim/supercat/internal/domain/entity"
)

// FormatVersion is written into every replay
const FormatVersion = "2.0"

// FrameInput records input state for a single frame
type FrameInput struct {
	F   int  `json:"f"`             // Frame number
	Dir int  `json:"dir,omitempty"` // -1 left, 1 right
	J   bool `json:"j,omitempty"`   // Jump held
	D   bool `json:"d,omitempty"`   // Down held
	R   bool `json:"r,omitempty"`   // Respawn requested
}

// NewFrameInput converts a snapshot into a frame record
func NewFrameInput(frame int, in entity.InputSnapshot) FrameInput {
	return FrameInput{F: frame, Dir: in.Dir, J: in.JumpHeld, D: in.DownHeld, R: in.Respawn}
}

// Snapshot converts the record back into the input the session consumes
func (fi FrameInput) Snapshot() entity.InputSnapshot {
	in := entity.NewInputSnapshot(fi.Dir < 0, fi.Dir > 0, fi.J, fi.D)
	in.Respawn = fi.R
	return in
}

// ReplayData contains all data needed to replay a session.
// TPS is the fixed step rate the frames were recorded at.
type ReplayData struct {
	Version   string       `json:"version"`
	Stage     string       `json:"stage"`
	TPS       int          `json:"tps"`
	StartTime string       `json:"startTime"`
	Frames    []FrameInput `json:"frames"`
}

// Encode writes replay data as indented JSON
func Encode(w io.Writer, data *ReplayData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}
	return nil
}

// Decode reads replay data written by Encode
func Decode(r io.Reader) (*ReplayData, error) {
	var data ReplayData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	return &data, nil
}
