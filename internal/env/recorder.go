package env

import "errors"

// ErrRecordingFull is returned by Record once the recorder holds its limit.
var ErrRecordingFull = errors.New("env: recording is full")

// Recorder keeps the frames of one playthrough in order. Its Record method
// fits the frame callback of a playthrough, so a full recorder stops it.
type Recorder struct {
	Seed   int64
	frames []Snapshot
	limit  int
}

// NewRecorder creates a recorder for the game seeded with seed. A limit of
// zero or less keeps every frame.
func NewRecorder(seed int64, limit int) *Recorder {
	return &Recorder{Seed: seed, frames: make([]Snapshot, 0, 256), limit: limit}
}

// Record appends a frame
func (r *Recorder) Record(s Snapshot) error {
	if r.limit > 0 && len(r.frames) >= r.limit {
		return ErrRecordingFull
	}
	r.frames = append(r.frames, s)
	return nil
}

// Frames returns the recorded frames, oldest first
func (r *Recorder) Frames() []Snapshot {
	return r.frames
}

func (r *Recorder) Len() int { return len(r.frames) }

// Final returns the last recorded frame
func (r *Recorder) Final() (Snapshot, bool) {
	if len(r.frames) == 0 {
		return Snapshot{}, false
	}
	return r.frames[len(r.frames)-1], true
}

// Turns counts the ticks on which the heading changed.
func (r *Recorder) Turns() int {
	turns := 0
	for i := 1; i < len(r.frames); i++ {
		if r.frames[i].Direction != r.frames[i-1].Direction {
			turns++
		}
	}
	return turns
}
