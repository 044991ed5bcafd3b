package system

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/milk9111/glyphfall/capture"
)

const (
	DefaultRecordLimit = 999
	DefaultRecordExt   = "png"
)

type RecorderState int

const (
	Recording RecorderState = iota
	Idle
)

func (s RecorderState) String() string {
	switch s {
	case Recording:
		return "recording"
	case Idle:
		return "idle"
	default:
		return fmt.Sprintf("RecorderState(%d)", int(s))
	}
}

// RecordingState is a snapshot of the recorder counters.
type RecordingState struct {
	Enabled    bool
	FrameCount int
	Limit      int
}

type RecorderConfig struct {
	Enabled bool
	// Limit is the number of frames captured before the recorder goes idle.
	// Zero means unset and selects DefaultRecordLimit; negative is an error.
	Limit int
	// Dir is the base directory; frames go to Dir/img. Empty means the
	// directory holding go.mod above the working directory.
	Dir string
	Ext string
}

// FrameSource provides the frame that was just rendered.
type FrameSource interface {
	Frame() (image.Image, error)
}

// Recorder captures a bounded sequence of frames, then goes idle for good.
type Recorder struct {
	sink  capture.Sink
	base  string
	ext   string
	limit int

	state RecorderState
	count int

	// OnFinish runs once, on the cycle the recorder goes idle.
	OnFinish func()
}

func NewRecorder(cfg RecorderConfig, sink capture.Sink) (*Recorder, error) {
	if sink == nil {
		return nil, errors.New("recorder: nil sink")
	}
	if cfg.Limit < 0 {
		return nil, fmt.Errorf("recorder: negative limit %d", cfg.Limit)
	}
	base := cfg.Dir
	if base == "" {
		dir, err := ProjectDir()
		if err != nil {
			return nil, fmt.Errorf("recorder: resolve base path: %w", err)
		}
		base = dir
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("recorder: resolve base path: %w", err)
	}

	r := &Recorder{
		sink:  sink,
		base:  base,
		ext:   cfg.Ext,
		limit: cfg.Limit,
	}
	if r.ext == "" {
		r.ext = DefaultRecordExt
	}
	if r.limit == 0 {
		r.limit = DefaultRecordLimit
	}
	if !cfg.Enabled {
		r.state = Idle
	}
	return r, nil
}

// Cycle runs once per rendered frame. The frame is only requested from src
// when it is going to be captured.
func (r *Recorder) Cycle(src FrameSource) error {
	if r.state != Recording {
		return nil
	}
	if r.count >= r.limit {
		r.state = Idle
		r.count = 0
		log.Printf("recorder: finished after %d frames in %s", r.limit, filepath.Join(r.base, "img"))
		if r.OnFinish != nil {
			r.OnFinish()
		}
		return nil
	}

	r.count++
	img, err := src.Frame()
	if err != nil {
		return fmt.Errorf("recorder: frame %d: %w", r.count, err)
	}
	return r.sink.Capture(capture.FramePath(r.base, r.count, r.ext), img)
}

func (r *Recorder) State() RecorderState {
	return r.state
}

func (r *Recorder) Snapshot() RecordingState {
	return RecordingState{
		Enabled:    r.state == Recording,
		FrameCount: r.count,
		Limit:      r.limit,
	}
}

// Base returns the directory frames are written under.
func (r *Recorder) Base() string {
	return r.base
}

// ProjectDir returns the nearest directory at or above the working directory
// that holds a go.mod file, or the working directory when there is none.
func ProjectDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for dir := wd; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return wd, nil
		}
		dir = parent
	}
}
