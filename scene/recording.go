package scene

import (
	"context"

	"github.com/milk9111/glyphfall/capture"
	"github.com/milk9111/glyphfall/config"
	"github.com/milk9111/glyphfall/system"
)

// Recording is a recorder writing through an asynchronous file sink.
type Recording struct {
	*system.Recorder
	sink *capture.AsyncSink
}

// NewRecording creates the recorder for rc. The sink stops accepting frames
// when ctx is cancelled.
func NewRecording(ctx context.Context, rc config.RecordConfig) (*Recording, error) {
	file, err := capture.SinkFor(rc.Ext)
	if err != nil {
		return nil, err
	}
	sink := capture.NewAsyncSink(ctx, file, rc.Workers)
	rec, err := system.NewRecorder(system.RecorderConfig{
		Enabled: rc.Enabled,
		Limit:   rc.Limit,
		Dir:     rc.Dir,
		Ext:     rc.Ext,
	}, sink)
	if err != nil {
		_ = sink.Close()
		return nil, err
	}
	return &Recording{Recorder: rec, sink: sink}, nil
}

// Close waits for pending frame writes.
func (r *Recording) Close() error {
	return r.sink.Close()
}
