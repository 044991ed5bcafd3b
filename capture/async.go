package capture

import (
	"context"
	"errors"
	"image"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Capture after Close.
var ErrClosed = errors.New("capture: sink closed")

// AsyncSink hands frames to a bounded pool of writers. Frames are copied
// before Capture returns, so callers may reuse their image.
type AsyncSink struct {
	next Sink
	g    *errgroup.Group
	ctx  context.Context

	mu     sync.Mutex
	closed bool
}

// NewAsyncSink wraps next with at most workers concurrent writes. Capture
// blocks while all workers are busy.
func NewAsyncSink(ctx context.Context, next Sink, workers int) *AsyncSink {
	if workers <= 0 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	return &AsyncSink{next: next, g: g, ctx: gctx}
}

// Capture queues a copy of img. Once a write has failed, every later call
// returns that failure.
func (s *AsyncSink) Capture(path string, img image.Image) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if err := context.Cause(s.ctx); err != nil {
		return err
	}

	frame := image.NewRGBA(img.Bounds())
	draw.Copy(frame, frame.Bounds().Min, img, img.Bounds(), draw.Src, nil)

	s.g.Go(func() error {
		if err := s.ctx.Err(); err != nil {
			return nil
		}
		return s.next.Capture(path, frame)
	})
	return nil
}

// Close waits for queued writes and returns the first write error.
func (s *AsyncSink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.g.Wait()
}
