package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestFramePath(t *testing.T) {
	tests := []struct {
		index int
		ext   string
		want  string
	}{
		{1, "png", filepath.Join("out", "img", "001.png")},
		{42, ".jpg", filepath.Join("out", "img", "042.jpg")},
		{999, "png", filepath.Join("out", "img", "999.png")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FramePath("out", tt.index, tt.ext))
	}
}

func TestPNGSinkWritesDecodableFile(t *testing.T) {
	path := FramePath(t.TempDir(), 7, "png")
	red := color.RGBA{R: 255, A: 255}

	require.NoError(t, (&PNGSink{}).Capture(path, solid(4, 3, red)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
	assert.Equal(t, red, color.RGBAModel.Convert(img.At(2, 1)))
}

func TestPNGSinkReportsWriteError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "img")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0o644))

	path := FramePath(dir, 1, "png")
	err := (&PNGSink{}).Capture(path, solid(1, 1, color.RGBA{}))

	var we *WriteError
	require.True(t, errors.As(err, &we), "got %v", err)
	assert.Equal(t, path, we.Path)
}

func TestSinkFor(t *testing.T) {
	for _, ext := range []string{"png", ".PNG", "jpg", "jpeg"} {
		_, err := SinkFor(ext)
		assert.NoError(t, err, ext)
	}
	_, err := SinkFor("gif")
	assert.Error(t, err)
}

type memorySink struct {
	mu     sync.Mutex
	frames map[string]image.Image
	err    error
}

func (m *memorySink) Capture(path string, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return &WriteError{Path: path, Err: m.err}
	}
	if m.frames == nil {
		m.frames = map[string]image.Image{}
	}
	m.frames[path] = img
	return nil
}

func TestAsyncSinkCopiesFrames(t *testing.T) {
	mem := &memorySink{}
	s := NewAsyncSink(context.Background(), mem, 2)

	img := solid(2, 2, color.RGBA{G: 255, A: 255})
	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Capture(FramePath("base", i, "png"), img))
	}
	// Reusing the source must not affect queued frames.
	img.SetRGBA(0, 0, color.RGBA{B: 255, A: 255})
	require.NoError(t, s.Close())

	require.Len(t, mem.frames, 5)
	for path, f := range mem.frames {
		assert.Equal(t, color.RGBA{G: 255, A: 255}, color.RGBAModel.Convert(f.At(0, 0)), path)
	}
}

func TestAsyncSinkPropagatesFirstError(t *testing.T) {
	boom := errors.New("disk full")
	s := NewAsyncSink(context.Background(), &memorySink{err: boom}, 1)

	require.NoError(t, s.Capture("a.png", solid(1, 1, color.RGBA{})))
	err := s.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var we *WriteError
	assert.True(t, errors.As(err, &we))
	assert.ErrorIs(t, s.Capture("b.png", solid(1, 1, color.RGBA{})), ErrClosed)
}

func TestAsyncSinkRejectsAfterFailure(t *testing.T) {
	boom := errors.New("read-only")
	s := NewAsyncSink(context.Background(), &memorySink{err: boom}, 1)
	require.NoError(t, s.Capture("a.png", solid(1, 1, color.RGBA{})))

	// With one worker the next Capture waits for the failed write, after
	// which the failure is visible.
	_ = s.Capture("b.png", solid(1, 1, color.RGBA{}))
	assert.ErrorIs(t, s.Capture("c.png", solid(1, 1, color.RGBA{})), boom)
	assert.ErrorIs(t, s.Close(), boom)
}
