// Package capture writes rendered frames to disk.
package capture

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// Sink accepts a frame and the path it should be stored at.
type Sink interface {
	Capture(path string, img image.Image) error
}

// WriteError reports a frame that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("capture: write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// FramePath returns <base>/img/NNN.<ext> for a frame index.
func FramePath(base string, index int, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return filepath.Join(base, "img", fmt.Sprintf("%03d.%s", index, ext))
}

// PNGSink writes frames as PNG files, creating parent directories as needed.
type PNGSink struct {
	Encoder png.Encoder
}

func (s *PNGSink) Capture(path string, img image.Image) error {
	return writeFile(path, func(f *os.File) error {
		return s.Encoder.Encode(f, img)
	})
}

// JPEGSink writes frames as JPEG files.
type JPEGSink struct {
	Quality int
}

func (s *JPEGSink) Capture(path string, img image.Image) error {
	q := s.Quality
	if q <= 0 {
		q = jpeg.DefaultQuality
	}
	return writeFile(path, func(f *os.File) error {
		return jpeg.Encode(f, img, &jpeg.Options{Quality: q})
	})
}

// SinkFor returns the file sink for an image extension.
func SinkFor(ext string) (Sink, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return &PNGSink{}, nil
	case "jpg", "jpeg":
		return &JPEGSink{}, nil
	default:
		return nil, fmt.Errorf("capture: unsupported image extension %q", ext)
	}
}

func writeFile(path string, encode func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := encode(f); err != nil {
		f.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
