// Package sink writes finished images.
package sink

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/chai2010/webp"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Sink receives the finished globe.
type Sink interface {
	Emit(img image.Image) error
}

// PreviewFunc is handed the path of a written image.
type PreviewFunc func(path string) error

// File writes PNG or WebP depending on the extension of Path. The image is
// written to a temporary file next to Path and renamed into place, so a
// failed write never leaves a partial image behind.
type File struct {
	Path    string
	Quality int // WebP only; 100 means lossless
}

func (f File) Emit(img image.Image) (err error) {
	format := strings.ToLower(filepath.Ext(f.Path))
	var buf bytes.Buffer
	if err := Encode(&buf, img, format, f.Quality); err != nil {
		return err
	}

	dir := filepath.Dir(f.Path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(dir, ".globe-*"+format)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}

// Encode writes img to w. format is a file extension such as ".png".
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case ".png":
		return png.Encode(w, img)
	case ".webp":
		options := &webp.Options{Lossless: quality >= 100, Quality: float32(quality)}
		return webp.Encode(w, img, options)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// OpenViewer opens path in the platform's default image viewer without
// waiting for it to exit.
func OpenViewer(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
