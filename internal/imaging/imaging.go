// Package imaging normalizes uploaded profile pictures: center-crop to a
// square, scale down, re-encode as JPEG under a deterministic filename.
package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

var ErrNotImage = errors.New("not an image")

const (
	defaultSize = 500
	jpegQuality = 90
)

type Processor struct {
	dir  string
	size int
}

func NewProcessor(dir string) *Processor {
	return &Processor{dir: dir, size: defaultSize}
}

// Save validates and normalizes one uploaded image, writes it under the
// processor's directory, and returns the generated filename.
func (p *Processor) Save(r io.Reader, contentType string, userID uuid.UUID) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}

	src, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, p.size, p.size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, centerSquare(src.Bounds()), draw.Src, nil)

	name := fmt.Sprintf("user-%s-%d.jpeg", userID, time.Now().Unix())

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating image dir: %w", err)
	}
	f, err := os.Create(filepath.Join(p.dir, name))
	if err != nil {
		return "", fmt.Errorf("creating image file: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encoding image: %w", err)
	}
	return name, nil
}

func centerSquare(b image.Rectangle) image.Rectangle {
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}
