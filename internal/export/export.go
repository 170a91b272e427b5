// Package export rasterizes the visible crop frame of the avatar dialog
// into a fixed-size square image ready to upload as a SafeChat avatar.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"math"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/freakbeast14/SafeChat/internal/viewport"
)

const (
	// Size is the side length of the square output raster. It is fixed
	// alongside viewport.FrameSize; the source rectangle derivation
	// below assumes both stay in sync with the dialog.
	Size = 256

	// DefaultQuality is the lossy encoder quality factor.
	DefaultQuality = 90
)

// Format selects the lossy encoding of the exported avatar.
type Format int

const (
	JPEG Format = iota
	WebP
)

// ParseFormat maps a configuration string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "jpg", "jpeg":
		return JPEG, nil
	case "webp":
		return WebP, nil
	default:
		return JPEG, fmt.Errorf("unknown avatar format %q", s)
	}
}

func (f Format) String() string {
	if f == WebP {
		return "webp"
	}
	return "jpeg"
}

// Ext returns the file extension for the format, with the leading dot.
func (f Format) Ext() string {
	if f == WebP {
		return ".webp"
	}
	return ".jpg"
}

// Spec describes the output raster: side length, encoding, and quality.
type Spec struct {
	Size    int
	Format  Format
	Quality int
}

// DefaultSpec returns the avatar output contract the dialog ships with.
func DefaultSpec() Spec {
	return Spec{Size: Size, Format: JPEG, Quality: DefaultQuality}
}

// Rect is a square region in native image pixel space.
type Rect struct {
	X, Y, Size float64
}

// SourceRect inverse-maps the crop frame through the view transform:
// the image's top-left corner in frame-local coordinates is
// frameCenter - displaySize/2 + offset, so the frame origin maps back to
// -imageOrigin/displayScale in native pixels. The result is square
// because the frame is. Given a clamped state it always lies within the
// image bounds.
func SourceRect(st viewport.State, nativeW, nativeH, frame int) Rect {
	ds := viewport.BaseScale(nativeW, nativeH, frame) * st.Scale
	originX := float64(frame)/2 - float64(nativeW)*ds/2 + st.Offset.X
	originY := float64(frame)/2 - float64(nativeH)*ds/2 + st.Offset.Y
	return Rect{
		X:    -originX / ds,
		Y:    -originY / ds,
		Size: float64(frame) / ds,
	}
}

// Render resamples the source sub-rectangle corresponding to the crop
// frame into a spec.Size square image. The state is re-clamped first, so
// out-of-range values from a collaborator are corrected rather than
// rejected. The source must be fully decoded.
func Render(src image.Image, st viewport.State, frame int, spec Spec) (*image.NRGBA, error) {
	if src == nil {
		return nil, errors.New("export: no source image")
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.New("export: source dimensions unknown")
	}
	st = viewport.Clamp(st, b.Dx(), b.Dy(), frame)

	r := SourceRect(st, b.Dx(), b.Dy(), frame)
	x0 := int(math.Round(r.X))
	y0 := int(math.Round(r.Y))
	side := int(math.Round(r.Size))
	if side < 1 {
		side = 1
	}
	rect := image.Rect(x0, y0, x0+side, y0+side).Add(b.Min).Intersect(b)
	if rect.Empty() {
		return nil, errors.New("export: crop frame maps outside the image")
	}

	out := spec.Size
	if out <= 0 {
		out = Size
	}
	return imaging.Resize(imaging.Crop(src, rect), out, out, imaging.Lanczos), nil
}

// Encode writes img to w in the spec's lossy format at its fixed
// quality.
func Encode(w io.Writer, img image.Image, spec Spec) error {
	q := spec.Quality
	if q <= 0 {
		q = DefaultQuality
	}
	switch spec.Format {
	case WebP:
		return webp.Encode(w, img, &webp.Options{Quality: float32(q)})
	default:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(q))
	}
}

// Run renders and encodes in one step, returning the encoded bytes.
func Run(src image.Image, st viewport.State, frame int, spec Spec) ([]byte, error) {
	img, err := Render(src, st, frame, spec)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, spec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Async renders and encodes in the background from the value snapshot st
// taken at call time; interactive state may keep changing afterwards
// without affecting the result. The sink is invoked exactly once on
// success and not at all on failure, which degrades to a logged no-op.
func Async(src image.Image, st viewport.State, frame int, spec Spec, sink func([]byte)) {
	if sink == nil {
		return
	}
	go func() {
		data, err := Run(src, st, frame, spec)
		if err != nil {
			log.Printf("avatar export skipped: %v", err)
			return
		}
		sink(data)
	}()
}
