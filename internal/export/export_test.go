package export

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/freakbeast14/SafeChat/internal/viewport"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 255})
		}
	}
	return img
}

func TestSourceRectAnalytic(t *testing.T) {
	// Native 1000x600, frame 240: baseScale = max(0.24, 0.4) = 0.4.
	// At scale 1.5 the display scale is 0.6, so the display size is
	// 600x360, the image origin is (-170, -65), and the frame maps back
	// to origin (283.333..., 108.333...) with side 400.
	st := viewport.State{Scale: 1.5, Offset: viewport.Offset{X: 10, Y: -5}}
	r := SourceRect(st, 1000, 600, 240)
	require.InDelta(t, 170.0/0.6, r.X, 1e-9)
	require.InDelta(t, 65.0/0.6, r.Y, 1e-9)
	require.InDelta(t, 400.0, r.Size, 1e-9)

	// The sub-rectangle stays within the native bounds.
	require.GreaterOrEqual(t, r.X, 0.0)
	require.GreaterOrEqual(t, r.Y, 0.0)
	require.LessOrEqual(t, r.X+r.Size, 1000.0+1e-9)
	require.LessOrEqual(t, r.Y+r.Size, 600.0+1e-9)
}

func TestSourceRectDeterministic(t *testing.T) {
	st := viewport.State{Scale: 1.5, Offset: viewport.Offset{X: 10, Y: -5}}
	first := SourceRect(st, 1000, 600, 240)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, SourceRect(st, 1000, 600, 240))
	}
}

func TestSourceRectIdentityFit(t *testing.T) {
	// A 240x240 image at scale 1 maps the frame onto the whole image.
	r := SourceRect(viewport.DefaultState(), 240, 240, 240)
	require.InDelta(t, 0.0, r.X, 1e-9)
	require.InDelta(t, 0.0, r.Y, 1e-9)
	require.InDelta(t, 240.0, r.Size, 1e-9)
}

func TestRenderOutputDimensions(t *testing.T) {
	src := gradient(1000, 600)
	st := viewport.State{Scale: 1.5, Offset: viewport.Offset{X: 10, Y: -5}}
	out, err := Render(src, st, 240, DefaultSpec())
	require.NoError(t, err)
	require.Equal(t, Size, out.Bounds().Dx())
	require.Equal(t, Size, out.Bounds().Dy())
}

func TestRenderCorrectsWildState(t *testing.T) {
	src := gradient(300, 500)
	st := viewport.State{Scale: 40, Offset: viewport.Offset{X: -9999, Y: 9999}}
	out, err := Render(src, st, 240, DefaultSpec())
	require.NoError(t, err)
	require.Equal(t, Size, out.Bounds().Dx())
}

func TestRenderRequiresDecodedSource(t *testing.T) {
	_, err := Render(nil, viewport.DefaultState(), 240, DefaultSpec())
	require.Error(t, err)

	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	_, err = Render(empty, viewport.DefaultState(), 240, DefaultSpec())
	require.Error(t, err)
}

func TestRunEncodesDecodableJPEG(t *testing.T) {
	data, err := Run(gradient(480, 480), viewport.DefaultState(), 240, DefaultSpec())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, Size, img.Bounds().Dx())
	require.Equal(t, Size, img.Bounds().Dy())
}

func TestRunDeterministic(t *testing.T) {
	st := viewport.State{Scale: 2, Offset: viewport.Offset{X: 7, Y: 3}}
	a, err := Run(gradient(640, 360), st, 240, DefaultSpec())
	require.NoError(t, err)
	b, err := Run(gradient(640, 360), st, 240, DefaultSpec())
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestAsyncInvokesSinkExactlyOnce(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{})
	Async(gradient(480, 480), viewport.DefaultState(), 240, DefaultSpec(), func(data []byte) {
		require.NotEmpty(t, data)
		calls.Add(1)
		close(done)
	})
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("export did not resolve")
	}
	require.Equal(t, int32(1), calls.Load())
}

func TestAsyncSkipsSinkOnFailure(t *testing.T) {
	var calls atomic.Int32
	Async(nil, viewport.DefaultState(), 240, DefaultSpec(), func([]byte) { calls.Add(1) })
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(0), calls.Load())
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"jpeg": JPEG, "jpg": JPEG, "": JPEG, "WebP": WebP} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseFormat("tiff")
	require.Error(t, err)
}
