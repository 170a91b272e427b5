package avatar

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freakbeast14/SafeChat/internal/viewport"
)

func TestNewRestoresSavedState(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 240, 480))
	d := New(
		WithImage(img),
		WithState(viewport.State{Scale: 1, Offset: viewport.Offset{Y: 100}}),
	)

	// 240x480 leaves 120px of vertical slack at scale 1, so the saved
	// pan is in bounds and must not be zeroed during construction.
	st := d.engine.State()
	require.Equal(t, 1.0, st.Scale)
	require.Equal(t, viewport.Offset{Y: 100}, st.Offset)

	w, h := d.engine.ImageSize()
	require.Equal(t, 240, w)
	require.Equal(t, 480, h)
}

func TestNewClampsSavedStateAgainstImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 240, 480))
	d := New(
		WithImage(img),
		WithState(viewport.State{Scale: 9, Offset: viewport.Offset{X: 50, Y: 5000}}),
	)

	st := d.engine.State()
	require.Equal(t, viewport.MaxZoom, st.Scale)
	// At max zoom the 240x480 image displays at 720x1440: 240px of
	// horizontal slack and 600px of vertical slack.
	require.Equal(t, viewport.Offset{X: 50, Y: 600}, st.Offset)
}

func TestNewWithoutImageIsNotApplied(t *testing.T) {
	d := New()
	require.False(t, d.Applied())
	require.Equal(t, viewport.Offset{}, d.engine.State().Offset)
}
