package avatar

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/mouse"

	"github.com/freakbeast14/SafeChat/internal/viewport"
)

func press(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirPress}
}

func moveTo(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Direction: mouse.DirNone}
}

func TestDragCandidateIsOriginPlusTotalDelta(t *testing.T) {
	var c dragController
	require.True(t, c.Press(press(100, 100), viewport.Offset{X: 5, Y: -5}))
	require.True(t, c.Dragging())

	cand, ok := c.Move(moveTo(160, 130))
	require.True(t, ok)
	require.Equal(t, viewport.Offset{X: 65, Y: 25}, cand)

	// Moving back past the press point resolves against the snapshot,
	// not the previous move.
	cand, ok = c.Move(moveTo(90, 100))
	require.True(t, ok)
	require.Equal(t, viewport.Offset{X: -5, Y: -5}, cand)
}

func TestDragCandidateClampedByEngine(t *testing.T) {
	eng := viewport.NewEngine()
	eng.SetImageSize(1000, 600)

	var c dragController
	require.True(t, c.Press(press(100, 100), eng.State().Offset))

	// 1000x600 at scale 1 in a 240 frame leaves 80px of horizontal
	// slack and none vertically.
	cand, ok := c.Move(moveTo(160, 130))
	require.True(t, ok)
	eng.SetOffset(cand)
	require.Equal(t, viewport.Offset{X: 60, Y: 0}, eng.State().Offset)

	cand, ok = c.Move(moveTo(300, 100))
	require.True(t, ok)
	eng.SetOffset(cand)
	require.Equal(t, viewport.Offset{X: 80, Y: 0}, eng.State().Offset)
}

func TestDragIgnoresSecondaryButtons(t *testing.T) {
	var c dragController
	for _, btn := range []mouse.Button{mouse.ButtonRight, mouse.ButtonMiddle, mouse.ButtonWheelUp} {
		ev := mouse.Event{X: 10, Y: 10, Button: btn, Direction: mouse.DirPress}
		require.False(t, c.Press(ev, viewport.Offset{}))
		require.False(t, c.Dragging())
		_, ok := c.Move(moveTo(50, 50))
		require.False(t, ok)
	}
}

func TestDragReleaseClearsSession(t *testing.T) {
	var c dragController
	require.True(t, c.Press(press(0, 0), viewport.Offset{}))
	_, ok := c.Move(moveTo(40, 0))
	require.True(t, ok)

	c.Release()
	require.False(t, c.Dragging())
	_, ok = c.Move(moveTo(80, 0))
	require.False(t, ok)

	// A fresh press starts clean from the new origin.
	require.True(t, c.Press(press(200, 200), viewport.Offset{X: 40, Y: 0}))
	cand, ok := c.Move(moveTo(210, 200))
	require.True(t, ok)
	require.Equal(t, viewport.Offset{X: 50, Y: 0}, cand)
}

func TestDialogLayoutRegionsDoNotOverlap(t *testing.T) {
	lay := dialogLayout(viewport.FrameSize, 3)
	require.Equal(t, viewport.FrameSize, lay.frame.Dx())
	require.Equal(t, viewport.FrameSize, lay.frame.Dy())
	require.False(t, lay.frame.Overlaps(lay.slider))
	for i, b := range lay.buttons {
		require.False(t, lay.frame.Overlaps(b))
		require.False(t, lay.slider.Overlaps(b))
		for _, other := range lay.buttons[i+1:] {
			require.False(t, b.Overlaps(other))
		}
		require.True(t, b.Max.X <= lay.window.X)
		require.True(t, b.Max.Y <= lay.window.Y)
	}
}

func TestSliderScaleEndpoints(t *testing.T) {
	lay := dialogLayout(viewport.FrameSize, 3)
	require.InDelta(t, viewport.MinZoom, sliderScale(lay.slider, float32(lay.slider.Min.X)), 1e-9)
	require.InDelta(t, viewport.MaxZoom, sliderScale(lay.slider, float32(lay.slider.Max.X)), 1e-9)
	// Positions outside the track clamp to the zoom range.
	require.InDelta(t, viewport.MinZoom, sliderScale(lay.slider, -50), 1e-9)
	require.InDelta(t, viewport.MaxZoom, sliderScale(lay.slider, 10000), 1e-9)
}
