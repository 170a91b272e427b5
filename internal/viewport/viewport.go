// Package viewport implements the 2D view transform behind SafeChat's
// avatar crop dialog: the cover-fit base scale for an image of arbitrary
// dimensions, the user zoom factor, and the pan offset clamp that keeps
// the image covering the crop frame at all times.
package viewport

import "math"

const (
	// FrameSize is the side length of the square crop frame, in pixels.
	// The export stage derives its source rectangle from this same
	// constant; changing one without the other breaks the geometry.
	FrameSize = 240

	// MinZoom is also the safe zoom: at 1.0 the cover-fit base scale
	// guarantees the image fills the frame on both axes.
	MinZoom  = 1.0
	MaxZoom  = 3.0
	ZoomStep = 0.1
)

// Offset is a pan vector in crop-frame pixel units.
type Offset struct {
	X, Y float64
}

// State is the user-controlled part of the view transform. It is a plain
// value so callers can snapshot it before handing it to asynchronous
// work; validity is established by the clamp functions below.
type State struct {
	Scale  float64
	Offset Offset
}

// DefaultState returns the state a freshly opened dialog starts from.
func DefaultState() State {
	return State{Scale: MinZoom}
}

// BaseScale returns the minimum scale at which an image of the given
// native dimensions covers a square frame on both axes. While dimensions
// are unknown (decode pending or failed) it returns 1 as a placeholder
// that callers must not treat as final.
func BaseScale(nativeW, nativeH, frame int) float64 {
	if nativeW <= 0 || nativeH <= 0 || frame <= 0 {
		return 1
	}
	sx := float64(frame) / float64(nativeW)
	sy := float64(frame) / float64(nativeH)
	return math.Max(sx, sy)
}

// ClampZoom constrains a zoom factor into [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	return clamp(z, MinZoom, MaxZoom)
}

// StepZoom moves z by the given number of steps and clamps the result.
func StepZoom(z float64, steps int) float64 {
	return ClampZoom(z + float64(steps)*ZoomStep)
}

// ClampOffset constrains off so that the image, displayed at
// BaseScale*scale, still covers the frame on both axes. On an axis where
// the displayed image exactly fills the frame the bound collapses to
// zero and no panning is possible. The function is idempotent.
func ClampOffset(off Offset, scale float64, nativeW, nativeH, frame int) Offset {
	ds := BaseScale(nativeW, nativeH, frame) * scale
	maxX := axisBound(float64(nativeW)*ds, float64(frame))
	maxY := axisBound(float64(nativeH)*ds, float64(frame))
	return Offset{
		X: clamp(off.X, -maxX, maxX),
		Y: clamp(off.Y, -maxY, maxY),
	}
}

// Clamp validates an externally supplied state. Out-of-range values are
// corrected, never rejected.
func Clamp(st State, nativeW, nativeH, frame int) State {
	st.Scale = ClampZoom(st.Scale)
	st.Offset = ClampOffset(st.Offset, st.Scale, nativeW, nativeH, frame)
	return st
}

func axisBound(display, frame float64) float64 {
	b := (display - frame) / 2
	if b < 0 {
		return 0
	}
	return b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
