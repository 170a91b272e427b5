package avatar

import (
	"golang.org/x/mobile/event/mouse"

	"github.com/freakbeast14/SafeChat/internal/viewport"
)

// dragSession captures the pointer position and pan offset at press
// time. Moves are resolved against this snapshot rather than the
// previous move so intermediate clamping never accumulates error.
type dragSession struct {
	startX, startY float32
	origin         viewport.Offset
}

// dragController tracks a single pointer drag over the crop frame.
// It is either idle or holds one active session.
type dragController struct {
	session *dragSession
}

// Press begins a drag session. Only the primary button starts a drag;
// presses from other buttons are ignored and leave the controller idle.
func (c *dragController) Press(e mouse.Event, origin viewport.Offset) bool {
	if e.Button != mouse.ButtonLeft {
		return false
	}
	c.session = &dragSession{startX: e.X, startY: e.Y, origin: origin}
	return true
}

// Move returns the candidate offset for the current pointer position.
// The candidate is the press-time offset plus the total pointer delta;
// callers clamp it before applying. Returns false when no drag is
// active.
func (c *dragController) Move(e mouse.Event) (viewport.Offset, bool) {
	if c.session == nil {
		return viewport.Offset{}, false
	}
	return viewport.Offset{
		X: c.session.origin.X + float64(e.X-c.session.startX),
		Y: c.session.origin.Y + float64(e.Y-c.session.startY),
	}, true
}

// Release ends the active session. Pointer-leave and window teardown
// are handled the same way, so a stale session can never outlive the
// gesture that started it.
func (c *dragController) Release() {
	c.session = nil
}

// Dragging reports whether a session is active.
func (c *dragController) Dragging() bool {
	return c.session != nil
}
