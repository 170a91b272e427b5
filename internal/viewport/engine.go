package viewport

// Engine owns the validated viewport state for one crop dialog session.
// Every mutation site re-derives a clamped offset so the cover invariant
// holds continuously, including right after image decode completes.
// Externally supplied values are treated as untrusted and clamped before
// they are stored.
type Engine struct {
	frame    int
	nativeW  int
	nativeH  int
	state    State
	onScale  func(float64)
	onOffset func(Offset)
}

// Option modifies an Engine during creation.
type Option func(*Engine)

// WithFrameSize overrides the crop frame side length.
func WithFrameSize(px int) Option {
	return func(e *Engine) {
		if px > 0 {
			e.frame = px
		}
	}
}

// WithState seeds the engine with externally held state. It is clamped
// before first use.
func WithState(st State) Option {
	return func(e *Engine) { e.state = st }
}

// WithImageSize seeds the native dimensions when they are already known
// at construction time. Without it the initial clamp runs in the
// unknown-dimensions degraded mode, which forces any seeded offset to
// zero.
func WithImageSize(w, h int) Option {
	return func(e *Engine) { e.nativeW, e.nativeH = w, h }
}

// WithOnScaleChange registers a callback fired whenever the engine
// derives a new zoom value.
func WithOnScaleChange(fn func(float64)) Option {
	return func(e *Engine) { e.onScale = fn }
}

// WithOnOffsetChange registers a callback fired whenever the engine
// derives a new clamped offset.
func WithOnOffsetChange(fn func(Offset)) Option {
	return func(e *Engine) { e.onOffset = fn }
}

// NewEngine creates an Engine with the provided options. Image
// dimensions start unknown; call SetImageSize once decode completes.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{frame: FrameSize, state: DefaultState()}
	for _, o := range opts {
		o(e)
	}
	e.state.Scale = ClampZoom(e.state.Scale)
	e.reclamp()
	return e
}

// FrameSize returns the crop frame side length.
func (e *Engine) FrameSize() int { return e.frame }

// ImageSize returns the native dimensions, or zeros while unknown.
func (e *Engine) ImageSize() (w, h int) { return e.nativeW, e.nativeH }

// BaseScale returns the cover-fit scale for the current image, or 1
// while dimensions are unknown.
func (e *Engine) BaseScale() float64 {
	return BaseScale(e.nativeW, e.nativeH, e.frame)
}

// State returns the current validated state as a value snapshot.
func (e *Engine) State() State { return e.state }

// SetImageSize records the native dimensions once decode completes and
// re-clamps the offset against them. Called with zeros it returns the
// engine to its pre-decode degraded mode.
func (e *Engine) SetImageSize(w, h int) {
	e.nativeW, e.nativeH = w, h
	e.reclamp()
}

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom], and
// re-clamps the offset against the new display size.
func (e *Engine) SetZoom(z float64) {
	z = ClampZoom(z)
	if z != e.state.Scale {
		e.state.Scale = z
		if e.onScale != nil {
			e.onScale(z)
		}
	}
	e.reclamp()
}

// ZoomIn increments the zoom factor by one step.
func (e *Engine) ZoomIn() { e.SetZoom(e.state.Scale + ZoomStep) }

// ZoomOut decrements the zoom factor by one step.
func (e *Engine) ZoomOut() { e.SetZoom(e.state.Scale - ZoomStep) }

// SetOffset proposes a new pan offset. The candidate is clamped before
// it is stored; the stored value only changes, and the change callback
// only fires, when the clamped result differs from the current offset.
func (e *Engine) SetOffset(off Offset) {
	clamped := ClampOffset(off, e.state.Scale, e.nativeW, e.nativeH, e.frame)
	if clamped != e.state.Offset {
		e.state.Offset = clamped
		if e.onOffset != nil {
			e.onOffset(clamped)
		}
	}
}

// Reset restores scale 1.0 and a zero offset, the state a fresh dialog
// opens with.
func (e *Engine) Reset() {
	if e.state.Scale != MinZoom {
		e.state.Scale = MinZoom
		if e.onScale != nil {
			e.onScale(MinZoom)
		}
	}
	if (e.state.Offset != Offset{}) {
		e.state.Offset = Offset{}
		if e.onOffset != nil {
			e.onOffset(Offset{})
		}
	}
	e.reclamp()
}

func (e *Engine) reclamp() {
	clamped := ClampOffset(e.state.Offset, e.state.Scale, e.nativeW, e.nativeH, e.frame)
	if clamped != e.state.Offset {
		e.state.Offset = clamped
		if e.onOffset != nil {
			e.onOffset(clamped)
		}
	}
}
