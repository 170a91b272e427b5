// Package avatar hosts the profile picture crop dialog. The dialog
// shows the selected image behind a fixed square frame, lets the user
// zoom and pan within it, and exports the framed region when applied.
package avatar

import (
	"image"
	"log"
	"os"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/freakbeast14/SafeChat/internal/export"
	"github.com/freakbeast14/SafeChat/internal/theme"
	"github.com/freakbeast14/SafeChat/internal/viewport"
)

// Dialog is the crop dialog for picking a profile picture.
type Dialog struct {
	engine *viewport.Engine
	img    image.Image
	theme  *theme.Theme
	spec   export.Spec
	output string

	engineOpts []viewport.Option

	onApply func([]byte)
	onReset func()
	onClose func()

	applied   bool
	closeOnce sync.Once
}

// Option modifies a Dialog during creation.
type Option func(*Dialog)

// WithImage sets the source image shown in the dialog.
func WithImage(img image.Image) Option { return func(d *Dialog) { d.img = img } }

// WithTheme sets the color palette used for the dialog chrome.
func WithTheme(th *theme.Theme) Option { return func(d *Dialog) { d.theme = th } }

// WithOutput sets a file path the applied avatar is also written to.
func WithOutput(path string) Option { return func(d *Dialog) { d.output = path } }

// WithSpec sets the export format and quality.
func WithSpec(spec export.Spec) Option { return func(d *Dialog) { d.spec = spec } }

// WithState restores a previously saved zoom and pan state.
func WithState(st viewport.State) Option {
	return func(d *Dialog) { d.engineOpts = append(d.engineOpts, viewport.WithState(st)) }
}

// WithOnApply registers a callback receiving the encoded avatar when
// the user applies the crop.
func WithOnApply(fn func([]byte)) Option { return func(d *Dialog) { d.onApply = fn } }

// WithOnReset registers a callback invoked when the view is reset.
func WithOnReset(fn func()) Option { return func(d *Dialog) { d.onReset = fn } }

// WithOnClose registers a callback invoked when the dialog closes
// without applying.
func WithOnClose(fn func()) Option { return func(d *Dialog) { d.onClose = fn } }

// WithOnScaleChange registers a callback for zoom changes.
func WithOnScaleChange(fn func(float64)) Option {
	return func(d *Dialog) { d.engineOpts = append(d.engineOpts, viewport.WithOnScaleChange(fn)) }
}

// WithOnOffsetChange registers a callback for pan changes.
func WithOnOffsetChange(fn func(viewport.Offset)) Option {
	return func(d *Dialog) { d.engineOpts = append(d.engineOpts, viewport.WithOnOffsetChange(fn)) }
}

// New creates a Dialog with the provided options.
func New(opts ...Option) *Dialog {
	d := &Dialog{
		theme: theme.Default(),
		spec:  export.DefaultSpec(),
	}
	for _, o := range opts {
		o(d)
	}
	// Seed the dimensions before the engine's first clamp so a restored
	// offset is bounded against the real image, not zeroed.
	engineOpts := d.engineOpts
	if d.img != nil {
		b := d.img.Bounds()
		engineOpts = append([]viewport.Option{viewport.WithImageSize(b.Dx(), b.Dy())}, engineOpts...)
	}
	d.engine = viewport.NewEngine(engineOpts...)
	return d
}

// Applied reports whether the user applied the crop before the dialog
// closed.
func (d *Dialog) Applied() bool { return d.applied }

// exportDone carries the result of an export back onto the event loop.
type exportDone struct {
	data []byte
	err  error
}

// closeReq asks the event loop to shut the window.
type closeReq struct{}

func (d *Dialog) notifyClose() {
	d.closeOnce.Do(func() {
		if !d.applied && d.onClose != nil {
			d.onClose()
		}
	})
}

// Run executes the dialog loop using shiny's driver.
func (d *Dialog) Run() { driver.Main(d.Main) }

func (d *Dialog) Main(s screen.Screen) {
	lay := dialogLayout(d.engine.FrameSize(), 3)
	w, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  lay.window.X,
		Height: lay.window.Y,
		Title:  "SafeChat - Profile Picture",
	})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()
	defer d.notifyClose()

	var drag dragController
	sliderDrag := false
	exporting := false
	hoverIdx := -1
	pressedIdx := -1

	// Slider knob is easier to grab with a little slack around the track.
	sliderHit := lay.slider.Inset(-6)

	apply := func() {
		if exporting || d.img == nil {
			return
		}
		exporting = true
		st := d.engine.State()
		frame := d.engine.FrameSize()
		go func() {
			data, err := export.Run(d.img, st, frame, d.spec)
			w.Send(exportDone{data: data, err: err})
		}()
		w.Send(paint.Event{})
	}

	reset := func() {
		d.engine.Reset()
		if d.onReset != nil {
			d.onReset()
		}
		w.Send(paint.Event{})
	}

	buttons := []*ActionButton{
		{label: "Apply", theme: d.theme, onActivate: apply},
		{label: "Reset", theme: d.theme, onActivate: reset},
		{label: "Cancel", theme: d.theme, onActivate: func() { w.Send(closeReq{}) }},
	}
	for i, btn := range buttons {
		btn.SetRect(lay.buttons[i])
	}

	for {
		switch e := w.NextEvent().(type) {
		case closeReq:
			return

		case exportDone:
			exporting = false
			if e.err != nil {
				log.Printf("avatar export: %v", e.err)
				w.Send(paint.Event{})
				continue
			}
			d.applied = true
			if d.output != "" {
				if werr := os.WriteFile(d.output, e.data, 0o644); werr != nil {
					log.Printf("write %s: %v", d.output, werr)
				}
			}
			if d.onApply != nil {
				d.onApply(e.data)
			}
			return

		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				drag.Release()
				return
			}

		case size.Event:
			// The dialog layout is fixed.
			w.Send(paint.Event{})

		case paint.Event:
			nw, nh := d.engine.ImageSize()
			drawFrame(s, w, frameState{
				layout:     lay,
				img:        d.img,
				state:      d.engine.State(),
				nativeW:    nw,
				nativeH:    nh,
				theme:      d.theme,
				buttons:    buttons,
				hoverIdx:   hoverIdx,
				pressedIdx: pressedIdx,
				exporting:  exporting,
			})

		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			switch e.Direction {
			case mouse.DirPress:
				if e.Button != mouse.ButtonLeft {
					continue
				}
				if idx := buttonAt(buttons, p); idx >= 0 {
					pressedIdx = idx
					buttons[idx].Activate()
					w.Send(paint.Event{})
					continue
				}
				if p.In(sliderHit) {
					sliderDrag = true
					d.engine.SetZoom(sliderScale(lay.slider, e.X))
					w.Send(paint.Event{})
					continue
				}
				if p.In(lay.frame) {
					drag.Press(e, d.engine.State().Offset)
				}
			case mouse.DirRelease:
				pressedIdx = -1
				sliderDrag = false
				if cand, ok := drag.Move(e); ok {
					d.engine.SetOffset(cand)
					drag.Release()
				}
				w.Send(paint.Event{})
			case mouse.DirNone:
				if sliderDrag {
					d.engine.SetZoom(sliderScale(lay.slider, e.X))
					w.Send(paint.Event{})
					continue
				}
				if cand, ok := drag.Move(e); ok {
					d.engine.SetOffset(cand)
					w.Send(paint.Event{})
					continue
				}
				if idx := buttonAt(buttons, p); idx != hoverIdx {
					hoverIdx = idx
					w.Send(paint.Event{})
				}
			}

		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			switch e.Rune {
			case '+', '=':
				d.engine.ZoomIn()
				w.Send(paint.Event{})
			case '-':
				d.engine.ZoomOut()
				w.Send(paint.Event{})
			case 'r', 'R':
				reset()
			case 'q', 'Q':
				return
			default:
				switch e.Code {
				case key.CodeReturnEnter:
					apply()
				case key.CodeEscape:
					return
				}
			}
		}
	}
}

func buttonAt(buttons []*ActionButton, p image.Point) int {
	for i, b := range buttons {
		if p.In(b.Rect()) {
			return i
		}
	}
	return -1
}
