package avatar

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"

	"github.com/freakbeast14/SafeChat/internal/theme"
	"github.com/freakbeast14/SafeChat/internal/viewport"
)

const (
	dialogPadding = 16
	sliderHeight  = 16
	buttonHeight  = 28
	buttonWidth   = 72
	buttonGap     = 12
	rowGap        = 14
)

// layout holds the fixed hit regions of the dialog. The window is not
// resizable so these only depend on the frame size.
type layout struct {
	window  image.Point
	frame   image.Rectangle
	slider  image.Rectangle
	buttons []image.Rectangle
}

func dialogLayout(frame int, buttons int) layout {
	var l layout
	l.frame = image.Rect(dialogPadding, dialogPadding, dialogPadding+frame, dialogPadding+frame)

	sliderY := l.frame.Max.Y + rowGap
	l.slider = image.Rect(dialogPadding, sliderY, dialogPadding+frame, sliderY+sliderHeight)

	buttonY := l.slider.Max.Y + rowGap
	total := buttons*buttonWidth + (buttons-1)*buttonGap
	x := dialogPadding + (frame-total)/2
	for i := 0; i < buttons; i++ {
		l.buttons = append(l.buttons, image.Rect(x, buttonY, x+buttonWidth, buttonY+buttonHeight))
		x += buttonWidth + buttonGap
	}

	l.window = image.Pt(frame+2*dialogPadding, buttonY+buttonHeight+dialogPadding)
	return l
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// ActionButton is a labelled push button drawn with the active theme.
type ActionButton struct {
	label      string
	theme      *theme.Theme
	rect       image.Rectangle
	onActivate func()
}

var _ Button = (*ActionButton)(nil)

func (ab *ActionButton) Draw(dst *image.RGBA, state ButtonState) {
	c := ab.theme.ButtonBackground
	switch state {
	case StateHover:
		c = ab.theme.ButtonBackgroundHover
	case StatePressed:
		c = ab.theme.ButtonBackgroundPress
	}
	draw.Draw(dst, ab.rect, &image.Uniform{c}, image.Point{}, draw.Src)
	drawRect(dst, ab.rect, ab.theme.ButtonBorder, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(ab.theme.ButtonText), Face: basicfont.Face7x13}
	w := d.MeasureString(ab.label).Ceil()
	d.Dot = fixed.P(ab.rect.Min.X+(ab.rect.Dx()-w)/2, ab.rect.Min.Y+(ab.rect.Dy()+10)/2)
	d.DrawString(ab.label)
}

func (ab *ActionButton) Rect() image.Rectangle { return ab.rect }

func (ab *ActionButton) SetRect(r image.Rectangle) {
	if r != ab.rect {
		ab.rect = r
	}
}

func (ab *ActionButton) Activate() {
	if ab.onActivate != nil {
		ab.onActivate()
	}
}

// frameState is the snapshot handed to drawFrame for one paint.
type frameState struct {
	layout     layout
	img        image.Image
	state      viewport.State
	nativeW    int
	nativeH    int
	theme      *theme.Theme
	buttons    []*ActionButton
	hoverIdx   int
	pressedIdx int
	exporting  bool
}

// checkerCache holds the backdrop rendered once per frame rect.
var checkerCache *image.RGBA

// maskCache dims the frame corners outside the inscribed circle so the
// preview matches the round avatar the chat list renders.
var maskCache *image.RGBA

func drawFrame(s screen.Screen, w screen.Window, st frameState) {
	b, err := s.NewBuffer(st.layout.window)
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()

	draw.Draw(dst, dst.Bounds(), &image.Uniform{st.theme.Background}, image.Point{}, draw.Src)
	drawBackdrop(dst, st.layout.frame, st.theme)

	if st.img != nil && st.nativeW > 0 && st.nativeH > 0 {
		drawPreview(dst, st)
	}
	drawMask(dst, st.layout.frame, st.theme)
	drawRect(dst, st.layout.frame, st.theme.FrameBorder, 2)

	drawSlider(dst, st.layout.slider, st.state.Scale, st.theme)
	drawZoomLabel(dst, st)

	for i, btn := range st.buttons {
		state := StateDefault
		if i == st.pressedIdx {
			state = StatePressed
		} else if i == st.hoverIdx {
			state = StateHover
		}
		btn.Draw(dst, state)
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// drawPreview scales the source into the frame at the current zoom and
// pan. The frame sub-image clips whatever falls outside it.
func drawPreview(dst *image.RGBA, st frameState) {
	frame := st.layout.frame
	base := viewport.BaseScale(st.nativeW, st.nativeH, frame.Dx())
	ds := base * st.state.Scale
	dw := float64(st.nativeW) * ds
	dh := float64(st.nativeH) * ds
	ox := float64(frame.Min.X) + float64(frame.Dx())/2 - dw/2 + st.state.Offset.X
	oy := float64(frame.Min.Y) + float64(frame.Dy())/2 - dh/2 + st.state.Offset.Y
	dr := image.Rect(
		int(math.Round(ox)), int(math.Round(oy)),
		int(math.Round(ox+dw)), int(math.Round(oy+dh)),
	)
	clip, ok := dst.SubImage(frame).(*image.RGBA)
	if !ok {
		return
	}
	xdraw.ApproxBiLinear.Scale(clip, dr, st.img, st.img.Bounds(), draw.Over, nil)
}

func drawBackdrop(dst *image.RGBA, frame image.Rectangle, th *theme.Theme) {
	if checkerCache == nil || checkerCache.Bounds() != frame {
		checkerCache = image.NewRGBA(frame)
		drawCheckerboard(checkerCache, frame, 8, th.CheckerLight, th.CheckerDark)
	}
	draw.Draw(dst, frame, checkerCache, frame.Min, draw.Src)
}

func drawMask(dst *image.RGBA, frame image.Rectangle, th *theme.Theme) {
	if maskCache == nil || maskCache.Bounds() != frame {
		maskCache = image.NewRGBA(frame)
		cx := float64(frame.Min.X+frame.Max.X) / 2
		cy := float64(frame.Min.Y+frame.Max.Y) / 2
		r := float64(frame.Dx()) / 2
		for y := frame.Min.Y; y < frame.Max.Y; y++ {
			for x := frame.Min.X; x < frame.Max.X; x++ {
				dx := float64(x) + 0.5 - cx
				dy := float64(y) + 0.5 - cy
				if dx*dx+dy*dy > r*r {
					maskCache.SetRGBA(x, y, th.Mask)
				}
			}
		}
	}
	draw.Draw(dst, frame, maskCache, frame.Min, draw.Over)
}

func drawSlider(dst *image.RGBA, rect image.Rectangle, scale float64, th *theme.Theme) {
	trackY := rect.Min.Y + rect.Dy()/2
	track := image.Rect(rect.Min.X, trackY-2, rect.Max.X, trackY+2)
	draw.Draw(dst, track, &image.Uniform{th.SliderTrack}, image.Point{}, draw.Src)

	frac := (scale - viewport.MinZoom) / (viewport.MaxZoom - viewport.MinZoom)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	knobX := rect.Min.X + int(math.Round(frac*float64(rect.Dx())))
	fill := image.Rect(rect.Min.X, trackY-2, knobX, trackY+2)
	draw.Draw(dst, fill, &image.Uniform{th.SliderFill}, image.Point{}, draw.Src)
	drawFilledCircle(dst, knobX, trackY, 6, th.SliderKnob)
}

func drawZoomLabel(dst *image.RGBA, st frameState) {
	label := fmt.Sprintf("%.0f%%", st.state.Scale*100)
	if st.exporting {
		label = "Exporting..."
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.theme.Foreground), Face: basicfont.Face7x13}
	w := d.MeasureString(label).Ceil()
	d.Dot = fixed.P(st.layout.slider.Max.X-w, st.layout.slider.Min.Y-3)
	d.DrawString(label)
}

// sliderScale maps a pointer x position on the slider track to a zoom
// value in [MinZoom, MaxZoom].
func sliderScale(rect image.Rectangle, x float32) float64 {
	frac := (float64(x) - float64(rect.Min.X)) / float64(rect.Dx())
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return viewport.MinZoom + frac*(viewport.MaxZoom-viewport.MinZoom)
}

func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	drawLine(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	drawLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

func drawFilledCircle(img *image.RGBA, cx, cy, r int, col color.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				px := cx + dx
				py := cy + dy
				if image.Pt(px, py).In(img.Bounds()) {
					img.Set(px, py, col)
				}
			}
		}
	}
}
