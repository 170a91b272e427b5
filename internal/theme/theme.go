// Package theme defines the color palettes available to SafeChat's
// settings surface. Only the built-in light and dark palettes exist;
// the configured theme name selects between them.
package theme

import (
	"fmt"
	"image/color"
	"strings"
)

// Theme is the color palette used by the avatar crop dialog chrome.
type Theme struct {
	Name string

	Background color.RGBA
	Foreground color.RGBA

	// Crop frame
	FrameBorder color.RGBA
	Mask        color.RGBA // dims the image outside the frame; alpha is the strength

	// Buttons
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Zoom slider
	SliderTrack color.RGBA
	SliderFill  color.RGBA
	SliderKnob  color.RGBA

	// Backdrop behind transparent images
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Light returns the default light palette.
func Light() *Theme {
	return &Theme{
		Name:                  "light",
		Background:            color.RGBA{236, 239, 244, 255},
		Foreground:            color.RGBA{33, 37, 41, 255},
		FrameBorder:           color.RGBA{73, 80, 87, 255},
		Mask:                  color.RGBA{236, 239, 244, 160},
		ButtonBackground:      color.RGBA{206, 212, 218, 255},
		ButtonBackgroundHover: color.RGBA{186, 192, 198, 255},
		ButtonBackgroundPress: color.RGBA{160, 166, 172, 255},
		ButtonText:            color.RGBA{33, 37, 41, 255},
		ButtonBorder:          color.RGBA{73, 80, 87, 255},
		SliderTrack:           color.RGBA{206, 212, 218, 255},
		SliderFill:            color.RGBA{64, 110, 142, 255},
		SliderKnob:            color.RGBA{52, 58, 64, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
	}
}

// Dark returns the dark palette.
func Dark() *Theme {
	return &Theme{
		Name:                  "dark",
		Background:            color.RGBA{33, 37, 41, 255},
		Foreground:            color.RGBA{233, 236, 239, 255},
		FrameBorder:           color.RGBA{173, 181, 189, 255},
		Mask:                  color.RGBA{20, 22, 24, 180},
		ButtonBackground:      color.RGBA{73, 80, 87, 255},
		ButtonBackgroundHover: color.RGBA{90, 98, 106, 255},
		ButtonBackgroundPress: color.RGBA{52, 58, 64, 255},
		ButtonText:            color.RGBA{233, 236, 239, 255},
		ButtonBorder:          color.RGBA{173, 181, 189, 255},
		SliderTrack:           color.RGBA{73, 80, 87, 255},
		SliderFill:            color.RGBA{116, 163, 195, 255},
		SliderKnob:            color.RGBA{222, 226, 230, 255},
		CheckerLight:          color.RGBA{66, 70, 74, 255},
		CheckerDark:           color.RGBA{48, 52, 56, 255},
	}
}

// Default returns the palette used when nothing is configured.
func Default() *Theme { return Light() }

// Load resolves a configured theme name to a palette.
func Load(name string) (*Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default", "light":
		return Light(), nil
	case "dark":
		return Dark(), nil
	default:
		return nil, fmt.Errorf("unknown theme %q", name)
	}
}
