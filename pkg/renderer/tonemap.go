package renderer

import (
	"fmt"
	"image/color"
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// ToneMap selects how averaged radiance becomes 8-bit channel values
type ToneMap int

const (
	// ToneMapGamma2 takes the square root of each channel, clamps to
	// [0, 0.999] and scales by 256
	ToneMapGamma2 ToneMap = iota
	// ToneMapLinear clamps to [0, 1] and scales by 255.999 with no gamma
	ToneMapLinear
)

// String returns the flag spelling of the mode
func (tm ToneMap) String() string {
	switch tm {
	case ToneMapGamma2:
		return "gamma2"
	case ToneMapLinear:
		return "linear"
	default:
		return fmt.Sprintf("ToneMap(%d)", int(tm))
	}
}

// ParseToneMap accepts "gamma2" or "linear"
func ParseToneMap(s string) (ToneMap, error) {
	switch s {
	case "gamma2", "":
		return ToneMapGamma2, nil
	case "linear":
		return ToneMapLinear, nil
	default:
		return ToneMapGamma2, fmt.Errorf("unknown tone map %q (want gamma2 or linear)", s)
	}
}

// Encode quantizes a linear color to an opaque RGBA pixel
func (tm ToneMap) Encode(c core.Color) color.RGBA {
	var r, g, b uint8
	switch tm {
	case ToneMapLinear:
		c = c.Clamp(0.0, 1.0)
		r, g, b = uint8(255.999*c.X), uint8(255.999*c.Y), uint8(255.999*c.Z)
	default:
		// Negative radiance would make the square root NaN
		c = c.Clamp(0.0, math.Inf(1)).GammaCorrect(2.0).Clamp(0.0, 0.999)
		r, g, b = uint8(256*c.X), uint8(256*c.Y), uint8(256*c.Z)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
