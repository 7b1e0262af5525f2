package theme

import (
	"fmt"
	"math"
	"strings"
)

// rgb is a parsed 8-bit-per-channel color.
type rgb struct {
	r, g, b uint8
}

// parseHex parses a #rgb or #rrggbb color. The leading # is optional.
// Invalid input returns ok=false; callers fall back to a derived value.
func parseHex(s string) (rgb, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3:
		var c rgb
		n, err := fmt.Sscanf(strings.ToLower(s), "%1x%1x%1x", &c.r, &c.g, &c.b)
		if err != nil || n != 3 {
			return rgb{}, false
		}
		c.r *= 17
		c.g *= 17
		c.b *= 17
		return c, true
	case 6:
		var c rgb
		n, err := fmt.Sscanf(strings.ToLower(s), "%02x%02x%02x", &c.r, &c.g, &c.b)
		if err != nil || n != 3 {
			return rgb{}, false
		}
		return c, true
	default:
		return rgb{}, false
	}
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

// mixChannel moves v toward target by factor f in [0,1], rounding to
// the nearest 8-bit value.
func mixChannel(v, target uint8, f float64) uint8 {
	return uint8(math.Round(float64(v) + (float64(target)-float64(v))*f))
}

// darken scales each channel toward black by factor f.
func (c rgb) darken(f float64) rgb {
	f = clamp(f, 0, 1)
	return rgb{
		r: mixChannel(c.r, 0, f),
		g: mixChannel(c.g, 0, f),
		b: mixChannel(c.b, 0, f),
	}
}

// lighten scales each channel toward white by factor f.
func (c rgb) lighten(f float64) rgb {
	f = clamp(f, 0, 1)
	return rgb{
		r: mixChannel(c.r, 255, f),
		g: mixChannel(c.g, 255, f),
		b: mixChannel(c.b, 255, f),
	}
}

// accentVariants derives hover/active/light/lighter variants from a
// primary color and an intensity level. The darken mixing factor is
// 0.15 + level*0.05; active uses 1.5x that factor.
func accentVariants(primary rgb, level int) (hover, active, light, lighter string) {
	f := 0.15 + float64(level)*0.05
	hover = primary.darken(f).hex()
	active = primary.darken(f * 1.5).hex()
	light = primary.lighten(0.85).hex()
	lighter = primary.lighten(0.92).hex()
	return hover, active, light, lighter
}
