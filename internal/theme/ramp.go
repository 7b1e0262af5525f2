package theme

import (
	"fmt"
	"strconv"
)

// grayBaseCurve is the fixed 13-step lightness curve the neutral ramp is
// built from. Step 0 is near-white, step 12 near-black.
var grayBaseCurve = [13]float64{98, 96, 92, 88, 80, 70, 60, 50, 40, 30, 22, 14, 8}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// num formats a float without a trailing ".0" so token output stays stable.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// hsl formats an HSL color string.
func hsl(hue, sat, light float64) string {
	return fmt.Sprintf("hsl(%s, %s%%, %s%%)", num(hue), num(sat), num(light))
}

// hsla formats an HSL color string with an alpha channel.
func hsla(hue, sat, light, alpha float64) string {
	return fmt.Sprintf("hsla(%s, %s%%, %s%%, %s)", num(hue), num(sat), num(light), num(alpha))
}

// grayRamp generates the 13-step neutral palette for the given grayscale
// parameters. Saturation is tint*2; each step's lightness is the base
// curve value shifted down by shade*2, clamped to [0,100]. Out-of-range
// hue or negative shade are passed through untouched; only the lightness
// clamp applies (see DESIGN.md for the open question on validation).
func grayRamp(hue, tint, shade float64) [13]string {
	sat := clamp(tint*2, 0, 100)
	var out [13]string
	for i, base := range grayBaseCurve {
		light := clamp(base-shade*2, 0, 100)
		out[i] = hsl(hue, sat, light)
	}
	return out
}
