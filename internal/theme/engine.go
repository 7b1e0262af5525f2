package theme

import (
	"github.com/embedchat/widget-runtime/internal/config"
)

// defaultGrayscale is the neutral ramp used when the config carries no
// grayscale section.
var defaultGrayscale = config.Grayscale{Hue: 220, Tint: 4, Shade: 0}

// defaultAccent is the accent used when the config carries no accent
// section or an unparseable color.
var defaultAccent = config.Accent{Color: "#4f46e5", Level: 1}

const defaultFontFamily = `-apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif`

// layer is one step of the token derivation pipeline. Each layer is a
// pure function of the config and the tokens produced so far; later
// layers win, which is what makes override precedence explicit.
type layer func(cfg *config.WidgetConfig, t TokenSet)

// layers is the ordered derivation pipeline: defaults first, explicit
// overrides last.
var layers = []layer{
	grayscaleLayer,
	surfaceLayer,
	accentLayer,
	layoutLayer,
	overrideLayer,
}

// ComputeTokens derives the complete design-token set from a widget
// configuration. It is pure and deterministic: the same config always
// produces an identical token map. A nil config yields the default
// light theme.
func ComputeTokens(cfg *config.WidgetConfig) TokenSet {
	if cfg == nil {
		cfg = &config.WidgetConfig{}
	}
	t := make(TokenSet)
	for _, l := range layers {
		l(cfg, t)
	}
	return t
}

// grayParams returns the effective grayscale parameters for the config.
func grayParams(cfg *config.WidgetConfig) config.Grayscale {
	if cfg.Style.Grayscale != nil {
		return *cfg.Style.Grayscale
	}
	return defaultGrayscale
}

// grayscaleLayer emits the 13-step neutral palette as --gray-0..12.
func grayscaleLayer(cfg *config.WidgetConfig, t TokenSet) {
	g := grayParams(cfg)
	ramp := grayRamp(g.Hue, g.Tint, g.Shade)
	names := [13]string{
		"--gray-0", "--gray-1", "--gray-2", "--gray-3", "--gray-4",
		"--gray-5", "--gray-6", "--gray-7", "--gray-8", "--gray-9",
		"--gray-10", "--gray-11", "--gray-12",
	}
	for i, name := range names {
		t[name] = ramp[i]
	}
}

// surfaceLayer derives surface, text, border, and icon colors from the
// grayscale parameters and the light/dark flag. The two modes use
// disjoint formulas: dark surfaces start near-black and elevate upward,
// light surfaces start near-white and recede downward.
func surfaceLayer(cfg *config.WidgetConfig, t TokenSet) {
	g := grayParams(cfg)
	dark := cfg.Style.Theme == config.ThemeDark

	var sat, light float64
	if dark {
		sat = clamp(5+g.Tint*2, 0, 100)
		light = clamp(10+g.Shade*0.5, 0, 100)
	} else {
		sat = clamp(10+g.Tint*3, 0, 100)
		light = clamp(98-g.Shade*2, 0, 100)
	}

	if dark {
		t["--surface-bg"] = hsl(g.Hue, sat, light)
		t["--surface-elevated"] = hsl(g.Hue, sat, clamp(light+4, 0, 100))
		t["--surface-composer"] = hsl(g.Hue, sat, clamp(light+6, 0, 100))
		t["--surface-hover"] = hsl(g.Hue, sat, clamp(light+8, 0, 100))
		t["--border-color"] = hsla(g.Hue, sat, clamp(light+25, 0, 100), 0.18)
		t["--text-primary"] = hsl(g.Hue, sat, 95)
		t["--text-secondary"] = hsl(g.Hue, sat, 65)
	} else {
		t["--surface-bg"] = hsl(g.Hue, sat, light)
		t["--surface-elevated"] = hsl(g.Hue, sat, clamp(light-3, 0, 100))
		t["--surface-composer"] = hsl(g.Hue, sat, clamp(light-5, 0, 100))
		t["--surface-hover"] = hsl(g.Hue, sat, clamp(light-6, 0, 100))
		t["--border-color"] = hsla(g.Hue, sat, 20, 0.12)
		t["--text-primary"] = hsl(g.Hue, sat, 12)
		t["--text-secondary"] = hsl(g.Hue, sat, 40)
	}
	t["--icon-color"] = t["--text-secondary"]

	if dark {
		t["--theme"] = "dark"
	} else {
		t["--theme"] = "light"
	}
}

// accentLayer derives the accent family and the user-message colors.
func accentLayer(cfg *config.WidgetConfig, t TokenSet) {
	a := defaultAccent
	if cfg.Style.Accent != nil {
		a = *cfg.Style.Accent
	}

	primary, ok := parseHex(a.Color)
	if !ok {
		primary, _ = parseHex(defaultAccent.Color)
	}

	hover, active, light, lighter := accentVariants(primary, a.Level)
	t["--accent"] = primary.hex()
	t["--accent-hover"] = hover
	t["--accent-active"] = active
	t["--accent-light"] = light
	t["--accent-lighter"] = lighter

	t["--user-msg-bg"] = primary.hex()
	t["--user-msg-text"] = "#ffffff"
}

// radiusTable maps radius presets to pixel values.
var radiusTable = map[config.RadiusPreset]string{
	config.RadiusNone:   "0px",
	config.RadiusSmall:  "6px",
	config.RadiusMedium: "10px",
	config.RadiusLarge:  "16px",
	config.RadiusPill:   "9999px",
}

// spacingTable maps spacing presets to multipliers over the base sizes.
var spacingTable = map[config.SpacingPreset]float64{
	config.SpacingCompact:  0.75,
	config.SpacingNormal:   1.0,
	config.SpacingSpacious: 1.25,
}

// spacing base sizes in px, multiplied by the preset factor.
var spacingBases = []struct {
	name string
	px   float64
}{
	{"--space-xs", 4},
	{"--space-sm", 8},
	{"--space-md", 12},
	{"--space-lg", 16},
}

// layoutLayer emits radius, spacing, and typography tokens via table
// lookups. Unrecognized presets fall back to the medium/normal entries.
func layoutLayer(cfg *config.WidgetConfig, t TokenSet) {
	radius, ok := radiusTable[cfg.Style.Radius]
	if !ok {
		radius = radiusTable[config.RadiusMedium]
	}
	t["--radius"] = radius

	mult, ok := spacingTable[cfg.Style.Spacing]
	if !ok {
		mult = spacingTable[config.SpacingNormal]
	}
	for _, b := range spacingBases {
		t[b.name] = num(b.px*mult) + "px"
	}

	font := cfg.Style.FontFamily
	if font == "" {
		font = defaultFontFamily
	}
	t["--font-family"] = font
	t["--font-size"] = "14px"
	t["--font-size-sm"] = "12px"
}

// overrideLayer applies explicit config overrides. Running last, it
// beats every derived value.
func overrideLayer(cfg *config.WidgetConfig, t TokenSet) {
	o := cfg.Style.Overrides
	if o.SurfaceBackground != "" {
		t["--surface-bg"] = o.SurfaceBackground
	}
	if o.SurfaceElevated != "" {
		t["--surface-elevated"] = o.SurfaceElevated
	}
	if o.ComposerBackground != "" {
		t["--surface-composer"] = o.ComposerBackground
	}
	if o.IconColor != "" {
		t["--icon-color"] = o.IconColor
	}
	if o.UserMessageBackground != "" {
		t["--user-msg-bg"] = o.UserMessageBackground
	}
	if o.UserMessageText != "" {
		t["--user-msg-text"] = o.UserMessageText
	}
}
