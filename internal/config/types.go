package config

// ThemeMode selects the base palette the widget renders with.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// RadiusPreset selects the corner rounding applied to widget surfaces.
type RadiusPreset string

const (
	RadiusNone   RadiusPreset = "none"
	RadiusSmall  RadiusPreset = "small"
	RadiusMedium RadiusPreset = "medium"
	RadiusLarge  RadiusPreset = "large"
	RadiusPill   RadiusPreset = "pill"
)

// SpacingPreset selects the density of widget layout spacing.
type SpacingPreset string

const (
	SpacingCompact  SpacingPreset = "compact"
	SpacingNormal   SpacingPreset = "normal"
	SpacingSpacious SpacingPreset = "spacious"
)

// WidgetConfig is the full widget configuration, corresponding to
// .embedchat.yml locally or the per-widget config endpoint remotely.
// Nearly every field is optional; missing values fall back to defaults
// during theme derivation.
type WidgetConfig struct {
	Branding    Branding          `json:"branding" yaml:"branding" koanf:"branding"`
	Style       Style             `json:"style" yaml:"style" koanf:"style"`
	Connection  Connection        `json:"connection" yaml:"connection" koanf:"connection"`
	Features    Features          `json:"features" yaml:"features" koanf:"features"`
	ExtraInputs map[string]string `json:"extra_inputs,omitempty" yaml:"extra_inputs,omitempty" koanf:"extra_inputs"`
}

// Branding holds the operator-facing text and imagery.
type Branding struct {
	Title          string `json:"title,omitempty" yaml:"title,omitempty" koanf:"title"`
	Subtitle       string `json:"subtitle,omitempty" yaml:"subtitle,omitempty" koanf:"subtitle"`
	LogoURL        string `json:"logo_url,omitempty" yaml:"logo_url,omitempty" koanf:"logo_url"`
	WelcomeMessage string `json:"welcome_message,omitempty" yaml:"welcome_message,omitempty" koanf:"welcome_message"`
}

// Grayscale parameterizes the neutral palette ramp.
type Grayscale struct {
	Hue   float64 `json:"hue" yaml:"hue" koanf:"hue"`
	Tint  float64 `json:"tint" yaml:"tint" koanf:"tint"`
	Shade float64 `json:"shade" yaml:"shade" koanf:"shade"`
}

// Accent parameterizes the primary accent color and its derived variants.
type Accent struct {
	Color string `json:"color" yaml:"color" koanf:"color"`
	Level int    `json:"level" yaml:"level" koanf:"level"`
}

// Overrides are explicit color values that always win over derived ones.
type Overrides struct {
	SurfaceBackground     string `json:"surface_background,omitempty" yaml:"surface_background,omitempty" koanf:"surface_background"`
	SurfaceElevated       string `json:"surface_elevated,omitempty" yaml:"surface_elevated,omitempty" koanf:"surface_elevated"`
	ComposerBackground    string `json:"composer_background,omitempty" yaml:"composer_background,omitempty" koanf:"composer_background"`
	IconColor             string `json:"icon_color,omitempty" yaml:"icon_color,omitempty" koanf:"icon_color"`
	UserMessageBackground string `json:"user_message_background,omitempty" yaml:"user_message_background,omitempty" koanf:"user_message_background"`
	UserMessageText       string `json:"user_message_text,omitempty" yaml:"user_message_text,omitempty" koanf:"user_message_text"`
}

// Style holds everything the theme engine consumes.
type Style struct {
	Theme      ThemeMode     `json:"theme,omitempty" yaml:"theme,omitempty" koanf:"theme"`
	Grayscale  *Grayscale    `json:"grayscale,omitempty" yaml:"grayscale,omitempty" koanf:"grayscale"`
	Accent     *Accent       `json:"accent,omitempty" yaml:"accent,omitempty" koanf:"accent"`
	Radius     RadiusPreset  `json:"radius,omitempty" yaml:"radius,omitempty" koanf:"radius"`
	Spacing    SpacingPreset `json:"spacing,omitempty" yaml:"spacing,omitempty" koanf:"spacing"`
	FontFamily string        `json:"font_family,omitempty" yaml:"font_family,omitempty" koanf:"font_family"`
	Overrides  Overrides     `json:"overrides,omitempty" yaml:"overrides,omitempty" koanf:"overrides"`
}

// Connection identifies the widget and the relay endpoint it talks to.
type Connection struct {
	WebhookURL    string            `json:"webhook_url" yaml:"webhook_url" koanf:"webhook_url"`
	WidgetID      string            `json:"widget_id" yaml:"widget_id" koanf:"widget_id"`
	LicenseKey    string            `json:"license_key" yaml:"license_key" koanf:"license_key"`
	CustomContext map[string]string `json:"custom_context,omitempty" yaml:"custom_context,omitempty" koanf:"custom_context"`
}

// Features toggles optional widget behavior.
type Features struct {
	FileUpload         bool     `json:"file_upload" yaml:"file_upload" koanf:"file_upload"`
	PageContext        bool     `json:"page_context" yaml:"page_context" koanf:"page_context"`
	AllowedAttachments []string `json:"allowed_attachments,omitempty" yaml:"allowed_attachments,omitempty" koanf:"allowed_attachments"`
	MaxAttachmentBytes int64    `json:"max_attachment_bytes,omitempty" yaml:"max_attachment_bytes,omitempty" koanf:"max_attachment_bytes"`
}
