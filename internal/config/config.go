package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads the widget configuration from the given YAML file, then
// overlays environment variable overrides (EMBEDCHAT_*).
func Load(path string) (*WidgetConfig, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: EMBEDCHAT_CONNECTION_WEBHOOK_URL ->
	// connection.webhook_url, etc. A single underscore separates path
	// segments only at known section boundaries, so field names keep
	// their own underscores.
	if err := k.Load(env.Provider("EMBEDCHAT_", ".", envKeyToPath), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// sections are the top-level config keys an env override may target.
var sections = []string{"branding", "style", "connection", "features", "extra_inputs"}

// envKeyToPath maps EMBEDCHAT_CONNECTION_WEBHOOK_URL to connection.webhook_url.
func envKeyToPath(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "EMBEDCHAT_"))
	for _, sec := range sections {
		if strings.HasPrefix(s, sec+"_") {
			return sec + "." + strings.TrimPrefix(s, sec+"_")
		}
	}
	return s
}

// Save writes the configuration to the given YAML file path.
func (c *WidgetConfig) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validThemes is the set of recognized theme modes.
var validThemes = map[ThemeMode]bool{
	ThemeLight: true,
	ThemeDark:  true,
}

// validRadii is the set of recognized radius presets.
var validRadii = map[RadiusPreset]bool{
	RadiusNone:   true,
	RadiusSmall:  true,
	RadiusMedium: true,
	RadiusLarge:  true,
	RadiusPill:   true,
}

// validSpacings is the set of recognized spacing presets.
var validSpacings = map[SpacingPreset]bool{
	SpacingCompact:  true,
	SpacingNormal:   true,
	SpacingSpacious: true,
}

// Validate checks that the configuration contains valid values. Only
// fields the runtime cannot degrade gracefully around are rejected;
// theme derivation tolerates anything else.
func (c *WidgetConfig) Validate() error {
	if c.Connection.WebhookURL == "" {
		return fmt.Errorf("connection.webhook_url is required")
	}
	u, err := url.Parse(c.Connection.WebhookURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid connection.webhook_url %q", c.Connection.WebhookURL)
	}

	if c.Connection.WidgetID == "" {
		return fmt.Errorf("connection.widget_id is required")
	}

	if c.Style.Theme != "" && !validThemes[c.Style.Theme] {
		return fmt.Errorf("invalid style.theme %q: must be light or dark", c.Style.Theme)
	}
	if c.Style.Radius != "" && !validRadii[c.Style.Radius] {
		return fmt.Errorf("invalid style.radius %q: must be one of none, small, medium, large, pill", c.Style.Radius)
	}
	if c.Style.Spacing != "" && !validSpacings[c.Style.Spacing] {
		return fmt.Errorf("invalid style.spacing %q: must be one of compact, normal, spacious", c.Style.Spacing)
	}

	if c.Features.MaxAttachmentBytes < 0 {
		return fmt.Errorf("features.max_attachment_bytes must be non-negative")
	}

	return nil
}
