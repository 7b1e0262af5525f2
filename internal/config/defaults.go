package config

// DefaultAllowedAttachments are the attachment glob patterns permitted
// when the config does not specify its own allow-list.
var DefaultAllowedAttachments = []string{
	"*.pdf",
	"*.png",
	"*.jpg",
	"*.jpeg",
	"*.gif",
	"*.txt",
	"*.csv",
	"*.md",
}

// DefaultMaxAttachmentBytes caps a single attachment at 10 MiB.
const DefaultMaxAttachmentBytes = 10 << 20

// DefaultConfig returns a WidgetConfig with sensible defaults.
func DefaultConfig() *WidgetConfig {
	return &WidgetConfig{
		Branding: Branding{
			Title:          "Chat with us",
			WelcomeMessage: "Hi! How can we help you today?",
		},
		Style: Style{
			Theme:   ThemeLight,
			Radius:  RadiusMedium,
			Spacing: SpacingNormal,
		},
		Features: Features{
			FileUpload:         false,
			PageContext:        true,
			AllowedAttachments: DefaultAllowedAttachments,
			MaxAttachmentBytes: DefaultMaxAttachmentBytes,
		},
	}
}
