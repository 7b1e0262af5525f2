package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting WidgetConfig. It also saves the config to .embedchat.yml.
func RunWizard() (*WidgetConfig, error) {
	fmt.Println("Welcome to embedchat! Let's configure your widget.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Relay webhook URL.
	urlPrompt := promptui.Prompt{
		Label: "Relay webhook URL",
		Validate: func(s string) error {
			u, err := url.Parse(s)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("enter a full URL including scheme")
			}
			return nil
		},
	}
	webhookURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("webhook url: %w", err)
	}
	cfg.Connection.WebhookURL = webhookURL

	// 2. Widget id and license key.
	idPrompt := promptui.Prompt{
		Label: "Widget ID",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("widget id is required")
			}
			return nil
		},
	}
	widgetID, err := idPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("widget id: %w", err)
	}
	cfg.Connection.WidgetID = widgetID

	licensePrompt := promptui.Prompt{Label: "License key (optional)"}
	licenseKey, err := licensePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("license key: %w", err)
	}
	cfg.Connection.LicenseKey = licenseKey

	// 3. Theme mode.
	themePrompt := promptui.Select{
		Label: "Base theme",
		Items: []string{"light", "dark"},
	}
	_, themeStr, err := themePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("theme selection: %w", err)
	}
	cfg.Style.Theme = ThemeMode(themeStr)

	// 4. Accent color.
	accentPrompt := promptui.Prompt{
		Label:   "Accent color (hex)",
		Default: "#4f46e5",
		Validate: func(s string) error {
			s = strings.TrimPrefix(s, "#")
			if len(s) != 6 && len(s) != 3 {
				return fmt.Errorf("enter a 3 or 6 digit hex color")
			}
			return nil
		},
	}
	accent, err := accentPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("accent color: %w", err)
	}
	cfg.Style.Accent = &Accent{Color: accent, Level: 1}

	// 5. File upload.
	uploadPrompt := promptui.Select{
		Label: "Enable file uploads",
		Items: []string{"no", "yes"},
	}
	uploadIdx, _, err := uploadPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("file upload selection: %w", err)
	}
	cfg.Features.FileUpload = uploadIdx == 1

	if err := cfg.Save(".embedchat.yml"); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println("Configuration saved to .embedchat.yml")
	return cfg, nil
}
